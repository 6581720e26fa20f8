package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/tessitura/internal"
	"github.com/starford/tessitura/internal/api"
	"github.com/starford/tessitura/internal/engine"
	"github.com/starford/tessitura/internal/report"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, json or yaml",
		Value:   string(report.Text),
	}
}

// newService builds a service whose defaults come from the config file.
func newService(cmd *cli.Command) (*api.Service, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	e, err := engine.New()
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}
	if err := internal.CheckDefaults(e, cfg.Defaults); err != nil {
		return nil, err
	}
	return api.NewService(e, cfg.Defaults.Selection()), nil
}

func render(cmd *cli.Command, v any) error {
	f, err := report.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	return report.Write(cmd.Root().Writer, f, v)
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Print the notes of a scale or mode on an instrument",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "instrument", Aliases: []string{"i"}, Usage: "Instrument name"},
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "Key signature, e.g. \"F#\" or \"a harmonic\""},
			&cli.StringFlag{Name: "scale", Aliases: []string{"s"}, Usage: "Scale name; overrides the key's own pattern"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Mode name, built on the key's relative major"},
			&cli.StringFlag{Name: "pitch", Aliases: []string{"p"}, Usage: "Concert or Instrument"},
			&cli.StringFlag{Name: "display", Aliases: []string{"d"}, Usage: "Ascending, Descending or \"Ascending and Descending\""},
			&cli.IntFlag{Name: "octave", Aliases: []string{"o"}, Usage: "Start at this octave instead of the lowest playable tonic"},
			formatFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			_, res, err := svc.Resolve(engine.Selection{
				Instrument: cmd.String("instrument"),
				Key:        cmd.String("key"),
				Scale:      cmd.String("scale"),
				Mode:       cmd.String("mode"),
				Pitch:      cmd.String("pitch"),
				Display:    cmd.String("display"),
				Octave:     int(cmd.Int("octave")),
			})
			if err != nil {
				return err
			}
			return render(cmd, res)
		},
	}
}

// catalogCommand lists a catalog, or shows one entry when a name is given.
func catalogCommand(name, usage string, list func(*api.Service) any, lookup func(*api.Service, string) (any, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[NAME]",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			if cmd.Args().Len() == 0 {
				return render(cmd, list(svc))
			}
			v, err := lookup(svc, cmd.Args().First())
			if err != nil {
				return err
			}
			return render(cmd, v)
		},
	}
}

func keysCommand() *cli.Command {
	return catalogCommand("keys", "List key signatures",
		func(s *api.Service) any { return s.Keys() },
		func(s *api.Service, name string) (any, error) {
			v, err := s.Key(name)
			return []engine.KeyView{v}, err
		})
}

func keyboardCommand() *cli.Command {
	return catalogCommand("keyboard", "List keyboard notes",
		func(s *api.Service) any { return s.Keyboard() },
		func(s *api.Service, name string) (any, error) {
			v, err := s.Note(name)
			return []engine.NoteView{v}, err
		})
}

func instrumentsCommand() *cli.Command {
	return catalogCommand("instruments", "List instruments and their ranges",
		func(s *api.Service) any { return s.Instruments() },
		func(s *api.Service, name string) (any, error) {
			v, err := s.Instrument(name)
			return []engine.InstrumentView{v}, err
		})
}

func scalesCommand() *cli.Command {
	return catalogCommand("scales", "List scales",
		func(s *api.Service) any { return s.Scales() },
		func(s *api.Service, name string) (any, error) {
			v, err := s.Scale(name)
			return []engine.ScaleView{v}, err
		})
}

func modesCommand() *cli.Command {
	return catalogCommand("modes", "List modes",
		func(s *api.Service) any { return s.Modes() },
		func(s *api.Service, name string) (any, error) {
			v, err := s.Mode(name)
			return []engine.ScaleView{v}, err
		})
}
