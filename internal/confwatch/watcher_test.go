package confwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/starford/tessitura/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startWatch runs Watch in the background and returns a stop function that
// cancels it and waits for it to return.
func startWatch(t *testing.T, path string, debounce time.Duration, reload ReloadFunc) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, debounce, testutil.Logger(), reload) }()

	// Give fsnotify time to register the directory.
	time.Sleep(100 * time.Millisecond)

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: {}\n"), 0o644))

	var reloads atomic.Int32
	stop := startWatch(t, path, 50*time.Millisecond, func() { reloads.Add(1) })
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("app: {http: {port: 9090}}\n"), 0o644))

	testutil.Eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return reloads.Load() >= 1
	}, "write did not trigger a reload")
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 0\n"), 0o644))

	var reloads atomic.Int32
	stop := startWatch(t, path, 300*time.Millisecond, func() { reloads.Add(1) })
	defer stop()

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte("a: "+string(rune('1'+i))+"\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	testutil.Eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return reloads.Load() >= 1
	}, "burst did not trigger a reload")
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), reloads.Load())
}

func TestWatch_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 0\n"), 0o644))

	var reloads atomic.Int32
	stop := startWatch(t, path, 20*time.Millisecond, func() { reloads.Add(1) })
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 1\n"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, reloads.Load())
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.yaml"), 0, testutil.Logger(), func() {})
	assert.Error(t, err)
}
