package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound_Message(t *testing.T) {
	err := NotFound("instrument", "Kazoo")
	assert.EqualError(t, err, "instrument error - Kazoo not found")
}

func TestNotFound_MatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NotFound("mode", "Hypodorian"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalid)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "mode", nf.Field)
	assert.Equal(t, "Hypodorian", nf.Value)
}

func TestInvalid(t *testing.T) {
	err := Invalid("octave %d out of range", 9)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "octave 9 out of range")
}
