package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	// sha256("")
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum(nil))
	assert.Len(t, Sum([]byte("C major")), 64)
}

func TestSumJSON(t *testing.T) {
	data, sum, err := SumJSON(map[string]int{"root": 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":0}`, string(data))
	assert.Equal(t, Sum(data), sum)

	_, _, err = SumJSON(make(chan int))
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	tag := ETag("abc")
	assert.Equal(t, `"abc"`, tag)

	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"xyz", "abc"`, true},
		{`"xyz"`, false},
		{"abc", false},
		{"*", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.header, tag), "header %q", tt.header)
	}
}
