package services

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecGenerate(t *testing.T) {
	code, err := NewCodec(bytes.NewReader(bytes.Repeat([]byte{0xab}, 16))).Generate()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ab", 16), code)
	assert.True(t, WellFormed(code))
}

func TestCodecEntropyFailurePropagates(t *testing.T) {
	_, err := NewCodec(bytes.NewReader([]byte{1, 2, 3})).Generate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestCodecCollisionFree(t *testing.T) {
	codec := NewCodec(nil)
	const n = 100000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		code, err := codec.Generate()
		require.NoError(t, err)
		require.Len(t, code, 32)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s after %d draws", code, i)
		seen[code] = struct{}{}
	}
}

func TestWellFormed(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"abc123", true},
		{"A_b-9", true},
		{"", false},
		{"has space", false},
		{"slash/inside", false},
		{"ünïcode", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WellFormed(tt.code), "WellFormed(%q)", tt.code)
	}
}
