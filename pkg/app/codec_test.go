package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphanumericCodec_Generate(t *testing.T) {
	c, err := NewAlphanumericCodec(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenLength, c.Length())
	assert.GreaterOrEqual(t, c.EntropyBits(), 122.0)

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := c.Generate()
		require.NoError(t, err)
		require.Len(t, tok, DefaultTokenLength)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %s", tok)
		seen[tok] = struct{}{}
	}
}

func TestAlphanumericCodec_TooShort(t *testing.T) {
	_, err := NewAlphanumericCodec(16)
	assert.True(t, errors.Is(err, ErrTokenTooShort))
}

func TestAlphanumericCodec_RejectsBiasedBytes(t *testing.T) {
	// 248..255 must be skipped; 0 maps to 'a', 61 to '9'
	src := append(bytes.Repeat([]byte{255, 248}, 20), bytes.Repeat([]byte{0, 61}, 40)...)
	c := &AlphanumericCodec{length: 32, rand: bytes.NewReader(src)}

	tok, err := c.Generate()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a9", 16), tok)
}

func TestAlphanumericCodec_ShortRandomSource(t *testing.T) {
	c := &AlphanumericCodec{length: 32, rand: bytes.NewReader([]byte{1, 2, 3})}
	_, err := c.Generate()
	assert.Error(t, err)
}

func TestAlphanumericCodec_AlphabetProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("tokens only use the 62 symbol alphabet at the configured length", prop.ForAll(
		func(length int) bool {
			c, err := NewAlphanumericCodec(length)
			if err != nil {
				return false
			}
			tok, err := c.Generate()
			if err != nil || len(tok) != length {
				return false
			}
			for _, r := range tok {
				if !strings.ContainsRune(TokenAlphabet, r) {
					return false
				}
			}
			return true
		},
		gen.IntRange(MinTokenLength, 128),
	))

	properties.TestingRun(t)
}

func TestUUIDCodec(t *testing.T) {
	c, err := NewTokenCodec(CodecUUID, 0)
	require.NoError(t, err)
	tok, err := c.Generate()
	require.NoError(t, err)

	id, err := uuid.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
	assert.Equal(t, 122.0, c.EntropyBits())
}

func TestNewTokenCodec_Unknown(t *testing.T) {
	_, err := NewTokenCodec("base32", 40)
	assert.Error(t, err)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "abcdef…", MaskToken("abcdefghijkl"))
	assert.Equal(t, "***", MaskToken("abc"))
}
