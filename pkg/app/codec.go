package app

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

const (
	// TokenAlphabet 62 个符号：a-z A-Z 0-9
	TokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultTokenLength 默认 40 位，约 238 bit 熵
	DefaultTokenLength = 40
	// MinTokenLength 最短 32 位，约 190 bit 熵
	MinTokenLength = 32

	CodecAlphanumeric = "alphanumeric"
	CodecUUID         = "uuid"
)

// ErrTokenTooShort 配置的长度低于 MinTokenLength
var ErrTokenTooShort = errors.New("token length below minimum")

// TokenCodec generates bearer capability tokens
// TokenCodec 生成分享用的能力 Token
type TokenCodec interface {
	Generate() (string, error)
	// EntropyBits 单个 Token 的熵（bit）
	EntropyBits() float64
}

// AlphanumericCodec draws every character uniformly from TokenAlphabet using crypto/rand
type AlphanumericCodec struct {
	length int
	rand   io.Reader
}

// NewAlphanumericCodec 创建字母数字 Token 生成器
func NewAlphanumericCodec(length int) (*AlphanumericCodec, error) {
	if length == 0 {
		length = DefaultTokenLength
	}
	if length < MinTokenLength {
		return nil, fmt.Errorf("%w: %d < %d", ErrTokenTooShort, length, MinTokenLength)
	}
	return &AlphanumericCodec{length: length, rand: rand.Reader}, nil
}

// Generate 生成 Token
// Bytes >= 248 are rejected so that 256 mod 62 does not bias the first symbols.
func (c *AlphanumericCodec) Generate() (string, error) {
	const limit = 256 - 256%len(TokenAlphabet)

	out := make([]byte, 0, c.length)
	buf := make([]byte, c.length+c.length/4)
	for len(out) < c.length {
		if _, err := io.ReadFull(c.rand, buf); err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, TokenAlphabet[int(b)%len(TokenAlphabet)])
			if len(out) == c.length {
				break
			}
		}
	}
	return string(out), nil
}

func (c *AlphanumericCodec) EntropyBits() float64 {
	// log2(62) ≈ 5.954
	return float64(c.length) * 5.954196310386876
}

func (c *AlphanumericCodec) Length() int {
	return c.length
}

// UUIDCodec 生成 v4 UUID（122 bit 随机）
type UUIDCodec struct{}

func (UUIDCodec) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (UUIDCodec) EntropyBits() float64 {
	return 122
}

// NewTokenCodec 根据配置选择 Token 生成器
func NewTokenCodec(kind string, length int) (TokenCodec, error) {
	switch kind {
	case "", CodecAlphanumeric:
		return NewAlphanumericCodec(length)
	case CodecUUID:
		return UUIDCodec{}, nil
	}
	return nil, fmt.Errorf("unknown token codec %q", kind)
}

// MaskToken 日志中只保留前 6 位
func MaskToken(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "…"
}
