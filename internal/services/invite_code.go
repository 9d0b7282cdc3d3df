package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	codeBytes     = 16
	maxCodeLength = 64
)

// CodeGenerator produces invite codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Codec turns 128 bits of entropy into a 32 character hex invite code.
type Codec struct {
	entropy io.Reader
}

// NewCodec uses crypto/rand when entropy is nil.
func NewCodec(entropy io.Reader) *Codec {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Codec{entropy: entropy}
}

// Generate never falls back to weaker randomness; a short read is an error.
func (c *Codec) Generate() (string, error) {
	var buf [codeBytes]byte
	if _, err := io.ReadFull(c.entropy, buf[:]); err != nil {
		return "", fmt.Errorf("read invite code entropy: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// WellFormed reports whether code could have been issued: 1..64 characters of
// [A-Za-z0-9_-].
func WellFormed(code string) bool {
	if len(code) == 0 || len(code) > maxCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
		default:
			return false
		}
	}
	return true
}
