// Package codegen produces random fixed-length short codes.
package codegen

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet holds the 62 symbols a code is drawn from.
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// DefaultLength is the number of characters in a code unless configured otherwise.
	DefaultLength = 7
	// MaxLength matches the width of the code column.
	MaxLength = 32
)

// ErrInvalidLength is returned by New for a length outside 1..MaxLength.
var ErrInvalidLength = errors.New("invalid code length")

// Generator draws codes of a fixed length from Alphabet using crypto/rand.
type Generator struct {
	length int
}

// New creates a Generator producing codes of the given length.
func New(length int) (*Generator, error) {
	const op = "codegen.New"

	if length <= 0 || length > MaxLength {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrInvalidLength, length)
	}

	return &Generator{length: length}, nil
}

// Length returns the number of characters in every generated code.
func (g *Generator) Length() int {
	return g.length
}

// Generate returns a new code. Every call is an independent uniform draw,
// so two calls may return the same code.
func (g *Generator) Generate() string {
	// Alphabet and length are validated by New, so this cannot panic.
	return gonanoid.MustGenerate(Alphabet, g.length)
}
