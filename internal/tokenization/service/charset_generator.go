package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// MaxTokenLength is the longest token a local vault issues.
	MaxTokenLength = 255

	numericChars      = "0123456789"
	alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// printable ASCII without space, quote and backslash
	asciiChars = "!#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[]^_`abcdefghijklmnopqrstuvwxyz{|}~"
)

type charsetGenerator struct {
	charset string
	label   string
}

// NewNumericGenerator creates a generator of random digit strings.
func NewNumericGenerator() TokenGenerator {
	return &charsetGenerator{charset: numericChars, label: "numeric"}
}

// NewAlphanumericGenerator creates a generator of random [A-Za-z0-9] strings.
func NewAlphanumericGenerator() TokenGenerator {
	return &charsetGenerator{charset: alphanumericChars, label: "alphanumeric"}
}

// NewASCIIGenerator creates a generator of random printable ASCII strings.
func NewASCIIGenerator() TokenGenerator {
	return &charsetGenerator{charset: asciiChars, label: "ascii"}
}

// Generate returns a cryptographically random string of length characters.
func (g *charsetGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", errors.New("length must be at least 1")
	}
	if length > MaxTokenLength {
		return "", errors.New("length must not exceed 255")
	}

	token := make([]byte, length)
	charsLen := big.NewInt(int64(len(g.charset)))

	for i := range token {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		token[i] = g.charset[n.Int64()]
	}

	return string(token), nil
}

// Validate checks the token only uses characters of the generator's charset.
func (g *charsetGenerator) Validate(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if !g.accepts(token) {
		return fmt.Errorf("token must contain only %s characters", g.label)
	}
	return nil
}

func (g *charsetGenerator) accepts(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune(g.charset, c) {
			return false
		}
	}
	return true
}
