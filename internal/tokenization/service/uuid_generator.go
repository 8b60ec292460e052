package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type uuidGenerator struct {
	compact bool
}

// NewUUIDGenerator creates a generator of UUIDv7 tokens. A compact generator drops
// the dashes. The length parameter of Generate is ignored.
func NewUUIDGenerator(compact bool) TokenGenerator {
	return &uuidGenerator{compact: compact}
}

func (g *uuidGenerator) Generate(int) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	if g.compact {
		return strings.ReplaceAll(id.String(), "-", ""), nil
	}
	return id.String(), nil
}

func (g *uuidGenerator) Validate(token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return errors.New("invalid UUID format")
	}
	if g.compact && strings.Contains(token, "-") {
		return errors.New("compact UUID must not contain dashes")
	}
	return nil
}
