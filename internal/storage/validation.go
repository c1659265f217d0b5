// Package storage provides the data persistence layer for ccgen.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidBIN  = errors.New("BIN must contain only digits")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateBIN ensures a BIN is a non-empty run of ASCII digits.
func validateBIN(bin string) error {
	if err := validateString(bin, "bin"); err != nil {
		return err
	}
	for _, r := range bin {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidBIN, bin)
		}
	}
	return nil
}
