package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func loadFailed(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLoadConfig, source, err)
}
