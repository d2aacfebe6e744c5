package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. Match them with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// Both are also ErrInvalidConfig.
	ErrUnknownStrategy  = fmt.Errorf("%w: unknown parent_domain_strategy", ErrInvalidConfig)
	ErrUnknownLogFormat = fmt.Errorf("%w: unknown log_format", ErrInvalidConfig)
)
