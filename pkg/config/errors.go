package config

import "github.com/pkg/errors"

// Errors returned while loading configuration.
var (
	ErrConfSourceNotFound = errors.New("configuration source not found")
	ErrNoConfigFiles      = errors.New("no configuration files found")
	ErrDuplicateKey       = errors.New("duplicate top-level key")
	ErrTemplateValue      = errors.New("no value for template key")
	ErrInvalidConfig      = errors.New("configuration file must contain a mapping")
)
