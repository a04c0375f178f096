package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration loading
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrUnsupportedFormat = goerr.New("unsupported file format")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	BackendKey    = "backend"
	ExtensionKey  = "extension"
	CodeKey       = "code"
)
