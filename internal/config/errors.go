package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by Validate when a loaded value breaks a
	// field constraint.
	ErrInvalidConfig = errors.New("invalid raidstats config")
	// ErrLoadConfig covers every failure to read or decode a config source.
	ErrLoadConfig = errors.New("load raidstats config")
	// ErrConfigFile narrows ErrLoadConfig to the RAIDSTATS_CONFIG file.
	ErrConfigFile = fmt.Errorf("%w: config file", ErrLoadConfig)
)
