// Package config loads schemagen settings with viper.
//
// Sources, lowest precedence first: built-in defaults, the nearest
// schemagen.toml (or schemagen.yaml) found walking up from the working
// directory, SCHEMAGEN_* environment variables, command-line flags.
package config

import (
	"runtime"
)

// EnvPrefix is the prefix of environment overrides, e.g. SCHEMAGEN_OUT.
const EnvPrefix = "SCHEMAGEN"

// FileNames are the project config files searched for, in preference order.
var FileNames = []string{"schemagen.toml", "schemagen.yaml", "schemagen.yml"}

// Config is the complete generator configuration.
type Config struct {
	// Out is the directory all artifacts are written under.
	Out string `mapstructure:"out" toml:"out" yaml:"out" json:"out"`

	// RootTypes are the reserved root operation types. Roots declared by the
	// schema itself are added to these.
	RootTypes []string `mapstructure:"root_types" toml:"root_types" yaml:"root_types" json:"root_types"`

	// Formatter is a command line that formats TypeScript read from stdin,
	// e.g. "npx prettier --stdin-filepath {file}". Empty uses the built-in
	// whitespace normalizer.
	Formatter string `mapstructure:"formatter" toml:"formatter" yaml:"formatter" json:"formatter"`

	// RegenerateCommand is quoted in the banner of owned files.
	// Empty means "schemagen <schema path>".
	RegenerateCommand string `mapstructure:"regenerate_command" toml:"regenerate_command" yaml:"regenerate_command" json:"regenerate_command"`

	// Workers bounds the per-category fan-out. 0 uses GOMAXPROCS.
	Workers int `mapstructure:"workers" toml:"workers" yaml:"workers" json:"workers"`

	// File is the project config file that was read, empty if none.
	File string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// Regenerate returns the command quoted in owned file banners.
func (c *Config) Regenerate(schemaPath string) string {
	if c.RegenerateCommand != "" {
		return c.RegenerateCommand
	}
	return "schemagen " + schemaPath
}

// WorkerLimit returns the effective fan-out bound.
func (c *Config) WorkerLimit() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
