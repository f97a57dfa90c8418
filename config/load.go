package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/teranos/schemagen/errors"
)

// New builds a viper instance reading defaults, the nearest project config above
// dir on fs, and SCHEMAGEN_* environment variables.
func New(fs afero.Fs, dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetFs(fs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if file := FindProjectConfig(fs, dir); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", file)
		}
	}
	return v, nil
}

// Load reads the configuration that applies in dir.
func Load(fs afero.Fs, dir string) (*Config, error) {
	v, err := New(fs, dir)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	config.File = v.ConfigFileUsed()

	if err := config.Validate(); err != nil {
		if config.File != "" {
			return nil, errors.Wrapf(err, "invalid configuration in %s", config.File)
		}
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &config, nil
}

// FindProjectConfig searches for a project config file by walking up the
// directory tree from dir. Returns the first file found, or empty string.
func FindProjectConfig(fs afero.Fs, dir string) string {
	dir = filepath.Clean(dir)
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if ok, _ := afero.Exists(fs, candidate); ok {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}
