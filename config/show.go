package config

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
)

// Formats lists the encodings Marshal supports.
var Formats = []string{"toml", "json", "yaml"}

// Marshal encodes the effective configuration, ready to be saved as a project file.
func Marshal(c *Config, format string) ([]byte, error) {
	switch format {
	case "toml":
		data, err := toml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return append([]byte("# schemagen configuration\n"), data...), nil

	case "yaml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return append([]byte("# schemagen configuration\n"), data...), nil

	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil
	}
	return nil, errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
}
