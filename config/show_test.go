package config

import (
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleConfig() *Config {
	return &Config{
		Out:               "web/gql",
		RootTypes:         []string{"Query", "Mutation"},
		Formatter:         "prettier --stdin-filepath {file}",
		RegenerateCommand: "make gql",
		Workers:           2,
		File:              "/work/schemagen.toml",
	}
}

func TestMarshalTOMLRoundTripsThroughLoad(t *testing.T) {
	data, err := Marshal(sampleConfig(), "toml")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "/work/schemagen.toml", "the source file is not part of the config")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/schemagen.toml", data, 0o644))
	cfg, err := Load(fs, "/p")
	require.NoError(t, err)

	want := sampleConfig()
	want.File = "/p/schemagen.toml"
	assert.Equal(t, want, cfg)
}

func TestMarshalFormats(t *testing.T) {
	c := sampleConfig()

	data, err := Marshal(c, "yaml")
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, "web/gql", fromYAML["out"])

	data, err = Marshal(c, "json")
	require.NoError(t, err)
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, "make gql", fromJSON["regenerate_command"])
	assert.NotContains(t, fromJSON, "File")

	data, err = Marshal(c, "toml")
	require.NoError(t, err)
	var fromTOML map[string]any
	require.NoError(t, toml.Unmarshal(data, &fromTOML))
	assert.Equal(t, int64(2), fromTOML["workers"])

	_, err = Marshal(c, "xml")
	assert.Error(t, err)
}
