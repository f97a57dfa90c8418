package config

import "github.com/spf13/viper"

// Default values
const (
	DefaultOut = "src/graphql"
)

// DefaultRootTypes are reserved when no root_types are configured.
var DefaultRootTypes = []string{"Query", "Mutation"}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("out", DefaultOut)
	v.SetDefault("root_types", DefaultRootTypes)
	v.SetDefault("formatter", "")
	v.SetDefault("regenerate_command", "")
	v.SetDefault("workers", 0) // GOMAXPROCS
}
