package config

import (
	"regexp"

	"github.com/teranos/schemagen/errors"
)

var typeName = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Out == "" {
		return errors.New("out cannot be empty")
	}

	// Workers: 0 = GOMAXPROCS, negative = invalid
	if c.Workers < 0 {
		return errors.Newf("workers must be >= 0, got %d", c.Workers)
	}

	seen := make(map[string]bool, len(c.RootTypes))
	for _, name := range c.RootTypes {
		if !typeName.MatchString(name) {
			return errors.Newf("root_types entry %q is not a GraphQL type name", name)
		}
		if seen[name] {
			return errors.Newf("root_types lists %q twice", name)
		}
		seen[name] = true
	}
	return nil
}
