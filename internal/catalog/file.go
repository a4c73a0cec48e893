package catalog

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type catalogFile struct {
	Category []Category `toml:"category"`
}

// LoadFile reads extra categories from a TOML file and merges them over the
// default catalog. An empty path returns the default catalog.
//
//	[[category]]
//	name = "cloud"
//	skills = ["pulumi", "openstack"]
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file %q: %w", path, err)
	}

	return Default().Merge(file.Category...), nil
}
