package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ehr/fhirview/internal/normalize"
)

// LoadMetadata reads a YAML table of resource labels and icons and layers it
// over the built-in table. An empty path returns the built-in table.
//
//	Condition: {label: Condition, icon: condition.svg}
func LoadMetadata(path string) (normalize.MetadataTable, error) {
	defaults := normalize.DefaultMetadata()
	if path == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	var table normalize.MetadataTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse metadata file %s: %w", path, err)
	}
	return defaults.Merge(table), nil
}
