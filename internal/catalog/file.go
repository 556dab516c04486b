package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a local catalog file. YAML files carry the list form
// directly; anything else is decoded as the published JSON document.
func LoadFile(path string) ([]Country, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw []Country
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode catalog yaml: %w", err)
		}
		return Normalize(raw), nil
	default:
		countries, err := decodeCountries(data)
		if err != nil {
			return nil, fmt.Errorf("decode catalog json: %w", err)
		}
		return countries, nil
	}
}
