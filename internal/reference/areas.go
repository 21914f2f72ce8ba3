package reference

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed areas.yaml
var defaultAreasYAML []byte

// AreaInfo describes one entry of the area enumeration.
type AreaInfo struct {
	Code  Area   `yaml:"code" json:"code"`
	Name  string `yaml:"name" json:"name"`
	Order int    `yaml:"order,omitempty" json:"order"`
}

// AreaCatalog is the fixed enumeration of AFAM areas offered at the top of
// the cascade.
type AreaCatalog struct {
	Name  string     `yaml:"name" json:"name"`
	Items []AreaInfo `yaml:"items" json:"items"`
}

// DefaultAreas returns the built-in catalog (ABA, AND, ANAD, ISSM, ISIA).
func DefaultAreas() AreaCatalog {
	c, err := ParseAreas(defaultAreasYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded area catalog: %v", err))
	}
	return c
}

// LoadAreas reads a catalog from a YAML file. An empty path returns the
// built-in catalog.
func LoadAreas(path string) (AreaCatalog, error) {
	if path == "" {
		return DefaultAreas(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AreaCatalog{}, fmt.Errorf("read area catalog: %w", err)
	}
	return ParseAreas(data)
}

// ParseAreas decodes a YAML catalog and orders it by Order, then Code.
func ParseAreas(data []byte) (AreaCatalog, error) {
	var c AreaCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return AreaCatalog{}, fmt.Errorf("parse area catalog: %w", err)
	}

	seen := make(map[Area]bool)
	for _, it := range c.Items {
		if it.Code == "" {
			return AreaCatalog{}, fmt.Errorf("parse area catalog: item with empty code")
		}
		if seen[it.Code] {
			return AreaCatalog{}, fmt.Errorf("parse area catalog: duplicate code %q", it.Code)
		}
		seen[it.Code] = true
	}

	sort.SliceStable(c.Items, func(i, j int) bool {
		if c.Items[i].Order != c.Items[j].Order {
			return c.Items[i].Order < c.Items[j].Order
		}
		return c.Items[i].Code < c.Items[j].Code
	})
	return c, nil
}

// Known reports whether code is part of the catalog.
func (c AreaCatalog) Known(code Area) bool {
	for _, it := range c.Items {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the catalog codes in display order.
func (c AreaCatalog) Codes() []Area {
	out := make([]Area, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Code
	}
	return out
}
