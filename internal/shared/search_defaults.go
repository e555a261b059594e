package shared

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SearchDefaults is the optional YAML file behind SEARCH_DEFAULTS_PATH:
//
//	search:
//	  sort: rating
//	  view: list
//	amenities: [wifi, breakfast, shuttle]
type SearchDefaults struct {
	Search struct {
		Sort string `yaml:"sort"`
		View string `yaml:"view"`
	} `yaml:"search"`
	Amenities []string `yaml:"amenities"` // catalog offered to the UI as filter chips
}

func DefaultSearchDefaults() SearchDefaults {
	var d SearchDefaults
	d.Search.Sort = "price_low"
	d.Search.View = "grid"
	d.Amenities = []string{"wifi", "breakfast", "parking", "haram_view", "shuttle", "air_conditioning"}
	return d
}

// LoadSearchDefaults reads path; fields missing from the file keep the built-in value.
func LoadSearchDefaults(path string) (SearchDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SearchDefaults{}, fmt.Errorf("failed to read search defaults: %w", err)
	}
	d := DefaultSearchDefaults()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return SearchDefaults{}, fmt.Errorf("failed to parse search defaults: %w", err)
	}
	return d, nil
}
