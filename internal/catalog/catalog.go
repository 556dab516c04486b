// Package catalog ingests the country/crop dataset the game is seeded
// from. Records are normalized and validated here, at the boundary, so
// the game engine never sees malformed entries.
package catalog

import (
	"encoding/json"
	"sort"
	"strings"

	"harvest/internal/game"
)

// defaultCropFact fills in for crops the dataset has no fact for yet.
const defaultCropFact = "We're still gathering data on this crop—stay tuned!"

// countryAliases maps dataset spellings onto their display names.
var countryAliases = map[string]string{
	"Cabo Verde":             "Cape Verde",
	"Côte d'Ivoire":          "Ivory Coast",
	"Congo":                  "Republic of the Congo",
	"Congo (Brazzaville)":    "Republic of the Congo",
	"Congo (Kinshasa)":       "Democratic Republic of the Congo",
	"DR Congo":               "Democratic Republic of the Congo",
	"São Tomé and Príncipe":  "Sao Tome and Principe",
}

type Crop struct {
	Name string `json:"name" yaml:"name"`
	Fact string `json:"fact" yaml:"fact"`
}

type Country struct {
	Name  string `json:"name" yaml:"name"`
	Crops []Crop `json:"crops" yaml:"crops"`
}

// CropNames returns just the crop labels, in dataset order.
func (c Country) CropNames() []string {
	out := make([]string, len(c.Crops))
	for i, crop := range c.Crops {
		out[i] = crop.Name
	}
	return out
}

// NormalizeName trims a country name and resolves known aliases.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if alias, ok := countryAliases[name]; ok {
		return alias
	}
	return name
}

// Normalize cleans raw records: names trimmed and de-aliased, missing
// crop facts defaulted, entries without a name or without crops
// dropped, result sorted by country name.
func Normalize(raw []Country) []Country {
	out := make([]Country, 0, len(raw))
	for _, c := range raw {
		name := NormalizeName(c.Name)
		if name == "" {
			continue
		}
		crops := make([]Crop, 0, len(c.Crops))
		for _, crop := range c.Crops {
			cropName := strings.TrimSpace(crop.Name)
			if cropName == "" {
				continue
			}
			fact := strings.TrimSpace(crop.Fact)
			if fact == "" {
				fact = defaultCropFact
			}
			crops = append(crops, Crop{Name: cropName, Fact: fact})
		}
		if len(crops) == 0 {
			continue
		}
		out = append(out, Country{Name: name, Crops: crops})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GameOptions converts catalog entries into the engine's country pool.
func GameOptions(countries []Country) []game.CountryOption {
	out := make([]game.CountryOption, len(countries))
	for i, c := range countries {
		out[i] = game.CountryOption{Name: c.Name, Crops: c.CropNames()}
	}
	return out
}

// rawCountry tolerates the dataset's two crop shapes: a list of
// {name, fact} objects or a flat name-to-fact map.
type rawCountry struct {
	Name  string          `json:"name"`
	Crops json.RawMessage `json:"crops"`
}

func (r rawCountry) country() Country {
	c := Country{Name: r.Name}
	if len(r.Crops) == 0 {
		return c
	}
	var list []Crop
	if err := json.Unmarshal(r.Crops, &list); err == nil {
		c.Crops = list
		return c
	}
	var flat map[string]string
	if err := json.Unmarshal(r.Crops, &flat); err == nil {
		names := make([]string, 0, len(flat))
		for name := range flat {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			c.Crops = append(c.Crops, Crop{Name: name, Fact: flat[name]})
		}
	}
	return c
}

func decodeCountries(data []byte) ([]Country, error) {
	var raw []rawCountry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]Country, len(raw))
	for i, r := range raw {
		out[i] = r.country()
	}
	return Normalize(out), nil
}
