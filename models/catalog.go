package models

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog lists the options offered for every enumerated form field
type Catalog struct {
	Colors        []string `yaml:"colors"`
	StandardSizes []string `yaml:"standardSizes"`
	SizingTypes   []string `yaml:"sizingTypes"`
	Genders       []string `yaml:"genders"`
	FabricTypes   []string `yaml:"fabricTypes"`
	Fits          []string `yaml:"fits"`

	Male struct {
		CollarStyles []string `yaml:"collarStyles"`
		CuffTypes    []string `yaml:"cuffTypes"`
		PocketStyles []string `yaml:"pocketStyles"`
		TrouserFits  []string `yaml:"trouserFits"`
		JacketStyles []string `yaml:"jacketStyles"`
		ButtonCounts []int    `yaml:"buttonCounts"`
	} `yaml:"male"`

	Female struct {
		SleeveStyles []string `yaml:"sleeveStyles"`
		Necklines    []string `yaml:"necklines"`
		Hemlines     []string `yaml:"hemlines"`
		DressLengths []string `yaml:"dressLengths"`
		Closures     []string `yaml:"closures"`
	} `yaml:"female"`
}

var (
	catalogOnce sync.Once
	catalog     *Catalog
	catalogErr  error
)

// ParseCatalog decodes a catalog document
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, name := range c.Colors {
		if !KnownColor(Color(name)) {
			return nil, fmt.Errorf("catalog color %q has no swatch", name)
		}
	}
	return &c, nil
}

// DefaultCatalog returns the embedded option catalog
func DefaultCatalog() *Catalog {
	catalogOnce.Do(func() {
		catalog, catalogErr = ParseCatalog(catalogYAML)
	})
	if catalogErr != nil {
		// the embedded file is covered by tests
		panic(catalogErr)
	}
	return catalog
}

// ButtonCountOptions returns the button counts as select option values
func (c *Catalog) ButtonCountOptions() []string {
	out := make([]string, len(c.Male.ButtonCounts))
	for i, n := range c.Male.ButtonCounts {
		out[i] = strconv.Itoa(n)
	}
	return out
}
