package classifier

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Images   []string `yaml:"images"`
}

type Taxonomy struct {
	PartialWeight float64    `yaml:"partial_weight"`
	Categories    []Category `yaml:"categories"`
	Fallback      []string   `yaml:"fallback"`
}

// DefaultTaxonomy returns the built-in category table.
func DefaultTaxonomy() (*Taxonomy, error) {
	return ParseTaxonomy(defaultTaxonomy)
}

// LoadTaxonomy reads a YAML table from path, or the built-in one when path is empty.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return ParseTaxonomy(data)
}

func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	for i := range t.Categories {
		for j, kw := range t.Categories[i].Keywords {
			t.Categories[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return errors.New("taxonomy: no categories")
	}
	if len(t.Fallback) == 0 {
		return errors.New("taxonomy: no fallback images")
	}
	if t.PartialWeight < 0 {
		return errors.New("taxonomy: partial_weight must not be negative")
	}
	seen := make(map[string]bool, len(t.Categories))
	for _, c := range t.Categories {
		if c.Name == "" {
			return errors.New("taxonomy: category without a name")
		}
		if seen[c.Name] {
			return fmt.Errorf("taxonomy: duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Keywords) == 0 {
			return fmt.Errorf("taxonomy: category %q has no keywords", c.Name)
		}
		for _, kw := range c.Keywords {
			if kw == "" {
				return fmt.Errorf("taxonomy: category %q has an empty keyword", c.Name)
			}
		}
		if len(c.Images) == 0 {
			return fmt.Errorf("taxonomy: category %q has no images", c.Name)
		}
	}
	return nil
}
