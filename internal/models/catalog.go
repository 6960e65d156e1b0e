package models

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model maps a human-readable label to an upstream model identifier
type Model struct {
	Label string `json:"label" yaml:"label"`
	ID    string `json:"id"    yaml:"id"`
}

// DefaultModels is the built-in model catalog. The first entry is the default selection.
var DefaultModels = []Model{
	{
		Label: "LLaMA 4 Scout (default)",
		ID:    "meta-llama/llama-4-scout-17b-16e-instruct",
	},
	{
		Label: "LLaMA 4 Maverick",
		ID:    "meta-llama/llama-4-maverick-17b-128e-instruct",
	},
}

var ErrEmptyCatalog = errors.New("model catalog is empty")

// Catalog is an immutable, ordered set of selectable models
type Catalog struct {
	models  []Model
	byLabel map[string]string
	ids     map[string]bool
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := NewCatalog(DefaultModels)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog, rejecting empty, blank or duplicate entries
func NewCatalog(entries []Model) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		models:  make([]Model, 0, len(entries)),
		byLabel: make(map[string]string, len(entries)),
		ids:     make(map[string]bool, len(entries)),
	}
	for i, m := range entries {
		if m.Label == "" || m.ID == "" {
			return nil, fmt.Errorf("model %d: label and id are required", i)
		}
		if _, dup := c.byLabel[m.Label]; dup {
			return nil, fmt.Errorf("duplicate model label: %s", m.Label)
		}
		if c.ids[m.ID] {
			return nil, fmt.Errorf("duplicate model id: %s", m.ID)
		}
		c.models = append(c.models, m)
		c.byLabel[m.Label] = m.ID
		c.ids[m.ID] = true
	}
	return c, nil
}

// catalogFile is the on-disk layout of a catalog override
type catalogFile struct {
	Models []Model `yaml:"models"`
}

// LoadCatalog reads a YAML catalog of the form:
//
//	models:
//	  - label: LLaMA 4 Scout (default)
//	    id: meta-llama/llama-4-scout-17b-16e-instruct
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog %s: %w", path, err)
	}
	return NewCatalog(f.Models)
}

// Resolve returns the model id for a label. An empty label selects the default model.
func (c *Catalog) Resolve(label string) (string, bool) {
	if label == "" {
		return c.models[0].ID, true
	}
	id, ok := c.byLabel[label]
	return id, ok
}

// IsValidModel checks if a model id exists in the catalog
func (c *Catalog) IsValidModel(id string) bool {
	return c.ids[id]
}

// DefaultModel returns the model selected when none is given
func (c *Catalog) DefaultModel() Model {
	return c.models[0]
}

// Models returns the catalog entries in display order
func (c *Catalog) Models() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}
