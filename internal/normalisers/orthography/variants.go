package orthography

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VariantFile is the on-disk shape of a spelling-variant table:
//
//	variants:
//	  tragedy: [tragedie, tragoedie]
//	  love: [loue]
type VariantFile struct {
	Variants map[string][]string `yaml:"variants"`
}

// LoadVariantFile reads a spelling-variant table from a YAML file.
func LoadVariantFile(path string) (*VariantFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var vf VariantFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parsing variant file %s: %w", path, err)
	}
	return &vf, nil
}

// NewFromFile creates a normaliser with the built-in table extended by
// the entries in path. An empty path yields the built-in table alone.
func NewFromFile(path string) (*Normaliser, error) {
	n := New()
	if path == "" {
		return n, nil
	}

	vf, err := LoadVariantFile(path)
	if err != nil {
		return nil, err
	}
	if err := n.AddVariants(vf.Variants); err != nil {
		return nil, fmt.Errorf("variant file %s: %w", path, err)
	}
	return n, nil
}

var standard = New()

// Normalise returns the canonical form of s using the built-in table.
func Normalise(s string) string {
	return standard.Normalise(s)
}
