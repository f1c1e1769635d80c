// internal/form/definition.go
//
// Card form – YAML definition loader.
//
// Context
//   The presentation of the card form (title, label, placeholder, button
//   text) is declared in YAML so themes can reword it without a rebuild.
//   Validation rules are NOT configurable here; they live in validate.go.
//
//   The form has exactly one field and that field must be "cardName".
//   LoadDefinition rejects anything else so the renderer and the Tracker
//   always agree on the field set.
//
// Example
//
//	id: cards/new
//	title: New card
//	field:
//	  name: cardName
//	  label: Card name
//	  placeholder: Completed Tasks
//	submit: Add card
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition describes how the card form is presented.
type Definition struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Field  FieldDef `yaml:"field"`
	Submit string   `yaml:"submit"` // submit button text
}

// FieldDef describes the single input.
type FieldDef struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Placeholder string `yaml:"placeholder"`
}

// DefaultDefinition is used when no definition file is configured.
func DefaultDefinition() *Definition {
	return &Definition{
		ID:    "cards/new",
		Title: "New card",
		Field: FieldDef{
			Name:        FieldCardName,
			Label:       "Card name",
			Placeholder: "Completed Tasks",
		},
		Submit: "Add card",
	}
}

// LoadDefinition parses one YAML file.  Missing presentation strings fall
// back to DefaultDefinition.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}

	def := DefaultDefinition()
	if err := yaml.Unmarshal(raw, def); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", path, err)
	}
	if err := validateDefinition(def, path); err != nil {
		return nil, err
	}
	return def, nil
}

// validateDefinition enforces the single-field rule.
func validateDefinition(def *Definition, path string) error {
	if def.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", path)
	}
	if def.Field.Name != FieldCardName {
		return fmt.Errorf("form definition %s: field must be named %q, got %q",
			path, FieldCardName, def.Field.Name)
	}
	if def.Field.Label == "" {
		return fmt.Errorf("form definition %s: field %q missing 'label'", path, def.Field.Name)
	}
	return nil
}
