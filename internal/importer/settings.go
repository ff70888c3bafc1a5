package importer

import (
	"fmt"
	"slices"

	"github.com/Faultbox/pointseq/pkg/normalize"
)

// Settings are the user-editable color options, filled in by the UI layer
// and handed to the importer as one value.
type Settings struct {
	// Attribute is the point data name mapped to color; empty disables
	// color mapping and writes zeros.
	Attribute string
	// UseRealValue passes components through instead of rescaling magnitudes.
	UseRealValue bool
	// Range is used by the magnitude policy only. Min <= Max is expected.
	Range normalize.Range
}

// DefaultSettings disables color mapping and rescales magnitudes over
// [0, 100].
func DefaultSettings() Settings {
	return Settings{Range: normalize.Range{Min: 0, Max: 100}}
}

// Policy returns the normalizer policy for these settings.
func (s Settings) Policy() normalize.Policy {
	return normalize.Policy{RealValue: s.UseRealValue, Range: s.Range}
}

// validate checks the attribute against the names discovered at import.
func (s Settings) validate(attributes []string) error {
	if s.Attribute == "" || slices.Contains(attributes, s.Attribute) {
		return nil
	}
	return fmt.Errorf("%w: attribute %q not in %v", ErrInvalidSettings, s.Attribute, attributes)
}
