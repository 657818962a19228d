package filters

import (
	"sort"

	"github.com/goliatone/go-filters/layering"
)

// FieldKind identifies how a filter field renders and how its value is
// encoded into a FilterSet.
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindNumber      FieldKind = "number"
	KindSelect      FieldKind = "select"
	KindDate        FieldKind = "date"
	KindDateRange   FieldKind = "date-range"
	KindMultiSelect FieldKind = "multi-select"
)

// Valid reports whether k is one of the supported kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindSelect, KindDate, KindDateRange, KindMultiSelect:
		return true
	default:
		return false
	}
}

// HasChoices reports whether fields of this kind carry a closed option set.
func (k FieldKind) HasChoices() bool {
	return k == KindSelect || k == KindMultiSelect
}

// Choice is one selectable option of a select or multi-select field.
type Choice struct {
	Value string `json:"value" mapstructure:"value"`
	Label string `json:"label" mapstructure:"label"`
}

// Field describes one filter input. Fields are static schema, never data.
type Field struct {
	Name    string    `json:"name" mapstructure:"name"`
	Label   string    `json:"label" mapstructure:"label"`
	Kind    FieldKind `json:"kind" mapstructure:"kind"`
	Options []Choice  `json:"options,omitempty" mapstructure:"options"`
}

// Keys returns the FilterSet keys owned by the field. Date ranges own two
// independent keys.
func (f Field) Keys() []string {
	if f.Kind == KindDateRange {
		return []string{RangeStartKey(f.Name), RangeEndKey(f.Name)}
	}
	return []string{f.Name}
}

// HasChoice reports whether value is one of the field's options.
func (f Field) HasChoice(value string) bool {
	for _, choice := range f.Options {
		if choice.Value == value {
			return true
		}
	}
	return false
}

// RangeStartKey returns the start key of a date-range field.
func RangeStartKey(name string) string {
	return name + "_start"
}

// RangeEndKey returns the end key of a date-range field.
func RangeEndKey(name string) string {
	return name + "_end"
}

// FilterSet maps filter keys to their string values. Externally visible
// sets never hold empty values.
type FilterSet map[string]string

// Normalize returns a copy of s without empty values. The result is never nil.
func (s FilterSet) Normalize() FilterSet {
	return FilterSet(layering.MergeLayers(s))
}

// Clone returns a detached copy of s.
func (s FilterSet) Clone() FilterSet {
	return FilterSet(layering.Clone(s))
}

// Count returns the number of keys holding a non-empty value.
func (s FilterSet) Count() int {
	count := 0
	for _, value := range s {
		if value != "" {
			count++
		}
	}
	return count
}

// Active reports whether at least one key holds a non-empty value.
func (s FilterSet) Active() bool {
	return s.Count() > 0
}

// Keys returns the non-empty keys sorted alphabetically.
func (s FilterSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for key, value := range s {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both sets hold the same non-empty keys and values.
func (s FilterSet) Equal(other FilterSet) bool {
	a, b := s.Normalize(), other.Normalize()
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		if b[key] != value {
			return false
		}
	}
	return true
}
