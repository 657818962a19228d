package filters

import (
	"fmt"
	"strings"
)

// MultiSelectSeparator joins multi-select option values into one string.
const MultiSelectSeparator = ","

// Value is a typed filter value. String encoding is confined to
// Schema.Encode and Schema.Decode.
type Value struct {
	kind   FieldKind
	text   string
	values []string
	start  string
	end    string
}

// Text returns a free text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value kept as typed by the user.
func Number(s string) Value {
	return Value{kind: KindNumber, text: s}
}

// Select returns a single-select value. The empty string means no filter.
func Select(option string) Value {
	return Value{kind: KindSelect, text: option}
}

// Date returns an ISO date value. No range validation is performed.
func Date(iso string) Value {
	return Value{kind: KindDate, text: iso}
}

// DateRange returns a range whose bounds are independent; start > end is
// accepted.
func DateRange(start, end string) Value {
	return Value{kind: KindDateRange, start: start, end: end}
}

// MultiSelect returns a multi-select value. Empty and repeated options are
// dropped, order is kept.
func MultiSelect(options ...string) Value {
	return Value{kind: KindMultiSelect, values: dedupe(options)}
}

// Kind returns the field kind the value was built for.
func (v Value) Kind() FieldKind {
	return v.kind
}

// String returns the scalar of text, number, select and date values.
func (v Value) String() string {
	return v.text
}

// Values returns the selected options of a multi-select value.
func (v Value) Values() []string {
	return append([]string(nil), v.values...)
}

// Range returns the bounds of a date-range value.
func (v Value) Range() (start, end string) {
	return v.start, v.end
}

// IsEmpty reports whether the value filters nothing.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindMultiSelect:
		return len(v.values) == 0
	case KindDateRange:
		return v.start == "" && v.end == ""
	default:
		return v.text == ""
	}
}

// Contains reports whether option is selected in a multi-select value.
func (v Value) Contains(option string) bool {
	for _, value := range v.values {
		if value == option {
			return true
		}
	}
	return false
}

// Toggle selects option when absent and deselects it when present.
func (v Value) Toggle(option string) Value {
	if v.Contains(option) {
		kept := make([]string, 0, len(v.values))
		for _, value := range v.values {
			if value != option {
				kept = append(kept, value)
			}
		}
		return Value{kind: KindMultiSelect, values: kept}
	}
	return MultiSelect(append(v.Values(), option)...)
}

// SplitMulti splits a stored multi-select string into option values.
func SplitMulti(raw string) []string {
	if raw == "" {
		return nil
	}
	return dedupe(strings.Split(raw, MultiSelectSeparator))
}

// JoinMulti joins option values into the stored multi-select string.
func JoinMulti(options []string) string {
	return strings.Join(dedupe(options), MultiSelectSeparator)
}

// Encode converts v into the FilterSet entries owned by the named field. An
// empty entry means the key should be removed, so the result can be passed to
// UpdateFilters as is.
func (s Schema) Encode(name string, v Value) (FilterSet, error) {
	field, ok := s.Field(name)
	if !ok {
		return nil, fieldError(name, ErrUnknownField)
	}
	if v.kind != field.Kind {
		return nil, fieldError(name, fmt.Errorf("%w: got %s, want %s", ErrKindMismatch, v.kind, field.Kind))
	}

	switch field.Kind {
	case KindDateRange:
		return FilterSet{
			RangeStartKey(name): v.start,
			RangeEndKey(name):   v.end,
		}, nil
	case KindMultiSelect:
		for _, option := range v.values {
			if !field.HasChoice(option) {
				return nil, fieldError(name, fmt.Errorf("%w: %q", ErrUnknownChoice, option))
			}
		}
		return FilterSet{name: JoinMulti(v.values)}, nil
	case KindSelect:
		if v.text != "" && !field.HasChoice(v.text) {
			return nil, fieldError(name, fmt.Errorf("%w: %q", ErrUnknownChoice, v.text))
		}
		return FilterSet{name: v.text}, nil
	default:
		return FilterSet{name: v.text}, nil
	}
}

// Decode reads the named field's Value out of set. Missing keys decode to
// the empty value of the field's kind.
func (s Schema) Decode(name string, set FilterSet) (Value, error) {
	field, ok := s.Field(name)
	if !ok {
		return Value{}, fieldError(name, ErrUnknownField)
	}
	switch field.Kind {
	case KindText:
		return Text(set[name]), nil
	case KindNumber:
		return Number(set[name]), nil
	case KindSelect:
		return Select(set[name]), nil
	case KindDate:
		return Date(set[name]), nil
	case KindDateRange:
		return DateRange(set[RangeStartKey(name)], set[RangeEndKey(name)]), nil
	case KindMultiSelect:
		return MultiSelect(SplitMulti(set[name])...), nil
	default:
		return Value{}, fieldError(name, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchema, field.Kind))
	}
}

func dedupe(options []string) []string {
	if len(options) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(options))
	out := make([]string, 0, len(options))
	for _, option := range options {
		if option == "" {
			continue
		}
		if _, ok := seen[option]; ok {
			continue
		}
		seen[option] = struct{}{}
		out = append(out, option)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
