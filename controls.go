package filters

// ControlOption is one rendered choice of a select or multi-select control.
type ControlOption struct {
	Value    string
	Label    string
	Selected bool
	Checked  bool
}

// Control is the render model of one field: the current value and, per kind,
// its options or range bounds.
type Control struct {
	Field   Field
	Value   string
	Start   string
	End     string
	Options []ControlOption
}

// Active reports whether the control currently filters anything.
func (c Control) Active() bool {
	return c.Value != "" || c.Start != "" || c.End != ""
}

// Controls builds the render model for every field of schema from set.
func Controls(schema Schema, set FilterSet) []Control {
	fields := schema.Fields()
	controls := make([]Control, 0, len(fields))
	for _, field := range fields {
		control := Control{Field: field}
		switch field.Kind {
		case KindDateRange:
			control.Start = set[RangeStartKey(field.Name)]
			control.End = set[RangeEndKey(field.Name)]
		case KindSelect:
			control.Value = set[field.Name]
			control.Options = make([]ControlOption, 0, len(field.Options))
			for _, choice := range field.Options {
				control.Options = append(control.Options, ControlOption{
					Value:    choice.Value,
					Label:    choice.Label,
					Selected: choice.Value == control.Value,
				})
			}
		case KindMultiSelect:
			control.Value = set[field.Name]
			selected := MultiSelect(SplitMulti(control.Value)...)
			control.Options = make([]ControlOption, 0, len(field.Options))
			for _, choice := range field.Options {
				control.Options = append(control.Options, ControlOption{
					Value:   choice.Value,
					Label:   choice.Label,
					Checked: selected.Contains(choice.Value),
				})
			}
		default:
			control.Value = set[field.Name]
		}
		controls = append(controls, control)
	}
	return controls
}

// ToggleChoice flips value in the multi-select field and returns the partial
// update to apply. Deselecting the last option yields an empty entry, which
// removes the key. Selected values are not checked against the field
// options, so a set adopted from the address bar stays editable.
func ToggleChoice(schema Schema, set FilterSet, field, value string) (FilterSet, error) {
	if err := checkToggle(schema, field); err != nil {
		return nil, err
	}
	return FilterSet{field: toggleJoined(set[field], value)}, nil
}

func checkToggle(schema Schema, field string) error {
	f, ok := schema.Field(field)
	if !ok {
		return fieldError(field, ErrUnknownField)
	}
	if f.Kind != KindMultiSelect {
		return fieldError(field, ErrKindMismatch)
	}
	return nil
}

func toggleJoined(raw, option string) string {
	return JoinMulti(MultiSelect(SplitMulti(raw)...).Toggle(option).Values())
}
