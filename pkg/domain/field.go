// Package domain defines the entity types of the configuration document
// and the tri-state fields used for mutually exclusive paired values.
package domain

// FieldState distinguishes a field that was never set from one that was
// explicitly set, including set-to-empty. The distinction matters for
// paired alternative encodings: a present-empty field is authoritative and
// must never be re-filled from a default.
type FieldState int

// Field states.
const (
	FieldAbsent FieldState = iota
	FieldEmpty
	FieldSet
)

// ListField is a tri-state list of scalars.
type ListField struct {
	State  FieldState `json:"state"`
	Values []float64  `json:"values,omitempty"`
}

// AbsentField returns a field that was never set.
func AbsentField() ListField { return ListField{} }

// EmptyField returns a field explicitly set to no values.
func EmptyField() ListField { return ListField{State: FieldEmpty} }

// SetField returns a field holding the given values. With no values it
// degrades to the explicit empty state.
func SetField(values ...float64) ListField {
	if len(values) == 0 {
		return EmptyField()
	}
	return ListField{State: FieldSet, Values: append([]float64(nil), values...)}
}

// Present reports whether the field was explicitly set, even to empty.
func (f ListField) Present() bool { return f.State != FieldAbsent }

// Populated reports whether the field carries at least one value.
func (f ListField) Populated() bool { return f.State == FieldSet && len(f.Values) > 0 }

// Clone returns a copy that shares no backing storage.
func (f ListField) Clone() ListField {
	f.Values = append([]float64(nil), f.Values...)
	return f
}

// ResolveAlternative resolves one side of a mutually exclusive field pair.
// A present field wins even when empty. When the field is absent but its
// pair is present, the pair is authoritative and this side resolves to
// nothing. The fallback applies only when neither side was ever set.
func ResolveAlternative(field, paired ListField, fallback []float64) []float64 {
	switch {
	case field.Present():
		return append([]float64(nil), field.Values...)
	case paired.Present():
		return nil
	default:
		return append([]float64(nil), fallback...)
	}
}

// ResolveTiming resolves a duration/rate pair into at most one populated
// representation. Both sides populated is a conflict: the document has no
// single legal rendering and the caller must not guess.
func ResolveTiming(owner string, durations, rates ListField, fallbackDurations, fallbackRates []float64) (dur, rt []float64, err error) {
	if durations.Populated() && rates.Populated() {
		return nil, nil, ErrConflict{Entity: owner, Field: "timing"}
	}
	dur = ResolveAlternative(durations, rates, fallbackDurations)
	rt = ResolveAlternative(rates, durations, fallbackRates)
	if len(dur) > 0 && len(rt) > 0 {
		// both fallbacks supplied with neither side set: durations win
		rt = nil
	}
	return dur, rt, nil
}
