package encode

import (
	"errors"
	"fmt"

	"scatterview/internal/geom"
)

// ErrAttributeMismatch is returned when a record's value has no place in the
// descriptor: an unknown discrete label or a non-numeric continuous value.
var ErrAttributeMismatch = errors.New("encode: attribute mismatch")

// Encode returns the record's color channel value for d: the option ordinal
// for discrete attributes, the min-max normalized value for continuous ones.
// Continuous values outside [Min, Max] are passed through unclamped.
func Encode(d *Descriptor, r *geom.Record) (float64, error) {
	v := d.value(r)
	switch d.Kind {
	case Discrete:
		label, ok := v.(string)
		if !ok {
			return 0, fmt.Errorf("%w: %s: record %d: value %v is not a label", ErrAttributeMismatch, d.Name, r.ID, v)
		}
		for i, o := range d.Options {
			if o.Label == label {
				return float64(i), nil
			}
		}
		return 0, fmt.Errorf("%w: %s: record %d: no option %q", ErrAttributeMismatch, d.Name, r.ID, label)
	case Continuous:
		f, ok := number(v)
		if !ok {
			return 0, fmt.Errorf("%w: %s: record %d: value %v is not numeric", ErrAttributeMismatch, d.Name, r.ID, v)
		}
		return Normalize(f, d.Range.Min, d.Range.Max), nil
	}
	return 0, fmt.Errorf("%w: %s: unknown kind %d", ErrAttributeMismatch, d.Name, d.Kind)
}

// Normalize maps value from [min, max] onto [0, 1].
func Normalize(value, min, max float64) float64 {
	return (value - min) / (max - min)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
