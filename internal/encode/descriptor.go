// Package encode maps record attributes onto the per-point color channel
// consumed by rendering surfaces.
package encode

import (
	"slices"

	"scatterview/internal/geom"
)

// Kind distinguishes categorical attributes from numeric ones.
type Kind int

const (
	Discrete Kind = iota
	Continuous
)

func (k Kind) String() string {
	switch k {
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	}
	return "unknown"
}

// Option is one category of a discrete attribute.
type Option struct {
	Label string
	Color string
}

// Range is the value domain and gradient of a continuous attribute.
type Range struct {
	Min    float64
	Max    float64
	Colors []string
}

// Descriptor describes one color-by attribute. Options is used for Discrete,
// Range for Continuous. Value extracts the record's value; when nil the
// record's Attrs entry under Name is used.
type Descriptor struct {
	Name    string
	Kind    Kind
	Options []Option
	Range   Range
	Value   func(r *geom.Record) any
}

func (d *Descriptor) value(r *geom.Record) any {
	if d.Value != nil {
		return d.Value(r)
	}
	if r.Attrs == nil {
		return nil
	}
	return d.attr(r.Attrs[d.Name])
}

func (d *Descriptor) attr(v any) any {
	if vs, ok := v.([]string); ok {
		return FirstValue(vs)
	}
	return v
}

// FirstValue returns the first element of a multi-valued attribute, or nil.
// Only the first value takes part in color matching.
func FirstValue(vs []string) any {
	if len(vs) == 0 {
		return nil
	}
	return vs[0]
}

// Palette snapshots the colors the descriptor's color channel indexes into.
func (d *Descriptor) Palette() Palette {
	p := Palette{Kind: d.Kind}
	switch d.Kind {
	case Discrete:
		p.Colors = make([]string, len(d.Options))
		for i, o := range d.Options {
			p.Colors[i] = o.Color
		}
	case Continuous:
		p.Colors = slices.Clone(d.Range.Colors)
	}
	return p
}

// Find returns the descriptor with the given name, or nil.
func Find(ds []Descriptor, name string) *Descriptor {
	for i := range ds {
		if ds[i].Name == name {
			return &ds[i]
		}
	}
	return nil
}

// Selectable returns the names offered by the attribute switch, in order,
// leaving out the excluded ones.
func Selectable(ds []Descriptor, excluded []string) []string {
	names := make([]string, 0, len(ds))
	for _, d := range ds {
		if slices.Contains(excluded, d.Name) {
			continue
		}
		names = append(names, d.Name)
	}
	return names
}
