// Package plot ties a record snapshot and its color-by attributes to a
// render.Controller.
package plot

import (
	"fmt"
	"slices"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
	"scatterview/internal/logging"
	"scatterview/internal/pointbuf"
	"scatterview/internal/render"
)

// Plotter rebuilds the point buffer whenever the data or the active
// attribute changes. Like the Controller it is single-threaded.
type Plotter struct {
	ctrl     *render.Controller
	excluded []string

	records     []geom.Record
	descriptors []encode.Descriptor
	attr        string
}

// Option configures a Plotter.
type Option func(*Plotter)

// WithAttribute sets the initial color-by attribute.
func WithAttribute(name string) Option {
	return func(p *Plotter) { p.attr = name }
}

// WithExcluded sets the attribute names hidden from the attribute switch.
func WithExcluded(names ...string) Option {
	return func(p *Plotter) { p.excluded = names }
}

// New returns a Plotter drawing through ctrl. The default attribute is
// "Labels" and "Tags" is excluded from the switch.
func New(ctrl *render.Controller, opts ...Option) *Plotter {
	p := &Plotter{
		ctrl:     ctrl,
		attr:     "Labels",
		excluded: []string{"Tags"},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetData takes a new record snapshot. Nothing is drawn until every record is
// projected. The first projected snapshot frames the camera; later ones keep
// it. On error the previously drawn buffer stays on screen.
func (p *Plotter) SetData(records []geom.Record, descriptors []encode.Descriptor) error {
	p.records = records
	p.descriptors = descriptors
	if p.Descriptor() == nil {
		if names := p.Selectable(); len(names) > 0 {
			p.attr = names[0]
		}
	}
	if !geom.Projected(records) {
		logging.Logger().Debug("plot: waiting for projections", "records", len(records))
		return nil
	}
	if err := p.ctrl.Frame(records); err != nil {
		return err
	}
	return p.redraw()
}

// SetAttribute switches the color-by attribute and redraws. Excluded names
// are accepted here; they are only hidden from the switch.
func (p *Plotter) SetAttribute(name string) error {
	if encode.Find(p.descriptors, name) == nil {
		return fmt.Errorf("set attribute: unknown attribute %q", name)
	}
	prev := p.attr
	p.attr = name
	if !geom.Projected(p.records) {
		return nil
	}
	if err := p.redraw(); err != nil {
		p.attr = prev
		return err
	}
	return nil
}

// Attribute is the active color-by attribute name.
func (p *Plotter) Attribute() string { return p.attr }

// Descriptor is the active attribute descriptor, or nil.
func (p *Plotter) Descriptor() *encode.Descriptor {
	return encode.Find(p.descriptors, p.attr)
}

func (p *Plotter) Descriptors() []encode.Descriptor { return p.descriptors }

func (p *Plotter) Records() []geom.Record { return p.records }

// Selectable lists the attribute names offered by the attribute switch.
func (p *Plotter) Selectable() []string {
	return encode.Selectable(p.descriptors, p.excluded)
}

// Excluded reports whether name is hidden from the attribute switch.
func (p *Plotter) Excluded(name string) bool {
	return slices.Contains(p.excluded, name)
}

// Loading is true until the first successful draw.
func (p *Plotter) Loading() bool { return p.ctrl.Loading() }

func (p *Plotter) Controller() *render.Controller { return p.ctrl }

func (p *Plotter) redraw() error {
	d := p.Descriptor()
	if d == nil {
		return fmt.Errorf("redraw: unknown attribute %q", p.attr)
	}
	palette := d.Palette()
	buf, err := pointbuf.Build(p.records, d)
	if err != nil {
		logging.Logger().Warn("plot: buffer rebuild failed", "attr", d.Name, "err", err)
		return err
	}
	p.ctrl.SetPoints(buf, palette)
	return nil
}
