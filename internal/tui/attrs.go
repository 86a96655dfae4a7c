package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"

	"scatterview/internal/encode"
)

type attrItem struct {
	name string
	desc string
}

func (a attrItem) Title() string       { return a.name }
func (a attrItem) Description() string { return a.desc }
func (a attrItem) FilterValue() string { return a.name }

// refreshAttrs rebuilds the attribute switch from the session's descriptors.
// Excluded attributes are left out; the active one is preselected.
func (m *Model) refreshAttrs() {
	if m.s == nil {
		m.attrs.SetItems(nil)
		return
	}
	p := m.s.plotter
	var items []list.Item
	active := 0
	for _, name := range p.Selectable() {
		d := encode.Find(p.Descriptors(), name)
		if d == nil {
			continue
		}
		if name == p.Attribute() {
			active = len(items)
		}
		items = append(items, attrItem{name: name, desc: describe(d)})
	}
	m.attrs.SetItems(items)
	if len(items) > 0 {
		m.attrs.Select(active)
	}
}

func describe(d *encode.Descriptor) string {
	switch d.Kind {
	case encode.Discrete:
		return fmt.Sprintf("%d categories", len(d.Options))
	case encode.Continuous:
		return fmt.Sprintf("%g .. %g", d.Range.Min, d.Range.Max)
	}
	return d.Kind.String()
}

// applyAttr switches the plot to the attribute under the list cursor.
func (m *Model) applyAttr() {
	if m.s == nil {
		return
	}
	it, ok := m.attrs.SelectedItem().(attrItem)
	if !ok {
		return
	}
	if err := m.s.plotter.SetAttribute(it.name); err != nil {
		m.status = "attribute error: " + err.Error()
		return
	}
	m.status = "color by " + it.name
}
