// Package dataset loads point records from files and infers the attribute
// descriptors used to color them.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
	"scatterview/internal/logging"
)

var ErrUnsupported = errors.New("dataset: unsupported file")

// Extensions lists the file types Load understands.
var Extensions = []string{".csv", ".geojson", ".json", ".kml", ".wkt"}

func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Load reads path with the loader matching its extension.
func Load(path string) ([]geom.Record, error) {
	var (
		records []geom.Record
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = LoadCSV(path)
	case ".geojson", ".json":
		records, err = LoadGeoJSON(path)
	case ".kml":
		records, err = LoadKML(path)
	case ".wkt":
		records, err = LoadWKT(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	logging.Logger().Info("dataset loaded", "path", path, "records", len(records))
	return records, nil
}

// Infer builds one descriptor per attribute name, sorted by name. An attribute
// whose values are all numbers is continuous over [min, max] with the gradient
// colors. Anything else is discrete: options in first-seen order, colored by
// cycling palette; string lists take part through their first value.
func Infer(records []geom.Record, palette, gradient []string) []encode.Descriptor {
	var names []string
	seen := map[string]bool{}
	for _, r := range records {
		for k := range r.Attrs {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	slices.Sort(names)

	ds := make([]encode.Descriptor, 0, len(names))
	for _, name := range names {
		if d, ok := continuous(records, name, gradient); ok {
			ds = append(ds, d)
			continue
		}
		ds = append(ds, discrete(records, name, palette))
	}
	return ds
}

func continuous(records []geom.Record, name string, gradient []string) (encode.Descriptor, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		f, ok := r.Attrs[name].(float64)
		if !ok {
			return encode.Descriptor{}, false
		}
		lo, hi = min(lo, f), max(hi, f)
	}
	return encode.Descriptor{
		Name:  name,
		Kind:  encode.Continuous,
		Range: encode.Range{Min: lo, Max: hi, Colors: slices.Clone(gradient)},
	}, true
}

func discrete(records []geom.Record, name string, palette []string) encode.Descriptor {
	d := encode.Descriptor{Name: name, Kind: encode.Discrete, Value: func(r *geom.Record) any {
		return Label(r.Attrs[name])
	}}
	index := map[string]bool{}
	for _, r := range records {
		l := Label(r.Attrs[name])
		if index[l] {
			continue
		}
		index[l] = true
		c := encode.Fallback.Hex()
		if len(palette) > 0 {
			c = palette[len(d.Options)%len(palette)]
		}
		d.Options = append(d.Options, encode.Option{Label: l, Color: c})
	}
	return d
}

// Label renders an attribute value as a discrete label. Missing values are
// the empty label; string lists use their first value.
func Label(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		if l, ok := encode.FirstValue(x).(string); ok {
			return l
		}
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
