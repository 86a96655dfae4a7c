package dataset

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strconv"

	"scatterview/internal/geom"
)

// LoadGeoJSON extracts point records from a GeoJSON file.
// Supports: Point, MultiPoint, Feature, FeatureCollection of Points/MultiPoints.
// Feature properties become record attributes; a boolean "visible" property
// controls visibility. Other geometry types are skipped.
func LoadGeoJSON(path string) ([]geom.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseGeoJSON(data)
}

func ParseGeoJSON(data []byte) ([]geom.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	t, _ := raw["type"].(string)
	if t == "" {
		return nil, errors.New("invalid geojson: missing type")
	}

	var records []geom.Record
	add := func(pt [2]float64, props map[string]any) {
		rec := geom.Record{
			ID:         len(records),
			Projection: &geom.Point{X: pt[0], Y: pt[1]},
			Visible:    true,
			Attrs:      map[string]any{},
		}
		for k, v := range props {
			if k == "visible" {
				if b, ok := v.(bool); ok {
					rec.Visible = b
					continue
				}
			}
			if a := property(v); a != nil {
				rec.Attrs[k] = a
			}
		}
		records = append(records, rec)
	}

	parsePoint := func(v any) (pt [2]float64, ok bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			x, xok := a[0].(float64)
			y, yok := a[1].(float64)
			if xok && yok {
				return [2]float64{x, y}, true
			}
		}
		return [2]float64{}, false
	}
	parseMulti := func(v any) (pts [][2]float64, ok bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		for _, el := range arr {
			if pt, ok := parsePoint(el); ok {
				pts = append(pts, pt)
			}
		}
		return pts, true
	}
	walkGeom := func(g map[string]any, props map[string]any) {
		gt, _ := g["type"].(string)
		switch gt {
		case "Point":
			if pt, ok := parsePoint(g["coordinates"]); ok {
				add(pt, props)
			}
		case "MultiPoint":
			if pts, ok := parseMulti(g["coordinates"]); ok {
				for _, p := range pts {
					add(p, props)
				}
			}
		}
	}
	walkFeature := func(fm map[string]any) {
		props, _ := fm["properties"].(map[string]any)
		if g, ok := fm["geometry"].(map[string]any); ok {
			walkGeom(g, props)
		}
	}

	switch t {
	case "Point", "MultiPoint":
		walkGeom(raw, nil)
	case "Feature":
		walkFeature(raw)
	case "FeatureCollection":
		if fs, ok := raw["features"].([]any); ok {
			for _, f := range fs {
				if fm, ok := f.(map[string]any); ok {
					walkFeature(fm)
				}
			}
		}
	default:
		return nil, errors.New("unsupported geojson type: " + t)
	}

	if len(records) == 0 {
		return nil, errors.New("no points found in geojson")
	}
	return records, nil
}

// property converts a decoded JSON value to an attribute value: numbers stay
// float64, booleans become labels, arrays become string lists.
func property(v any) any {
	switch x := v.(type) {
	case string, float64:
		return x
	case bool:
		return strconv.FormatBool(x)
	case []any:
		out := make([]string, 0, len(x))
		for _, el := range x {
			switch e := el.(type) {
			case string:
				out = append(out, e)
			case float64:
				out = append(out, strconv.FormatFloat(e, 'g', -1, 64))
			}
		}
		return out
	}
	return nil
}
