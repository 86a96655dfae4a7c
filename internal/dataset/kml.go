package dataset

import (
	"encoding/xml"
	"errors"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	"scatterview/internal/geom"
)

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPlacemark struct {
	Name       string    `xml:"name"`
	Visibility *int      `xml:"visibility"`
	Point      *kmlPoint `xml:"Point"`
	Data       []kmlData `xml:"ExtendedData>Data"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	Loose      []kmlPlacemark `xml:"Placemark"`
}

// LoadKML extracts point records from a KML file (Placemark > Point > coordinates).
// KML coordinates are "lon,lat[,alt]"; altitude is ignored. The placemark name
// and its ExtendedData entries become attributes, numeric values as float64.
func LoadKML(path string) ([]geom.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseKML(data)
}

func ParseKML(data []byte) ([]geom.Record, error) {
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var records []geom.Record
	for _, pm := range append(doc.Placemarks, doc.Loose...) {
		if pm.Point == nil {
			continue
		}
		attrs := map[string]any{}
		if pm.Name != "" {
			attrs["name"] = strings.TrimSpace(pm.Name)
		}
		for _, d := range pm.Data {
			v := strings.TrimSpace(d.Value)
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				attrs[d.Name] = f
			} else {
				attrs[d.Name] = v
			}
		}
		visible := pm.Visibility == nil || *pm.Visibility != 0
		// coordinates may contain multiple tuples separated by spaces
		for _, tuple := range strings.Fields(pm.Point.Coordinates) {
			vals := strings.Split(tuple, ",")
			if len(vals) < 2 {
				continue
			}
			lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			records = append(records, geom.Record{
				ID:         len(records),
				Projection: &geom.Point{X: lon, Y: lat},
				Visible:    visible,
				Attrs:      maps.Clone(attrs),
			})
		}
	}
	if len(records) == 0 {
		return nil, errors.New("kml: no points found")
	}
	return records, nil
}
