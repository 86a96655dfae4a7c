package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"scatterview/internal/geom"
)

// LoadCSV reads a CSV file with a header row. Column detection:
// x|lon|lng|long|longitude and y|lat|latitude (case-insensitive). An optional
// visible column hides rows whose value parses as false. Every other column is
// an attribute: numeric when all of its cells parse as numbers, a string list
// when named tags (split on ';'), text otherwise. Rows without valid
// coordinates are skipped.
func LoadCSV(path string) ([]geom.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(r io.Reader) ([]geom.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	header := rows[0]
	idxX, idxY, idxVis := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x", "lon", "lng", "long", "longitude":
			if idxX == -1 {
				idxX = i
			}
		case "y", "lat", "latitude":
			if idxY == -1 {
				idxY = i
			}
		case "visible":
			if idxVis == -1 {
				idxVis = i
			}
		}
	}
	if idxX == -1 || idxY == -1 {
		return nil, errors.New("csv: x/y columns not found")
	}

	var kept [][]string
	var pts []geom.Point
	for _, row := range rows[1:] {
		if idxX >= len(row) || idxY >= len(row) {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxX]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxY]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		kept = append(kept, row)
		pts = append(pts, geom.Point{X: x, Y: y})
	}
	if len(kept) == 0 {
		return nil, errors.New("csv: no valid points parsed")
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	numeric := make([]bool, len(header))
	for i := range header {
		if i == idxX || i == idxY || i == idxVis {
			continue
		}
		numeric[i] = true
		for _, row := range kept {
			if _, err := strconv.ParseFloat(cell(row, i), 64); err != nil {
				numeric[i] = false
				break
			}
		}
	}

	records := make([]geom.Record, len(kept))
	for n, row := range kept {
		rec := geom.Record{ID: n, Projection: &pts[n], Visible: true, Attrs: map[string]any{}}
		if idxVis != -1 {
			if v, err := strconv.ParseBool(cell(row, idxVis)); err == nil {
				rec.Visible = v
			}
		}
		for i, h := range header {
			if i == idxX || i == idxY || i == idxVis {
				continue
			}
			name := strings.TrimSpace(h)
			v := cell(row, i)
			switch {
			case numeric[i]:
				f, _ := strconv.ParseFloat(v, 64)
				rec.Attrs[name] = f
			case strings.EqualFold(name, "tags"):
				rec.Attrs[name] = splitTags(v)
			default:
				rec.Attrs[name] = v
			}
		}
		records[n] = rec
	}
	return records, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
