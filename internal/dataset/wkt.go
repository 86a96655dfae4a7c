package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"scatterview/internal/geom"
)

// LoadWKT reads one WKT geometry per line. Every vertex becomes a record with
// a Geometry attribute (POINT, LINESTRING, ...) and a Shape attribute holding
// the 1-based line number.
func LoadWKT(path string) ([]geom.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWKT(f)
}

func ReadWKT(r io.Reader) ([]geom.Record, error) {
	var records []geom.Record
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		kind, pts, err := ParseWKT(s)
		if err != nil {
			return nil, fmt.Errorf("wkt line %d: %w", line, err)
		}
		for _, p := range pts {
			records = append(records, geom.Record{
				ID:         len(records),
				Projection: &geom.Point{X: p[0], Y: p[1]},
				Visible:    true,
				Attrs:      map[string]any{"Geometry": kind, "Shape": float64(line)},
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("wkt: no coordinates parsed")
	}
	return records, nil
}

// ParseWKT parses a subset of WKT and returns the geometry type and its vertices.
// Supported: POINT(x y), MULTIPOINT(x y, ...), LINESTRING(x y, ...), POLYGON((x y, ...), ...)
func ParseWKT(wkt string) (string, [][2]float64, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return "", nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	var kind string
	for _, k := range []string{"MULTIPOINT", "POINT", "LINESTRING", "POLYGON"} {
		if strings.HasPrefix(up, k) {
			kind = k
			break
		}
	}
	if kind == "" {
		return "", nil, errors.New("unsupported wkt type")
	}
	i := strings.Index(s, "(")
	j := strings.LastIndex(s, ")")
	if i < 0 || j <= i {
		return "", nil, fmt.Errorf("wkt %s: invalid", strings.ToLower(kind))
	}
	// ring and multipoint parentheses carry no information for vertices
	block := strings.NewReplacer("(", "", ")", "").Replace(s[i+1 : j])
	var pts [][2]float64
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			continue
		}
		x, err1 := strconv.ParseFloat(parts[0], 64)
		y, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, [2]float64{x, y})
	}
	if len(pts) == 0 {
		return "", nil, errors.New("wkt: no coordinates parsed")
	}
	return kind, pts, nil
}
