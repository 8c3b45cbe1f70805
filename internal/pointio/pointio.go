// Package pointio reads point sets and writes clustering results for the
// cluster2d command.
package pointio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TrevorS/cluster2d"
)

// Format is an input encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
)

// ErrNoPoints is returned when an input holds no points.
var ErrNoPoints = errors.New("pointio: input contains no points")

// FormatFromPath picks JSON for .json files and CSV otherwise.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// ReadFile reads points from path, choosing the format by extension.
func ReadFile(path string) ([]cluster2d.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pts, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pts, nil
}

// Read decodes points in the given format.
func Read(r io.Reader, format Format) ([]cluster2d.Point, error) {
	var (
		pts []cluster2d.Point
		err error
	)
	switch format {
	case FormatJSON:
		pts, err = readJSON(r)
	default:
		pts, err = readCSV(r)
	}
	if err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return nil, ErrNoPoints
	}
	return pts, nil
}

// readCSV reads x,y rows. A first row whose leading fields are not numbers
// is treated as a header; columns after the second are ignored.
func readCSV(r io.Reader) ([]cluster2d.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var pts []cluster2d.Point
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return pts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("csv row %d: want at least 2 columns, got %d", row, len(rec))
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errX != nil || errY != nil {
			if row == 1 {
				continue
			}
			return nil, fmt.Errorf("csv row %d: invalid coordinates %q, %q", row, rec[0], rec[1])
		}
		pts = append(pts, cluster2d.Pt(x, y))
	}
}

type jsonPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// readJSON accepts [[x, y], ...] or [{"x": .., "y": ..}, ...].
func readJSON(r io.Reader) ([]cluster2d.Point, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err == nil {
		pts := make([]cluster2d.Point, len(pairs))
		for i, pair := range pairs {
			if len(pair) != 2 {
				return nil, fmt.Errorf("json point %d: want [x, y], got %d values", i, len(pair))
			}
			pts[i] = cluster2d.Pt(pair[0], pair[1])
		}
		return pts, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var objs []jsonPoint
	if err := dec.Decode(&objs); err != nil {
		return nil, fmt.Errorf("decode json points: %w", err)
	}
	pts := make([]cluster2d.Point, len(objs))
	for i, o := range objs {
		if o.X == nil || o.Y == nil {
			return nil, fmt.Errorf("json point %d: missing x or y", i)
		}
		pts[i] = cluster2d.Pt(*o.X, *o.Y)
	}
	return pts, nil
}
