package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TrevorS/quadknn"
)

// ReadCSV loads labeled points from CSV with a header row naming the columns
// x, y and label (case-insensitive, any order). Labels are integers.
func ReadCSV(r io.Reader) ([]quadknn.LabeledPoint, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("sample: read header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}
	var cols [3]int
	for i, name := range []string{"x", "y", "label"} {
		idx, ok := colIndex[name]
		if !ok {
			return nil, fmt.Errorf("sample: column %q not found", name)
		}
		cols[i] = idx
	}

	var points []quadknn.LabeledPoint
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sample: line %d: %w", line, err)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[0]]), 64)
		if err != nil {
			return nil, fmt.Errorf("sample: line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[1]]), 64)
		if err != nil {
			return nil, fmt.Errorf("sample: line %d: y: %w", line, err)
		}
		l, err := strconv.Atoi(strings.TrimSpace(rec[cols[2]]))
		if err != nil {
			return nil, fmt.Errorf("sample: line %d: label: %w", line, err)
		}
		points = append(points, quadknn.LabeledPoint{
			ID:    len(points),
			Pos:   r2.Vec{X: x, Y: y},
			Label: quadknn.Label(l),
		})
	}
	return points, nil
}
