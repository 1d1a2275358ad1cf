// Package csvio reads and writes point sets as CSV with the columns
// System Name, X, Y, Z (one row per system).
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"starroute-service/internal/domain"
)

var header = []string{"System Name", "X", "Y", "Z"}

// ReadPoints parses a CSV document into points. The header row is required
// and matched case-insensitively; coordinate cells must parse as numbers.
func ReadPoints(r io.Reader) ([]domain.SystemPoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("read points: empty document")
	}
	if err != nil {
		return nil, fmt.Errorf("read points: header: %w", err)
	}
	if err := validateHeader(head); err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}

	points := make([]domain.SystemPoint, 0, 16)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read points: line %d: %w", line, err)
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("read points: line %d: system name is empty", line)
		}

		var coords [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("read points: line %d: column %s: %w", line, header[i+1], err)
			}
			coords[i] = v
		}

		points = append(points, domain.SystemPoint{
			Name:   name,
			Coords: domain.Coordinates{X: coords[0], Y: coords[1], Z: coords[2]},
		})
	}

	return points, nil
}

// WritePoints writes points as CSV, header first.
func WritePoints(w io.Writer, points []domain.SystemPoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write points: header: %w", err)
	}

	for _, p := range points {
		record := []string{
			p.Name,
			strconv.FormatFloat(p.Coords.X, 'f', -1, 64),
			strconv.FormatFloat(p.Coords.Y, 'f', -1, 64),
			strconv.FormatFloat(p.Coords.Z, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write points: %q: %w", p.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write points: flush: %w", err)
	}

	return nil
}

func validateHeader(head []string) error {
	if len(head) != len(header) {
		return fmt.Errorf("invalid CSV format, required columns: %s", strings.Join(header, ", "))
	}
	for i, col := range head {
		if !strings.EqualFold(strings.TrimSpace(col), header[i]) {
			return fmt.Errorf("invalid CSV format, required columns: %s", strings.Join(header, ", "))
		}
	}
	return nil
}
