// Package project saves and loads canvas content as JSON: a row-major
// nested array of {mode, val} records, dimensions fixed by the canvas.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/pixelcanvas/canvas"
)

// ErrFormat indicates a project file whose structure, dimensions, or
// cell modes don't match what the canvas expects. Nothing is applied
// when it is returned.
var ErrFormat = errors.New("invalid project file format")

type record struct {
	Mode string `json:"mode"`
	Val  string `json:"val"`
}

// Save writes the grid's content to path, creating parent directories
// as needed.
func Save(path string, g *canvas.Grid) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records := make([][]record, 0, g.Rows())
	for _, row := range g.Snapshot() {
		out := make([]record, len(row))
		for c, cell := range row {
			out[c] = record{Mode: cell.Mode.String(), Val: cell.Value}
		}
		records = append(records, out)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Load reads a project file and returns its cells, validated against
// the expected dimensions. The grid is not touched here; the caller
// commits via ReplaceAll only after Load succeeds, so a bad file never
// partially applies.
func Load(path string, rows, cols int) ([][]canvas.Cell, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b, rows, cols)
}

// Decode parses serialized project content into cells.
func Decode(data []byte, rows, cols int) ([][]canvas.Cell, error) {
	var records [][]record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(records) != rows {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrFormat, len(records), rows)
	}
	cells := make([][]canvas.Cell, rows)
	for r, row := range records {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cols, want %d", ErrFormat, r, len(row), cols)
		}
		out := make([]canvas.Cell, cols)
		for c, rec := range row {
			mode, err := parseMode(rec.Mode)
			if err != nil {
				return nil, fmt.Errorf("%w: cell (%d,%d): %v", ErrFormat, r, c, err)
			}
			val := rec.Val
			if mode == canvas.ModeColor {
				val = canvas.NormalizeHex(val)
			}
			out[c] = canvas.Cell{Mode: mode, Value: val}
		}
		cells[r] = out
	}
	return cells, nil
}

func parseMode(s string) (canvas.Mode, error) {
	switch s {
	case "color":
		return canvas.ModeColor, nil
	case "image_local":
		return canvas.ModeLocalImage, nil
	case "image_url":
		return canvas.ModeRemoteImage, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}
