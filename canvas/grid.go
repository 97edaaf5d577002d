package canvas

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds indicates a cell coordinate outside the grid. This
	// is a caller bug, never a user-facing condition.
	ErrOutOfBounds = errors.New("cell coordinate out of bounds")
	// ErrShapeMismatch indicates a bulk replacement whose dimensions
	// don't match the grid.
	ErrShapeMismatch = errors.New("replacement grid has wrong dimensions")
)

// Grid is the canvas content: a fixed Rows x Cols matrix of cells. It is
// the single source of truth for what's on the canvas. The grid itself
// does no synchronization; a single owning goroutine performs all
// mutation (see editor.Controller).
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
}

// NewGrid builds a rows x cols grid of default background cells.
func NewGrid(rows, cols int) *Grid {
	cells := make([][]Cell, rows)
	for r := range cells {
		row := make([]Cell, cols)
		for c := range row {
			row[c] = WhiteCell()
		}
		cells[r] = row
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Get returns the cell at (row, col).
func (g *Grid) Get(row, col int) (Cell, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}, fmt.Errorf("get (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	return g.cells[row][col], nil
}

// Set replaces the cell at (row, col).
func (g *Grid) Set(row, col int, cell Cell) error {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return fmt.Errorf("set (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	g.cells[row][col] = cell
	return nil
}

// ReplaceAll swaps in a whole new cell matrix. The replacement must be
// exactly Rows x Cols; otherwise nothing is committed. The rows are
// deep-copied so the caller can't alias grid internals afterwards.
func (g *Grid) ReplaceAll(cells [][]Cell) error {
	if len(cells) != g.rows {
		return fmt.Errorf("%w: got %d rows, want %d", ErrShapeMismatch, len(cells), g.rows)
	}
	for r := range cells {
		if len(cells[r]) != g.cols {
			return fmt.Errorf("%w: row %d has %d cols, want %d", ErrShapeMismatch, r, len(cells[r]), g.cols)
		}
	}
	fresh := make([][]Cell, g.rows)
	for r := range cells {
		row := make([]Cell, g.cols)
		copy(row, cells[r])
		fresh[r] = row
	}
	g.cells = fresh
	return nil
}

// Snapshot returns a deep copy of the cell matrix for readers (view,
// persistence, exporter) that must not observe later edits.
func (g *Grid) Snapshot() [][]Cell {
	out := make([][]Cell, g.rows)
	for r := range g.cells {
		row := make([]Cell, g.cols)
		copy(row, g.cells[r])
		out[r] = row
	}
	return out
}

// Fill resets every cell to the default background.
func (g *Grid) Fill(cell Cell) {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = cell
		}
	}
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(row, col int, cell Cell)) {
	for r := range g.cells {
		for c := range g.cells[r] {
			fn(r, c, g.cells[r][c])
		}
	}
}

// ReplaceMatching rewrites every cell equal to old with repl and returns
// how many cells changed. Used to scrub references to a failed asset.
func (g *Grid) ReplaceMatching(old, repl Cell) int {
	n := 0
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] == old {
				g.cells[r][c] = repl
				n++
			}
		}
	}
	return n
}
