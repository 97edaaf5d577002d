package canvas

// Flood performs a 4-connected flood fill starting at (row, col),
// replacing the contiguous region of cells matching the start cell's
// content with repl. Returns the number of cells rewritten.
//
// The traversal is breadth-first with a FIFO frontier. Cells are
// rewritten when enqueued, not when dequeued, so a cell reachable
// through two paths is never enqueued twice: by the time the second
// path examines it, it no longer matches the target. Filling with
// content equal to the start cell is a no-op.
func Flood(g *Grid, row, col int, repl Cell) (int, error) {
	target, err := g.Get(row, col)
	if err != nil {
		return 0, err
	}
	if target == repl {
		return 0, nil
	}

	type point struct{ r, c int }
	frontier := []point{{row, col}}
	g.cells[row][col] = repl
	affected := 1

	for len(frontier) > 0 {
		p := frontier[0]
		frontier = frontier[1:]

		for _, d := range [4]point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
			nr, nc := p.r+d.r, p.c+d.c
			if nr < 0 || nr >= g.rows || nc < 0 || nc >= g.cols {
				continue
			}
			if g.cells[nr][nc] != target {
				continue
			}
			g.cells[nr][nc] = repl
			affected++
			frontier = append(frontier, point{nr, nc})
		}
	}
	return affected, nil
}
