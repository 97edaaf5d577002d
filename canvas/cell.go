package canvas

import "fmt"

// Mode identifies what a cell's Value means: a color or an image reference.
type Mode int

const (
	ModeColor Mode = iota
	ModeLocalImage
	ModeRemoteImage
)

func (m Mode) String() string {
	switch m {
	case ModeColor:
		return "color"
	case ModeLocalImage:
		return "image_local"
	case ModeRemoteImage:
		return "image_url"
	default:
		return "unknown"
	}
}

// IsImage reports whether the mode references a decodable image asset.
func (m Mode) IsImage() bool {
	return m == ModeLocalImage || m == ModeRemoteImage
}

// Cell is one grid location's content: a mode plus a value string
// (hex color, file path, or URL depending on the mode). Cells are
// immutable values; edits replace the cell in the grid. Two cells are
// the same content exactly when both fields match, which is what the
// fill tool uses to decide region membership.
type Cell struct {
	Mode  Mode
	Value string
}

// DefaultBackground is the content of an untouched (or erased) cell.
const DefaultBackground = "#ffffff"

// WhiteCell returns the default background cell.
func WhiteCell() Cell {
	return Cell{Mode: ModeColor, Value: DefaultBackground}
}

// ColorCell returns a color cell with the value normalized to "#rrggbb".
func ColorCell(hex string) Cell {
	return Cell{Mode: ModeColor, Value: NormalizeHex(hex)}
}

func (c Cell) String() string {
	return fmt.Sprintf("%s:%s", c.Mode, c.Value)
}
