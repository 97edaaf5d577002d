// Package export composites canvas content into a single raster image.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/milk9111/pixelcanvas/assetcache"
	"github.com/milk9111/pixelcanvas/canvas"
)

// PlaceholderColor fills the block of an image cell whose asset hasn't
// decoded yet. The export mirrors the live view: pending cells export
// as placeholders, never as a blocking wait.
const PlaceholderColor = "#e0e0e0"

// Resolver looks up a decoded image for an asset key without blocking.
type Resolver func(assetcache.Key) (image.Image, bool)

// Raster draws every cell of the snapshot into an RGBA image of
// rows*cellSize x cols*cellSize pixels.
func Raster(cells [][]canvas.Cell, resolve Resolver, cellSize int) (*image.RGBA, error) {
	rows := len(cells)
	if rows == 0 || cellSize <= 0 {
		return nil, fmt.Errorf("empty snapshot or bad cell size %d", cellSize)
	}
	cols := len(cells[0])

	dst := image.NewRGBA(image.Rect(0, 0, cols*cellSize, rows*cellSize))
	placeholder := image.NewUniform(canvas.ParseHexColor(PlaceholderColor))

	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged snapshot: row %d has %d cols, want %d", r, len(row), cols)
		}
		for c, cell := range row {
			block := image.Rect(c*cellSize, r*cellSize, (c+1)*cellSize, (r+1)*cellSize)
			switch {
			case cell.Mode == canvas.ModeColor:
				draw.Draw(dst, block, image.NewUniform(canvas.ParseHexColor(cell.Value)), image.Point{}, draw.Src)
			default:
				key, _ := assetcache.KeyFor(cell)
				img, ok := resolve(key)
				if !ok {
					draw.Draw(dst, block, placeholder, image.Point{}, draw.Src)
					continue
				}
				b := img.Bounds()
				if b.Dx() == cellSize && b.Dy() == cellSize {
					draw.Draw(dst, block, img, b.Min, draw.Over)
				} else {
					xdraw.ApproxBiLinear.Scale(dst, block, img, b, xdraw.Over, nil)
				}
			}
		}
	}
	return dst, nil
}

// WritePNG renders the snapshot and writes it to path as PNG, creating
// parent directories as needed.
func WritePNG(path string, cells [][]canvas.Cell, resolve Resolver, cellSize int) error {
	img, err := Raster(cells, resolve, cellSize)
	if err != nil {
		return err
	}
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
	return png.Encode(f, img)
}

// PNGBytes renders the snapshot and returns the encoded PNG, for
// clipboard use.
func PNGBytes(cells [][]canvas.Cell, resolve Resolver, cellSize int) ([]byte, error) {
	img, err := Raster(cells, resolve, cellSize)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
