// Package editor owns the canvas editing state: the grid, the brush,
// and the asset cache. All of its methods must be called from the same
// goroutine (in practice the Ebiten update loop); background work only
// ever reaches it as completion messages drained by PumpCompletions.
package editor

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/milk9111/pixelcanvas/assetcache"
	"github.com/milk9111/pixelcanvas/canvas"
	"github.com/milk9111/pixelcanvas/export"
	"github.com/milk9111/pixelcanvas/project"
)

// ErrNoBrushSelected is returned when an image paint or a fill is
// attempted before any brush content has been chosen.
var ErrNoBrushSelected = errors.New("select a brush (color or image) first")

// RedrawRequester is the rendering collaborator's hook: the controller
// calls it whenever grid or cache content changed and the view should
// repaint.
type RedrawRequester interface {
	RequestRedraw()
}

// Controller orchestrates grid edits, flood fills, asset loads, and
// file operations in response to user intents.
type Controller struct {
	grid     *canvas.Grid
	cache    *assetcache.Cache
	loaders  *assetcache.Loaders
	redraw   RedrawRequester
	cellSize int

	tool Tool
	// brushTool is the paint content "underneath" the fill tool: the
	// last non-fill tool selected. Fill applies its replacement.
	brushTool Tool
	color     string
	brushKey  *assetcache.Key

	dragging bool
}

// New builds a controller around an existing grid and cache. The
// initial brush is a black pixel brush, matching a fresh editor.
func New(grid *canvas.Grid, cache *assetcache.Cache, loaders *assetcache.Loaders, cellSize int, redraw RedrawRequester) *Controller {
	return &Controller{
		grid:      grid,
		cache:     cache,
		loaders:   loaders,
		redraw:    redraw,
		cellSize:  cellSize,
		tool:      ToolColor,
		brushTool: ToolColor,
		color:     "#000000",
	}
}

func (c *Controller) Grid() *canvas.Grid       { return c.grid }
func (c *Controller) Cache() *assetcache.Cache { return c.cache }
func (c *Controller) Tool() Tool               { return c.tool }
func (c *Controller) Color() string            { return c.color }

// BrushKey returns the selected image brush key, if any.
func (c *Controller) BrushKey() (assetcache.Key, bool) {
	if c.brushKey == nil {
		return assetcache.Key{}, false
	}
	return *c.brushKey, true
}

// SelectColor switches to the pixel brush with the given color.
func (c *Controller) SelectColor(hex string) string {
	c.tool = ToolColor
	c.brushTool = ToolColor
	c.color = canvas.NormalizeHex(hex)
	c.brushKey = nil
	return fmt.Sprintf("Tool: Pixel, Color: %s", c.color)
}

// SelectEraser switches to the eraser (painting the background color).
func (c *Controller) SelectEraser() string {
	c.tool = ToolEraser
	c.brushTool = ToolEraser
	c.brushKey = nil
	return "Tool: Eraser"
}

// SelectFill switches to the fill tool. The brush content stays
// whatever was selected before.
func (c *Controller) SelectFill() string {
	c.tool = ToolFill
	return "Tool: Fill. Click on an area to fill it."
}

// SelectImageBrush switches to the image brush for the given source
// kind and identifier, and schedules its decode so painting shows the
// real image as soon as it's ready.
func (c *Controller) SelectImageBrush(mode canvas.Mode, value string) (string, error) {
	key, ok := assetcache.KeyFor(canvas.Cell{Mode: mode, Value: value})
	if !ok {
		return "", fmt.Errorf("mode %s is not an image source", mode)
	}
	c.tool = ToolImage
	c.brushTool = ToolImage
	c.brushKey = &key
	c.cache.Request(key, c.loaders.For(mode))
	return fmt.Sprintf("Tool: Image, Source: %s", filepath.Base(value)), nil
}

// replacement computes the cell content the given brush tool paints.
func (c *Controller) replacement(tool Tool) (canvas.Cell, error) {
	switch tool {
	case ToolColor:
		return canvas.ColorCell(c.color), nil
	case ToolEraser:
		return canvas.WhiteCell(), nil
	case ToolImage:
		if c.brushKey == nil {
			return canvas.Cell{}, ErrNoBrushSelected
		}
		return c.brushKey.Cell(), nil
	default:
		return canvas.Cell{}, ErrNoBrushSelected
	}
}

// PointerDown handles a press on a canvas cell: a fill with the fill
// tool, otherwise a paint that also starts a drag stroke.
func (c *Controller) PointerDown(row, col int) (string, error) {
	if c.tool == ToolFill {
		return c.fillAt(row, col)
	}
	c.dragging = true
	return c.paintAt(row, col)
}

// PointerDrag paints the cell under the pointer while a stroke is
// active. Repainting a cell with identical content is harmless.
func (c *Controller) PointerDrag(row, col int) (string, error) {
	if !c.dragging {
		return "", nil
	}
	return c.paintAt(row, col)
}

// PointerUp ends the current drag stroke.
func (c *Controller) PointerUp() {
	c.dragging = false
}

func (c *Controller) paintAt(row, col int) (string, error) {
	repl, err := c.replacement(c.tool)
	if err != nil {
		return "", err
	}
	if err := c.grid.Set(row, col, repl); err != nil {
		return "", err
	}
	c.redraw.RequestRedraw()
	return "", nil
}

func (c *Controller) fillAt(row, col int) (string, error) {
	repl, err := c.replacement(c.brushTool)
	if err != nil {
		return "", err
	}
	n, err := canvas.Flood(c.grid, row, col, repl)
	if err != nil {
		return "", err
	}
	c.redraw.RequestRedraw()
	if n == 0 {
		return "", nil
	}
	return fmt.Sprintf("Fill operation complete! (%d cells)", n), nil
}

// PumpCompletions drains finished asset fetches and folds them into the
// cache. A failed fetch scrubs every grid cell referencing the key back
// to the background color so the canvas never keeps broken references.
// Returns status messages for the status sink, newest last.
func (c *Controller) PumpCompletions() []string {
	var statuses []string
	for {
		select {
		case comp := <-c.cache.Completions():
			if err := c.cache.Apply(comp); err != nil {
				n := c.grid.ReplaceMatching(comp.Key.Cell(), canvas.WhiteCell())
				if c.brushKey != nil && *c.brushKey == comp.Key {
					c.brushKey = nil
				}
				statuses = append(statuses, fmt.Sprintf("Failed to load %s: %v (%d cells reset)", filepath.Base(comp.Key.Value), err, n))
			}
			c.redraw.RequestRedraw()
		default:
			return statuses
		}
	}
}

// ReloadAsset drops the cached decode for a changed local file and
// re-requests it if anything still references it.
func (c *Controller) ReloadAsset(path string) {
	key := assetcache.Key{Mode: canvas.ModeLocalImage, Value: path}
	if _, cached := c.cache.Resolve(key); !cached {
		return
	}
	c.cache.Forget(key)
	c.cache.Request(key, c.loaders.Local)
	c.redraw.RequestRedraw()
}

// SaveTo writes the current canvas to a project file.
func (c *Controller) SaveTo(path string) (string, error) {
	if err := project.Save(path, c.grid); err != nil {
		return "", fmt.Errorf("failed to save canvas: %w", err)
	}
	return fmt.Sprintf("Canvas saved to %s", filepath.Base(path)), nil
}

// LoadFrom replaces the canvas with a project file's content. The file
// is fully validated before anything is touched; on success the cache
// is reset and every referenced image is preloaded.
func (c *Controller) LoadFrom(path string) (string, error) {
	cells, err := project.Load(path, c.grid.Rows(), c.grid.Cols())
	if err != nil {
		return "", fmt.Errorf("failed to load canvas: %w", err)
	}
	c.cache.Clear()
	if err := c.grid.ReplaceAll(cells); err != nil {
		return "", fmt.Errorf("failed to load canvas: %w", err)
	}
	c.grid.Each(func(_, _ int, cell canvas.Cell) {
		if key, ok := assetcache.KeyFor(cell); ok {
			c.cache.Request(key, c.loaders.For(cell.Mode))
		}
	})
	c.redraw.RequestRedraw()
	return fmt.Sprintf("Canvas loaded from %s", filepath.Base(path)), nil
}

// ExportTo composites the canvas into a PNG at path. Cells whose assets
// are still loading export as placeholder blocks, exactly as the live
// view shows them.
func (c *Controller) ExportTo(path string) (string, error) {
	if err := export.WritePNG(path, c.grid.Snapshot(), c.cache.Resolve, c.cellSize); err != nil {
		return "", fmt.Errorf("failed to export canvas: %w", err)
	}
	return fmt.Sprintf("Canvas exported to %s", filepath.Base(path)), nil
}

// ExportPNG returns the composited canvas as PNG bytes.
func (c *Controller) ExportPNG() ([]byte, error) {
	return export.PNGBytes(c.grid.Snapshot(), c.cache.Resolve, c.cellSize)
}

// ClearCanvas resets every cell to the background color.
func (c *Controller) ClearCanvas() string {
	c.grid.Fill(canvas.WhiteCell())
	c.redraw.RequestRedraw()
	return "Canvas cleared."
}
