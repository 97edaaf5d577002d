package editor

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/pixelcanvas/assetcache"
	"github.com/milk9111/pixelcanvas/canvas"
	"github.com/milk9111/pixelcanvas/project"
)

type countingRedraw struct {
	count int
}

func (r *countingRedraw) RequestRedraw() { r.count++ }

func newTestController(t *testing.T) (*Controller, *countingRedraw) {
	t.Helper()
	cache := assetcache.New(2)
	t.Cleanup(cache.Close)
	redraw := &countingRedraw{}
	grid := canvas.NewGrid(4, 4)
	loaders := assetcache.NewLoaders(4, time.Second)
	return New(grid, cache, loaders, 4, redraw), redraw
}

// pump drains completions until a status arrives or the deadline hits.
func pump(t *testing.T, c *Controller, deadline time.Duration) []string {
	t.Helper()
	stop := time.Now().Add(deadline)
	for time.Now().Before(stop) {
		if statuses := c.PumpCompletions(); len(statuses) > 0 {
			return statuses
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func TestToolSelection(t *testing.T) {
	c, _ := newTestController(t)

	if got := c.SelectColor("#FF0000"); !strings.Contains(got, "#ff0000") {
		t.Fatalf("status %q missing normalized color", got)
	}
	if c.Tool() != ToolColor || c.Color() != "#ff0000" {
		t.Fatalf("state after SelectColor: tool=%v color=%q", c.Tool(), c.Color())
	}

	c.SelectEraser()
	if c.Tool() != ToolEraser {
		t.Fatalf("tool = %v, want eraser", c.Tool())
	}
	if _, ok := c.BrushKey(); ok {
		t.Fatal("eraser should clear the image brush")
	}

	c.SelectFill()
	if c.Tool() != ToolFill {
		t.Fatalf("tool = %v, want fill", c.Tool())
	}
}

func TestPaintWithColorBrush(t *testing.T) {
	c, redraw := newTestController(t)
	c.SelectColor("#ff0000")

	if _, err := c.PointerDown(1, 2); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	got, _ := c.Grid().Get(1, 2)
	if got != (canvas.Cell{Mode: canvas.ModeColor, Value: "#ff0000"}) {
		t.Fatalf("painted cell = %v", got)
	}
	if redraw.count == 0 {
		t.Fatal("paint did not request a redraw")
	}
}

func TestDragPaintsOnlyWhileDown(t *testing.T) {
	c, _ := newTestController(t)
	c.SelectColor("#00ff00")

	// drag without a press is ignored
	if _, err := c.PointerDrag(0, 0); err != nil {
		t.Fatalf("PointerDrag: %v", err)
	}
	got, _ := c.Grid().Get(0, 0)
	if got != canvas.WhiteCell() {
		t.Fatal("drag painted without a pointer press")
	}

	c.PointerDown(0, 0)
	c.PointerDrag(0, 1)
	c.PointerUp()
	c.PointerDrag(0, 2)

	dragged, _ := c.Grid().Get(0, 1)
	if dragged.Value != "#00ff00" {
		t.Fatalf("dragged cell = %v", dragged)
	}
	after, _ := c.Grid().Get(0, 2)
	if after != canvas.WhiteCell() {
		t.Fatal("paint continued after PointerUp")
	}
}

func TestEraserPaintsBackground(t *testing.T) {
	c, _ := newTestController(t)
	c.SelectColor("#ff0000")
	c.PointerDown(0, 0)
	c.PointerUp()

	c.SelectEraser()
	c.PointerDown(0, 0)
	got, _ := c.Grid().Get(0, 0)
	if got != canvas.WhiteCell() {
		t.Fatalf("erased cell = %v", got)
	}
}

func TestFillUsesBrushUnderneath(t *testing.T) {
	c, _ := newTestController(t)
	c.SelectColor("#ff0000")
	c.SelectFill()

	status, err := c.PointerDown(0, 0)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !strings.Contains(status, "16") {
		t.Fatalf("status %q should report 16 cells", status)
	}
	c.Grid().Each(func(r, col int, cell canvas.Cell) {
		if cell.Value != "#ff0000" {
			t.Fatalf("cell (%d,%d) = %v", r, col, cell)
		}
	})
}

func TestFillWithNoBrush(t *testing.T) {
	c, _ := newTestController(t)
	// image tool selected but no brush resolved
	c.tool = ToolImage
	c.brushTool = ToolImage
	c.brushKey = nil
	c.SelectFill()

	if _, err := c.PointerDown(0, 0); !errors.Is(err, ErrNoBrushSelected) {
		t.Fatalf("expected ErrNoBrushSelected, got %v", err)
	}
}

func TestPaintOutOfBounds(t *testing.T) {
	c, _ := newTestController(t)
	c.SelectColor("#ff0000")
	if _, err := c.PointerDown(7, 7); !errors.Is(err, canvas.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestImageBrushPaintAndResolve(t *testing.T) {
	c, _ := newTestController(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "brush.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	status, err := c.SelectImageBrush(canvas.ModeLocalImage, path)
	if err != nil {
		t.Fatalf("SelectImageBrush: %v", err)
	}
	if !strings.Contains(status, "brush.png") {
		t.Fatalf("status %q missing file name", status)
	}

	c.PointerDown(2, 2)
	got, _ := c.Grid().Get(2, 2)
	want := canvas.Cell{Mode: canvas.ModeLocalImage, Value: path}
	if got != want {
		t.Fatalf("painted cell = %v, want %v", got, want)
	}

	// decode completes in the background; pump until it lands
	key, _ := c.BrushKey()
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.PumpCompletions()
		if _, ok := c.Cache().Resolve(key); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("brush image never resolved")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFailedAssetScrubsGrid(t *testing.T) {
	c, _ := newTestController(t)

	missing := filepath.Join(t.TempDir(), "missing.png")
	if _, err := c.SelectImageBrush(canvas.ModeLocalImage, missing); err != nil {
		t.Fatalf("SelectImageBrush: %v", err)
	}
	c.PointerDown(0, 0)
	c.PointerUp()
	c.PointerDown(3, 3)
	c.PointerUp()

	statuses := pump(t, c, 5*time.Second)
	if len(statuses) == 0 {
		t.Fatal("no failure status reported")
	}
	if !strings.Contains(statuses[0], "missing.png") {
		t.Fatalf("status %q missing asset name", statuses[0])
	}

	for _, p := range [][2]int{{0, 0}, {3, 3}} {
		got, _ := c.Grid().Get(p[0], p[1])
		if got != canvas.WhiteCell() {
			t.Fatalf("cell (%d,%d) not scrubbed: %v", p[0], p[1], got)
		}
	}
	key := assetcache.Key{Mode: canvas.ModeLocalImage, Value: missing}
	if _, ok := c.Cache().Resolve(key); ok {
		t.Fatal("failed key left a cache entry")
	}
	if c.Cache().InFlight(key) {
		t.Fatal("failed key still in flight")
	}
	if _, ok := c.BrushKey(); ok {
		t.Fatal("failed brush still selected")
	}
}

func TestSaveLoadRoundTripThroughController(t *testing.T) {
	c, _ := newTestController(t)
	c.SelectColor("#ff00ff")
	c.PointerDown(1, 1)
	c.PointerUp()

	path := filepath.Join(t.TempDir(), "canvas.json")
	if _, err := c.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	c.ClearCanvas()
	if got, _ := c.Grid().Get(1, 1); got != canvas.WhiteCell() {
		t.Fatal("clear did not reset cell")
	}

	if _, err := c.LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	got, _ := c.Grid().Get(1, 1)
	if got.Value != "#ff00ff" {
		t.Fatalf("loaded cell = %v", got)
	}
}

func TestLoadFailureLeavesGridUntouched(t *testing.T) {
	c, _ := newTestController(t)
	c.SelectColor("#123456")
	c.PointerDown(2, 2)
	c.PointerUp()

	// 5 rows against a 4x4 grid
	path := filepath.Join(t.TempDir(), "bad.json")
	row := `[{"mode":"color","val":"#ffffff"},{"mode":"color","val":"#ffffff"},{"mode":"color","val":"#ffffff"},{"mode":"color","val":"#ffffff"}]`
	data := "[" + row + "," + row + "," + row + "," + row + "," + row + "]"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.LoadFrom(path); err == nil {
		t.Fatal("expected format error")
	}
	got, _ := c.Grid().Get(2, 2)
	if got.Value != "#123456" {
		t.Fatalf("grid modified by failed load: %v", got)
	}
}

func TestLoadPreloadsImageCells(t *testing.T) {
	c, _ := newTestController(t)

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "tile.png")
	f, err := os.Create(imgPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	g := canvas.NewGrid(4, 4)
	g.Set(0, 0, canvas.Cell{Mode: canvas.ModeLocalImage, Value: imgPath})
	projPath := filepath.Join(dir, "proj.json")
	if err := project.Save(projPath, g); err != nil {
		t.Fatal(err)
	}

	if _, err := c.LoadFrom(projPath); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	key := assetcache.Key{Mode: canvas.ModeLocalImage, Value: imgPath}
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.PumpCompletions()
		if _, ok := c.Cache().Resolve(key); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("preloaded image never resolved")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestExportToWritesPNG(t *testing.T) {
	c, _ := newTestController(t)
	path := filepath.Join(t.TempDir(), "out.png")
	if _, err := c.ExportTo(path); err != nil {
		t.Fatalf("ExportTo: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}

	b, err := c.ExportPNG()
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("empty PNG bytes")
	}
}
