package main

import (
	"image"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/pixelcanvas/assetcache"
	"github.com/milk9111/pixelcanvas/canvas"
	"github.com/milk9111/pixelcanvas/config"
	"github.com/milk9111/pixelcanvas/editor"
	"github.com/milk9111/pixelcanvas/export"
)

const (
	toolbarH = 96
	statusH  = 20
	minWidth = 560
)

// App is the Ebiten front end: it owns the window, translates pointer
// and key input into controller intents, and repaints the canvas when
// the controller asks for a redraw.
type App struct {
	cfg         config.Config
	ctrl        *editor.Controller
	cache       *assetcache.Cache
	watcher     *assetcache.Watcher
	ui          *ebitenui.UI
	prompt      *Prompt
	clipboardOK bool

	windowW int
	windowH int
	offX    int

	status   string
	showGrid bool
	dirty    bool

	canvasImg *ebiten.Image
	gridPixel *ebiten.Image
	cellImgs  map[string]*ebiten.Image
	decoded   map[image.Image]*ebiten.Image
}

func newApp(cfg config.Config, cache *assetcache.Cache, loaders *assetcache.Loaders, watcher *assetcache.Watcher, clipboardOK bool) *App {
	canvasW := cfg.Cols * cfg.CellSize
	canvasH := cfg.Rows * cfg.CellSize
	w := canvasW
	if w < minWidth {
		w = minWidth
	}

	a := &App{
		cfg:         cfg,
		cache:       cache,
		watcher:     watcher,
		clipboardOK: clipboardOK,
		windowW:     w,
		windowH:     toolbarH + canvasH + statusH,
		offX:        (w - canvasW) / 2,
		showGrid:    true,
		dirty:       true,
		prompt:      NewPrompt(),
		cellImgs:    map[string]*ebiten.Image{},
		decoded:     map[image.Image]*ebiten.Image{},
	}
	a.gridPixel = ebiten.NewImage(1, 1)
	a.gridPixel.Fill(canvas.ParseHexColor("#dddddd"))

	grid := canvas.NewGrid(cfg.Rows, cfg.Cols)
	a.ctrl = editor.New(grid, cache, loaders, cfg.CellSize, a)
	a.ui = buildUI(a)

	a.setStatus("Welcome! Press 'G' to toggle the grid.")
	a.setStatus(a.ctrl.SelectColor("#000000"))
	return a
}

// RequestRedraw marks the cached canvas image stale. Implements
// editor.RedrawRequester.
func (a *App) RequestRedraw() {
	a.dirty = true
}

func (a *App) setStatus(s string) {
	if s != "" {
		a.status = s
	}
}

func (a *App) Update() error {
	if a.prompt.Update() {
		return nil
	}
	a.ui.Update()

	a.drainWatcher()
	for _, s := range a.ctrl.PumpCompletions() {
		a.setStatus(s)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		a.showGrid = !a.showGrid
		a.dirty = true
		if a.showGrid {
			a.setStatus("Grid lines are now visible. Press 'G' to toggle again.")
		} else {
			a.setStatus("Grid lines are now hidden. Press 'G' to toggle again.")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyToClipboard()
	}

	a.handlePointer()
	return nil
}

func (a *App) drainWatcher() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			a.ctrl.ReloadAsset(path)
			a.setStatus("Reloaded changed asset: " + path)
		case err, ok := <-a.watcher.Errors:
			if !ok {
				a.watcher = nil
				return
			}
			log.Printf("asset watcher: %v", err)
		default:
			return
		}
	}
}

func (a *App) handlePointer() {
	mx, my := ebiten.CursorPosition()
	row, col, onCanvas := a.cellAt(mx, my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if onCanvas {
			a.report(a.ctrl.PointerDown(row, col))
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if onCanvas {
			a.report(a.ctrl.PointerDrag(row, col))
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.ctrl.PointerUp()
	}
}

// report surfaces an operation result on the status bar. Out-of-bounds
// errors can't happen for pointer input (cellAt filters them), so any
// error here is user-facing.
func (a *App) report(status string, err error) {
	if err != nil {
		a.setStatus("Error: " + err.Error())
		return
	}
	a.setStatus(status)
}

// cellAt maps a screen position to a grid cell.
func (a *App) cellAt(mx, my int) (row, col int, ok bool) {
	x := mx - a.offX
	y := my - toolbarH
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col = x / a.cfg.CellSize
	row = y / a.cfg.CellSize
	if row >= a.cfg.Rows || col >= a.cfg.Cols {
		return 0, 0, false
	}
	return row, col, true
}

// clearIfConfirmed wipes the canvas only when the user answered y or
// yes to the confirmation prompt.
func (a *App) clearIfConfirmed(answer string) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		a.setStatus(a.ctrl.ClearCanvas())
	default:
		a.setStatus("Clear cancelled.")
	}
}

func (a *App) copyToClipboard() {
	if !a.clipboardOK {
		a.setStatus("Clipboard unavailable on this system.")
		return
	}
	b, err := a.ctrl.ExportPNG()
	if err != nil {
		a.setStatus("Error: " + err.Error())
		return
	}
	clipboard.Write(clipboard.FmtImage, b)
	a.setStatus("Canvas copied to clipboard.")
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(canvas.ParseHexColor("#303030"))

	if a.dirty || a.canvasImg == nil {
		a.rebuildCanvas()
		a.dirty = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(a.offX), float64(toolbarH))
	screen.DrawImage(a.canvasImg, op)

	a.ui.Draw(screen)
	ebitenutil.DebugPrintAt(screen, a.status, 4, a.windowH-statusH+2)
	a.prompt.Draw(screen)
}

// rebuildCanvas repaints the cached canvas image from the grid and the
// asset cache. Image cells still loading get a placeholder block.
func (a *App) rebuildCanvas() {
	cs := a.cfg.CellSize
	w := a.cfg.Cols * cs
	h := a.cfg.Rows * cs
	if a.canvasImg == nil {
		a.canvasImg = ebiten.NewImage(w, h)
	}
	a.canvasImg.Fill(canvas.ParseHexColor(canvas.DefaultBackground))

	a.ctrl.Grid().Each(func(row, col int, cell canvas.Cell) {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(col*cs), float64(row*cs))
		a.canvasImg.DrawImage(a.cellImage(cell), op)
	})

	if a.showGrid {
		for x := 0; x <= w; x += cs {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(1, float64(h))
			op.GeoM.Translate(float64(x), 0)
			a.canvasImg.DrawImage(a.gridPixel, op)
		}
		for y := 0; y <= h; y += cs {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(float64(w), 1)
			op.GeoM.Translate(0, float64(y))
			a.canvasImg.DrawImage(a.gridPixel, op)
		}
	}
}

// cellImage returns the cell-sized image for a cell's content, building
// and caching solid color tiles and converted decodes on demand.
func (a *App) cellImage(cell canvas.Cell) *ebiten.Image {
	if cell.Mode == canvas.ModeColor {
		return a.colorTile(cell.Value)
	}
	key, _ := assetcache.KeyFor(cell)
	img, ok := a.cache.Resolve(key)
	if !ok {
		return a.colorTile(export.PlaceholderColor)
	}
	if eimg, ok := a.decoded[img]; ok {
		return eimg
	}
	eimg := ebiten.NewImageFromImage(img)
	a.decoded[img] = eimg
	return eimg
}

func (a *App) colorTile(hex string) *ebiten.Image {
	hex = canvas.NormalizeHex(hex)
	if img, ok := a.cellImgs[hex]; ok {
		return img
	}
	img := ebiten.NewImage(a.cfg.CellSize, a.cfg.CellSize)
	img.Fill(canvas.ParseHexColor(hex))
	a.cellImgs[hex] = img
	return img
}

// watchGridAssets registers the directory of every local image the grid
// references so edits on disk reload live.
func (a *App) watchGridAssets() {
	if a.watcher == nil {
		return
	}
	a.ctrl.Grid().Each(func(_, _ int, cell canvas.Cell) {
		if cell.Mode == canvas.ModeLocalImage {
			if err := a.watcher.WatchFileDir(cell.Value); err != nil {
				log.Printf("watch %s: %v", cell.Value, err)
			}
		}
	})
}

func (a *App) watchLocal(path string) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.WatchFileDir(path); err != nil {
		log.Printf("watch %s: %v", path, err)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.windowW, a.windowH
}
