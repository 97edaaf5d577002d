package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	euiimage "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/pixelcanvas/canvas"
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *euiimage.NineSlice {
	return euiimage.NewNineSliceColor(c)
}

func newAppTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(color.RGBA{40, 40, 40, 255}),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}

// buildUI assembles the two toolbar rows: color swatches plus tools on
// top, file operations underneath.
func buildUI(a *App) *ebitenui.UI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newAppTheme(&fontFace)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(a.windowW, toolbarH),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(4),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)
	toolbar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchHorizontal:  true,
	}

	toolbar.AddChild(buildBrushRow(a, ui.PrimaryTheme, &fontFace))
	toolbar.AddChild(buildFileRow(a, ui.PrimaryTheme, &fontFace))
	root.AddChild(toolbar)

	ui.Container = root
	return ui
}

func newRow() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
}

func buildBrushRow(a *App, theme *widget.Theme, fontFace *text.Face) *widget.Container {
	row := newRow()

	for _, hex := range a.cfg.Palette {
		hex := hex
		swatch := canvas.ParseHexColor(hex)
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{
				Idle:    solidNineSlice(swatch),
				Hover:   solidNineSlice(swatch),
				Pressed: solidNineSlice(swatch),
			}),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(28, 28)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				a.setStatus(a.ctrl.SelectColor(hex))
			}),
		)
		row.AddChild(btn)
	}

	row.AddChild(textButton(theme, fontFace, "Eraser", func() {
		a.setStatus(a.ctrl.SelectEraser())
	}))
	row.AddChild(textButton(theme, fontFace, "Fill", func() {
		a.setStatus(a.ctrl.SelectFill())
	}))
	row.AddChild(textButton(theme, fontFace, "Image...", func() {
		a.prompt.Open("Image file path:", "", func(path string) {
			if path == "" {
				return
			}
			status, err := a.ctrl.SelectImageBrush(canvas.ModeLocalImage, path)
			if err == nil {
				a.watchLocal(path)
			}
			a.report(status, err)
		})
	}))
	row.AddChild(textButton(theme, fontFace, "URL...", func() {
		a.prompt.Open("Image URL:", "", func(url string) {
			if url == "" {
				return
			}
			a.report(a.ctrl.SelectImageBrush(canvas.ModeRemoteImage, url))
		})
	}))
	return row
}

func buildFileRow(a *App, theme *widget.Theme, fontFace *text.Face) *widget.Container {
	row := newRow()

	row.AddChild(textButton(theme, fontFace, "Save", func() {
		a.prompt.Open("Save to:", "canvas.json", func(path string) {
			if path == "" {
				return
			}
			a.report(a.ctrl.SaveTo(path))
		})
	}))
	row.AddChild(textButton(theme, fontFace, "Load", func() {
		a.prompt.Open("Load from:", "canvas.json", func(path string) {
			if path == "" {
				return
			}
			status, err := a.ctrl.LoadFrom(path)
			if err == nil {
				a.watchGridAssets()
			}
			a.report(status, err)
		})
	}))
	row.AddChild(textButton(theme, fontFace, "Export", func() {
		a.prompt.Open("Export PNG to:", "canvas.png", func(path string) {
			if path == "" {
				return
			}
			a.report(a.ctrl.ExportTo(path))
		})
	}))
	row.AddChild(textButton(theme, fontFace, "Clear", func() {
		a.prompt.Open("Clear the canvas? This cannot be undone. Type y to confirm:", "", a.clearIfConfirmed)
	}))
	return row
}

func textButton(theme *widget.Theme, fontFace *text.Face, label string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, fontFace, &widget.ButtonTextColor{
			Idle:     color.Black,
			Hover:    color.Black,
			Pressed:  color.RGBA{0, 0, 200, 255},
			Disabled: color.Gray{Y: 128},
		}),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(56, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}
