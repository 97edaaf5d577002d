package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Prompt is a simple modal text input for file paths and URLs. When
// open it captures typed characters and calls the provided callback
// when the user presses Enter. Escape closes it without invoking the
// callback.
type Prompt struct {
	open    bool
	label   string
	input   string
	chars   []rune
	onEnter func(string)
}

func NewPrompt() *Prompt { return &Prompt{} }

func (p *Prompt) IsOpen() bool { return p.open }

// Open shows the prompt with the given label, initial input, and callback.
func (p *Prompt) Open(label, initial string, onEnter func(string)) {
	p.label = label
	p.input = initial
	p.onEnter = onEnter
	p.open = true
}

// Close hides the prompt without invoking the callback.
func (p *Prompt) Close() {
	p.open = false
	p.label = ""
	p.input = ""
	p.onEnter = nil
}

// Update processes input for the prompt. Returns true if the prompt was
// open when the tick started, so the caller skips its own key handling
// on the tick that closed the prompt too. The Escape or Enter press that
// dismisses the prompt must not leak into the app's shortcuts.
func (p *Prompt) Update() bool {
	if !p.open {
		return false
	}
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	p.step(p.chars,
		inpututil.IsKeyJustPressed(ebiten.KeyBackspace),
		inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		inpututil.IsKeyJustPressed(ebiten.KeyEscape))
	return true
}

// step applies one tick's worth of typed characters and key presses.
func (p *Prompt) step(chars []rune, backspace, enter, escape bool) {
	for _, r := range chars {
		if r == '\n' || r == '\r' {
			continue
		}
		p.input += string(r)
	}
	if backspace && len(p.input) > 0 {
		p.input = p.input[:len(p.input)-1]
	}
	if enter {
		cur := p.input
		p.open = false
		if p.onEnter != nil {
			p.onEnter(cur)
		}
		// the callback may have reopened the prompt for a follow-up
		if !p.open {
			p.Close()
		}
		return
	}
	if escape {
		p.Close()
	}
}

// Draw renders the prompt overlay into the provided screen.
func (p *Prompt) Draw(screen *ebiten.Image) {
	if !p.open {
		return
	}
	sw := screen.Bounds().Dx()
	sh := screen.Bounds().Dy()
	o := &ebiten.DrawImageOptions{}
	back := ebiten.NewImage(sw, 48)
	back.Fill(color.RGBA{R: 0, G: 0, B: 0, A: 0x88})
	o.GeoM.Translate(0, float64(sh/2-24))
	screen.DrawImage(back, o)
	label := p.label
	if label == "" {
		label = "Input:"
	}
	ebitenutil.DebugPrintAt(screen, label+" "+p.input, 16, sh/2-8)
}
