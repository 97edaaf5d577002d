package project

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/milk9111/pixelcanvas/canvas"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	g := canvas.NewGrid(4, 4)
	g.Set(0, 0, canvas.Cell{Mode: canvas.ModeColor, Value: "#ff0000"})
	g.Set(1, 2, canvas.Cell{Mode: canvas.ModeLocalImage, Value: "sprites/tile.png"})
	g.Set(3, 3, canvas.Cell{Mode: canvas.ModeRemoteImage, Value: "http://example.com/a.png"})

	path := filepath.Join(t.TempDir(), "art", "canvas.json")
	if err := Save(path, g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cells, err := Load(path, 4, 4)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := g.Snapshot()
	for r := range want {
		for c := range want[r] {
			if cells[r][c] != want[r][c] {
				t.Fatalf("cell (%d,%d): got %v, want %v", r, c, cells[r][c], want[r][c])
			}
		}
	}
}

func TestDecodeRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not_json", `{{{`},
		{"wrong_outer_type", `{"mode":"color"}`},
		{"too_many_rows", `[[{"mode":"color","val":"#ffffff"}],[{"mode":"color","val":"#ffffff"}],[{"mode":"color","val":"#ffffff"}]]`},
		{"too_few_rows", `[[{"mode":"color","val":"#ffffff"}]]`},
		{"ragged_row", `[[{"mode":"color","val":"#ffffff"}],[{"mode":"color","val":"#ffffff"},{"mode":"color","val":"#ffffff"}]]`},
		{"unknown_mode", `[[{"mode":"sparkle","val":"x"}],[{"mode":"color","val":"#ffffff"}]]`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode([]byte(c.data), 2, 1)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestDecodeValid(t *testing.T) {
	data := `[
		[{"mode":"color","val":"#FF00AA"},{"mode":"image_local","val":"a.png"}],
		[{"mode":"image_url","val":"http://x/b.png"},{"mode":"color","val":"#ffffff"}]
	]`
	cells, err := Decode([]byte(data), 2, 2)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// colors are normalized to lowercase on load
	if cells[0][0] != (canvas.Cell{Mode: canvas.ModeColor, Value: "#ff00aa"}) {
		t.Fatalf("got %v", cells[0][0])
	}
	if cells[0][1] != (canvas.Cell{Mode: canvas.ModeLocalImage, Value: "a.png"}) {
		t.Fatalf("got %v", cells[0][1])
	}
	if cells[1][0] != (canvas.Cell{Mode: canvas.ModeRemoteImage, Value: "http://x/b.png"}) {
		t.Fatalf("got %v", cells[1][0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json"), 2, 2); err == nil {
		t.Fatal("expected error for missing file")
	}
}
