package assetcache

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/milk9111/pixelcanvas/canvas"
)

// Loader fetches and decodes one kind of image source. Implementations
// run on cache workers and must not share mutable state.
type Loader interface {
	Load(value string) (image.Image, error)
}

// DefaultRemoteTimeout bounds a remote fetch; expiry counts as a load
// failure.
const DefaultRemoteTimeout = 10 * time.Second

// LocalLoader reads and decodes an image file from disk, scaled to one
// cell.
type LocalLoader struct {
	CellSize int
}

func (l *LocalLoader) Load(path string) (image.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return scaleToCell(img, l.CellSize), nil
}

// RemoteLoader fetches and decodes an image over HTTP, scaled to one
// cell.
type RemoteLoader struct {
	CellSize int
	Client   *http.Client
}

func NewRemoteLoader(cellSize int, timeout time.Duration) *RemoteLoader {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteLoader{
		CellSize: cellSize,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (l *RemoteLoader) Load(url string) (image.Image, error) {
	resp, err := l.Client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: status %s", url, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", url, err)
	}
	return scaleToCell(img, l.CellSize), nil
}

// Loaders bundles one loader per source kind so callers can pick by
// cell mode.
type Loaders struct {
	Local  *LocalLoader
	Remote *RemoteLoader
}

func NewLoaders(cellSize int, remoteTimeout time.Duration) *Loaders {
	return &Loaders{
		Local:  &LocalLoader{CellSize: cellSize},
		Remote: NewRemoteLoader(cellSize, remoteTimeout),
	}
}

// For returns the loader for an image mode, or nil for non-image modes.
func (s *Loaders) For(mode canvas.Mode) Loader {
	switch mode {
	case canvas.ModeLocalImage:
		return s.Local
	case canvas.ModeRemoteImage:
		return s.Remote
	default:
		return nil
	}
}

// scaleToCell resamples the decoded image to size x size pixels.
func scaleToCell(img image.Image, size int) image.Image {
	if size <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
