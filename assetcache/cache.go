// Package assetcache resolves cell image references into decoded,
// cell-sized images without blocking the editing goroutine. A small
// worker pool performs fetch+decode; workers hand results back as
// Completion values on a channel, and only the owning goroutine (the
// one driving the editor) mutates the cache maps by applying them.
// That single-owner handoff is the only synchronization in the package.
package assetcache

import (
	"image"
	"log"
	"sync"

	"github.com/milk9111/pixelcanvas/canvas"
)

// Key names one cacheable decoded image: the source kind plus the path
// or URL. It is the image-mode projection of a canvas.Cell.
type Key struct {
	Mode  canvas.Mode
	Value string
}

// KeyFor returns the asset key for an image-mode cell. Color cells have
// no key.
func KeyFor(c canvas.Cell) (Key, bool) {
	if !c.Mode.IsImage() {
		return Key{}, false
	}
	return Key{Mode: c.Mode, Value: c.Value}, true
}

// Cell converts the key back into the cell content that references it.
func (k Key) Cell() canvas.Cell {
	return canvas.Cell{Mode: k.Mode, Value: k.Value}
}

// Completion is a worker's report for one finished fetch. Exactly one
// of Image and Err is set.
type Completion struct {
	Key   Key
	Image image.Image
	Err   error
}

type job struct {
	key    Key
	loader Loader
}

const (
	// DefaultWorkers is the fetch+decode pool size. Loads are background
	// work, not latency-sensitive; a small pool is plenty.
	DefaultWorkers = 4

	queueDepth = 256
)

// Cache maps asset keys to decoded images. entries and inFlight must
// only be touched by the owning goroutine (Resolve, Request, Apply,
// Forget, Clear); workers communicate exclusively through completions.
type Cache struct {
	entries  map[Key]image.Image
	inFlight map[Key]struct{}

	jobs        chan job
	completions chan Completion
	quit        chan struct{}
	once        sync.Once
}

// New starts a cache with the given number of fetch workers.
func New(workers int) *Cache {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	c := &Cache{
		entries:     make(map[Key]image.Image),
		inFlight:    make(map[Key]struct{}),
		jobs:        make(chan job, queueDepth),
		completions: make(chan Completion, queueDepth),
		quit:        make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go c.worker()
	}
	return c
}

func (c *Cache) worker() {
	for {
		select {
		case <-c.quit:
			return
		case j := <-c.jobs:
			img, err := j.loader.Load(j.key.Value)
			select {
			case c.completions <- Completion{Key: j.key, Image: img, Err: err}:
			case <-c.quit:
			}
		}
	}
}

// Resolve returns the decoded image for key if one is cached. It never
// blocks; a miss means the caller should render a placeholder.
func (c *Cache) Resolve(key Key) (image.Image, bool) {
	img, ok := c.entries[key]
	return img, ok
}

// Request schedules a fetch+decode for key unless it is already cached
// or already being fetched. It never blocks: concurrent requests for
// the same key collapse into the one in-flight fetch.
func (c *Cache) Request(key Key, loader Loader) {
	if _, ok := c.entries[key]; ok {
		return
	}
	if _, ok := c.inFlight[key]; ok {
		return
	}
	c.inFlight[key] = struct{}{}
	select {
	case c.jobs <- job{key: key, loader: loader}:
	default:
		// queue saturated; drop the mark so a later redraw can retry
		delete(c.inFlight, key)
		log.Printf("assetcache: job queue full, dropping request for %s", key.Value)
	}
}

// Completions is the stream of finished fetches. The owning goroutine
// drains it and feeds each value to Apply.
func (c *Cache) Completions() <-chan Completion {
	return c.completions
}

// Apply folds one completion into the cache. Must be called from the
// owning goroutine. A completion whose key is no longer in-flight
// (Clear ran since the fetch was dispatched) is discarded. On failure
// the key is dropped entirely and the error returned so the caller can
// scrub grid cells that still reference it.
func (c *Cache) Apply(comp Completion) error {
	if _, ok := c.inFlight[comp.Key]; !ok {
		return nil
	}
	delete(c.inFlight, comp.Key)
	if comp.Err != nil {
		return comp.Err
	}
	c.entries[comp.Key] = comp.Image
	return nil
}

// Forget drops a cached entry so the next Request re-fetches it. Used
// when a watched asset file changes on disk.
func (c *Cache) Forget(key Key) {
	delete(c.entries, key)
}

// Clear drops every entry and all in-flight bookkeeping. Outstanding
// fetches are not cancelled; their completions arrive later and are
// discarded by Apply.
func (c *Cache) Clear() {
	c.entries = make(map[Key]image.Image)
	c.inFlight = make(map[Key]struct{})
}

// Len reports how many decoded images are cached.
func (c *Cache) Len() int {
	return len(c.entries)
}

// InFlight reports whether a fetch for key is outstanding.
func (c *Cache) InFlight(key Key) bool {
	_, ok := c.inFlight[key]
	return ok
}

// Close stops the workers. In-flight fetches are abandoned; anything
// they produce afterwards is dropped.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.quit)
	})
}
