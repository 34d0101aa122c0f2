package shell

import (
	"sync"

	"github.com/gogpu/gg"
)

// DocumentEngine consumes whole documents and turns them into pixels.
// Implementations own styling, layout, and painting; the shell only feeds
// them markup and asks where pointer events landed.
type DocumentEngine interface {
	// Load replaces the engine's document with the given markup.
	Load(html string) error

	// Paint draws the current document into the canvas.
	Paint(dc *gg.Context) error

	// HitTest maps a point in window coordinates to the node id of the
	// nearest interactive element, false when nothing interactive is
	// under the point.
	HitTest(x, y float64) (nodeID string, ok bool)
}

// Headless is a DocumentEngine that records what it was given and paints
// nothing. It backs tests and tooling that drive the shell without a GPU.
type Headless struct {
	mu    sync.Mutex
	doc   string
	loads int
	hits  map[[2]float64]string
}

// NewHeadless creates an empty headless engine.
func NewHeadless() *Headless {
	return &Headless{hits: make(map[[2]float64]string)}
}

// Load stores the document.
func (h *Headless) Load(html string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc = html
	h.loads++
	return nil
}

// Paint is a no-op.
func (h *Headless) Paint(*gg.Context) error { return nil }

// HitTest returns the node id registered for the exact point, if any.
func (h *Headless) HitTest(x, y float64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.hits[[2]float64{x, y}]
	return id, ok
}

// SetHit registers a point-to-node mapping for HitTest.
func (h *Headless) SetHit(x, y float64, nodeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[[2]float64{x, y}] = nodeID
}

// LastDocument returns the most recently loaded markup.
func (h *Headless) LastDocument() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc
}

// Loads returns how many documents have been loaded.
func (h *Headless) Loads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loads
}
