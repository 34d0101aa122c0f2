package shell

import (
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"

	lumenerrors "github.com/lumen-dev/lumen/internal/errors"
)

// RenderState says whether a window's surface can accept frames.
type RenderState int

const (
	// StateSuspended means the surface is gone; frames are dropped.
	StateSuspended RenderState = iota
	// StateActive means the surface exists and frames are presented.
	StateActive
)

func (s RenderState) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Presenter puts a finished frame on screen. The host loop supplies one
// per window surface.
type Presenter interface {
	// SupportsAlpha reports whether the surface composites an alpha
	// channel.
	SupportsAlpha() bool

	// Present displays the frame.
	Present(img image.Image) error
}

// SurfaceRendererOptions configure a window's renderer.
type SurfaceRendererOptions struct {
	// BaseColor is the clear color for opaque surfaces. Zero value is
	// opaque black.
	BaseColor gg.RGBA

	// Transparent requests clearing to full transparency so the desktop
	// shows through. Ignored with a warning when the presenter cannot
	// composite alpha.
	Transparent bool
}

// SurfaceRenderer owns a window's canvas. It starts suspended and holds
// no canvas until Resume; windows that move off screen or minimize can
// Suspend to release the surface and Resume later.
type SurfaceRenderer struct {
	opts   SurfaceRendererOptions
	logger *slog.Logger

	mu        sync.Mutex
	state     RenderState
	presenter Presenter
	canvas    *gg.Context
	width     int
	height    int
	alpha     bool
}

// NewSurfaceRenderer creates a suspended renderer.
func NewSurfaceRenderer(opts SurfaceRendererOptions) *SurfaceRenderer {
	return &SurfaceRenderer{
		opts:   opts,
		logger: slog.Default().With("component", "renderer"),
	}
}

// Resume attaches a presenter and creates the canvas at the given size.
// A transparent renderer on a presenter without alpha support falls back
// to opaque rendering.
func (r *SurfaceRenderer) Resume(p Presenter, width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alpha = r.opts.Transparent
	if r.alpha && !p.SupportsAlpha() {
		r.logger.Warn("surface does not composite alpha, rendering opaque",
			"width", width, "height", height)
		r.alpha = false
	}

	if r.canvas != nil {
		r.canvas.Close()
	}
	r.presenter = p
	r.canvas = gg.NewContext(width, height)
	r.width = width
	r.height = height
	r.state = StateActive
}

// Suspend releases the canvas. Frames rendered while suspended are
// dropped.
func (r *SurfaceRenderer) Suspend() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.canvas != nil {
		r.canvas.Close()
		r.canvas = nil
	}
	r.presenter = nil
	r.state = StateSuspended
}

// SetSize recreates the canvas at a new size. Content is discarded; the
// next frame repaints everything.
func (r *SurfaceRenderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateActive {
		r.width = width
		r.height = height
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.canvas.Close()
	r.canvas = gg.NewContext(width, height)
	r.width = width
	r.height = height
}

// RenderFrame clears the canvas, runs draw against it, and presents the
// result. While suspended the frame is silently dropped.
func (r *SurfaceRenderer) RenderFrame(draw func(dc *gg.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateActive {
		return nil
	}

	if r.alpha {
		r.canvas.ClearWithColor(gg.Transparent)
	} else {
		r.canvas.ClearWithColor(r.opts.BaseColor)
	}
	if draw != nil {
		if err := draw(r.canvas); err != nil {
			return err
		}
	}
	if err := r.presenter.Present(r.canvas.Image()); err != nil {
		return lumenerrors.New("E081").Wrap(err)
	}
	return nil
}

// State returns the renderer's state.
func (r *SurfaceRenderer) State() RenderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsActive reports whether the renderer can present frames.
func (r *SurfaceRenderer) IsActive() bool {
	return r.State() == StateActive
}

// Size returns the canvas dimensions.
func (r *SurfaceRenderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}
