package shell

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lumenerrors "github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/pkg/assets"
	"github.com/lumen-dev/lumen/pkg/markup"
	"github.com/lumen-dev/lumen/pkg/reactive"
	"github.com/lumen-dev/lumen/pkg/runtime"
)

// windowInstance is one open window's plumbing: the mounted component
// tree, the engine holding its document, and the renderer presenting it.
type windowInstance struct {
	handle   WindowHandle
	props    WindowProps
	root     *runtime.Instance
	engine   DocumentEngine
	renderer *SurfaceRenderer
	writer   *markup.Writer
}

// Component wraps a render function as a mountable component.
func Component(fn func() *markup.Node) runtime.Component {
	return runtime.FuncComponent(fn)
}

// HostLoop drives the application. A platform implementation blocks in
// Run pumping OS events and calling frame when windows need work; Wake
// unblocks the loop from any goroutine.
type HostLoop interface {
	Run(ctx context.Context, frame func(ctx context.Context) error) error
	Wake()
}

// AppOptions configure an App.
type AppOptions struct {
	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Scheduler defaults to a fresh runtime.NewScheduler.
	Scheduler *runtime.Scheduler

	// Manager defaults to the package default window manager, so
	// package-level OpenWindow and the current-window controls work out
	// of the box.
	Manager *Manager

	// NewEngine builds the document engine for each window. Defaults to
	// NewHeadless.
	NewEngine func() DocumentEngine

	// Menu is the application menu, installed when a MenuHost is set.
	Menu *MenuBar

	// MenuHost installs Menu into the platform. Optional.
	MenuHost MenuHost

	// RendererOptions apply to every window surface. Transparent is
	// forced on per window when its props request it.
	RendererOptions SurfaceRendererOptions

	// Assets resolves image and font sources for document engines.
	// Optional.
	Assets *assets.Resolver
}

// App ties the pieces together: it drains window requests, dispatches
// input into component handlers, flushes the scheduler, and renders every
// window's expanded tree through its engine.
type App struct {
	logger    *slog.Logger
	sched     *runtime.Scheduler
	manager   *Manager
	menu      *MenuBar
	newEngine func() DocumentEngine
	rendOpts  SurfaceRendererOptions
	loader    *AssetLoader
	windows   map[WindowHandle]*windowInstance
}

// NewApp creates an App. Menu installation errors are returned here so a
// broken platform menu fails fast instead of at first frame.
func NewApp(opts AppOptions) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = runtime.NewScheduler(runtime.WithLogger(opts.Logger))
	}
	if opts.Manager == nil {
		opts.Manager = defaultManager
	}
	if opts.NewEngine == nil {
		opts.NewEngine = func() DocumentEngine { return NewHeadless() }
	}
	if opts.MenuHost != nil && opts.Menu != nil {
		if err := opts.MenuHost.Install(opts.Menu); err != nil {
			return nil, fmt.Errorf("install menu: %w", err)
		}
	}
	a := &App{
		logger:    opts.Logger.With("component", "app"),
		sched:     opts.Scheduler,
		manager:   opts.Manager,
		menu:      opts.Menu,
		newEngine: opts.NewEngine,
		rendOpts:  opts.RendererOptions,
		windows:   make(map[WindowHandle]*windowInstance),
	}
	if opts.Assets != nil {
		a.loader = NewAssetLoader(opts.Assets)
	}
	return a, nil
}

// Scheduler returns the app's scheduler.
func (a *App) Scheduler() *runtime.Scheduler { return a.sched }

// Manager returns the app's window manager.
func (a *App) Manager() *Manager { return a.manager }

// Menu returns the application menu, nil when none was configured.
func (a *App) Menu() *MenuBar { return a.menu }

// Assets returns the asset loader, nil when no resolver was configured.
// Document engines use it to fetch the bytes behind src attributes.
func (a *App) Assets() *AssetLoader { return a.loader }

// Root returns the mounted root instance of an open window, false when
// the handle is unknown.
func (a *App) Root(handle WindowHandle) (*runtime.Instance, bool) {
	win, ok := a.windows[handle]
	if !ok {
		return nil, false
	}
	return win.root, true
}

// Windows returns the handles of every open window.
func (a *App) Windows() []WindowHandle {
	handles := make([]WindowHandle, 0, len(a.windows))
	for h := range a.windows {
		handles = append(handles, h)
	}
	return handles
}

// ProcessRequests drains the manager's open/close queue: opens mount the
// root component and create the window's engine and renderer, closes
// unmount and release everything. Called by the host loop before each
// frame.
func (a *App) ProcessRequests() error {
	var errs []error
	for _, req := range a.manager.TakeRequests() {
		switch {
		case req.Open != nil:
			if err := a.openWindow(req.Open); err != nil {
				errs = append(errs, err)
			}
		case req.Close != nil:
			a.closeWindow(req.Close.Handle)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("window requests: %w", errs[0])
	}
	return nil
}

func (a *App) openWindow(req *OpenRequest) error {
	if req.Root == nil {
		return fmt.Errorf("open window %d: no root component", req.Handle)
	}
	root, err := a.sched.Mount(req.Root)
	if err != nil {
		a.logger.Error("mount window root", "window", req.Handle, "error", err)
	}
	if root == nil {
		return fmt.Errorf("open window %d: %w", req.Handle, err)
	}

	rendOpts := a.rendOpts
	if req.Props.Transparent {
		rendOpts.Transparent = true
	}
	win := &windowInstance{
		handle:   req.Handle,
		props:    req.Props,
		root:     root,
		engine:   a.newEngine(),
		renderer: NewSurfaceRenderer(rendOpts),
		writer:   markup.NewWriter(),
	}
	a.windows[req.Handle] = win
	a.manager.UpdateState(req.Handle, WindowState{
		Width:  req.Props.Width,
		Height: req.Props.Height,
	})
	a.logger.Info("window opened",
		"window", req.Handle, "title", req.Props.Title,
		"width", req.Props.Width, "height", req.Props.Height)
	return nil
}

func (a *App) closeWindow(handle WindowHandle) {
	win, ok := a.windows[handle]
	if !ok {
		return
	}
	a.sched.Unmount(win.root)
	win.renderer.Suspend()
	delete(a.windows, handle)
	a.manager.RemoveState(handle)
	a.logger.Info("window closed", "window", handle)
}

// SurfaceReady attaches a presenter to a window's renderer. Called by the
// host loop once the platform surface exists, and again after the surface
// is recreated.
func (a *App) SurfaceReady(handle WindowHandle, p Presenter) error {
	win, ok := a.windows[handle]
	if !ok {
		return lumenerrors.New("E080").
			WithDetail(fmt.Sprintf("Surface attached for window %d.", handle))
	}
	win.renderer.Resume(p, win.props.Width, win.props.Height)
	return nil
}

// SurfaceLost suspends a window's renderer until the surface comes back.
func (a *App) SurfaceLost(handle WindowHandle) {
	if win, ok := a.windows[handle]; ok {
		win.renderer.Suspend()
	}
}

// Resize updates a window's canvas and recorded geometry.
func (a *App) Resize(handle WindowHandle, width, height int) {
	win, ok := a.windows[handle]
	if !ok {
		return
	}
	win.props.Width = width
	win.props.Height = height
	win.renderer.SetSize(width, height)
	state, _ := a.manager.State(handle)
	state.Width = width
	state.Height = height
	a.manager.UpdateState(handle, state)
}

// DispatchInput routes one input event to the component handler it
// targets. Pointer events without a node id are hit-tested against the
// window's document. The current-window marker is set for the duration of
// the handler so chrome helpers resolve correctly, and handler panics are
// contained.
func (a *App) DispatchInput(ctx context.Context, ev InputEvent) error {
	win, ok := a.windows[ev.Window]
	if !ok {
		return lumenerrors.New("E080").
			WithDetail(fmt.Sprintf("Input event for window %d.", ev.Window))
	}
	if win.root.IsDisposed() {
		return lumenerrors.New("E003").
			WithDetail(fmt.Sprintf("Window %d is shutting down.", ev.Window))
	}

	nodeID := ev.NodeID
	if nodeID == "" {
		id, hit := win.engine.HitTest(ev.X, ev.Y)
		if !hit {
			return nil
		}
		nodeID = id
	}
	handler, ok := win.writer.Lookup(nodeID, ev.Type)
	if !ok {
		// A hit-tested node without a handler is a non-interactive target.
		// An explicit node id that resolves to nothing means the document
		// re-rendered after the event was queued.
		if ev.NodeID == "" {
			return nil
		}
		return lumenerrors.New("E041").
			WithDetail(fmt.Sprintf("No %s handler on node %s in window %d.", ev.Type, nodeID, ev.Window))
	}

	a.manager.SetCurrent(ev.Window)
	defer a.manager.SetCurrent(0)

	if err := a.runHandler(win, handler, ev.markupEvent()); err != nil {
		a.logger.Error("event handler panicked",
			"window", ev.Window, "node", nodeID, "event", ev.Type, "error", err)
		return err
	}
	if a.sched.HasWork() {
		return a.sched.Flush(ctx)
	}
	return nil
}

func (a *App) runHandler(win *windowInstance, handler markup.Handler, ev markup.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler: %v", r)
		}
	}()
	reactive.WithOwner(win.root.Owner, func() {
		handler(ev)
	})
	return nil
}

// RenderWindow serializes the window's expanded component tree, loads it
// into the engine, and presents a frame.
func (a *App) RenderWindow(handle WindowHandle) error {
	win, ok := a.windows[handle]
	if !ok {
		return lumenerrors.New("E080").
			WithDetail(fmt.Sprintf("Render requested for window %d.", handle))
	}
	tree := win.root.Expanded()
	if tree == nil {
		return nil
	}
	win.writer.Reset()
	doc, err := win.writer.String(tree)
	if err != nil {
		return fmt.Errorf("serialize window %d: %w", handle, err)
	}
	if err := win.engine.Load(doc); err != nil {
		return fmt.Errorf("load document for window %d: %w", handle, err)
	}
	return win.renderer.RenderFrame(win.engine.Paint)
}

// Frame is one pass of the host loop: drain window requests, flush any
// dirty components, and render every window.
func (a *App) Frame(ctx context.Context) error {
	if err := a.ProcessRequests(); err != nil {
		return err
	}
	if a.sched.HasWork() {
		if err := a.sched.Flush(ctx); err != nil {
			a.logger.Error("flush", "error", err)
		}
	}
	for handle := range a.windows {
		if err := a.RenderWindow(handle); err != nil {
			a.logger.Error("render window", "window", handle, "error", err)
		}
	}
	return nil
}

// Run wires the manager's wake signal to the loop and pumps frames until
// the context ends or the loop exits.
func (a *App) Run(ctx context.Context, loop HostLoop) error {
	a.manager.SetWake(loop.Wake)
	defer a.manager.SetWake(nil)
	return loop.Run(ctx, a.Frame)
}

// TickerLoop is a HostLoop that renders on a fixed interval. It backs
// headless operation and tests; platform loops replace it.
type TickerLoop struct {
	Interval time.Duration
	wake     chan struct{}
}

// NewTickerLoop creates a loop ticking at the given interval.
func NewTickerLoop(interval time.Duration) *TickerLoop {
	return &TickerLoop{
		Interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Run pumps frames until the context ends.
func (l *TickerLoop) Run(ctx context.Context, frame func(ctx context.Context) error) error {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.wake:
		}
		if err := frame(ctx); err != nil {
			return err
		}
	}
}

// Wake triggers an immediate frame.
func (l *TickerLoop) Wake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
