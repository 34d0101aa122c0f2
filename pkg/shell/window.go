package shell

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lumen-dev/lumen/pkg/runtime"
)

// WindowHandle identifies an open window. Handles are safe to store in
// signals and remain valid until the window closes.
type WindowHandle uint64

// WindowProps are the properties a window opens with.
type WindowProps struct {
	Title       string
	Width       int
	Height      int
	X, Y        *int // outer position; nil lets the platform place it
	Resizable   bool
	Borderless  bool
	Transparent bool
	AlwaysOnTop bool
}

// DefaultWindowProps returns the properties used when a caller leaves them
// unset.
func DefaultWindowProps() WindowProps {
	return WindowProps{
		Title:     "lumen",
		Width:     800,
		Height:    600,
		Resizable: true,
	}
}

// WindowState is the current geometry of a window, updated by the host
// loop. Applications can persist it and restore windows where the user
// left them.
type WindowState struct {
	X, Y          int
	Width, Height int
	Maximized     bool
	Minimized     bool
}

// OpenRequest asks the host loop to create a window.
type OpenRequest struct {
	Handle WindowHandle
	Props  WindowProps
	Root   runtime.Component
}

// CloseRequest asks the host loop to destroy a window.
type CloseRequest struct {
	Handle WindowHandle
}

// Request is one queued window operation.
type Request struct {
	Open  *OpenRequest
	Close *CloseRequest
}

// ControlOp is a window chrome operation on an existing window.
type ControlOp int

const (
	ControlMinimize ControlOp = iota
	ControlToggleMaximize
	ControlClose
)

// ControlRequest is one queued chrome operation.
type ControlRequest struct {
	Handle WindowHandle
	Op     ControlOp
}

var handleCounter atomic.Uint64

func newHandle() WindowHandle {
	return WindowHandle(handleCounter.Add(1))
}

// Manager queues window operations from component handlers and hands them
// to the host loop. Handlers run on the loop's dispatch path but may also
// fire from background goroutines, so every entry point is safe for
// concurrent use.
type Manager struct {
	logger *slog.Logger

	mu       sync.Mutex
	requests []Request
	controls []ControlRequest
	states   map[WindowHandle]WindowState
	current  WindowHandle // window handling the in-flight event, 0 when idle
	wake     func()
}

// NewManager creates an empty window manager.
func NewManager() *Manager {
	return &Manager{
		logger: slog.Default().With("component", "windows"),
		states: make(map[WindowHandle]WindowState),
	}
}

// SetWake registers the host loop's wake function, invoked whenever a
// request is queued so the loop processes it promptly.
func (m *Manager) SetWake(fn func()) {
	m.mu.Lock()
	m.wake = fn
	m.mu.Unlock()
}

func (m *Manager) signal() {
	m.mu.Lock()
	fn := m.wake
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Open queues a window with the given properties and root component and
// returns its handle. The window exists once the host loop drains the
// request queue.
func (m *Manager) Open(props WindowProps, root runtime.Component) WindowHandle {
	handle := newHandle()
	m.mu.Lock()
	m.requests = append(m.requests, Request{Open: &OpenRequest{
		Handle: handle,
		Props:  props,
		Root:   root,
	}})
	m.mu.Unlock()
	m.signal()
	return handle
}

// Close queues the teardown of a window.
func (m *Manager) Close(handle WindowHandle) {
	m.mu.Lock()
	m.requests = append(m.requests, Request{Close: &CloseRequest{Handle: handle}})
	m.mu.Unlock()
	m.signal()
}

// TakeRequests drains the pending open/close queue. Called by the host
// loop.
func (m *Manager) TakeRequests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := m.requests
	m.requests = nil
	return reqs
}

// TakeControls drains the pending chrome operation queue. Called by the
// host loop.
func (m *Manager) TakeControls() []ControlRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrls := m.controls
	m.controls = nil
	return ctrls
}

// UpdateState records a window's geometry. Called by the host loop on
// move, resize, and maximize changes.
func (m *Manager) UpdateState(handle WindowHandle, state WindowState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[handle] = state
}

// RemoveState forgets a closed window's geometry.
func (m *Manager) RemoveState(handle WindowHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, handle)
}

// State returns a window's current geometry, false when the handle is
// unknown or the window has closed.
func (m *Manager) State(handle WindowHandle) (WindowState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[handle]
	return state, ok
}

// AllStates returns the geometry of every open window.
func (m *Manager) AllStates() map[WindowHandle]WindowState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[WindowHandle]WindowState, len(m.states))
	for h, s := range m.states {
		out[h] = s
	}
	return out
}

// SetCurrent marks the window whose event is being dispatched, so chrome
// helpers called from handlers know which window they mean. Pass 0 to
// clear.
func (m *Manager) SetCurrent(handle WindowHandle) {
	m.mu.Lock()
	m.current = handle
	m.mu.Unlock()
}

// Current returns the window handling the in-flight event.
func (m *Manager) Current() (WindowHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != 0
}

func (m *Manager) controlCurrent(op ControlOp) {
	m.mu.Lock()
	handle := m.current
	if handle == 0 {
		m.mu.Unlock()
		m.logger.Warn("window control outside event dispatch", "op", op)
		return
	}
	m.controls = append(m.controls, ControlRequest{Handle: handle, Op: op})
	m.mu.Unlock()
	m.signal()
}

// MinimizeCurrent minimizes the window handling the in-flight event.
// Call it from an event handler, typically custom chrome on a borderless
// window.
func (m *Manager) MinimizeCurrent() {
	m.controlCurrent(ControlMinimize)
}

// ToggleMaximizeCurrent maximizes the current window, or restores it when
// already maximized.
func (m *Manager) ToggleMaximizeCurrent() {
	m.controlCurrent(ControlToggleMaximize)
}

// CloseCurrent closes the window handling the in-flight event.
func (m *Manager) CloseCurrent() {
	m.controlCurrent(ControlClose)
}

// WindowBuilder opens a window fluently.
//
//	handle := shell.NewWindow().
//		Title("Settings").
//		Size(400, 300).
//		Resizable(false).
//		Content(settingsPanel).
//		Open()
type WindowBuilder struct {
	m     *Manager
	props WindowProps
	root  runtime.Component
}

// NewWindow starts a builder against the package default manager.
func NewWindow() *WindowBuilder {
	return defaultManager.NewWindow()
}

// NewWindow starts a builder against this manager.
func (m *Manager) NewWindow() *WindowBuilder {
	return &WindowBuilder{m: m, props: DefaultWindowProps()}
}

// Title sets the window title.
func (b *WindowBuilder) Title(title string) *WindowBuilder {
	b.props.Title = title
	return b
}

// Size sets the content size.
func (b *WindowBuilder) Size(width, height int) *WindowBuilder {
	b.props.Width = width
	b.props.Height = height
	return b
}

// Position sets the outer position.
func (b *WindowBuilder) Position(x, y int) *WindowBuilder {
	b.props.X = &x
	b.props.Y = &y
	return b
}

// Resizable sets whether the user can resize the window.
func (b *WindowBuilder) Resizable(resizable bool) *WindowBuilder {
	b.props.Resizable = resizable
	return b
}

// Borderless removes the platform chrome.
func (b *WindowBuilder) Borderless(borderless bool) *WindowBuilder {
	b.props.Borderless = borderless
	return b
}

// Transparent requests an alpha-composited window.
func (b *WindowBuilder) Transparent(transparent bool) *WindowBuilder {
	b.props.Transparent = transparent
	return b
}

// AlwaysOnTop keeps the window above normal windows.
func (b *WindowBuilder) AlwaysOnTop(onTop bool) *WindowBuilder {
	b.props.AlwaysOnTop = onTop
	return b
}

// Content sets the root component rendered into the window.
func (b *WindowBuilder) Content(root runtime.Component) *WindowBuilder {
	b.root = root
	return b
}

// Open queues the window and returns its handle.
func (b *WindowBuilder) Open() WindowHandle {
	return b.m.Open(b.props, b.root)
}

// Package-level convenience over a default manager, for applications with
// a single App.

var defaultManager = NewManager()

// DefaultManager returns the package default window manager.
func DefaultManager() *Manager { return defaultManager }

// OpenWindow opens a window through the default manager.
func OpenWindow(props WindowProps, root runtime.Component) WindowHandle {
	return defaultManager.Open(props, root)
}

// CloseWindow closes a window through the default manager.
func CloseWindow(handle WindowHandle) {
	defaultManager.Close(handle)
}

// GetWindowState returns a window's geometry through the default manager.
func GetWindowState(handle WindowHandle) (WindowState, bool) {
	return defaultManager.State(handle)
}

// MinimizeCurrentWindow minimizes the window handling the current event.
func MinimizeCurrentWindow() { defaultManager.MinimizeCurrent() }

// ToggleMaximizeCurrentWindow toggles maximize on the window handling the
// current event.
func ToggleMaximizeCurrentWindow() { defaultManager.ToggleMaximizeCurrent() }

// CloseCurrentWindow closes the window handling the current event.
func CloseCurrentWindow() { defaultManager.CloseCurrent() }
