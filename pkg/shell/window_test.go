package shell

import (
	"testing"

	"github.com/lumen-dev/lumen/pkg/markup"
	"github.com/lumen-dev/lumen/pkg/runtime"
)

func blankRoot() runtime.Component {
	return runtime.FuncComponent(func() *markup.Node {
		return markup.Div()
	})
}

func TestOpenQueuesRequest(t *testing.T) {
	m := NewManager()

	h := m.Open(DefaultWindowProps(), blankRoot())
	if h == 0 {
		t.Fatal("expected a nonzero handle")
	}

	reqs := m.TakeRequests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Open == nil {
		t.Fatal("expected an open request")
	}
	if reqs[0].Open.Handle != h {
		t.Errorf("handle = %d, want %d", reqs[0].Open.Handle, h)
	}
	if reqs[0].Open.Props.Width != 800 || reqs[0].Open.Props.Height != 600 {
		t.Errorf("default size = %dx%d, want 800x600",
			reqs[0].Open.Props.Width, reqs[0].Open.Props.Height)
	}

	if again := m.TakeRequests(); len(again) != 0 {
		t.Errorf("second drain returned %d requests, want 0", len(again))
	}
}

func TestHandlesAreUnique(t *testing.T) {
	m := NewManager()
	seen := make(map[WindowHandle]bool)
	for i := 0; i < 100; i++ {
		h := m.Open(DefaultWindowProps(), blankRoot())
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
	}
}

func TestCloseQueuesRequest(t *testing.T) {
	m := NewManager()
	h := m.Open(DefaultWindowProps(), blankRoot())
	m.TakeRequests()

	m.Close(h)
	reqs := m.TakeRequests()
	if len(reqs) != 1 || reqs[0].Close == nil {
		t.Fatalf("expected 1 close request, got %+v", reqs)
	}
	if reqs[0].Close.Handle != h {
		t.Errorf("handle = %d, want %d", reqs[0].Close.Handle, h)
	}
}

func TestWakeFiresOnQueue(t *testing.T) {
	m := NewManager()
	woke := 0
	m.SetWake(func() { woke++ })

	m.Open(DefaultWindowProps(), blankRoot())
	if woke != 1 {
		t.Errorf("woke = %d after open, want 1", woke)
	}

	m.SetCurrent(1)
	m.CloseCurrent()
	if woke != 2 {
		t.Errorf("woke = %d after control, want 2", woke)
	}
}

func TestStateLifecycle(t *testing.T) {
	m := NewManager()
	h := m.Open(DefaultWindowProps(), blankRoot())

	if _, ok := m.State(h); ok {
		t.Error("state known before the host reported it")
	}

	m.UpdateState(h, WindowState{X: 10, Y: 20, Width: 640, Height: 480})
	state, ok := m.State(h)
	if !ok {
		t.Fatal("state missing after update")
	}
	if state.Width != 640 || state.Height != 480 {
		t.Errorf("size = %dx%d, want 640x480", state.Width, state.Height)
	}

	all := m.AllStates()
	if len(all) != 1 {
		t.Errorf("AllStates returned %d entries, want 1", len(all))
	}

	m.RemoveState(h)
	if _, ok := m.State(h); ok {
		t.Error("state survived removal")
	}
}

func TestCurrentWindowControls(t *testing.T) {
	m := NewManager()
	h := m.Open(DefaultWindowProps(), blankRoot())
	m.TakeRequests()

	m.SetCurrent(h)
	m.MinimizeCurrent()
	m.ToggleMaximizeCurrent()
	m.CloseCurrent()
	m.SetCurrent(0)

	ctrls := m.TakeControls()
	if len(ctrls) != 3 {
		t.Fatalf("expected 3 controls, got %d", len(ctrls))
	}
	want := []ControlOp{ControlMinimize, ControlToggleMaximize, ControlClose}
	for i, op := range want {
		if ctrls[i].Handle != h {
			t.Errorf("control %d handle = %d, want %d", i, ctrls[i].Handle, h)
		}
		if ctrls[i].Op != op {
			t.Errorf("control %d op = %d, want %d", i, ctrls[i].Op, op)
		}
	}
}

func TestControlsOutsideDispatchDropped(t *testing.T) {
	m := NewManager()
	m.MinimizeCurrent()
	if ctrls := m.TakeControls(); len(ctrls) != 0 {
		t.Errorf("expected dropped control, got %d", len(ctrls))
	}
}

func TestWindowBuilder(t *testing.T) {
	m := NewManager()
	h := m.NewWindow().
		Title("Settings").
		Size(400, 300).
		Position(50, 60).
		Resizable(false).
		Borderless(true).
		Transparent(true).
		AlwaysOnTop(true).
		Content(blankRoot()).
		Open()

	reqs := m.TakeRequests()
	if len(reqs) != 1 || reqs[0].Open == nil {
		t.Fatalf("expected 1 open request, got %+v", reqs)
	}
	props := reqs[0].Open.Props
	if reqs[0].Open.Handle != h {
		t.Errorf("handle = %d, want %d", reqs[0].Open.Handle, h)
	}
	if props.Title != "Settings" {
		t.Errorf("title = %q", props.Title)
	}
	if props.Width != 400 || props.Height != 300 {
		t.Errorf("size = %dx%d, want 400x300", props.Width, props.Height)
	}
	if props.X == nil || *props.X != 50 || props.Y == nil || *props.Y != 60 {
		t.Error("position not recorded")
	}
	if props.Resizable || !props.Borderless || !props.Transparent || !props.AlwaysOnTop {
		t.Errorf("flags = %+v", props)
	}
	if reqs[0].Open.Root == nil {
		t.Error("root component missing")
	}
}
