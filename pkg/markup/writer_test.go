package markup

import (
	"strings"
	"testing"
)

func render(t *testing.T, wr *Writer, node *Node) string {
	t.Helper()
	out, err := wr.String(node)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return out
}

func TestWriterBasicElement(t *testing.T) {
	wr := NewWriter()
	out := render(t, wr, Div(ID("app"), H1("Hello")))
	want := `<div id="app"><h1>Hello</h1></div>`
	if out != want {
		t.Errorf("out = %s, want %s", out, want)
	}
}

func TestWriterEscapesText(t *testing.T) {
	wr := NewWriter()
	out := render(t, wr, P(`<script>alert("x") & 'y'</script>`))
	if strings.Contains(out, "<script>") {
		t.Errorf("text not escaped: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("missing escaped entities: %s", out)
	}
}

func TestWriterEscapesAttributes(t *testing.T) {
	wr := NewWriter()
	out := render(t, wr, Div(TitleAttr(`say "hi" & bye`)))
	if !strings.Contains(out, `title="say &quot;hi&quot; &amp; bye"`) {
		t.Errorf("attribute not escaped: %s", out)
	}
}

func TestWriterRawUnescaped(t *testing.T) {
	wr := NewWriter()
	out := render(t, wr, Div(Raw("<b>bold</b>")))
	if out != "<div><b>bold</b></div>" {
		t.Errorf("out = %s", out)
	}
}

func TestWriterVoidElements(t *testing.T) {
	wr := NewWriter()
	out := render(t, wr, Div(Br(), Img(Src("a.png"))))
	if strings.Contains(out, "</br>") || strings.Contains(out, "</img>") {
		t.Errorf("void elements must not close: %s", out)
	}
	if !strings.Contains(out, `<img src="a.png">`) {
		t.Errorf("out = %s", out)
	}
}

func TestWriterBooleanAttributes(t *testing.T) {
	wr := NewWriter()
	out := render(t, wr, Fragment(
		Input(Type("text"), Disabled(true)),
		Input(Type("text"), Disabled(false)),
	))
	if !strings.Contains(out, " disabled") {
		t.Errorf("true boolean attr must render bare: %s", out)
	}
	if strings.Count(out, "disabled") != 1 {
		t.Errorf("false boolean attr must be omitted: %s", out)
	}
}

func TestWriterDeterministicAttributeOrder(t *testing.T) {
	wr := NewWriter()
	node := func() *Node {
		return Div(ID("x"), Class("c"), Data("role", "panel"))
	}
	first := render(t, wr, node())
	for range 10 {
		if got := render(t, wr, node()); got != first {
			t.Fatalf("non-deterministic output: %s vs %s", got, first)
		}
	}
}

func TestWriterAssignsIDsAndCollectsHandlers(t *testing.T) {
	clicks := 0
	wr := NewWriter()
	doc := Div(
		Button(OnClick(func(Event) { clicks++ }), "A"),
		Span("static"),
		Button(OnClick(func(Event) { clicks += 10 }), "B"),
	)
	out := render(t, wr, doc)

	if !strings.Contains(out, `data-node-id="n1"`) || !strings.Contains(out, `data-node-id="n2"`) {
		t.Fatalf("interactive nodes missing IDs: %s", out)
	}
	if strings.Count(out, "data-node-id") != 2 {
		t.Errorf("only interactive nodes get IDs: %s", out)
	}

	h, ok := wr.Lookup("n2", "click")
	if !ok {
		t.Fatal("handler for n2 not registered")
	}
	h(Event{Type: "click"})
	if clicks != 10 {
		t.Errorf("clicks = %d, want 10", clicks)
	}
}

func TestWriterResetRestartsIDs(t *testing.T) {
	wr := NewWriter()
	render(t, wr, Button(OnClick(func(Event) {}), "A"))
	wr.Reset()
	out := render(t, wr, Button(OnClick(func(Event) {}), "B"))
	if !strings.Contains(out, `data-node-id="n1"`) {
		t.Errorf("IDs must restart after Reset: %s", out)
	}
	if len(wr.Handlers()) != 1 {
		t.Errorf("registry = %d entries, want 1 after Reset", len(wr.Handlers()))
	}
}

func TestWriterRejectsUnexpandedComponent(t *testing.T) {
	wr := NewWriter()
	badge := Func(func() *Node {
		t.Fatal("serializer must not run component bodies")
		return nil
	})
	_, err := wr.String(Div(badge))
	if err == nil {
		t.Fatal("expected an error for an unexpanded component node")
	}
	if !strings.Contains(err.Error(), "unexpanded component") {
		t.Errorf("err = %v, want unexpanded component", err)
	}
}
