package markup

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element node with the given tag. Arguments can be: nil,
// Attr, []Attr, *Node, []*Node, Component, string, EventHandler.
func El(tag string, args ...any) *Node {
	node := &Node{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Allows conditional attributes and children.
			continue

		case Attr:
			node.setAttr(v)

		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}

		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*Node:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case Component:
			node.Children = append(node.Children, &Node{
				Kind: KindComponent,
				Comp: v,
			})

		case string:
			node.Children = append(node.Children, &Node{
				Kind: KindText,
				Text: v,
			})

		case EventHandler:
			if node.Handlers == nil {
				node.Handlers = make(map[string]Handler)
			}
			node.Handlers[v.Event] = v.Handler
		}
	}

	return node
}

func (n *Node) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			n.Key = s
		}
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[a.Key] = a.Value
}

// Document structure elements

func Html(args ...any) *Node    { return El("html", args...) }
func Head(args ...any) *Node    { return El("head", args...) }
func Body(args ...any) *Node    { return El("body", args...) }
func Title(args ...any) *Node   { return El("title", args...) }
func Meta(args ...any) *Node    { return El("meta", args...) }
func Link(args ...any) *Node    { return El("link", args...) }
func StyleEl(args ...any) *Node { return El("style", args...) }

// Sectioning elements

func Div(args ...any) *Node     { return El("div", args...) }
func Span(args ...any) *Node    { return El("span", args...) }
func Header(args ...any) *Node  { return El("header", args...) }
func Footer(args ...any) *Node  { return El("footer", args...) }
func Main(args ...any) *Node    { return El("main", args...) }
func Section(args ...any) *Node { return El("section", args...) }
func Article(args ...any) *Node { return El("article", args...) }
func Aside(args ...any) *Node   { return El("aside", args...) }
func Nav(args ...any) *Node     { return El("nav", args...) }

// Text content

func H1(args ...any) *Node         { return El("h1", args...) }
func H2(args ...any) *Node         { return El("h2", args...) }
func H3(args ...any) *Node         { return El("h3", args...) }
func H4(args ...any) *Node         { return El("h4", args...) }
func P(args ...any) *Node          { return El("p", args...) }
func Pre(args ...any) *Node        { return El("pre", args...) }
func Code(args ...any) *Node       { return El("code", args...) }
func Blockquote(args ...any) *Node { return El("blockquote", args...) }
func Br(args ...any) *Node         { return El("br", args...) }
func Hr(args ...any) *Node         { return El("hr", args...) }
func Em(args ...any) *Node         { return El("em", args...) }
func Strong(args ...any) *Node     { return El("strong", args...) }
func Small(args ...any) *Node      { return El("small", args...) }

// Lists

func Ul(args ...any) *Node { return El("ul", args...) }
func Ol(args ...any) *Node { return El("ol", args...) }
func Li(args ...any) *Node { return El("li", args...) }

// Tables

func Table(args ...any) *Node { return El("table", args...) }
func Thead(args ...any) *Node { return El("thead", args...) }
func Tbody(args ...any) *Node { return El("tbody", args...) }
func Tr(args ...any) *Node    { return El("tr", args...) }
func Th(args ...any) *Node    { return El("th", args...) }
func Td(args ...any) *Node    { return El("td", args...) }

// Forms and interaction

func A(args ...any) *Node        { return El("a", args...) }
func Button(args ...any) *Node   { return El("button", args...) }
func Form(args ...any) *Node     { return El("form", args...) }
func Input(args ...any) *Node    { return El("input", args...) }
func Textarea(args ...any) *Node { return El("textarea", args...) }
func Select(args ...any) *Node   { return El("select", args...) }
func Option(args ...any) *Node   { return El("option", args...) }
func Label(args ...any) *Node    { return El("label", args...) }

// Media

func Img(args ...any) *Node    { return El("img", args...) }
func Canvas(args ...any) *Node { return El("canvas", args...) }
func Svg(args ...any) *Node    { return El("svg", args...) }
