package shell

// MenuBar is an application menu. With Native set the host installs it in
// the platform menu bar; otherwise the application draws it as part of
// its chrome and routes clicks through Activate.
type MenuBar struct {
	Native bool
	Menus  []*Menu
}

// Menu is one top-level menu.
type Menu struct {
	Label string
	Items []*MenuItem
}

// MenuItem is an activatable entry. Shortcut is display-only; the host
// loop handles accelerator registration.
type MenuItem struct {
	Label    string
	Shortcut string
	OnClick  func()

	separator bool
}

// IsSeparator reports whether the item is a divider.
func (i *MenuItem) IsSeparator() bool { return i.separator }

// Separator returns a divider item.
func Separator() *MenuItem {
	return &MenuItem{separator: true}
}

// NewMenu builds a top-level menu.
func NewMenu(label string, items ...*MenuItem) *Menu {
	return &Menu{Label: label, Items: items}
}

// Item builds a menu item.
func Item(label, shortcut string, onClick func()) *MenuItem {
	return &MenuItem{Label: label, Shortcut: shortcut, OnClick: onClick}
}

// NewMenuBar builds a menu bar.
func NewMenuBar(menus ...*Menu) *MenuBar {
	return &MenuBar{Menus: menus}
}

// Find returns the item under the given menu label, false when either
// label is unknown.
func (b *MenuBar) Find(menuLabel, itemLabel string) (*MenuItem, bool) {
	if b == nil {
		return nil, false
	}
	for _, m := range b.Menus {
		if m.Label != menuLabel {
			continue
		}
		for _, item := range m.Items {
			if !item.separator && item.Label == itemLabel {
				return item, true
			}
		}
	}
	return nil, false
}

// Activate runs the named item's callback. It reports whether an item
// matched; a matched item without a callback still counts.
func (b *MenuBar) Activate(menuLabel, itemLabel string) bool {
	item, ok := b.Find(menuLabel, itemLabel)
	if !ok {
		return false
	}
	if item.OnClick != nil {
		item.OnClick()
	}
	return true
}

// MenuHost installs a menu bar into the platform. Hosts without native
// menus can implement it as a no-op.
type MenuHost interface {
	Install(bar *MenuBar) error
}
