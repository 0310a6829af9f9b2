package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit            key.Binding
	toggleHelp      key.Binding
	prevDay         key.Binding
	nextDay         key.Binding
	assign          key.Binding
	toggleWeighted  key.Binding
	toggleRandomize key.Binding
	resetWeek       key.Binding
	copyPlan        key.Binding
	toggleAvailable key.Binding
	togglePolicy    key.Binding
	reloadCatalog   key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		prevDay:         key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous day")),
		nextDay:         key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		assign:          key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "assign day")),
		toggleWeighted:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "toggle weighted")),
		toggleRandomize: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle shuffle")),
		resetWeek:       key.NewBinding(key.WithKeys("R", "shift+r"), key.WithHelp("R", "reset week")),
		copyPlan:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy plan")),
		toggleAvailable: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "availability")),
		togglePolicy:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "rotation policy")),
		reloadCatalog:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload roster")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.prevDay, k.nextDay, k.assign, k.toggleWeighted, k.resetWeek, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.prevDay, k.nextDay, k.assign, k.resetWeek},
		{k.toggleWeighted, k.toggleRandomize, k.copyPlan},
		{k.toggleAvailable, k.togglePolicy, k.reloadCatalog, k.toggleHelp, k.quit},
	}
}
