// Package keymap holds the TUI key bindings and the help groupings built
// from them.
package keymap

import "github.com/charmbracelet/bubbles/key"

// KeyMap is shared by the clinic picker and the agenda. Agenda status keys
// are single letters that do not overlap vim-style navigation.
type KeyMap struct {
	Quit, Help, Back key.Binding
	Up, Down, Select key.Binding
	PrevDay, NextDay key.Binding
	Today, Refresh   key.Binding
	Confirm, Start   key.Binding
	Complete, Cancel key.Binding
	NoShow           key.Binding
}

// bind shows the first key in help unless label is set.
func bind(desc, label string, keys ...string) key.Binding {
	if label == "" {
		label = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:   bind("quit", "q", "q", "ctrl+c"),
		Help:   bind("help", "", "?"),
		Back:   bind("back", "", "esc"),
		Up:     bind("up", "↑/k", "up", "k"),
		Down:   bind("down", "↓/j", "down", "j"),
		Select: bind("select", "", "enter"),

		PrevDay: bind("prev day", "←/h", "left", "h"),
		NextDay: bind("next day", "→/l", "right", "l"),
		Today:   bind("today", "", "t"),
		Refresh: bind("reload", "", "r"),

		Confirm:  bind("confirm", "", "c"),
		Start:    bind("start", "", "s"),
		Complete: bind("done", "", "d"),
		Cancel:   bind("cancel", "", "x"),
		NoShow:   bind("no-show", "", "n"),
	}
}

// ShortHelp is what the status bar shows outside the agenda.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// AgendaHelp ends with Back so the way out is always visible.
func (k *KeyMap) AgendaHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.Confirm, k.Start, k.Complete, k.Cancel, k.Back}
}

// FullHelp groups bindings into the help screen's columns.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.PrevDay, k.NextDay, k.Today, k.Refresh},
		{k.Confirm, k.Start, k.Complete, k.Cancel, k.NoShow},
		{k.Help, k.Quit},
	}
}
