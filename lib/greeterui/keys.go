// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greeterui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the greeter's key bindings. There is no help view;
// the power keys are the only discoverable chrome and they get their
// hints in the header.
type keyMap struct {
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Poweroff  key.Binding
	Reboot    key.Binding
	Suspend   key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
		),
		Poweroff: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "poweroff"),
		),
		Reboot: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "reboot"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "suspend"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}
