package hotkey

import "github.com/mkraev/clipsync/internal/core"

// SeedDefaults installs the stock bindings into an empty registry. A
// non-empty registry is left alone.
func SeedDefaults(r *Registry) error {
	if len(r.List()) > 0 {
		return nil
	}
	for _, b := range defaultBindings() {
		if _, err := r.Register(b); err != nil {
			return err
		}
	}
	return nil
}

func defaultBindings() []core.HotkeyBinding {
	return []core.HotkeyBinding{
		{
			ID: "h1", Action: "Application hotkey", Category: core.HotkeyGlobal,
			Description: "Set the hotkey used to activate the application",
			Keys:        []string{"Ctrl", "Shift", "V"}, Enabled: true,
		},
		{
			ID: "h2", Action: "Paste to current application", Category: core.HotkeyPaste,
			Description: "Set the hotkey used to paste selected item to the current application",
			Keys:        []string{}, Enabled: true,
		},
		{
			ID: "h3", Action: "Paste as text to current application", Category: core.HotkeyPaste,
			Description: "Set the hotkey used to paste selected item as text to the current application",
			Keys:        []string{}, Enabled: true,
		},
		{
			ID: "h4", Action: "Copy to system clipboard", Category: core.HotkeyPaste,
			Description: "Set the hotkey used for copy selected item to the system clipboard",
			Keys:        []string{"Ctrl", "C"}, Enabled: true,
		},
		{
			ID: "h5", Action: "Copy to system clipboard as text", Category: core.HotkeyPaste,
			Description: "Set the hotkey used for copy selected item as text to the system clipboard",
			Keys:        []string{}, Enabled: true,
		},
		{
			ID: "h6", Action: "Next item", Category: core.HotkeyNavigation,
			Description: "Navigate to the next clipboard item",
			Keys:        []string{"Down"}, Enabled: true,
		},
		{
			ID: "h7", Action: "Previous item", Category: core.HotkeyNavigation,
			Description: "Navigate to the previous clipboard item",
			Keys:        []string{"Up"}, Enabled: true,
		},
		{
			ID: "h8", Action: "Delete item", Category: core.HotkeyEditing,
			Description: "Delete the selected clipboard item",
			Keys:        []string{"Del"}, Enabled: true,
		},
		{
			ID: "h9", Action: "Pin item", Category: core.HotkeyEditing,
			Description: "Pin/unpin the selected item",
			Keys:        []string{"Ctrl", "P"}, Enabled: true,
		},
		{
			ID: "h10", Action: "Search", Category: core.HotkeyNavigation,
			Description: "Focus the search input",
			Keys:        []string{"Ctrl", "F"}, Enabled: true,
		},
	}
}
