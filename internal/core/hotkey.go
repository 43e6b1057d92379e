package core

// HotkeyCategory groups bindings for display in the shortcuts settings.
type HotkeyCategory string

const (
	HotkeyGlobal     HotkeyCategory = "global"
	HotkeyPaste      HotkeyCategory = "paste"
	HotkeyNavigation HotkeyCategory = "navigation"
	HotkeyEditing    HotkeyCategory = "editing"
)

// HotkeyBinding maps one configurable action to a normalized key
// sequence. An empty Keys slice means the action is unbound.
type HotkeyBinding struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	Description string         `json:"description,omitempty"`
	Category    HotkeyCategory `json:"category"`
	Keys        []string       `json:"keys"`
	Enabled     bool           `json:"enabled"`
}

// Clone returns a deep copy of the binding.
func (b *HotkeyBinding) Clone() HotkeyBinding {
	cp := *b
	if b.Keys != nil {
		cp.Keys = make([]string, len(b.Keys))
		copy(cp.Keys, b.Keys)
	}
	return cp
}
