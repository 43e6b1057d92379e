// Package hotkey validates and stores key combinations for configurable
// actions. Capturing raw key events is the client's job; the registry
// only normalizes combinations and guards against duplicate bindings.
package hotkey

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mkraev/clipsync/internal/core"
)

// SettingsStore persists hotkey bindings. A nil store keeps them in
// memory only.
type SettingsStore interface {
	SaveHotkey(b core.HotkeyBinding) error
}

// Registry holds one key combination per action. Within the registry at
// most one enabled binding owns a given normalized sequence.
type Registry struct {
	mu       sync.Mutex
	bindings []*core.HotkeyBinding
	byID     map[string]*core.HotkeyBinding
	settings SettingsStore
}

// New creates a Registry. settings may be nil.
func New(settings SettingsStore) *Registry {
	return &Registry{
		byID:     make(map[string]*core.HotkeyBinding),
		settings: settings,
	}
}

// Load seeds the registry from persisted bindings, preserving order.
// Intended for startup, before the registry is shared.
func (r *Registry) Load(bindings []core.HotkeyBinding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range bindings {
		b := bindings[i].Clone()
		if _, ok := r.byID[b.ID]; ok {
			continue
		}
		r.bindings = append(r.bindings, &b)
		r.byID[b.ID] = &b
	}
}

// Register adds a binding definition. The key sequence is normalized and
// checked for conflicts like Bind does.
func (r *Registry) Register(b core.HotkeyBinding) (core.HotkeyBinding, error) {
	if b.ID == "" || b.Action == "" {
		return core.HotkeyBinding{}, fmt.Errorf("hotkey id and action are required: %w", core.ErrValidation)
	}
	keys, err := Normalize(b.Keys)
	if err != nil {
		return core.HotkeyBinding{}, err
	}
	b.Keys = keys

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; ok {
		return core.HotkeyBinding{}, fmt.Errorf("hotkey %s already registered: %w", b.ID, core.ErrConflict)
	}
	if b.Enabled && len(b.Keys) > 0 {
		if owner := r.ownerOf(b.Keys, b.ID); owner != nil {
			return core.HotkeyBinding{}, fmt.Errorf("keys %s already bound to %q: %w",
				strings.Join(b.Keys, "+"), owner.Action, core.ErrConflict)
		}
	}
	cp := b.Clone()
	r.bindings = append(r.bindings, &cp)
	r.byID[cp.ID] = &cp
	return b, r.persist(b)
}

// Bind assigns a key combination to an existing action. The sequence is
// normalized first; if another enabled binding already owns the exact
// normalized sequence the call fails with a conflict and the existing
// binding is left unchanged.
func (r *Registry) Bind(id string, keys []string) (core.HotkeyBinding, error) {
	normalized, err := Normalize(keys)
	if err != nil {
		return core.HotkeyBinding{}, err
	}

	r.mu.Lock()
	b, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return core.HotkeyBinding{}, fmt.Errorf("hotkey %s: %w", id, core.ErrNotFound)
	}
	if len(normalized) > 0 {
		if owner := r.ownerOf(normalized, id); owner != nil {
			r.mu.Unlock()
			return core.HotkeyBinding{}, fmt.Errorf("keys %s already bound to %q: %w",
				strings.Join(normalized, "+"), owner.Action, core.ErrConflict)
		}
	}
	b.Keys = normalized
	result := b.Clone()
	r.mu.Unlock()

	return result, r.persist(result)
}

// Clear unsets the key combination for an action. Always succeeds for a
// known id.
func (r *Registry) Clear(id string) (core.HotkeyBinding, error) {
	r.mu.Lock()
	b, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return core.HotkeyBinding{}, fmt.Errorf("hotkey %s: %w", id, core.ErrNotFound)
	}
	b.Keys = []string{}
	result := b.Clone()
	r.mu.Unlock()

	return result, r.persist(result)
}

// SetEnabled toggles a binding. Enabling fails with a conflict when the
// binding's sequence is already owned by another enabled binding.
func (r *Registry) SetEnabled(id string, enabled bool) (core.HotkeyBinding, error) {
	r.mu.Lock()
	b, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return core.HotkeyBinding{}, fmt.Errorf("hotkey %s: %w", id, core.ErrNotFound)
	}
	if enabled && len(b.Keys) > 0 {
		if owner := r.ownerOf(b.Keys, id); owner != nil {
			r.mu.Unlock()
			return core.HotkeyBinding{}, fmt.Errorf("keys %s already bound to %q: %w",
				strings.Join(b.Keys, "+"), owner.Action, core.ErrConflict)
		}
	}
	b.Enabled = enabled
	result := b.Clone()
	r.mu.Unlock()

	return result, r.persist(result)
}

// List returns all bindings in registration order.
func (r *Registry) List() []core.HotkeyBinding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.HotkeyBinding, len(r.bindings))
	for i, b := range r.bindings {
		out[i] = b.Clone()
	}
	return out
}

// Grouped returns bindings keyed by category, registration order within
// each group. This is the display shape of the settings surface.
func (r *Registry) Grouped() map[core.HotkeyCategory][]core.HotkeyBinding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[core.HotkeyCategory][]core.HotkeyBinding)
	for _, b := range r.bindings {
		out[b.Category] = append(out[b.Category], b.Clone())
	}
	return out
}

// ownerOf returns the enabled binding other than excludeID that owns the
// normalized sequence, or nil. Must be called with r.mu held.
func (r *Registry) ownerOf(keys []string, excludeID string) *core.HotkeyBinding {
	for _, b := range r.bindings {
		if b.ID == excludeID || !b.Enabled || len(b.Keys) != len(keys) {
			continue
		}
		match := true
		for i := range keys {
			if b.Keys[i] != keys[i] {
				match = false
				break
			}
		}
		if match {
			return b
		}
	}
	return nil
}

func (r *Registry) persist(b core.HotkeyBinding) error {
	if r.settings == nil {
		return nil
	}
	if err := r.settings.SaveHotkey(b); err != nil {
		return fmt.Errorf("persisting hotkey: %w", err)
	}
	return nil
}

// modifierRank orders modifiers ahead of the key they decorate.
var modifierRank = map[string]int{"Ctrl": 0, "Shift": 1, "Alt": 2}

// keyAliases folds common spellings onto the canonical token.
var keyAliases = map[string]string{
	"control": "Ctrl", "ctrl": "Ctrl", "ctl": "Ctrl",
	"shift": "Shift",
	"alt":   "Alt", "option": "Alt", "opt": "Alt",
	"delete": "Del", "del": "Del",
	"escape": "Esc", "esc": "Esc",
	"return": "Enter", "enter": "Enter",
	"space": "Space", "tab": "Tab",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
}

// Normalize canonicalizes a key sequence: modifiers sorted Ctrl, Shift,
// Alt, followed by exactly one non-modifier key, all in canonical casing.
// An empty sequence means unset and is valid. Duplicate tokens, multiple
// non-modifier keys, or a modifiers-only combination are rejected.
func Normalize(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return []string{}, nil
	}

	var modifiers []string
	var key string
	seen := make(map[string]bool)
	for _, raw := range keys {
		token := canonical(raw)
		if token == "" {
			return nil, fmt.Errorf("empty key token: %w", core.ErrValidation)
		}
		if seen[token] {
			return nil, fmt.Errorf("duplicate key %q: %w", token, core.ErrValidation)
		}
		seen[token] = true
		if _, isMod := modifierRank[token]; isMod {
			modifiers = append(modifiers, token)
			continue
		}
		if key != "" {
			return nil, fmt.Errorf("more than one non-modifier key (%q, %q): %w", key, token, core.ErrValidation)
		}
		key = token
	}
	if key == "" {
		return nil, fmt.Errorf("combination has no non-modifier key: %w", core.ErrValidation)
	}

	sort.Slice(modifiers, func(i, j int) bool {
		return modifierRank[modifiers[i]] < modifierRank[modifiers[j]]
	})
	return append(modifiers, key), nil
}

func canonical(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if alias, ok := keyAliases[strings.ToLower(token)]; ok {
		return alias
	}
	if len(token) == 1 {
		return strings.ToUpper(token)
	}
	// Multi-character keys like F1..F12 or PageDown keep their first
	// letter capitalized.
	return strings.ToUpper(token[:1]) + token[1:]
}
