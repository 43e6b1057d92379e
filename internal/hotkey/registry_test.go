package hotkey

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mkraev/clipsync/internal/core"
)

func seededRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New(nil)
	if err := SeedDefaults(r); err != nil {
		t.Fatalf("seeding defaults: %v", err)
	}
	return r
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"unset", nil, []string{}},
		{"single key", []string{"v"}, []string{"V"}},
		{"modifier order", []string{"Shift", "Ctrl", "V"}, []string{"Ctrl", "Shift", "V"}},
		{"all modifiers", []string{"alt", "shift", "ctrl", "x"}, []string{"Ctrl", "Shift", "Alt", "X"}},
		{"aliases", []string{"control", "delete"}, []string{"Ctrl", "Del"}},
		{"function key", []string{"f5"}, []string{"F5"}},
		{"arrow", []string{"down"}, []string{"Down"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name string
		in   []string
	}{
		{"modifiers only", []string{"Ctrl", "Shift"}},
		{"two plain keys", []string{"A", "B"}},
		{"duplicate token", []string{"Ctrl", "control", "V"}},
		{"blank token", []string{"Ctrl", " "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Normalize(tc.in); !errors.Is(err, core.ErrValidation) {
				t.Fatalf("expected validation error for %v, got %v", tc.in, err)
			}
		})
	}
}

func TestBindNormalizesAndStores(t *testing.T) {
	r := seededRegistry(t)

	b, err := r.Bind("h2", []string{"shift", "ctrl", "b"})
	if err != nil {
		t.Fatalf("binding: %v", err)
	}
	if !reflect.DeepEqual(b.Keys, []string{"Ctrl", "Shift", "B"}) {
		t.Fatalf("unexpected normalized keys: %v", b.Keys)
	}
}

func TestBindConflictLeavesExistingUnchanged(t *testing.T) {
	r := seededRegistry(t)

	// Ctrl+Shift+V belongs to h1; rebinding it elsewhere must fail even
	// with a different spelling and ordering.
	_, err := r.Bind("h2", []string{"shift", "control", "v"})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	var h1, h2 core.HotkeyBinding
	for _, b := range r.List() {
		switch b.ID {
		case "h1":
			h1 = b
		case "h2":
			h2 = b
		}
	}
	if !reflect.DeepEqual(h1.Keys, []string{"Ctrl", "Shift", "V"}) {
		t.Fatalf("existing binding changed: %v", h1.Keys)
	}
	if len(h2.Keys) != 0 {
		t.Fatalf("failed bind must not assign keys: %v", h2.Keys)
	}
}

func TestBindSameActionRebinds(t *testing.T) {
	r := seededRegistry(t)

	// Re-assigning the same sequence to its current owner is not a
	// conflict: the previous sequence for that action is simply replaced.
	if _, err := r.Bind("h1", []string{"Ctrl", "Shift", "V"}); err != nil {
		t.Fatalf("rebinding own keys: %v", err)
	}
	if _, err := r.Bind("h1", []string{"Ctrl", "Shift", "C"}); err != nil {
		t.Fatalf("replacing keys: %v", err)
	}
}

func TestClearAlwaysSucceeds(t *testing.T) {
	r := seededRegistry(t)

	b, err := r.Clear("h1")
	if err != nil {
		t.Fatalf("clearing: %v", err)
	}
	if len(b.Keys) != 0 {
		t.Fatalf("expected empty keys, got %v", b.Keys)
	}

	// Cleared sequence becomes available to another action.
	if _, err := r.Bind("h3", []string{"Ctrl", "Shift", "V"}); err != nil {
		t.Fatalf("binding freed sequence: %v", err)
	}

	if _, err := r.Clear("h1"); err != nil {
		t.Fatalf("clearing an unset binding: %v", err)
	}
}

func TestDisabledBindingDoesNotConflict(t *testing.T) {
	r := seededRegistry(t)

	if _, err := r.SetEnabled("h1", false); err != nil {
		t.Fatalf("disabling: %v", err)
	}
	if _, err := r.Bind("h2", []string{"Ctrl", "Shift", "V"}); err != nil {
		t.Fatalf("binding sequence of a disabled binding: %v", err)
	}

	// Re-enabling h1 now collides with h2.
	if _, err := r.SetEnabled("h1", true); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict on re-enable, got %v", err)
	}
}

func TestUnknownBinding(t *testing.T) {
	r := seededRegistry(t)

	if _, err := r.Bind("h99", []string{"A"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := r.Clear("h99"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGrouped(t *testing.T) {
	r := seededRegistry(t)

	groups := r.Grouped()
	if len(groups[core.HotkeyGlobal]) != 1 {
		t.Fatalf("expected 1 global binding, got %d", len(groups[core.HotkeyGlobal]))
	}
	if len(groups[core.HotkeyPaste]) != 4 {
		t.Fatalf("expected 4 paste bindings, got %d", len(groups[core.HotkeyPaste]))
	}
	if len(groups[core.HotkeyNavigation]) != 3 {
		t.Fatalf("expected 3 navigation bindings, got %d", len(groups[core.HotkeyNavigation]))
	}
	if len(groups[core.HotkeyEditing]) != 2 {
		t.Fatalf("expected 2 editing bindings, got %d", len(groups[core.HotkeyEditing]))
	}
	if groups[core.HotkeyNavigation][0].ID != "h6" {
		t.Fatalf("expected registration order within group, got %s first", groups[core.HotkeyNavigation][0].ID)
	}
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	r := seededRegistry(t)
	if err := SeedDefaults(r); err != nil {
		t.Fatalf("reseeding: %v", err)
	}
	if got := len(r.List()); got != 10 {
		t.Fatalf("expected 10 bindings, got %d", got)
	}
}
