package settings

import (
	"testing"
	"time"

	"github.com/mkraev/clipsync/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWorkflowRoundTrip(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC().Truncate(time.Millisecond)
	workflows := []core.Workflow{
		{
			ID: "w1", Name: "Auto-format code snippets", Enabled: true, Scope: core.ScopeAll,
			Triggers:   []core.Trigger{core.TriggerCopy},
			Activities: []core.Activity{{Kind: core.ActivityFormatCode}},
			CreatedAt:  base,
		},
		{
			ID: "w2", Name: "Summarize", Enabled: true, Scope: core.ScopeAll,
			Command: "/summarize", Prompt: "Summarize this content concisely",
			Activities: []core.Activity{{Kind: core.ActivityAskAI}},
			CreatedAt:  base.Add(time.Second),
		},
	}
	// Save out of order; load must come back in creation order.
	for i := len(workflows) - 1; i >= 0; i-- {
		if err := s.SaveWorkflow(workflows[i]); err != nil {
			t.Fatalf("SaveWorkflow(%s): %v", workflows[i].ID, err)
		}
	}

	got, err := s.LoadWorkflows()
	if err != nil {
		t.Fatalf("LoadWorkflows: %v", err)
	}
	if len(got) != 2 || got[0].ID != "w1" || got[1].ID != "w2" {
		t.Fatalf("expected creation order w1, w2, got %+v", got)
	}
	if got[1].Prompt != "Summarize this content concisely" || got[0].Activities[0].Kind != core.ActivityFormatCode {
		t.Fatalf("fields lost in round trip: %+v", got)
	}
}

func TestDeleteWorkflow(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveWorkflow(core.Workflow{ID: "w1", Name: "x"}); err != nil {
		t.Fatalf("SaveWorkflow: %v", err)
	}
	if err := s.DeleteWorkflow("w1"); err != nil {
		t.Fatalf("DeleteWorkflow: %v", err)
	}
	got, err := s.LoadWorkflows()
	if err != nil {
		t.Fatalf("LoadWorkflows: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %+v", got)
	}
}

func TestHotkeyOrder(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []string{"h10", "h2", "h1"} {
		if err := s.SaveHotkey(core.HotkeyBinding{ID: id, Action: id, Keys: []string{}}); err != nil {
			t.Fatalf("SaveHotkey(%s): %v", id, err)
		}
	}

	got, err := s.LoadHotkeys()
	if err != nil {
		t.Fatalf("LoadHotkeys: %v", err)
	}
	want := []string{"h1", "h2", "h10"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestConnectionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.SaveConnection(core.Connection{
		ID: "c1", Name: "Team Drive", Type: core.ProviderGoogleDrive,
		Status: core.StatusConnected, AccountID: "acct-1", CreatedAt: base,
	}); err != nil {
		t.Fatalf("SaveConnection: %v", err)
	}

	got, err := s.LoadConnections()
	if err != nil {
		t.Fatalf("LoadConnections: %v", err)
	}
	if len(got) != 1 || got[0].AccountID != "acct-1" || got[0].Status != core.StatusConnected {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := s.DeleteConnection("c1"); err != nil {
		t.Fatalf("DeleteConnection: %v", err)
	}
	got, err = s.LoadConnections()
	if err != nil {
		t.Fatalf("LoadConnections: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set after delete, got %+v", got)
	}
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s1.SaveHotkey(core.HotkeyBinding{ID: "h1", Action: "Application hotkey", Keys: []string{"Ctrl", "Shift", "V"}, Enabled: true}); err != nil {
		t.Fatalf("SaveHotkey: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadHotkeys()
	if err != nil {
		t.Fatalf("LoadHotkeys: %v", err)
	}
	if len(got) != 1 || got[0].Keys[2] != "V" {
		t.Fatalf("binding lost across reopen: %+v", got)
	}
}
