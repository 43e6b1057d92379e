package query

import (
	"errors"
	"testing"
	"time"

	"github.com/mkraev/clipsync/internal/core"
)

type fixedSnapshot []core.Item

func (s fixedSnapshot) Snapshot() []core.Item {
	out := make([]core.Item, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}
	return out
}

var base = time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

func item(id string, mod func(*core.Item)) core.Item {
	it := core.Item{
		ID:        id,
		Title:     "item " + id,
		Category:  core.CategoryNotes,
		CreatedAt: base,
		UpdatedAt: base,
	}
	if mod != nil {
		mod(&it)
	}
	return it
}

func ids(items []core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseFacet(t *testing.T) {
	tests := []struct {
		in   string
		want Facet
	}{
		{"all", Facet{Kind: FacetAll}},
		{"", Facet{Kind: FacetAll}},
		{"starred", Facet{Kind: FacetStarred}},
		{"untagged", Facet{Kind: FacetUntagged}},
		{"recycle", Facet{Kind: FacetRecycle}},
		{"notes", Facet{Kind: FacetCategory, Arg: "notes"}},
		{"category:snippets", Facet{Kind: FacetCategory, Arg: "snippets"}},
		{"tag:work", Facet{Kind: FacetTag, Arg: "work"}},
	}
	for _, tt := range tests {
		got, err := ParseFacet(tt.in)
		if err != nil {
			t.Errorf("ParseFacet(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFacet(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"category:bookmarks", "tag:", "shiny"} {
		if _, err := ParseFacet(bad); !errors.Is(err, core.ErrValidation) {
			t.Errorf("ParseFacet(%q) err = %v, want ErrValidation", bad, err)
		}
	}
}

func TestOrderingPinnedFirstThenRecency(t *testing.T) {
	// Pinned items come first; within each pin group recency wins, so
	// C (t+2m) sorts before A (t+1m) even though A was inserted first.
	e := New(fixedSnapshot{
		item("A", func(it *core.Item) { it.Pinned = true; it.UpdatedAt = base.Add(1 * time.Minute) }),
		item("B", func(it *core.Item) { it.UpdatedAt = base.Add(3 * time.Minute) }),
		item("C", func(it *core.Item) { it.Pinned = true; it.UpdatedAt = base.Add(2 * time.Minute) }),
	})

	for i := 0; i < 3; i++ {
		got := ids(e.Query(Facet{Kind: FacetAll}, ""))
		if !equalIDs(got, "C", "A", "B") {
			t.Fatalf("call %d: order = %v, want [C A B]", i, got)
		}
	}
}

func TestOrderingTiesKeepInsertionOrder(t *testing.T) {
	e := New(fixedSnapshot{
		item("first", nil),
		item("second", nil),
		item("third", nil),
	})
	got := ids(e.Query(Facet{Kind: FacetAll}, ""))
	if !equalIDs(got, "first", "second", "third") {
		t.Errorf("order = %v, want insertion order", got)
	}
}

func TestDeletedOnlyInRecycle(t *testing.T) {
	snap := fixedSnapshot{
		item("live", func(it *core.Item) { it.Starred = true }),
		item("gone", func(it *core.Item) {
			it.Deleted = true
			it.Starred = true
			it.Tags = []string{"work"}
		}),
	}
	e := New(snap)

	facets := []Facet{
		{Kind: FacetAll},
		{Kind: FacetStarred},
		{Kind: FacetUntagged},
		{Kind: FacetCategory, Arg: "notes"},
		{Kind: FacetTag, Arg: "work"},
	}
	for _, f := range facets {
		for _, it := range e.Query(f, "") {
			if it.Deleted {
				t.Errorf("facet %s returned deleted item %s", f, it.ID)
			}
		}
	}

	recycled := e.Query(Facet{Kind: FacetRecycle}, "")
	if len(recycled) != 1 || recycled[0].ID != "gone" {
		t.Errorf("recycle = %v, want just [gone]", ids(recycled))
	}
}

func TestTextFilterIsCaseInsensitiveOverTitleAndContent(t *testing.T) {
	e := New(fixedSnapshot{
		item("bytitle", func(it *core.Item) { it.Title = "Install Command" }),
		item("bycontent", func(it *core.Item) { it.Content = "npm INSTALL @clipto/desktop" }),
		item("neither", nil),
	})

	got := ids(e.Query(Facet{Kind: FacetAll}, "install"))
	if len(got) != 2 {
		t.Fatalf("matches = %v, want [bytitle bycontent]", got)
	}
}

func TestStructuredItemsMatchOnFieldPairs(t *testing.T) {
	e := New(fixedSnapshot{
		item("nas", func(it *core.Item) {
			it.Structured = true
			it.Fields = []core.StructuredField{
				{ID: "f1", Label: "Host", Value: "192.168.1.100", Type: core.FieldText},
				{ID: "f2", Label: "API Key", Value: "sk-xxxxx", Type: core.FieldAPIKey},
			}
		}),
	})

	if got := e.Query(Facet{Kind: FacetAll}, "api key: sk"); len(got) != 1 {
		t.Errorf("label:value match failed, got %v", ids(got))
	}
	if got := e.Query(Facet{Kind: FacetAll}, "192.168"); len(got) != 1 {
		t.Errorf("value match failed, got %v", ids(got))
	}
}

func TestFacetPredicates(t *testing.T) {
	e := New(fixedSnapshot{
		item("starred", func(it *core.Item) { it.Starred = true; it.Tags = []string{"x"} }),
		item("untagged", nil),
		item("snippet", func(it *core.Item) { it.Category = core.CategorySnippets; it.Tags = []string{"sql"} }),
	})

	if got := ids(e.Query(Facet{Kind: FacetStarred}, "")); !equalIDs(got, "starred") {
		t.Errorf("starred = %v", got)
	}
	if got := ids(e.Query(Facet{Kind: FacetUntagged}, "")); !equalIDs(got, "untagged") {
		t.Errorf("untagged = %v", got)
	}
	if got := ids(e.Query(Facet{Kind: FacetCategory, Arg: "snippets"}, "")); !equalIDs(got, "snippet") {
		t.Errorf("category = %v", got)
	}
	if got := ids(e.Query(Facet{Kind: FacetTag, Arg: "sql"}, "")); !equalIDs(got, "snippet") {
		t.Errorf("tag = %v", got)
	}
}

func TestCounts(t *testing.T) {
	e := New(fixedSnapshot{
		item("a", func(it *core.Item) { it.Starred = true }),
		item("b", func(it *core.Item) { it.Category = core.CategorySnippets; it.Tags = []string{"sql"} }),
		item("c", func(it *core.Item) { it.Deleted = true }),
	})

	counts := e.Counts()
	want := map[string]int{
		"all": 2, "starred": 1, "untagged": 1, "recycle": 1,
		"notes": 1, "snippets": 1, "clipboard": 0, "prompts": 0,
	}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("counts[%s] = %d, want %d", k, counts[k], v)
		}
	}
}
