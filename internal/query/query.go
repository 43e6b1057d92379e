// Package query turns a facet and a search string into an ordered item
// list. It is a pure read over a store snapshot and owns the one sorting
// contract of the application: pinned items first, then most recently
// updated, stable across repeated calls.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mkraev/clipsync/internal/core"
)

// FacetKind names the selection predicate applied on top of the text
// filter.
type FacetKind string

const (
	FacetAll      FacetKind = "all"
	FacetStarred  FacetKind = "starred"
	FacetUntagged FacetKind = "untagged"
	FacetRecycle  FacetKind = "recycle"
	FacetCategory FacetKind = "category"
	FacetTag      FacetKind = "tag"
)

// Facet is a parsed selection predicate. Arg is the category or tag name
// for the parameterized kinds.
type Facet struct {
	Kind FacetKind
	Arg  string
}

// ParseFacet parses the wire form of a facet: "all", "starred",
// "untagged", "recycle", "category:<c>", "tag:<t>", or a bare category
// name ("notes", "snippets", ...) as shorthand for category:<c>.
func ParseFacet(s string) (Facet, error) {
	switch s {
	case "", string(FacetAll):
		return Facet{Kind: FacetAll}, nil
	case string(FacetStarred):
		return Facet{Kind: FacetStarred}, nil
	case string(FacetUntagged):
		return Facet{Kind: FacetUntagged}, nil
	case string(FacetRecycle):
		return Facet{Kind: FacetRecycle}, nil
	}
	if c := core.Category(s); core.ValidCategory(c) {
		return Facet{Kind: FacetCategory, Arg: s}, nil
	}
	if name, ok := strings.CutPrefix(s, "category:"); ok {
		if !core.ValidCategory(core.Category(name)) {
			return Facet{}, fmt.Errorf("unknown category %q: %w", name, core.ErrValidation)
		}
		return Facet{Kind: FacetCategory, Arg: name}, nil
	}
	if name, ok := strings.CutPrefix(s, "tag:"); ok {
		if name == "" {
			return Facet{}, fmt.Errorf("empty tag facet: %w", core.ErrValidation)
		}
		return Facet{Kind: FacetTag, Arg: name}, nil
	}
	return Facet{}, fmt.Errorf("unknown facet %q: %w", s, core.ErrValidation)
}

// String returns the wire form of the facet.
func (f Facet) String() string {
	switch f.Kind {
	case FacetCategory, FacetTag:
		return string(f.Kind) + ":" + f.Arg
	default:
		return string(f.Kind)
	}
}

// Snapshotter provides a consistent point-in-time view of the item set.
// Implemented by store.Store.
type Snapshotter interface {
	Snapshot() []core.Item
}

// Engine answers facet+text queries over the current snapshot.
type Engine struct {
	store Snapshotter
}

// New creates an Engine over the given snapshot source.
func New(store Snapshotter) *Engine {
	return &Engine{store: store}
}

// Query returns the items matching both the facet and the search text,
// pinned first, then by UpdatedAt descending. Ties keep insertion order:
// the sort is stable, so repeated calls with unchanged input yield the
// same sequence.
func (e *Engine) Query(facet Facet, searchText string) []core.Item {
	needle := strings.ToLower(searchText)

	var out []core.Item
	for _, it := range e.store.Snapshot() {
		if !matchesFacet(&it, facet) {
			continue
		}
		if needle != "" && !matchesText(&it, needle) {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Count returns how many items the facet selects, ignoring search text.
// Used for the sidebar badge numbers.
func (e *Engine) Count(facet Facet) int {
	n := 0
	for _, it := range e.store.Snapshot() {
		if matchesFacet(&it, facet) {
			n++
		}
	}
	return n
}

// Counts returns the badge number for every fixed facet plus each
// category.
func (e *Engine) Counts() map[string]int {
	counts := map[string]int{
		string(FacetAll):      0,
		string(FacetStarred):  0,
		string(FacetUntagged): 0,
		string(FacetRecycle):  0,
	}
	for _, c := range core.Categories() {
		counts[string(c)] = 0
	}
	for _, it := range e.store.Snapshot() {
		if it.Deleted {
			counts[string(FacetRecycle)]++
			continue
		}
		counts[string(FacetAll)]++
		counts[string(it.Category)]++
		if it.Starred {
			counts[string(FacetStarred)]++
		}
		if len(it.Tags) == 0 {
			counts[string(FacetUntagged)]++
		}
	}
	return counts
}

// matchesFacet applies the facet predicate. Every facet except recycle
// implicitly excludes soft-deleted items.
func matchesFacet(it *core.Item, f Facet) bool {
	if f.Kind == FacetRecycle {
		return it.Deleted
	}
	if it.Deleted {
		return false
	}
	switch f.Kind {
	case FacetAll:
		return true
	case FacetStarred:
		return it.Starred
	case FacetUntagged:
		return len(it.Tags) == 0
	case FacetCategory:
		return it.Category == core.Category(f.Arg)
	case FacetTag:
		return it.HasTag(f.Arg)
	}
	return false
}

func matchesText(it *core.Item, needle string) bool {
	return strings.Contains(strings.ToLower(it.Title), needle) ||
		strings.Contains(strings.ToLower(it.SearchText()), needle)
}
