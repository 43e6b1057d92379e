// Package store owns the full item set and is the only place items are
// mutated. Every mutation is atomic per item: two mutations targeting
// the same id serialize, mutations on different items proceed
// independently, and reads see a consistent point-in-time snapshot.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkraev/clipsync/internal/core"
)

// Backend journals item mutations to durable storage. Calls happen while
// the item's mutation lock is held, so a backend sees writes for one item
// in order. A nil backend keeps the store memory-only (used by tests).
type Backend interface {
	SaveItem(item core.Item) error
	DeleteItem(id string) error
}

// Flag selects one of the item's metadata booleans.
type Flag string

const (
	FlagPinned  Flag = "pinned"
	FlagStarred Flag = "starred"
)

// UpdateRequest carries the optional fields of an Update call. Nil
// pointers leave the corresponding item field untouched.
type UpdateRequest struct {
	Title   *string
	Content *string
	Fields  *[]core.StructuredField
}

type entry struct {
	mu   sync.Mutex
	item *core.Item
}

// Option configures a Store.
type Option func(*Store)

// WithBackend attaches a persistence backend.
func WithBackend(b Backend) Option {
	return func(s *Store) { s.backend = b }
}

// WithHistoryLimit caps the number of live clipboard-category items.
// When a create pushes the count past the limit, the oldest unpinned
// clipboard items are soft-deleted. Zero means unlimited.
func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.historyLimit = n }
}

// WithClock overrides the timestamp source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the in-memory item set with per-item mutation locking.
type Store struct {
	mu           sync.RWMutex // guards entries and order
	entries      map[string]*entry
	order        []string // insertion order; tie-break for stable sorts
	backend      Backend
	historyLimit int
	now          func() time.Time
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load seeds the store from persisted items, preserving the given order.
// Intended for startup, before the store is shared.
func (s *Store) Load(items []core.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		it := items[i].Clone()
		if _, ok := s.entries[it.ID]; ok {
			continue
		}
		s.entries[it.ID] = &entry{item: &it}
		s.order = append(s.order, it.ID)
	}
}

// Create allocates a fresh item in the given category with a default
// title, no content, and all flags clear. It never fails; backend write
// errors are returned but the item is still created in memory.
func (s *Store) Create(category core.Category, structured bool) (core.Item, error) {
	if !core.ValidCategory(category) {
		return core.Item{}, fmt.Errorf("category %q: %w", category, core.ErrValidation)
	}

	now := s.now()
	it := &core.Item{
		ID:         uuid.New().String(),
		Title:      core.DefaultTitle(category, structured),
		Category:   category,
		Tags:       []string{},
		Structured: structured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.entries[it.ID] = &entry{item: it}
	s.order = append(s.order, it.ID)
	s.mu.Unlock()

	var err error
	if s.backend != nil {
		if perr := s.backend.SaveItem(it.Clone()); perr != nil {
			err = fmt.Errorf("persisting item: %w", perr)
		}
	}

	if category == core.CategoryClipboard && s.historyLimit > 0 {
		s.trimHistory()
	}

	return it.Clone(), err
}

// Get returns the item with the given id, including soft-deleted ones.
func (s *Store) Get(id string) (core.Item, error) {
	e, err := s.lookup(id)
	if err != nil {
		return core.Item{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.item.Clone(), nil
}

// Update applies the provided fields and refreshes UpdatedAt. Fields of
// the request that are nil are left as they were.
func (s *Store) Update(id string, req UpdateRequest) (core.Item, error) {
	return s.mutate(id, func(it *core.Item) error {
		if req.Title != nil {
			it.Title = *req.Title
		}
		if req.Content != nil {
			it.Content = *req.Content
		}
		if req.Fields != nil {
			fields := make([]core.StructuredField, len(*req.Fields))
			copy(fields, *req.Fields)
			for i := range fields {
				if fields[i].ID == "" {
					fields[i].ID = uuid.New().String()
				}
				if fields[i].Type == "" {
					fields[i].Type = core.FieldText
				} else if !core.ValidFieldType(fields[i].Type) {
					return fmt.Errorf("field type %q: %w", fields[i].Type, core.ErrValidation)
				}
			}
			it.Fields = fields
		}
		it.UpdatedAt = s.now()
		return nil
	})
}

// SetFlag toggles pinned or starred. Flags are metadata, not content, so
// UpdatedAt is left untouched.
func (s *Store) SetFlag(id string, flag Flag, value bool) (core.Item, error) {
	return s.mutate(id, func(it *core.Item) error {
		switch flag {
		case FlagPinned:
			it.Pinned = value
		case FlagStarred:
			it.Starred = value
		default:
			return fmt.Errorf("flag %q: %w", flag, core.ErrValidation)
		}
		return nil
	})
}

// Recategorize moves the item to another category.
func (s *Store) Recategorize(id string, category core.Category) (core.Item, error) {
	return s.mutate(id, func(it *core.Item) error {
		if !core.ValidCategory(category) {
			return fmt.Errorf("category %q: %w", category, core.ErrValidation)
		}
		it.Category = category
		return nil
	})
}

// SoftDelete marks the item deleted, hiding it from every facet except
// recycle. Deleting an already-deleted item is a no-op.
func (s *Store) SoftDelete(id string) error {
	_, err := s.mutate(id, func(it *core.Item) error {
		it.Deleted = true
		return nil
	})
	return err
}

// Restore clears the deleted flag, returning the item to its pre-delete
// visibility. Restoring a live item is an ErrInvalidState.
func (s *Store) Restore(id string) error {
	_, err := s.mutate(id, func(it *core.Item) error {
		if !it.Deleted {
			return fmt.Errorf("item %s is not deleted: %w", id, core.ErrInvalidState)
		}
		it.Deleted = false
		return nil
	})
	return err
}

// Purge permanently removes a soft-deleted item. Purging a live item is
// an ErrInvalidState; the id is unreferencable afterwards.
func (s *Store) Purge(id string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	e.mu.Lock()
	if !e.item.Deleted {
		e.mu.Unlock()
		s.mu.Unlock()
		return fmt.Errorf("item %s is not deleted: %w", id, core.ErrInvalidState)
	}
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	e.mu.Unlock()
	s.mu.Unlock()

	if s.backend != nil {
		if err := s.backend.DeleteItem(id); err != nil {
			return fmt.Errorf("purging item from storage: %w", err)
		}
	}
	return nil
}

// AddTag adds the tag to the item's tag set. Idempotent.
func (s *Store) AddTag(id, tag string) (core.Item, error) {
	if tag == "" {
		return core.Item{}, fmt.Errorf("empty tag: %w", core.ErrValidation)
	}
	return s.mutate(id, func(it *core.Item) error {
		if it.HasTag(tag) {
			return nil
		}
		it.Tags = append(it.Tags, tag)
		return nil
	})
}

// RemoveTag removes the tag from the item's tag set. Idempotent.
func (s *Store) RemoveTag(id, tag string) (core.Item, error) {
	return s.mutate(id, func(it *core.Item) error {
		for i, t := range it.Tags {
			if t == tag {
				it.Tags = append(it.Tags[:i], it.Tags[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// Snapshot returns a point-in-time copy of every item, including deleted
// ones, in insertion order. Safe to call concurrently with mutations.
func (s *Store) Snapshot() []core.Item {
	s.mu.RLock()
	order := make([]string, len(s.order))
	copy(order, s.order)
	entries := make([]*entry, 0, len(order))
	for _, id := range order {
		entries = append(entries, s.entries[id])
	}
	s.mu.RUnlock()

	items := make([]core.Item, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		items = append(items, e.item.Clone())
		e.mu.Unlock()
	}
	return items
}

// Tags returns the distinct tags across all live items, sorted.
func (s *Store) Tags() []string {
	seen := make(map[string]struct{})
	for _, it := range s.Snapshot() {
		if it.Deleted {
			continue
		}
		for _, t := range it.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	return e, nil
}

// mutate runs fn under the item's lock and persists the result. The
// mutation is visible (and persisted) only if fn returns nil.
func (s *Store) mutate(id string, fn func(*core.Item) error) (core.Item, error) {
	e, err := s.lookup(id)
	if err != nil {
		return core.Item{}, err
	}

	e.mu.Lock()
	scratch := e.item.Clone()
	if err := fn(&scratch); err != nil {
		e.mu.Unlock()
		return core.Item{}, err
	}
	*e.item = scratch
	result := e.item.Clone()
	e.mu.Unlock()

	if s.backend != nil {
		if err := s.backend.SaveItem(result); err != nil {
			return result, fmt.Errorf("persisting item: %w", err)
		}
	}
	return result, nil
}

// trimHistory soft-deletes the oldest unpinned live clipboard items
// beyond the history limit.
func (s *Store) trimHistory() {
	var live []core.Item
	for _, it := range s.Snapshot() {
		if it.Category == core.CategoryClipboard && !it.Deleted {
			live = append(live, it)
		}
	}
	excess := len(live) - s.historyLimit
	if excess <= 0 {
		return
	}

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].UpdatedAt.Before(live[j].UpdatedAt)
	})
	for _, it := range live {
		if excess == 0 {
			return
		}
		if it.Pinned {
			continue
		}
		if err := s.SoftDelete(it.ID); err == nil {
			excess--
		}
	}
}
