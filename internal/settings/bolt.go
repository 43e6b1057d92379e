// Package settings persists workflows, hotkey bindings, and connections
// in a single bbolt file. Items have their own SQLite mirror; everything
// else is settings-class data with low write rates, where one JSON value
// per record is plenty.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/mkraev/clipsync/internal/core"
)

var (
	bucketWorkflows   = []byte("workflows")
	bucketHotkeys     = []byte("hotkeys")
	bucketConnections = []byte("connections")
)

// Store wraps the bbolt database holding settings-class records.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the settings database in dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dataDir, "settings.db"), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing buckets: %w", err)
	}
	return s, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketWorkflows, bucketHotkeys, bucketConnections} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// SaveWorkflow stores or updates one workflow definition.
func (s *Store) SaveWorkflow(w core.Workflow) error {
	return s.put(bucketWorkflows, w.ID, w)
}

// DeleteWorkflow removes one workflow definition.
func (s *Store) DeleteWorkflow(id string) error {
	return s.delete(bucketWorkflows, id)
}

// LoadWorkflows returns all workflows in creation order.
func (s *Store) LoadWorkflows() ([]core.Workflow, error) {
	var out []core.Workflow
	if err := s.each(bucketWorkflows, func(v []byte) error {
		var w core.Workflow
		if err := json.Unmarshal(v, &w); err != nil {
			return fmt.Errorf("decoding workflow: %w", err)
		}
		out = append(out, w)
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveHotkey stores or updates one hotkey binding.
func (s *Store) SaveHotkey(b core.HotkeyBinding) error {
	return s.put(bucketHotkeys, b.ID, b)
}

// LoadHotkeys returns all bindings. IDs like "h10" sort after "h9", so
// the stock set comes back in its registration order.
func (s *Store) LoadHotkeys() ([]core.HotkeyBinding, error) {
	var out []core.HotkeyBinding
	if err := s.each(bucketHotkeys, func(v []byte) error {
		var b core.HotkeyBinding
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("decoding hotkey: %w", err)
		}
		out = append(out, b)
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return naturalLess(out[i].ID, out[j].ID)
	})
	return out, nil
}

// SaveConnection stores or updates one connection record.
func (s *Store) SaveConnection(c core.Connection) error {
	return s.put(bucketConnections, c.ID, c)
}

// DeleteConnection removes one connection record.
func (s *Store) DeleteConnection(id string) error {
	return s.delete(bucketConnections, id)
}

// LoadConnections returns all connections in creation order.
func (s *Store) LoadConnections() ([]core.Connection, error) {
	var out []core.Connection
	if err := s.each(bucketConnections, func(v []byte) error {
		var c core.Connection
		if err := json.Unmarshal(v, &c); err != nil {
			return fmt.Errorf("decoding connection: %w", err)
		}
		out = append(out, c)
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) put(bucket []byte, key string, value any) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucket)
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", bucket, err)
		}
		return b.Put([]byte(key), data)
	})
}

func (s *Store) delete(bucket []byte, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucket)
		}
		return b.Delete([]byte(key))
	})
}

func (s *Store) each(bucket []byte, fn func(v []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucket)
		}
		return b.ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}

// naturalLess compares ids digit-run aware, so "h2" < "h10".
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			ra, a2 := digitRun(a)
			rb, b2 := digitRun(b)
			if ra != rb {
				return ra < rb
			}
			a, b = a2, b2
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitRun(s string) (int, string) {
	n := 0
	i := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}
