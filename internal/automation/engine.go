// Package automation owns the workflow set and turns trigger events into
// item mutations and effect commands. The engine never touches items
// directly: every write goes through the item store so invariants and
// timestamp stamping stay in one place, and it never executes side
// effects itself — it only describes them.
package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkraev/clipsync/internal/core"
	"github.com/mkraev/clipsync/internal/store"
)

// ItemStore is the slice of the item store's mutation API the engine
// needs. Implemented by store.Store.
type ItemStore interface {
	Get(id string) (core.Item, error)
	AddTag(id, tag string) (core.Item, error)
	Update(id string, req store.UpdateRequest) (core.Item, error)
	Recategorize(id string, category core.Category) (core.Item, error)
}

// SettingsStore persists workflow definitions. A nil store keeps them in
// memory only.
type SettingsStore interface {
	SaveWorkflow(w core.Workflow) error
	DeleteWorkflow(id string) error
}

// Failure records one aborted workflow during a firing: which workflow,
// at which activity index, and why. The remaining candidates still ran.
type Failure struct {
	WorkflowID    string `json:"workflow_id"`
	WorkflowName  string `json:"workflow_name"`
	ActivityIndex int    `json:"activity_index"`
	Reason        string `json:"reason"`
}

// Result is the outcome of one firing: the effect commands to dispatch,
// in deterministic order, plus any per-workflow failures.
type Result struct {
	Trigger  core.Trigger        `json:"trigger,omitempty"`
	Effects  []core.EffectCommand `json:"effects"`
	Failures []Failure           `json:"failures,omitempty"`
}

// FireContext describes one trigger event. ItemID is empty for events
// with no associated item (a timer tick); Application is the caller's
// notion of the frontmost app, used for scope filtering.
type FireContext struct {
	Trigger     core.Trigger
	ItemID      string
	Application string
}

// Engine holds the workflow definitions in creation order and executes
// them. Firings serialize: the activity sequence of one invocation is
// one unit of work that no other firing interleaves with.
type Engine struct {
	mu        sync.Mutex
	workflows []*core.Workflow
	byID      map[string]*core.Workflow
	store     ItemStore
	settings  SettingsStore
	now       func() time.Time
}

// New creates an Engine over the given item store. settings may be nil.
func New(items ItemStore, settings SettingsStore) *Engine {
	return &Engine{
		byID:     make(map[string]*core.Workflow),
		store:    items,
		settings: settings,
		now:      time.Now,
	}
}

// Load seeds the engine from persisted workflows, preserving order.
// Intended for startup, before the engine is shared.
func (e *Engine) Load(workflows []core.Workflow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range workflows {
		w := workflows[i].Clone()
		if _, ok := e.byID[w.ID]; ok {
			continue
		}
		e.workflows = append(e.workflows, &w)
		e.byID[w.ID] = &w
	}
}

// Create validates and registers a workflow, assigning it an id and its
// place in creation order.
func (e *Engine) Create(w core.Workflow) (core.Workflow, error) {
	if err := validate(&w); err != nil {
		return core.Workflow{}, err
	}
	w.ID = uuid.New().String()
	w.CreatedAt = e.now()

	cp := w.Clone()
	e.mu.Lock()
	e.workflows = append(e.workflows, &cp)
	e.byID[cp.ID] = &cp
	e.mu.Unlock()

	if e.settings != nil {
		if err := e.settings.SaveWorkflow(w); err != nil {
			return w, fmt.Errorf("persisting workflow: %w", err)
		}
	}
	return w, nil
}

// Update replaces the mutable fields of an existing workflow. Identity
// and creation order are preserved.
func (e *Engine) Update(id string, w core.Workflow) (core.Workflow, error) {
	if err := validate(&w); err != nil {
		return core.Workflow{}, err
	}

	e.mu.Lock()
	existing, ok := e.byID[id]
	if !ok {
		e.mu.Unlock()
		return core.Workflow{}, fmt.Errorf("workflow %s: %w", id, core.ErrNotFound)
	}
	w.ID = existing.ID
	w.CreatedAt = existing.CreatedAt
	*existing = w.Clone()
	result := existing.Clone()
	e.mu.Unlock()

	if e.settings != nil {
		if err := e.settings.SaveWorkflow(result); err != nil {
			return result, fmt.Errorf("persisting workflow: %w", err)
		}
	}
	return result, nil
}

// SetEnabled toggles a workflow between enabled and disabled, the only
// two states a workflow has.
func (e *Engine) SetEnabled(id string, enabled bool) (core.Workflow, error) {
	e.mu.Lock()
	w, ok := e.byID[id]
	if !ok {
		e.mu.Unlock()
		return core.Workflow{}, fmt.Errorf("workflow %s: %w", id, core.ErrNotFound)
	}
	w.Enabled = enabled
	result := w.Clone()
	e.mu.Unlock()

	if e.settings != nil {
		if err := e.settings.SaveWorkflow(result); err != nil {
			return result, fmt.Errorf("persisting workflow: %w", err)
		}
	}
	return result, nil
}

// Delete removes a workflow definition.
func (e *Engine) Delete(id string) error {
	e.mu.Lock()
	if _, ok := e.byID[id]; !ok {
		e.mu.Unlock()
		return fmt.Errorf("workflow %s: %w", id, core.ErrNotFound)
	}
	delete(e.byID, id)
	for i, w := range e.workflows {
		if w.ID == id {
			e.workflows = append(e.workflows[:i], e.workflows[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	if e.settings != nil {
		if err := e.settings.DeleteWorkflow(id); err != nil {
			return fmt.Errorf("deleting workflow from storage: %w", err)
		}
	}
	return nil
}

// Get returns one workflow by id.
func (e *Engine) Get(id string) (core.Workflow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.byID[id]
	if !ok {
		return core.Workflow{}, fmt.Errorf("workflow %s: %w", id, core.ErrNotFound)
	}
	return w.Clone(), nil
}

// List returns all workflows in creation order.
func (e *Engine) List() []core.Workflow {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Workflow, len(e.workflows))
	for i, w := range e.workflows {
		out[i] = w.Clone()
	}
	return out
}

// Commands returns the enabled workflows that carry a slash command, in
// creation order. This is the list the command matcher scans.
func (e *Engine) Commands() []core.Workflow {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []core.Workflow
	for _, w := range e.workflows {
		if w.Enabled && w.Command != "" {
			out = append(out, w.Clone())
		}
	}
	return out
}

// Fire selects the enabled workflows matching the trigger (and scope)
// and executes their activities in declared order, each activity seeing
// the mutations left by the previous one. A failing activity aborts the
// rest of that workflow only; remaining candidates still run.
func (e *Engine) Fire(ctx context.Context, fc FireContext) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := Result{Trigger: fc.Trigger, Effects: []core.EffectCommand{}}
	for _, w := range e.workflows {
		if !w.Enabled || !w.HasTrigger(fc.Trigger) {
			continue
		}
		if !inScope(w, fc.Application) {
			continue
		}
		e.runActivities(ctx, w, fc.ItemID, &res)
	}
	return res
}

// Run executes one workflow directly, bypassing trigger matching. This
// is the path the assistant takes when a slash command is submitted.
func (e *Engine) Run(ctx context.Context, id, itemID string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.byID[id]
	if !ok {
		return Result{}, fmt.Errorf("workflow %s: %w", id, core.ErrNotFound)
	}
	if !w.Enabled {
		return Result{}, fmt.Errorf("workflow %s is disabled: %w", id, core.ErrInvalidState)
	}

	res := Result{Effects: []core.EffectCommand{}}
	e.runActivities(ctx, w, itemID, &res)
	return res, nil
}

func inScope(w *core.Workflow, app string) bool {
	if w.Scope != core.ScopeSpecific {
		return true
	}
	for _, a := range w.Applications {
		if a == app {
			return true
		}
	}
	return false
}

func validate(w *core.Workflow) error {
	if w.Name == "" {
		return fmt.Errorf("workflow name is required: %w", core.ErrValidation)
	}
	if w.Scope == "" {
		w.Scope = core.ScopeAll
	}
	if w.Scope != core.ScopeAll && w.Scope != core.ScopeSpecific {
		return fmt.Errorf("workflow scope %q: %w", w.Scope, core.ErrValidation)
	}
	for _, t := range w.Triggers {
		if !core.ValidTrigger(t) {
			return fmt.Errorf("trigger %q: %w", t, core.ErrValidation)
		}
	}
	for _, a := range w.Activities {
		if !core.ValidActivityKind(a.Kind) {
			return fmt.Errorf("activity %q: %w", a.Kind, core.ErrValidation)
		}
	}
	return nil
}
