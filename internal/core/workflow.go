package core

import "time"

// Trigger is an external event kind that can activate a workflow.
type Trigger string

const (
	TriggerCopy        Trigger = "copy"
	TriggerPaste       Trigger = "paste"
	TriggerAppActivate Trigger = "app-activate"
	TriggerHotkey      Trigger = "hotkey"
	TriggerTimer       Trigger = "timer"
	TriggerTextMatch   Trigger = "text-match"
)

// ValidTrigger reports whether t is a known trigger kind.
func ValidTrigger(t Trigger) bool {
	switch t {
	case TriggerCopy, TriggerPaste, TriggerAppActivate, TriggerHotkey, TriggerTimer, TriggerTextMatch:
		return true
	}
	return false
}

// ActivityKind identifies one step a workflow performs once triggered.
type ActivityKind string

const (
	// Item-mutating activities; these go through the item store.
	ActivityAddTags    ActivityKind = "add-tags"
	ActivityFormatCode ActivityKind = "format-as-code"

	// Effect-emitting activities; the engine only describes these and
	// hands them to an external collaborator.
	ActivityCopyToClipboard ActivityKind = "copy-to-clipboard"
	ActivityPasteContent    ActivityKind = "paste-content"
	ActivityHighlight       ActivityKind = "add-syntax-highlighting"
	ActivityRunScript       ActivityKind = "run-script"
	ActivityNotify          ActivityKind = "send-notification"
	ActivitySyncCloud       ActivityKind = "sync-to-cloud"
	ActivityAskAI           ActivityKind = "ask-ai"
)

// ValidActivityKind reports whether k is a known activity kind.
func ValidActivityKind(k ActivityKind) bool {
	switch k {
	case ActivityAddTags, ActivityFormatCode, ActivityCopyToClipboard, ActivityPasteContent,
		ActivityHighlight, ActivityRunScript, ActivityNotify, ActivitySyncCloud, ActivityAskAI:
		return true
	}
	return false
}

// MutatesItem reports whether the activity kind writes to the target item
// through the store rather than emitting an effect.
func (k ActivityKind) MutatesItem() bool {
	return k == ActivityAddTags || k == ActivityFormatCode
}

// NeedsItem reports whether the activity is meaningless without a target
// item. Such activities are skipped when the trigger carried none.
func (k ActivityKind) NeedsItem() bool {
	switch k {
	case ActivityAddTags, ActivityFormatCode, ActivityCopyToClipboard, ActivityPasteContent,
		ActivityHighlight, ActivitySyncCloud:
		return true
	}
	// run-script, send-notification, and ask-ai can fire without one.
	return false
}

// Activity is one ordered step of a workflow. Params carry kind-specific
// configuration, e.g. {"tags": "work,api"} for add-tags or {"script":
// "backup.sh"} for run-script.
type Activity struct {
	Kind   ActivityKind      `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// WorkflowScope restricts which applications a workflow reacts to.
type WorkflowScope string

const (
	ScopeAll      WorkflowScope = "all"
	ScopeSpecific WorkflowScope = "specific"
)

// Workflow is a user-defined automation rule: when any of Triggers fires
// (or the slash Command is invoked), run Activities in declared order.
type Workflow struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Enabled      bool          `json:"enabled"`
	Scope        WorkflowScope `json:"scope"`
	Applications []string      `json:"applications,omitempty"`
	Triggers     []Trigger     `json:"triggers"`
	Activities   []Activity    `json:"activities"`

	// Command is the optional "/" shortcut that invokes the workflow from
	// the assistant input, e.g. "/summarize". Prompt is the instruction an
	// ask-ai activity sends to the model collaborator.
	Command string `json:"command,omitempty"`
	Prompt  string `json:"prompt,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasTrigger reports whether the workflow reacts to the given trigger.
func (w *Workflow) HasTrigger(t Trigger) bool {
	for _, wt := range w.Triggers {
		if wt == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the workflow.
func (w *Workflow) Clone() Workflow {
	cp := *w
	if w.Applications != nil {
		cp.Applications = make([]string, len(w.Applications))
		copy(cp.Applications, w.Applications)
	}
	if w.Triggers != nil {
		cp.Triggers = make([]Trigger, len(w.Triggers))
		copy(cp.Triggers, w.Triggers)
	}
	if w.Activities != nil {
		cp.Activities = make([]Activity, len(w.Activities))
		for i, a := range w.Activities {
			cp.Activities[i] = a
			if a.Params != nil {
				cp.Activities[i].Params = make(map[string]string, len(a.Params))
				for k, v := range a.Params {
					cp.Activities[i].Params[k] = v
				}
			}
		}
	}
	return cp
}

// EffectCommand describes a side effect the core wants performed. The
// engine never executes these; the caller dispatches them to the real
// integration (script runner, notifier, sync client, model service).
type EffectCommand struct {
	Kind    string            `json:"kind"`
	Payload map[string]string `json:"payload"`
}
