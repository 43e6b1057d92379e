package automation

import (
	"context"
	"strings"

	"github.com/mkraev/clipsync/internal/assistant"
	"github.com/mkraev/clipsync/internal/core"
	"github.com/mkraev/clipsync/internal/store"
)

// Effect kinds emitted by activities. The caller maps these onto real
// integrations.
const (
	EffectCopy      = "copy"
	EffectPaste     = "paste"
	EffectHighlight = "highlight"
	EffectRunScript = "run-script"
	EffectNotify    = "notify"
	EffectSync      = "sync"
	EffectAIPrompt  = "ai-prompt"
)

// runActivities executes one workflow's activities left to right. Must be
// called with e.mu held; the hold is what keeps one invocation's sequence
// from interleaving with another firing.
func (e *Engine) runActivities(ctx context.Context, w *core.Workflow, itemID string, res *Result) {
	for i, act := range w.Activities {
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, Failure{
				WorkflowID:    w.ID,
				WorkflowName:  w.Name,
				ActivityIndex: i,
				Reason:        err.Error(),
			})
			return
		}
		if act.Kind.NeedsItem() && itemID == "" {
			continue
		}
		if err := e.runActivity(w, act, itemID, res); err != nil {
			res.Failures = append(res.Failures, Failure{
				WorkflowID:    w.ID,
				WorkflowName:  w.Name,
				ActivityIndex: i,
				Reason:        err.Error(),
			})
			return
		}
	}
}

func (e *Engine) runActivity(w *core.Workflow, act core.Activity, itemID string, res *Result) error {
	switch act.Kind {
	case core.ActivityAddTags:
		for _, tag := range splitTags(act.Params["tags"]) {
			if _, err := e.store.AddTag(itemID, tag); err != nil {
				return err
			}
		}
		return nil

	case core.ActivityFormatCode:
		it, err := e.store.Get(itemID)
		if err != nil {
			return err
		}
		formatted := formatCode(it.Content)
		if formatted != it.Content {
			if _, err := e.store.Update(itemID, store.UpdateRequest{Content: &formatted}); err != nil {
				return err
			}
		}
		if it.Category != core.CategorySnippets {
			if _, err := e.store.Recategorize(itemID, core.CategorySnippets); err != nil {
				return err
			}
		}
		return nil

	case core.ActivityCopyToClipboard, core.ActivityPasteContent:
		it, err := e.store.Get(itemID)
		if err != nil {
			return err
		}
		kind := EffectCopy
		if act.Kind == core.ActivityPasteContent {
			kind = EffectPaste
		}
		res.Effects = append(res.Effects, core.EffectCommand{
			Kind:    kind,
			Payload: map[string]string{"item_id": it.ID, "text": it.SearchText()},
		})
		return nil

	case core.ActivityHighlight:
		it, err := e.store.Get(itemID)
		if err != nil {
			return err
		}
		res.Effects = append(res.Effects, core.EffectCommand{
			Kind:    EffectHighlight,
			Payload: map[string]string{"item_id": it.ID, "language": detectLanguage(it.Content)},
		})
		return nil

	case core.ActivityRunScript:
		payload := map[string]string{"script": act.Params["script"]}
		if itemID != "" {
			payload["item_id"] = itemID
		}
		res.Effects = append(res.Effects, core.EffectCommand{Kind: EffectRunScript, Payload: payload})
		return nil

	case core.ActivityNotify:
		msg := act.Params["message"]
		if msg == "" {
			msg = "Workflow " + w.Name + " completed"
		}
		res.Effects = append(res.Effects, core.EffectCommand{
			Kind:    EffectNotify,
			Payload: map[string]string{"message": msg},
		})
		return nil

	case core.ActivitySyncCloud:
		payload := map[string]string{"item_id": itemID}
		if conn := act.Params["connection"]; conn != "" {
			payload["connection"] = conn
		}
		res.Effects = append(res.Effects, core.EffectCommand{Kind: EffectSync, Payload: payload})
		return nil

	case core.ActivityAskAI:
		prompt := act.Params["prompt"]
		if prompt == "" {
			prompt = w.Prompt
		}
		payload := map[string]string{"workflow_id": w.ID}
		if itemID != "" {
			it, err := e.store.Get(itemID)
			if err != nil {
				return err
			}
			payload["item_id"] = it.ID
			payload["prompt"] = assistant.ComposePrompt(prompt, &it)
		} else {
			payload["prompt"] = prompt
		}
		res.Effects = append(res.Effects, core.EffectCommand{Kind: EffectAIPrompt, Payload: payload})
		return nil
	}
	return nil
}

func splitTags(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// formatCode trims trailing whitespace from every line, drops trailing
// blank lines, and converts tabs at line starts into four spaces so code
// pasted from mixed sources renders consistently.
func formatCode(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		indent := 0
		for indent < len(line) && line[indent] == '\t' {
			indent++
		}
		if indent > 0 {
			line = strings.Repeat("    ", indent) + line[indent:]
		}
		lines[i] = line
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// detectLanguage guesses a highlight language from content markers. It is
// intentionally crude: the effect receiver can always override it.
func detectLanguage(content string) string {
	trimmed := strings.TrimSpace(content)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		return "json"
	case strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html"):
		return "html"
	case strings.Contains(lower, "select ") && strings.Contains(lower, " from "):
		return "sql"
	case strings.Contains(trimmed, "func ") && strings.Contains(trimmed, "package "):
		return "go"
	case strings.Contains(trimmed, "def ") && strings.Contains(trimmed, ":"):
		return "python"
	case strings.Contains(trimmed, "function ") || strings.Contains(trimmed, "=>") || strings.Contains(trimmed, "const "):
		return "javascript"
	case strings.HasPrefix(trimmed, "#!") || strings.Contains(lower, "#!/bin/"):
		return "shell"
	}
	return "plain"
}
