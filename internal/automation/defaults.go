package automation

import "github.com/mkraev/clipsync/internal/core"

// SeedDefaults installs the stock workflows into an empty engine: one
// copy-triggered formatter and the built-in slash commands. A non-empty
// engine is left alone so user edits to the stock set survive restarts.
func SeedDefaults(e *Engine) error {
	if len(e.List()) > 0 {
		return nil
	}
	for _, w := range defaultWorkflows() {
		if _, err := e.Create(w); err != nil {
			return err
		}
	}
	return nil
}

func defaultWorkflows() []core.Workflow {
	askAI := []core.Activity{{Kind: core.ActivityAskAI}}
	return []core.Workflow{
		{
			Name:     "Auto-format code snippets",
			Enabled:  true,
			Scope:    core.ScopeAll,
			Triggers: []core.Trigger{core.TriggerCopy},
			Activities: []core.Activity{
				{Kind: core.ActivityFormatCode},
				{Kind: core.ActivityHighlight},
			},
		},
		{
			Name:       "Summarize",
			Enabled:    true,
			Scope:      core.ScopeAll,
			Command:    "/summarize",
			Prompt:     "Summarize this content concisely",
			Activities: askAI,
		},
		{
			Name:       "Improve Writing",
			Enabled:    true,
			Scope:      core.ScopeAll,
			Command:    "/improve",
			Prompt:     "Improve the writing quality of this text",
			Activities: askAI,
		},
		{
			Name:       "Suggest Tags",
			Enabled:    true,
			Scope:      core.ScopeAll,
			Command:    "/tags",
			Prompt:     "Suggest relevant tags for this content",
			Activities: askAI,
		},
		{
			Name:       "Code Review",
			Enabled:    true,
			Scope:      core.ScopeAll,
			Command:    "/code",
			Prompt:     "Review this code for issues",
			Activities: askAI,
		},
		{
			Name:       "Draft Email",
			Enabled:    true,
			Scope:      core.ScopeAll,
			Command:    "/email",
			Prompt:     "Draft a professional email",
			Activities: askAI,
		},
		{
			Name:       "Brainstorm",
			Enabled:    true,
			Scope:      core.ScopeAll,
			Command:    "/ideas",
			Prompt:     "Generate ideas related to this topic",
			Activities: askAI,
		},
	}
}
