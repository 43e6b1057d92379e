// Package assistant handles the workflow command line: matching "/"
// inputs against workflow commands and composing model prompts with
// item context.
package assistant

import (
	"strings"

	"github.com/mkraev/clipsync/internal/core"
)

// Match is the outcome of resolving one assistant input against the
// available workflow commands.
type Match struct {
	// Candidates are the workflows whose command is prefixed by the
	// input, in the order they were scanned.
	Candidates []core.Workflow

	// Selected is the workflow to run, nil when the input is free text
	// or no command matched.
	Selected *core.Workflow
}

// IsCommand reports whether the input should be treated as a workflow
// command rather than free text.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// MatchCommand resolves an assistant input against workflows. Inputs not
// starting with "/" match nothing. Matching is a case-insensitive prefix
// test on the workflow's command; the first candidate in scan order wins,
// so "/" alone selects the first command-bearing workflow.
func MatchCommand(input string, workflows []core.Workflow) Match {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Match{}
	}
	needle := strings.ToLower(trimmed)

	var m Match
	for i := range workflows {
		w := workflows[i]
		if w.Command == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(w.Command), needle) {
			m.Candidates = append(m.Candidates, w)
		}
	}
	if len(m.Candidates) > 0 {
		m.Selected = &m.Candidates[0]
	}
	return m
}
