package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkraev/clipsync/internal/assistant"
	"github.com/mkraev/clipsync/internal/automation"
	"github.com/mkraev/clipsync/internal/core"
)

func handleListWorkflows(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Workflows.List())
	}
}

func handleCreateWorkflow(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req core.Workflow
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := deps.Workflows.Create(req)
		if err != nil {
			coreError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, created)
	}
}

func handleGetWorkflow(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, err := deps.Workflows.Get(chi.URLParam(r, "id"))
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, wf)
	}
}

func handleUpdateWorkflow(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req core.Workflow
		if !decodeBody(w, r, &req) {
			return
		}

		updated, err := deps.Workflows.Update(chi.URLParam(r, "id"), req)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, updated)
	}
}

func handleSetWorkflowEnabled(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		wf, err := deps.Workflows.SetEnabled(chi.URLParam(r, "id"), req.Enabled)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, wf)
	}
}

func handleDeleteWorkflow(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Workflows.Delete(chi.URLParam(r, "id")); err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func handleRunWorkflow(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ItemID string `json:"item_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		res, err := deps.Workflows.Run(r.Context(), chi.URLParam(r, "id"), req.ItemID)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, res)
	}
}

type fireRequest struct {
	Trigger     string `json:"trigger"`
	ItemID      string `json:"item_id,omitempty"`
	Application string `json:"application,omitempty"`
}

func handleFire(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fireRequest
		if !decodeBody(w, r, &req) {
			return
		}

		trigger := core.Trigger(req.Trigger)
		if !core.ValidTrigger(trigger) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown trigger %q", req.Trigger)
			return
		}

		res := deps.Workflows.Fire(r.Context(), automation.FireContext{
			Trigger:     trigger,
			ItemID:      req.ItemID,
			Application: req.Application,
		})
		writeJSON(w, res)
	}
}

type assistantRequest struct {
	Input  string `json:"input"`
	ItemID string `json:"item_id,omitempty"`
}

type assistantResponse struct {
	Command    bool               `json:"command"`
	Candidates []core.Workflow    `json:"candidates,omitempty"`
	Selected   *core.Workflow     `json:"selected,omitempty"`
	Result     *automation.Result `json:"result,omitempty"`
}

// handleAssistant resolves one assistant input. Slash inputs match
// against workflow commands and the selected workflow runs immediately;
// free text comes back unmatched for the caller's model collaborator.
func handleAssistant(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assistantRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if !assistant.IsCommand(req.Input) {
			writeJSON(w, assistantResponse{})
			return
		}

		m := assistant.MatchCommand(req.Input, deps.Workflows.Commands())
		resp := assistantResponse{
			Command:    true,
			Candidates: m.Candidates,
			Selected:   m.Selected,
		}
		if m.Selected != nil {
			res, err := deps.Workflows.Run(r.Context(), m.Selected.ID, req.ItemID)
			if err != nil {
				coreError(w, err)
				return
			}
			resp.Result = &res
		}
		writeJSON(w, resp)
	}
}
