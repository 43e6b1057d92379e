// Package api exposes the core over a local HTTP surface consumed by
// the CLI client and desktop shells.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkraev/clipsync/internal/automation"
	"github.com/mkraev/clipsync/internal/connection"
	"github.com/mkraev/clipsync/internal/core"
	"github.com/mkraev/clipsync/internal/hotkey"
	"github.com/mkraev/clipsync/internal/preview"
	"github.com/mkraev/clipsync/internal/query"
	"github.com/mkraev/clipsync/internal/store"
)

const maxRequestBodySize = 1 << 20 // 1MB

type AppDeps struct {
	Items       *store.Store
	Query       *query.Engine
	Workflows   *automation.Engine
	Hotkeys     *hotkey.Registry
	Connections *connection.Manager
	Preview     *preview.Fetcher
	Token       string
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/items", handleCreateItem(deps))
		r.Get("/items", handleListItems(deps))
		r.Get("/items/{id}", handleGetItem(deps))
		r.Patch("/items/{id}", handleUpdateItem(deps))
		r.Delete("/items/{id}", handleSoftDelete(deps))
		r.Post("/items/{id}/restore", handleRestore(deps))
		r.Post("/items/{id}/purge", handlePurge(deps))
		r.Put("/items/{id}/flags", handleSetFlag(deps))
		r.Put("/items/{id}/category", handleRecategorize(deps))
		r.Post("/items/{id}/tags", handleAddTag(deps))
		r.Delete("/items/{id}/tags/{tag}", handleRemoveTag(deps))
		r.Get("/counts", handleCounts(deps))
		r.Get("/tags", handleTags(deps))

		r.Get("/workflows", handleListWorkflows(deps))
		r.Post("/workflows", handleCreateWorkflow(deps))
		r.Get("/workflows/{id}", handleGetWorkflow(deps))
		r.Put("/workflows/{id}", handleUpdateWorkflow(deps))
		r.Put("/workflows/{id}/enabled", handleSetWorkflowEnabled(deps))
		r.Delete("/workflows/{id}", handleDeleteWorkflow(deps))
		r.Post("/workflows/{id}/run", handleRunWorkflow(deps))
		r.Post("/fire", handleFire(deps))
		r.Post("/assistant", handleAssistant(deps))

		r.Get("/hotkeys", handleListHotkeys(deps))
		r.Put("/hotkeys/{id}", handleBindHotkey(deps))
		r.Delete("/hotkeys/{id}/keys", handleClearHotkey(deps))
		r.Put("/hotkeys/{id}/enabled", handleSetHotkeyEnabled(deps))

		r.Get("/connections", handleListConnections(deps))
		r.Post("/connections", handleAddConnection(deps))
		r.Post("/connections/{id}/connected", handleConnectionConnected(deps))
		r.Post("/connections/{id}/error", handleConnectionError(deps))
		r.Post("/connections/{id}/disconnect", handleConnectionDisconnect(deps))
		r.Delete("/connections/{id}", handleRemoveConnection(deps))

		r.Post("/preview", handlePreview(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

type createItemRequest struct {
	Category   string `json:"category"`
	Structured bool   `json:"structured"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content,omitempty"`
}

func handleCreateItem(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createItemRequest
		if !decodeBody(w, r, &req) {
			return
		}

		it, err := deps.Items.Create(core.Category(req.Category), req.Structured)
		if err != nil {
			coreError(w, err)
			return
		}

		// Optional initial content in the same call saves the client a
		// follow-up PATCH.
		if req.Title != "" || req.Content != "" {
			upd := store.UpdateRequest{}
			if req.Title != "" {
				upd.Title = &req.Title
			}
			if req.Content != "" {
				upd.Content = &req.Content
			}
			if it, err = deps.Items.Update(it.ID, upd); err != nil {
				coreError(w, err)
				return
			}
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, it)
	}
}

func handleListItems(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facet, err := query.ParseFacet(r.URL.Query().Get("facet"))
		if err != nil {
			coreError(w, err)
			return
		}

		items := deps.Query.Query(facet, r.URL.Query().Get("q"))
		if items == nil {
			items = []core.Item{}
		}
		writeJSON(w, items)
	}
}

func handleGetItem(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := deps.Items.Get(chi.URLParam(r, "id"))
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

type updateItemRequest struct {
	Title   *string                 `json:"title"`
	Content *string                 `json:"content"`
	Fields  *[]core.StructuredField `json:"fields"`
}

func handleUpdateItem(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateItemRequest
		if !decodeBody(w, r, &req) {
			return
		}

		it, err := deps.Items.Update(chi.URLParam(r, "id"), store.UpdateRequest{
			Title:   req.Title,
			Content: req.Content,
			Fields:  req.Fields,
		})
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

func handleSoftDelete(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Items.SoftDelete(chi.URLParam(r, "id")); err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func handleRestore(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Items.Restore(chi.URLParam(r, "id")); err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "restored"})
	}
}

func handlePurge(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Items.Purge(chi.URLParam(r, "id")); err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "purged"})
	}
}

type setFlagRequest struct {
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}

func handleSetFlag(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setFlagRequest
		if !decodeBody(w, r, &req) {
			return
		}

		it, err := deps.Items.SetFlag(chi.URLParam(r, "id"), store.Flag(req.Flag), req.Value)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

func handleRecategorize(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Category string `json:"category"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		it, err := deps.Items.Recategorize(chi.URLParam(r, "id"), core.Category(req.Category))
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

func handleAddTag(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tag string `json:"tag"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		it, err := deps.Items.AddTag(chi.URLParam(r, "id"), req.Tag)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

func handleRemoveTag(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := deps.Items.RemoveTag(chi.URLParam(r, "id"), chi.URLParam(r, "tag"))
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

func handleCounts(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Query.Counts())
	}
}

func handleTags(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags := deps.Items.Tags()
		if tags == nil {
			tags = []string{}
		}
		writeJSON(w, tags)
	}
}
