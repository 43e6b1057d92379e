package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkraev/clipsync/internal/core"
)

func handleListHotkeys(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grouped") != "" {
			writeJSON(w, deps.Hotkeys.Grouped())
			return
		}
		writeJSON(w, deps.Hotkeys.List())
	}
}

func handleBindHotkey(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Keys []string `json:"keys"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		b, err := deps.Hotkeys.Bind(chi.URLParam(r, "id"), req.Keys)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, b)
	}
}

func handleClearHotkey(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := deps.Hotkeys.Clear(chi.URLParam(r, "id"))
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, b)
	}
}

func handleSetHotkeyEnabled(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		b, err := deps.Hotkeys.SetEnabled(chi.URLParam(r, "id"), req.Enabled)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, b)
	}
}

func handleListConnections(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Connections.List())
	}
}

func handleAddConnection(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		c, err := deps.Connections.Add(req.Name, core.Provider(req.Type))
		if err != nil {
			coreError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, c)
	}
}

func handleConnectionConnected(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AccountID string `json:"account_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		c, err := deps.Connections.OnConnected(chi.URLParam(r, "id"), req.AccountID)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func handleConnectionError(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := deps.Connections.OnError(chi.URLParam(r, "id"))
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func handleConnectionDisconnect(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := deps.Connections.Disconnect(chi.URLParam(r, "id"))
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func handleRemoveConnection(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Connections.Remove(chi.URLParam(r, "id")); err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "removed"})
	}
}

func handlePreview(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		p, err := deps.Preview.Fetch(ctx, req.URL)
		if err != nil {
			coreError(w, err)
			return
		}
		writeJSON(w, p)
	}
}
