package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkraev/clipsync/internal/automation"
	"github.com/mkraev/clipsync/internal/connection"
	"github.com/mkraev/clipsync/internal/core"
	"github.com/mkraev/clipsync/internal/hotkey"
	"github.com/mkraev/clipsync/internal/preview"
	"github.com/mkraev/clipsync/internal/query"
	"github.com/mkraev/clipsync/internal/store"
)

const testToken = "test-token-12345"

func setupAppHandler(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()

	items := store.New()
	workflows := automation.New(items, nil)
	if err := automation.SeedDefaults(workflows); err != nil {
		t.Fatalf("SeedDefaults(workflows) failed: %v", err)
	}
	hotkeys := hotkey.New(nil)
	if err := hotkey.SeedDefaults(hotkeys); err != nil {
		t.Fatalf("SeedDefaults(hotkeys) failed: %v", err)
	}

	handler := NewAppHandler(AppDeps{
		Items:       items,
		Query:       query.New(items),
		Workflows:   workflows,
		Hotkeys:     hotkeys,
		Connections: connection.New(nil),
		Preview:     preview.NewFetcher(nil),
		Token:       testToken,
	})
	return handler, items
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func doJSON(t *testing.T, h http.Handler, method, url, body string, wantStatus int, out any) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(method, url, body, testToken))
	if rr.Code != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d; body = %s", method, url, rr.Code, wantStatus, rr.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode response: %v; body = %s", method, url, err, rr.Body.String())
		}
	}
}

func TestAuthRequired(t *testing.T) {
	h, _ := setupAppHandler(t)

	for _, token := range []string{"", "wrong-token"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, authReq(http.MethodGet, "/items", "", token))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want %d", token, rr.Code, http.StatusUnauthorized)
		}
	}

	// Health stays open for probes.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodGet, "/health", "", ""))
	if rr.Code != http.StatusOK {
		t.Errorf("health: status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestItemLifecycle(t *testing.T) {
	h, _ := setupAppHandler(t)

	var created core.Item
	doJSON(t, h, http.MethodPost, "/items",
		`{"category":"notes","title":"Standup","content":"demo friday"}`,
		http.StatusCreated, &created)
	if created.ID == "" || created.Title != "Standup" || created.Category != core.CategoryNotes {
		t.Fatalf("created = %+v", created)
	}

	var fetched core.Item
	doJSON(t, h, http.MethodGet, "/items/"+created.ID, "", http.StatusOK, &fetched)
	if fetched.Content != "demo friday" {
		t.Fatalf("Content = %q, want %q", fetched.Content, "demo friday")
	}

	var patched core.Item
	doJSON(t, h, http.MethodPatch, "/items/"+created.ID,
		`{"content":"demo moved to monday"}`, http.StatusOK, &patched)
	if patched.Content != "demo moved to monday" || patched.Title != "Standup" {
		t.Fatalf("patched = %+v", patched)
	}

	var pinned core.Item
	doJSON(t, h, http.MethodPut, "/items/"+created.ID+"/flags",
		`{"flag":"pinned","value":true}`, http.StatusOK, &pinned)
	if !pinned.Pinned {
		t.Fatal("item not pinned")
	}

	var tagged core.Item
	doJSON(t, h, http.MethodPost, "/items/"+created.ID+"/tags",
		`{"tag":"work"}`, http.StatusOK, &tagged)
	if len(tagged.Tags) != 1 || tagged.Tags[0] != "work" {
		t.Fatalf("Tags = %v", tagged.Tags)
	}

	doJSON(t, h, http.MethodDelete, "/items/"+created.ID, "", http.StatusOK, nil)

	var recycled []core.Item
	doJSON(t, h, http.MethodGet, "/items?facet=recycle", "", http.StatusOK, &recycled)
	if len(recycled) != 1 || recycled[0].ID != created.ID {
		t.Fatalf("recycle = %+v", recycled)
	}

	doJSON(t, h, http.MethodPost, "/items/"+created.ID+"/restore", "", http.StatusOK, nil)

	var live []core.Item
	doJSON(t, h, http.MethodGet, "/items?facet=notes", "", http.StatusOK, &live)
	if len(live) != 1 {
		t.Fatalf("notes after restore = %+v", live)
	}

	doJSON(t, h, http.MethodDelete, "/items/"+created.ID, "", http.StatusOK, nil)
	doJSON(t, h, http.MethodPost, "/items/"+created.ID+"/purge", "", http.StatusOK, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodGet, "/items/"+created.ID, "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after purge: status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	h, _ := setupAppHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPost, "/items", `{"category":"bookmarks"}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error.Type != "invalid_request_error" {
		t.Fatalf("error type = %q, want %q", resp.Error.Type, "invalid_request_error")
	}
}

func TestErrorShapeNotFound(t *testing.T) {
	h, _ := setupAppHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodGet, "/items/does-not-exist", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error.Type != "not_found" {
		t.Fatalf("error type = %q, want %q", resp.Error.Type, "not_found")
	}
}

func TestListItemsPinnedFirst(t *testing.T) {
	h, _ := setupAppHandler(t)

	var older, newer core.Item
	doJSON(t, h, http.MethodPost, "/items", `{"category":"clipboard","content":"older"}`, http.StatusCreated, &older)
	doJSON(t, h, http.MethodPost, "/items", `{"category":"clipboard","content":"newer"}`, http.StatusCreated, &newer)
	doJSON(t, h, http.MethodPut, "/items/"+older.ID+"/flags", `{"flag":"pinned","value":true}`, http.StatusOK, nil)

	var items []core.Item
	doJSON(t, h, http.MethodGet, "/items?facet=all", "", http.StatusOK, &items)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != older.ID {
		t.Fatalf("first item = %s, want pinned %s", items[0].ID, older.ID)
	}
}

func TestListItemsTextSearch(t *testing.T) {
	h, _ := setupAppHandler(t)

	doJSON(t, h, http.MethodPost, "/items", `{"category":"notes","title":"Grocery list","content":"milk and bread"}`, http.StatusCreated, nil)
	doJSON(t, h, http.MethodPost, "/items", `{"category":"notes","title":"Standup","content":"demo friday"}`, http.StatusCreated, nil)

	var items []core.Item
	doJSON(t, h, http.MethodGet, "/items?facet=all&q=grocery", "", http.StatusOK, &items)
	if len(items) != 1 || items[0].Title != "Grocery list" {
		t.Fatalf("items = %+v", items)
	}
}

func TestListItemsRejectsBadFacet(t *testing.T) {
	h, _ := setupAppHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodGet, "/items?facet=bogus", "", testToken))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCountsAndTags(t *testing.T) {
	h, _ := setupAppHandler(t)

	var it core.Item
	doJSON(t, h, http.MethodPost, "/items", `{"category":"snippets","content":"SELECT 1"}`, http.StatusCreated, &it)
	doJSON(t, h, http.MethodPost, "/items/"+it.ID+"/tags", `{"tag":"sql"}`, http.StatusOK, nil)

	var counts map[string]int
	doJSON(t, h, http.MethodGet, "/counts", "", http.StatusOK, &counts)
	if counts["snippets"] != 1 || counts["all"] != 1 {
		t.Fatalf("counts = %v", counts)
	}

	var tags []string
	doJSON(t, h, http.MethodGet, "/tags", "", http.StatusOK, &tags)
	if len(tags) != 1 || tags[0] != "sql" {
		t.Fatalf("tags = %v", tags)
	}
}

func TestWorkflowCRUD(t *testing.T) {
	h, _ := setupAppHandler(t)

	var created core.Workflow
	doJSON(t, h, http.MethodPost, "/workflows",
		`{"name":"Tag screenshots","enabled":true,"triggers":["copy"],"activities":[{"kind":"add-tags","params":{"tags":"screenshot"}}]}`,
		http.StatusCreated, &created)
	if created.ID == "" || created.Name != "Tag screenshots" {
		t.Fatalf("created = %+v", created)
	}

	var disabled core.Workflow
	doJSON(t, h, http.MethodPut, "/workflows/"+created.ID+"/enabled", `{"enabled":false}`, http.StatusOK, &disabled)
	if disabled.Enabled {
		t.Fatal("workflow still enabled")
	}

	doJSON(t, h, http.MethodDelete, "/workflows/"+created.ID, "", http.StatusOK, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodGet, "/workflows/"+created.ID, "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestRunDisabledWorkflowConflicts(t *testing.T) {
	h, _ := setupAppHandler(t)

	var created core.Workflow
	doJSON(t, h, http.MethodPost, "/workflows",
		`{"name":"Manual","enabled":false,"activities":[{"kind":"send-notification"}]}`,
		http.StatusCreated, &created)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPost, "/workflows/"+created.ID+"/run", `{}`, testToken))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body = %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
}

func TestAssistantCommandRunsWorkflow(t *testing.T) {
	h, _ := setupAppHandler(t)

	var it core.Item
	doJSON(t, h, http.MethodPost, "/items",
		`{"category":"notes","title":"Meeting Notes","content":"Q3 planning recap"}`,
		http.StatusCreated, &it)

	var resp assistantResponse
	doJSON(t, h, http.MethodPost, "/assistant",
		fmt.Sprintf(`{"input":"/s","item_id":%q}`, it.ID),
		http.StatusOK, &resp)

	if !resp.Command {
		t.Fatal("input not recognized as command")
	}
	if resp.Selected == nil || resp.Selected.Command != "/summarize" {
		t.Fatalf("Selected = %+v", resp.Selected)
	}
	if resp.Result == nil || len(resp.Result.Effects) != 1 {
		t.Fatalf("Result = %+v", resp.Result)
	}
	eff := resp.Result.Effects[0]
	if eff.Kind != automation.EffectAIPrompt {
		t.Fatalf("effect kind = %q, want %q", eff.Kind, automation.EffectAIPrompt)
	}
	want := "Summarize this content concisely\n\nContext from \"Meeting Notes\":\nQ3 planning recap"
	if eff.Payload["prompt"] != want {
		t.Fatalf("prompt = %q, want %q", eff.Payload["prompt"], want)
	}
}

func TestAssistantFreeText(t *testing.T) {
	h, _ := setupAppHandler(t)

	var resp assistantResponse
	doJSON(t, h, http.MethodPost, "/assistant", `{"input":"what did I copy today"}`, http.StatusOK, &resp)
	if resp.Command || resp.Selected != nil || resp.Result != nil {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestFireEndpoint(t *testing.T) {
	h, _ := setupAppHandler(t)

	var it core.Item
	doJSON(t, h, http.MethodPost, "/items",
		`{"category":"clipboard","content":"func main() {\n\tprintln(\"hi\")\n}"}`,
		http.StatusCreated, &it)

	var res automation.Result
	doJSON(t, h, http.MethodPost, "/fire",
		fmt.Sprintf(`{"trigger":"copy","item_id":%q}`, it.ID),
		http.StatusOK, &res)
	if len(res.Failures) != 0 {
		t.Fatalf("Failures = %+v", res.Failures)
	}

	// The seeded auto-format workflow recategorizes code to snippets.
	var formatted core.Item
	doJSON(t, h, http.MethodGet, "/items/"+it.ID, "", http.StatusOK, &formatted)
	if formatted.Category != core.CategorySnippets {
		t.Fatalf("Category = %q, want %q", formatted.Category, core.CategorySnippets)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPost, "/fire", `{"trigger":"bogus"}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad trigger: status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHotkeyEndpoints(t *testing.T) {
	h, _ := setupAppHandler(t)

	var bindings []core.HotkeyBinding
	doJSON(t, h, http.MethodGet, "/hotkeys", "", http.StatusOK, &bindings)
	if len(bindings) != 10 {
		t.Fatalf("len(bindings) = %d, want 10", len(bindings))
	}

	var bound core.HotkeyBinding
	doJSON(t, h, http.MethodPut, "/hotkeys/h2", `{"keys":["alt","shift","k"]}`, http.StatusOK, &bound)
	want := []string{"Shift", "Alt", "K"}
	if len(bound.Keys) != 3 || bound.Keys[0] != want[0] || bound.Keys[1] != want[1] || bound.Keys[2] != want[2] {
		t.Fatalf("Keys = %v, want %v", bound.Keys, want)
	}

	// h1 already owns Ctrl+Shift+V.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPut, "/hotkeys/h3", `{"keys":["ctrl","shift","v"]}`, testToken))
	if rr.Code != http.StatusConflict {
		t.Fatalf("conflict: status = %d, want %d; body = %s", rr.Code, http.StatusConflict, rr.Body.String())
	}

	var cleared core.HotkeyBinding
	doJSON(t, h, http.MethodDelete, "/hotkeys/h2/keys", "", http.StatusOK, &cleared)
	if len(cleared.Keys) != 0 {
		t.Fatalf("Keys after clear = %v", cleared.Keys)
	}
}

func TestConnectionEndpoints(t *testing.T) {
	h, _ := setupAppHandler(t)

	var conn core.Connection
	doJSON(t, h, http.MethodPost, "/connections", `{"name":"Backup drive","type":"dropbox"}`, http.StatusCreated, &conn)
	if conn.Status != core.StatusDisconnected {
		t.Fatalf("Status = %q, want %q", conn.Status, core.StatusDisconnected)
	}

	var connected core.Connection
	doJSON(t, h, http.MethodPost, "/connections/"+conn.ID+"/connected", `{"account_id":"acct-17"}`, http.StatusOK, &connected)
	if connected.Status != core.StatusConnected || connected.AccountID != "acct-17" {
		t.Fatalf("connected = %+v", connected)
	}

	var dropped core.Connection
	doJSON(t, h, http.MethodPost, "/connections/"+conn.ID+"/disconnect", "", http.StatusOK, &dropped)
	if dropped.Status != core.StatusDisconnected || dropped.AccountID != "" {
		t.Fatalf("dropped = %+v", dropped)
	}

	doJSON(t, h, http.MethodDelete, "/connections/"+conn.ID, "", http.StatusOK, nil)

	var list []core.Connection
	doJSON(t, h, http.MethodGet, "/connections", "", http.StatusOK, &list)
	if len(list) != 0 {
		t.Fatalf("list = %+v", list)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><head><title>Example Page</title><meta name="description" content="A page"></head><body></body></html>`)
	}))
	defer srv.Close()

	h, _ := setupAppHandler(t)

	var p preview.Preview
	doJSON(t, h, http.MethodPost, "/preview", fmt.Sprintf(`{"url":%q}`, srv.URL), http.StatusOK, &p)
	if p.Title != "Example Page" || p.Description != "A page" {
		t.Fatalf("preview = %+v", p)
	}
}
