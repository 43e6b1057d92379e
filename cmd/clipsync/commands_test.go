package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestAddItemRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /items": `{"id":"item-123","title":"Untitled Note","category":"clipboard"}`,
	})

	client := ts.client()

	req := map[string]any{
		"category": "clipboard",
		"content":  "hello world",
	}

	resp, err := client.post(ctx, "/items", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]any
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if result["id"] != "item-123" {
		t.Errorf("id = %v, want item-123", result["id"])
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}

	r := ts.requests[0]
	if r.Method != "POST" {
		t.Errorf("method = %q, want POST", r.Method)
	}
	if r.Path != "/items" {
		t.Errorf("path = %q, want /items", r.Path)
	}
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["content"] != "hello world" {
		t.Errorf("body.content = %v, want hello world", body["content"])
	}
}

func TestDecodeJSONErrorStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(ctx, "/items/missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v any
	err = decodeJSON(resp, &v)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want it to mention 404", err.Error())
	}
	if !strings.Contains(err.Error(), "not_found") {
		t.Errorf("error = %q, want it to carry the server body", err.Error())
	}
}

func TestAddCommand_MissingArgs(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"add"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing args")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want it to mention 'required'", err.Error())
	}
}

func TestAssistantRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /assistant": `{"command":true,"selected":{"id":"w1","name":"Summarize","command":"/summarize"},"result":{"effects":[{"kind":"ai-prompt","payload":{"prompt":"Summarize this"}}]}}`,
	})

	resp, err := ts.client().post(ctx, "/assistant", map[string]string{"input": "/s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		Command  bool `json:"command"`
		Selected *struct {
			Command string `json:"command"`
		} `json:"selected"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if !result.Command {
		t.Error("command = false, want true")
	}
	if result.Selected == nil || result.Selected.Command != "/summarize" {
		t.Errorf("selected = %+v, want /summarize", result.Selected)
	}
}

func TestSplitFlags(t *testing.T) {
	got := splitFlags(" sql, go ,,db ")
	want := []string{"sql", "go", "db"}
	if len(got) != len(want) {
		t.Fatalf("splitFlags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitFlags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "hello")
	if strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	result = colorize(colorGreen, "hello")
	if !strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}
