package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"supportbot/internal/domain"
)

func newTestClient(t *testing.T, url string) *GeminiClient {
	t.Helper()
	c, err := NewGeminiClient("test-key", "gemini-2.5-flash", url)
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	return c
}

func TestGeminiClient_GenerateContent(t *testing.T) {
	var got GeminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"We're open "},{"text":"9 to 5!"}]}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	text, err := client.GenerateContent(context.Background(), []domain.Turn{
		{Role: domain.RoleSystemContext, Text: "persona"},
		{Role: domain.RoleAssistantAck, Text: "ack"},
		{Role: domain.RoleUser, Text: "hi"},
		{Role: domain.RoleAssistant, Text: "hello"},
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "We're open 9 to 5!" {
		t.Errorf("unexpected text: %q", text)
	}

	wantRoles := []string{"user", "model", "user", "model"}
	if len(got.Contents) != len(wantRoles) {
		t.Fatalf("expected %d contents, got %d", len(wantRoles), len(got.Contents))
	}
	for i, role := range wantRoles {
		if got.Contents[i].Role != role {
			t.Errorf("content %d role = %q, want %q", i, got.Contents[i].Role, role)
		}
	}
	if got.Contents[2].Parts[0].Text != "hi" {
		t.Errorf("unexpected text in content 2: %q", got.Contents[2].Parts[0].Text)
	}
}

func TestGeminiClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).GenerateContent(context.Background(), []domain.Turn{{Role: domain.RoleUser, Text: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).GenerateContent(context.Background(), []domain.Turn{{Role: domain.RoleUser, Text: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected blocked prompt error, got %v", err)
	}
}

func TestGeminiClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	if _, err := newTestClient(t, server.URL).GenerateContent(context.Background(), nil); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGeminiClient_ListModels(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("pageToken") == "" {
			w.Write([]byte(`{"models":[{"name":"models/embedding-001","supportedGenerationMethods":["embedContent"]}],"nextPageToken":"p2"}`))
			return
		}
		w.Write([]byte(`{"models":[{"name":"models/gemini-2.5-flash","supportedGenerationMethods":["generateContent","countTokens"]}]}`))
	}))
	defer server.Close()

	models, err := newTestClient(t, server.URL).ListModels(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if calls != 2 || len(models) != 2 {
		t.Fatalf("expected 2 pages and 2 models, got %d calls and %d models", calls, len(models))
	}
	if models[0].SupportsGenerateContent() {
		t.Errorf("embedding model should not support generateContent")
	}
	if !models[1].SupportsGenerateContent() {
		t.Errorf("gemini model should support generateContent")
	}
}

func TestNewGeminiClient_Validation(t *testing.T) {
	if _, err := NewGeminiClient("", "gemini-2.5-flash", "https://example.com"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewGeminiClient("key", "gemini-2.5-flash", "::bad"); err == nil {
		t.Error("expected invalid base url error")
	}
	if _, err := NewGeminiClient("key", "", "https://example.com"); err == nil {
		t.Error("expected empty model error")
	}
}
