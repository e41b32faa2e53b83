package resume

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resgen.org/internal/apperr"
)

func chatResponse(t *testing.T, content string) string {
	t.Helper()
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(data)
}

func TestClientGenerate(t *testing.T) {
	resumeJSON := `{"headline":"Jane Doe","summary":"Engineer.","sections":{"experience":[],"skills":["Go"],"education":[]}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", payload.Model)
		}
		if len(payload.Messages) != 2 {
			t.Errorf("messages = %d, want 2", len(payload.Messages))
		}
		if payload.ResponseFormat.Type != "json_schema" {
			t.Errorf("response_format.type = %q", payload.ResponseFormat.Type)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(chatResponse(t, resumeJSON))); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithEndpoint(srv.URL))
	result, raw, err := client.Generate(context.Background(), &GenerateRequest{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Headline != "Jane Doe" {
		t.Errorf("headline = %q", result.Headline)
	}
	if len(result.Sections.Skills) != 1 || result.Sections.Skills[0] != "Go" {
		t.Errorf("skills = %v", result.Sections.Skills)
	}
	if raw != resumeJSON {
		t.Errorf("raw body = %q, want the model content verbatim", raw)
	}
}

func TestClientGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithEndpoint(srv.URL))
	if _, _, err := client.Generate(context.Background(), &GenerateRequest{}); !apperr.IsKind(err, apperr.BadGateway) {
		t.Fatalf("err = %v, want bad gateway", err)
	}
}

func TestClientGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithEndpoint(srv.URL))
	if _, _, err := client.Generate(context.Background(), &GenerateRequest{}); !apperr.IsKind(err, apperr.BadGateway) {
		t.Fatalf("err = %v, want bad gateway", err)
	}
}

func TestClientGenerateMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse(t, "not json at all")))
	}))
	defer srv.Close()

	client := NewClient("test-key", "gpt-4o-mini", WithEndpoint(srv.URL))
	if _, _, err := client.Generate(context.Background(), &GenerateRequest{}); !apperr.IsKind(err, apperr.BadGateway) {
		t.Fatalf("err = %v, want bad gateway", err)
	}
}
