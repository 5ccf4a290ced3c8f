package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientGenerate(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "a question?"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.2:3b", WithTemperature(0.3), WithTopP(0.9))
	got, err := c.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "a question?" {
		t.Errorf("response = %q", got)
	}

	if gotReq.Model != "llama3.2:3b" || gotReq.Prompt != "the prompt" {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}
	if gotReq.Options.Temperature != 0.3 || gotReq.Options.TopP != 0.9 {
		t.Errorf("options = %+v", gotReq.Options)
	}
}

func TestClientGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "nope")
	if _, err := c.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}

func TestClientGenerateConnectionRefused(t *testing.T) {
	// Port 1 is essentially never listening.
	c := NewClient("http://127.0.0.1:1", "llama3.2:3b")
	if _, err := c.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestClientTrimsBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "m")
	if _, err := c.Generate(context.Background(), "x"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestMockReplaysAndRecords(t *testing.T) {
	m := NewMock("one", "two")

	for _, want := range []string{"one", "two", "two"} {
		got, err := m.Generate(context.Background(), "p-"+want)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if len(m.Prompts) != 3 || m.Prompts[0] != "p-one" {
		t.Errorf("prompts = %v", m.Prompts)
	}
}
