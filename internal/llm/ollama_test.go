package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected stream=false")
		}
		if req.Model != "llama3.2" {
			t.Errorf("Expected model llama3.2, got %s", req.Model)
		}

		resp := ollamaGenerateResponse{
			Model:           "llama3.2",
			Response:        `{"answer": "covered", "confidence": "high"}`,
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.2",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "question"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(resp.Text, "covered") {
		t.Errorf("Unexpected response text: %s", resp.Text)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.2",
		Timeout: 5,
	})

	_, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "question"})
	if err == nil {
		t.Fatal("Expected error for HTTP 500")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected API error message, got %v", err)
	}
}

func TestOllamaProvider_Generate_MissingModel(t *testing.T) {
	provider, _ := NewOllamaProvider(Config{Timeout: 5})

	_, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "question"})
	if err == nil {
		t.Fatal("Expected error when no model configured")
	}
}

func TestOllamaProvider_Embed_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("Expected path /api/embeddings, got %s", r.URL.Path)
		}

		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Prompt != "policy text" {
			t.Errorf("Unexpected prompt: %q", req.Prompt)
		}

		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embedding: []float32{0.1, 0.2, 0.3},
		})
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.2",
		Timeout: 5,
	})

	vec, err := provider.Embed(context.Background(), "policy text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("Expected 3-dimensional vector, got %d", len(vec))
	}
}

func TestOllamaProvider_Embed_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{})
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.2",
		Timeout: 5,
	})

	if _, err := provider.Embed(context.Background(), "text"); err == nil {
		t.Fatal("Expected error for empty embedding")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server close")
	}
}
