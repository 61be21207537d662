package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/config"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(config.ContentAIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
	return client, server
}

func TestGenerateDescriptionReturnsBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/descriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ProductName != "Organic Tomatoes" || req.Category != "vegetable" {
			t.Errorf("unexpected request %+v", req)
		}
		json.NewEncoder(w).Encode(descriptionResponse{Description: "Crisp, vine-ripened tomatoes."})
	}))

	got, err := client.GenerateDescription(context.Background(), "Organic Tomatoes", "vegetable")
	if err != nil {
		t.Fatalf("generate description: %v", err)
	}
	if got != "Crisp, vine-ripened tomatoes." {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestGenerateDescriptionRejectsEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(descriptionResponse{Description: "   "})
	}))

	_, err := client.GenerateDescription(context.Background(), "Organic Tomatoes", "vegetable")
	if err == nil {
		t.Fatal("expected error for empty description")
	}
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGenerateImageSurfacesUpstreamStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.GenerateImage(context.Background(), "Organic Tomatoes", "vegetable")
	if err == nil {
		t.Fatal("expected error for upstream failure")
	}
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGenerateImageReturnsURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(imageResponse{URL: "https://cdn.example.com/tomatoes.png"})
	}))

	got, err := client.GenerateImage(context.Background(), "Organic Tomatoes", "vegetable")
	if err != nil {
		t.Fatalf("generate image: %v", err)
	}
	if got != "https://cdn.example.com/tomatoes.png" {
		t.Fatalf("unexpected url %q", got)
	}
}
