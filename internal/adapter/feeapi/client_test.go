package feeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFeeCategoriesString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/fee-categories" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"feesByCategory": "Math: $100, Science: $120"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	fees, err := client.FeeCategories(context.Background())
	if err != nil {
		t.Fatalf("FeeCategories failed: %v", err)
	}
	if fees != "Math: $100, Science: $120" {
		t.Fatalf("unexpected fees: %q", fees)
	}
}

func TestFeeCategoriesObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"feesByCategory": {"math": 100}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	fees, err := client.FeeCategories(context.Background())
	if err != nil {
		t.Fatalf("FeeCategories failed: %v", err)
	}
	if fees != `{"math": 100}` {
		t.Fatalf("unexpected fees: %q", fees)
	}
}

func TestFeeCategoriesMissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	fees, err := client.FeeCategories(context.Background())
	if err != nil {
		t.Fatalf("FeeCategories failed: %v", err)
	}
	if fees != "" {
		t.Fatalf("expected empty fees, got %q", fees)
	}
}

func TestFeeCategoriesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	if _, err := client.FeeCategories(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
