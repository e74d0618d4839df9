package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zaplinkhq/zaplink/internal/config"
)

func TestFetchHistoryPageBuildsRequest(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Event{{ProviderMessageID: "pm1", RawIdentifier: "1187654321", Content: "hi"}})
	}))
	defer server.Close()

	client := NewHTTPClient(nil, config.ProviderConfig{
		BaseURL:       server.URL,
		Token:         "secret-token",
		RatePerSecond: 1000,
	})

	events, err := client.FetchHistoryPage(context.Background(), "1187654321", 3, 50)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(events) != 1 || events[0].ProviderMessageID != "pm1" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if gotPath != "/api/chats/1187654321/messages" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotQuery != "limit=50&page=3" {
		t.Errorf("unexpected query: %s", gotQuery)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("unexpected auth header: %s", gotAuth)
	}
}

func TestSendMessagePostsPayload(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/messages" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(SendResult{ProviderMessageID: "pm-out"})
	}))
	defer server.Close()

	client := NewHTTPClient(nil, config.ProviderConfig{BaseURL: server.URL, RatePerSecond: 1000})

	result, err := client.SendMessage(context.Background(), "5511987654321", "hello")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if result.ProviderMessageID != "pm-out" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if payload["phone"] != "5511987654321" || payload["message"] != "hello" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestGatewayErrorIncludesSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(nil, config.ProviderConfig{BaseURL: server.URL, RatePerSecond: 1000})

	if _, err := client.FetchRecentChanges(context.Background(), 20); err == nil {
		t.Fatal("expected error from 429 response")
	}
}
