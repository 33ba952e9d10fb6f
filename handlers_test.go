package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatusHandler(t *testing.T) {
	h := newHub()
	go h.run()
	c := queueTestConn(t, h, 8)

	req := httptest.NewRequest("GET", "/admin/status.json", nil)
	w := httptest.NewRecorder()
	statusHandler{h: h}.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want %q", ct, "application/json")
	}

	var doc reportingStatus
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("status.json did not decode: %v", err)
	}
	if doc.Status != "OK" {
		t.Errorf("Status = %q, want %q", doc.Status, "OK")
	}
	if doc.Version != Version {
		t.Errorf("Version = %q, want %q", doc.Version, Version)
	}
	if doc.Connections != 1 {
		t.Errorf("Connections = %d, want 1", doc.Connections)
	}
	if len(doc.Clients) != 1 || doc.Clients[0].ID != c.id {
		t.Errorf("Clients = %+v, want the one registered connection", doc.Clients)
	}
	if doc.Node == "" {
		t.Error("Node is empty")
	}
}

func TestBroadcastHandler(t *testing.T) {
	h := newHub()
	go h.run()
	c := queueTestConn(t, h, 8)

	body := strings.NewReader(`{"channel":"","message":"maintenance in 5"}`)
	req := httptest.NewRequest("POST", "/admin/broadcast", body)
	w := httptest.NewRecorder()
	broadcastHandler{h: h}.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Recipients int `json:"recipients"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("broadcast response did not decode: %v", err)
	}
	if resp.Recipients != 1 {
		t.Errorf("Recipients = %d, want 1", resp.Recipients)
	}

	ev := awaitEvent(t, c)
	if ev.Type != evtBroadcast || ev.Message != "maintenance in 5" {
		t.Errorf("event = %q %q, want broadcast with message", ev.Type, ev.Message)
	}
}

func TestBroadcastHandlerBadBody(t *testing.T) {
	h := newHub()
	go h.run()

	req := httptest.NewRequest("POST", "/admin/broadcast", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	broadcastHandler{h: h}.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestPageHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	pageHandler{addr: ":8081"}.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "<html>") {
		t.Fatal("no HTML in response")
	}
	if !strings.Contains(body, "wirehub client") {
		t.Fatal("client page marker missing")
	}
	if !strings.Contains(body, ":8081") {
		t.Fatal("addr not rendered into page")
	}
}

func TestAdminPageHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/", nil)
	w := httptest.NewRecorder()
	adminPageHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "wirehub admin") {
		t.Fatal("dashboard marker missing")
	}
}

func TestOriginChecker(t *testing.T) {
	anyOrigin := originChecker("")
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	if !anyOrigin(req) {
		t.Error("empty allowed origin should accept anything")
	}

	strict := originChecker("https://example.com")
	req.Header.Set("Origin", "https://example.com")
	if !strict(req) {
		t.Error("exact origin match refused")
	}
	req.Header.Set("Origin", "https://evil.example")
	if strict(req) {
		t.Error("mismatched origin accepted")
	}
	req.Header.Del("Origin")
	if strict(req) {
		t.Error("absent origin accepted")
	}
}
