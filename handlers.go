package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	rice "github.com/GeertJohan/go.rice"
	"github.com/gorilla/websocket"
)

type wsHandler struct {
	h        *hub
	cfg      *config
	upgrader *websocket.Upgrader
}

func newWsHandler(h *hub, cfg *config) wsHandler {
	return wsHandler{
		h:   h,
		cfg: cfg,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Server.Origin),
		},
	}
}

// originChecker allows every origin when allowed is empty, otherwise it
// requires an exact match on the Origin header.
func originChecker(allowed string) func(*http.Request) bool {
	if allowed == "" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		return r.Header.Get("Origin") == allowed
	}
}

func (wsh wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := wsh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade refused", "remote", r.RemoteAddr, "error", err)
		return
	}
	c := newConnection(websocketWire{ws}, wsh.h, r.RemoteAddr,
		wsh.cfg.Relay.SendBuffer, wsh.cfg.Relay.MaxMessageSize)
	c.run()
}

type pageHandler struct {
	addr string
}

func (ph pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	webTemplate.Execute(w, templateArgs{ph.addr})
}

// reportingStatus is the document served at /admin/status.json.
type reportingStatus struct {
	Status      string             `json:"status"`
	Node        string             `json:"node"`
	Version     string             `json:"version"`
	Reported    int64              `json:"reported_at"`
	StartupTime int64              `json:"startup_time"`
	Uptime      int64              `json:"uptime_seconds"`
	Connections int                `json:"connections"`
	Delivered   uint64             `json:"msgs_delivered"`
	Counters    map[string]int64   `json:"counters"`
	Clients     []connectionStatus `json:"clients"`
}

type statusHandler struct {
	h *hub
}

func (sh statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rep := sh.h.snapshot()
	doc := reportingStatus{
		Status:      "OK",
		Node:        nodeName(),
		Version:     Version,
		Reported:    time.Now().Unix(),
		StartupTime: rep.Started.Unix(),
		Uptime:      int64(time.Since(rep.Started).Seconds()),
		Connections: rep.Connections,
		Delivered:   rep.Delivered,
		Counters:    counterSnapshot(),
		Clients:     rep.Details,
	}
	w.Header().Set("Content-Type", "application/json")
	b, _ := json.MarshalIndent(doc, "", "  ")
	fmt.Fprint(w, string(b))
}

// nodeName is the local hostname, for telling nodes apart when several
// relays report to the same place.
func nodeName() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}

type broadcastHandler struct {
	h *hub
}

func (bh broadcastHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendBadRequestError(w, "Unable to read POST body.")
		return
	}

	var req struct {
		Channel string `json:"channel"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		sendBadRequestError(w, "Body must be JSON with channel and message fields.")
		return
	}

	n := bh.h.sendBroadcast(req.Channel, req.Message)
	slog.Info("operator broadcast", "channel", req.Channel, "recipients", n)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Recipients int `json:"recipients"`
	}{n})
}

// adminPageHandler serves the static dashboard page out of the rice box.
func adminPageHandler(w http.ResponseWriter, r *http.Request) {
	box, err := rice.FindBox("views")
	if err != nil {
		slog.Error("admin assets unavailable", "error", err)
		http.Error(w, "Error: admin assets unavailable.", http.StatusInternalServerError)
		return
	}

	file, err := box.Open("admin.html")
	if err != nil {
		slog.Error("admin page missing from box", "error", err)
		http.Error(w, "Error: admin assets unavailable.", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	fstat, err := file.Stat()
	if err != nil {
		http.Error(w, "Error: admin assets unavailable.", http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, fstat.Name(), fstat.ModTime(), file)
}

func sendBadRequestError(w http.ResponseWriter, str string) {
	http.Error(w,
		fmt.Sprintf("Error: bad request. %s", str),
		http.StatusBadRequest)
}
