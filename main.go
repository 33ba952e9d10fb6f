// Wirehub is a bidirectional message relay over websockets.
//
//	wirehub -addr=:8081
//
// Each peer opens one websocket and is handed a numeric identity. On
// that single connection it can subscribe to any number of named
// channels and exchange JSON frames:
//
//	{"type": "subscribe", "channel": "alerts"}
//	{"type": "message", "channel": "alerts", "data": {"any": "json"}}
//	{"type": "direct", "targetId": 7, "data": "psst"}
//	{"type": "ping"}
//
// Channel messages go to every current subscriber of the channel,
// including the sender when it is subscribed. Nothing is stored: a
// message missed is a message gone, and identities vanish with their
// connections.
//
// Non-websocket GET requests to / are served an HTML client. Operators
// get /admin/ (dashboard), /admin/status.json and POST /admin/broadcast,
// plus an optional interactive console on stdin (-console).
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/facebookgo/httpdown"
	"github.com/gorilla/mux"
)

func main() {
	// Prepare the stoppable HTTP server
	server := &http.Server{
		Addr: defaultAddr,
	}
	hd := &httpdown.HTTP{
		StopTimeout: 10 * time.Second,
		KillTimeout: 1 * time.Second,
	}

	configPath := flag.String("config", "", "path to YAML configuration file")
	addr := flag.String("addr", "", "http service address, overrides config")
	origin := flag.String("origin", "", "websocket server checks Origin headers against this scheme://host[:port]")
	console := flag.Bool("console", false, "run the operator console on stdin")
	debug := flag.Bool("debug", false, "log at debug level")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.DurationVar(&hd.StopTimeout, "stop-timeout", hd.StopTimeout, "stop timeout")
	flag.DurationVar(&hd.KillTimeout, "kill-timeout", hd.KillTimeout, "kill timeout")
	flag.Parse()

	if *showVersion {
		os.Stdout.WriteString(versionString() + "\n")
		return
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags win over the file.
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *origin != "" {
		cfg.Server.Origin = *origin
	}
	if *console {
		cfg.Console = true
	}

	hub := newHub()
	go hub.run()

	hb := newHeartbeat(hub, cfg.Relay.HeartbeatInterval)
	defer hb.stop()

	startMetrics()
	defer finalMetrics()

	if cfg.Console {
		go runConsole(hub, os.Stdin, os.Stdout)
	}

	slog.Info("wirehub listening",
		"addr", cfg.Server.Addr,
		"version", Version,
		"heartbeat", cfg.Relay.HeartbeatInterval,
	)

	// Start the server
	server.Addr = cfg.Server.Addr
	server.Handler = newHandler(hub, cfg)
	if err := httpdown.ListenAndServe(server, hd); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newHandler(hub *hub, cfg *config) http.Handler {
	handler := mux.NewRouter()

	// Route websocket requests
	handler.Headers(
		// Requests with these headers will use this handler
		"Connection", "Upgrade",
		"Upgrade", "websocket",
	).Handler(newWsHandler(hub, cfg))

	// Operator surface
	handler.Handle("/admin/status.json", statusHandler{h: hub}).Methods("GET")
	handler.Handle("/admin/broadcast", broadcastHandler{h: hub}).Methods("POST")
	handler.HandleFunc("/admin/", adminPageHandler).Methods("GET")

	// Everything else gets the built-in client
	handler.Handle("/", pageHandler{addr: cfg.Server.Addr}).Methods("GET")

	return handler
}
