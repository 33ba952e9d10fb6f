package main

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// connection is the per-peer record tracked by the registry plus the
// plumbing that moves frames between the hub and the websocket.
//
// Ownership is split: the hub goroutine assigns id and createdAt at
// registration and is afterwards the only writer of alive and channels;
// the reader and writer pumps own the wire. The mutex guards only the
// send side, where the hub's fan-out and the reader's direct replies
// race against close.
type connection struct {
	id        int64
	alive     bool
	channels  map[string]struct{}
	createdAt time.Time

	control chan int64
	send    chan []byte
	w       wire
	h       *hub

	remoteAddr string
	maxMessage int64

	mu       sync.Mutex
	closed   bool
	msgsSent uint64
}

func newConnection(w wire, h *hub, remoteAddr string, sendBuffer int, maxMessage int64) *connection {
	return &connection{
		control:    make(chan int64, 1),
		send:       make(chan []byte, sendBuffer),
		w:          w,
		h:          h,
		remoteAddr: remoteAddr,
		maxMessage: maxMessage,
	}
}

// run registers the connection, waits for the hub to hand back an
// identity, then pumps frames until the peer goes away. The matching
// unregister is enqueued on the way out so the registry record never
// outlives the socket by more than one queue traversal.
func (c *connection) run() {
	c.h.queue <- command{cmd: REGISTER, conn: c}
	id := <-c.control
	close(c.control)
	incr("connections", 1)
	slog.Info("client connected", "id", id, "remote", c.remoteAddr)
	defer func() {
		decr("connections", 1)
		slog.Info("client disconnected", "id", id, "remote", c.remoteAddr)
		c.h.queue <- command{cmd: UNREGISTER, conn: c}
	}()
	go c.writer(pingPeriod)
	c.reader()
}

func (c *connection) reader() {
	c.w.wsSetReadLimit(c.maxMessage)
	c.w.wsSetReadDeadline()
	c.w.wsSetPongHandler()
	for {
		if err := c.readMessage(); err != nil {
			break
		}
	}
	c.w.wsClose()
}

func (c *connection) readMessage() error {
	_, raw, err := c.w.wsReadMessage()
	if err != nil {
		return err
	}
	incr("conn.recv", 1)
	c.dispatch(raw)
	return nil
}

func (c *connection) writer(ping time.Duration) {
	ticker := time.NewTicker(ping)
	defer func() {
		ticker.Stop()
		c.w.wsClose()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.w.wsSetWriteDeadline()
			if !ok {
				c.w.wsWriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.w.wsWriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
			incr("conn.send", 1)
		case <-ticker.C:
			c.w.wsSetWriteDeadline()
			if err := c.w.wsWriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push queues one encoded frame for the writer. It reports false when
// the connection is already shut down or its buffer is full; a failed
// push never blocks the caller.
func (c *connection) push(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		c.msgsSent++
		return true
	default:
		return false
	}
}

// reply sends an event straight back to this peer, bypassing the hub.
// Used for frames that answer the sender alone.
func (c *connection) reply(ev event) {
	if !c.push(ev.encode()) {
		mark("drops", 1)
	}
}

// shutdown closes the send channel exactly once, which in turn makes the
// writer send a close frame and release the wire.
func (c *connection) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *connection) sent() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msgsSent
}

// connectionStatus is the reportable view of one connection.
type connectionStatus struct {
	ID         int64    `json:"id"`
	Channels   []string `json:"channels"`
	CreatedAt  int64    `json:"created_at"`
	RemoteAddr string   `json:"remote_addr"`
	MsgsSent   uint64   `json:"msgs_sent"`
}

// status snapshots the record. Hub goroutine only: it walks channels.
func (c *connection) status() connectionStatus {
	names := make([]string, 0, len(c.channels))
	for name := range c.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return connectionStatus{
		ID:         c.id,
		Channels:   names,
		CreatedAt:  c.createdAt.Unix(),
		RemoteAddr: c.remoteAddr,
		MsgsSent:   c.sent(),
	}
}
