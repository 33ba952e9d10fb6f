package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

type cmdType int

// Hub commands. Every registry mutation and every fan-out runs as one of
// these, consumed in order by a single goroutine, so commands from the
// same sender take effect in the order its frames arrived.
const (
	REGISTER cmdType = iota
	UNREGISTER
	SUBSCRIBE
	UNSUBSCRIBE
	MESSAGE
	DIRECT
	BROADCAST
	HEARTBEAT
	STATUS
)

type queue chan command

type command struct {
	cmd     cmdType
	conn    *connection
	channel string
	target  int64
	data    json.RawMessage
	text    string
	reply   chan int
	status  chan statusReport
}

type hub struct {
	queue       queue
	reg         *registry
	startupTime time.Time
	delivered   uint64
}

func newHub() *hub {
	return &hub{
		queue:       make(queue, 16),
		reg:         newRegistry(),
		startupTime: time.Now(),
	}
}

func (h *hub) run() {
	for cmd := range h.queue {
		switch cmd.cmd {
		case REGISTER:
			h.register(cmd)
		case UNREGISTER:
			h.drop(cmd.conn)
		case SUBSCRIBE:
			h.subscribe(cmd)
		case UNSUBSCRIBE:
			h.unsubscribe(cmd)
		case MESSAGE:
			h.channelMessage(cmd)
		case DIRECT:
			h.direct(cmd)
		case BROADCAST:
			h.broadcast(cmd)
		case HEARTBEAT:
			h.keepalive()
		case STATUS:
			h.report(cmd)
		default:
			panic(fmt.Sprintf("unexpected hub cmd: %v\n", cmd))
		}
	}
}

// register admits a connection: the registry assigns the identity, the
// welcome event is queued first so the peer learns its id before any
// routed traffic, then the id is handed back through the control channel
// to unblock the pumps.
func (h *hub) register(cmd command) {
	c := cmd.conn
	id := h.reg.register(c)
	h.deliver(c, welcomeEvent(id).encode())
	c.control <- id
}

// drop retires a connection. Safe to call twice: eviction by a failed
// delivery and the unregister enqueued by the pumps can both arrive.
func (h *hub) drop(c *connection) {
	if !c.alive {
		return
	}
	c.alive = false
	h.reg.remove(c.id)
	c.shutdown()
	slog.Debug("connection dropped", "id", c.id)
}

func (h *hub) subscribe(cmd command) {
	c, ok := h.reg.lookup(cmd.conn.id)
	if !ok || !c.alive {
		// The peer hung up while the command was queued. Expected race.
		slog.Debug("subscribe from gone connection", "id", cmd.conn.id, "channel", cmd.channel)
		return
	}
	c.channels[cmd.channel] = struct{}{}
	h.deliver(c, subscribedEvent(cmd.channel).encode())
}

// unsubscribe removes the membership and acknowledges regardless of
// whether it existed, so repeated unsubscribes are harmless.
func (h *hub) unsubscribe(cmd command) {
	c, ok := h.reg.lookup(cmd.conn.id)
	if !ok || !c.alive {
		slog.Debug("unsubscribe from gone connection", "id", cmd.conn.id, "channel", cmd.channel)
		return
	}
	delete(c.channels, cmd.channel)
	h.deliver(c, unsubscribedEvent(cmd.channel).encode())
}

func (h *hub) channelMessage(cmd command) {
	sender := cmd.conn
	if _, ok := h.reg.lookup(sender.id); !ok || !sender.alive {
		slog.Debug("message from gone connection", "id", sender.id, "channel", cmd.channel)
		return
	}
	ev := channelMessageEvent(cmd.channel, sender.id, cmd.data)
	n := h.deliverToChannel(cmd.channel, ev.encode(), 0)
	mark("msgs.channel", 1)
	slog.Debug("channel message routed", "channel", cmd.channel, "from", sender.id, "recipients", n)
}

func (h *hub) direct(cmd command) {
	sender := cmd.conn
	if _, ok := h.reg.lookup(sender.id); !ok || !sender.alive {
		slog.Debug("direct from gone connection", "id", sender.id, "target", cmd.target)
		return
	}
	mark("msgs.direct", 1)
	if !h.deliverDirect(sender.id, cmd.target, cmd.data) {
		// Unknown or departed target. The sender is not told; directs
		// are fire-and-forget like everything else on the wire.
		slog.Debug("direct target unreachable", "from", sender.id, "target", cmd.target)
	}
}

// broadcast is the operator path. An empty channel name addresses every
// live connection regardless of membership.
func (h *hub) broadcast(cmd command) {
	payload := broadcastEvent(cmd.channel, cmd.text).encode()
	var n int
	if cmd.channel == "" {
		n = h.deliverToAll(payload)
	} else {
		n = h.deliverToChannel(cmd.channel, payload, 0)
	}
	mark("msgs.broadcast", 1)
	if cmd.reply != nil {
		cmd.reply <- n
	}
}

func (h *hub) keepalive() {
	n := h.deliverToAll(heartbeatEvent().encode())
	mark("heartbeats", 1)
	slog.Debug("heartbeat", "recipients", n)
}

func (h *hub) report(cmd command) {
	rep := statusReport{
		Connections: h.reg.size(),
		Delivered:   h.delivered,
		Started:     h.startupTime,
	}
	h.reg.forEach(func(c *connection) {
		rep.Details = append(rep.Details, c.status())
	})
	sort.Slice(rep.Details, func(i, j int) bool { return rep.Details[i].ID < rep.Details[j].ID })
	cmd.status <- rep
}

// statusReport is the hub goroutine's consistent view of its own state.
type statusReport struct {
	Connections int
	Delivered   uint64
	Started     time.Time
	Details     []connectionStatus
}

// snapshot asks the hub for a status report and waits for it.
func (h *hub) snapshot() statusReport {
	ch := make(chan statusReport, 1)
	h.queue <- command{cmd: STATUS, status: ch}
	return <-ch
}

// sendBroadcast routes an operator broadcast and reports how many
// connections received it.
func (h *hub) sendBroadcast(channel, text string) int {
	ch := make(chan int, 1)
	h.queue <- command{cmd: BROADCAST, channel: channel, text: text, reply: ch}
	return <-ch
}
