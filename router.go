package main

import (
	"encoding/json"
	"log/slog"
)

// Delivery primitives. All of them run on the hub goroutine.
//
// A full send buffer is treated the same as a dead socket: the recipient
// is dropped on the spot and the fan-out moves on, so one slow consumer
// never stalls or fails delivery for the rest of a channel.

// deliver hands one encoded event to one connection.
func (h *hub) deliver(c *connection, payload []byte) bool {
	if c.push(payload) {
		h.delivered++
		return true
	}
	mark("drops", 1)
	h.drop(c)
	return false
}

// deliverToChannel fans payload out to every live member of channel and
// returns the number of successful deliveries. excludeID names one
// connection to skip, 0 skips nobody. The sender of a channel message
// is not excluded; a subscribed sender hears its own messages.
func (h *hub) deliverToChannel(channel string, payload []byte, excludeID int64) int {
	n := 0
	h.reg.forEach(func(c *connection) {
		if !c.alive || c.id == excludeID {
			return
		}
		if _, member := c.channels[channel]; !member {
			return
		}
		if h.deliver(c, payload) {
			n++
		}
	})
	return n
}

// deliverToAll sends payload to every live connection, membership aside.
func (h *hub) deliverToAll(payload []byte) int {
	n := 0
	h.reg.forEach(func(c *connection) {
		if !c.alive {
			return
		}
		if h.deliver(c, payload) {
			n++
		}
	})
	return n
}

// deliverDirect routes a point-to-point message. It reports false when
// the target is unknown, already dropped, or its buffer was full.
func (h *hub) deliverDirect(fromID, targetID int64, data json.RawMessage) bool {
	target, ok := h.reg.lookup(targetID)
	if !ok || !target.alive {
		return false
	}
	if !h.deliver(target, directMessageEvent(fromID, data).encode()) {
		slog.Debug("direct recipient dropped mid delivery", "target", targetID)
		return false
	}
	return true
}
