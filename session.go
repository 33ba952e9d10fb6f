package main

import (
	"encoding/json"
	"log/slog"
)

// dispatch interprets one inbound frame. Frames that answer only the
// sender (pong, echo, decode errors) are replied to right here on the
// reader goroutine; everything that touches the registry or another
// connection is enqueued for the hub, so per-sender command order is the
// order frames arrived on the wire.
func (c *connection) dispatch(raw []byte) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		mark("errors.decode", 1)
		slog.Debug("undecodable frame", "id", c.id, "error", err)
		c.reply(errorEvent("invalid message: " + err.Error()))
		return
	}

	switch in.Type {
	case msgSubscribe:
		c.h.queue <- command{cmd: SUBSCRIBE, conn: c, channel: in.Channel}
	case msgUnsubscribe:
		c.h.queue <- command{cmd: UNSUBSCRIBE, conn: c, channel: in.Channel}
	case msgMessage:
		channel := in.Channel
		if channel == "" {
			channel = defaultChannel
		}
		c.h.queue <- command{cmd: MESSAGE, conn: c, channel: channel, data: in.Data}
	case msgDirect:
		c.h.queue <- command{cmd: DIRECT, conn: c, target: in.TargetID, data: in.Data}
	case msgPing:
		c.reply(pongEvent())
	default:
		c.reply(echoEvent(raw))
	}
}
