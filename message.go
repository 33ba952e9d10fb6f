package main

import (
	"encoding/json"
	"time"
)

// defaultChannel is the channel every connection is a member of at
// registration. Membership is not protected: a peer may unsubscribe from
// it like any other channel.
const defaultChannel = "default"

// Inbound message types. The "type" field is the discriminant; a frame
// carrying anything not listed here is echoed back verbatim so unknown
// kinds stay forward-compatible.
const (
	msgSubscribe   = "subscribe"
	msgUnsubscribe = "unsubscribe"
	msgMessage     = "message"
	msgDirect      = "direct"
	msgPing        = "ping"
)

// Outbound event types.
const (
	evtConnection   = "connection"
	evtSubscribed   = "subscribed"
	evtUnsubscribed = "unsubscribed"
	evtChannelMsg   = "channel_message"
	evtDirectMsg    = "direct_message"
	evtPong         = "pong"
	evtHeartbeat    = "heartbeat"
	evtBroadcast    = "broadcast"
	evtError        = "error"
	evtEcho         = "echo"
)

// inbound is the envelope for frames read off a peer's websocket. Fields
// beyond the ones a given type uses are ignored.
type inbound struct {
	Type     string          `json:"type"`
	Channel  string          `json:"channel"`
	TargetID int64           `json:"targetId"`
	Data     json.RawMessage `json:"data"`
}

// event is the envelope for every frame the relay emits. One struct
// covers all event types; unused fields are omitted from the JSON. Every
// event carries a delivery timestamp.
type event struct {
	Type         string          `json:"type"`
	Timestamp    time.Time       `json:"timestamp"`
	ConnectionID int64           `json:"connectionId,omitempty"`
	Channel      string          `json:"channel,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	Message      string          `json:"message,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Original     json.RawMessage `json:"original,omitempty"`
}

// encode renders the event as a JSON frame. The envelope contains only
// marshalable fields, so the error is not interesting.
func (e event) encode() []byte {
	b, _ := json.Marshal(e)
	return b
}

func welcomeEvent(id int64) event {
	return event{Type: evtConnection, Timestamp: time.Now(), ConnectionID: id}
}

func subscribedEvent(channel string) event {
	return event{Type: evtSubscribed, Timestamp: time.Now(), Channel: channel}
}

func unsubscribedEvent(channel string) event {
	return event{Type: evtUnsubscribed, Timestamp: time.Now(), Channel: channel}
}

func channelMessageEvent(channel string, sender int64, data json.RawMessage) event {
	return event{
		Type:         evtChannelMsg,
		Timestamp:    time.Now(),
		Channel:      channel,
		ConnectionID: sender,
		Data:         data,
	}
}

func directMessageEvent(sender int64, data json.RawMessage) event {
	return event{Type: evtDirectMsg, Timestamp: time.Now(), ConnectionID: sender, Data: data}
}

func pongEvent() event {
	return event{Type: evtPong, Timestamp: time.Now()}
}

func heartbeatEvent() event {
	return event{Type: evtHeartbeat, Timestamp: time.Now()}
}

func broadcastEvent(channel, message string) event {
	return event{Type: evtBroadcast, Timestamp: time.Now(), Channel: channel, Message: message}
}

func errorEvent(reason string) event {
	return event{Type: evtError, Timestamp: time.Now(), Reason: reason}
}

func echoEvent(original []byte) event {
	return event{Type: evtEcho, Timestamp: time.Now(), Original: original}
}
