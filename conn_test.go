package main

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testWrite []byte
var testInt int

type mockWire struct {
	msg []byte
	err error
}

func (mw mockWire) wsSetReadLimit(int64) {}

func (mw mockWire) wsSetReadDeadline() {}

func (mw mockWire) wsSetPongHandler() {}

func (mw mockWire) wsClose() {}

func (mw mockWire) wsSetWriteDeadline() {}

func (mw mockWire) wsReadMessage() (messageType int, p []byte, err error) {
	return messageType, mw.msg, mw.err
}

func (mw mockWire) wsWriteMessage(messageType int, payload []byte) (err error) {
	testInt = messageType
	testWrite = payload
	return mw.err
}

func newPumpConn(h *hub) *connection {
	return &connection{
		control: make(chan int64, 1),
		send:    make(chan []byte, 256),
		h:       h,
	}
}

func TestConnReadMessage(t *testing.T) {
	h := newHub()
	conn := newPumpConn(h)

	// Assert on error, nothing dispatched
	conn.w = mockWire{err: errors.New("Message Read Error")}
	err := conn.readMessage()

	if err == nil {
		t.Fatal("No Error Returned")
	}
	if len(conn.send) != 0 {
		t.Fatal("Expectation: send channel length should be 0, Received:", len(conn.send))
	}
	if len(h.queue) != 0 {
		t.Fatal("Expectation: hub queue length should be 0, Received:", len(h.queue))
	}

	// A routed frame lands on the hub queue
	conn.w = mockWire{msg: []byte(`{"type":"message","channel":"fruit","data":"banana"}`)}
	if err = conn.readMessage(); err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}

	cmd := <-h.queue
	if cmd.cmd != MESSAGE || cmd.channel != "fruit" || string(cmd.data) != `"banana"` {
		t.Fatal("Expectation: MESSAGE fruit banana, Received:", cmd.cmd, cmd.channel, string(cmd.data))
	}

	// An undecodable frame is answered directly with an error event
	conn.w = mockWire{msg: []byte("not json")}
	if err = conn.readMessage(); err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}
	if len(conn.send) != 1 {
		t.Fatal("Expectation: send channel length should be 1, Received:", len(conn.send))
	}
	var ev event
	if err := json.Unmarshal(<-conn.send, &ev); err != nil {
		t.Fatal("Expectation: valid event JSON, Received:", err)
	}
	if ev.Type != evtError || ev.Reason == "" {
		t.Fatal("Expectation: error event with reason, Received:", ev.Type, ev.Reason)
	}
}

func TestConnWriter(t *testing.T) {
	conn := newPumpConn(newHub())
	conn.w = mockWire{}

	go conn.writer(2 * time.Second)
	conn.send <- []byte("bananas")

	// On receipt of valid message, message written
	// with type websocket.TextMessage
	time.Sleep(50 * time.Millisecond)
	if string(testWrite) != "bananas" {
		t.Fatal("Expectation: bananas, Received:", string(testWrite))
	}
	if testInt != websocket.TextMessage {
		t.Fatal("Expectation:", websocket.TextMessage, "Received:", testInt)
	}

	// On timed intervals, ping with nil message
	// and type websocket.PingMessage
	time.Sleep(3 * time.Second)
	if string(testWrite) != "" {
		t.Fatal("Expectation: nil, Received:", string(testWrite))
	}
	if testInt != websocket.PingMessage {
		t.Fatal("Expectation:", websocket.PingMessage, "Received:", testInt)
	}
}

func TestConnWriterClose(t *testing.T) {
	conn := newPumpConn(newHub())
	conn.w = mockWire{}

	done := make(chan struct{})
	go func() {
		conn.writer(time.Hour)
		close(done)
	}()
	conn.shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expectation: writer returns after shutdown, Received: still running")
	}
	if testInt != websocket.CloseMessage {
		t.Fatal("Expectation:", websocket.CloseMessage, "Received:", testInt)
	}
}

func TestConnPush(t *testing.T) {
	conn := newPumpConn(newHub())
	conn.send = make(chan []byte, 1)

	if !conn.push([]byte("a")) {
		t.Fatal("Expectation: push succeeds, Received: failure")
	}
	// A full buffer fails without blocking.
	if conn.push([]byte("b")) {
		t.Fatal("Expectation: push fails on full buffer, Received: success")
	}
	if conn.sent() != 1 {
		t.Fatal("Expectation: 1, Received:", conn.sent())
	}

	conn.shutdown()
	if conn.push([]byte("c")) {
		t.Fatal("Expectation: push fails after shutdown, Received: success")
	}

	// Shutting down twice is safe.
	conn.shutdown()
}
