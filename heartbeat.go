package main

import (
	"sync"
	"time"
)

// heartbeat asks the hub to broadcast a keep-alive event on a fixed
// interval. It is the only outbound traffic not caused by an inbound
// frame, which keeps idle connections warm through proxies and gives
// clients a cheap liveness signal.
type heartbeat struct {
	h *hub

	mux     sync.Mutex // Used to sync start/stop
	ticker  *time.Ticker
	stopCh  chan struct{}
	stopped bool
}

// creates and starts a heartbeat that fires every interval
// until stopped
func newHeartbeat(h *hub, interval time.Duration) *heartbeat {
	hb := &heartbeat{h: h}

	go func() {
		hb.mux.Lock()
		stopped := hb.stopped

		if !stopped {
			hb.stopCh = make(chan struct{}, 1)
			hb.ticker = time.NewTicker(interval)
		}
		hb.mux.Unlock()

		if !stopped {
			hb.tick()
		}
	}()
	return hb
}

// Stop halts the heartbeat. Stopping twice, or before the ticker ever
// started, is safe.
func (hb *heartbeat) stop() {
	hb.mux.Lock()
	defer hb.mux.Unlock()

	if !hb.stopped && hb.stopCh != nil {
		hb.ticker.Stop()
		hb.stopCh <- struct{}{}
	}
	hb.stopped = true
}

func (hb *heartbeat) tick() {
	for {
		select {
		case <-hb.ticker.C:
			hb.h.queue <- command{cmd: HEARTBEAT}
		case <-hb.stopCh:
			return
		}
	}
}
