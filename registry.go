package main

import "time"

// registry is the authoritative store of connection records, keyed by
// identity. Identities are assigned from a monotonic counter and never
// reused for the life of the process.
//
// The registry carries no locking on purpose: every mutation and every
// read happens on the hub goroutine, which serializes access by
// consuming commands from a single queue.
type registry struct {
	conns  map[int64]*connection
	lastID int64
}

func newRegistry() *registry {
	return &registry{conns: make(map[int64]*connection)}
}

// register assigns the next identity to c, stamps its creation time and
// seeds its channel membership with the default channel.
func (r *registry) register(c *connection) int64 {
	r.lastID++
	c.id = r.lastID
	c.alive = true
	c.createdAt = time.Now()
	c.channels = map[string]struct{}{defaultChannel: {}}
	r.conns[c.id] = c
	return c.id
}

func (r *registry) lookup(id int64) (*connection, bool) {
	c, ok := r.conns[id]
	return c, ok
}

// remove deletes the record for id. Removing an id that is absent or
// already removed is a no-op.
func (r *registry) remove(id int64) {
	delete(r.conns, id)
}

func (r *registry) size() int {
	return len(r.conns)
}

// forEach visits every record. Visit order is map order, which is fine:
// nothing in the relay depends on fan-out order across connections.
func (r *registry) forEach(visit func(*connection)) {
	for _, c := range r.conns {
		visit(c)
	}
}
