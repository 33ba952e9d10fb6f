package main

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRegistryIdentityProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("identities are unique and strictly increasing", prop.ForAll(
		func(removals []bool) bool {
			r := newRegistry()
			var last int64
			for _, removeIt := range removals {
				id := r.register(&connection{})
				if id <= last {
					return false
				}
				last = id
				if removeIt {
					r.remove(id)
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.Property("every registered connection starts on the default channel", prop.ForAll(
		func(n int) bool {
			r := newRegistry()
			for i := 0; i < n; i++ {
				c := &connection{}
				r.register(c)
				if _, ok := c.channels[defaultChannel]; !ok {
					return false
				}
				if !c.alive {
					return false
				}
			}
			return r.size() == n
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestSubscriptionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("repeated subscribe then unsubscribe leaves no membership", prop.ForAll(
		func(channel string, repeats int) bool {
			h := newHub()
			c := &connection{control: make(chan int64, 1), send: make(chan []byte, 256), h: h}
			h.register(command{cmd: REGISTER, conn: c})
			<-c.control

			for i := 0; i < repeats; i++ {
				h.subscribe(command{cmd: SUBSCRIBE, conn: c, channel: channel})
			}
			if _, ok := c.channels[channel]; !ok {
				return false
			}
			for i := 0; i < repeats; i++ {
				h.unsubscribe(command{cmd: UNSUBSCRIBE, conn: c, channel: channel})
			}
			_, ok := c.channels[channel]
			return !ok
		},
		gen.AnyString(),
		gen.IntRange(1, 5),
	))

	properties.Property("channel message payloads survive the envelope byte for byte", prop.ForAll(
		func(text string) bool {
			data, err := json.Marshal(text)
			if err != nil {
				return false
			}
			ev := channelMessageEvent("ch", 7, data)

			var decoded event
			if err := json.Unmarshal(ev.encode(), &decoded); err != nil {
				return false
			}
			var got string
			if err := json.Unmarshal(decoded.Data, &got); err != nil {
				return false
			}
			return decoded.Type == evtChannelMsg && decoded.ConnectionID == 7 && got == text
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
