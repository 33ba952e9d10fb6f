package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// runConsole reads operator commands from in and runs them against the
// hub, writing results to out. It returns at EOF or on "quit"; the relay
// keeps serving either way.
func runConsole(h *hub, in io.Reader, out io.Writer) {
	fmt.Fprintln(out, `wirehub console, "help" lists commands`)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "help":
			fmt.Fprintln(out, "commands:")
			fmt.Fprintln(out, "  status                      connection count and uptime")
			fmt.Fprintln(out, "  clients                     per-connection detail")
			fmt.Fprintln(out, "  broadcast <channel> <text>  send to a channel, * for everyone")
			fmt.Fprintln(out, "  version                     build information")
			fmt.Fprintln(out, "  quit                        leave the console")
		case "status":
			rep := h.snapshot()
			fmt.Fprintf(out, "connections: %d  delivered: %d  uptime: %s\n",
				rep.Connections, rep.Delivered, time.Since(rep.Started).Round(time.Second))
		case "clients":
			rep := h.snapshot()
			if len(rep.Details) == 0 {
				fmt.Fprintln(out, "  (none)")
				continue
			}
			for _, cs := range rep.Details {
				fmt.Fprintf(out, "  #%d %s channels=%s sent=%d\n",
					cs.ID, cs.RemoteAddr, strings.Join(cs.Channels, ","), cs.MsgsSent)
			}
		case "broadcast":
			if len(fields) < 3 {
				fmt.Fprintln(out, "usage: broadcast <channel> <text>")
				continue
			}
			channel := fields[1]
			if channel == "*" {
				channel = ""
			}
			n := h.sendBroadcast(channel, strings.Join(fields[2:], " "))
			fmt.Fprintf(out, "delivered to %d connection(s)\n", n)
		case "version":
			fmt.Fprintln(out, versionString())
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(out, "unknown command %q, try \"help\"\n", fields[0])
		}
	}
}
