package host

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultLogLines is how many events /logs shows without an argument.
const DefaultLogLines = 50

// Command is one REPL slash command.
type Command struct {
	Name  string
	Usage string
}

// Commands lists the slash commands in help order.
var Commands = []Command{
	{"/help", "Show this help"},
	{"/reset", "Clear memory/context"},
	{"/logs [N]", fmt.Sprintf("Show last N log entries (default %d)", DefaultLogLines)},
	{"/tools", "List the tools of every connected server"},
	{"/exit", "Exit"},
}

func (h *Host) command(ctx context.Context, text string) Reply {
	fields := strings.Fields(text)
	switch strings.ToLower(fields[0]) {
	case "/help":
		return Reply{Kind: KindHelp}
	case "/exit", "/quit":
		return Reply{Kind: KindExit}
	case "/reset":
		h.session.Reset()
		return Reply{Kind: KindCommand, Text: "Memory cleared."}
	case "/tools":
		return Reply{Kind: KindTools, Catalog: h.tools.Catalog(ctx)}
	case "/logs":
		return h.logs(fields[1:])
	}
	return Reply{Kind: KindCommand, Text: fmt.Sprintf("Unknown command %s. Type /help for the list.", fields[0])}
}

func (h *Host) logs(args []string) Reply {
	n := DefaultLogLines
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
			n = v
		}
	}
	if h.events == nil {
		return Reply{Kind: KindCommand, Text: "No logs yet."}
	}
	recs, err := h.events.Tail(n)
	if err != nil {
		return Reply{Kind: KindCommand, Text: "Cannot read logs: " + err.Error()}
	}
	if len(recs) == 0 {
		return Reply{Kind: KindCommand, Text: "No logs yet."}
	}
	return Reply{Kind: KindLogs, Logs: recs}
}
