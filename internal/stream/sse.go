package stream

import (
	"bufio"
	"io"
	"strings"
)

// serverEvent is one decoded frame from a text/event-stream body.
type serverEvent struct {
	name string
	data string
}

// readEvents decodes server-sent-event frames from r and invokes
// handle for each complete frame. It returns when the stream ends or
// the underlying reader fails; the read error (io.EOF included) is
// returned so the caller can distinguish orderly shutdown from a
// transport failure.
//
// Only the event and data fields are interpreted; comment lines and
// other fields (id, retry) are skipped. Multi-line data is joined with
// newlines, per the SSE wire format.
func readEvents(r io.Reader, handle func(serverEvent)) error {
	scanner := bufio.NewScanner(r)
	// Allow payloads larger than bufio's 64KB default line limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var name string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()

		// Blank line dispatches the accumulated frame.
		if line == "" {
			if len(data) > 0 || name != "" {
				handle(serverEvent{
					name: name,
					data: strings.Join(data, "\n"),
				})
			}
			name = ""
			data = nil
			continue
		}

		// Comment lines (heartbeats) start with a colon.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}
