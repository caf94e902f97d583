package stream

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, raw string) []serverEvent {
	t.Helper()
	var events []serverEvent
	err := readEvents(strings.NewReader(raw), func(ev serverEvent) {
		events = append(events, ev)
	})
	require.ErrorIs(t, err, io.EOF)
	return events
}

func TestReadEventsSingleFrame(t *testing.T) {
	events := collectEvents(t, "event: notification\ndata: {\"id\":\"n1\"}\n\n")

	require.Len(t, events, 1)
	assert.Equal(t, "notification", events[0].name)
	assert.Equal(t, `{"id":"n1"}`, events[0].data)
}

func TestReadEventsMultiLineData(t *testing.T) {
	events := collectEvents(t, "data: first\ndata: second\n\n")

	require.Len(t, events, 1)
	assert.Equal(t, "", events[0].name)
	assert.Equal(t, "first\nsecond", events[0].data)
}

func TestReadEventsSkipsCommentsAndUnknownFields(t *testing.T) {
	raw := ": heartbeat\n" +
		"id: 42\n" +
		"retry: 3000\n" +
		"event: connected\n" +
		"data: {}\n" +
		"\n"
	events := collectEvents(t, raw)

	require.Len(t, events, 1)
	assert.Equal(t, "connected", events[0].name)
	assert.Equal(t, "{}", events[0].data)
}

func TestReadEventsMultipleFrames(t *testing.T) {
	raw := "event: connected\ndata: ok\n\n" +
		"event: notification\ndata: one\n\n" +
		"event: notification\ndata: two\n\n"
	events := collectEvents(t, raw)

	require.Len(t, events, 3)
	assert.Equal(t, "one", events[1].data)
	assert.Equal(t, "two", events[2].data)
}

func TestReadEventsIgnoresTrailingPartialFrame(t *testing.T) {
	// A frame never terminated by a blank line is not dispatched.
	events := collectEvents(t, "event: notification\ndata: dangling")

	assert.Empty(t, events)
}

func TestReadEventsValueWithoutSpace(t *testing.T) {
	events := collectEvents(t, "data:compact\n\n")

	require.Len(t, events, 1)
	assert.Equal(t, "compact", events[0].data)
}
