package eventlog_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"porterage/internal/adapters/out/eventlog"
	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Send(t *testing.T) {
	var buf bytes.Buffer
	sink := eventlog.NewSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	requester, _ := kernel.NewIdentity("A")
	porter, _ := kernel.NewIdentity("B")
	from, _ := kernel.NewLocation("10/F")
	to, _ := kernel.NewLocation("3/F")
	r, err := request.NewTransportRequest(kernel.NewUUID(), 2, from, to, request.Normal, requester, now)
	require.NoError(t, err)
	require.NoError(t, r.Transition(request.Waiting, request.PickedUp, porter, now))

	e := event.ForRequest(event.RequestPickedUp, r, porter, porter, now).NotifyingOthers(requester)
	require.NoError(t, sink.Send(t.Context(), e))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Request 2 picked up by B", line["msg"])
	assert.Equal(t, "event_log", line["component"])
	assert.Equal(t, "request_picked_up", line["kind"])
	assert.EqualValues(t, 2, line["request_id"])
	assert.Equal(t, "picked_up", line["status"])
	assert.Equal(t, []any{"A"}, line["notify"])
	assert.Equal(t, "log", sink.Name())
}
