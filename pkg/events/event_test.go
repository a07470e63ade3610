package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshal(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	in := BaseEvent{
		Type:       ShiftStarted,
		Data:       map[string]interface{}{"organization_id": "org-1", "shift_id": "s-1"},
		OccurredAt: at,
	}

	raw, err := Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SHIFT_STARTED","occurred_at":"2026-03-02T09:00:00Z","data":{"organization_id":"org-1","shift_id":"s-1"}}`, string(raw))

	out, err := Unmarshal(Subject(ShiftStarted), raw)
	require.NoError(t, err)
	assert.Equal(t, ShiftStarted, out.EventType())
	assert.True(t, at.Equal(out.Timestamp()))
	assert.Equal(t, "org-1", OrganizationID(out))
}

func TestUnmarshalBarePayload(t *testing.T) {
	out, err := Unmarshal("events.TICKET_CREATED", []byte(`{"organization_id":"org-2","title":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, TicketCreated, out.Type)
	assert.Equal(t, "x", out.Data["title"])
	assert.False(t, out.OccurredAt.IsZero())
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal("events.X", []byte(`nope`))
	assert.Error(t, err)
}

func TestSubjectHelpers(t *testing.T) {
	assert.Equal(t, "events.SHIFT_ENDED", Subject(ShiftEnded))
	assert.Equal(t, ShiftEnded, TypeFromSubject("events.SHIFT_ENDED"))
	assert.Equal(t, "", OrganizationID(New(TicketCreated, nil)))
}
