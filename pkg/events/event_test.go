package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeKeepsTypeAndTime(t *testing.T) {
	in := New(ChatCompleted, map[string]interface{}{"passcode": "ABC123", "reply_chars": float64(12)})

	raw, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, ChatCompleted, out.EventType())
	assert.True(t, in.Timestamp().Equal(out.Timestamp()))
	assert.Equal(t, in.Payload(), out.Payload())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), New(PasscodeDeleted, nil)))
}
