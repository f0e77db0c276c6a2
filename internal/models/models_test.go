package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	ts := time.Date(2019, 12, 31, 22, 5, 13, 0, time.UTC)
	msg := NewMessage("alice", ts, "hi")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "alice", msg.Sender)
	assert.Equal(t, "2019-12-31", msg.Date)
	assert.Equal(t, "22:05:13", msg.Time)
	assert.Equal(t, "hi", msg.Content)
	assert.True(t, ts.Equal(msg.DateTime))

	other := NewMessage("alice", ts, "hi")
	assert.NotEqual(t, msg.ID, other.ID)
}

func TestConversation_AddMessage(t *testing.T) {
	base := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	conv := NewConversation("chat")

	conv.AddMessage(NewMessage("bob", base, "hey"))
	conv.AddMessage(NewMessage("alice", base.Add(time.Minute), "hi"))
	conv.AddMessage(NewMessage("bob", base.Add(2*time.Minute), "how are you"))

	require.Len(t, conv.Messages, 3)
	assert.Equal(t, []string{"bob", "alice"}, conv.Senders)
	assert.True(t, conv.HasSender("alice"))
	assert.False(t, conv.HasSender("carol"))

	first, last := conv.Period()
	assert.True(t, base.Equal(first))
	assert.True(t, base.Add(2*time.Minute).Equal(last))
}

func TestConversation_PeriodEmpty(t *testing.T) {
	first, last := (&Conversation{}).Period()
	assert.True(t, first.IsZero())
	assert.True(t, last.IsZero())
}
