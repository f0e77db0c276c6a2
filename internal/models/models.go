package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the calendar date format stored in Message.Date
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day format stored in Message.Time
	TimeLayout = "15:04:05"
)

// Message represents a single chat line sent by one participant
type Message struct {
	ID       string    `json:"id"`
	Sender   string    `json:"sender"`
	DateTime time.Time `json:"date_time"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Content  string    `json:"content"`
}

// NewMessage creates a message with a fresh ID and the date/time fields derived from ts
func NewMessage(sender string, ts time.Time, content string) *Message {
	return &Message{
		ID:       uuid.New().String(),
		Sender:   sender,
		DateTime: ts,
		Date:     ts.Format(DateLayout),
		Time:     ts.Format(TimeLayout),
		Content:  content,
	}
}

// Conversation represents an imported chat log between a root participant and its contacts.
// Messages are kept in ascending DateTime order.
type Conversation struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Senders   []string   `json:"senders"`
	Messages  []*Message `json:"messages,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewConversation creates an empty conversation with a fresh ID
func NewConversation(name string) *Conversation {
	return &Conversation{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// AddMessage appends a message and records its sender the first time it is seen
func (c *Conversation) AddMessage(msg *Message) {
	if !c.HasSender(msg.Sender) {
		c.Senders = append(c.Senders, msg.Sender)
	}
	c.Messages = append(c.Messages, msg)
}

// HasSender reports whether name is one of the conversation participants
func (c *Conversation) HasSender(name string) bool {
	for _, s := range c.Senders {
		if s == name {
			return true
		}
	}
	return false
}

// Period returns the timestamps of the first and last message
func (c *Conversation) Period() (time.Time, time.Time) {
	if len(c.Messages) == 0 {
		return time.Time{}, time.Time{}
	}
	return c.Messages[0].DateTime, c.Messages[len(c.Messages)-1].DateTime
}
