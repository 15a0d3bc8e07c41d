package domain

import "time"

type SessionID int64
type MessageID int64

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one persisted line of a support conversation.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Content   string
	Sender    Sender
	Timestamp time.Time
}

// Session groups the messages of one customer conversation.
type Session struct {
	ID        SessionID
	CreatedAt time.Time
	Summary   *string
}
