package domain

import (
	"fmt"
	"strings"
	"time"
)

// SenderType identifies which side of an intake conversation authored a message.
type SenderType string

const (
	SenderClient SenderType = "CLIENT"
	SenderAdmin  SenderType = "ADMIN"
)

// ParseSenderType validates a sender type tag.
func ParseSenderType(s string) (SenderType, error) {
	switch st := SenderType(strings.ToUpper(strings.TrimSpace(s))); st {
	case SenderClient, SenderAdmin:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown sender type %q", ErrInvalidInput, s)
	}
}

// ProjectMessage is one message in a client intake thread. Messages are
// totally ordered by creation time; ReadAt is stamped once, in bulk, when
// staff view a thread, and only on CLIENT-authored messages.
type ProjectMessage struct {
	ID          string     `json:"id" db:"id"`
	IntakeID    string     `json:"intake_id" db:"intake_id"`
	Content     string     `json:"content" db:"content"`
	SenderType  SenderType `json:"sender_type" db:"sender_type"`
	SenderName  string     `json:"sender_name" db:"sender_name"`
	SenderEmail string     `json:"sender_email" db:"sender_email"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
}

// SendMessageRequest is the request body for appending a message to a thread.
type SendMessageRequest struct {
	IntakeID    string `json:"intake_id"`
	Content     string `json:"content"`
	SenderType  string `json:"sender_type"`
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email"`
}

// MarkReadRequest is the request body for the bulk mark-read operation.
type MarkReadRequest struct {
	IntakeID string `json:"intake_id"`
}

// UnreadCountResponse carries the global unread badge count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
