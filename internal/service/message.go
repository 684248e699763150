package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/storage"
	"github.com/google/uuid"
)

// MessageService is the gateway over intake message threads: append, list,
// bulk mark-read, and the global unread badge count.
type MessageService struct {
	store storage.Storage
}

// NewMessageService creates a new MessageService.
func NewMessageService(store storage.Storage) *MessageService {
	return &MessageService{store: store}
}

// List returns the full thread for one intake, oldest first.
func (s *MessageService) List(ctx context.Context, intakeID string) ([]*domain.ProjectMessage, error) {
	if strings.TrimSpace(intakeID) == "" {
		return nil, fmt.Errorf("%w: intake_id is required", domain.ErrInvalidInput)
	}
	return s.store.ListMessages(ctx, intakeID)
}

// Send appends a new message to a thread. New messages are always unread.
func (s *MessageService) Send(ctx context.Context, req *domain.SendMessageRequest) (*domain.ProjectMessage, error) {
	if strings.TrimSpace(req.IntakeID) == "" {
		return nil, fmt.Errorf("%w: intake_id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.SenderEmail) == "" {
		return nil, fmt.Errorf("%w: sender_email is required", domain.ErrInvalidInput)
	}
	senderType, err := domain.ParseSenderType(req.SenderType)
	if err != nil {
		return nil, err
	}

	// UUIDv7 so the id tiebreak in the ORDER BY follows send order even
	// when two messages land on the same timestamp.
	msg := &domain.ProjectMessage{
		ID:          uuid.Must(uuid.NewV7()).String(),
		IntakeID:    req.IntakeID,
		Content:     req.Content,
		SenderType:  senderType,
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkRead stamps read_at on every unread client message in the thread.
// Repeated calls are no-ops; the returned count is the rows touched this call.
func (s *MessageService) MarkRead(ctx context.Context, intakeID string) (int64, error) {
	if strings.TrimSpace(intakeID) == "" {
		return 0, fmt.Errorf("%w: intake_id is required", domain.ErrInvalidInput)
	}
	return s.store.MarkMessagesRead(ctx, intakeID, time.Now())
}

// UnreadCount counts unread client messages across all intakes. Drives the
// polled staff badge; a stale read is fine, the next poll catches up.
func (s *MessageService) UnreadCount(ctx context.Context) (int, error) {
	return s.store.CountUnreadMessages(ctx)
}
