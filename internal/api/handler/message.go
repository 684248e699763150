package handler

import (
	"net/http"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/service"
)

// MessageHandler handles intake messaging endpoints. List and Send serve the
// client portal; MarkRead and UnreadCount are staff operations gated by the
// admin session in the router.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List returns the full thread for ?intakeId=, oldest first.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.messages.List(r.Context(), r.URL.Query().Get("intakeId"))
	if err != nil {
		handleError(w, err)
		return
	}

	if msgs == nil {
		msgs = []*domain.ProjectMessage{}
	}
	respondJSON(w, http.StatusOK, msgs)
}

// Send appends a message to a thread.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	msg, err := h.messages.Send(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// MarkRead bulk-stamps unread client messages in a thread as read.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req domain.MarkReadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	updated, err := h.messages.MarkRead(r.Context(), req.IntakeID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

// UnreadCount returns the global count of unread client messages. Polled by
// the staff UI to drive the unread badge.
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.messages.UnreadCount(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &domain.UnreadCountResponse{Count: count})
}
