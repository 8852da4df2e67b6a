package http

import (
	"net/http"
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/notification"
	"github.com/cruisehub/reseller-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) NotificationHandler {
	return &NotificationHandlerImpl{notificationService: notificationService}
}

type notificationResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt string            `json:"created_at"`
}

// ListMine implements NotificationHandler.
func (h *NotificationHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.notificationService.ListByRecipient(r.Context(), actor.ProfileID, unreadOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, notificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}

	response.Success(w, result)
}

// MarkRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	notificationID := chi.URLParam(r, "id")
	if err := h.notificationService.MarkRead(r.Context(), notificationID, actor.ProfileID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", nil)
}
