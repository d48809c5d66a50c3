// Package transport defines the notification API shapes.
package transport

import (
	"time"

	"cleardoor_backend/internal/notification/repository"
)

type NotificationResponse struct {
	ID            string  `json:"id"`
	LeadID        *string `json:"leadId,omitempty"`
	Type          string  `json:"type"`
	Message       string  `json:"message"`
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	IsRead        bool    `json:"isRead"`
	CreatedAt     string  `json:"createdAt"`
}

func NewNotificationResponse(n repository.Notification) NotificationResponse {
	out := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.LeadID != nil {
		id := n.LeadID.String()
		out.LeadID = &id
	}
	if n.ScheduledDate != nil {
		date := n.ScheduledDate.Format("2006-01-02")
		out.ScheduledDate = &date
	}
	return out
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
