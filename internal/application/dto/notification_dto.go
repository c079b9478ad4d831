package dto

import "time"

// NotificationResponse aviso persistido.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse lista paginada de avisos.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Page   PageResponse           `json:"page"`
	Unread int                    `json:"unread"`
}

// AlertResponse aviso derivado del estado actual.
type AlertResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertListResponse avisos ordenados del más reciente al más antiguo.
type AlertListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Counts map[string]int  `json:"counts"`
}
