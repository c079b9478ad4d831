package entity

import "time"

// Tipos de notificación persistida.
const (
	NotificationShopPending  = "shop_pending"
	NotificationShopApproved = "shop_approved"
	NotificationShopRejected = "shop_rejected"
	NotificationOrderCreated = "order_created"
	NotificationOrderStatus  = "order_status"
	NotificationInventoryLow = "inventory_low"
)

// Notification aviso persistido dirigido a un usuario.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Link      string
	Read      bool
	CreatedAt time.Time
}
