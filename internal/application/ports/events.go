package ports

import (
	"context"
	"time"
)

// Tipos de evento de dominio publicados tras confirmar la transacción.
const (
	EventShopCreated        = "shop.created"
	EventShopApproved       = "shop.approved"
	EventShopRejected       = "shop.rejected"
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventSaleCreated        = "sale.created"
	EventSupplyReceived     = "supply.received"
	EventInvoicePaid        = "invoice.paid"
	EventStockAdjusted      = "stock.adjusted"
)

// Event evento de dominio. Key agrupa los eventos de un mismo agregado (partición).
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	ShopID     string    `json:"shop_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher puerto de salida para eventos. La entrega es best-effort:
// un fallo del broker no revierte la operación que ya se confirmó.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher descarta los eventos (sin broker configurado y en tests).
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
