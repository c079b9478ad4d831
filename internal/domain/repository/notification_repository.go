package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, onlyUnread bool, page Page) ([]*entity.Notification, int, error)
	// MarkRead marca como leída si pertenece a userID. Devuelve nil, nil si no existe o es ajena.
	MarkRead(ctx context.Context, id, userID string) (*entity.Notification, error)
}
