package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación del puerto NotificationRepository.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, user_id, type, title, message, link, read, created_at`

func scanNotification(row pgxScanner) (*entity.Notification, error) {
	var n entity.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, onlyUnread bool, page repository.Page) ([]*entity.Notification, int, error) {
	var w where
	w.eq(userID, "user_id")
	if userID == "" {
		w.raw("FALSE")
	}
	if onlyUnread {
		w.raw("NOT read")
	}
	total, err := count(ctx, r.q, "notifications", &w)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + notificationColumns + ` FROM notifications` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

// MarkRead solo afecta notificaciones del propio usuario; ajena o inexistente → nil, nil.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (*entity.Notification, error) {
	if !validID(id) || !validID(userID) {
		return nil, nil
	}
	n, err := scanNotification(r.q.QueryRow(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING `+notificationColumns, id, userID))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación del puerto SettingsRepository. shop_id NULL = ajuste global.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

const settingColumns = `id, COALESCE(shop_id::text, ''), key, value, COALESCE(updated_by::text, ''), created_at, updated_at`

// shopMatch condición sobre shop_id que trata "" como ajuste global.
const shopMatch = `shop_id IS NOT DISTINCT FROM $1`

func scanSetting(row pgxScanner) (*entity.Setting, error) {
	var s entity.Setting
	if err := row.Scan(&s.ID, &s.ShopID, &s.Key, &s.Value, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert inserta o reemplaza el valor; un valor existente conserva su ID y fecha de creación,
// que se devuelven en s.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.Setting) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO settings (id, shop_id, key, value, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ((COALESCE(shop_id, '00000000-0000-0000-0000-000000000000'::uuid)), key)
		DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		s.ID, nullable(s.ShopID), s.Key, s.Value, nullable(s.UpdatedBy), s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%w: tienda inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Get(ctx context.Context, shopID, key string) (*entity.Setting, error) {
	if shopID != "" && !validID(shopID) {
		return nil, nil
	}
	s, err := scanSetting(r.q.QueryRow(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE `+shopMatch+` AND key = $2`, nullable(shopID), key))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return s, nil
}

func (r *SettingsRepo) ListByShop(ctx context.Context, shopID string) ([]*entity.Setting, error) {
	if shopID != "" && !validID(shopID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE `+shopMatch+` ORDER BY key`, nullable(shopID))
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SettingsRepo) Delete(ctx context.Context, shopID, key string) error {
	if shopID != "" && !validID(shopID) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM settings WHERE `+shopMatch+` AND key = $2`, nullable(shopID), key)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
