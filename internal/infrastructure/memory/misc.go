package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// NotificationRepo notificaciones en memoria.
type NotificationRepo struct{ base }

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	defer r.lock()()
	r.db().notifications[n.ID] = shallow(n)
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, onlyUnread bool, page repository.Page) ([]*entity.Notification, int, error) {
	defer r.lock()()
	var out []*entity.Notification
	for _, n := range r.db().notifications {
		if n.UserID != userID || (onlyUnread && n.Read) {
			continue
		}
		out = append(out, n)
	}
	newestFirst(out, func(n *entity.Notification) (time.Time, string) { return n.CreatedAt, n.ID })
	total := len(out)
	res := paginate(out, page)
	for i, n := range res {
		res[i] = shallow(n)
	}
	return res, total, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (*entity.Notification, error) {
	defer r.lock()()
	n, ok := r.db().notifications[id]
	if !ok || n.UserID != userID {
		return nil, nil
	}
	n.Read = true
	return shallow(n), nil
}

// SettingsRepo configuración en memoria, indexada por tienda y clave.
type SettingsRepo struct{ base }

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

func settingKey(shopID, key string) string { return shopID + "\x00" + key }

// Upsert conserva el ID y la fecha de creación de un valor existente.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.Setting) error {
	defer r.lock()()
	d := r.db()
	k := settingKey(s.ShopID, s.Key)
	if prev, ok := d.settings[k]; ok {
		s.ID = prev.ID
		s.CreatedAt = prev.CreatedAt
	}
	d.settings[k] = cloneSetting(s)
	return nil
}

func (r *SettingsRepo) Get(ctx context.Context, shopID, key string) (*entity.Setting, error) {
	defer r.lock()()
	if s, ok := r.db().settings[settingKey(shopID, key)]; ok {
		return cloneSetting(s), nil
	}
	return nil, nil
}

func (r *SettingsRepo) ListByShop(ctx context.Context, shopID string) ([]*entity.Setting, error) {
	defer r.lock()()
	var out []*entity.Setting
	for _, s := range r.db().settings {
		if s.ShopID == shopID {
			out = append(out, cloneSetting(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *SettingsRepo) Delete(ctx context.Context, shopID, key string) error {
	defer r.lock()()
	d := r.db()
	k := settingKey(shopID, key)
	if _, ok := d.settings[k]; !ok {
		return domain.ErrNotFound
	}
	delete(d.settings, k)
	return nil
}
