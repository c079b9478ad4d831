// Package memory implementa los repositorios sobre mapas en memoria (STORAGE_DRIVER=memory).
// Sirve para desarrollo local y para las pruebas de casos de uso y de la API completa.
//
// Un único mutex protege todo el almacén. Run lo mantiene tomado durante la función
// transaccional y restaura una copia del estado si la función devuelve error.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// Store almacén en memoria. Los valores se copian al entrar y al salir.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

type dataset struct {
	users         map[string]*entity.User
	shops         map[string]*entity.Shop
	products      map[string]*entity.Product
	categories    map[string]*entity.Category
	reviews       map[string]*entity.Review
	supplies      map[string]*entity.Supply
	transactions  map[string]*entity.InventoryTransaction
	sales         map[string]*entity.Sale
	invoices      map[string]*entity.Invoice
	orders        map[string]*entity.Order
	notifications map[string]*entity.Notification
	settings      map[string]*entity.Setting
	counters      map[string]int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: &dataset{
		users:         map[string]*entity.User{},
		shops:         map[string]*entity.Shop{},
		products:      map[string]*entity.Product{},
		categories:    map[string]*entity.Category{},
		reviews:       map[string]*entity.Review{},
		supplies:      map[string]*entity.Supply{},
		transactions:  map[string]*entity.InventoryTransaction{},
		sales:         map[string]*entity.Sale{},
		invoices:      map[string]*entity.Invoice{},
		orders:        map[string]*entity.Order{},
		notifications: map[string]*entity.Notification{},
		settings:      map[string]*entity.Setting{},
		counters:      map[string]int64{},
	}}
}

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn con repositorios atados a una "transacción": el almacén queda bloqueado
// hasta que fn termina y, si devuelve error, se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	b := base{s: s, inTx: true}
	err := fn(inventory.TxRepos{
		Products:     &ProductRepo{b},
		Transactions: &InventoryTransactionRepo{b},
		Supplies:     &SupplyRepo{b},
		Sales:        &SaleRepo{b},
		Invoices:     &InvoiceRepo{b},
		Counters:     &CounterRepo{b},
		Shops:        &ShopRepo{b},
	})
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repositories repositorios fuera de transacción.
type Repositories struct {
	Users         *UserRepo
	Shops         *ShopRepo
	Products      *ProductRepo
	Categories    *CategoryRepo
	Reviews       *ReviewRepo
	Supplies      *SupplyRepo
	Transactions  *InventoryTransactionRepo
	Sales         *SaleRepo
	Invoices      *InvoiceRepo
	Counters      *CounterRepo
	Orders        *OrderRepo
	Notifications *NotificationRepo
	Settings      *SettingsRepo
	Reports       *ReportRepo
}

// Repos construye todos los repositorios sobre el almacén.
func (s *Store) Repos() Repositories {
	b := base{s: s}
	return Repositories{
		Users:         &UserRepo{b},
		Shops:         &ShopRepo{b},
		Products:      &ProductRepo{b},
		Categories:    &CategoryRepo{b},
		Reviews:       &ReviewRepo{b},
		Supplies:      &SupplyRepo{b},
		Transactions:  &InventoryTransactionRepo{b},
		Sales:         &SaleRepo{b},
		Invoices:      &InvoiceRepo{b},
		Counters:      &CounterRepo{b},
		Orders:        &OrderRepo{b},
		Notifications: &NotificationRepo{b},
		Settings:      &SettingsRepo{b},
		Reports:       &ReportRepo{b},
	}
}

// base comparte el almacén entre repositorios. Dentro de Run el mutex ya está tomado.
type base struct {
	s    *Store
	inTx bool
}

func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

func (b base) db() *dataset { return b.s.data }

func (d *dataset) clone() *dataset {
	counters := make(map[string]int64, len(d.counters))
	for k, v := range d.counters {
		counters[k] = v
	}
	return &dataset{
		users:         cloneMap(d.users, cloneUser),
		shops:         cloneMap(d.shops, cloneShop),
		products:      cloneMap(d.products, cloneProduct),
		categories:    cloneMap(d.categories, shallow[entity.Category]),
		reviews:       cloneMap(d.reviews, shallow[entity.Review]),
		supplies:      cloneMap(d.supplies, cloneSupply),
		transactions:  cloneMap(d.transactions, shallow[entity.InventoryTransaction]),
		sales:         cloneMap(d.sales, cloneSale),
		invoices:      cloneMap(d.invoices, cloneInvoice),
		orders:        cloneMap(d.orders, cloneOrder),
		notifications: cloneMap(d.notifications, shallow[entity.Notification]),
		settings:      cloneMap(d.settings, cloneSetting),
		counters:      counters,
	}
}

func cloneMap[T any](m map[string]*T, c func(*T) *T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		out[k] = c(v)
	}
	return out
}

func shallow[T any](v *T) *T {
	c := *v
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Permissions = append([]string(nil), u.Permissions...)
	return &c
}

func cloneShop(s *entity.Shop) *entity.Shop {
	c := *s
	c.ApprovedAt = cloneTime(s.ApprovedAt)
	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	return &c
}

func cloneSupply(s *entity.Supply) *entity.Supply {
	c := *s
	c.Items = append([]entity.SupplyItem(nil), s.Items...)
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.LineItem(nil), s.Items...)
	return &c
}

func cloneInvoice(i *entity.Invoice) *entity.Invoice {
	c := *i
	c.Items = append([]entity.LineItem(nil), i.Items...)
	c.DueDate = cloneTime(i.DueDate)
	c.PaidAt = cloneTime(i.PaidAt)
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	return &c
}

func cloneSetting(s *entity.Setting) *entity.Setting {
	c := *s
	c.Value = append([]byte(nil), s.Value...)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// paginate aplica offset y limit; limit 0 = sin límite.
func paginate[T any](items []T, p repository.Page) []T {
	if p.Offset >= len(items) {
		return items[:0]
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// newestFirst ordena por fecha de creación descendente con el id como desempate.
func newestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}
