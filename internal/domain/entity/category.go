package entity

import "time"

// Category agrupa productos de una tienda. Nombre y slug son únicos por tienda.
type Category struct {
	ID          string
	ShopID      string
	Name        string
	Slug        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
