package entity

import "time"

// Review reseña de un producto; una por usuario y producto.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int // 1..5
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
