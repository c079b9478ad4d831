package entity

import (
	"encoding/json"
	"time"
)

// Setting par clave/valor por tienda. ShopID vacío = ajuste global.
type Setting struct {
	ID        string
	ShopID    string
	Key       string
	Value     json.RawMessage
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
