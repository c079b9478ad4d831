package dto

import (
	"encoding/json"
	"time"
)

// UpsertSettingRequest valor JSON arbitrario por clave.
type UpsertSettingRequest struct {
	ShopID string          `json:"shop_id" validate:"omitempty,uuid"`
	Key    string          `json:"key" validate:"required,min=1,max=100"`
	Value  json.RawMessage `json:"value" validate:"required"`
}

// SettingResponse ajuste guardado.
type SettingResponse struct {
	ShopID    string          `json:"shop_id,omitempty"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedBy string          `json:"updated_by"`
	UpdatedAt time.Time       `json:"updated_at"`
}
