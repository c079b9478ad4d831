package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en una venta.
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentMobile       = "mobile"
	PaymentBankTransfer = "bank_transfer"
)

// ValidPaymentMethod indica si el método de pago existe.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentBankTransfer:
		return true
	}
	return false
}

// Sale venta de mostrador, siempre liquidada al crearse.
type Sale struct {
	ID            string
	SaleNumber    string // SALE-NNNNNN
	ShopID        string
	CustomerName  string
	CustomerEmail string
	Items         []LineItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
