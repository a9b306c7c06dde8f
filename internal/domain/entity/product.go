package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product registro del catálogo local, resuelto por SKU al ejecutar una
// transferencia. Es el espejo mínimo del producto de Shopify en este sistema.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Cost      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
