package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/restock-api/internal/domain"
)

// Usos de una bodega local.
const (
	LocationUsageInternal = "internal"
	LocationUsageView     = "view"
)

// StockLocation bodega local de inventario (origen o destino de transferencias).
type StockLocation struct {
	ID        string
	Name      string
	Usage     string // solo "internal" puede participar en transferencias
	IsDefault bool   // bodega interna por defecto (origen de respaldo)
	CreatedAt time.Time
}

// Stock cantidad disponible de un producto en una bodega.
type Stock struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// Estados del ciclo de vida de un movimiento de stock.
const (
	MovementStateDraft     = "draft"
	MovementStateConfirmed = "confirmed"
	MovementStateAssigned  = "assigned" // cantidad reservada en origen
	MovementStateDone      = "done"
)

// StockMovement un movimiento de inventario entre dos bodegas, con ciclo
// confirmar -> reservar -> fijar cantidad hecha -> finalizar. Las transiciones
// fuera de orden devuelven ErrInvalidMovement (desde el paquete domain).
type StockMovement struct {
	ID            string
	TransactionID string // agrupa los registros de una misma transferencia
	ProductID     string
	SourceID      string
	DestID        string
	Quantity      decimal.Decimal
	DoneQty       decimal.Decimal
	State         string
	Reference     string // ej. id del item de restock que lo originó
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}

// Confirm pasa el movimiento de draft a confirmed.
func (m *StockMovement) Confirm() error {
	if m.State != MovementStateDraft {
		return domain.ErrInvalidMovement
	}
	m.State = MovementStateConfirmed
	return nil
}

// Reserve reserva la cantidad en la bodega origen (confirmed -> assigned).
func (m *StockMovement) Reserve() error {
	if m.State != MovementStateConfirmed {
		return domain.ErrInvalidMovement
	}
	m.State = MovementStateAssigned
	return nil
}

// SetDoneQuantity fija la cantidad efectivamente movida a nivel de línea.
// Es la vía de respaldo cuando no se soporta fijar cantidad directamente.
func (m *StockMovement) SetDoneQuantity(qty decimal.Decimal) error {
	if m.State != MovementStateAssigned {
		return domain.ErrInvalidMovement
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidMovement
	}
	m.DoneQty = qty
	return nil
}

// Finalize cierra el movimiento (assigned -> done). Requiere DoneQty fijada.
func (m *StockMovement) Finalize() error {
	if m.State != MovementStateAssigned || m.DoneQty.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidMovement
	}
	m.State = MovementStateDone
	return nil
}
