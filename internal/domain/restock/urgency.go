package restock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Urgency clasifica la severidad de una alerta según la razón stock/umbral:
// high si el stock es exactamente cero, medium si está por debajo de la mitad
// del umbral, low en el resto.
func Urgency(currentQty int, threshold decimal.Decimal) string {
	if currentQty == 0 {
		return entity.UrgencyHigh
	}
	half := threshold.Div(decimal.NewFromInt(2))
	if decimal.NewFromInt(int64(currentQty)).LessThan(half) {
		return entity.UrgencyMedium
	}
	return entity.UrgencyLow
}

// NeedsRestock decide si se genera alerta: requiere umbral definido y distinto
// de cero, y cantidad actual estrictamente por debajo del umbral.
func NeedsRestock(currentQty int, threshold *decimal.Decimal) bool {
	if threshold == nil || threshold.IsZero() {
		return false
	}
	return decimal.NewFromInt(int64(currentQty)).LessThan(*threshold)
}

// RecommendedOrder cantidad recomendada de pedido: objetivo menos stock actual
// si hay objetivo definido y no nulo, 0 en caso contrario. El valor puede ser
// 0 o negativo legítimamente; aquí no se aplica piso.
func RecommendedOrder(currentQty int, target *decimal.Decimal) int {
	if target == nil || target.IsZero() {
		return 0
	}
	return int(target.Sub(decimal.NewFromInt(int64(currentQty))).IntPart())
}
