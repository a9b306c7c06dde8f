package entity

import (
	"strings"
	"time"
)

// Location mapea una ubicación de stock de Shopify (id global + numérico) con
// una bodega local opcional usada como destino de las transferencias.
// Puede llevar su propia configuración de webhook, que prevalece sobre la global.
type Location struct {
	ID                string
	Name              string
	LocationIDGlobal  string // gid://shopify/Location/123456789
	LocationIDNumeric string // 123456789; si está vacío se deriva del global
	Active            bool
	WebhookEnabled    bool
	WebhookURL        string
	DestLocationID    string // bodega local destino (opcional)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NumericID devuelve el id numérico; si no está definido, lo deriva del último
// segmento del id global (gid://shopify/Location/123 -> 123).
func (l *Location) NumericID() string {
	if l.LocationIDNumeric != "" {
		return l.LocationIDNumeric
	}
	gid := strings.TrimSpace(l.LocationIDGlobal)
	if gid == "" {
		return ""
	}
	parts := strings.Split(gid, "/")
	return parts[len(parts)-1]
}

// IsFulfillment reporta si el nombre marca la ubicación como centro de
// fulfillment ("fulfil"/"fulfill"). Estas ubicaciones exigen publicación en
// Online Store y no requieren canal retail.
func (l *Location) IsFulfillment() bool {
	name := strings.ToLower(strings.TrimSpace(l.Name))
	return strings.Contains(name, "fulfil") || strings.Contains(name, "fulfill")
}

// IsRetail reporta si el nombre marca la ubicación como retail. Una ubicación
// fulfillment nunca cuenta como retail aunque el nombre contenga ambas marcas.
func (l *Location) IsRetail() bool {
	if l.IsFulfillment() {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(l.Name))
	return strings.Contains(name, "retail")
}
