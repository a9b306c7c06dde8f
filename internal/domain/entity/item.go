package entity

import "time"

// Niveles de urgencia de una alerta de restock.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Item una línea de alerta de restock para una variante dentro de un Run.
// Invariante: Transferred pasa de false a true como máximo una vez; una vez
// true, la transferencia de inventario no debe ejecutarse de nuevo jamás.
type Item struct {
	ID            string
	RunID         string
	ProductTitle  string
	VariantTitle  string
	SKU           string
	ProductHandle string
	ProductURL    string
	CurrentQty    int
	RestockLevel  int
	RestockAmount int // cantidad recomendada de pedido; puede ser 0 legítimamente
	Urgency       string
	ProductGID    string // id global de Shopify del producto
	VariantGID    string // id global de Shopify de la variante
	WorkItemID    *string

	// Seguimiento de la transferencia disparada al completar el work item.
	Transferred   bool
	TransferredAt *time.Time
	TransferredBy string
	TransferError string // último error tipado; se limpia al transferir con éxito

	CreatedAt time.Time
}

// DisplayTitle título para mostrar: producto más variante, salvo la variante
// por defecto de Shopify ("Default Title").
func (i *Item) DisplayTitle() string {
	title := i.ProductTitle
	if title == "" {
		title = "Restock Item"
	}
	if i.VariantTitle != "" && i.VariantTitle != "Default Title" {
		title += " - " + i.VariantTitle
	}
	return title
}

// NeededQty cantidad a transferir: el monto recomendado si es positivo, si no
// el déficit contra el umbral, con piso en 0.
func (i *Item) NeededQty() int {
	if i.RestockAmount > 0 {
		return i.RestockAmount
	}
	if deficit := i.RestockLevel - i.CurrentQty; deficit > 0 {
		return deficit
	}
	return 0
}
