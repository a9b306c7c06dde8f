package restock

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/restock"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// Claves de metafield que gobiernan la evaluación (namespace "custom").
const (
	metafieldRestockLevel = "restock_level"
	metafieldDesiredLevel = "desired_inventory_level"
)

// Evaluator computa, por variante en alcance, el umbral efectivo (override de
// variante con fallback al producto), déficit y urgencia, y produce las
// alertas del run en orden de catálogo.
type Evaluator struct {
	log *logger.Logger
}

// NewEvaluator construye el evaluador.
func NewEvaluator(log *logger.Logger) *Evaluator {
	return &Evaluator{log: log}
}

// Evaluate recorre los productos en alcance con el mapa de niveles de
// inventario y devuelve las alertas generadas.
func (e *Evaluator) Evaluate(
	settings *entity.Settings,
	products []entity.CatalogProduct,
	levels map[string]int,
	now time.Time,
) []dto.AlertItemDTO {
	reportDate := now.Format("2006-01-02")
	storeShort := strings.TrimSuffix(settings.StoreDomain, ".myshopify.com")

	var alerts []dto.AlertItemDTO
	for i := range products {
		product := &products[i]
		productThreshold := restock.NumericMetafield(product.Metafields, metafieldRestockLevel)
		productTarget := restock.NumericMetafield(product.Metafields, metafieldDesiredLevel)

		for j := range product.Variants {
			variant := &product.Variants[j]

			threshold := restock.NumericMetafield(variant.Metafields, metafieldRestockLevel)
			if threshold == nil {
				threshold = productThreshold
			}
			target := restock.NumericMetafield(variant.Metafields, metafieldDesiredLevel)
			if target == nil {
				target = productTarget
			}

			qty := levels[numericGID(variant.InventoryItemGID)]

			if !restock.NeedsRestock(qty, threshold) {
				continue
			}
			amount := restock.RecommendedOrder(qty, target)
			urgency := restock.Urgency(qty, *threshold)

			displayTitle := product.Title
			if variant.Title != "" && variant.Title != "Default Title" {
				displayTitle += " - " + variant.Title
			}
			uniqueID := fmt.Sprintf("restock-%s-%s-%s", product.GID, variant.GID, reportDate)

			productURL := fmt.Sprintf("https://%s.com/products/%s", storeShort, product.Handle)
			if variant.Title != "" && variant.Title != "Default Title" {
				productURL += "?variant=" + numericGID(variant.GID)
			}

			alerts = append(alerts, dto.AlertItemDTO{
				ID:    uniqueID,
				Title: "RESTOCK ALERT: " + displayTitle,
				Description: fmt.Sprintf(
					"Product: %s\nVariant: %s\nSKU: %s\nCurrent Stock: %d units\n"+
						"Restock Level: %s units\nRecommended Order: %d units\nGenerated: %s",
					product.Title, variant.Title, variant.SKU, qty,
					threshold.String(), amount, now.Format(time.RFC3339),
				),
				Link:          productURL,
				GUID:          uniqueID,
				PubDate:       now,
				Category:      "inventory-alert",
				ProductTitle:  product.Title,
				VariantTitle:  variant.Title,
				SKU:           variant.SKU,
				ProductHandle: product.Handle,
				CurrentQty:    qty,
				RestockLevel:  int(threshold.IntPart()),
				RestockAmount: amount,
				ProductGID:    product.GID,
				VariantGID:    variant.GID,
				Urgency:       urgency,
			})
		}
	}

	e.log.Debug().Int("alertas", len(alerts)).Int("productos", len(products)).Msg("evaluación de restock completa")
	return alerts
}

// numericGID devuelve el último segmento de un id global
// (gid://shopify/InventoryItem/123 -> 123).
func numericGID(gid string) string {
	if gid == "" {
		return ""
	}
	parts := strings.Split(gid, "/")
	return parts[len(parts)-1]
}

// CollectInventoryItemGIDs junta los ids de inventory item de todas las
// variantes, en orden de catálogo.
func CollectInventoryItemGIDs(products []entity.CatalogProduct) []string {
	var ids []string
	for i := range products {
		for j := range products[i].Variants {
			if gid := products[i].Variants[j].InventoryItemGID; gid != "" {
				ids = append(ids, gid)
			}
		}
	}
	return ids
}
