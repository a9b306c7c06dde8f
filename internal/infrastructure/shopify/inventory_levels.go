package shopify

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Verificación en tiempo de compilación del puerto de inventario.
var _ restock.InventoryGateway = (*Client)(nil)

// chunkSize ids de inventory item por request, límite del endpoint REST.
const chunkSize = 50

type inventoryLevelsPayload struct {
	InventoryLevels []struct {
		InventoryItemID int64 `json:"inventory_item_id"`
		LocationID      int64 `json:"location_id"`
		Available       *int  `json:"available"`
	} `json:"inventory_levels"`
}

// FetchLevels consulta los niveles por lotes de 50 ids y devuelve el mapa
// id-numérico -> disponible en la ubicación del run. Los niveles de otras
// ubicaciones llegan en la misma respuesta y se descartan. Entrada vacía
// devuelve mapa vacío sin llamada de red.
func (c *Client) FetchLevels(ctx context.Context, settings *entity.Settings, inventoryItemGIDs []string) (map[string]int, error) {
	levels := make(map[string]int)
	if len(inventoryItemGIDs) == 0 {
		return levels, nil
	}

	for start := 0; start < len(inventoryItemGIDs); start += chunkSize {
		end := start + chunkSize
		if end > len(inventoryItemGIDs) {
			end = len(inventoryItemGIDs)
		}
		numericIDs := make([]string, 0, end-start)
		for _, gid := range inventoryItemGIDs[start:end] {
			parts := strings.Split(gid, "/")
			numericIDs = append(numericIDs, parts[len(parts)-1])
		}

		url := fmt.Sprintf(
			"https://%s/admin/api/%s/inventory_levels.json?inventory_item_ids=%s&limit=250",
			settings.StoreDomain, settings.APIVersion, strings.Join(numericIDs, ","),
		)
		var payload inventoryLevelsPayload
		if err := c.getJSON(ctx, settings, url, &payload); err != nil {
			return nil, err
		}

		for _, level := range payload.InventoryLevels {
			if fmt.Sprintf("%d", level.LocationID) != settings.LocationIDNumeric {
				continue
			}
			available := 0
			if level.Available != nil {
				available = *level.Available
			}
			levels[fmt.Sprintf("%d", level.InventoryItemID)] = available
		}
	}
	return levels, nil
}
