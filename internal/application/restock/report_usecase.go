package restock

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// ReportUseCase genera el reporte plano de inventario: todas las variantes con
// cantidad distinta de cero en la ubicación, sin umbrales ni filtro de canal.
type ReportUseCase struct {
	settingsRepo repository.SettingsRepository
	catalog      CatalogGateway
	inventory    InventoryGateway
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	settingsRepo repository.SettingsRepository,
	catalog CatalogGateway,
	inventory InventoryGateway,
) *ReportUseCase {
	return &ReportUseCase{settingsRepo: settingsRepo, catalog: catalog, inventory: inventory}
}

// Generate valida la configuración y produce las filas ordenadas por
// (producto, variante, SKU).
func (uc *ReportUseCase) Generate(ctx context.Context, loc *entity.Location) (*dto.InventoryReportDTO, error) {
	base, err := uc.settingsRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	settings := base.Merged(loc)
	for _, req := range requiredSettings {
		if strings.TrimSpace(req.value(&settings)) == "" {
			return nil, domain.NewConfigError(req.key)
		}
	}

	products, err := uc.catalog.FetchAllProducts(ctx, &settings)
	if err != nil {
		return nil, err
	}
	levels, err := uc.inventory.FetchLevels(ctx, &settings, CollectInventoryItemGIDs(products))
	if err != nil {
		return nil, err
	}

	var rows []dto.ReportRowDTO
	for i := range products {
		for j := range products[i].Variants {
			v := &products[i].Variants[j]
			qty := levels[numericGID(v.InventoryItemGID)]
			if qty == 0 {
				continue
			}
			rows = append(rows, dto.ReportRowDTO{
				ProductTitle: products[i].Title,
				VariantTitle: v.Title,
				SKU:          v.SKU,
				Quantity:     qty,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductTitle != rows[j].ProductTitle {
			return rows[i].ProductTitle < rows[j].ProductTitle
		}
		if rows[i].VariantTitle != rows[j].VariantTitle {
			return rows[i].VariantTitle < rows[j].VariantTitle
		}
		return rows[i].SKU < rows[j].SKU
	})

	return &dto.InventoryReportDTO{
		Rows:              rows,
		RowCount:          len(rows),
		LocationIDNumeric: settings.LocationIDNumeric,
	}, nil
}
