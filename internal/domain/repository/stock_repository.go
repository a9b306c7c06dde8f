package repository

import "github.com/jhoicas/restock-api/internal/domain/entity"

// StockLocationRepository puerto de bodegas locales.
type StockLocationRepository interface {
	GetByID(id string) (*entity.StockLocation, error)
	// GetDefaultInternal devuelve la bodega interna por defecto, origen de
	// respaldo cuando la configuración no define una. (nil, nil) si no hay.
	GetDefaultInternal() (*entity.StockLocation, error)
	List() ([]*entity.StockLocation, error)
}

// StockRepository puerto de stock por producto+bodega, usado dentro de
// transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID, locationID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, locationID string) (*entity.Stock, error)
}

// MovementRepository puerto de movimientos de stock.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	Update(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
}
