package repository

import "github.com/jhoicas/restock-api/internal/domain/entity"

// ProductRepository define el puerto del registro local de productos (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetBySKU resuelve el producto local al ejecutar una transferencia.
	// Devuelve (nil, nil) si el SKU no existe en el registro.
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
