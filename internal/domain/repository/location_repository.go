package repository

import "github.com/jhoicas/restock-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	// ListActive devuelve las ubicaciones activas ordenadas por nombre.
	ListActive() ([]*entity.Location, error)
	List(limit, offset int) ([]*entity.Location, error)
	Delete(id string) error
}
