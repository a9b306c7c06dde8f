package repository

import "github.com/jhoicas/restock-api/internal/domain/entity"

// RunRepository define el puerto de persistencia para Run (DIP).
// El borrado de un Run elimina sus Items en cascada (FK en el esquema).
type RunRepository interface {
	Create(run *entity.Run) error
	GetByID(id string) (*entity.Run, error)
	// List devuelve runs ordenados del más reciente al más antiguo.
	List(limit, offset int) ([]*entity.Run, error)
	Delete(id string) error
}
