package repository

import "github.com/jhoicas/restock-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	CreateBatch(items []*entity.Item) error
	GetByID(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	ListByRun(runID string) ([]*entity.Item, error)
	// ListByWorkItem devuelve todos los items enlazados alguna vez a un work
	// item, del más reciente al más antiguo. Base del agregado de cantidades.
	ListByWorkItem(workItemID string) ([]*entity.Item, error)
	// GetForUpdate bloquea la fila del item (SELECT FOR UPDATE). Guarda de
	// exclusión por item alrededor del check-then-act de la transferencia.
	GetForUpdate(id string) (*entity.Item, error)
}
