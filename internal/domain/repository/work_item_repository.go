package repository

import "github.com/jhoicas/restock-api/internal/domain/entity"

// WorkItemKey clave natural para buscar work items abiertos durante la
// conciliación. Gana el primer criterio con datos, en este orden:
// ubicación+producto+variante, ubicación+producto, SKU, títulos.
type WorkItemKey struct {
	LocationID   *string
	ProductGID   string
	VariantGID   string
	SKU          string
	ProductTitle string
	VariantTitle string
}

// WorkItemRepository puerto del colaborador de seguimiento de trabajo.
type WorkItemRepository interface {
	Create(item *entity.WorkItem) error
	GetByID(id string) (*entity.WorkItem, error)
	// UpdateDisplay reescribe título y descripción (usado en el merge).
	UpdateDisplay(id, title, description string) error
	// UpdateStatus cambia el status code del work item.
	UpdateStatus(id, statusCode string) error
	// SearchByKey devuelve los work items del proyecto que coinciden con el
	// primer criterio con datos de la clave, del más reciente al más antiguo.
	// El llamador descarta los que ya están en estado done.
	SearchByKey(projectID string, key WorkItemKey) ([]*entity.WorkItem, error)
	// Subscribe añade un observador al work item.
	Subscribe(workItemID, userID string) error
}
