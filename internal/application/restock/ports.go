package restock

import (
	"context"

	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// CatalogGateway puerto del API de catálogo remoto (GraphQL paginado).
// Devuelve el grafo completo de productos sin filtrar.
type CatalogGateway interface {
	FetchAllProducts(ctx context.Context, settings *entity.Settings) ([]entity.CatalogProduct, error)
}

// InventoryGateway puerto del API remoto de niveles de inventario. Devuelve un
// mapa id-numérico-de-inventory-item -> cantidad disponible en la ubicación
// del run únicamente. Entrada vacía devuelve mapa vacío sin llamada de red.
type InventoryGateway interface {
	FetchLevels(ctx context.Context, settings *entity.Settings, inventoryItemGIDs []string) (map[string]int, error)
}

// Mailer puerto de notificación por correo HTML. Las fallas se tragan
// (se registran en el log); nunca hacen fallar el run.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// WebhookPayload cuerpo JSON publicado por cada alerta.
type WebhookPayload struct {
	Title  string `json:"title"`
	GUID   string `json:"guid"`
	Amount int    `json:"amount"`
}

// WebhookPoster puerto del webhook saliente. Un POST por alerta; las fallas
// por item se tragan y el run continúa.
type WebhookPoster interface {
	Post(ctx context.Context, url string, payload WebhookPayload) error
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad del check-then-act de la
// transferencia (bloqueo de fila del item incluido).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// RunContext estado explícito de un run: ubicación activa, actor y overrides
// por ejecución. Sustituye cualquier propagación implícita vía contexto global.
type RunContext struct {
	Location      *entity.Location // nil = run global/por defecto
	ActorID       string           // usuario que disparó el run o el cambio de estado
	AssigneeID    string           // override de asignado para los work items de este run
	EmailOverride string           // destinatario solo para este run
}
