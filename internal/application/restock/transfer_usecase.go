package restock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// Mensajes tipados registrados en el item cuando un paso de la transferencia
// falla. Nunca se propagan al caller: el cambio de estado del work item debe
// completarse aunque la transferencia falle.
const (
	transferErrNoAmount = "No restock amount to transfer."
	transferErrNoSource = "No source stock location could be resolved."
	transferErrNoDest   = "No destination stock location could be resolved."
)

const transferErrTruncateAt = 200

// transferFailure falla de negocio de la transferencia: revierte la
// transacción del movimiento y se registra como texto en el item.
type transferFailure struct {
	msg string
}

func (e *transferFailure) Error() string { return e.msg }

// TransferUseCase ejecuta la transferencia de inventario disparada por la
// transición not-done -> done de un work item. Máximo una transferencia
// exitosa por item: el flag transferred se verifica bajo bloqueo de fila y se
// persiste en la misma transacción que el movimiento.
type TransferUseCase struct {
	tx           TxRunner
	itemRepo     repository.ItemRepository
	productRepo  repository.ProductRepository
	stockLocRepo repository.StockLocationRepository
	locationRepo repository.LocationRepository
	runRepo      repository.RunRepository
	settingsRepo repository.SettingsRepository
	log          *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	tx TxRunner,
	itemRepo repository.ItemRepository,
	productRepo repository.ProductRepository,
	stockLocRepo repository.StockLocationRepository,
	locationRepo repository.LocationRepository,
	runRepo repository.RunRepository,
	settingsRepo repository.SettingsRepository,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		tx:           tx,
		itemRepo:     itemRepo,
		productRepo:  productRepo,
		stockLocRepo: stockLocRepo,
		locationRepo: locationRepo,
		runRepo:      runRepo,
		settingsRepo: settingsRepo,
		log:          log,
	}
}

// Execute corre la transferencia para el item. Es seguro invocarla varias
// veces para la misma transición: si transferred ya es true es un no-op con
// cero movimientos adicionales. Una falla de negocio revierte el movimiento,
// queda registrada en el item y NO se devuelve al caller; solo fallas de
// infraestructura (BD inaccesible, item inexistente) producen error.
func (uc *TransferUseCase) Execute(ctx context.Context, itemID, actorID string) error {
	settings, err := uc.settingsRepo.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	err = uc.tx.Run(ctx, func(
		itemRepo repository.ItemRepository,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return fmt.Errorf("bloquear item %s: %w", itemID, err)
		}
		if item == nil {
			return fmt.Errorf("item %s: %w", itemID, errItemNotFound)
		}
		// Ya transferido: no-op aunque el hook corra dos veces.
		if item.Transferred {
			return nil
		}

		qty := item.NeededQty()
		if qty <= 0 {
			return &transferFailure{msg: transferErrNoAmount}
		}

		product, err := uc.productRepo.GetBySKU(item.SKU)
		if err != nil {
			return &transferFailure{msg: truncate("Stock move failed: " + err.Error())}
		}
		if product == nil {
			return &transferFailure{msg: fmt.Sprintf("No product found for SKU %q.", item.SKU)}
		}

		source, err := uc.resolveSource(settings)
		if err != nil || source == nil {
			return &transferFailure{msg: transferErrNoSource}
		}
		dest, err := uc.resolveDest(item, settings)
		if err != nil || dest == nil {
			return &transferFailure{msg: transferErrNoDest}
		}

		now := time.Now()
		if err := uc.executeMovement(stockRepo, movRepo, product, source, dest, qty, item.ID, actorID, now); err != nil {
			return &transferFailure{msg: truncate("Stock move failed: " + err.Error())}
		}

		item.Transferred = true
		item.TransferredAt = &now
		item.TransferredBy = actorID
		item.TransferError = ""
		if err := itemRepo.Update(item); err != nil {
			return fmt.Errorf("marcar item transferido: %w", err)
		}
		uc.log.Info().Str("item", item.ID).Str("sku", item.SKU).Int("cantidad", qty).
			Str("origen", source.ID).Str("destino", dest.ID).Msg("transferencia de inventario ejecutada")
		return nil
	})

	var failure *transferFailure
	if errors.As(err, &failure) {
		return uc.recordFailure(itemID, failure.msg)
	}
	return err
}

var errItemNotFound = errors.New("item de restock no encontrado")

// resolveSource bodega origen: la configurada, si no la interna por defecto.
func (uc *TransferUseCase) resolveSource(settings *entity.Settings) (*entity.StockLocation, error) {
	if settings.SourceLocationID != "" {
		return uc.stockLocRepo.GetByID(settings.SourceLocationID)
	}
	return uc.stockLocRepo.GetDefaultInternal()
}

// resolveDest bodega destino: la enlazada en la Location del run del item,
// si no el parámetro global de respaldo.
func (uc *TransferUseCase) resolveDest(item *entity.Item, settings *entity.Settings) (*entity.StockLocation, error) {
	run, err := uc.runRepo.GetByID(item.RunID)
	if err != nil {
		return nil, err
	}
	if run != nil && run.LocationID != nil {
		loc, err := uc.locationRepo.GetByID(*run.LocationID)
		if err != nil {
			return nil, err
		}
		if loc != nil && loc.DestLocationID != "" {
			return uc.stockLocRepo.GetByID(loc.DestLocationID)
		}
	}
	if settings.DestLocationID != "" {
		return uc.stockLocRepo.GetByID(settings.DestLocationID)
	}
	return nil, nil
}

// executeMovement crea y ejecuta completo el movimiento de stock:
// confirmar -> reservar -> fijar cantidad hecha -> finalizar, aplicando los
// deltas de stock en origen y destino dentro de la misma transacción.
func (uc *TransferUseCase) executeMovement(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	product *entity.Product,
	source, dest *entity.StockLocation,
	qty int,
	itemID, actorID string,
	now time.Time,
) error {
	quantity := decimal.NewFromInt(int64(qty))

	mov := &entity.StockMovement{
		TransactionID: uuid.New().String(),
		ProductID:     product.ID,
		SourceID:      source.ID,
		DestID:        dest.ID,
		Quantity:      quantity,
		State:         entity.MovementStateDraft,
		Reference:     "restock-item:" + itemID,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     actorID,
	}
	if err := movRepo.Create(mov); err != nil {
		return err
	}
	if err := mov.Confirm(); err != nil {
		return err
	}

	// Reserva: bloquea la fila de stock en origen. El origen puede quedar en
	// negativo; el inventario físico ya salió aunque el sistema no lo refleje.
	origin, err := stockRepo.GetForUpdate(product.ID, source.ID)
	if err != nil {
		return err
	}
	if origin == nil {
		origin = &entity.Stock{ProductID: product.ID, LocationID: source.ID, Quantity: decimal.Zero}
	}
	if err := mov.Reserve(); err != nil {
		return err
	}
	if err := mov.SetDoneQuantity(quantity); err != nil {
		return err
	}

	destStock, err := stockRepo.Get(product.ID, dest.ID)
	if err != nil {
		return err
	}
	if destStock == nil {
		destStock = &entity.Stock{ProductID: product.ID, LocationID: dest.ID, Quantity: decimal.Zero}
	}

	origin.Quantity = origin.Quantity.Sub(quantity)
	destStock.Quantity = destStock.Quantity.Add(quantity)
	origin.UpdatedAt = now
	destStock.UpdatedAt = now
	if err := stockRepo.Upsert(origin); err != nil {
		return err
	}
	if err := stockRepo.Upsert(destStock); err != nil {
		return err
	}

	if err := mov.Finalize(); err != nil {
		return err
	}
	return movRepo.Update(mov)
}

// recordFailure deja la falla tipada en el item, fuera de la transacción
// revertida del movimiento.
func (uc *TransferUseCase) recordFailure(itemID, msg string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return fmt.Errorf("registrar error de transferencia en item %s: %w", itemID, err)
	}
	item.TransferError = msg
	if err := uc.itemRepo.Update(item); err != nil {
		return fmt.Errorf("registrar error de transferencia: %w", err)
	}
	uc.log.Warn().Str("item", item.ID).Str("sku", item.SKU).Str("motivo", msg).
		Msg("transferencia de inventario no ejecutada")
	return nil
}

func truncate(s string) string {
	if len(s) <= transferErrTruncateAt {
		return s
	}
	return s[:transferErrTruncateAt] + "…"
}
