package restock

import (
	"fmt"
	"strings"

	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// Resultados de la conciliación de un item.
const (
	ReconcileCreated = "created"
	ReconcileMerged  = "merged"
)

// ReconcileOutcome resultado explícito del upsert por clave natural.
type ReconcileOutcome struct {
	Result     string // created | merged
	WorkItemID string
}

// Reconciler concilia los Items de un run contra los work items abiertos para
// no duplicar trabajo entre runs repetidos: enlaza contra el primer work item
// abierto que coincida con la clave natural, o crea uno nuevo.
type Reconciler struct {
	itemRepo     repository.ItemRepository
	workItemRepo repository.WorkItemRepository
	log          *logger.Logger
}

// NewReconciler construye el conciliador.
func NewReconciler(
	itemRepo repository.ItemRepository,
	workItemRepo repository.WorkItemRepository,
	log *logger.Logger,
) *Reconciler {
	return &Reconciler{itemRepo: itemRepo, workItemRepo: workItemRepo, log: log}
}

// ReconcileItems procesa cada item; una falla en uno se registra como warning
// y no detiene el resto del run.
func (r *Reconciler) ReconcileItems(rc RunContext, settings *entity.Settings, items []*entity.Item) {
	for _, item := range items {
		if _, err := r.ReconcileItem(rc, settings, item); err != nil {
			r.log.Warn().Err(err).Str("item", item.ID).Str("sku", item.SKU).
				Msg("conciliación de work item fallida, item omitido")
		}
	}
}

// ReconcileItem concilia un item y devuelve el resultado etiquetado.
func (r *Reconciler) ReconcileItem(rc RunContext, settings *entity.Settings, item *entity.Item) (*ReconcileOutcome, error) {
	key := buildKey(rc.Location, item)

	candidates, err := r.workItemRepo.SearchByKey(settings.ProjectID, key)
	if err != nil {
		return nil, fmt.Errorf("buscar work items por clave: %w", err)
	}
	for _, w := range candidates {
		if w.IsDone() {
			continue
		}
		return r.merge(rc, item, w)
	}
	return r.create(rc, settings, item, key)
}

// merge enlaza el item al work item abierto existente, recalcula la cantidad
// agregada (suma de todos los items enlazados alguna vez) y reescribe el
// título y la descripción desde el item enlazado más reciente.
func (r *Reconciler) merge(rc RunContext, item *entity.Item, w *entity.WorkItem) (*ReconcileOutcome, error) {
	item.WorkItemID = &w.ID
	if err := r.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("enlazar item a work item: %w", err)
	}

	linked, err := r.itemRepo.ListByWorkItem(w.ID)
	if err != nil {
		return nil, fmt.Errorf("listar items enlazados: %w", err)
	}
	total := 0
	for _, li := range linked {
		total += li.NeededQty()
	}
	newest := item
	if len(linked) > 0 {
		newest = linked[0] // orden del repo: más reciente primero
	}

	title := fmt.Sprintf("%s | %d", newest.DisplayTitle(), total)
	description := buildDescription(newest, rc.Location, total)
	if err := r.workItemRepo.UpdateDisplay(w.ID, title, description); err != nil {
		return nil, fmt.Errorf("actualizar work item fusionado: %w", err)
	}

	r.log.Info().Str("work_item", w.ID).Str("item", item.ID).Int("cantidad", total).
		Msg("item fusionado en work item abierto")
	return &ReconcileOutcome{Result: ReconcileMerged, WorkItemID: w.ID}, nil
}

// create abre un work item nuevo para el item y lo enlaza.
func (r *Reconciler) create(rc RunContext, settings *entity.Settings, item *entity.Item, key repository.WorkItemKey) (*ReconcileOutcome, error) {
	assignee := rc.AssigneeID
	if assignee == "" {
		assignee = settings.AssigneeID
	}
	if settings.AssigneeRequired && assignee == "" {
		return nil, fmt.Errorf("work item para %q: %w: se requiere asignado y no se resolvió ninguno",
			item.DisplayTitle(), domain.ErrInvalidInput)
	}

	needed := item.NeededQty()
	w := &entity.WorkItem{
		ProjectID:    settings.ProjectID,
		Title:        fmt.Sprintf("%s | %d", item.DisplayTitle(), needed),
		Description:  buildDescription(item, rc.Location, needed),
		AssigneeID:   assignee,
		LocationID:   key.LocationID,
		ProductGID:   item.ProductGID,
		VariantGID:   item.VariantGID,
		SKU:          item.SKU,
		ProductTitle: item.ProductTitle,
		VariantTitle: item.VariantTitle,
		ItemID:       &item.ID,
	}
	if err := r.workItemRepo.Create(w); err != nil {
		return nil, fmt.Errorf("crear work item: %w", err)
	}
	if assignee != "" {
		if err := r.workItemRepo.Subscribe(w.ID, assignee); err != nil {
			r.log.Warn().Err(err).Str("work_item", w.ID).Msg("no se pudo suscribir al asignado")
		}
	}

	item.WorkItemID = &w.ID
	if err := r.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("enlazar item a work item nuevo: %w", err)
	}

	r.log.Info().Str("work_item", w.ID).Str("item", item.ID).Msg("work item creado")
	return &ReconcileOutcome{Result: ReconcileCreated, WorkItemID: w.ID}, nil
}

// buildKey arma la clave natural del item para la ubicación del run.
func buildKey(loc *entity.Location, item *entity.Item) repository.WorkItemKey {
	key := repository.WorkItemKey{
		ProductGID:   item.ProductGID,
		VariantGID:   item.VariantGID,
		SKU:          item.SKU,
		ProductTitle: item.ProductTitle,
		VariantTitle: item.VariantTitle,
	}
	if loc != nil {
		key.LocationID = &loc.ID
	}
	return key
}

// buildDescription arma la descripción del work item desde los campos de
// display del item más la cantidad necesaria.
func buildDescription(item *entity.Item, loc *entity.Location, needed int) string {
	lines := []string{
		"Product: " + item.ProductTitle,
		"Variant: " + item.VariantTitle,
		"SKU: " + item.SKU,
		fmt.Sprintf("Current Qty: %d", item.CurrentQty),
		fmt.Sprintf("Restock Level: %d", item.RestockLevel),
		fmt.Sprintf("Needed Qty: %d", needed),
	}
	if item.ProductURL != "" {
		lines = append(lines, "Shopify URL: "+item.ProductURL)
	}
	if loc != nil {
		lines = append(lines, "Shopify Location: "+loc.Name)
	}
	return strings.Join(lines, "\n")
}
