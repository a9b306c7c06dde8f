package restock_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los repos que usa la conciliación.
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	items []*entity.Item
}

func (f *fakeItemRepo) CreateBatch(items []*entity.Item) error {
	for i, item := range items {
		if item.ID == "" {
			item.ID = fmt.Sprintf("item-%d", len(f.items)+i+1)
		}
		f.items = append(f.items, item)
	}
	return nil
}

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) { return f.GetByID(id) }

func (f *fakeItemRepo) Update(item *entity.Item) error {
	for i, existing := range f.items {
		if existing.ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("item %s no existe", item.ID)
}

func (f *fakeItemRepo) ListByRun(runID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range f.items {
		if item.RunID == runID {
			out = append(out, item)
		}
	}
	return out, nil
}

// ListByWorkItem del más reciente al más antiguo (orden inverso de inserción).
func (f *fakeItemRepo) ListByWorkItem(workItemID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].WorkItemID != nil && *f.items[i].WorkItemID == workItemID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

type fakeWorkItemRepo struct {
	workItems   []*entity.WorkItem
	subscribers map[string][]string
}

func newFakeWorkItemRepo() *fakeWorkItemRepo {
	return &fakeWorkItemRepo{subscribers: make(map[string][]string)}
}

func (f *fakeWorkItemRepo) Create(w *entity.WorkItem) error {
	if w.ID == "" {
		w.ID = fmt.Sprintf("wi-%d", len(f.workItems)+1)
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	f.workItems = append(f.workItems, w)
	return nil
}

func (f *fakeWorkItemRepo) GetByID(id string) (*entity.WorkItem, error) {
	for _, w := range f.workItems {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkItemRepo) UpdateDisplay(id, title, description string) error {
	w, _ := f.GetByID(id)
	if w == nil {
		return fmt.Errorf("work item %s no existe", id)
	}
	w.Title = title
	w.Description = description
	return nil
}

func (f *fakeWorkItemRepo) UpdateStatus(id, statusCode string) error {
	w, _ := f.GetByID(id)
	if w == nil {
		return fmt.Errorf("work item %s no existe", id)
	}
	w.StatusCode = &statusCode
	return nil
}

// SearchByKey con la misma precedencia del adaptador real, en orden inverso
// de inserción (más reciente primero).
func (f *fakeWorkItemRepo) SearchByKey(projectID string, key repository.WorkItemKey) ([]*entity.WorkItem, error) {
	match := func(w *entity.WorkItem) bool {
		switch {
		case key.LocationID != nil && key.ProductGID != "" && key.VariantGID != "":
			return w.LocationID != nil && *w.LocationID == *key.LocationID &&
				w.ProductGID == key.ProductGID && w.VariantGID == key.VariantGID
		case key.LocationID != nil && key.ProductGID != "":
			return w.LocationID != nil && *w.LocationID == *key.LocationID && w.ProductGID == key.ProductGID
		case key.SKU != "":
			return w.SKU == key.SKU
		default:
			return w.ProductTitle == key.ProductTitle && w.VariantTitle == key.VariantTitle
		}
	}
	var out []*entity.WorkItem
	for i := len(f.workItems) - 1; i >= 0; i-- {
		if f.workItems[i].ProjectID == projectID && match(f.workItems[i]) {
			out = append(out, f.workItems[i])
		}
	}
	return out, nil
}

func (f *fakeWorkItemRepo) Subscribe(workItemID, userID string) error {
	f.subscribers[workItemID] = append(f.subscribers[workItemID], userID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func newItem(id, sku string, current, level, amount int) *entity.Item {
	return &entity.Item{
		ID:            id,
		RunID:         "run-1",
		ProductTitle:  "Camiseta",
		VariantTitle:  "Talla M",
		SKU:           sku,
		ProductGID:    "gid://shopify/Product/100",
		VariantGID:    "gid://shopify/ProductVariant/200",
		CurrentQty:    current,
		RestockLevel:  level,
		RestockAmount: amount,
		Urgency:       entity.UrgencyMedium,
	}
}

// Caso 1: sin work item abierto que coincida se crea uno nuevo y se enlaza.
func TestReconcileItem_CreaWorkItemNuevo(t *testing.T) {
	itemRepo := &fakeItemRepo{}
	workRepo := newFakeWorkItemRepo()
	r := restock.NewReconciler(itemRepo, workRepo, testLogger())

	item := newItem("item-1", "CAM-M", 3, 10, 22)
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{item}))

	settings := &entity.Settings{ProjectID: "proj-1", AssigneeID: "user-9"}
	outcome, err := r.ReconcileItem(restock.RunContext{ActorID: "actor"}, settings, item)
	require.NoError(t, err)

	assert.Equal(t, restock.ReconcileCreated, outcome.Result)
	require.NotNil(t, item.WorkItemID)
	assert.Equal(t, outcome.WorkItemID, *item.WorkItemID)

	w, _ := workRepo.GetByID(outcome.WorkItemID)
	require.NotNil(t, w)
	assert.Equal(t, "Camiseta - Talla M | 22", w.Title, "título = display | cantidad necesaria")
	assert.Equal(t, "user-9", w.AssigneeID, "sin override usa el asignado global")
	require.NotNil(t, w.ItemID)
	assert.Equal(t, item.ID, *w.ItemID, "el work item recuerda su item origen")
	assert.Contains(t, w.Description, "Needed Qty: 22")
	assert.Equal(t, []string{"user-9"}, workRepo.subscribers[w.ID], "el asignado queda suscrito")
}

// Caso 2: con un work item abierto que coincide, el item nuevo se fusiona y la
// cantidad del título es la suma de todos los items enlazados.
func TestReconcileItem_FusionaContraAbierto(t *testing.T) {
	itemRepo := &fakeItemRepo{}
	workRepo := newFakeWorkItemRepo()
	r := restock.NewReconciler(itemRepo, workRepo, testLogger())
	settings := &entity.Settings{ProjectID: "proj-1"}
	rc := restock.RunContext{ActorID: "actor"}

	first := newItem("item-1", "CAM-M", 3, 10, 22)
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{first}))
	outcome1, err := r.ReconcileItem(rc, settings, first)
	require.NoError(t, err)
	require.Equal(t, restock.ReconcileCreated, outcome1.Result)

	// Run siguiente: misma variante, lectura más fresca.
	second := newItem("item-2", "CAM-M", 2, 10, 23)
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{second}))
	outcome2, err := r.ReconcileItem(rc, settings, second)
	require.NoError(t, err)

	assert.Equal(t, restock.ReconcileMerged, outcome2.Result)
	assert.Equal(t, outcome1.WorkItemID, outcome2.WorkItemID, "se reutiliza el mismo work item")

	w, _ := workRepo.GetByID(outcome1.WorkItemID)
	assert.Equal(t, "Camiseta - Talla M | 45", w.Title, "cantidad agregada 22+23")
	require.NotNil(t, w.ItemID)
	assert.Equal(t, "item-1", *w.ItemID, "el item origen no cambia en los merges")
	require.NotNil(t, second.WorkItemID)
	assert.Equal(t, w.ID, *second.WorkItemID)
}

// Caso 3: un work item done no absorbe; se crea uno nuevo.
func TestReconcileItem_DoneNoAbsorbe(t *testing.T) {
	itemRepo := &fakeItemRepo{}
	workRepo := newFakeWorkItemRepo()
	r := restock.NewReconciler(itemRepo, workRepo, testLogger())
	settings := &entity.Settings{ProjectID: "proj-1"}
	rc := restock.RunContext{ActorID: "actor"}

	first := newItem("item-1", "CAM-M", 3, 10, 22)
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{first}))
	outcome1, err := r.ReconcileItem(rc, settings, first)
	require.NoError(t, err)
	require.NoError(t, workRepo.UpdateStatus(outcome1.WorkItemID, "1_done"))

	second := newItem("item-2", "CAM-M", 1, 10, 24)
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{second}))
	outcome2, err := r.ReconcileItem(rc, settings, second)
	require.NoError(t, err)

	assert.Equal(t, restock.ReconcileCreated, outcome2.Result)
	assert.NotEqual(t, outcome1.WorkItemID, outcome2.WorkItemID,
		"un work item cerrado no debe reabrirse ni absorber items nuevos")
}

// Caso 4: el override de asignado del run gana al global.
func TestReconcileItem_OverrideDeAsignado(t *testing.T) {
	itemRepo := &fakeItemRepo{}
	workRepo := newFakeWorkItemRepo()
	r := restock.NewReconciler(itemRepo, workRepo, testLogger())

	item := newItem("item-1", "CAM-M", 3, 10, 22)
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{item}))

	settings := &entity.Settings{ProjectID: "proj-1", AssigneeID: "global"}
	outcome, err := r.ReconcileItem(restock.RunContext{AssigneeID: "override"}, settings, item)
	require.NoError(t, err)

	w, _ := workRepo.GetByID(outcome.WorkItemID)
	assert.Equal(t, "override", w.AssigneeID)
}

// Caso 5: con assignee_required y sin asignado resoluble, la conciliación del
// item falla con error de validación.
func TestReconcileItem_AsignadoObligatorio(t *testing.T) {
	itemRepo := &fakeItemRepo{}
	workRepo := newFakeWorkItemRepo()
	r := restock.NewReconciler(itemRepo, workRepo, testLogger())

	item := newItem("item-1", "CAM-M", 3, 10, 22)
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{item}))

	settings := &entity.Settings{ProjectID: "proj-1", AssigneeRequired: true}
	_, err := r.ReconcileItem(restock.RunContext{}, settings, item)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, workRepo.workItems, "no debe quedar work item a medias")
}

// Caso 6: la descripción lleva los campos de display y la ubicación del run.
func TestReconcileItem_DescripcionConUbicacion(t *testing.T) {
	itemRepo := &fakeItemRepo{}
	workRepo := newFakeWorkItemRepo()
	r := restock.NewReconciler(itemRepo, workRepo, testLogger())

	item := newItem("item-1", "CAM-M", 3, 10, 22)
	item.ProductURL = "https://mitienda.com/products/camiseta"
	require.NoError(t, itemRepo.CreateBatch([]*entity.Item{item}))

	loc := &entity.Location{ID: "loc-1", Name: "Bodega Norte"}
	settings := &entity.Settings{ProjectID: "proj-1"}
	outcome, err := r.ReconcileItem(restock.RunContext{Location: loc}, settings, item)
	require.NoError(t, err)

	w, _ := workRepo.GetByID(outcome.WorkItemID)
	for _, line := range []string{
		"Product: Camiseta",
		"SKU: CAM-M",
		"Current Qty: 3",
		"Restock Level: 10",
		"Shopify URL: https://mitienda.com/products/camiseta",
		"Shopify Location: Bodega Norte",
	} {
		assert.True(t, strings.Contains(w.Description, line), "descripción debe contener %q", line)
	}
	require.NotNil(t, w.LocationID)
	assert.Equal(t, "loc-1", *w.LocationID)
}
