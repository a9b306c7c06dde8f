package restock_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes adicionales para la transferencia.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	stocks map[string]*entity.Stock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[string]*entity.Stock)}
}

func stockKey(productID, locationID string) string { return productID + "|" + locationID }

func (f *fakeStockRepo) Get(productID, locationID string) (*entity.Stock, error) {
	if s, ok := f.stocks[stockKey(productID, locationID)]; ok {
		copied := *s
		return &copied, nil
	}
	return &entity.Stock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
}

func (f *fakeStockRepo) GetForUpdate(productID, locationID string) (*entity.Stock, error) {
	return f.Get(productID, locationID)
}

func (f *fakeStockRepo) Upsert(stock *entity.Stock) error {
	copied := *stock
	f.stocks[stockKey(stock.ProductID, stock.LocationID)] = &copied
	return nil
}

func (f *fakeStockRepo) quantity(productID, locationID string) decimal.Decimal {
	if s, ok := f.stocks[stockKey(productID, locationID)]; ok {
		return s.Quantity
	}
	return decimal.Zero
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = fmt.Sprintf("mov-%d", len(f.movements)+1)
	}
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeMovementRepo) Update(m *entity.StockMovement) error {
	for i, existing := range f.movements {
		if existing.ID == m.ID {
			f.movements[i] = m
			return nil
		}
	}
	return fmt.Errorf("movimiento %s no existe", m.ID)
}

func (f *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTxRunner struct {
	itemRepo  *fakeItemRepo
	stockRepo *fakeStockRepo
	movRepo   *fakeMovementRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	return fn(f.itemRepo, f.stockRepo, f.movRepo)
}

type fakeProductRepo struct {
	bySKU map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error { f.bySKU[p.SKU] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	for _, p := range f.bySKU {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) { return f.bySKU[sku], nil }
func (f *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeStockLocationRepo struct {
	locations       map[string]*entity.StockLocation
	defaultInternal *entity.StockLocation
}

func (f *fakeStockLocationRepo) GetByID(id string) (*entity.StockLocation, error) {
	return f.locations[id], nil
}
func (f *fakeStockLocationRepo) GetDefaultInternal() (*entity.StockLocation, error) {
	return f.defaultInternal, nil
}
func (f *fakeStockLocationRepo) List() ([]*entity.StockLocation, error) { return nil, nil }

type fakeLocationRepo struct {
	byID   map[string]*entity.Location
	active []*entity.Location
}

func (f *fakeLocationRepo) Create(l *entity.Location) error              { f.byID[l.ID] = l; return nil }
func (f *fakeLocationRepo) GetByID(id string) (*entity.Location, error)  { return f.byID[id], nil }
func (f *fakeLocationRepo) Update(l *entity.Location) error              { f.byID[l.ID] = l; return nil }
func (f *fakeLocationRepo) ListActive() ([]*entity.Location, error)      { return f.active, nil }
func (f *fakeLocationRepo) List(_, _ int) ([]*entity.Location, error)    { return nil, nil }
func (f *fakeLocationRepo) Delete(id string) error                       { delete(f.byID, id); return nil }

type fakeRunRepo struct {
	byID map[string]*entity.Run
}

func (f *fakeRunRepo) Create(r *entity.Run) error {
	if r.ID == "" {
		r.ID = fmt.Sprintf("run-%d", len(f.byID)+1)
	}
	f.byID[r.ID] = r
	return nil
}
func (f *fakeRunRepo) GetByID(id string) (*entity.Run, error) { return f.byID[id], nil }
func (f *fakeRunRepo) List(_, _ int) ([]*entity.Run, error)   { return nil, nil }
func (f *fakeRunRepo) Delete(id string) error                 { delete(f.byID, id); return nil }

type fakeSettingsRepo struct {
	settings entity.Settings
}

func (f *fakeSettingsRepo) Load() (*entity.Settings, error) {
	copied := f.settings
	return &copied, nil
}
func (f *fakeSettingsRepo) Save(s *entity.Settings) error          { f.settings = *s; return nil }
func (f *fakeSettingsRepo) GetParam(key string) (string, error)    { return "", nil }
func (f *fakeSettingsRepo) SetParam(key, value string) error       { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

type transferHarness struct {
	uc        *restock.TransferUseCase
	itemRepo  *fakeItemRepo
	stockRepo *fakeStockRepo
	movRepo   *fakeMovementRepo
	stockLoc  *fakeStockLocationRepo
	locRepo   *fakeLocationRepo
	runRepo   *fakeRunRepo
	settings  *fakeSettingsRepo
	products  *fakeProductRepo
}

func newTransferHarness() *transferHarness {
	h := &transferHarness{
		itemRepo:  &fakeItemRepo{},
		stockRepo: newFakeStockRepo(),
		movRepo:   &fakeMovementRepo{},
		products:  &fakeProductRepo{bySKU: make(map[string]*entity.Product)},
		locRepo:   &fakeLocationRepo{byID: make(map[string]*entity.Location)},
		runRepo:   &fakeRunRepo{byID: make(map[string]*entity.Run)},
		settings:  &fakeSettingsRepo{},
		stockLoc: &fakeStockLocationRepo{
			locations: make(map[string]*entity.StockLocation),
		},
	}
	tx := &fakeTxRunner{itemRepo: h.itemRepo, stockRepo: h.stockRepo, movRepo: h.movRepo}
	h.uc = restock.NewTransferUseCase(
		tx, h.itemRepo, h.products, h.stockLoc, h.locRepo, h.runRepo, h.settings, testLogger(),
	)
	return h
}

// withDefaults prepara producto, bodegas y configuración para el camino feliz.
func (h *transferHarness) withDefaults() {
	h.products.bySKU["CAM-M"] = &entity.Product{ID: "prod-1", SKU: "CAM-M", Name: "Camiseta M"}
	origin := &entity.StockLocation{ID: "stk-origin", Name: "Bodega Central", Usage: entity.LocationUsageInternal, IsDefault: true}
	dest := &entity.StockLocation{ID: "stk-dest", Name: "Bodega Tienda", Usage: entity.LocationUsageInternal}
	h.stockLoc.locations[origin.ID] = origin
	h.stockLoc.locations[dest.ID] = dest
	h.stockLoc.defaultInternal = origin
	h.settings.settings = entity.Settings{DestLocationID: "stk-dest"}
	_ = h.stockRepo.Upsert(&entity.Stock{ProductID: "prod-1", LocationID: "stk-origin", Quantity: decimal.NewFromInt(50)})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Caso feliz: un único movimiento completo, stocks ajustados e item marcado.
func TestTransfer_CaminoFeliz(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	item := newItem("item-1", "CAM-M", 3, 10, 5)
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))

	got, _ := h.itemRepo.GetByID("item-1")
	assert.True(t, got.Transferred)
	require.NotNil(t, got.TransferredAt)
	assert.Equal(t, "user-1", got.TransferredBy)
	assert.Empty(t, got.TransferError)

	require.Len(t, h.movRepo.movements, 1)
	mov := h.movRepo.movements[0]
	assert.Equal(t, entity.MovementStateDone, mov.State)
	assert.True(t, mov.DoneQty.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "stk-origin", mov.SourceID)
	assert.Equal(t, "stk-dest", mov.DestID)
	assert.Equal(t, "restock-item:item-1", mov.Reference)

	assert.True(t, h.stockRepo.quantity("prod-1", "stk-origin").Equal(decimal.NewFromInt(45)))
	assert.True(t, h.stockRepo.quantity("prod-1", "stk-dest").Equal(decimal.NewFromInt(5)))
}

// Idempotencia: repetir el disparo no genera un segundo movimiento.
func TestTransfer_Idempotente(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	item := newItem("item-1", "CAM-M", 3, 10, 5)
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))
	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-2"))

	assert.Len(t, h.movRepo.movements, 1, "exactamente un movimiento por item, sin importar cuántas veces se dispare")
	got, _ := h.itemRepo.GetByID("item-1")
	assert.Equal(t, "user-1", got.TransferredBy, "la repetición no debe reescribir la autoría")
	assert.True(t, h.stockRepo.quantity("prod-1", "stk-origin").Equal(decimal.NewFromInt(45)))
}

// Sin cantidad: la falla queda en el item y no se propaga al caller.
func TestTransfer_SinCantidadRegistraError(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	item := newItem("item-1", "CAM-M", 12, 10, 0) // stock sobre el umbral, monto 0
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))

	got, _ := h.itemRepo.GetByID("item-1")
	assert.False(t, got.Transferred)
	assert.Equal(t, "No restock amount to transfer.", got.TransferError)
	assert.Empty(t, h.movRepo.movements)
}

// SKU sin producto local: mensaje tipado con el SKU.
func TestTransfer_ProductoInexistente(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	item := newItem("item-1", "NO-EXISTE", 3, 10, 5)
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))

	got, _ := h.itemRepo.GetByID("item-1")
	assert.False(t, got.Transferred)
	assert.Equal(t, `No product found for SKU "NO-EXISTE".`, got.TransferError)
	assert.Empty(t, h.movRepo.movements)
}

// Sin bodega origen resoluble.
func TestTransfer_SinOrigenRegistraError(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	h.stockLoc.defaultInternal = nil
	h.settings.settings.SourceLocationID = ""
	item := newItem("item-1", "CAM-M", 3, 10, 5)
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))

	got, _ := h.itemRepo.GetByID("item-1")
	assert.Equal(t, "No source stock location could be resolved.", got.TransferError)
}

// Sin bodega destino resoluble.
func TestTransfer_SinDestinoRegistraError(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	h.settings.settings.DestLocationID = ""
	item := newItem("item-1", "CAM-M", 3, 10, 5)
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))

	got, _ := h.itemRepo.GetByID("item-1")
	assert.Equal(t, "No destination stock location could be resolved.", got.TransferError)
}

// El destino de la Location del run gana al parámetro global.
func TestTransfer_DestinoPorUbicacionDelRun(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	locDest := &entity.StockLocation{ID: "stk-loc-dest", Name: "Bodega Norte", Usage: entity.LocationUsageInternal}
	h.stockLoc.locations[locDest.ID] = locDest
	h.locRepo.byID["loc-1"] = &entity.Location{ID: "loc-1", Name: "Norte", DestLocationID: "stk-loc-dest"}
	locID := "loc-1"
	h.runRepo.byID["run-1"] = &entity.Run{ID: "run-1", LocationID: &locID}

	item := newItem("item-1", "CAM-M", 3, 10, 5)
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))

	require.Len(t, h.movRepo.movements, 1)
	assert.Equal(t, "stk-loc-dest", h.movRepo.movements[0].DestID,
		"la bodega de la Location del run prevalece sobre el destino global")
}

// Sin monto recomendado pero con déficit contra el umbral se transfiere el déficit.
func TestTransfer_DeficitCuandoNoHayMonto(t *testing.T) {
	h := newTransferHarness()
	h.withDefaults()
	item := newItem("item-1", "CAM-M", 3, 10, 0) // déficit 7
	require.NoError(t, h.itemRepo.CreateBatch([]*entity.Item{item}))

	require.NoError(t, h.uc.Execute(context.Background(), "item-1", "user-1"))

	require.Len(t, h.movRepo.movements, 1)
	assert.True(t, h.movRepo.movements[0].DoneQty.Equal(decimal.NewFromInt(7)))
}
