package restock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los gateways remotos y de notificación.
// ──────────────────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	products []entity.CatalogProduct
	err      error
	calls    int
}

func (f *fakeCatalog) FetchAllProducts(_ context.Context, _ *entity.Settings) ([]entity.CatalogProduct, error) {
	f.calls++
	return f.products, f.err
}

type fakeInventory struct {
	levels map[string]int
	err    error
}

func (f *fakeInventory) FetchLevels(_ context.Context, _ *entity.Settings, _ []string) (map[string]int, error) {
	return f.levels, f.err
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type webhookPost struct {
	url     string
	payload restock.WebhookPayload
}

type fakeWebhook struct {
	posts []webhookPost
}

func (f *fakeWebhook) Post(_ context.Context, url string, payload restock.WebhookPayload) error {
	f.posts = append(f.posts, webhookPost{url: url, payload: payload})
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

type runHarness struct {
	uc           *restock.RunUseCase
	settings     *fakeSettingsRepo
	runRepo      *fakeRunRepo
	itemRepo     *fakeItemRepo
	workItemRepo *fakeWorkItemRepo
	locRepo      *fakeLocationRepo
	catalog      *fakeCatalog
	inventory    *fakeInventory
	mailer       *fakeMailer
	webhook      *fakeWebhook
}

func newRunHarness() *runHarness {
	h := &runHarness{
		settings:     &fakeSettingsRepo{},
		runRepo:      &fakeRunRepo{byID: make(map[string]*entity.Run)},
		itemRepo:     &fakeItemRepo{},
		workItemRepo: newFakeWorkItemRepo(),
		locRepo:      &fakeLocationRepo{byID: make(map[string]*entity.Location)},
		catalog:      &fakeCatalog{},
		inventory:    &fakeInventory{levels: map[string]int{}},
		mailer:       &fakeMailer{},
		webhook:      &fakeWebhook{},
	}
	log := testLogger()
	h.uc = restock.NewRunUseCase(
		h.settings, h.runRepo, h.itemRepo,
		h.catalog, h.inventory,
		restock.NewChannelFilter(log),
		restock.NewEvaluator(log),
		restock.NewReconciler(h.itemRepo, h.workItemRepo, log),
		h.mailer, h.webhook, log,
	)
	return h
}

// withDefaults configura el backend y un producto publicado en Online Store
// con umbral 10, objetivo 25 y 3 unidades en la ubicación.
func (h *runHarness) withDefaults() {
	h.settings.settings = entity.Settings{
		StoreDomain:       "mitienda.myshopify.com",
		AccessToken:       "shpat_xxx",
		APIVersion:        "2023-04",
		LocationIDNumeric: "111",
		EmailTo:           "bodega@mitienda.com",
		ProjectID:         "proj-1",
		AssigneeID:        "user-asig",
	}
	h.catalog.products = []entity.CatalogProduct{{
		GID:          "gid://shopify/Product/100",
		Title:        "Camiseta",
		Handle:       "camiseta",
		Publications: []entity.Publication{pubOnline},
		Metafields: []entity.Metafield{
			metaInt("restock_level", "10"),
			metaInt("desired_inventory_level", "25"),
		},
		Variants: []entity.CatalogVariant{{
			GID:              "gid://shopify/ProductVariant/200",
			Title:            "Talla M",
			SKU:              "CAM-M",
			InventoryItemGID: "gid://shopify/InventoryItem/300",
		}},
	}}
	h.inventory.levels = map[string]int{"300": 3}
}

func (h *runHarness) theRun(t *testing.T) *entity.Run {
	t.Helper()
	require.Len(t, h.runRepo.byID, 1, "debe persistirse exactamente un run")
	for _, run := range h.runRepo.byID {
		return run
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Caso feliz global: alerta evaluada, run + item persistidos, email enviado y
// work item conciliado.
func TestRun_CaminoFelizGlobal(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()

	result, err := h.uc.Execute(context.Background(), restock.RunContext{ActorID: "user-1"}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AlertCount)
	assert.True(t, result.HasAlerts)
	assert.Equal(t, 1, result.TotalProductsFound)
	assert.Equal(t, 1, result.TotalProductsChecked)
	assert.True(t, result.EmailSent)
	assert.Empty(t, result.Error)

	run := h.theRun(t)
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, 1, run.AlertCount)
	assert.Empty(t, run.ErrorMessage)
	assert.Contains(t, run.AlertsJSON, "CAM-M", "el snapshot JSON guarda las alertas")

	require.Len(t, h.itemRepo.items, 1)
	item := h.itemRepo.items[0]
	assert.Equal(t, run.ID, item.RunID)
	assert.Equal(t, 22, item.RestockAmount)

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "bodega@mitienda.com", h.mailer.sent[0].to)
	assert.Contains(t, h.mailer.sent[0].subject, "1 item(s)")
	assert.Contains(t, h.mailer.sent[0].body, "CAM-M")

	require.Len(t, h.workItemRepo.workItems, 1, "la conciliación crea el work item")
	assert.Contains(t, h.workItemRepo.workItems[0].Title, "Camiseta - Talla M")
}

// Sin destinatario resoluble no se envía correo aunque se pida.
func TestRun_SinDestinatarioNoEnviaEmail(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()
	h.settings.settings.EmailTo = ""

	result, err := h.uc.Execute(context.Background(), restock.RunContext{}, true)
	require.NoError(t, err)

	assert.False(t, result.EmailSent)
	assert.Empty(t, h.mailer.sent)
}

// El override de destinatario del run prevalece sobre el global.
func TestRun_OverrideDeDestinatario(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()

	_, err := h.uc.Execute(context.Background(), restock.RunContext{EmailOverride: "gerencia@mitienda.com"}, true)
	require.NoError(t, err)

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "gerencia@mitienda.com", h.mailer.sent[0].to)
}

// Configuración incompleta: no hay llamada de red pero el run queda auditado
// con el error capturado y cero items.
func TestRun_ConfigIncompletaPersisteRunConError(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()
	h.settings.settings.AccessToken = ""

	result, err := h.uc.Execute(context.Background(), restock.RunContext{}, false)
	require.NoError(t, err)

	assert.Zero(t, h.catalog.calls, "la validación corta antes de la primera llamada")
	assert.Contains(t, result.Error, entity.ParamAccessToken)
	assert.Zero(t, result.AlertCount)

	run := h.theRun(t)
	assert.Contains(t, run.ErrorMessage, entity.ParamAccessToken)
	assert.Zero(t, run.AlertCount)
	assert.Empty(t, h.itemRepo.items)
}

// Falla de fetch: el run se persiste igual con el error y cero items.
func TestRun_FallaDeFetchPersisteRunConError(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()
	h.catalog.err = domain.NewRemoteAPIError(429, "Throttled")

	result, err := h.uc.Execute(context.Background(), restock.RunContext{}, false)
	require.NoError(t, err)

	assert.Contains(t, result.Error, "Throttled")
	run := h.theRun(t)
	assert.Contains(t, run.ErrorMessage, "Throttled")
	assert.Zero(t, run.AlertCount)
	assert.Empty(t, h.webhook.posts, "sin alertas no hay POSTs de webhook")
}

// Webhook global: un POST por alerta con título, guid y cantidad.
func TestRun_WebhookGlobalUnPostPorAlerta(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()
	h.settings.settings.WebhookEnabled = true
	h.settings.settings.WebhookURL = "https://hooks.mitienda.com/restock"

	_, err := h.uc.Execute(context.Background(), restock.RunContext{}, false)
	require.NoError(t, err)

	require.Len(t, h.webhook.posts, 1)
	post := h.webhook.posts[0]
	assert.Equal(t, "https://hooks.mitienda.com/restock", post.url)
	assert.Equal(t, "RESTOCK ALERT: Camiseta - Talla M", post.payload.Title)
	assert.Equal(t, 22, post.payload.Amount)
	assert.NotEmpty(t, post.payload.GUID)
}

// El webhook habilitado en la Location prevalece sobre el global.
func TestRun_WebhookDeUbicacionPrevalece(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()
	h.settings.settings.WebhookEnabled = true
	h.settings.settings.WebhookURL = "https://hooks.mitienda.com/global"
	loc := &entity.Location{
		ID:                "loc-1",
		Name:              "Main Fulfillment Center",
		LocationIDNumeric: "111",
		Active:            true,
		WebhookEnabled:    true,
		WebhookURL:        "https://hooks.mitienda.com/fulfillment",
	}

	_, err := h.uc.Execute(context.Background(), restock.RunContext{Location: loc}, false)
	require.NoError(t, err)

	require.Len(t, h.webhook.posts, 1)
	assert.Equal(t, "https://hooks.mitienda.com/fulfillment", h.webhook.posts[0].url)
}

// ExecuteAll corre una ubicación activa tras otra, un run por ubicación.
func TestRun_ExecuteAllUnRunPorUbicacion(t *testing.T) {
	h := newRunHarness()
	h.withDefaults()
	h.locRepo.byID["loc-1"] = &entity.Location{ID: "loc-1", Name: "Main Fulfillment Center", LocationIDNumeric: "111", Active: true}
	h.locRepo.byID["loc-2"] = &entity.Location{ID: "loc-2", Name: "Downtown Retail", LocationIDNumeric: "222", Active: true}
	h.locRepo.active = []*entity.Location{h.locRepo.byID["loc-1"], h.locRepo.byID["loc-2"]}

	results, err := h.uc.ExecuteAll(context.Background(), h.locRepo, "user-1", false)
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Len(t, h.runRepo.byID, 2, "un run persistido por ubicación")
}
