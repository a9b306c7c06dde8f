package restock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// requiredSettings claves que deben estar definidas antes de la primera
// llamada de red de un run.
var requiredSettings = []struct {
	key   string
	value func(*entity.Settings) string
}{
	{entity.ParamStoreDomain, func(s *entity.Settings) string { return s.StoreDomain }},
	{entity.ParamAccessToken, func(s *entity.Settings) string { return s.AccessToken }},
	{entity.ParamAPIVersion, func(s *entity.Settings) string { return s.APIVersion }},
	{entity.ParamLocationIDNumeric, func(s *entity.Settings) string { return s.LocationIDNumeric }},
}

// RunUseCase orquesta una ejecución completa: carga la configuración fresca,
// trae el catálogo y los niveles de inventario, filtra por canales, evalúa
// umbrales, notifica (email y webhook, fallas tragadas), persiste el Run con
// sus Items y concilia los Items contra los work items abiertos.
type RunUseCase struct {
	settingsRepo repository.SettingsRepository
	runRepo      repository.RunRepository
	itemRepo     repository.ItemRepository
	catalog      CatalogGateway
	inventory    InventoryGateway
	filter       *ChannelFilter
	evaluator    *Evaluator
	reconciler   *Reconciler
	mailer       Mailer
	webhook      WebhookPoster
	log          *logger.Logger
}

// NewRunUseCase construye el caso de uso.
func NewRunUseCase(
	settingsRepo repository.SettingsRepository,
	runRepo repository.RunRepository,
	itemRepo repository.ItemRepository,
	catalog CatalogGateway,
	inventory InventoryGateway,
	filter *ChannelFilter,
	evaluator *Evaluator,
	reconciler *Reconciler,
	mailer Mailer,
	webhook WebhookPoster,
	log *logger.Logger,
) *RunUseCase {
	return &RunUseCase{
		settingsRepo: settingsRepo,
		runRepo:      runRepo,
		itemRepo:     itemRepo,
		catalog:      catalog,
		inventory:    inventory,
		filter:       filter,
		evaluator:    evaluator,
		reconciler:   reconciler,
		mailer:       mailer,
		webhook:      webhook,
		log:          log,
	}
}

// report resultado interno de la fase de evaluación.
type report struct {
	alerts       []dto.AlertItemDTO
	totalFound   int
	totalChecked int
	emailBody    string
}

// Execute corre una evaluación completa para el contexto dado. Una falla de
// fetch aborta la evaluación pero el Run se persiste igual con el error
// capturado y cero items, para que cada intento quede auditado.
func (uc *RunUseCase) Execute(ctx context.Context, rc RunContext, sendEmail bool) (*dto.RunResultDTO, error) {
	// Configuración fresca en cada run; overrides de la ubicación aplicados.
	base, err := uc.settingsRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	settings := base.Merged(rc.Location)

	emailTo := strings.TrimSpace(rc.EmailOverride)
	if emailTo == "" {
		emailTo = settings.EmailTo
	}

	now := time.Now()
	rep, runErr := uc.generateReport(ctx, rc, &settings, now)
	if runErr != nil {
		uc.log.Error().Err(runErr).Msg("evaluación de restock fallida")
		rep = &report{emailBody: emailBodyEmpty}
	}

	emailSent := false
	if sendEmail && emailTo != "" {
		subject := fmt.Sprintf("Shopify Restock: %d item(s) need attention", len(rep.alerts))
		if err := uc.mailer.Send(ctx, emailTo, subject, rep.emailBody); err != nil {
			uc.log.Warn().Err(err).Str("destinatario", emailTo).Msg("envío de email fallido, el run continúa")
		} else {
			emailSent = true
		}
	}

	uc.postToWebhook(ctx, rc, &settings, rep.alerts)

	run, items := uc.persist(rc, rep, runErr, emailTo, emailSent, now)
	if run == nil {
		return nil, fmt.Errorf("persistir run")
	}
	if len(items) > 0 {
		uc.reconciler.ReconcileItems(rc, &settings, items)
	}

	result := &dto.RunResultDTO{
		RunID:                run.ID,
		Alerts:               rep.alerts,
		AlertCount:           len(rep.alerts),
		HasAlerts:            len(rep.alerts) > 0,
		TotalProductsFound:   rep.totalFound,
		TotalProductsChecked: rep.totalChecked,
		EmailSent:            emailSent,
	}
	if runErr != nil {
		result.Error = runErr.Error()
	}
	return result, nil
}

// ExecuteAll corre cada ubicación activa secuencialmente, un Run por
// ubicación. Respeta los límites de tasa del API remoto: sin fan-out.
func (uc *RunUseCase) ExecuteAll(ctx context.Context, locationRepo repository.LocationRepository, actorID string, sendEmail bool) ([]dto.RunResultDTO, error) {
	locations, err := locationRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("listar ubicaciones activas: %w", err)
	}
	results := make([]dto.RunResultDTO, 0, len(locations))
	for _, loc := range locations {
		res, err := uc.Execute(ctx, RunContext{Location: loc, ActorID: actorID}, sendEmail)
		if err != nil {
			uc.log.Error().Err(err).Str("ubicacion", loc.Name).Msg("run de ubicación fallido")
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

// generateReport valida la configuración, trae catálogo y niveles y evalúa.
func (uc *RunUseCase) generateReport(ctx context.Context, rc RunContext, settings *entity.Settings, now time.Time) (*report, error) {
	for _, req := range requiredSettings {
		if strings.TrimSpace(req.value(settings)) == "" {
			return nil, domain.NewConfigError(req.key)
		}
	}

	products, err := uc.catalog.FetchAllProducts(ctx, settings)
	if err != nil {
		return nil, err
	}

	inScope := uc.filter.Filter(products, rc.Location)
	uc.log.Debug().Int("encontrados", len(products)).Int("en_alcance", len(inScope)).
		Msg("filtro de canales aplicado")

	levels, err := uc.inventory.FetchLevels(ctx, settings, CollectInventoryItemGIDs(inScope))
	if err != nil {
		return nil, err
	}

	alerts := uc.evaluator.Evaluate(settings, inScope, levels, now)
	return &report{
		alerts:       alerts,
		totalFound:   len(products),
		totalChecked: len(inScope),
		emailBody:    buildEmailBody(alerts, now),
	}, nil
}

// postToWebhook publica cada alerta. El webhook de la Location, si está
// habilitado, prevalece sobre el global. Las fallas por item se ignoran.
func (uc *RunUseCase) postToWebhook(ctx context.Context, rc RunContext, settings *entity.Settings, alerts []dto.AlertItemDTO) {
	url := ""
	switch {
	case rc.Location != nil && rc.Location.WebhookEnabled && rc.Location.WebhookURL != "":
		url = rc.Location.WebhookURL
	case settings.WebhookEnabled:
		url = settings.WebhookURL
	}
	if url == "" {
		return
	}
	for _, alert := range alerts {
		payload := WebhookPayload{Title: alert.Title, GUID: alert.GUID, Amount: alert.RestockAmount}
		if err := uc.webhook.Post(ctx, url, payload); err != nil {
			uc.log.Warn().Err(err).Str("guid", alert.GUID).Msg("POST de webhook fallido, item ignorado")
		}
	}
}

// persist guarda el Run y sus Items. El Run se crea incluso cuando la
// evaluación falló (con el mensaje de error y cero items).
func (uc *RunUseCase) persist(rc RunContext, rep *report, runErr error, emailTo string, emailSent bool, now time.Time) (*entity.Run, []*entity.Item) {
	alertsJSON, err := json.Marshal(rep.alerts)
	if err != nil {
		alertsJSON = []byte("[]")
	}

	run := &entity.Run{
		Name:                 now.Format("2006-01-02 15:04:05"),
		ReportTimestamp:      now,
		TotalProductsFound:   rep.totalFound,
		TotalProductsChecked: rep.totalChecked,
		AlertCount:           len(rep.alerts),
		HasAlerts:            len(rep.alerts) > 0,
		EmailSent:            emailSent,
		EmailTo:              emailTo,
		AlertsJSON:           string(alertsJSON),
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	if rc.Location != nil {
		run.LocationID = &rc.Location.ID
	}
	if err := uc.runRepo.Create(run); err != nil {
		uc.log.Error().Err(err).Msg("persistir run")
		return nil, nil
	}

	items := make([]*entity.Item, 0, len(rep.alerts))
	for _, alert := range rep.alerts {
		urgency := alert.Urgency
		if urgency == "" {
			urgency = entity.UrgencyLow
		}
		items = append(items, &entity.Item{
			RunID:         run.ID,
			ProductTitle:  alert.ProductTitle,
			VariantTitle:  alert.VariantTitle,
			SKU:           alert.SKU,
			ProductHandle: alert.ProductHandle,
			ProductURL:    alert.Link,
			CurrentQty:    alert.CurrentQty,
			RestockLevel:  alert.RestockLevel,
			RestockAmount: alert.RestockAmount,
			Urgency:       urgency,
			ProductGID:    alert.ProductGID,
			VariantGID:    alert.VariantGID,
		})
	}
	if len(items) > 0 {
		if err := uc.itemRepo.CreateBatch(items); err != nil {
			uc.log.Error().Err(err).Str("run", run.ID).Msg("persistir items del run")
			return run, nil
		}
	}
	return run, items
}
