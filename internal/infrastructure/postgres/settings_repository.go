package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración del motor sobre una tabla clave/valor namespaced.
// Sin caché: cada Load lee la tabla para que las ediciones apliquen al run
// siguiente de inmediato.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Load lee todos los parámetros del namespace restock.* y arma el Settings.
// Las claves ausentes quedan en su valor cero.
func (r *SettingsRepo) Load() (*entity.Settings, error) {
	query := `SELECT key, value FROM config_params WHERE key LIKE 'restock.%'`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	params := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan param: %w", err)
		}
		params[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	s := &entity.Settings{
		StoreDomain:       params[entity.ParamStoreDomain],
		AccessToken:       params[entity.ParamAccessToken],
		APIVersion:        params[entity.ParamAPIVersion],
		LocationIDGlobal:  params[entity.ParamLocationIDGlobal],
		LocationIDNumeric: params[entity.ParamLocationIDNumeric],
		EmailTo:           params[entity.ParamEmailTo],
		WebhookEnabled:    paramBool(params[entity.ParamWebhookEnabled]),
		WebhookURL:        params[entity.ParamWebhookURL],
		AssigneeID:        params[entity.ParamAssigneeID],
		AssigneeRequired:  paramBool(params[entity.ParamAssigneeRequired]),
		ProjectID:         params[entity.ParamProjectID],
		SourceLocationID:  params[entity.ParamSourceLocationID],
		DestLocationID:    params[entity.ParamDestLocationID],
	}
	return s, nil
}

// Save persiste el Settings completo, clave por clave (upsert).
func (r *SettingsRepo) Save(settings *entity.Settings) error {
	values := map[string]string{
		entity.ParamStoreDomain:       settings.StoreDomain,
		entity.ParamAccessToken:       settings.AccessToken,
		entity.ParamAPIVersion:        settings.APIVersion,
		entity.ParamLocationIDGlobal:  settings.LocationIDGlobal,
		entity.ParamLocationIDNumeric: settings.LocationIDNumeric,
		entity.ParamEmailTo:           settings.EmailTo,
		entity.ParamWebhookEnabled:    formatBool(settings.WebhookEnabled),
		entity.ParamWebhookURL:        settings.WebhookURL,
		entity.ParamAssigneeID:        settings.AssigneeID,
		entity.ParamAssigneeRequired:  formatBool(settings.AssigneeRequired),
		entity.ParamProjectID:         settings.ProjectID,
		entity.ParamSourceLocationID:  settings.SourceLocationID,
		entity.ParamDestLocationID:    settings.DestLocationID,
	}
	for key, value := range values {
		if err := r.SetParam(key, value); err != nil {
			return err
		}
	}
	return nil
}

// GetParam devuelve el valor de un parámetro; "" si no existe.
func (r *SettingsRepo) GetParam(key string) (string, error) {
	var value string
	err := r.q.QueryRow(context.Background(),
		`SELECT value FROM config_params WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get param %s: %w", key, err)
	}
	return value, nil
}

// SetParam inserta o actualiza un parámetro.
func (r *SettingsRepo) SetParam(key, value string) error {
	query := `
		INSERT INTO config_params (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, key, value)
	if err != nil {
		return fmt.Errorf("set param %s: %w", key, err)
	}
	return nil
}

func paramBool(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
