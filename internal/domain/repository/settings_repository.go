package repository

import "github.com/jhoicas/restock-api/internal/domain/entity"

// SettingsRepository puerto sobre la tabla de parámetros namespaced.
// Load lee todos los parámetros del motor al inicio de cada run; no hay caché
// entre runs para que las ediciones se reflejen de inmediato.
type SettingsRepository interface {
	Load() (*entity.Settings, error)
	Save(settings *entity.Settings) error
	GetParam(key string) (string, error)
	SetParam(key, value string) error
}
