package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrInvalidMovement = errors.New("transición de movimiento inválida")
)

// ConfigError indica que falta un parámetro de configuración obligatorio.
// Aborta el run antes de cualquier llamada de red.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuración faltante: %s", e.Key)
}

// NewConfigError construye el error para la clave faltante.
func NewConfigError(key string) error {
	return &ConfigError{Key: key}
}

// RemoteAPIError indica una falla de transporte o una respuesta malformada del
// API remoto de Shopify. Aborta la fase de evaluación, pero el run se persiste
// igual con el mensaje capturado para dejar rastro de auditoría.
type RemoteAPIError struct {
	Status  int    // código HTTP; 0 si el transporte falló antes de responder
	Message string // detalle (lista de errores GraphQL, cuerpo truncado, etc.)
}

func (e *RemoteAPIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("API remoto HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API remoto: %s", e.Message)
}

// NewRemoteAPIError construye el error de API remoto.
func NewRemoteAPIError(status int, message string) error {
	return &RemoteAPIError{Status: status, Message: message}
}
