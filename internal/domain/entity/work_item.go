package entity

import "time"

// DoneState estado derivado de un work item, con etiqueta explícita en lugar
// de chequeos condicionales dispersos por presencia de campos.
type DoneState int

const (
	StateOpen DoneState = iota
	StateClosed
)

// closedStatusCodes códigos de estado que cuentan como "done" cuando el
// tracker expone un status code directo.
var closedStatusCodes = map[string]struct{}{
	"1_done":      {},
	"done":        {},
	"1_canceled":  {},
	"canceled":    {},
	"03_approved": {},
}

// WorkItem una unidad de trabajo asignada en el tracker externo. Se crea
// enlazada a lo sumo a un Item origen, pero varios Items de runs sucesivos
// pueden fusionarse contra ella (merge). La transición not-done -> done
// dispara la transferencia de inventario a lo sumo una vez.
type WorkItem struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	AssigneeID  string

	// Campos de estado, con presencia dependiente de la versión del tracker:
	// StatusCode tiene precedencia; si falta se usan los flags de etapa.
	StatusCode  *string
	StageClosed *bool
	StageFold   *bool

	// Item que originó el work item al crearse. No cambia en los merges:
	// la transferencia al completar se ejecuta sobre este item.
	ItemID *string

	// Clave natural para la conciliación entre runs.
	LocationID   *string
	ProductGID   string
	VariantGID   string
	SKU          string
	ProductTitle string
	VariantTitle string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State deriva el estado done/open con orden de precedencia fijo:
// status code -> flag closed de la etapa -> flag fold de la etapa.
// Si ninguno está presente, el work item se considera abierto.
func (w *WorkItem) State() DoneState {
	if w.StatusCode != nil && *w.StatusCode != "" {
		if _, ok := closedStatusCodes[*w.StatusCode]; ok {
			return StateClosed
		}
		return StateOpen
	}
	if w.StageClosed != nil {
		if *w.StageClosed {
			return StateClosed
		}
		return StateOpen
	}
	if w.StageFold != nil && *w.StageFold {
		return StateClosed
	}
	return StateOpen
}

// IsDone conveniencia sobre State.
func (w *WorkItem) IsDone() bool {
	return w.State() == StateClosed
}
