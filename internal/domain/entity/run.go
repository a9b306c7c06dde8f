package entity

import "time"

// Run una ejecución completa de evaluación de restock, persistida con su
// resultado. Inmutable una vez creada salvo los contadores denormalizados.
// Es dueña de sus Items (cascade delete).
type Run struct {
	ID                   string
	Name                 string // por defecto el timestamp del reporte
	ReportTimestamp      time.Time
	TotalProductsFound   int // productos devueltos por el API sin filtrar
	TotalProductsChecked int // productos en alcance tras el filtro de canales
	AlertCount           int
	HasAlerts            bool
	EmailSent            bool
	EmailTo              string
	AlertsJSON           string  // snapshot serializado de las alertas generadas
	ErrorMessage         string  // vacío = run exitoso
	LocationID           *string // nil = run global/por defecto
	CreatedAt            time.Time
}
