package dto

import "time"

// AlertItemDTO una variante marcada bajo umbral en un run. Es el snapshot que
// se serializa en el Run, se envía al webhook y alimenta la conciliación.
type AlertItemDTO struct {
	ID            string    `json:"id"` // restock-{productGID}-{variantGID}-{fecha}
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Link          string    `json:"link"`
	GUID          string    `json:"guid"`
	PubDate       time.Time `json:"pub_date"`
	Category      string    `json:"category"`
	ProductTitle  string    `json:"product_title"`
	VariantTitle  string    `json:"variant_title"`
	SKU           string    `json:"sku"`
	ProductHandle string    `json:"product_handle"`
	CurrentQty    int       `json:"current_qty"`
	RestockLevel  int       `json:"restock_level"`
	RestockAmount int       `json:"restock_amount"`
	ProductGID    string    `json:"product_id"`
	VariantGID    string    `json:"variant_id"`
	Urgency       string    `json:"urgency"`
}

// RunResultDTO resultado de una ejecución completa.
type RunResultDTO struct {
	RunID                string         `json:"run_id"`
	Alerts               []AlertItemDTO `json:"alerts"`
	AlertCount           int            `json:"alert_count"`
	HasAlerts            bool           `json:"has_alerts"`
	TotalProductsFound   int            `json:"total_products_found"`
	TotalProductsChecked int            `json:"total_products_checked"`
	EmailSent            bool           `json:"email_sent"`
	Error                string         `json:"error,omitempty"`
}

// RunSummaryDTO fila del listado de runs.
type RunSummaryDTO struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	ReportTimestamp      time.Time `json:"report_timestamp"`
	TotalProductsFound   int       `json:"total_products_found"`
	TotalProductsChecked int       `json:"total_products_checked"`
	AlertCount           int       `json:"alert_count"`
	HasAlerts            bool      `json:"has_alerts"`
	EmailSent            bool      `json:"email_sent"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	LocationID           *string   `json:"location_id,omitempty"`
}

// ReportRowDTO fila del reporte de inventario (todas las variantes con stock
// en la ubicación, sin umbrales).
type ReportRowDTO struct {
	ProductTitle string `json:"product_title"`
	VariantTitle string `json:"variant_title"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
}

// InventoryReportDTO reporte completo de inventario en una ubicación.
type InventoryReportDTO struct {
	Rows              []ReportRowDTO `json:"rows"`
	RowCount          int            `json:"row_count"`
	LocationIDNumeric string         `json:"location_id_numeric"`
}

// RunNowRequest parámetros del disparo manual de un run.
type RunNowRequest struct {
	LocationID string `json:"location_id"` // vacío = run global
	EmailTo    string `json:"email_to"`    // override de destinatario para este run
	AssigneeID string `json:"assignee_id"` // override de asignado para este run
	SendEmail  *bool  `json:"send_email"`  // nil = true
}

// WorkItemStatusRequest cambio de estado de un work item.
type WorkItemStatusRequest struct {
	StatusCode string `json:"status_code"`
}

// LocationRequest alta/edición de una Location.
type LocationRequest struct {
	Name              string `json:"name"`
	LocationIDGlobal  string `json:"location_id_global"`
	LocationIDNumeric string `json:"location_id_numeric"`
	Active            *bool  `json:"active"`
	WebhookEnabled    bool   `json:"webhook_enabled"`
	WebhookURL        string `json:"webhook_url"`
	DestLocationID    string `json:"dest_location_id"`
}

// SettingsRequest edición de parámetros del motor.
type SettingsRequest struct {
	StoreDomain       string `json:"store_domain"`
	AccessToken       string `json:"access_token"`
	APIVersion        string `json:"api_version"`
	LocationIDGlobal  string `json:"location_id_global"`
	LocationIDNumeric string `json:"location_id_numeric"`
	EmailTo           string `json:"email_to"`
	WebhookEnabled    bool   `json:"webhook_enabled"`
	WebhookURL        string `json:"webhook_url"`
	AssigneeID        string `json:"assignee_id"`
	AssigneeRequired  bool   `json:"assignee_required"`
	ProjectID         string `json:"project_id"`
	SourceLocationID  string `json:"source_stock_location_id"`
	DestLocationID    string `json:"dest_stock_location_id"`
}

// ErrorResponse respuesta de error del API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
