package entity

// Claves de configuración del motor de restock (tabla de parámetros namespaced).
const (
	ParamStoreDomain       = "restock.store_domain"
	ParamAccessToken       = "restock.access_token"
	ParamAPIVersion        = "restock.api_version"
	ParamLocationIDGlobal  = "restock.location_id_global"
	ParamLocationIDNumeric = "restock.location_id_numeric"
	ParamEmailTo           = "restock.email_to"
	ParamWebhookEnabled    = "restock.webhook_enabled"
	ParamWebhookURL        = "restock.webhook_url"
	ParamAssigneeID        = "restock.assignee_id"
	ParamAssigneeRequired  = "restock.assignee_required"
	ParamProjectID         = "restock.project_id"
	ParamSourceLocationID  = "restock.source_stock_location_id"
	ParamDestLocationID    = "restock.dest_stock_location_id"
)

// Settings configuración de un run, leída completa al inicio de cada ejecución.
// Nunca se cachea entre runs: debe reflejar la última edición de inmediato.
// Inmutable durante el run; los overrides por Location se aplican con Merged.
type Settings struct {
	StoreDomain       string
	AccessToken       string
	APIVersion        string // ej. 2023-04
	LocationIDGlobal  string // gid://shopify/Location/123456789
	LocationIDNumeric string // 123456789
	EmailTo           string
	WebhookEnabled    bool
	WebhookURL        string
	AssigneeID        string // usuario asignado a los work items creados
	AssigneeRequired  bool   // si true, un item sin asignable falla la conciliación
	ProjectID         string // proyecto donde se crean los work items
	SourceLocationID  string // bodega origen por defecto para transferencias
	DestLocationID    string // bodega destino global de respaldo
}

// Merged devuelve una copia con los overrides de la Location aplicados
// (identificadores de Shopify de la ubicación del run).
func (s Settings) Merged(loc *Location) Settings {
	if loc == nil {
		return s
	}
	out := s
	if loc.LocationIDGlobal != "" {
		out.LocationIDGlobal = loc.LocationIDGlobal
	}
	if numeric := loc.NumericID(); numeric != "" {
		out.LocationIDNumeric = numeric
	}
	return out
}
