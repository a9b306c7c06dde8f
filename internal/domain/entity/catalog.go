package entity

// Grafo de catálogo devuelto por el API remoto, ya normalizado (sin edges/nodes).

// Metafield campo personalizado tipado de producto o variante.
type Metafield struct {
	Key   string
	Value string
	Type  string // number_integer, number_decimal, boolean, json, texto libre
}

// Publication registro de publicación de un producto en un canal de venta.
type Publication struct {
	ChannelName   string
	ChannelHandle string
	IsPublished   bool
}

// CatalogVariant variante de producto del catálogo remoto.
type CatalogVariant struct {
	GID              string // gid://shopify/ProductVariant/...
	Title            string
	SKU              string
	InventoryItemGID string // gid://shopify/InventoryItem/...
	Metafields       []Metafield
}

// CatalogProduct producto del catálogo remoto con variantes, metafields y
// publicaciones por canal.
type CatalogProduct struct {
	GID          string // gid://shopify/Product/...
	Title        string
	Handle       string
	Metafields   []Metafield
	Publications []Publication
	Variants     []CatalogVariant
}
