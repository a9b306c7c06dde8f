package restock

import (
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/restock"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// ChannelFilter decide qué productos entran en alcance de un run según su
// estado de publicación por canal y el perfil de la ubicación activa.
//
// Política (deliberadamente asimétrica):
//   - ubicación fulfillment: exige publicación en Online Store; no pide retail.
//   - ubicación retail (no fulfillment): exige publicación en un canal retail/POS.
//   - run sin marca (o global): basta con Online Store o retail/POS.
type ChannelFilter struct {
	log *logger.Logger
}

// NewChannelFilter construye el filtro.
func NewChannelFilter(log *logger.Logger) *ChannelFilter {
	return &ChannelFilter{log: log}
}

// InScope reporta si el producto entra en alcance para la ubicación dada.
func (f *ChannelFilter) InScope(product *entity.CatalogProduct, loc *entity.Location) bool {
	enforceOnline := loc != nil && loc.IsFulfillment()
	requireRetail := loc != nil && loc.IsRetail()

	publishedOnline := restock.PublishedToOnlineStore(product.Publications)

	publishedRetail := false
	if requireRetail || !enforceOnline {
		publishedRetail = restock.PublishedToRetail(product.Publications)
	}

	if enforceOnline && !publishedOnline {
		f.log.Debug().Str("producto", product.Title).Msg("omitido: no publicado en Online Store")
		return false
	}
	if requireRetail && !publishedRetail {
		f.log.Debug().Str("producto", product.Title).Msg("omitido: no publicado en canal retail/POS")
		return false
	}
	if !enforceOnline && !(publishedOnline || publishedRetail) {
		f.log.Debug().Str("producto", product.Title).Msg("omitido: sin publicación en Online Store ni retail")
		return false
	}
	return true
}

// Filter devuelve el subconjunto en alcance, preservando el orden.
func (f *ChannelFilter) Filter(products []entity.CatalogProduct, loc *entity.Location) []entity.CatalogProduct {
	inScope := make([]entity.CatalogProduct, 0, len(products))
	for i := range products {
		if f.InScope(&products[i], loc) {
			inScope = append(inScope, products[i])
		}
	}
	return inScope
}
