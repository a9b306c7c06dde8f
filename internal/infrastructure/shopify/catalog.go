package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Verificación en tiempo de compilación del puerto de catálogo.
var _ restock.CatalogGateway = (*Client)(nil)

// productsQuery página de 50 productos con metafields del namespace "custom",
// publicaciones por canal y hasta 50 variantes con su inventory item.
const productsQuery = `
query ($cursor: String) {
  products(first: 50, after: $cursor) {
    edges {
      node {
        id
        title
        handle
        metafields(namespace: "custom", first: 5) {
          edges { node { key value type } }
        }
        publications(first: 10) {
          edges { node { channel { id name handle } isPublished publishDate } }
        }
        variants(first: 50) {
          edges {
            node {
              id title sku
              inventoryItem { id }
              metafields(namespace: "custom", first: 5) {
                edges { node { key value type } }
              }
            }
          }
        }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// Estructuras del grafo GraphQL (edges/nodes) antes de normalizar.

type metafieldEdges struct {
	Edges []struct {
		Node struct {
			Key   string `json:"key"`
			Value string `json:"value"`
			Type  string `json:"type"`
		} `json:"node"`
	} `json:"edges"`
}

type productsPayload struct {
	Products struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
	} `json:"products"`
}

type productNode struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Handle       string         `json:"handle"`
	Metafields   metafieldEdges `json:"metafields"`
	Publications struct {
		Edges []struct {
			Node struct {
				Channel struct {
					Name   string `json:"name"`
					Handle string `json:"handle"`
				} `json:"channel"`
				IsPublished bool `json:"isPublished"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"publications"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID            string `json:"id"`
				Title         string `json:"title"`
				SKU           string `json:"sku"`
				InventoryItem struct {
					ID string `json:"id"`
				} `json:"inventoryItem"`
				Metafields metafieldEdges `json:"metafields"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// FetchAllProducts pagina el catálogo completo por cursor: repite la consulta
// con el endCursor de la página anterior hasta que hasNextPage sea falso, y
// acumula todos los edges normalizados.
func (c *Client) FetchAllProducts(ctx context.Context, settings *entity.Settings) ([]entity.CatalogProduct, error) {
	var all []entity.CatalogProduct
	cursor := ""
	for {
		variables := map[string]any{}
		if cursor != "" {
			variables["cursor"] = cursor
		}
		data, err := c.postGraphQL(ctx, settings, productsQuery, variables)
		if err != nil {
			return nil, err
		}
		var payload productsPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("deserializar página de productos: %w", err)
		}
		for _, edge := range payload.Products.Edges {
			all = append(all, normalizeProduct(edge.Node))
		}
		if !payload.Products.PageInfo.HasNextPage {
			return all, nil
		}
		cursor = payload.Products.PageInfo.EndCursor
	}
}

// normalizeProduct aplana el grafo de edges/nodes a la entidad de catálogo.
func normalizeProduct(node productNode) entity.CatalogProduct {
	product := entity.CatalogProduct{
		GID:        node.ID,
		Title:      node.Title,
		Handle:     node.Handle,
		Metafields: normalizeMetafields(node.Metafields),
	}
	for _, pub := range node.Publications.Edges {
		product.Publications = append(product.Publications, entity.Publication{
			ChannelName:   pub.Node.Channel.Name,
			ChannelHandle: pub.Node.Channel.Handle,
			IsPublished:   pub.Node.IsPublished,
		})
	}
	for _, v := range node.Variants.Edges {
		product.Variants = append(product.Variants, entity.CatalogVariant{
			GID:              v.Node.ID,
			Title:            v.Node.Title,
			SKU:              v.Node.SKU,
			InventoryItemGID: v.Node.InventoryItem.ID,
			Metafields:       normalizeMetafields(v.Node.Metafields),
		})
	}
	return product
}

func normalizeMetafields(edges metafieldEdges) []entity.Metafield {
	var fields []entity.Metafield
	for _, e := range edges.Edges {
		fields = append(fields, entity.Metafield{
			Key:   e.Node.Key,
			Value: e.Node.Value,
			Type:  e.Node.Type,
		})
	}
	return fields
}
