package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// requestTimeout tope para llamadas al Admin API; un run nunca cuelga
// indefinidamente en una página o un chunk.
const requestTimeout = 60 * time.Second

// maxErrorBody bytes del cuerpo incluidos en un RemoteAPIError.
const maxErrorBody = 2 * 1024

// Client adaptador del Admin API de Shopify (GraphQL para catálogo, REST para
// niveles de inventario). Usa net/http de la librería estándar; no requiere el
// SDK oficial.
type Client struct {
	httpClient *http.Client
}

// NewClient construye el adaptador.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithHTTP construye el adaptador con un http.Client propio
// (inyección del transporte en tests).
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// graphqlURL endpoint GraphQL del Admin API para la tienda configurada.
func graphqlURL(settings *entity.Settings) string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", settings.StoreDomain, settings.APIVersion)
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// postGraphQL ejecuta una consulta GraphQL y devuelve el payload data.
// Respuesta sin data (o no-2xx) produce RemoteAPIError con la lista de errores
// del API remoto.
func (c *Client) postGraphQL(ctx context.Context, settings *entity.Settings, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("serializar consulta GraphQL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlURL(settings), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", settings.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewRemoteAPIError(0, err.Error())
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, domain.NewRemoteAPIError(resp.StatusCode, "leer respuesta: "+err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewRemoteAPIError(resp.StatusCode, truncateBody(rawBody))
	}

	var gql graphqlResponse
	if err := json.Unmarshal(rawBody, &gql); err != nil {
		return nil, domain.NewRemoteAPIError(resp.StatusCode, "respuesta no es JSON: "+truncateBody(rawBody))
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return nil, domain.NewRemoteAPIError(resp.StatusCode, "GraphQL query error: "+string(gql.Errors))
	}
	return gql.Data, nil
}

// getJSON ejecuta un GET REST autenticado y deserializa la respuesta en out.
func (c *Client) getJSON(ctx context.Context, settings *entity.Settings, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", settings.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewRemoteAPIError(0, err.Error())
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return domain.NewRemoteAPIError(resp.StatusCode, "leer respuesta: "+err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewRemoteAPIError(resp.StatusCode, truncateBody(rawBody))
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return domain.NewRemoteAPIError(resp.StatusCode, "respuesta no es JSON: "+truncateBody(rawBody))
	}
	return nil
}

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}
