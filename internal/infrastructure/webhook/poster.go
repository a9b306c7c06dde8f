package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain"
)

// Verificar en tiempo de compilación que Poster implementa WebhookPoster.
var _ restock.WebhookPoster = (*Poster)(nil)

// Poster publica alertas de restock como JSON vía HTTP POST.
// Usa net/http de la librería estándar; un POST por alerta.
type Poster struct {
	httpClient *http.Client
}

// NewPoster construye el poster con timeout de red propio.
func NewPoster() *Poster {
	return &Poster{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Post envía el payload al webhook. Respuestas fuera de 2xx se devuelven como
// RemoteAPIError; el caller decide si tragarlas.
func (p *Poster) Post(ctx context.Context, url string, payload restock.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serializar payload de webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crear request de webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.NewRemoteAPIError(0, fmt.Sprintf("webhook POST %s: %v", url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Leer un poco del cuerpo para diagnóstico; se descarta el resto.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.NewRemoteAPIError(resp.StatusCode, fmt.Sprintf("webhook POST %s: %s", url, string(snippet)))
	}
	return nil
}
