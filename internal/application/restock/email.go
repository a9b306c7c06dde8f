package restock

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jhoicas/restock-api/internal/application/dto"
)

const emailBodyEmpty = "<html><body><p>No Online Store items require restocking at this time.</p></body></html>"

// buildEmailBody arma la tabla HTML del correo resumen. Los títulos vienen del
// catálogo remoto, así que se escapan.
func buildEmailBody(alerts []dto.AlertItemDTO, now time.Time) string {
	if len(alerts) == 0 {
		return emailBodyEmpty
	}

	var rows strings.Builder
	rows.WriteString("<tr><th>Urgency</th><th>Product</th><th>Variant</th><th>SKU</th><th>Current</th><th>Restock Level</th><th>Recommend</th></tr>")
	for _, a := range alerts {
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			a.Urgency,
			html.EscapeString(a.ProductTitle),
			html.EscapeString(a.VariantTitle),
			html.EscapeString(a.SKU),
			a.CurrentQty,
			a.RestockLevel,
			a.RestockAmount,
		))
	}

	return fmt.Sprintf(
		"<html><body>\n<p>Inventory Report: %d items need restocking.</p>\n"+
			"<table border=1 cellspacing=0 cellpadding=4>%s</table>"+
			"<p>Generated: %s</p>\n</body></html>",
		len(alerts), rows.String(), now.Format(time.RFC3339),
	)
}
