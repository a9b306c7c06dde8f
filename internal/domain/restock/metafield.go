package restock

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// ConvertMetafieldValue convierte el valor crudo de un metafield según su tipo
// declarado. Cualquier falla de conversión devuelve nil, nunca un error: un
// metafield malformado simplemente no aporta valor.
func ConvertMetafieldValue(fieldType, value string) any {
	if value == "" {
		return nil
	}
	switch fieldType {
	case "number_integer":
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil
		}
		return n
	case "number_decimal":
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		return d
	case "boolean":
		return strings.EqualFold(strings.TrimSpace(value), "true")
	case "json":
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return nil
		}
		return parsed
	default:
		return value
	}
}

// NumericMetafield busca target en la lista y devuelve su valor numérico como
// decimal, o nil si no existe o no es numérico.
func NumericMetafield(fields []entity.Metafield, target string) *decimal.Decimal {
	for _, f := range fields {
		if f.Key != target {
			continue
		}
		switch v := ConvertMetafieldValue(f.Type, f.Value).(type) {
		case int64:
			d := decimal.NewFromInt(v)
			return &d
		case decimal.Decimal:
			return &v
		}
		return nil
	}
	return nil
}
