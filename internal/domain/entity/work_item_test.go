package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// ──────────────────────────────────────────────────────────────────────────────
// State: precedencia status code -> stage closed -> stage fold.
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkItemState_StatusCodeDone(t *testing.T) {
	for _, code := range []string{"1_done", "done", "1_canceled", "canceled", "03_approved"} {
		w := entity.WorkItem{StatusCode: strPtr(code)}
		assert.Equal(t, entity.StateClosed, w.State(), "status %q debe contar como done", code)
	}
}

func TestWorkItemState_StatusCodeAbierto(t *testing.T) {
	w := entity.WorkItem{StatusCode: strPtr("01_in_progress")}
	assert.Equal(t, entity.StateOpen, w.State())
}

func TestWorkItemState_StatusCodeTieneUltimaPalabra(t *testing.T) {
	// Un status code presente y abierto gana aunque los flags de etapa
	// digan lo contrario.
	w := entity.WorkItem{
		StatusCode:  strPtr("01_in_progress"),
		StageClosed: boolPtr(true),
		StageFold:   boolPtr(true),
	}
	assert.Equal(t, entity.StateOpen, w.State())
}

func TestWorkItemState_SinStatusCodeUsaStageClosed(t *testing.T) {
	w := entity.WorkItem{StageClosed: boolPtr(true), StageFold: boolPtr(false)}
	assert.Equal(t, entity.StateClosed, w.State())

	// stage_closed presente y falso decide abierto sin consultar fold.
	w = entity.WorkItem{StageClosed: boolPtr(false), StageFold: boolPtr(true)}
	assert.Equal(t, entity.StateOpen, w.State())
}

func TestWorkItemState_SoloFoldDecide(t *testing.T) {
	w := entity.WorkItem{StageFold: boolPtr(true)}
	assert.Equal(t, entity.StateClosed, w.State())
}

func TestWorkItemState_SinCamposEsAbierto(t *testing.T) {
	var w entity.WorkItem
	assert.Equal(t, entity.StateOpen, w.State())
	assert.False(t, w.IsDone())
}

func TestWorkItemState_StatusCodeVacioCaeAEtapas(t *testing.T) {
	w := entity.WorkItem{StatusCode: strPtr(""), StageClosed: boolPtr(true)}
	assert.Equal(t, entity.StateClosed, w.State())
}

// ──────────────────────────────────────────────────────────────────────────────
// Item: NeededQty y DisplayTitle.
// ──────────────────────────────────────────────────────────────────────────────

func TestItemNeededQty_PrefiereMontoRecomendado(t *testing.T) {
	i := entity.Item{RestockAmount: 22, RestockLevel: 10, CurrentQty: 3}
	assert.Equal(t, 22, i.NeededQty())
}

func TestItemNeededQty_SinMontoUsaDeficit(t *testing.T) {
	i := entity.Item{RestockAmount: 0, RestockLevel: 10, CurrentQty: 3}
	assert.Equal(t, 7, i.NeededQty())
}

func TestItemNeededQty_NuncaNegativa(t *testing.T) {
	i := entity.Item{RestockAmount: 0, RestockLevel: 5, CurrentQty: 9}
	assert.Equal(t, 0, i.NeededQty())
}

func TestItemDisplayTitle_OmiteVarianteDefault(t *testing.T) {
	i := entity.Item{ProductTitle: "Camiseta", VariantTitle: "Default Title"}
	assert.Equal(t, "Camiseta", i.DisplayTitle())

	i.VariantTitle = "Talla M"
	assert.Equal(t, "Camiseta - Talla M", i.DisplayTitle())
}

// ──────────────────────────────────────────────────────────────────────────────
// Location: derivación del id numérico y marcas por nombre.
// ──────────────────────────────────────────────────────────────────────────────

func TestLocationNumericID_DerivaDelGlobal(t *testing.T) {
	l := entity.Location{LocationIDGlobal: "gid://shopify/Location/123456789"}
	assert.Equal(t, "123456789", l.NumericID())
}

func TestLocationNumericID_ExplicitoGana(t *testing.T) {
	l := entity.Location{LocationIDGlobal: "gid://shopify/Location/123", LocationIDNumeric: "999"}
	assert.Equal(t, "999", l.NumericID())
}

func TestLocationFulfillmentNuncaEsRetail(t *testing.T) {
	l := entity.Location{Name: "Retail Fulfilment Center"}
	assert.True(t, l.IsFulfillment())
	assert.False(t, l.IsRetail(), "una ubicación fulfillment no cuenta como retail aunque el nombre contenga ambas marcas")
}

func TestLocationRetailPorNombre(t *testing.T) {
	l := entity.Location{Name: "Downtown Retail Store"}
	assert.False(t, l.IsFulfillment())
	assert.True(t, l.IsRetail())
}
