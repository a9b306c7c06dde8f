package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Ciclo completo: draft -> confirmed -> assigned -> done.
func TestStockMovement_CicloCompleto(t *testing.T) {
	m := entity.StockMovement{State: entity.MovementStateDraft, Quantity: decimal.NewFromInt(7)}

	require.NoError(t, m.Confirm())
	assert.Equal(t, entity.MovementStateConfirmed, m.State)

	require.NoError(t, m.Reserve())
	assert.Equal(t, entity.MovementStateAssigned, m.State)

	require.NoError(t, m.SetDoneQuantity(decimal.NewFromInt(7)))
	require.NoError(t, m.Finalize())
	assert.Equal(t, entity.MovementStateDone, m.State)
	assert.True(t, m.DoneQty.Equal(decimal.NewFromInt(7)))
}

func TestStockMovement_TransicionesFueraDeOrden(t *testing.T) {
	m := entity.StockMovement{State: entity.MovementStateDraft}

	// Reservar sin confirmar.
	assert.ErrorIs(t, m.Reserve(), domain.ErrInvalidMovement)
	// Finalizar desde draft.
	assert.ErrorIs(t, m.Finalize(), domain.ErrInvalidMovement)
	// Confirmar dos veces.
	require.NoError(t, m.Confirm())
	assert.ErrorIs(t, m.Confirm(), domain.ErrInvalidMovement)
}

func TestStockMovement_FinalizeExigeDoneQty(t *testing.T) {
	m := entity.StockMovement{State: entity.MovementStateDraft}
	require.NoError(t, m.Confirm())
	require.NoError(t, m.Reserve())

	// Sin cantidad hecha no se puede cerrar.
	assert.ErrorIs(t, m.Finalize(), domain.ErrInvalidMovement)
	// Cantidad hecha no positiva tampoco vale.
	assert.ErrorIs(t, m.SetDoneQuantity(decimal.Zero), domain.ErrInvalidMovement)

	require.NoError(t, m.SetDoneQuantity(decimal.NewFromInt(3)))
	require.NoError(t, m.Finalize())
}
