package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

var _ repository.StockLocationRepository = (*StockLocationRepo)(nil)

// StockLocationRepo bodegas locales sobre PostgreSQL (usable con pool o tx).
type StockLocationRepo struct {
	q Querier
}

// NewStockLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLocationRepository(q Querier) *StockLocationRepo {
	return &StockLocationRepo{q: q}
}

const stockLocationColumns = `id, name, usage, is_default, created_at`

// GetByID obtiene una bodega por ID. Devuelve (nil, nil) si no existe.
func (r *StockLocationRepo) GetByID(id string) (*entity.StockLocation, error) {
	query := `SELECT ` + stockLocationColumns + ` FROM stock_locations WHERE id = $1`
	loc, err := scanStockLocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock location: %w", err)
	}
	return loc, nil
}

// GetDefaultInternal devuelve la bodega interna por defecto; (nil, nil) si no hay.
func (r *StockLocationRepo) GetDefaultInternal() (*entity.StockLocation, error) {
	query := `SELECT ` + stockLocationColumns + ` FROM stock_locations
		WHERE usage = $1 AND is_default ORDER BY created_at ASC LIMIT 1`
	loc, err := scanStockLocation(r.q.QueryRow(context.Background(), query, entity.LocationUsageInternal))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default stock location: %w", err)
	}
	return loc, nil
}

// List devuelve todas las bodegas ordenadas por nombre.
func (r *StockLocationRepo) List() ([]*entity.StockLocation, error) {
	query := `SELECT ` + stockLocationColumns + ` FROM stock_locations ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLocation
	for rows.Next() {
		loc, err := scanStockLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock location: %w", err)
		}
		list = append(list, loc)
	}
	return list, rows.Err()
}

func scanStockLocation(row pgx.Row) (*entity.StockLocation, error) {
	var loc entity.StockLocation
	err := row.Scan(&loc.ID, &loc.Name, &loc.Usage, &loc.IsDefault, &loc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
