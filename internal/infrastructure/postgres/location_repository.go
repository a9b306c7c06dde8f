package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, name, location_id_global, location_id_numeric, active,
		webhook_enabled, webhook_url, dest_stock_location_id, created_at, updated_at`

// Create persiste una ubicación. El id global de Shopify es único.
func (r *LocationRepo) Create(location *entity.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if location.CreatedAt.IsZero() {
		location.CreatedAt = now
	}
	location.UpdatedAt = now
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.Name, location.LocationIDGlobal, location.LocationIDNumeric,
		location.Active, location.WebhookEnabled, location.WebhookURL, location.DestLocationID,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("location %s: %w", location.LocationIDGlobal, domain.ErrDuplicate)
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID. Devuelve (nil, nil) si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	loc, err := scanLocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// Update reescribe los campos editables de la ubicación.
func (r *LocationRepo) Update(location *entity.Location) error {
	location.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE locations SET
			name = $2, location_id_global = $3, location_id_numeric = $4, active = $5,
			webhook_enabled = $6, webhook_url = $7, dest_stock_location_id = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		location.ID, location.Name, location.LocationIDGlobal, location.LocationIDNumeric,
		location.Active, location.WebhookEnabled, location.WebhookURL, location.DestLocationID,
		location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("location %s: %w", location.LocationIDGlobal, domain.ErrDuplicate)
		}
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update location %s: %w", location.ID, pgx.ErrNoRows)
	}
	return nil
}

// ListActive devuelve las ubicaciones activas ordenadas por nombre.
func (r *LocationRepo) ListActive() ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE active ORDER BY name ASC`
	return r.list(query)
}

// List devuelve ubicaciones paginadas ordenadas por nombre.
func (r *LocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations
		ORDER BY name ASC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// Delete elimina una ubicación.
func (r *LocationRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete location %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (r *LocationRepo) list(query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, loc)
	}
	return list, rows.Err()
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var loc entity.Location
	err := row.Scan(
		&loc.ID, &loc.Name, &loc.LocationIDGlobal, &loc.LocationIDNumeric, &loc.Active,
		&loc.WebhookEnabled, &loc.WebhookURL, &loc.DestLocationID, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
