package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

var _ repository.RunRepository = (*RunRepo)(nil)

// RunRepo implementación de RunRepository sobre PostgreSQL (usable con pool o tx).
type RunRepo struct {
	q Querier
}

// NewRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRunRepository(q Querier) *RunRepo {
	return &RunRepo{q: q}
}

const runColumns = `id, name, report_timestamp, total_products_found, total_products_checked,
		alert_count, has_alerts, email_sent, email_to, alerts_json, error_message, location_id, created_at`

// Create persiste un run con su resultado.
func (r *RunRepo) Create(run *entity.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO restock_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		run.ID, run.Name, run.ReportTimestamp, run.TotalProductsFound, run.TotalProductsChecked,
		run.AlertCount, run.HasAlerts, run.EmailSent, run.EmailTo, run.AlertsJSON,
		run.ErrorMessage, run.LocationID, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// GetByID obtiene un run por ID. Devuelve (nil, nil) si no existe.
func (r *RunRepo) GetByID(id string) (*entity.Run, error) {
	query := `SELECT ` + runColumns + ` FROM restock_runs WHERE id = $1`
	run, err := scanRun(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List devuelve runs del más reciente al más antiguo.
func (r *RunRepo) List(limit, offset int) ([]*entity.Run, error) {
	query := `SELECT ` + runColumns + ` FROM restock_runs
		ORDER BY report_timestamp DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

// Delete elimina un run; sus items caen en cascada (FK ON DELETE CASCADE).
func (r *RunRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM restock_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete run %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func scanRun(row pgx.Row) (*entity.Run, error) {
	var run entity.Run
	err := row.Scan(
		&run.ID, &run.Name, &run.ReportTimestamp, &run.TotalProductsFound, &run.TotalProductsChecked,
		&run.AlertCount, &run.HasAlerts, &run.EmailSent, &run.EmailTo, &run.AlertsJSON,
		&run.ErrorMessage, &run.LocationID, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
