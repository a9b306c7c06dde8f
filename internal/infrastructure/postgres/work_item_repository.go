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

var _ repository.WorkItemRepository = (*WorkItemRepo)(nil)

// WorkItemRepo work items del tracker sobre PostgreSQL (usable con pool o tx).
type WorkItemRepo struct {
	q Querier
}

// NewWorkItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkItemRepository(q Querier) *WorkItemRepo {
	return &WorkItemRepo{q: q}
}

const workItemColumns = `id, project_id, title, description, assignee_id, status_code,
		stage_closed, stage_fold, item_id, location_id, product_gid, variant_gid, sku,
		product_title, variant_title, created_at, updated_at`

// Create persiste un work item nuevo.
func (r *WorkItemRepo) Create(item *entity.WorkItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	query := `
		INSERT INTO work_items (` + workItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ProjectID, item.Title, item.Description, item.AssigneeID, item.StatusCode,
		item.StageClosed, item.StageFold, item.ItemID, item.LocationID, item.ProductGID,
		item.VariantGID, item.SKU, item.ProductTitle, item.VariantTitle, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create work item: %w", err)
	}
	return nil
}

// GetByID obtiene un work item por ID. Devuelve (nil, nil) si no existe.
func (r *WorkItemRepo) GetByID(id string) (*entity.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = $1`
	item, err := scanWorkItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work item: %w", err)
	}
	return item, nil
}

// UpdateDisplay reescribe título y descripción (merge de la conciliación).
func (r *WorkItemRepo) UpdateDisplay(id, title, description string) error {
	query := `UPDATE work_items SET title = $2, description = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, title, description)
	if err != nil {
		return fmt.Errorf("update work item display: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update work item %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// UpdateStatus cambia el status code del work item.
func (r *WorkItemRepo) UpdateStatus(id, statusCode string) error {
	query := `UPDATE work_items SET status_code = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, statusCode)
	if err != nil {
		return fmt.Errorf("update work item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update work item %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// SearchByKey busca work items del proyecto por el primer criterio con datos
// de la clave natural: ubicación+producto+variante, ubicación+producto, SKU,
// títulos. Resultados del más reciente al más antiguo.
func (r *WorkItemRepo) SearchByKey(projectID string, key repository.WorkItemKey) ([]*entity.WorkItem, error) {
	base := `SELECT ` + workItemColumns + ` FROM work_items WHERE project_id = $1`
	order := ` ORDER BY created_at DESC, id DESC`

	var query string
	var args []any
	switch {
	case key.LocationID != nil && key.ProductGID != "" && key.VariantGID != "":
		query = base + ` AND location_id = $2 AND product_gid = $3 AND variant_gid = $4` + order
		args = []any{projectID, *key.LocationID, key.ProductGID, key.VariantGID}
	case key.LocationID != nil && key.ProductGID != "":
		query = base + ` AND location_id = $2 AND product_gid = $3` + order
		args = []any{projectID, *key.LocationID, key.ProductGID}
	case key.SKU != "":
		query = base + ` AND sku = $2` + order
		args = []any{projectID, key.SKU}
	case key.ProductTitle != "" || key.VariantTitle != "":
		query = base + ` AND product_title = $2 AND variant_title = $3` + order
		args = []any{projectID, key.ProductTitle, key.VariantTitle}
	default:
		return nil, nil
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search work items: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Subscribe añade un observador al work item (idempotente).
func (r *WorkItemRepo) Subscribe(workItemID, userID string) error {
	query := `
		INSERT INTO work_item_watchers (work_item_id, user_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (work_item_id, user_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, workItemID, userID)
	if err != nil {
		return fmt.Errorf("subscribe work item: %w", err)
	}
	return nil
}

func scanWorkItem(row pgx.Row) (*entity.WorkItem, error) {
	var w entity.WorkItem
	err := row.Scan(
		&w.ID, &w.ProjectID, &w.Title, &w.Description, &w.AssigneeID, &w.StatusCode,
		&w.StageClosed, &w.StageFold, &w.ItemID, &w.LocationID, &w.ProductGID,
		&w.VariantGID, &w.SKU, &w.ProductTitle, &w.VariantTitle, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
