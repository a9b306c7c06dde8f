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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, run_id, product_title, variant_title, sku, product_handle, product_url,
		current_qty, restock_level, restock_amount, urgency, product_gid, variant_gid, work_item_id,
		transferred, transferred_at, transferred_by, transfer_error, created_at`

// CreateBatch persiste los items de un run en un solo round-trip por lote.
func (r *ItemRepo) CreateBatch(items []*entity.Item) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO restock_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		_, err := r.q.Exec(context.Background(), query,
			item.ID, item.RunID, item.ProductTitle, item.VariantTitle, item.SKU,
			item.ProductHandle, item.ProductURL, item.CurrentQty, item.RestockLevel,
			item.RestockAmount, item.Urgency, item.ProductGID, item.VariantGID, item.WorkItemID,
			item.Transferred, item.TransferredAt, item.TransferredBy, item.TransferError, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("create item %s: %w", item.ID, err)
		}
	}
	return nil
}

// GetByID obtiene un item por ID. Devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM restock_items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el item bloqueando su fila (SELECT FOR UPDATE).
// Devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM restock_items WHERE id = $1 FOR UPDATE`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return item, nil
}

// Update reescribe los campos mutables del item.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE restock_items SET
			work_item_id = $2, transferred = $3, transferred_at = $4,
			transferred_by = $5, transfer_error = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.WorkItemID, item.Transferred, item.TransferredAt,
		item.TransferredBy, item.TransferError,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item %s: %w", item.ID, pgx.ErrNoRows)
	}
	return nil
}

// ListByRun lista los items de un run en orden de creación.
func (r *ItemRepo) ListByRun(runID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM restock_items
		WHERE run_id = $1 ORDER BY created_at ASC, id ASC`
	return r.list(query, runID)
}

// ListByWorkItem lista los items enlazados a un work item, del más reciente
// al más antiguo. El primero es la lectura más fresca de cantidades.
func (r *ItemRepo) ListByWorkItem(workItemID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM restock_items
		WHERE work_item_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(query, workItemID)
}

func (r *ItemRepo) list(query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID, &item.RunID, &item.ProductTitle, &item.VariantTitle, &item.SKU,
		&item.ProductHandle, &item.ProductURL, &item.CurrentQty, &item.RestockLevel,
		&item.RestockAmount, &item.Urgency, &item.ProductGID, &item.VariantGID, &item.WorkItemID,
		&item.Transferred, &item.TransferredAt, &item.TransferredBy, &item.TransferError, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
