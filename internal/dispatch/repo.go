package dispatch

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one supplier's share of an order, queued for the
// supplier-facing channel (email/EDI, outside this service).
type Record struct {
	ID          int64
	OrderNumber string
	SupplierID  int64
	ItemCount   int
	Status      string // queued | notified
	CreatedAt   time.Time
}

type Repo struct{ DB *pgxpool.Pool }

// SaveAll records one row per supplier. The (order_number, supplier_id)
// unique index makes redelivered events harmless.
func (r *Repo) SaveAll(ctx context.Context, records []Record) error {
	for _, rec := range records {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO supplier_dispatches(order_number, supplier_id, item_count, status, created_at)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (order_number, supplier_id) DO NOTHING`,
			rec.OrderNumber, rec.SupplierID, rec.ItemCount, rec.Status, rec.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) FindByOrder(ctx context.Context, orderNumber string) ([]Record, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_number, supplier_id, item_count, status, created_at
		FROM supplier_dispatches WHERE order_number=$1 ORDER BY supplier_id`, orderNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.OrderNumber, &rec.SupplierID, &rec.ItemCount, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
