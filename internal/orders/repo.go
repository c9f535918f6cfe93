package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kelvinsinsua/scalaya-backend/internal/catalog"
	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

var ErrNotFound = errors.New("order not found")

// Repo persists Order aggregates. An order and its items travel as a
// unit: writes happen inside a single transaction, updates replace
// the item set wholesale (delete + reinsert), so an item cannot
// outlive its order.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(order_number, customer_id, shipping_address_id,
		                   subtotal, tax_amount, shipping_amount, total_amount,
		                   status, shipped_at, delivered_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`,
		o.OrderNumber(), o.CustomerID, o.AddressID,
		o.Subtotal().String(), o.TaxAmount().String(), o.ShippingAmount().String(), o.TotalAmount().String(),
		string(o.Status()), o.ShippedAt, o.DeliveredAt, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) Update(ctx context.Context, o *Order) error {
	o.TouchUpdated()

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE orders
		SET subtotal=$2, tax_amount=$3, shipping_amount=$4, total_amount=$5,
		    status=$6, shipped_at=$7, delivered_at=$8, updated_at=$9,
		    shipping_address_id=$10
		WHERE id=$1`,
		o.ID,
		o.Subtotal().String(), o.TaxAmount().String(), o.ShippingAmount().String(), o.TotalAmount().String(),
		string(o.Status()), o.ShippedAt, o.DeliveredAt, o.UpdatedAt, o.AddressID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, o *Order) error {
	for _, item := range o.Items() {
		var productID *int64
		if p := item.Product(); p != nil {
			productID = &p.ID
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id`,
			o.ID, productID, item.Quantity(), item.UnitPrice().String(), item.LineTotal().String(),
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	// order_items has ON DELETE CASCADE
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const orderColumns = `o.id, o.order_number, o.customer_id, o.shipping_address_id,
	o.subtotal, o.tax_amount, o.shipping_amount, o.total_amount,
	o.status, o.shipped_at, o.delivered_at, o.created_at, o.updated_at`

func (r *Repo) FindByNumber(ctx context.Context, number string) (*Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.order_number=$1`, number)
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id=$1`, id)
}

func (r *Repo) findOne(ctx context.Context, query string, arg any) (*Order, error) {
	row := r.DB.QueryRow(ctx, query, arg)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) FindByStatus(ctx context.Context, status Status) ([]*Order, error) {
	return r.findMany(ctx, `SELECT `+orderColumns+`
		FROM orders o WHERE o.status=$1 ORDER BY o.created_at DESC`, string(status))
}

func (r *Repo) FindByCustomer(ctx context.Context, customerID int64) ([]*Order, error) {
	return r.findMany(ctx, `SELECT `+orderColumns+`
		FROM orders o WHERE o.customer_id=$1 ORDER BY o.created_at DESC`, customerID)
}

func (r *Repo) FindRecent(ctx context.Context, days int) ([]*Order, error) {
	since := time.Now().AddDate(0, 0, -days)
	return r.findMany(ctx, `SELECT `+orderColumns+`
		FROM orders o WHERE o.created_at >= $1 ORDER BY o.created_at DESC`, since)
}

// Search matches order number, customer email or customer name.
func (r *Repo) Search(ctx context.Context, query string) ([]*Order, error) {
	pattern := "%" + query + "%"
	return r.findMany(ctx, `SELECT `+orderColumns+`
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.order_number ILIKE $1
		   OR c.email ILIKE $1
		   OR (c.first_name || ' ' || c.last_name) ILIKE $1
		ORDER BY o.created_at DESC`, pattern)
}

func (r *Repo) findMany(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// StatusStat is one row of the dashboard roll-up.
type StatusStat struct {
	Status Status
	Count  int
	Total  money.Amount
}

func (r *Repo) Statistics(ctx context.Context) ([]StatusStat, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusStat
	for rows.Next() {
		var (
			status string
			count  int
			total  string
		)
		if err := rows.Scan(&status, &count, &total); err != nil {
			return nil, err
		}
		amount, err := money.Parse(total)
		if err != nil {
			return nil, err
		}
		out = append(out, StatusStat{Status: Status(status), Count: count, Total: amount})
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o                                  Order
		subtotal, tax, shipping, total, st string
	)
	err := row.Scan(&o.ID, &o.orderNumber, &o.CustomerID, &o.AddressID,
		&subtotal, &tax, &shipping, &total,
		&st, &o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.status, err = ParseStatus(st); err != nil {
		return nil, err
	}
	if o.subtotal, err = money.Parse(subtotal); err != nil {
		return nil, err
	}
	if o.taxAmount, err = money.Parse(tax); err != nil {
		return nil, err
	}
	if o.shipping, err = money.Parse(shipping); err != nil {
		return nil, err
	}
	if o.total, err = money.Parse(total); err != nil {
		return nil, err
	}
	return &o, nil
}

// loadItems hydrates the item collection, joining the product snapshot
// needed by the stock validator and the dispatch worker.
func (r *Repo) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.quantity, i.unit_price, i.line_total,
		       p.id, p.supplier_id, p.name, p.sku, p.cost_price, p.selling_price,
		       p.stock_level, p.status
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                     OrderItem
			unitPrice, lineTotal     string
			pID, pSupplier           *int64
			pName, pSKU              *string
			pCost, pSelling, pStatus *string
			pStock                   *int
		)
		err := rows.Scan(&item.ID, &item.quantity, &unitPrice, &lineTotal,
			&pID, &pSupplier, &pName, &pSKU, &pCost, &pSelling, &pStock, &pStatus)
		if err != nil {
			return err
		}
		if item.unitPrice, err = money.Parse(unitPrice); err != nil {
			return err
		}
		if item.lineTotal, err = money.Parse(lineTotal); err != nil {
			return err
		}
		if pID != nil {
			p := &catalog.Product{ID: *pID}
			if pSupplier != nil {
				p.SupplierID = *pSupplier
			}
			if pName != nil {
				p.Name = *pName
			}
			if pSKU != nil {
				p.SKU = *pSKU
			}
			if pStock != nil {
				p.StockLevel = *pStock
			}
			if pCost != nil {
				if p.CostPrice, err = money.Parse(*pCost); err != nil {
					return err
				}
			}
			if pSelling != nil {
				if p.SellingPrice, err = money.Parse(*pSelling); err != nil {
					return err
				}
			}
			if pStatus != nil {
				if p.Status, err = catalog.ParseStatus(*pStatus); err != nil {
					return err
				}
			}
			item.product = p
		}
		item.order = o
		o.items = append(o.items, &item)
	}
	return rows.Err()
}
