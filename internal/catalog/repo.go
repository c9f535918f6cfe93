package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

var ErrNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `id, supplier_id, name, sku, supplier_reference, description,
	category, images, cost_price, selling_price, weight, stock_level, status,
	created_at, updated_at`

func (r *Repo) Create(ctx context.Context, p *Product) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO products(supplier_id, name, sku, supplier_reference, description,
		                     category, images, cost_price, selling_price, weight,
		                     stock_level, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id`,
		p.SupplierID, p.Name, p.SKU, p.SupplierReference, p.Description,
		p.Category, p.Images, p.CostPrice.String(), p.SellingPrice.String(), p.Weight,
		p.StockLevel, string(p.Status), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *Repo) Update(ctx context.Context, p *Product) error {
	p.TouchUpdated()
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name=$2, sku=$3, supplier_reference=$4, description=$5, category=$6,
		    images=$7, cost_price=$8, selling_price=$9, weight=$10,
		    stock_level=$11, status=$12, updated_at=$13
		WHERE id=$1`,
		p.ID, p.Name, p.SKU, p.SupplierReference, p.Description, p.Category,
		p.Images, p.CostPrice.String(), p.SellingPrice.String(), p.Weight,
		p.StockLevel, string(p.Status), p.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
}

func (r *Repo) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku=$1`, sku)
}

func (r *Repo) findOne(ctx context.Context, query string, arg any) (*Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *Repo) FindBySupplier(ctx context.Context, supplierID int64) ([]*Product, error) {
	return r.findMany(ctx, `SELECT `+productColumns+`
		FROM products WHERE supplier_id=$1 ORDER BY name`, supplierID)
}

// FindAvailable mirrors Product.IsAvailable at the query level.
func (r *Repo) FindAvailable(ctx context.Context) ([]*Product, error) {
	return r.findMany(ctx, `SELECT `+productColumns+`
		FROM products WHERE status=$1 AND stock_level > 0 ORDER BY name`,
		string(StatusAvailable))
}

// FindLowStock lists products at or below the threshold, skipping
// discontinued ones.
func (r *Repo) FindLowStock(ctx context.Context, threshold int) ([]*Product, error) {
	return r.findMany(ctx, `SELECT `+productColumns+`
		FROM products WHERE stock_level <= $1 AND status <> $2
		ORDER BY stock_level`, threshold, string(StatusDiscontinued))
}

func (r *Repo) Search(ctx context.Context, query string) ([]*Product, error) {
	pattern := "%" + query + "%"
	return r.findMany(ctx, `SELECT `+productColumns+`
		FROM products WHERE name ILIKE $1 OR sku ILIKE $1 ORDER BY name`, pattern)
}

func (r *Repo) List(ctx context.Context) ([]*Product, error) {
	return r.findMany(ctx, `SELECT `+productColumns+` FROM products ORDER BY sku`)
}

// AdjustStock applies a relative stock change from an admin edit.
// The guard keeps stock_level from going negative.
func (r *Repo) AdjustStock(ctx context.Context, id int64, delta int) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET stock_level = stock_level + $2, updated_at = now()
		WHERE id=$1 AND stock_level + $2 >= 0`, id, delta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) findMany(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p                 Product
		cost, selling, st string
	)
	err := row.Scan(&p.ID, &p.SupplierID, &p.Name, &p.SKU, &p.SupplierReference,
		&p.Description, &p.Category, &p.Images, &cost, &selling, &p.Weight,
		&p.StockLevel, &st, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.CostPrice, err = money.Parse(cost); err != nil {
		return nil, err
	}
	if p.SellingPrice, err = money.Parse(selling); err != nil {
		return nil, err
	}
	if p.Status, err = ParseStatus(st); err != nil {
		return nil, err
	}
	return &p, nil
}
