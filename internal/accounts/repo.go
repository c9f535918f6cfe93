package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("account not found")

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CustomerRepo persists Customer rows. Email lookups are the hot path
// for login; reset-token lookups match the sha256 hash, never the
// plain token.
type CustomerRepo struct{ DB *pgxpool.Pool }

const customerColumns = `id, email, first_name, last_name, phone,
	billing_address_id, shipping_address_id, status, password_hash,
	password_reset_token, password_reset_expires_at, created_at, updated_at`

func (r *CustomerRepo) Create(ctx context.Context, c *Customer) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO customers(email, first_name, last_name, phone,
		                      billing_address_id, shipping_address_id, status,
		                      password_hash, password_reset_token,
		                      password_reset_expires_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`,
		c.Email, c.FirstName, c.LastName, c.Phone,
		c.BillingAddressID, c.ShippingAddressID, string(c.Status),
		c.PasswordHash, c.ResetTokenHash, c.ResetTokenExpires,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *CustomerRepo) Update(ctx context.Context, c *Customer) error {
	c.TouchUpdated()
	ct, err := r.DB.Exec(ctx, `
		UPDATE customers
		SET email=$2, first_name=$3, last_name=$4, phone=$5,
		    billing_address_id=$6, shipping_address_id=$7, status=$8,
		    password_hash=$9, password_reset_token=$10,
		    password_reset_expires_at=$11, updated_at=$12
		WHERE id=$1`,
		c.ID, c.Email, c.FirstName, c.LastName, c.Phone,
		c.BillingAddressID, c.ShippingAddressID, string(c.Status),
		c.PasswordHash, c.ResetTokenHash, c.ResetTokenExpires, c.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (*Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
}

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE email=$1`, email)
}

func (r *CustomerRepo) FindByResetToken(ctx context.Context, tokenHash string) (*Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE password_reset_token=$1`, tokenHash)
}

func (r *CustomerRepo) findOne(ctx context.Context, query string, arg any) (*Customer, error) {
	var (
		c  Customer
		st string
	)
	err := r.DB.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone,
		&c.BillingAddressID, &c.ShippingAddressID, &st, &c.PasswordHash,
		&c.ResetTokenHash, &c.ResetTokenExpires, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if c.Status, err = ParseCustomerStatus(st); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Search(ctx context.Context, query string) ([]*Customer, error) {
	pattern := "%" + query + "%"
	rows, err := r.DB.Query(ctx, `SELECT `+customerColumns+`
		FROM customers
		WHERE email ILIKE $1 OR (first_name || ' ' || last_name) ILIKE $1
		ORDER BY created_at DESC`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Customer
	for rows.Next() {
		var (
			c  Customer
			st string
		)
		err := rows.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone,
			&c.BillingAddressID, &c.ShippingAddressID, &st, &c.PasswordHash,
			&c.ResetTokenHash, &c.ResetTokenExpires, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if c.Status, err = ParseCustomerStatus(st); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// SupplierRepo persists Supplier rows.
type SupplierRepo struct{ DB *pgxpool.Pool }

const supplierColumns = `id, company_name, contact_email, contact_person, phone,
	address, notes, status, password_hash, password_reset_token,
	password_reset_expires_at, created_at, updated_at`

func (r *SupplierRepo) Create(ctx context.Context, s *Supplier) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO suppliers(company_name, contact_email, contact_person, phone,
		                      address, notes, status, password_hash,
		                      password_reset_token, password_reset_expires_at,
		                      created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`,
		s.CompanyName, s.ContactEmail, s.ContactPerson, s.Phone,
		s.Address, s.Notes, string(s.Status), s.PasswordHash,
		s.ResetTokenHash, s.ResetTokenExpires, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func (r *SupplierRepo) Update(ctx context.Context, s *Supplier) error {
	s.TouchUpdated()
	ct, err := r.DB.Exec(ctx, `
		UPDATE suppliers
		SET company_name=$2, contact_email=$3, contact_person=$4, phone=$5,
		    address=$6, notes=$7, status=$8, password_hash=$9,
		    password_reset_token=$10, password_reset_expires_at=$11, updated_at=$12
		WHERE id=$1`,
		s.ID, s.CompanyName, s.ContactEmail, s.ContactPerson, s.Phone,
		s.Address, s.Notes, string(s.Status), s.PasswordHash,
		s.ResetTokenHash, s.ResetTokenExpires, s.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) FindByID(ctx context.Context, id int64) (*Supplier, error) {
	return r.findOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id=$1`, id)
}

func (r *SupplierRepo) FindByEmail(ctx context.Context, email string) (*Supplier, error) {
	return r.findOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE contact_email=$1`, email)
}

func (r *SupplierRepo) FindByResetToken(ctx context.Context, tokenHash string) (*Supplier, error) {
	return r.findOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE password_reset_token=$1`, tokenHash)
}

func (r *SupplierRepo) findOne(ctx context.Context, query string, arg any) (*Supplier, error) {
	var (
		s  Supplier
		st string
	)
	err := r.DB.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.CompanyName, &s.ContactEmail, &s.ContactPerson, &s.Phone,
		&s.Address, &s.Notes, &st, &s.PasswordHash,
		&s.ResetTokenHash, &s.ResetTokenExpires, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if s.Status, err = ParseSupplierStatus(st); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) ListActive(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+supplierColumns+`
		FROM suppliers WHERE status=$1 ORDER BY company_name`, string(SupplierActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Supplier
	for rows.Next() {
		var (
			s  Supplier
			st string
		)
		err := rows.Scan(&s.ID, &s.CompanyName, &s.ContactEmail, &s.ContactPerson, &s.Phone,
			&s.Address, &s.Notes, &st, &s.PasswordHash,
			&s.ResetTokenHash, &s.ResetTokenExpires, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if s.Status, err = ParseSupplierStatus(st); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// AdminRepo persists back-office operators.
type AdminRepo struct{ DB *pgxpool.Pool }

func (r *AdminRepo) Create(ctx context.Context, a *AdminUser) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO admin_users(email, roles, password_hash, first_name, last_name,
		                        status, last_login_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`,
		a.Email, a.Roles, a.PasswordHash, a.FirstName, a.LastName,
		a.Status, a.LastLoginAt, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*AdminUser, error) {
	var a AdminUser
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, roles, password_hash, first_name, last_name,
		       status, last_login_at, created_at, updated_at
		FROM admin_users WHERE email=$1`, email).Scan(
		&a.ID, &a.Email, &a.Roles, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Status, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AdminRepo) RecordLogin(ctx context.Context, a *AdminUser) error {
	a.UpdateLastLogin()
	_, err := r.DB.Exec(ctx, `UPDATE admin_users SET last_login_at=$2, updated_at=now() WHERE id=$1`,
		a.ID, a.LastLoginAt)
	return err
}

// AddressRepo persists shipping/billing destinations.
type AddressRepo struct{ DB *pgxpool.Pool }

func (r *AddressRepo) Create(ctx context.Context, a *Address) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO addresses(first_name, last_name, company, address_line1,
		                      address_line2, city, state, postal_code, country,
		                      phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`,
		a.FirstName, a.LastName, a.Company, a.AddressLine1,
		a.AddressLine2, a.City, a.State, a.PostalCode, a.Country,
		a.Phone, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *AddressRepo) FindByID(ctx context.Context, id int64) (*Address, error) {
	var a Address
	err := r.DB.QueryRow(ctx, `
		SELECT id, first_name, last_name, company, address_line1, address_line2,
		       city, state, postal_code, country, phone, created_at, updated_at
		FROM addresses WHERE id=$1`, id).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Company, &a.AddressLine1, &a.AddressLine2,
		&a.City, &a.State, &a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
