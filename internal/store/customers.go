package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kskeerthana/billing-management/domain"
)

type customerRow struct {
	ID                    string `db:"id"`
	Name                  string `db:"name"`
	Email                 string `db:"email"`
	Phone                 string `db:"phone"`
	BillingLine1          string `db:"billing_line1"`
	BillingCity           string `db:"billing_city"`
	BillingState          string `db:"billing_state"`
	BillingPostalCode     string `db:"billing_postal_code"`
	BillingCountry        string `db:"billing_country"`
	ShippingLine1         string `db:"shipping_line1"`
	ShippingCity          string `db:"shipping_city"`
	ShippingState         string `db:"shipping_state"`
	ShippingPostalCode    string `db:"shipping_postal_code"`
	ShippingCountry       string `db:"shipping_country"`
	ShippingSameAsBilling bool   `db:"shipping_same_as_billing"`
	CreatedAt             string `db:"created_at"`
	UpdatedAt             string `db:"updated_at"`
}

const customerColumns = `id, name, email, phone,
	billing_line1, billing_city, billing_state, billing_postal_code, billing_country,
	shipping_line1, shipping_city, shipping_state, shipping_postal_code, shipping_country,
	shipping_same_as_billing, created_at, updated_at`

func (s *Store) customerFromRow(r customerRow) domain.Customer {
	return domain.Customer{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		BillingAddress: domain.Address{
			Line1:      r.BillingLine1,
			City:       r.BillingCity,
			State:      r.BillingState,
			PostalCode: r.BillingPostalCode,
			Country:    r.BillingCountry,
		},
		ShippingAddress: domain.Address{
			Line1:      r.ShippingLine1,
			City:       r.ShippingCity,
			State:      r.ShippingState,
			PostalCode: r.ShippingPostalCode,
			Country:    r.ShippingCountry,
		},
		ShippingSameAsBilling: r.ShippingSameAsBilling,
		CreatedAt:             s.parseTime(r.CreatedAt),
		UpdatedAt:             s.parseTime(r.UpdatedAt),
	}
}

// CustomerPage is one page of the customer list view.
type CustomerPage struct {
	Customers []domain.Customer `json:"customers"`
	Total     int               `json:"total"`
}

var customerSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

// ListCustomers returns a page of customers, newest first by default.
// Storage faults are logged and yield an empty page.
func (s *Store) ListCustomers(opts ListOptions) CustomerPage {
	var (
		where string
		args  []any
	)
	if q := strings.TrimSpace(opts.Query); q != "" {
		where = " WHERE (name LIKE ? OR email LIKE ? OR phone LIKE ?)"
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	var total int
	if err := s.db.Get(&total, `SELECT COUNT(*) FROM customers`+where, args...); err != nil {
		s.log.Error().Err(err).Msg("unable to count customers")
		return CustomerPage{Customers: []domain.Customer{}}
	}

	limit, offset := opts.limitOffset()
	query := `SELECT ` + customerColumns + ` FROM customers` + where +
		orderClause(opts.Sort, opts.Order, customerSortColumns) + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []customerRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		s.log.Error().Err(err).Msg("unable to list customers")
		return CustomerPage{Customers: []domain.Customer{}}
	}

	customers := make([]domain.Customer, len(rows))
	for i, r := range rows {
		customers[i] = s.customerFromRow(r)
	}
	return CustomerPage{Customers: customers, Total: total}
}

// GetCustomer fetches a single customer by id.
func (s *Store) GetCustomer(id string) (*domain.Customer, error) {
	var row customerRow
	err := s.db.Get(&row, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	c := s.customerFromRow(row)
	return &c, nil
}

// CreateCustomer inserts a new customer, assigning an id and timestamps.
// The email must not collide with an existing customer's, compared
// case-insensitively.
func (s *Store) CreateCustomer(c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	normalize(c)

	if err := s.checkEmailFree(c.Email, c.ID); err != nil {
		return err
	}
	return s.insertCustomer(s.db, *c)
}

// UpdateCustomer replaces a customer's fields in place, preserving its id
// and creation timestamp.
func (s *Store) UpdateCustomer(id string, c *domain.Customer) error {
	existing, err := s.GetCustomer(id)
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	normalize(c)

	if err := s.checkEmailFree(c.Email, id); err != nil {
		return err
	}

	_, err = s.db.Exec(`UPDATE customers SET
			name = ?, email = ?, phone = ?,
			billing_line1 = ?, billing_city = ?, billing_state = ?, billing_postal_code = ?, billing_country = ?,
			shipping_line1 = ?, shipping_city = ?, shipping_state = ?, shipping_postal_code = ?, shipping_country = ?,
			shipping_same_as_billing = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Email, c.Phone,
		c.BillingAddress.Line1, c.BillingAddress.City, c.BillingAddress.State, c.BillingAddress.PostalCode, c.BillingAddress.Country,
		c.ShippingAddress.Line1, c.ShippingAddress.City, c.ShippingAddress.State, c.ShippingAddress.PostalCode, c.ShippingAddress.Country,
		c.ShippingSameAsBilling, formatTime(c.UpdatedAt), id)
	if err != nil {
		return fmt.Errorf("update customer %s: %w", id, err)
	}
	return nil
}

// DeleteCustomer removes a customer and every invoice referencing it in a
// single transaction, so a partial failure cannot leave orphaned invoices.
func (s *Store) DeleteCustomer(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM invoice_items WHERE invoice_id IN (SELECT id FROM invoices WHERE customer_id = ?)`, id); err != nil {
		return fmt.Errorf("delete customer %s invoices: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM invoices WHERE customer_id = ?`, id); err != nil {
		return fmt.Errorf("delete customer %s invoices: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// normalize lowercases the email and mirrors the billing address onto the
// shipping address when the flag is set.
func normalize(c *domain.Customer) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.ShippingSameAsBilling {
		c.ShippingAddress = c.BillingAddress
	}
}

func (s *Store) checkEmailFree(email, excludeID string) error {
	var count int
	err := s.db.Get(&count, `SELECT COUNT(*) FROM customers WHERE email = ? COLLATE NOCASE AND id != ?`, email, excludeID)
	if err != nil {
		return fmt.Errorf("check email uniqueness: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	return nil
}

func (s *Store) insertCustomer(e sqlx.Execer, c domain.Customer) error {
	_, err := e.Exec(`INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone,
		c.BillingAddress.Line1, c.BillingAddress.City, c.BillingAddress.State, c.BillingAddress.PostalCode, c.BillingAddress.Country,
		c.ShippingAddress.Line1, c.ShippingAddress.City, c.ShippingAddress.State, c.ShippingAddress.PostalCode, c.ShippingAddress.Country,
		c.ShippingSameAsBilling, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert customer %s: %w", c.ID, err)
	}
	return nil
}
