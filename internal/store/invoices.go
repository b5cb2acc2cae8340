package store

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/kskeerthana/billing-management/domain"
)

// invoiceNumberPrefix and numberPattern define the human-readable invoice
// number format: INV- followed by a five-digit zero-padded counter.
const invoiceNumberPrefix = "INV-"

var numberPattern = regexp.MustCompile(`^INV-(\d+)$`)

type invoiceRow struct {
	ID         string          `db:"id"`
	Number     string          `db:"number"`
	CustomerID string          `db:"customer_id"`
	IssueDate  domain.Date     `db:"issue_date"`
	DueDate    domain.Date     `db:"due_date"`
	Subtotal   decimal.Decimal `db:"subtotal"`
	TaxTotal   decimal.Decimal `db:"tax_total"`
	Discount   decimal.Decimal `db:"discount"`
	Total      decimal.Decimal `db:"total"`
	Status     string          `db:"status"`
	Notes      string          `db:"notes"`
	CreatedAt  string          `db:"created_at"`
}

type itemRow struct {
	InvoiceID   string          `db:"invoice_id"`
	Position    int             `db:"position"`
	Description string          `db:"description"`
	Quantity    int64           `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
	LineTotal   decimal.Decimal `db:"line_total"`
}

const invoiceColumns = `id, number, customer_id, issue_date, due_date,
	subtotal, tax_total, discount, total, status, notes, created_at`

func (s *Store) invoiceFromRow(r invoiceRow, items []domain.LineItem) domain.Invoice {
	return domain.Invoice{
		ID:         r.ID,
		Number:     r.Number,
		CustomerID: r.CustomerID,
		IssueDate:  r.IssueDate,
		DueDate:    r.DueDate,
		Items:      items,
		Subtotal:   r.Subtotal,
		TaxTotal:   r.TaxTotal,
		Discount:   r.Discount,
		Total:      r.Total,
		Status:     r.Status,
		Notes:      r.Notes,
		CreatedAt:  s.parseTime(r.CreatedAt),
	}
}

// InvoicePage is one page of the invoice list view.
type InvoicePage struct {
	Invoices []domain.Invoice `json:"invoices"`
	Total    int              `json:"total"`
}

// InvoiceListOptions adds the invoice list view filters on top of the
// common search/sort/pagination options.
type InvoiceListOptions struct {
	ListOptions
	Status     string
	CustomerID string
}

// Monetary amounts live in TEXT columns, so sorting by total has to cast
// back to a number or 105 would order before 9.
var invoiceSortColumns = map[string]string{
	"number":     "number",
	"issue_date": "issue_date",
	"due_date":   "due_date",
	"total":      "CAST(total AS REAL)",
	"created_at": "created_at",
}

// ListInvoices returns a page of invoices with their line items, newest
// first by default. Storage faults are logged and yield an empty page.
func (s *Store) ListInvoices(opts InvoiceListOptions) InvoicePage {
	var (
		clauses []string
		args    []any
	)
	if q := strings.TrimSpace(opts.Query); q != "" {
		clauses = append(clauses, "(number LIKE ? OR notes LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if opts.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.CustomerID != "" {
		clauses = append(clauses, "customer_id = ?")
		args = append(args, opts.CustomerID)
	}
	var where string
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.db.Get(&total, `SELECT COUNT(*) FROM invoices`+where, args...); err != nil {
		s.log.Error().Err(err).Msg("unable to count invoices")
		return InvoicePage{Invoices: []domain.Invoice{}}
	}

	limit, offset := opts.limitOffset()
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		orderClause(opts.Sort, opts.Order, invoiceSortColumns) + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []invoiceRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		s.log.Error().Err(err).Msg("unable to list invoices")
		return InvoicePage{Invoices: []domain.Invoice{}}
	}
	if len(rows) == 0 {
		return InvoicePage{Invoices: []domain.Invoice{}, Total: total}
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	itemsByInvoice, err := s.loadItems(ids)
	if err != nil {
		s.log.Error().Err(err).Msg("unable to load invoice items")
		return InvoicePage{Invoices: []domain.Invoice{}}
	}

	invoices := make([]domain.Invoice, len(rows))
	for i, r := range rows {
		invoices[i] = s.invoiceFromRow(r, itemsByInvoice[r.ID])
	}
	return InvoicePage{Invoices: invoices, Total: total}
}

func (s *Store) loadItems(invoiceIDs []string) (map[string][]domain.LineItem, error) {
	query, args, err := sqlx.In(`SELECT invoice_id, position, description, quantity, unit_price, tax_rate, line_total
		FROM invoice_items WHERE invoice_id IN (?) ORDER BY invoice_id, position`, invoiceIDs)
	if err != nil {
		return nil, err
	}

	var rows []itemRow
	if err := s.db.Select(&rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.LineItem)
	for _, r := range rows {
		grouped[r.InvoiceID] = append(grouped[r.InvoiceID], domain.LineItem{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TaxRate:     r.TaxRate,
			LineTotal:   r.LineTotal,
		})
	}
	return grouped, nil
}

// GetInvoice fetches a single invoice with its line items.
func (s *Store) GetInvoice(id string) (*domain.Invoice, error) {
	var row invoiceRow
	err := s.db.Get(&row, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}

	itemsByInvoice, err := s.loadItems([]string{id})
	if err != nil {
		return nil, fmt.Errorf("get invoice %s items: %w", id, err)
	}
	inv := s.invoiceFromRow(row, itemsByInvoice[id])
	return &inv, nil
}

// CreateInvoice persists a new invoice with its line items, assigning the
// id, the next sequential number and the creation timestamp inside one
// transaction.
func (s *Store) CreateInvoice(inv *domain.Invoice) error {
	if len(inv.Items) == 0 {
		return errors.New("invoice requires at least one line item")
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = domain.StatusUnpaid
	}
	inv.CreatedAt = time.Now().UTC()

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	defer tx.Rollback()

	// The customer reference is checked here rather than left to the API
	// layer so a direct caller cannot create an orphan invoice.
	var exists int
	if err := tx.Get(&exists, `SELECT COUNT(*) FROM customers WHERE id = ?`, inv.CustomerID); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("create invoice: customer %s: %w", inv.CustomerID, ErrNotFound)
	}

	number, err := s.nextNumber(tx)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	inv.Number = number

	if err := s.insertInvoice(tx, *inv); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) insertInvoice(tx *sqlx.Tx, inv domain.Invoice) error {
	_, err := tx.Exec(`INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Number, inv.CustomerID, inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.TaxTotal, inv.Discount, inv.Total,
		inv.Status, inv.Notes, formatTime(inv.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert invoice %s: %w", inv.ID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_price, tax_rate, line_total)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range inv.Items {
		if _, err := stmt.Exec(inv.ID, i, item.Description, item.Quantity, item.UnitPrice, item.TaxRate, item.LineTotal); err != nil {
			return fmt.Errorf("insert invoice %s item %d: %w", inv.ID, i+1, err)
		}
	}
	return nil
}

// SetInvoiceStatus toggles an invoice between paid and unpaid. This is the
// only mutation an invoice supports after creation.
func (s *Store) SetInvoiceStatus(id, status string) error {
	if status != domain.StatusPaid && status != domain.StatusUnpaid {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := s.db.Exec(`UPDATE invoices SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set invoice %s status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set invoice %s status: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInvoice removes a single invoice and its line items.
func (s *Store) DeleteInvoice(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM invoice_items WHERE invoice_id = ?`, id); err != nil {
		return fmt.Errorf("delete invoice %s items: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// NextInvoiceNumber previews the number the next invoice will receive.
// When the scan fails the number falls back to a timestamp-derived value
// so invoice creation stays possible.
func (s *Store) NextInvoiceNumber() string {
	number, err := s.nextNumber(s.db)
	if err != nil {
		s.log.Error().Err(err).Msg("unable to scan invoice numbers, using timestamp fallback")
		return fmt.Sprintf("%s%05d", invoiceNumberPrefix, time.Now().Unix()%100000)
	}
	return number
}

// nextNumber scans every stored invoice number, extracts the numeric
// suffix and returns max+1 zero-padded to five digits. The counter is
// monotonic across all invoices ever created because deleted numbers are
// never reused while any higher number exists.
func (s *Store) nextNumber(q sqlx.Queryer) (string, error) {
	var numbers []string
	if err := sqlx.Select(q, &numbers, `SELECT number FROM invoices`); err != nil {
		return "", fmt.Errorf("scan invoice numbers: %w", err)
	}

	max := 0
	for _, n := range numbers {
		m := numberPattern.FindStringSubmatch(n)
		if m == nil {
			continue
		}
		value, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if value > max {
			max = value
		}
	}
	return fmt.Sprintf("%s%05d", invoiceNumberPrefix, max+1), nil
}
