package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kskeerthana/billing-management/domain"
)

// Backup is the bulk export/import payload. Temporal fields serialize as
// ISO-8601 strings and invoices embed their line items.
type Backup struct {
	Customers []domain.Customer `json:"customers"`
	Invoices  []domain.Invoice  `json:"invoices"`
}

// ExportAll snapshots both collections in full, newest first.
func (s *Store) ExportAll() (*Backup, error) {
	var customerRows []customerRow
	if err := s.db.Select(&customerRows, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("export customers: %w", err)
	}

	var invoiceRows []invoiceRow
	if err := s.db.Select(&invoiceRows, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("export invoices: %w", err)
	}

	backup := &Backup{
		Customers: make([]domain.Customer, len(customerRows)),
		Invoices:  make([]domain.Invoice, len(invoiceRows)),
	}
	for i, r := range customerRows {
		backup.Customers[i] = s.customerFromRow(r)
	}

	if len(invoiceRows) > 0 {
		ids := make([]string, len(invoiceRows))
		for i, r := range invoiceRows {
			ids[i] = r.ID
		}
		itemsByInvoice, err := s.loadItems(ids)
		if err != nil {
			return nil, fmt.Errorf("export invoice items: %w", err)
		}
		for i, r := range invoiceRows {
			backup.Invoices[i] = s.invoiceFromRow(r, itemsByInvoice[r.ID])
		}
	}
	return backup, nil
}

// ImportAll wipes both collections and re-inserts every record from the
// payload inside one transaction: a full destructive replace, not a merge.
// Record ids, invoice numbers and timestamps are preserved as given;
// invoices are rejected before any mutation if they break the at-least-one
//-item invariant, and a missing status defaults to unpaid.
func (s *Store) ImportAll(b *Backup) error {
	for i := range b.Invoices {
		inv := &b.Invoices[i]
		if len(inv.Items) == 0 {
			return fmt.Errorf("import: invoice %s has no line items", inv.Number)
		}
		switch inv.Status {
		case "":
			inv.Status = domain.StatusUnpaid
		case domain.StatusPaid, domain.StatusUnpaid:
		default:
			return fmt.Errorf("import: invoice %s has invalid status %q", inv.Number, inv.Status)
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer tx.Rollback()

	if err := wipe(tx); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	for _, c := range b.Customers {
		if err := s.insertCustomer(tx, c); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	for _, inv := range b.Invoices {
		if err := s.insertInvoice(tx, inv); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	return tx.Commit()
}

// Reset wipes both collections. Exposed only through the development-mode
// reset endpoint.
func (s *Store) Reset() error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	defer tx.Rollback()

	if err := wipe(tx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return tx.Commit()
}

func wipe(tx *sqlx.Tx) error {
	for _, stmt := range []string{
		`DELETE FROM invoice_items`,
		`DELETE FROM invoices`,
		`DELETE FROM customers`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
