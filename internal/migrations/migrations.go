package migrations

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Run creates the database schema for the billing service. Monetary
// amounts are stored as decimal strings, timestamps as RFC3339 text and
// calendar dates as YYYY-MM-DD text.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL COLLATE NOCASE UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			billing_line1 TEXT NOT NULL DEFAULT '',
			billing_city TEXT NOT NULL DEFAULT '',
			billing_state TEXT NOT NULL DEFAULT '',
			billing_postal_code TEXT NOT NULL DEFAULT '',
			billing_country TEXT NOT NULL DEFAULT '',
			shipping_line1 TEXT NOT NULL DEFAULT '',
			shipping_city TEXT NOT NULL DEFAULT '',
			shipping_state TEXT NOT NULL DEFAULT '',
			shipping_postal_code TEXT NOT NULL DEFAULT '',
			shipping_country TEXT NOT NULL DEFAULT '',
			shipping_same_as_billing INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id TEXT PRIMARY KEY,
			number TEXT NOT NULL UNIQUE,
			customer_id TEXT NOT NULL REFERENCES customers(id),
			issue_date TEXT NOT NULL,
			due_date TEXT NOT NULL,
			subtotal TEXT NOT NULL,
			tax_total TEXT NOT NULL,
			discount TEXT NOT NULL,
			total TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'unpaid',
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			invoice_id TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			description TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price TEXT NOT NULL,
			tax_rate TEXT NOT NULL,
			line_total TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_customer_id ON invoices(customer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice_id ON invoice_items(invoice_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}
}
