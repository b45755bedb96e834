package database

import (
	"context"
	"fmt"
)

// schema is portable across mysql, postgres and sqlite
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL,
		owner_id VARCHAR(64) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS owner_settings (
		owner_id VARCHAR(64) PRIMARY KEY,
		version BIGINT NOT NULL,
		business_name VARCHAR(255) NOT NULL,
		address VARCHAR(512) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL,
		gst_number VARCHAR(64) NOT NULL,
		bank_name VARCHAR(255) NOT NULL,
		account_number VARCHAR(64) NOT NULL,
		ifsc_code VARCHAR(32) NOT NULL,
		upi_id VARCHAR(128) NOT NULL,
		currency VARCHAR(16) NOT NULL,
		invoice_counter INT NOT NULL,
		invoice_prefix VARCHAR(32) NOT NULL,
		booking_counter INT NOT NULL,
		booking_prefix VARCHAR(32) NOT NULL,
		quotation_counter INT NOT NULL,
		quotation_prefix VARCHAR(32) NOT NULL,
		sales_order_counter INT NOT NULL,
		sales_order_prefix VARCHAR(32) NOT NULL,
		invoice_template VARCHAR(32) NOT NULL,
		ticket_template VARCHAR(32) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS parties (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL,
		email VARCHAR(255) NOT NULL,
		address VARCHAR(512) NOT NULL,
		party_type VARCHAR(16) NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		purchase_price DOUBLE PRECISION NOT NULL,
		selling_price DOUBLE PRECISION NOT NULL,
		stock INT NOT NULL,
		low_stock_threshold INT NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS series (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		pnr VARCHAR(32) NOT NULL,
		airline VARCHAR(255) NOT NULL,
		route VARCHAR(255) NOT NULL,
		departure_date VARCHAR(64) NOT NULL,
		arrival_date VARCHAR(64) NOT NULL,
		total_seats INT NOT NULL,
		available_seats INT NOT NULL,
		purchase_price_per_seat DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		invoice_number INT NOT NULL,
		party_id VARCHAR(64) NOT NULL,
		invoice_date VARCHAR(64) NOT NULL,
		tax DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		amount_paid DOUBLE PRECISION NOT NULL,
		status VARCHAR(16) NOT NULL,
		sales_order_id VARCHAR(64),
		PRIMARY KEY (owner_id, id),
		UNIQUE (owner_id, invoice_number)
	)`,
	`CREATE TABLE IF NOT EXISTS quotations (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		quotation_number INT NOT NULL,
		party_id VARCHAR(64) NOT NULL,
		quotation_date VARCHAR(64) NOT NULL,
		tax DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		status VARCHAR(16) NOT NULL,
		valid_until VARCHAR(64) NOT NULL,
		PRIMARY KEY (owner_id, id),
		UNIQUE (owner_id, quotation_number)
	)`,
	`CREATE TABLE IF NOT EXISTS sales_orders (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		sales_order_number INT NOT NULL,
		party_id VARCHAR(64) NOT NULL,
		order_date VARCHAR(64) NOT NULL,
		tax DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		status VARCHAR(16) NOT NULL,
		quotation_id VARCHAR(64),
		PRIMARY KEY (owner_id, id),
		UNIQUE (owner_id, sales_order_number)
	)`,
	`CREATE TABLE IF NOT EXISTS line_items (
		owner_id VARCHAR(64) NOT NULL,
		doc_type VARCHAR(16) NOT NULL,
		doc_id VARCHAR(64) NOT NULL,
		line_no INT NOT NULL,
		product_id VARCHAR(128) NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		rate DOUBLE PRECISION NOT NULL,
		quantity DOUBLE PRECISION NOT NULL,
		discount DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (owner_id, doc_type, doc_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		party_id VARCHAR(64) NOT NULL,
		invoice_id VARCHAR(64),
		amount DOUBLE PRECISION NOT NULL,
		payment_date VARCHAR(64) NOT NULL,
		payment_type VARCHAR(32) NOT NULL,
		direction VARCHAR(8) NOT NULL,
		notes VARCHAR(1024) NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		category VARCHAR(255) NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		expense_date VARCHAR(64) NOT NULL,
		description VARCHAR(1024) NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		booking_number INT NOT NULL,
		series_id VARCHAR(64) NOT NULL,
		return_series_id VARCHAR(64),
		party_id VARCHAR(64) NOT NULL,
		selling_price_per_seat DOUBLE PRECISION NOT NULL,
		return_selling_price_per_seat DOUBLE PRECISION,
		total_amount DOUBLE PRECISION NOT NULL,
		booking_date VARCHAR(64) NOT NULL,
		invoice_id VARCHAR(64) NOT NULL,
		PRIMARY KEY (owner_id, id),
		UNIQUE (owner_id, booking_number)
	)`,
	`CREATE TABLE IF NOT EXISTS booking_passengers (
		owner_id VARCHAR(64) NOT NULL,
		booking_id VARCHAR(64) NOT NULL,
		line_no INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		passenger_type VARCHAR(16) NOT NULL,
		PRIMARY KEY (owner_id, booking_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS online_bookings (
		owner_id VARCHAR(64) NOT NULL,
		id VARCHAR(64) NOT NULL,
		status VARCHAR(16) NOT NULL,
		pnr VARCHAR(32) NOT NULL,
		booking_date VARCHAR(64) NOT NULL,
		itinerary TEXT NOT NULL,
		passengers TEXT NOT NULL,
		search_criteria TEXT NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
}

// ownerTables lists every table holding per-owner collections, in restore order
var ownerTables = []string{
	"parties",
	"products",
	"series",
	"invoices",
	"quotations",
	"sales_orders",
	"line_items",
	"payments",
	"expenses",
	"bookings",
	"booking_passengers",
	"online_bookings",
}

// Migrate creates the schema if it does not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
