package database

import (
	"context"
	"errors"
	"fmt"

	"rufay/internal/models"
)

// Reference identifies a row that blocks a delete. Number is zero for payments.
type Reference struct {
	Entity string
	ID     string
	Number int
}

type refRow struct {
	ID     string `db:"id"`
	Number int    `db:"num"`
}

// firstRef runs a query selecting (id, num) and returns the first match, or nil
func (t *Tx) firstRef(ctx context.Context, entity, query string, args ...interface{}) (*Reference, error) {
	var row refRow
	err := t.get(ctx, &row, query+` LIMIT 1`, args...)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s references: %w", entity, err)
	}
	return &Reference{Entity: entity, ID: row.ID, Number: row.Number}, nil
}

// PartyReference returns the first invoice, payment, booking, quotation or sales order of a party
func (t *Tx) PartyReference(ctx context.Context, partyID string) (*Reference, error) {
	checks := []struct {
		entity string
		query  string
	}{
		{models.DocInvoice, `SELECT id, invoice_number AS num FROM invoices WHERE owner_id = ? AND party_id = ? ORDER BY invoice_number`},
		{"payment", `SELECT id, 0 AS num FROM payments WHERE owner_id = ? AND party_id = ? ORDER BY id`},
		{models.DocBooking, `SELECT id, booking_number AS num FROM bookings WHERE owner_id = ? AND party_id = ? ORDER BY booking_number`},
		{models.DocQuotation, `SELECT id, quotation_number AS num FROM quotations WHERE owner_id = ? AND party_id = ? ORDER BY quotation_number`},
		{models.DocSalesOrder, `SELECT id, sales_order_number AS num FROM sales_orders WHERE owner_id = ? AND party_id = ? ORDER BY sales_order_number`},
	}

	for _, c := range checks {
		ref, err := t.firstRef(ctx, c.entity, c.query, t.ownerID, partyID)
		if err != nil || ref != nil {
			return ref, err
		}
	}
	return nil, nil
}

// ProductReference returns the first invoice, quotation or sales order with a line for the product
func (t *Tx) ProductReference(ctx context.Context, productID string) (*Reference, error) {
	checks := []struct {
		docType string
		query   string
	}{
		{models.DocInvoice, `SELECT d.id, d.invoice_number AS num FROM invoices d
			JOIN line_items li ON li.owner_id = d.owner_id AND li.doc_id = d.id AND li.doc_type = ?
			WHERE d.owner_id = ? AND li.product_id = ? ORDER BY d.invoice_number`},
		{models.DocQuotation, `SELECT d.id, d.quotation_number AS num FROM quotations d
			JOIN line_items li ON li.owner_id = d.owner_id AND li.doc_id = d.id AND li.doc_type = ?
			WHERE d.owner_id = ? AND li.product_id = ? ORDER BY d.quotation_number`},
		{models.DocSalesOrder, `SELECT d.id, d.sales_order_number AS num FROM sales_orders d
			JOIN line_items li ON li.owner_id = d.owner_id AND li.doc_id = d.id AND li.doc_type = ?
			WHERE d.owner_id = ? AND li.product_id = ? ORDER BY d.sales_order_number`},
	}

	for _, c := range checks {
		ref, err := t.firstRef(ctx, c.docType, c.query, c.docType, t.ownerID, productID)
		if err != nil || ref != nil {
			return ref, err
		}
	}
	return nil, nil
}

// SeriesReference returns the first booking using the series on either leg
func (t *Tx) SeriesReference(ctx context.Context, seriesID string) (*Reference, error) {
	return t.firstRef(ctx, models.DocBooking, `
		SELECT id, booking_number AS num FROM bookings
		WHERE owner_id = ? AND (series_id = ? OR return_series_id = ?)
		ORDER BY booking_number
	`, t.ownerID, seriesID, seriesID)
}

// SalesOrderReference returns the first invoice converted from the sales order
func (t *Tx) SalesOrderReference(ctx context.Context, salesOrderID string) (*Reference, error) {
	return t.firstRef(ctx, models.DocInvoice, `
		SELECT id, invoice_number AS num FROM invoices
		WHERE owner_id = ? AND sales_order_id = ?
		ORDER BY invoice_number
	`, t.ownerID, salesOrderID)
}

// QuotationReference returns the first sales order converted from the quotation
func (t *Tx) QuotationReference(ctx context.Context, quotationID string) (*Reference, error) {
	return t.firstRef(ctx, models.DocSalesOrder, `
		SELECT id, sales_order_number AS num FROM sales_orders
		WHERE owner_id = ? AND quotation_id = ?
		ORDER BY sales_order_number
	`, t.ownerID, quotationID)
}
