package database

import (
	"context"
	"errors"
	"fmt"

	"rufay/internal/models"
)

const settingsColumns = `business_name, address, email, phone, gst_number, bank_name, account_number,
	ifsc_code, upi_id, currency, invoice_counter, invoice_prefix, booking_counter, booking_prefix,
	quotation_counter, quotation_prefix, sales_order_counter, sales_order_prefix,
	invoice_template, ticket_template`

// counterColumns maps a document type to its counter column
var counterColumns = map[string]string{
	models.DocInvoice:    "invoice_counter",
	models.DocBooking:    "booking_counter",
	models.DocQuotation:  "quotation_counter",
	models.DocSalesOrder: "sales_order_counter",
}

// GetSettings loads the owner's settings
func (t *Tx) GetSettings(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := t.get(ctx, &s, `SELECT `+settingsColumns+` FROM owner_settings WHERE owner_id = ?`, t.ownerID)
	if errors.Is(err, ErrNotFound) {
		return s, fmt.Errorf("owner %s: %w", t.ownerID, ErrOwnerNotFound)
	}
	if err != nil {
		return s, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// UpdateSettings stores the presentation fields. Counters are left untouched.
func (t *Tx) UpdateSettings(ctx context.Context, s models.Settings) error {
	_, err := t.exec(ctx, `
		UPDATE owner_settings
		SET business_name = ?, address = ?, email = ?, phone = ?, gst_number = ?, bank_name = ?,
			account_number = ?, ifsc_code = ?, upi_id = ?, currency = ?, invoice_prefix = ?,
			booking_prefix = ?, quotation_prefix = ?, sales_order_prefix = ?,
			invoice_template = ?, ticket_template = ?
		WHERE owner_id = ?
	`, s.BusinessName, s.Address, s.Email, s.Phone, s.GSTNumber, s.BankName,
		s.AccountNumber, s.IFSCCode, s.UPIID, s.Currency, s.InvoicePrefix,
		s.BookingPrefix, s.QuotationPrefix, s.SalesOrderPrefix,
		s.InvoiceTemplate, s.TicketTemplate, t.ownerID)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// NextNumber returns the current counter for docType and stores counter+1
func (t *Tx) NextNumber(ctx context.Context, docType string) (int, error) {
	column, ok := counterColumns[docType]
	if !ok {
		return 0, fmt.Errorf("%q: %w", docType, ErrUnknownDocType)
	}

	var n int
	if err := t.get(ctx, &n, `SELECT `+column+` FROM owner_settings WHERE owner_id = ?`, t.ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, fmt.Errorf("owner %s: %w", t.ownerID, ErrOwnerNotFound)
		}
		return 0, fmt.Errorf("failed to read %s: %w", column, err)
	}

	if _, err := t.exec(ctx, `UPDATE owner_settings SET `+column+` = ? WHERE owner_id = ?`, n+1, t.ownerID); err != nil {
		return 0, fmt.Errorf("failed to advance %s: %w", column, err)
	}
	return n, nil
}

func (t *Tx) insertSettings(ctx context.Context, s models.Settings, version int64) error {
	_, err := t.exec(ctx, `
		INSERT INTO owner_settings (owner_id, version, `+settingsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, version, s.BusinessName, s.Address, s.Email, s.Phone, s.GSTNumber, s.BankName,
		s.AccountNumber, s.IFSCCode, s.UPIID, s.Currency, s.InvoiceCounter, s.InvoicePrefix,
		s.BookingCounter, s.BookingPrefix, s.QuotationCounter, s.QuotationPrefix,
		s.SalesOrderCounter, s.SalesOrderPrefix, s.InvoiceTemplate, s.TicketTemplate)
	if err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}
	return nil
}

// replaceSettings overwrites every settings column including counters; used by restore
func (t *Tx) replaceSettings(ctx context.Context, s models.Settings) error {
	if err := t.UpdateSettings(ctx, s); err != nil {
		return err
	}
	_, err := t.exec(ctx, `
		UPDATE owner_settings
		SET invoice_counter = ?, booking_counter = ?, quotation_counter = ?, sales_order_counter = ?
		WHERE owner_id = ?
	`, s.InvoiceCounter, s.BookingCounter, s.QuotationCounter, s.SalesOrderCounter, t.ownerID)
	if err != nil {
		return fmt.Errorf("failed to restore counters: %w", err)
	}
	return nil
}
