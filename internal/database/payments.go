package database

import (
	"context"
	"fmt"

	"rufay/internal/models"
)

const paymentColumns = `id, party_id, invoice_id, amount, payment_date, payment_type, direction, notes`

// GetPayment loads one payment
func (t *Tx) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	var p models.Payment
	err := t.get(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return p, fmt.Errorf("payment %s: %w", id, err)
	}
	return p, nil
}

func (t *Tx) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments := []models.Payment{}
	if err := t.selectAll(ctx, &payments, `SELECT `+paymentColumns+` FROM payments WHERE owner_id = ? ORDER BY payment_date, id`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (t *Tx) InsertPayment(ctx context.Context, p models.Payment) error {
	_, err := t.exec(ctx, `
		INSERT INTO payments (owner_id, `+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, p.ID, p.PartyID, p.InvoiceID, p.Amount, p.Date, p.Type, p.Direction, p.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (t *Tx) UpdatePayment(ctx context.Context, p models.Payment) error {
	_, err := t.exec(ctx, `
		UPDATE payments
		SET party_id = ?, invoice_id = ?, amount = ?, payment_date = ?, payment_type = ?, direction = ?, notes = ?
		WHERE owner_id = ? AND id = ?
	`, p.PartyID, p.InvoiceID, p.Amount, p.Date, p.Type, p.Direction, p.Notes, t.ownerID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (t *Tx) DeletePayment(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM payments WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

// DeletePaymentsForInvoice removes every payment linked to an invoice and returns how many went
func (t *Tx) DeletePaymentsForInvoice(ctx context.Context, invoiceID string) (int64, error) {
	res, err := t.exec(ctx, `DELETE FROM payments WHERE owner_id = ? AND invoice_id = ?`, t.ownerID, invoiceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payments of invoice %s: %w", invoiceID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
