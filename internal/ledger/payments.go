package ledger

import (
	"context"
	"errors"

	"rufay/internal/database"
	"rufay/internal/models"
)

func normalizePayment(p *models.Payment) error {
	if p.InvoiceID != nil && *p.InvoiceID == "" {
		p.InvoiceID = nil
	}
	if p.Type == "" {
		p.Type = models.PaymentCash
	}
	if p.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if p.Direction != models.DirectionIn && p.Direction != models.DirectionOut {
		return invalid("direction", "must be %q or %q", models.DirectionIn, models.DirectionOut)
	}
	return nil
}

// effect is what a payment contributes to its linked invoice's paid amount
func effect(p models.Payment) float64 {
	if p.Direction == models.DirectionIn && p.InvoiceID != nil {
		return p.Amount
	}
	return 0
}

func invoiceOf(p models.Payment) string {
	if p.InvoiceID == nil {
		return ""
	}
	return *p.InvoiceID
}

// adjustInvoicePaid moves an invoice's paid amount by delta, clamped at zero, and
// re-derives its status. A missing invoice is skipped unless mustExist is set.
func adjustInvoicePaid(ctx context.Context, tx *database.Tx, invoiceID string, delta float64, mustExist bool) error {
	inv, err := tx.GetInvoice(ctx, invoiceID)
	if errors.Is(err, database.ErrNotFound) && !mustExist {
		return nil
	}
	if err != nil {
		return err
	}

	paid, status := applyPayment(inv.AmountPaid, delta, inv.Total)
	return tx.SetInvoicePaid(ctx, invoiceID, paid, status)
}

func (s *Service) ListPayments(ctx context.Context, ownerID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.read(ctx, ownerID, "ListPayments", func(tx *database.Tx) error {
		var err error
		payments, err = tx.ListPayments(ctx)
		return err
	})
	return payments, err
}

// AddPayment records a payment. Incoming payments linked to an invoice raise its paid amount.
func (s *Service) AddPayment(ctx context.Context, ownerID string, p models.Payment) (models.Payment, error) {
	if err := normalizePayment(&p); err != nil {
		return p, err
	}
	p.ID = s.newID()
	if p.Date == "" {
		p.Date = s.today()
	}

	err := s.write(ctx, ownerID, "AddPayment", func(tx *database.Tx) error {
		if err := requireParty(ctx, tx, p.PartyID); err != nil {
			return err
		}
		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}
		if e := effect(p); e != 0 {
			return adjustInvoicePaid(ctx, tx, *p.InvoiceID, e, true)
		}
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// UpdatePayment replaces a stored payment and moves its effect between invoices.
// The previous version is read from the store, never trusted from the caller.
func (s *Service) UpdatePayment(ctx context.Context, ownerID string, p models.Payment) (models.Payment, error) {
	if err := normalizePayment(&p); err != nil {
		return p, err
	}

	err := s.write(ctx, ownerID, "UpdatePayment", func(tx *database.Tx) error {
		old, err := tx.GetPayment(ctx, p.ID)
		if err != nil {
			return err
		}
		if p.Date == "" {
			p.Date = old.Date
		}
		if err := requireParty(ctx, tx, p.PartyID); err != nil {
			return err
		}
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}

		oldEffect, newEffect := effect(old), effect(p)
		oldInvoice, newInvoice := invoiceOf(old), invoiceOf(p)

		if oldInvoice == newInvoice {
			if oldEffect == newEffect || newInvoice == "" {
				return nil
			}
			return adjustInvoicePaid(ctx, tx, newInvoice, newEffect-oldEffect, newEffect != 0)
		}

		if oldInvoice != "" && oldEffect != 0 {
			if err := adjustInvoicePaid(ctx, tx, oldInvoice, -oldEffect, false); err != nil {
				return err
			}
		}
		if newInvoice != "" && newEffect != 0 {
			return adjustInvoicePaid(ctx, tx, newInvoice, newEffect, true)
		}
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// DeletePayment removes a payment and takes its effect off the linked invoice.
// Deleting a missing payment succeeds.
func (s *Service) DeletePayment(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeletePayment", func(tx *database.Tx) error {
		p, err := tx.GetPayment(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.DeletePayment(ctx, id); err != nil {
			return err
		}
		if e := effect(p); e != 0 {
			return adjustInvoicePaid(ctx, tx, *p.InvoiceID, -e, false)
		}
		return nil
	})
}
