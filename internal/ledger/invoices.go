package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rufay/internal/database"
	"rufay/internal/models"
)

func validateItems(items []models.LineItem, tax float64) error {
	if len(items) == 0 {
		return invalid("items", "at least one line item is required")
	}
	for i, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return invalid(fmt.Sprintf("items[%d].productId", i), "is required")
		}
		if item.Quantity <= 0 {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}
		if item.Rate < 0 {
			return invalid(fmt.Sprintf("items[%d].rate", i), "must not be negative")
		}
		if item.Discount < 0 || item.Discount > 100 {
			return invalid(fmt.Sprintf("items[%d].discount", i), "must be between 0 and 100")
		}
	}
	if tax < 0 {
		return invalid("tax", "must not be negative")
	}
	return nil
}

// requireParty maps a missing party to a validation failure
func requireParty(ctx context.Context, tx *database.Tx, partyID string) error {
	if partyID == "" {
		return invalid("partyId", "is required")
	}
	_, err := tx.GetParty(ctx, partyID)
	if errors.Is(err, database.ErrNotFound) {
		return invalid("partyId", "party %s does not exist", partyID)
	}
	return err
}

// fillProductNames copies catalogue names onto lines that arrive without one
func fillProductNames(ctx context.Context, tx *database.Tx, items []models.LineItem) error {
	for i := range items {
		if items[i].ProductName != "" {
			continue
		}
		p, err := tx.GetProduct(ctx, items[i].ProductID)
		if errors.Is(err, database.ErrNotFound) {
			return invalid(fmt.Sprintf("items[%d].productId", i), "product %s does not exist", items[i].ProductID)
		}
		if err != nil {
			return err
		}
		items[i].ProductName = p.Name
	}
	return nil
}

func (s *Service) ListInvoices(ctx context.Context, ownerID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.read(ctx, ownerID, "ListInvoices", func(tx *database.Tx) error {
		var err error
		invoices, err = tx.ListInvoices(ctx)
		return err
	})
	return invoices, err
}

func (s *Service) GetInvoice(ctx context.Context, ownerID, id string) (models.Invoice, error) {
	var inv models.Invoice
	err := s.read(ctx, ownerID, "GetInvoice", func(tx *database.Tx) error {
		var err error
		inv, err = tx.GetInvoice(ctx, id)
		return err
	})
	return inv, err
}

// CreateInvoice numbers and prices a new invoice. When SalesOrderID is set the order is
// converted: it must be Pending or Confirmed and becomes Completed in the same transaction.
func (s *Service) CreateInvoice(ctx context.Context, ownerID string, in models.Invoice) (models.Invoice, error) {
	return s.CreateInvoiceWithPayment(ctx, ownerID, models.CreateInvoiceRequest{Invoice: in})
}

// CreateInvoiceWithPayment creates an invoice and, when req.Payment carries an amount, records
// that incoming payment against it in the same transaction.
func (s *Service) CreateInvoiceWithPayment(ctx context.Context, ownerID string, req models.CreateInvoiceRequest) (models.Invoice, error) {
	in := req.Invoice
	if err := validateItems(in.Items, in.Tax); err != nil {
		return in, err
	}

	var pay *models.Payment
	if req.Payment != nil {
		if req.Payment.Amount < 0 {
			return in, invalid("payment.amount", "must not be negative")
		}
		if req.Payment.Amount > 0 {
			pay = &models.Payment{
				ID:        s.newID(),
				Amount:    req.Payment.Amount,
				Type:      req.Payment.Type,
				Direction: models.DirectionIn,
				Notes:     req.Payment.Notes,
			}
		}
	}

	inv := models.Invoice{
		ID:           s.newID(),
		PartyID:      in.PartyID,
		Date:         in.Date,
		Items:        in.Items,
		Tax:          in.Tax,
		Total:        DocumentTotal(in.Items, in.Tax),
		AmountPaid:   0,
		Status:       models.PaymentUnpaid,
		SalesOrderID: in.SalesOrderID,
	}
	if inv.Date == "" {
		inv.Date = s.today()
	}

	err := s.write(ctx, ownerID, "CreateInvoice", func(tx *database.Tx) error {
		if err := requireParty(ctx, tx, inv.PartyID); err != nil {
			return err
		}
		if err := fillProductNames(ctx, tx, inv.Items); err != nil {
			return err
		}

		if inv.SalesOrderID != nil && *inv.SalesOrderID != "" {
			so, err := tx.GetSalesOrder(ctx, *inv.SalesOrderID)
			if err != nil {
				return err
			}
			if so.Status != models.SalesOrderPending && so.Status != models.SalesOrderConfirmed {
				return transition("sales order", so.ID, so.Status, models.SalesOrderCompleted)
			}
			if err := tx.SetSalesOrderStatus(ctx, so.ID, models.SalesOrderCompleted); err != nil {
				return err
			}
		} else {
			inv.SalesOrderID = nil
		}

		n, err := nextNumber(ctx, tx, models.DocInvoice)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = n
		if err := tx.InsertInvoice(ctx, inv); err != nil {
			return err
		}
		if pay == nil {
			return nil
		}

		invoiceID := inv.ID
		pay.PartyID = inv.PartyID
		pay.InvoiceID = &invoiceID
		pay.Date = inv.Date
		if err := normalizePayment(pay); err != nil {
			return err
		}
		if err := tx.InsertPayment(ctx, *pay); err != nil {
			return err
		}
		if err := adjustInvoicePaid(ctx, tx, inv.ID, pay.Amount, true); err != nil {
			return err
		}
		inv.AmountPaid, inv.Status = applyPayment(inv.AmountPaid, pay.Amount, inv.Total)
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}

	s.log.Info().Str("owner_id", ownerID).Str("invoice_id", inv.ID).Int("number", inv.InvoiceNumber).
		Float64("total", inv.Total).Msg("invoice created")
	return inv, nil
}

// UpdateInvoice reprices an invoice and re-derives its status from what is already paid.
// Invoices generated by a booking can only change through the booking.
func (s *Service) UpdateInvoice(ctx context.Context, ownerID string, in models.Invoice) (models.Invoice, error) {
	if err := validateItems(in.Items, in.Tax); err != nil {
		return in, err
	}

	var inv models.Invoice
	err := s.write(ctx, ownerID, "UpdateInvoice", func(tx *database.Tx) error {
		current, err := tx.GetInvoice(ctx, in.ID)
		if err != nil {
			return err
		}
		if err := guardBookingInvoice(ctx, tx, current.ID, "edit"); err != nil {
			return err
		}
		if err := requireParty(ctx, tx, in.PartyID); err != nil {
			return err
		}
		if err := fillProductNames(ctx, tx, in.Items); err != nil {
			return err
		}

		inv = current
		inv.PartyID = in.PartyID
		if in.Date != "" {
			inv.Date = in.Date
		}
		inv.Items = in.Items
		inv.Tax = in.Tax
		inv.Total = DocumentTotal(in.Items, in.Tax)
		inv.Status = PaymentStatusFor(inv.AmountPaid, inv.Total)
		return tx.UpdateInvoice(ctx, inv)
	})
	return inv, err
}

// DeleteInvoice removes an invoice and its payments. Missing invoices are ignored.
func (s *Service) DeleteInvoice(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteInvoice", func(tx *database.Tx) error {
		if _, err := tx.GetInvoice(ctx, id); errors.Is(err, database.ErrNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		if err := guardBookingInvoice(ctx, tx, id, ""); err != nil {
			return err
		}
		if _, err := tx.DeletePaymentsForInvoice(ctx, id); err != nil {
			return err
		}
		return tx.DeleteInvoice(ctx, id)
	})
}

func guardBookingInvoice(ctx context.Context, tx *database.Tx, invoiceID, action string) error {
	b, err := tx.BookingForInvoice(ctx, invoiceID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	label, err := reference(ctx, tx, &database.Reference{Entity: models.DocBooking, ID: b.ID, Number: b.BookingNumber})
	if err != nil {
		return err
	}
	return &DependencyError{Entity: "invoice", ID: invoiceID, BlockedBy: models.DocBooking, Reference: label, Action: action}
}
