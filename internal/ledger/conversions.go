package ledger

import (
	"context"
	"errors"

	"rufay/internal/database"
	"rufay/internal/models"
)

// quotationMoves lists the status changes a user may request directly.
// Accepted is also reached when a sales order is created from the quotation.
var quotationMoves = map[string][]string{
	models.QuotationDraft: {models.QuotationSent},
	models.QuotationSent:  {models.QuotationAccepted, models.QuotationRejected},
}

// salesOrderMoves lists the direct status changes of a sales order.
// Completed is only reached by invoicing the order.
var salesOrderMoves = map[string][]string{
	models.SalesOrderPending:   {models.SalesOrderConfirmed, models.SalesOrderCancelled},
	models.SalesOrderConfirmed: {models.SalesOrderCancelled},
}

func allowed(moves map[string][]string, from, to string) bool {
	for _, next := range moves[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Service) ListQuotations(ctx context.Context, ownerID string) ([]models.Quotation, error) {
	var quotations []models.Quotation
	err := s.read(ctx, ownerID, "ListQuotations", func(tx *database.Tx) error {
		var err error
		quotations, err = tx.ListQuotations(ctx)
		return err
	})
	return quotations, err
}

func (s *Service) GetQuotation(ctx context.Context, ownerID, id string) (models.Quotation, error) {
	var q models.Quotation
	err := s.read(ctx, ownerID, "GetQuotation", func(tx *database.Tx) error {
		var err error
		q, err = tx.GetQuotation(ctx, id)
		return err
	})
	return q, err
}

// CreateQuotation numbers and prices a quotation; it starts as Draft unless Sent is asked for
func (s *Service) CreateQuotation(ctx context.Context, ownerID string, in models.Quotation) (models.Quotation, error) {
	if err := validateItems(in.Items, in.Tax); err != nil {
		return in, err
	}
	status := in.Status
	if status == "" {
		status = models.QuotationDraft
	}
	if status != models.QuotationDraft && status != models.QuotationSent {
		return in, invalid("status", "a new quotation is %s or %s", models.QuotationDraft, models.QuotationSent)
	}

	q := models.Quotation{
		ID:         s.newID(),
		PartyID:    in.PartyID,
		Date:       in.Date,
		Items:      in.Items,
		Tax:        in.Tax,
		Total:      DocumentTotal(in.Items, in.Tax),
		Status:     status,
		ValidUntil: in.ValidUntil,
	}
	if q.Date == "" {
		q.Date = s.today()
	}

	err := s.write(ctx, ownerID, "CreateQuotation", func(tx *database.Tx) error {
		if err := requireParty(ctx, tx, q.PartyID); err != nil {
			return err
		}
		if err := fillProductNames(ctx, tx, q.Items); err != nil {
			return err
		}
		n, err := nextNumber(ctx, tx, models.DocQuotation)
		if err != nil {
			return err
		}
		q.QuotationNumber = n
		return tx.InsertQuotation(ctx, q)
	})
	if err != nil {
		return models.Quotation{}, err
	}
	return q, nil
}

// UpdateQuotationStatus applies Draft→Sent, Sent→Accepted or Sent→Rejected
func (s *Service) UpdateQuotationStatus(ctx context.Context, ownerID, id, status string) (models.Quotation, error) {
	var q models.Quotation
	err := s.write(ctx, ownerID, "UpdateQuotationStatus", func(tx *database.Tx) error {
		var err error
		if q, err = tx.GetQuotation(ctx, id); err != nil {
			return err
		}
		if !allowed(quotationMoves, q.Status, status) {
			return transition("quotation", id, q.Status, status)
		}
		q.Status = status
		return tx.SetQuotationStatus(ctx, id, status)
	})
	return q, err
}

// DeleteQuotation fails while a sales order was converted from it. Missing quotations are ignored.
func (s *Service) DeleteQuotation(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteQuotation", func(tx *database.Tx) error {
		ref, err := tx.QuotationReference(ctx, id)
		if err != nil {
			return err
		}
		if ref != nil {
			return blocked(ctx, tx, "quotation", id, ref)
		}
		return tx.DeleteQuotation(ctx, id)
	})
}

func (s *Service) ListSalesOrders(ctx context.Context, ownerID string) ([]models.SalesOrder, error) {
	var orders []models.SalesOrder
	err := s.read(ctx, ownerID, "ListSalesOrders", func(tx *database.Tx) error {
		var err error
		orders, err = tx.ListSalesOrders(ctx)
		return err
	})
	return orders, err
}

func (s *Service) GetSalesOrder(ctx context.Context, ownerID, id string) (models.SalesOrder, error) {
	var so models.SalesOrder
	err := s.read(ctx, ownerID, "GetSalesOrder", func(tx *database.Tx) error {
		var err error
		so, err = tx.GetSalesOrder(ctx, id)
		return err
	})
	return so, err
}

// CreateSalesOrder numbers a new Pending order. With QuotationID set the quotation is
// converted: it must still be Draft or Sent and is marked Accepted in the same transaction.
// Its lines and tax are used when the request carries none.
func (s *Service) CreateSalesOrder(ctx context.Context, ownerID string, in models.SalesOrder) (models.SalesOrder, error) {
	so := models.SalesOrder{
		ID:          s.newID(),
		PartyID:     in.PartyID,
		Date:        in.Date,
		Items:       in.Items,
		Tax:         in.Tax,
		Status:      models.SalesOrderPending,
		QuotationID: in.QuotationID,
	}
	if so.Date == "" {
		so.Date = s.today()
	}
	if so.QuotationID != nil && *so.QuotationID == "" {
		so.QuotationID = nil
	}
	if so.QuotationID == nil {
		if err := validateItems(so.Items, so.Tax); err != nil {
			return in, err
		}
	}

	err := s.write(ctx, ownerID, "CreateSalesOrder", func(tx *database.Tx) error {
		if so.QuotationID != nil {
			q, err := tx.GetQuotation(ctx, *so.QuotationID)
			if err != nil {
				return err
			}
			if q.Status != models.QuotationDraft && q.Status != models.QuotationSent {
				return transition("quotation", q.ID, q.Status, models.QuotationAccepted)
			}
			if len(so.Items) == 0 {
				so.Items, so.Tax = q.Items, q.Tax
			}
			if so.PartyID == "" {
				so.PartyID = q.PartyID
			}
			if err := validateItems(so.Items, so.Tax); err != nil {
				return err
			}
			if err := tx.SetQuotationStatus(ctx, q.ID, models.QuotationAccepted); err != nil {
				return err
			}
		}

		if err := requireParty(ctx, tx, so.PartyID); err != nil {
			return err
		}
		if err := fillProductNames(ctx, tx, so.Items); err != nil {
			return err
		}
		so.Total = DocumentTotal(so.Items, so.Tax)

		n, err := nextNumber(ctx, tx, models.DocSalesOrder)
		if err != nil {
			return err
		}
		so.SalesOrderNumber = n
		return tx.InsertSalesOrder(ctx, so)
	})
	if err != nil {
		return models.SalesOrder{}, err
	}
	return so, nil
}

// UpdateSalesOrderStatus applies Pending→Confirmed or Pending/Confirmed→Cancelled
func (s *Service) UpdateSalesOrderStatus(ctx context.Context, ownerID, id, status string) (models.SalesOrder, error) {
	var so models.SalesOrder
	err := s.write(ctx, ownerID, "UpdateSalesOrderStatus", func(tx *database.Tx) error {
		var err error
		if so, err = tx.GetSalesOrder(ctx, id); err != nil {
			return err
		}
		if !allowed(salesOrderMoves, so.Status, status) {
			return transition("sales order", id, so.Status, status)
		}
		so.Status = status
		return tx.SetSalesOrderStatus(ctx, id, status)
	})
	return so, err
}

// DeleteSalesOrder fails while an invoice was converted from it. Missing orders are ignored.
func (s *Service) DeleteSalesOrder(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteSalesOrder", func(tx *database.Tx) error {
		if _, err := tx.GetSalesOrder(ctx, id); errors.Is(err, database.ErrNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		ref, err := tx.SalesOrderReference(ctx, id)
		if err != nil {
			return err
		}
		if ref != nil {
			return blocked(ctx, tx, "sales order", id, ref)
		}
		return tx.DeleteSalesOrder(ctx, id)
	})
}
