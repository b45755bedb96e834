package ledger

import (
	"fmt"

	"rufay/internal/models"
)

// checkSnapshot rejects snapshots that would break the ledger invariants once restored and
// returns a copy whose counters sit above every document number it contains.
func checkSnapshot(snap models.Snapshot) (models.Snapshot, error) {
	parties := make(map[string]bool, len(snap.Parties))
	for _, p := range snap.Parties {
		parties[p.ID] = true
	}
	series := make(map[string]bool, len(snap.Series))
	for i, sr := range snap.Series {
		if sr.TotalSeats < 0 || sr.AvailableSeats < 0 || sr.AvailableSeats > sr.TotalSeats {
			return snap, invalid(fmt.Sprintf("series[%d].availableSeats", i),
				"%d is outside 0..%d", sr.AvailableSeats, sr.TotalSeats)
		}
		series[sr.ID] = true
	}
	quotations := make(map[string]bool, len(snap.Quotations))
	for _, q := range snap.Quotations {
		quotations[q.ID] = true
	}
	orders := make(map[string]bool, len(snap.SalesOrders))
	for _, so := range snap.SalesOrders {
		orders[so.ID] = true
	}
	invoices := make(map[string]bool, len(snap.Invoices))
	for _, inv := range snap.Invoices {
		invoices[inv.ID] = true
	}

	partyRef := func(field, id string) error {
		if !parties[id] {
			return invalid(field, "party %s is not in the snapshot", id)
		}
		return nil
	}

	seen := map[string]map[int]bool{}
	number := func(docType, field string, n int) error {
		if seen[docType] == nil {
			seen[docType] = map[int]bool{}
		}
		if n < 1 {
			return invalid(field, "must be positive")
		}
		if seen[docType][n] {
			return invalid(field, "%s number %d is used twice", docType, n)
		}
		seen[docType][n] = true
		return nil
	}

	for i, inv := range snap.Invoices {
		field := fmt.Sprintf("invoices[%d]", i)
		if err := number(models.DocInvoice, field+".invoiceNumber", inv.InvoiceNumber); err != nil {
			return snap, err
		}
		if err := partyRef(field+".partyId", inv.PartyID); err != nil {
			return snap, err
		}
		if inv.AmountPaid < 0 {
			return snap, invalid(field+".amountPaid", "must not be negative")
		}
		if want := PaymentStatusFor(inv.AmountPaid, inv.Total); inv.Status != want {
			return snap, invalid(field+".status", "is %s but paid %.2f of %.2f means %s",
				inv.Status, inv.AmountPaid, inv.Total, want)
		}
		if inv.SalesOrderID != nil && *inv.SalesOrderID != "" && !orders[*inv.SalesOrderID] {
			return snap, invalid(field+".salesOrderId", "sales order %s is not in the snapshot", *inv.SalesOrderID)
		}
	}

	for i, p := range snap.Payments {
		field := fmt.Sprintf("payments[%d]", i)
		if err := partyRef(field+".partyId", p.PartyID); err != nil {
			return snap, err
		}
		if p.InvoiceID != nil && *p.InvoiceID != "" && !invoices[*p.InvoiceID] {
			return snap, invalid(field+".invoiceId", "invoice %s is not in the snapshot", *p.InvoiceID)
		}
	}

	for i, b := range snap.Bookings {
		field := fmt.Sprintf("bookings[%d]", i)
		if err := number(models.DocBooking, field+".bookingNumber", b.BookingNumber); err != nil {
			return snap, err
		}
		if err := partyRef(field+".partyId", b.PartyID); err != nil {
			return snap, err
		}
		if !series[b.SeriesID] {
			return snap, invalid(field+".seriesId", "series %s is not in the snapshot", b.SeriesID)
		}
		if b.HasReturn() && !series[*b.ReturnSeriesID] {
			return snap, invalid(field+".returnSeriesId", "series %s is not in the snapshot", *b.ReturnSeriesID)
		}
		if !invoices[b.InvoiceID] {
			return snap, invalid(field+".invoiceId", "invoice %s is not in the snapshot", b.InvoiceID)
		}
	}

	for i, q := range snap.Quotations {
		field := fmt.Sprintf("quotations[%d]", i)
		if err := number(models.DocQuotation, field+".quotationNumber", q.QuotationNumber); err != nil {
			return snap, err
		}
		if err := partyRef(field+".partyId", q.PartyID); err != nil {
			return snap, err
		}
	}

	for i, so := range snap.SalesOrders {
		field := fmt.Sprintf("salesOrders[%d]", i)
		if err := number(models.DocSalesOrder, field+".salesOrderNumber", so.SalesOrderNumber); err != nil {
			return snap, err
		}
		if err := partyRef(field+".partyId", so.PartyID); err != nil {
			return snap, err
		}
		if so.QuotationID != nil && *so.QuotationID != "" && !quotations[*so.QuotationID] {
			return snap, invalid(field+".quotationId", "quotation %s is not in the snapshot", *so.QuotationID)
		}
	}

	s := &snap.Settings
	s.InvoiceCounter = nextAbove(s.InvoiceCounter, seen[models.DocInvoice])
	s.BookingCounter = nextAbove(s.BookingCounter, seen[models.DocBooking])
	s.QuotationCounter = nextAbove(s.QuotationCounter, seen[models.DocQuotation])
	s.SalesOrderCounter = nextAbove(s.SalesOrderCounter, seen[models.DocSalesOrder])
	return snap, nil
}

// nextAbove raises a counter past every number already issued
func nextAbove(counter int, used map[int]bool) int {
	if counter < 1 {
		counter = 1
	}
	for n := range used {
		if n >= counter {
			counter = n + 1
		}
	}
	return counter
}
