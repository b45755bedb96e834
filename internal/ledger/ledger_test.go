package ledger

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rufay/internal/database"
	"rufay/internal/models"
)

const owner = "owner-1"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newServiceAt(t, ":memory:")
}

func newServiceAt(t *testing.T, dsn string) *Service {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.CreateOwner(ctx, models.User{
		ID: owner, Email: "owner@example.com", PasswordHash: "x", Role: models.RoleAdmin, OwnerID: owner,
	}, models.DefaultSettings("owner@example.com")))

	s := NewService(db)
	s.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return s
}

func mustParty(t *testing.T, s *Service, name string) models.Party {
	t.Helper()
	p, err := s.CreateParty(context.Background(), owner, models.Party{Name: name, Type: models.PartyCustomer})
	require.NoError(t, err)
	return p
}

func mustSeries(t *testing.T, s *Service, pnr string, seats int) models.Series {
	t.Helper()
	sr, err := s.CreateSeries(context.Background(), owner, models.Series{
		PNR: pnr, Airline: "Air India", Route: "DEL-DXB", TotalSeats: seats, PurchasePricePerSeat: 60,
		DepartureDate: "2026-04-01T10:00", ArrivalDate: "2026-04-01T13:00",
	})
	require.NoError(t, err)
	return sr
}

func mustInvoice(t *testing.T, s *Service, partyID string, total float64) models.Invoice {
	t.Helper()
	inv, err := s.CreateInvoice(context.Background(), owner, models.Invoice{
		PartyID: partyID,
		Items:   []models.LineItem{{ProductID: "svc", ProductName: "Service", Rate: total, Quantity: 1}},
	})
	require.NoError(t, err)
	return inv
}

func mustPay(t *testing.T, s *Service, partyID, invoiceID string, amount float64) models.Payment {
	t.Helper()
	p, err := s.AddPayment(context.Background(), owner, models.Payment{
		PartyID: partyID, InvoiceID: &invoiceID, Amount: amount, Direction: models.DirectionIn,
	})
	require.NoError(t, err)
	return p
}

func passengers(n int) []models.Passenger {
	out := make([]models.Passenger, n)
	for i := range out {
		out[i] = models.Passenger{Name: fmt.Sprintf("Passenger %d", i+1), Type: models.PassengerAdult}
	}
	return out
}

func seriesByID(t *testing.T, s *Service, id string) models.Series {
	t.Helper()
	all, err := s.ListSeries(context.Background(), owner)
	require.NoError(t, err)
	for _, sr := range all {
		if sr.ID == id {
			return sr
		}
	}
	t.Fatalf("series %s not found", id)
	return models.Series{}
}

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		paid, total float64
		want        string
	}{
		{0, 100, models.PaymentUnpaid},
		{0.01, 100, models.PaymentPartial},
		{99.99, 100, models.PaymentPartial},
		{100, 100, models.PaymentPaid},
		{150, 100, models.PaymentPaid},
		{0, 0, models.PaymentPaid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PaymentStatusFor(tt.paid, tt.total), "paid=%v total=%v", tt.paid, tt.total)
	}
}

func TestDocumentTotal(t *testing.T) {
	items := []models.LineItem{
		{Rate: 100, Quantity: 2, Discount: 10},
		{Rate: 0.1, Quantity: 3},
	}
	assert.InDelta(t, 180.3, DocumentTotal(items, 0), 1e-9)
	assert.InDelta(t, 212.754, DocumentTotal(items, 18), 1e-9)
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	series := mustSeries(t, s, "PNR1", 10)

	res, err := s.CreateBooking(ctx, owner, models.CreateBookingRequest{
		SeriesID: series.ID, PartyID: party.ID, Passengers: passengers(3), SellingPricePerSeat: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, seriesByID(t, s, series.ID).AvailableSeats)
	assert.Equal(t, 300.0, res.Booking.TotalAmount)
	assert.Equal(t, res.Invoice.ID, res.Booking.InvoiceID)
	assert.Equal(t, 300.0, res.Invoice.Total)
	assert.Equal(t, models.PaymentUnpaid, res.Invoice.Status)
	assert.Equal(t, "2026-03-14", res.Invoice.Date)
	require.Len(t, res.Invoice.Items, 1)
	assert.Equal(t, "ticket-PNR1", res.Invoice.Items[0].ProductID)
	assert.Equal(t, "Flight: Air India - DEL-DXB", res.Invoice.Items[0].ProductName)
	require.Len(t, res.Series, 1)
	assert.Equal(t, 7, res.Series[0].AvailableSeats)

	pay := mustPay(t, s, party.ID, res.Invoice.ID, 300)
	inv, err := s.GetInvoice(ctx, owner, res.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, inv.Status)

	require.NoError(t, s.DeleteBooking(ctx, owner, res.Booking.ID))

	assert.Equal(t, 10, seriesByID(t, s, series.ID).AvailableSeats)
	_, err = s.GetInvoice(ctx, owner, res.Invoice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	payments, err := s.ListPayments(ctx, owner)
	require.NoError(t, err)
	for _, p := range payments {
		assert.NotEqual(t, pay.ID, p.ID)
	}
	_, err = s.GetBooking(ctx, owner, res.Booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting again is a no-op
	require.NoError(t, s.DeleteBooking(ctx, owner, res.Booking.ID))
}

func TestDeleteBookingCapsRestoredSeats(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	var logs bytes.Buffer
	s.log = zerolog.New(&logs)

	party := mustParty(t, s, "Asha")
	series := mustSeries(t, s, "PNR1", 10)
	res, err := s.CreateBooking(ctx, owner, models.CreateBookingRequest{
		SeriesID: series.ID, PartyID: party.ID, Passengers: passengers(3), SellingPricePerSeat: 100,
	})
	require.NoError(t, err)

	// seats handed back outside the booking flow
	require.NoError(t, s.db.InOwnerTx(ctx, owner, func(tx *database.Tx) error {
		sr, err := tx.GetSeries(ctx, series.ID)
		if err != nil {
			return err
		}
		sr.AvailableSeats = sr.TotalSeats
		return tx.UpdateSeries(ctx, sr)
	}))

	require.NoError(t, s.DeleteBooking(ctx, owner, res.Booking.ID))
	assert.Equal(t, 10, seriesByID(t, s, series.ID).AvailableSeats)
	assert.Contains(t, logs.String(), "restored seats exceed total")
	assert.Contains(t, logs.String(), `"available":13`)
}

func TestBookingRoundTripSeatConservation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	out := mustSeries(t, s, "OUT1", 6)
	back := mustSeries(t, s, "RET1", 4)

	res, err := s.CreateBooking(ctx, owner, models.CreateBookingRequest{
		SeriesID: out.ID, ReturnSeriesID: back.ID, PartyID: party.ID, Passengers: passengers(4),
		SellingPricePerSeat: 100, ReturnSellingPricePerSeat: 80,
	})
	require.NoError(t, err)

	assert.Equal(t, 720.0, res.Booking.TotalAmount)
	assert.Equal(t, 720.0, res.Invoice.Total)
	require.Len(t, res.Invoice.Items, 2)
	assert.Equal(t, "Return Flight: Air India - DEL-DXB", res.Invoice.Items[1].ProductName)
	assert.Equal(t, 2, seriesByID(t, s, out.ID).AvailableSeats)
	assert.Equal(t, 0, seriesByID(t, s, back.ID).AvailableSeats)

	require.NoError(t, s.DeleteBooking(ctx, owner, res.Booking.ID))
	assert.Equal(t, 6, seriesByID(t, s, out.ID).AvailableSeats)
	assert.Equal(t, 4, seriesByID(t, s, back.ID).AvailableSeats)
}

func TestCreateBookingValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	small := mustSeries(t, s, "SML", 2)
	other := mustSeries(t, s, "OTH", 5)

	tests := []struct {
		name string
		req  models.CreateBookingRequest
	}{
		{"not enough seats", models.CreateBookingRequest{SeriesID: small.ID, PartyID: party.ID, Passengers: passengers(3), SellingPricePerSeat: 100}},
		{"no passengers", models.CreateBookingRequest{SeriesID: small.ID, PartyID: party.ID, SellingPricePerSeat: 100}},
		{"no price", models.CreateBookingRequest{SeriesID: small.ID, PartyID: party.ID, Passengers: passengers(1)}},
		{"missing series", models.CreateBookingRequest{SeriesID: "nope", PartyID: party.ID, Passengers: passengers(1), SellingPricePerSeat: 100}},
		{"missing party", models.CreateBookingRequest{SeriesID: small.ID, PartyID: "nope", Passengers: passengers(1), SellingPricePerSeat: 100}},
		{"return without price", models.CreateBookingRequest{SeriesID: other.ID, ReturnSeriesID: small.ID, PartyID: party.ID, Passengers: passengers(1), SellingPricePerSeat: 100}},
		{"return same as outbound", models.CreateBookingRequest{SeriesID: other.ID, ReturnSeriesID: other.ID, PartyID: party.ID, Passengers: passengers(1), SellingPricePerSeat: 100, ReturnSellingPricePerSeat: 50}},
		{"return short of seats", models.CreateBookingRequest{SeriesID: other.ID, ReturnSeriesID: small.ID, PartyID: party.ID, Passengers: passengers(3), SellingPricePerSeat: 100, ReturnSellingPricePerSeat: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateBooking(ctx, owner, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// nothing was written by the failed attempts
	assert.Equal(t, 2, seriesByID(t, s, small.ID).AvailableSeats)
	assert.Equal(t, 5, seriesByID(t, s, other.ID).AvailableSeats)
	settings, err := s.GetSettings(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, settings.InvoiceCounter)
	assert.Equal(t, 1, settings.BookingCounter)
}

func TestPaymentMovedBetweenInvoices(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	a := mustInvoice(t, s, party.ID, 500)
	b := mustInvoice(t, s, party.ID, 500)
	pay := mustPay(t, s, party.ID, a.ID, 200)

	got, err := s.GetInvoice(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, got.Status)

	pay.InvoiceID = &b.ID
	_, err = s.UpdatePayment(ctx, owner, pay)
	require.NoError(t, err)

	got, err = s.GetInvoice(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AmountPaid)
	assert.Equal(t, models.PaymentUnpaid, got.Status)

	got, err = s.GetInvoice(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.AmountPaid)
	assert.Equal(t, models.PaymentPartial, got.Status)
}

func TestUpdatePaymentOnSameInvoice(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	inv := mustInvoice(t, s, party.ID, 500)
	pay := mustPay(t, s, party.ID, inv.ID, 200)

	pay.Amount = 500
	_, err := s.UpdatePayment(ctx, owner, pay)
	require.NoError(t, err)
	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.AmountPaid)
	assert.Equal(t, models.PaymentPaid, got.Status)

	pay.Direction = models.DirectionOut
	_, err = s.UpdatePayment(ctx, owner, pay)
	require.NoError(t, err)
	got, err = s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AmountPaid)
	assert.Equal(t, models.PaymentUnpaid, got.Status)

	pay.ID = "missing"
	_, err = s.UpdatePayment(ctx, owner, pay)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePaymentClampsAtZero(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	inv := mustInvoice(t, s, party.ID, 100)
	mustPay(t, s, party.ID, inv.ID, 100)

	// a payment linked by hand without going through the reconciler
	stray := models.Payment{ID: "stray", PartyID: party.ID, InvoiceID: &inv.ID, Amount: 150, Date: "2026-03-01", Type: models.PaymentCash, Direction: models.DirectionIn}
	require.NoError(t, s.db.InOwnerTx(ctx, owner, func(tx *database.Tx) error {
		return tx.InsertPayment(ctx, stray)
	}))

	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.Status)

	require.NoError(t, s.DeletePayment(ctx, owner, "stray"))

	got, err = s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AmountPaid)
	assert.Equal(t, models.PaymentUnpaid, got.Status)

	require.NoError(t, s.DeletePayment(ctx, owner, "stray"))
}

func TestPaymentsNeverNegative(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	inv := mustInvoice(t, s, party.ID, 300)

	p1 := mustPay(t, s, party.ID, inv.ID, 100)
	p2 := mustPay(t, s, party.ID, inv.ID, 250)

	check := func(wantPaid float64) {
		got, err := s.GetInvoice(ctx, owner, inv.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.AmountPaid, 0.0)
		assert.Equal(t, wantPaid, got.AmountPaid)
		assert.Equal(t, PaymentStatusFor(got.AmountPaid, got.Total), got.Status)
	}

	check(350)
	p1.Amount = 20
	_, err := s.UpdatePayment(ctx, owner, p1)
	require.NoError(t, err)
	check(270)
	require.NoError(t, s.DeletePayment(ctx, owner, p2.ID))
	check(20)
	require.NoError(t, s.DeletePayment(ctx, owner, p1.ID))
	check(0)
}

func TestAddPaymentRules(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	inv := mustInvoice(t, s, party.ID, 100)
	missing := "missing"

	_, err := s.AddPayment(ctx, owner, models.Payment{PartyID: party.ID, Amount: 0, Direction: models.DirectionIn})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.AddPayment(ctx, owner, models.Payment{PartyID: party.ID, Amount: 10, Direction: "sideways"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.AddPayment(ctx, owner, models.Payment{PartyID: party.ID, InvoiceID: &missing, Amount: 10, Direction: models.DirectionIn})
	assert.ErrorIs(t, err, ErrNotFound)

	// outgoing and unlinked payments never touch an invoice
	_, err = s.AddPayment(ctx, owner, models.Payment{PartyID: party.ID, InvoiceID: &inv.ID, Amount: 40, Direction: models.DirectionOut})
	require.NoError(t, err)
	_, err = s.AddPayment(ctx, owner, models.Payment{PartyID: party.ID, Amount: 40, Direction: models.DirectionIn})
	require.NoError(t, err)

	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AmountPaid)
}

func TestCountersStrictlyIncrease(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")

	var last int
	for i := 0; i < 5; i++ {
		inv := mustInvoice(t, s, party.ID, 10)
		assert.Greater(t, inv.InvoiceNumber, last)
		last = inv.InvoiceNumber
		if i%2 == 0 {
			require.NoError(t, s.DeleteInvoice(ctx, owner, inv.ID))
		}
	}
	assert.Equal(t, 5, last)

	n, err := s.NextNumber(ctx, owner, models.DocQuotation)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = s.NextNumber(ctx, owner, "receipt")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPartyDependencyGuard(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	inv := mustInvoice(t, s, party.ID, 100)
	mustPay(t, s, party.ID, inv.ID, 50)

	err := s.DeleteParty(ctx, owner, party.ID)
	require.ErrorIs(t, err, ErrDependencyExists)
	var dep *DependencyError
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, models.DocInvoice, dep.BlockedBy)
	assert.Equal(t, "INV-1", dep.Reference)

	require.NoError(t, s.DeleteInvoice(ctx, owner, inv.ID))
	require.NoError(t, s.DeleteParty(ctx, owner, party.ID))

	_, err = s.GetParty(ctx, owner, party.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeriesAndBookingInvoiceGuards(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	series := mustSeries(t, s, "PNR9", 5)

	res, err := s.CreateBooking(ctx, owner, models.CreateBookingRequest{
		SeriesID: series.ID, PartyID: party.ID, Passengers: passengers(2), SellingPricePerSeat: 150,
	})
	require.NoError(t, err)

	err = s.DeleteSeries(ctx, owner, series.ID)
	var dep *DependencyError
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, "BKG-1", dep.Reference)

	err = s.DeleteInvoice(ctx, owner, res.Invoice.ID)
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, "BKG-1", dep.Reference)

	inv := res.Invoice
	inv.Tax = 5
	_, err = s.UpdateInvoice(ctx, owner, inv)
	assert.ErrorIs(t, err, ErrDependencyExists)

	err = s.DeleteParty(ctx, owner, party.ID)
	assert.ErrorIs(t, err, ErrDependencyExists)
}

func TestUpdateSeriesKeepsSoldSeats(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	series := mustSeries(t, s, "PNR2", 10)

	_, err := s.CreateBooking(ctx, owner, models.CreateBookingRequest{
		SeriesID: series.ID, PartyID: party.ID, Passengers: passengers(4), SellingPricePerSeat: 100,
	})
	require.NoError(t, err)

	series.TotalSeats = 12
	updated, err := s.UpdateSeries(ctx, owner, series)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.AvailableSeats)

	series.TotalSeats = 3
	_, err = s.UpdateSeries(ctx, owner, series)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 8, seriesByID(t, s, series.ID).AvailableSeats)
}

func TestCreateInvoiceWithPayment(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	items := []models.LineItem{{ProductID: "svc", ProductName: "Visa fee", Rate: 200, Quantity: 1}}

	tests := []struct {
		name       string
		payment    *models.InvoicePayment
		wantPaid   float64
		wantStatus string
		payments   int
	}{
		{"no payment", nil, 0, models.PaymentUnpaid, 0},
		{"zero amount records nothing", &models.InvoicePayment{}, 0, models.PaymentUnpaid, 0},
		{"part paid", &models.InvoicePayment{Amount: 50, Type: models.PaymentUPI, Notes: "advance"}, 50, models.PaymentPartial, 1},
		{"paid in full", &models.InvoicePayment{Amount: 200}, 200, models.PaymentPaid, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := s.ListPayments(ctx, owner)
			require.NoError(t, err)

			inv, err := s.CreateInvoiceWithPayment(ctx, owner, models.CreateInvoiceRequest{
				Invoice: models.Invoice{PartyID: party.ID, Items: items},
				Payment: tt.payment,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, inv.AmountPaid)
			assert.Equal(t, tt.wantStatus, inv.Status)

			stored, err := s.GetInvoice(ctx, owner, inv.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, stored.AmountPaid)
			assert.Equal(t, tt.wantStatus, stored.Status)

			after, err := s.ListPayments(ctx, owner)
			require.NoError(t, err)
			require.Len(t, after, len(before)+tt.payments)
			for _, p := range after {
				if p.InvoiceID != nil && *p.InvoiceID == inv.ID {
					assert.Equal(t, models.DirectionIn, p.Direction)
					assert.Equal(t, party.ID, p.PartyID)
					assert.Equal(t, tt.wantPaid, p.Amount)
				}
			}
		})
	}

	// deleting the payment takes the amount back off the invoice it was recorded with
	inv, err := s.CreateInvoiceWithPayment(ctx, owner, models.CreateInvoiceRequest{
		Invoice: models.Invoice{PartyID: party.ID, Items: items},
		Payment: &models.InvoicePayment{Amount: 80},
	})
	require.NoError(t, err)
	all, err := s.ListPayments(ctx, owner)
	require.NoError(t, err)
	for _, p := range all {
		if p.InvoiceID != nil && *p.InvoiceID == inv.ID {
			require.NoError(t, s.DeletePayment(ctx, owner, p.ID))
		}
	}
	inv, err = s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, inv.AmountPaid)
	assert.Equal(t, models.PaymentUnpaid, inv.Status)
}

func TestCreateInvoiceWithPaymentIsAtomic(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")

	_, err := s.CreateInvoiceWithPayment(ctx, owner, models.CreateInvoiceRequest{
		Invoice: models.Invoice{PartyID: party.ID, Items: []models.LineItem{{ProductID: "svc", ProductName: "Fee", Rate: 10, Quantity: 1}}},
		Payment: &models.InvoicePayment{Amount: -5},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateInvoiceWithPayment(ctx, owner, models.CreateInvoiceRequest{
		Invoice: models.Invoice{PartyID: "ghost", Items: []models.LineItem{{ProductID: "svc", ProductName: "Fee", Rate: 10, Quantity: 1}}},
		Payment: &models.InvoicePayment{Amount: 5},
	})
	assert.ErrorIs(t, err, ErrValidation)

	invoices, err := s.ListInvoices(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, invoices)
	payments, err := s.ListPayments(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, payments)

	inv := mustInvoice(t, s, party.ID, 10)
	assert.Equal(t, 1, inv.InvoiceNumber)
}

func TestUpdateInvoiceRederivesStatus(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	inv := mustInvoice(t, s, party.ID, 100)
	mustPay(t, s, party.ID, inv.ID, 100)

	inv.Items[0].Rate = 250
	updated, err := s.UpdateInvoice(ctx, owner, inv)
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Total)
	assert.Equal(t, 100.0, updated.AmountPaid)
	assert.Equal(t, models.PaymentPartial, updated.Status)
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
}

func TestConversionChain(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	product, err := s.CreateProduct(ctx, owner, models.Product{Name: "Visa service", PurchasePrice: 40, SellingPrice: 100, Stock: 5})
	require.NoError(t, err)

	q, err := s.CreateQuotation(ctx, owner, models.Quotation{
		PartyID: party.ID, Tax: 10, ValidUntil: "2026-04-14",
		Items: []models.LineItem{{ProductID: product.ID, Rate: 100, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuotationDraft, q.Status)
	assert.Equal(t, 1, q.QuotationNumber)
	assert.InDelta(t, 220.0, q.Total, 1e-9)
	assert.Equal(t, "Visa service", q.Items[0].ProductName)

	_, err = s.UpdateQuotationStatus(ctx, owner, q.ID, models.QuotationAccepted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	so, err := s.CreateSalesOrder(ctx, owner, models.SalesOrder{QuotationID: &q.ID})
	require.NoError(t, err)
	assert.Equal(t, models.SalesOrderPending, so.Status)
	assert.Equal(t, party.ID, so.PartyID)
	assert.InDelta(t, 220.0, so.Total, 1e-9)

	q, err = s.GetQuotation(ctx, owner, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuotationAccepted, q.Status)

	_, err = s.CreateSalesOrder(ctx, owner, models.SalesOrder{QuotationID: &q.ID})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	so, err = s.UpdateSalesOrderStatus(ctx, owner, so.ID, models.SalesOrderConfirmed)
	require.NoError(t, err)

	inv, err := s.CreateInvoice(ctx, owner, models.Invoice{PartyID: party.ID, Items: so.Items, Tax: so.Tax, SalesOrderID: &so.ID})
	require.NoError(t, err)
	assert.Equal(t, &so.ID, inv.SalesOrderID)

	so, err = s.GetSalesOrder(ctx, owner, so.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SalesOrderCompleted, so.Status)

	_, err = s.CreateInvoice(ctx, owner, models.Invoice{PartyID: party.ID, Items: so.Items, SalesOrderID: &so.ID})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.UpdateSalesOrderStatus(ctx, owner, so.ID, models.SalesOrderCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = s.DeleteProduct(ctx, owner, product.ID)
	assert.ErrorIs(t, err, ErrDependencyExists)
	err = s.DeleteSalesOrder(ctx, owner, so.ID)
	assert.ErrorIs(t, err, ErrDependencyExists)
	err = s.DeleteQuotation(ctx, owner, q.ID)
	assert.ErrorIs(t, err, ErrDependencyExists)
}

func TestQuotationTransitions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	items := []models.LineItem{{ProductID: "svc", ProductName: "Service", Rate: 10, Quantity: 1}}

	q, err := s.CreateQuotation(ctx, owner, models.Quotation{PartyID: party.ID, Items: items})
	require.NoError(t, err)

	q, err = s.UpdateQuotationStatus(ctx, owner, q.ID, models.QuotationSent)
	require.NoError(t, err)
	q, err = s.UpdateQuotationStatus(ctx, owner, q.ID, models.QuotationRejected)
	require.NoError(t, err)
	assert.Equal(t, models.QuotationRejected, q.Status)

	_, err = s.UpdateQuotationStatus(ctx, owner, q.ID, models.QuotationSent)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.CreateSalesOrder(ctx, owner, models.SalesOrder{QuotationID: &q.ID})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.UpdateQuotationStatus(ctx, owner, "missing", models.QuotationSent)
	assert.ErrorIs(t, err, ErrNotFound)
}

func onlineRequest() models.CreateOnlineBookingRequest {
	return models.CreateOnlineBookingRequest{
		Itinerary: models.FlightItinerary{
			ID: "it-1", TotalPrice: 9000, TotalDuration: "2h",
			OutboundLegs: []models.FlightLeg{{
				Airline: "IndiGo", FlightNumber: "6E-201", From: "DEL", To: "BOM",
				DepartureTime: "2026-05-01T06:00:00Z", ArrivalTime: "2026-05-01T08:00:00Z", Duration: "2h",
			}},
		},
		Passengers: []models.OnlineBookingPassenger{{Name: "Ravi", Age: 30, Type: models.PassengerAdult}},
		SearchCriteria: models.SearchCriteria{
			From: "DEL", To: "BOM", DepartureDate: "2026-05-01", TripType: models.TripOneWay,
			Passengers: models.PassengerCounts{Adults: 1},
		},
	}
}

func TestOnlineBookingLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	b, err := s.AddOnlineBooking(ctx, owner, onlineRequest())
	require.NoError(t, err)
	assert.Equal(t, models.OnlineBookingPending, b.Status)
	assert.Equal(t, "2026-03-14T09:30:00Z", b.BookingDate)

	_, err = s.ConfirmPNR(ctx, owner, b.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	b, err = s.ConfirmPNR(ctx, owner, b.ID, "ab12cd")
	require.NoError(t, err)
	assert.Equal(t, models.OnlineBookingConfirmed, b.Status)
	assert.Equal(t, "AB12CD", b.PNR)

	b, err = s.ConfirmPNR(ctx, owner, b.ID, "ZZ9999")
	require.NoError(t, err)
	assert.Equal(t, "ZZ9999", b.PNR)

	expired, err := s.ExpireOnlineBooking(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.False(t, expired)

	b, err = s.CancelOnlineBooking(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OnlineBookingCancelled, b.Status)

	_, err = s.ConfirmPNR(ctx, owner, b.ID, "AB12CD")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExpireOnlineBooking(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	b, err := s.AddOnlineBooking(ctx, owner, onlineRequest())
	require.NoError(t, err)

	expired, err := s.ExpireOnlineBooking(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.True(t, expired)

	got, err := s.GetOnlineBooking(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OnlineBookingCancelled, got.Status)

	_, err = s.ExpireOnlineBooking(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddOnlineBookingValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	req := onlineRequest()
	req.Itinerary.OutboundLegs = nil
	_, err := s.AddOnlineBooking(ctx, owner, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = onlineRequest()
	req.Passengers = append(req.Passengers, models.OnlineBookingPassenger{Name: "Extra"})
	_, err = s.AddOnlineBooking(ctx, owner, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDashboardAndReports(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")

	bag, err := s.CreateProduct(ctx, owner, models.Product{Name: "Bag", PurchasePrice: 30, SellingPrice: 50, Stock: 2, LowStockThreshold: 5})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, owner, models.Product{Name: "Pillow", PurchasePrice: 10, SellingPrice: 20, Stock: 10, LowStockThreshold: 3})
	require.NoError(t, err)

	inv, err := s.CreateInvoice(ctx, owner, models.Invoice{PartyID: party.ID, Items: []models.LineItem{{ProductID: bag.ID, Rate: 50, Quantity: 2}}})
	require.NoError(t, err)
	mustPay(t, s, party.ID, inv.ID, 40)
	_, err = s.CreateInvoice(ctx, owner, models.Invoice{PartyID: party.ID, Date: "2026-02-01", Items: []models.LineItem{{ProductID: "svc", ProductName: "Service", Rate: 200, Quantity: 1}}})
	require.NoError(t, err)
	_, err = s.CreateExpense(ctx, owner, models.Expense{Category: "Rent", Amount: 25})
	require.NoError(t, err)

	stats, err := s.Dashboard(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 300.0, stats.TotalSales)
	assert.Equal(t, 260.0, stats.TotalDues)
	assert.Equal(t, 160.0, stats.StockValue)
	assert.Equal(t, 25.0, stats.TotalExpenses)
	assert.Equal(t, 215.0, stats.Profit)
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, "Bag", stats.LowStock[0].Name)
	assert.Len(t, stats.UnpaidInvoices, 2)

	report, err := s.SalesReport(ctx, owner, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", report.Date)
	assert.Equal(t, 100.0, report.DailyTotal)
	assert.Equal(t, 1, report.MonthlyCount)

	_, err = s.SalesReport(ctx, owner, "14/03/2026")
	assert.ErrorIs(t, err, ErrValidation)

	st, err := s.PartyStatement(ctx, owner, party.ID)
	require.NoError(t, err)
	assert.Len(t, st.Invoices, 2)
	assert.Len(t, st.Payments, 1)
	assert.Equal(t, 260.0, st.BalanceDue)
}

func TestSettingsUpdateAndRestore(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	party := mustParty(t, s, "Asha")
	mustInvoice(t, s, party.ID, 100)

	settings, err := s.GetSettings(ctx, owner)
	require.NoError(t, err)
	settings.InvoicePrefix = "RF/"
	settings.InvoiceCounter = 1
	updated, err := s.UpdateSettings(ctx, owner, settings)
	require.NoError(t, err)
	assert.Equal(t, "RF/", updated.InvoicePrefix)
	assert.Equal(t, 2, updated.InvoiceCounter)

	snap, err := s.Export(ctx, owner)
	require.NoError(t, err)
	require.Len(t, snap.Invoices, 1)

	mustParty(t, s, "Late write")
	_, err = s.Restore(ctx, owner, snap.Version, snap)
	assert.ErrorIs(t, err, ErrVersionConflict)

	current, err := s.Export(ctx, owner)
	require.NoError(t, err)
	version, err := s.Restore(ctx, owner, current.Version, snap)
	require.NoError(t, err)
	assert.Equal(t, current.Version+1, version)

	parties, err := s.ListParties(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, parties, 1)
}

func TestClassifyWrapsStoreFailures(t *testing.T) {
	err := classify("CreateParty", fmt.Errorf("disk full"))
	assert.ErrorIs(t, err, ErrPersistence)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "CreateParty", pe.Op)

	v := invalid("name", "is required")
	assert.Same(t, v, classify("CreateParty", v))
}
