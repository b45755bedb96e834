package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rufay/internal/models"
)

const testOwner = "owner-1"

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.CreateOwner(ctx, models.User{
		ID:           testOwner,
		Email:        "Owner@Example.com",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
		OwnerID:      testOwner,
	}, models.DefaultSettings("owner@example.com")))
	return db
}

func strPtr(s string) *string { return &s }

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	require.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
}

func TestNextNumber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var got []int
	for i := 0; i < 3; i++ {
		err := db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
			n, err := tx.NextNumber(ctx, models.DocInvoice)
			got = append(got, n)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3}, got)

	err := db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		_, err := tx.NextNumber(ctx, "receipt")
		return err
	})
	assert.ErrorIs(t, err, ErrUnknownDocType)
}

func TestNextNumberRolledBackWithTransaction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		if _, err := tx.NextNumber(ctx, models.DocBooking); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, db.View(ctx, testOwner, func(tx *Tx) error {
		s, err := tx.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, s.BookingCounter)
		return nil
	}))
}

func TestInOwnerTxBumpsVersion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	before, err := db.Export(ctx, testOwner)
	require.NoError(t, err)

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		return tx.InsertParty(ctx, models.Party{ID: "p1", Name: "Asha", Type: models.PartyCustomer})
	}))

	after, err := db.Export(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, before.Version+1, after.Version)
	require.Len(t, after.Parties, 1)
	assert.Equal(t, "Asha", after.Parties[0].Name)
}

func TestInOwnerTxUnknownOwner(t *testing.T) {
	db := newTestDB(t)

	err := db.InOwnerTx(context.Background(), "ghost", func(tx *Tx) error { return nil })
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestUpdateSettingsKeepsCounters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		s, err := tx.GetSettings(ctx)
		if err != nil {
			return err
		}
		s.BusinessName = "Skyline"
		s.InvoiceCounter = 99
		return tx.UpdateSettings(ctx, s)
	}))

	snap, err := db.Export(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, "Skyline", snap.Settings.BusinessName)
	assert.Equal(t, 1, snap.Settings.InvoiceCounter)
}

func TestBookingRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ret := 80.0

	booking := models.Booking{
		ID:                        "b1",
		BookingNumber:             1,
		SeriesID:                  "s1",
		ReturnSeriesID:            strPtr("s2"),
		PartyID:                   "p1",
		Passengers:                []models.Passenger{{Name: "A", Type: models.PassengerAdult}, {Name: "B", Type: models.PassengerChild}},
		SellingPricePerSeat:       100,
		ReturnSellingPricePerSeat: &ret,
		TotalAmount:               360,
		BookingDate:               "2026-01-02",
		InvoiceID:                 "i1",
	}

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		return tx.InsertBooking(ctx, booking)
	}))

	require.NoError(t, db.View(ctx, testOwner, func(tx *Tx) error {
		got, err := tx.GetBooking(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, booking, got)

		byInvoice, err := tx.BookingForInvoice(ctx, "i1")
		require.NoError(t, err)
		assert.Equal(t, "b1", byInvoice.ID)

		_, err = tx.BookingForInvoice(ctx, "other")
		assert.ErrorIs(t, err, ErrNotFound)

		ref, err := tx.SeriesReference(ctx, "s2")
		require.NoError(t, err)
		require.NotNil(t, ref)
		assert.Equal(t, 1, ref.Number)
		return nil
	}))
}

func TestReferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		require.NoError(t, tx.InsertParty(ctx, models.Party{ID: "p1", Name: "Asha", Type: models.PartyCustomer}))
		require.NoError(t, tx.InsertProduct(ctx, models.Product{ID: "prod1", Name: "Bag"}))
		return tx.InsertQuotation(ctx, models.Quotation{
			ID: "q1", QuotationNumber: 4, PartyID: "p1", Status: models.QuotationDraft,
			Items: []models.LineItem{{ProductID: "prod1", ProductName: "Bag", Rate: 10, Quantity: 1}},
		})
	}))

	require.NoError(t, db.View(ctx, testOwner, func(tx *Tx) error {
		ref, err := tx.PartyReference(ctx, "p1")
		require.NoError(t, err)
		require.NotNil(t, ref)
		assert.Equal(t, models.DocQuotation, ref.Entity)
		assert.Equal(t, 4, ref.Number)

		ref, err = tx.ProductReference(ctx, "prod1")
		require.NoError(t, err)
		require.NotNil(t, ref)
		assert.Equal(t, "q1", ref.ID)

		ref, err = tx.ProductReference(ctx, "unused")
		require.NoError(t, err)
		assert.Nil(t, ref)
		return nil
	}))
}

func TestOnlineBookingJSONColumns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ob := models.OnlineBooking{
		ID: "ob1",
		Itinerary: models.FlightItinerary{
			ID: "it1", TotalPrice: 5400, TotalDuration: "2h",
			OutboundLegs: []models.FlightLeg{{Airline: "IndiGo", FlightNumber: "6E 201", From: "DEL", To: "BOM"}},
		},
		Passengers:     []models.OnlineBookingPassenger{{Name: "Ravi", Age: 30, Type: models.PassengerAdult}},
		SearchCriteria: models.SearchCriteria{From: "DEL", To: "BOM", TripType: models.TripOneWay, Passengers: models.PassengerCounts{Adults: 1}},
		BookingDate:    "2026-03-01T10:00:00Z",
		Status:         models.OnlineBookingPending,
	}

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		if err := tx.InsertOnlineBooking(ctx, ob); err != nil {
			return err
		}
		return tx.SetOnlineBookingStatus(ctx, "ob1", models.OnlineBookingConfirmed, "XYZ123")
	}))

	require.NoError(t, db.View(ctx, testOwner, func(tx *Tx) error {
		got, err := tx.GetOnlineBooking(ctx, "ob1")
		require.NoError(t, err)
		assert.Equal(t, models.OnlineBookingConfirmed, got.Status)
		assert.Equal(t, "XYZ123", got.PNR)
		assert.Equal(t, ob.Itinerary, got.Itinerary)
		assert.Equal(t, ob.SearchCriteria, got.SearchCriteria)
		return nil
	}))
}

func TestRestoreCompareAndSwap(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		if err := tx.InsertParty(ctx, models.Party{ID: "p1", Name: "Asha", Type: models.PartyCustomer}); err != nil {
			return err
		}
		if _, err := tx.NextNumber(ctx, models.DocInvoice); err != nil {
			return err
		}
		return tx.InsertInvoice(ctx, models.Invoice{
			ID: "i1", InvoiceNumber: 1, PartyID: "p1", Date: "2026-01-01", Total: 50, Status: models.PaymentUnpaid,
			Items: []models.LineItem{{ProductID: "x", ProductName: "X", Rate: 50, Quantity: 1}},
		})
	}))

	snap, err := db.Export(ctx, testOwner)
	require.NoError(t, err)

	_, err = db.Restore(ctx, testOwner, snap.Version-1, snap)
	assert.ErrorIs(t, err, ErrVersionConflict)

	snap.Parties[0].Name = "Asha K"
	version, err := db.Restore(ctx, testOwner, snap.Version, snap)
	require.NoError(t, err)
	assert.Equal(t, snap.Version+1, version)

	restored, err := db.Export(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, version, restored.Version)
	assert.Equal(t, "Asha K", restored.Parties[0].Name)
	assert.Equal(t, snap.Invoices, restored.Invoices)
	assert.Equal(t, 2, restored.Settings.InvoiceCounter)

	_, err = db.Restore(ctx, testOwner, snap.Version, snap)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := db.GetUserByEmail(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, testOwner, u.ID)
	assert.Equal(t, "owner@example.com", u.Email)

	taken, err := db.EmailTaken(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	err = db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		return tx.InsertUser(ctx, models.User{ID: "s1", Email: "owner@example.com", Role: models.RoleStaff, OwnerID: testOwner})
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		return tx.InsertUser(ctx, models.User{ID: "s1", Email: "staff@example.com", PasswordHash: "h", Role: models.RoleStaff, OwnerID: testOwner})
	}))
	require.NoError(t, db.View(ctx, testOwner, func(tx *Tx) error {
		staff, err := tx.ListStaff(ctx)
		require.NoError(t, err)
		require.Len(t, staff, 1)
		assert.Equal(t, "staff@example.com", staff[0].Email)
		return nil
	}))

	_, err = db.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentNumbersAreUnique(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	invoice := func(id string) models.Invoice {
		return models.Invoice{
			ID: id, InvoiceNumber: 7, PartyID: "p1", Date: "2026-01-01", Total: 10, Status: models.PaymentUnpaid,
			Items: []models.LineItem{{ProductID: "x", ProductName: "X", Rate: 10, Quantity: 1}},
		}
	}

	require.NoError(t, db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		return tx.InsertInvoice(ctx, invoice("i1"))
	}))
	err := db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		return tx.InsertInvoice(ctx, invoice("i2"))
	})
	assert.Error(t, err)

	err = db.InOwnerTx(ctx, testOwner, func(tx *Tx) error {
		if err := tx.InsertQuotation(ctx, models.Quotation{ID: "q1", QuotationNumber: 3, PartyID: "p1", Status: models.QuotationDraft}); err != nil {
			return err
		}
		return tx.InsertQuotation(ctx, models.Quotation{ID: "q2", QuotationNumber: 3, PartyID: "p1", Status: models.QuotationDraft})
	})
	assert.Error(t, err)
}
