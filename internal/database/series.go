package database

import (
	"context"
	"fmt"

	"rufay/internal/models"
)

const (
	seriesColumns = `id, pnr, airline, route, departure_date, arrival_date, total_seats, available_seats,
		purchase_price_per_seat`
	bookingColumns = `id, booking_number, series_id, return_series_id, party_id, selling_price_per_seat,
		return_selling_price_per_seat, total_amount, booking_date, invoice_id`
)

type passengerRow struct {
	BookingID string `db:"booking_id"`
	models.Passenger
}

// GetSeries loads one series
func (t *Tx) GetSeries(ctx context.Context, id string) (models.Series, error) {
	var s models.Series
	err := t.get(ctx, &s, `SELECT `+seriesColumns+` FROM series WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return s, fmt.Errorf("series %s: %w", id, err)
	}
	return s, nil
}

// ListSeries returns all series ordered by departure
func (t *Tx) ListSeries(ctx context.Context) ([]models.Series, error) {
	series := []models.Series{}
	if err := t.selectAll(ctx, &series, `SELECT `+seriesColumns+` FROM series WHERE owner_id = ? ORDER BY departure_date, id`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

func (t *Tx) InsertSeries(ctx context.Context, s models.Series) error {
	_, err := t.exec(ctx, `
		INSERT INTO series (owner_id, `+seriesColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, s.ID, s.PNR, s.Airline, s.Route, s.DepartureDate, s.ArrivalDate, s.TotalSeats, s.AvailableSeats, s.PurchasePricePerSeat)
	if err != nil {
		return fmt.Errorf("failed to insert series: %w", err)
	}
	return nil
}

func (t *Tx) UpdateSeries(ctx context.Context, s models.Series) error {
	_, err := t.exec(ctx, `
		UPDATE series
		SET pnr = ?, airline = ?, route = ?, departure_date = ?, arrival_date = ?, total_seats = ?,
			available_seats = ?, purchase_price_per_seat = ?
		WHERE owner_id = ? AND id = ?
	`, s.PNR, s.Airline, s.Route, s.DepartureDate, s.ArrivalDate, s.TotalSeats, s.AvailableSeats, s.PurchasePricePerSeat, t.ownerID, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update series: %w", err)
	}
	return nil
}

// AdjustAvailableSeats adds delta to a series' available seats
func (t *Tx) AdjustAvailableSeats(ctx context.Context, id string, delta int) error {
	_, err := t.exec(ctx, `UPDATE series SET available_seats = available_seats + ? WHERE owner_id = ? AND id = ?`,
		delta, t.ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to adjust seats of series %s: %w", id, err)
	}
	return nil
}

func (t *Tx) DeleteSeries(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM series WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}
	return nil
}

// GetBooking loads one booking with its passengers
func (t *Tx) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := t.get(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return b, fmt.Errorf("booking %s: %w", id, err)
	}

	b.Passengers = []models.Passenger{}
	err = t.selectAll(ctx, &b.Passengers, `
		SELECT name, passenger_type FROM booking_passengers
		WHERE owner_id = ? AND booking_id = ?
		ORDER BY line_no
	`, t.ownerID, id)
	if err != nil {
		return b, fmt.Errorf("failed to load passengers: %w", err)
	}
	return b, nil
}

// BookingForInvoice returns the booking that generated an invoice, or ErrNotFound
func (t *Tx) BookingForInvoice(ctx context.Context, invoiceID string) (models.Booking, error) {
	var id string
	if err := t.get(ctx, &id, `SELECT id FROM bookings WHERE owner_id = ? AND invoice_id = ?`, t.ownerID, invoiceID); err != nil {
		return models.Booking{}, fmt.Errorf("booking for invoice %s: %w", invoiceID, err)
	}
	return t.GetBooking(ctx, id)
}

// ListBookings returns all bookings ordered by number
func (t *Tx) ListBookings(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if err := t.selectAll(ctx, &bookings, `SELECT `+bookingColumns+` FROM bookings WHERE owner_id = ? ORDER BY booking_number`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	var rows []passengerRow
	err := t.selectAll(ctx, &rows, `
		SELECT booking_id, name, passenger_type FROM booking_passengers
		WHERE owner_id = ?
		ORDER BY booking_id, line_no
	`, t.ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load passengers: %w", err)
	}

	byBooking := make(map[string][]models.Passenger)
	for _, row := range rows {
		byBooking[row.BookingID] = append(byBooking[row.BookingID], row.Passenger)
	}
	for i := range bookings {
		bookings[i].Passengers = byBooking[bookings[i].ID]
		if bookings[i].Passengers == nil {
			bookings[i].Passengers = []models.Passenger{}
		}
	}
	return bookings, nil
}

func (t *Tx) InsertBooking(ctx context.Context, b models.Booking) error {
	_, err := t.exec(ctx, `
		INSERT INTO bookings (owner_id, `+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, b.ID, b.BookingNumber, b.SeriesID, b.ReturnSeriesID, b.PartyID, b.SellingPricePerSeat,
		b.ReturnSellingPricePerSeat, b.TotalAmount, b.BookingDate, b.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	for i, p := range b.Passengers {
		_, err := t.exec(ctx, `
			INSERT INTO booking_passengers (owner_id, booking_id, line_no, name, passenger_type)
			VALUES (?, ?, ?, ?, ?)
		`, t.ownerID, b.ID, i, p.Name, p.Type)
		if err != nil {
			return fmt.Errorf("failed to insert passenger: %w", err)
		}
	}
	return nil
}

func (t *Tx) DeleteBooking(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM booking_passengers WHERE owner_id = ? AND booking_id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete passengers: %w", err)
	}
	if _, err := t.exec(ctx, `DELETE FROM bookings WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
