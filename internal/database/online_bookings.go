package database

import (
	"context"
	"encoding/json"
	"fmt"

	"rufay/internal/models"
)

const onlineBookingColumns = `id, status, pnr, booking_date, itinerary, passengers, search_criteria`

// onlineBookingRow keeps the nested parts of an online booking as JSON text
type onlineBookingRow struct {
	ID             string `db:"id"`
	Status         string `db:"status"`
	PNR            string `db:"pnr"`
	BookingDate    string `db:"booking_date"`
	Itinerary      string `db:"itinerary"`
	Passengers     string `db:"passengers"`
	SearchCriteria string `db:"search_criteria"`
}

func (r onlineBookingRow) toModel() (models.OnlineBooking, error) {
	b := models.OnlineBooking{
		ID:          r.ID,
		Status:      r.Status,
		PNR:         r.PNR,
		BookingDate: r.BookingDate,
	}
	if err := json.Unmarshal([]byte(r.Itinerary), &b.Itinerary); err != nil {
		return b, fmt.Errorf("online booking %s itinerary: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Passengers), &b.Passengers); err != nil {
		return b, fmt.Errorf("online booking %s passengers: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.SearchCriteria), &b.SearchCriteria); err != nil {
		return b, fmt.Errorf("online booking %s search criteria: %w", r.ID, err)
	}
	return b, nil
}

// GetOnlineBooking loads one online booking
func (t *Tx) GetOnlineBooking(ctx context.Context, id string) (models.OnlineBooking, error) {
	var row onlineBookingRow
	err := t.get(ctx, &row, `SELECT `+onlineBookingColumns+` FROM online_bookings WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return models.OnlineBooking{}, fmt.Errorf("online booking %s: %w", id, err)
	}
	return row.toModel()
}

func (t *Tx) ListOnlineBookings(ctx context.Context) ([]models.OnlineBooking, error) {
	var rows []onlineBookingRow
	if err := t.selectAll(ctx, &rows, `SELECT `+onlineBookingColumns+` FROM online_bookings WHERE owner_id = ? ORDER BY booking_date DESC, id`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list online bookings: %w", err)
	}

	bookings := make([]models.OnlineBooking, 0, len(rows))
	for _, row := range rows {
		b, err := row.toModel()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (t *Tx) InsertOnlineBooking(ctx context.Context, b models.OnlineBooking) error {
	itinerary, err := json.Marshal(b.Itinerary)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}
	passengers, err := json.Marshal(b.Passengers)
	if err != nil {
		return fmt.Errorf("failed to encode passengers: %w", err)
	}
	criteria, err := json.Marshal(b.SearchCriteria)
	if err != nil {
		return fmt.Errorf("failed to encode search criteria: %w", err)
	}

	_, err = t.exec(ctx, `
		INSERT INTO online_bookings (owner_id, `+onlineBookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, b.ID, b.Status, b.PNR, b.BookingDate, string(itinerary), string(passengers), string(criteria))
	if err != nil {
		return fmt.Errorf("failed to insert online booking: %w", err)
	}
	return nil
}

// SetOnlineBookingStatus stores a new status and PNR
func (t *Tx) SetOnlineBookingStatus(ctx context.Context, id, status, pnr string) error {
	_, err := t.exec(ctx, `UPDATE online_bookings SET status = ?, pnr = ? WHERE owner_id = ? AND id = ?`,
		status, pnr, t.ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to update online booking: %w", err)
	}
	return nil
}
