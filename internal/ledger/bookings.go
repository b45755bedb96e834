package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"rufay/internal/database"
	"rufay/internal/models"
)

func validateBookingRequest(req models.CreateBookingRequest) error {
	if req.SeriesID == "" {
		return invalid("seriesId", "is required")
	}
	if len(req.Passengers) == 0 {
		return invalid("passengers", "at least one passenger is required")
	}
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return invalid(fmt.Sprintf("passengers[%d].name", i), "is required")
		}
		switch p.Type {
		case models.PassengerAdult, models.PassengerChild, models.PassengerInfant:
		default:
			return invalid(fmt.Sprintf("passengers[%d].type", i), "unknown passenger type %q", p.Type)
		}
	}
	if req.SellingPricePerSeat <= 0 {
		return invalid("sellingPricePerSeat", "must be positive")
	}
	if req.ReturnSeriesID != "" {
		if req.ReturnSeriesID == req.SeriesID {
			return invalid("returnSeriesId", "must differ from the outbound series")
		}
		if req.ReturnSellingPricePerSeat <= 0 {
			return invalid("returnSellingPricePerSeat", "must be positive for a return booking")
		}
	}
	return nil
}

// seatsFor loads a series and checks it can seat n more passengers
func seatsFor(ctx context.Context, tx *database.Tx, field, id string, n int) (models.Series, error) {
	series, err := tx.GetSeries(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return series, invalid(field, "series %s does not exist", id)
	}
	if err != nil {
		return series, err
	}
	if series.AvailableSeats < n {
		return series, invalid(field, "only %d seats available on %s, %d needed", series.AvailableSeats, series.PNR, n)
	}
	return series, nil
}

func ticketLine(prefix string, s models.Series, pricePerSeat float64, seats int) models.LineItem {
	return models.LineItem{
		ProductID:   "ticket-" + s.PNR,
		ProductName: fmt.Sprintf("%s: %s - %s", prefix, s.Airline, s.Route),
		Rate:        pricePerSeat,
		Quantity:    float64(seats),
	}
}

// CreateBooking sells seats from one or two series. The booking, its invoice and the seat
// decrements commit together; on any failure nothing is written and no number is consumed.
func (s *Service) CreateBooking(ctx context.Context, ownerID string, req models.CreateBookingRequest) (models.BookingResult, error) {
	var result models.BookingResult
	for i := range req.Passengers {
		if req.Passengers[i].Type == "" {
			req.Passengers[i].Type = models.PassengerAdult
		}
	}
	if err := validateBookingRequest(req); err != nil {
		return result, err
	}

	seats := len(req.Passengers)
	bookingDate := req.BookingDate
	if bookingDate == "" {
		bookingDate = s.today()
	}

	err := s.write(ctx, ownerID, "CreateBooking", func(tx *database.Tx) error {
		if err := requireParty(ctx, tx, req.PartyID); err != nil {
			return err
		}

		outbound, err := seatsFor(ctx, tx, "seriesId", req.SeriesID, seats)
		if err != nil {
			return err
		}
		n := decimal.NewFromInt(int64(seats))
		total := n.Mul(decimal.NewFromFloat(req.SellingPricePerSeat))
		items := []models.LineItem{ticketLine("Flight", outbound, req.SellingPricePerSeat, seats)}

		booking := models.Booking{
			ID:                  s.newID(),
			SeriesID:            outbound.ID,
			PartyID:             req.PartyID,
			Passengers:          req.Passengers,
			SellingPricePerSeat: req.SellingPricePerSeat,
			BookingDate:         bookingDate,
		}

		if req.ReturnSeriesID != "" {
			ret, err := seatsFor(ctx, tx, "returnSeriesId", req.ReturnSeriesID, seats)
			if err != nil {
				return err
			}
			total = total.Add(n.Mul(decimal.NewFromFloat(req.ReturnSellingPricePerSeat)))
			items = append(items, ticketLine("Return Flight", ret, req.ReturnSellingPricePerSeat, seats))

			retID, retPrice := ret.ID, req.ReturnSellingPricePerSeat
			booking.ReturnSeriesID = &retID
			booking.ReturnSellingPricePerSeat = &retPrice
		}
		booking.TotalAmount = total.InexactFloat64()

		invoiceNumber, err := nextNumber(ctx, tx, models.DocInvoice)
		if err != nil {
			return err
		}
		invoice := models.Invoice{
			ID:            s.newID(),
			InvoiceNumber: invoiceNumber,
			PartyID:       req.PartyID,
			Date:          bookingDate,
			Items:         items,
			Total:         booking.TotalAmount,
			Status:        models.PaymentUnpaid,
		}

		if booking.BookingNumber, err = nextNumber(ctx, tx, models.DocBooking); err != nil {
			return err
		}
		booking.InvoiceID = invoice.ID

		if err := tx.AdjustAvailableSeats(ctx, booking.SeriesID, -seats); err != nil {
			return err
		}
		if booking.HasReturn() {
			if err := tx.AdjustAvailableSeats(ctx, *booking.ReturnSeriesID, -seats); err != nil {
				return err
			}
		}
		if err := tx.InsertInvoice(ctx, invoice); err != nil {
			return err
		}
		if err := tx.InsertBooking(ctx, booking); err != nil {
			return err
		}

		series, err := tx.ListSeries(ctx)
		if err != nil {
			return err
		}
		result = models.BookingResult{Booking: booking, Invoice: invoice, Series: series}
		return nil
	})
	if err != nil {
		return models.BookingResult{}, err
	}

	s.log.Info().Str("owner_id", ownerID).Str("booking_id", result.Booking.ID).
		Int("number", result.Booking.BookingNumber).Int("seats", seats).
		Float64("total", result.Booking.TotalAmount).Msg("booking created")
	return result, nil
}

// DeleteBooking reverses a booking: seats go back to their series and the invoice goes
// together with its payments. A missing booking is not an error.
func (s *Service) DeleteBooking(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteBooking", func(tx *database.Tx) error {
		booking, err := tx.GetBooking(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		seats := len(booking.Passengers)
		seriesIDs := []string{booking.SeriesID}
		if booking.HasReturn() {
			seriesIDs = append(seriesIDs, *booking.ReturnSeriesID)
		}
		for _, seriesID := range seriesIDs {
			if err := s.restoreSeats(ctx, tx, seriesID, seats); err != nil {
				return err
			}
		}

		removed, err := tx.DeletePaymentsForInvoice(ctx, booking.InvoiceID)
		if err != nil {
			return err
		}
		if err := tx.DeleteInvoice(ctx, booking.InvoiceID); err != nil {
			return err
		}
		if err := tx.DeleteBooking(ctx, id); err != nil {
			return err
		}

		s.log.Info().Str("owner_id", ownerID).Str("booking_id", id).Int("seats", seats).
			Int64("payments_removed", removed).Msg("booking deleted")
		return nil
	})
}

func (s *Service) restoreSeats(ctx context.Context, tx *database.Tx, seriesID string, seats int) error {
	series, err := tx.GetSeries(ctx, seriesID)
	if errors.Is(err, database.ErrNotFound) {
		s.log.Warn().Str("series_id", seriesID).Msg("series vanished, seats not restored")
		return nil
	}
	if err != nil {
		return err
	}

	series.AvailableSeats += seats
	if series.AvailableSeats > series.TotalSeats {
		s.log.Warn().Str("series_id", seriesID).Int("available", series.AvailableSeats).
			Int("total", series.TotalSeats).Msg("restored seats exceed total, capping")
		series.AvailableSeats = series.TotalSeats
	}
	return tx.UpdateSeries(ctx, series)
}

func (s *Service) GetBooking(ctx context.Context, ownerID, id string) (models.Booking, error) {
	var booking models.Booking
	err := s.read(ctx, ownerID, "GetBooking", func(tx *database.Tx) error {
		var err error
		booking, err = tx.GetBooking(ctx, id)
		return err
	})
	return booking, err
}

func (s *Service) ListBookings(ctx context.Context, ownerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.read(ctx, ownerID, "ListBookings", func(tx *database.Tx) error {
		var err error
		bookings, err = tx.ListBookings(ctx)
		return err
	})
	return bookings, err
}
