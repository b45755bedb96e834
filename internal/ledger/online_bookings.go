package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rufay/internal/database"
	"rufay/internal/flightsearch"
	"rufay/internal/models"
)

func validateOnlineBooking(req models.CreateOnlineBookingRequest) error {
	if err := flightsearch.ValidateItinerary(req.Itinerary, req.SearchCriteria.TripType); err != nil {
		return invalid("itinerary", "%v", err)
	}
	if len(req.Passengers) == 0 {
		return invalid("passengers", "at least one passenger is required")
	}
	if want := req.SearchCriteria.Passengers.Total(); want > 0 && want != len(req.Passengers) {
		return invalid("passengers", "search was for %d travellers, got %d", want, len(req.Passengers))
	}
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return invalid(fmt.Sprintf("passengers[%d].name", i), "is required")
		}
		if p.Age < 0 {
			return invalid(fmt.Sprintf("passengers[%d].age", i), "must not be negative")
		}
	}
	return nil
}

func (s *Service) ListOnlineBookings(ctx context.Context, ownerID string) ([]models.OnlineBooking, error) {
	var bookings []models.OnlineBooking
	err := s.read(ctx, ownerID, "ListOnlineBookings", func(tx *database.Tx) error {
		var err error
		bookings, err = tx.ListOnlineBookings(ctx)
		return err
	})
	return bookings, err
}

func (s *Service) GetOnlineBooking(ctx context.Context, ownerID, id string) (models.OnlineBooking, error) {
	var b models.OnlineBooking
	err := s.read(ctx, ownerID, "GetOnlineBooking", func(tx *database.Tx) error {
		var err error
		b, err = tx.GetOnlineBooking(ctx, id)
		return err
	})
	return b, err
}

// AddOnlineBooking stores a Pending booking of a flight search result. It does not touch
// any series inventory.
func (s *Service) AddOnlineBooking(ctx context.Context, ownerID string, req models.CreateOnlineBookingRequest) (models.OnlineBooking, error) {
	if err := validateOnlineBooking(req); err != nil {
		return models.OnlineBooking{}, err
	}

	b := models.OnlineBooking{
		ID:             s.newID(),
		Itinerary:      req.Itinerary,
		Passengers:     req.Passengers,
		SearchCriteria: req.SearchCriteria,
		BookingDate:    s.now().UTC().Format(time.RFC3339),
		Status:         models.OnlineBookingPending,
	}
	err := s.write(ctx, ownerID, "AddOnlineBooking", func(tx *database.Tx) error {
		return tx.InsertOnlineBooking(ctx, b)
	})
	if err != nil {
		return models.OnlineBooking{}, err
	}
	return b, nil
}

// ConfirmPNR confirms a Pending booking with the airline PNR. A Confirmed booking keeps its
// status and takes the corrected PNR. Cancelled bookings cannot be confirmed.
func (s *Service) ConfirmPNR(ctx context.Context, ownerID, id, pnr string) (models.OnlineBooking, error) {
	pnr = strings.ToUpper(strings.TrimSpace(pnr))
	if pnr == "" {
		return models.OnlineBooking{}, invalid("pnr", "is required")
	}

	var b models.OnlineBooking
	err := s.write(ctx, ownerID, "ConfirmPNR", func(tx *database.Tx) error {
		var err error
		if b, err = tx.GetOnlineBooking(ctx, id); err != nil {
			return err
		}
		if b.Status == models.OnlineBookingCancelled {
			return transition("online booking", id, b.Status, models.OnlineBookingConfirmed)
		}
		b.Status, b.PNR = models.OnlineBookingConfirmed, pnr
		return tx.SetOnlineBookingStatus(ctx, id, b.Status, b.PNR)
	})
	return b, err
}

// CancelOnlineBooking cancels a Pending or Confirmed booking; cancelling twice is a no-op
func (s *Service) CancelOnlineBooking(ctx context.Context, ownerID, id string) (models.OnlineBooking, error) {
	var b models.OnlineBooking
	err := s.write(ctx, ownerID, "CancelOnlineBooking", func(tx *database.Tx) error {
		var err error
		if b, err = tx.GetOnlineBooking(ctx, id); err != nil {
			return err
		}
		if b.Status == models.OnlineBookingCancelled {
			return nil
		}
		b.Status = models.OnlineBookingCancelled
		return tx.SetOnlineBookingStatus(ctx, id, b.Status, b.PNR)
	})
	return b, err
}

// ExpireOnlineBooking cancels the booking only if it is still Pending and reports whether it did
func (s *Service) ExpireOnlineBooking(ctx context.Context, ownerID, id string) (bool, error) {
	expired := false
	err := s.write(ctx, ownerID, "ExpireOnlineBooking", func(tx *database.Tx) error {
		b, err := tx.GetOnlineBooking(ctx, id)
		if err != nil {
			return err
		}
		if b.Status != models.OnlineBookingPending {
			return nil
		}
		expired = true
		return tx.SetOnlineBookingStatus(ctx, id, models.OnlineBookingCancelled, b.PNR)
	})
	if expired && err == nil {
		s.log.Info().Str("owner_id", ownerID).Str("online_booking_id", id).Msg("online booking hold expired")
	}
	return expired && err == nil, err
}
