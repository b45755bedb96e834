package ledger

import (
	"context"
	"strings"

	"rufay/internal/database"
	"rufay/internal/models"
)

func validateSeries(s models.Series) error {
	if strings.TrimSpace(s.PNR) == "" {
		return invalid("pnr", "is required")
	}
	if strings.TrimSpace(s.Airline) == "" {
		return invalid("airline", "is required")
	}
	if strings.TrimSpace(s.Route) == "" {
		return invalid("route", "is required")
	}
	if s.TotalSeats <= 0 {
		return invalid("totalSeats", "must be positive")
	}
	if s.PurchasePricePerSeat < 0 {
		return invalid("purchasePricePerSeat", "must not be negative")
	}
	return nil
}

func (s *Service) ListSeries(ctx context.Context, ownerID string) ([]models.Series, error) {
	var series []models.Series
	err := s.read(ctx, ownerID, "ListSeries", func(tx *database.Tx) error {
		var err error
		series, err = tx.ListSeries(ctx)
		return err
	})
	return series, err
}

// CreateSeries stores a new lot with every seat available
func (s *Service) CreateSeries(ctx context.Context, ownerID string, in models.Series) (models.Series, error) {
	if err := validateSeries(in); err != nil {
		return in, err
	}
	in.ID = s.newID()
	in.AvailableSeats = in.TotalSeats
	err := s.write(ctx, ownerID, "CreateSeries", func(tx *database.Tx) error {
		return tx.InsertSeries(ctx, in)
	})
	return in, err
}

// UpdateSeries keeps the number of sold seats fixed: available follows the new total.
// Shrinking the lot below what bookings already hold is rejected.
func (s *Service) UpdateSeries(ctx context.Context, ownerID string, in models.Series) (models.Series, error) {
	if err := validateSeries(in); err != nil {
		return in, err
	}
	err := s.write(ctx, ownerID, "UpdateSeries", func(tx *database.Tx) error {
		current, err := tx.GetSeries(ctx, in.ID)
		if err != nil {
			return err
		}
		sold := current.SoldSeats()
		if in.TotalSeats < sold {
			return invalid("totalSeats", "%d seats are already booked", sold)
		}
		in.AvailableSeats = in.TotalSeats - sold
		return tx.UpdateSeries(ctx, in)
	})
	return in, err
}

// DeleteSeries fails while a booking uses the series on either leg
func (s *Service) DeleteSeries(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteSeries", func(tx *database.Tx) error {
		ref, err := tx.SeriesReference(ctx, id)
		if err != nil {
			return err
		}
		if ref != nil {
			return blocked(ctx, tx, "series", id, ref)
		}
		return tx.DeleteSeries(ctx, id)
	})
}
