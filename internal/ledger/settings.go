package ledger

import (
	"context"
	"errors"

	"rufay/internal/database"
	"rufay/internal/models"
)

func (s *Service) GetSettings(ctx context.Context, ownerID string) (models.Settings, error) {
	var settings models.Settings
	err := s.read(ctx, ownerID, "GetSettings", func(tx *database.Tx) error {
		var err error
		settings, err = tx.GetSettings(ctx)
		return err
	})
	return settings, err
}

// UpdateSettings stores business details, prefixes and template names. Counters cannot be set here.
func (s *Service) UpdateSettings(ctx context.Context, ownerID string, in models.Settings) (models.Settings, error) {
	var settings models.Settings
	err := s.write(ctx, ownerID, "UpdateSettings", func(tx *database.Tx) error {
		if err := tx.UpdateSettings(ctx, in); err != nil {
			return err
		}
		var err error
		settings, err = tx.GetSettings(ctx)
		return err
	})
	return settings, err
}

// NextNumber consumes and returns the next number for a document type
func (s *Service) NextNumber(ctx context.Context, ownerID, docType string) (int, error) {
	var n int
	err := s.write(ctx, ownerID, "NextNumber", func(tx *database.Tx) error {
		var err error
		n, err = nextNumber(ctx, tx, docType)
		return err
	})
	return n, err
}

func nextNumber(ctx context.Context, tx *database.Tx, docType string) (int, error) {
	n, err := tx.NextNumber(ctx, docType)
	if errors.Is(err, database.ErrUnknownDocType) {
		return 0, invalid("documentType", "unknown document type %q", docType)
	}
	return n, err
}

// Export returns every collection of the owner together with the data version
func (s *Service) Export(ctx context.Context, ownerID string) (models.Snapshot, error) {
	snap, err := s.db.Export(ctx, ownerID)
	return snap, classify("Export", err)
}

// Restore replaces the owner's data with snap when expectedVersion is still current.
// Snapshots with broken references, seat counts or statuses are rejected; counters are
// raised above the highest restored document number.
func (s *Service) Restore(ctx context.Context, ownerID string, expectedVersion int64, snap models.Snapshot) (int64, error) {
	snap, err := checkSnapshot(snap)
	if err != nil {
		return 0, err
	}
	version, err := s.db.Restore(ctx, ownerID, expectedVersion, snap)
	if err != nil {
		return 0, classify("Restore", err)
	}
	s.log.Info().Str("owner_id", ownerID).Int64("version", version).Msg("data restored")
	return version, nil
}
