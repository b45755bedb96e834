package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rufay/internal/database"
	"rufay/internal/logger"
	"rufay/internal/models"
)

const dateLayout = "2006-01-02"

// Service is the reconciliation core. Every mutating call runs in one owner transaction,
// so multi-entity effects commit or fail together and calls for one owner are serialised.
type Service struct {
	db    *database.DB
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewService(db *database.DB) *Service {
	return &Service{
		db:    db,
		log:   logger.WithComponent("ledger"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) write(ctx context.Context, ownerID, op string, fn func(*database.Tx) error) error {
	err := classify(op, s.db.InOwnerTx(ctx, ownerID, fn))
	if err != nil {
		s.log.Debug().Err(err).Str("op", op).Str("owner_id", ownerID).Msg("ledger write rejected")
	}
	return err
}

func (s *Service) read(ctx context.Context, ownerID, op string, fn func(*database.Tx) error) error {
	return classify(op, s.db.View(ctx, ownerID, fn))
}

func (s *Service) today() string {
	return s.now().Format(dateLayout)
}

// reference renders a blocking row the way users see it, e.g. BKG-3
func reference(ctx context.Context, tx *database.Tx, ref *database.Reference) (string, error) {
	if ref.Number == 0 {
		return "", nil
	}
	settings, err := tx.GetSettings(ctx)
	if err != nil {
		return "", err
	}

	prefix := ""
	switch ref.Entity {
	case models.DocInvoice:
		prefix = settings.InvoicePrefix
	case models.DocBooking:
		prefix = settings.BookingPrefix
	case models.DocQuotation:
		prefix = settings.QuotationPrefix
	case models.DocSalesOrder:
		prefix = settings.SalesOrderPrefix
	}
	return fmt.Sprintf("%s%d", prefix, ref.Number), nil
}

// blocked converts a non-nil reference into a DependencyError
func blocked(ctx context.Context, tx *database.Tx, entity, id string, ref *database.Reference) error {
	label, err := reference(ctx, tx, ref)
	if err != nil {
		return err
	}
	return &DependencyError{Entity: entity, ID: id, BlockedBy: ref.Entity, Reference: label}
}
