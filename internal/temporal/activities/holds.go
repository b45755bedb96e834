package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"rufay/internal/database"
	"rufay/internal/ledger"
)

// Expirer cancels an online booking that is still Pending
type Expirer interface {
	ExpireOnlineBooking(ctx context.Context, ownerID, id string) (bool, error)
}

type HoldActivities struct {
	Ledger Expirer
}

func NewHoldActivities(l Expirer) *HoldActivities {
	return &HoldActivities{Ledger: l}
}

// ExpireOnlineBooking cancels the booking if nobody confirmed it in time.
// It reports false when the booking had already moved on.
func (a *HoldActivities) ExpireOnlineBooking(ctx context.Context, ownerID, bookingID string) (bool, error) {
	expired, err := a.Ledger.ExpireOnlineBooking(ctx, ownerID, bookingID)
	if err != nil {
		// a vanished booking or owner will not come back on retry
		if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, database.ErrOwnerNotFound) {
			return false, temporal.NewNonRetryableApplicationError(
				err.Error(),
				"OnlineBookingNotFound",
				err,
			)
		}
		return false, fmt.Errorf("failed to expire online booking: %w", err)
	}

	activity.GetLogger(ctx).Info("Hold expiry checked", "bookingID", bookingID, "expired", expired)
	return expired, nil
}
