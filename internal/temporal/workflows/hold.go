package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"rufay/internal/models"
	"rufay/internal/temporal/activities"
)

const (
	SignalPNRConfirmed     = "pnrConfirmed"
	SignalBookingCancelled = "bookingCancelled"
	QueryGetStatus         = "getStatus"
)

// DefaultHold applies when the input carries no hold duration
const DefaultHold = 30 * time.Minute

// WorkflowID is the id of the hold workflow of one online booking
func WorkflowID(ownerID, bookingID string) string {
	return "online-booking-" + ownerID + "-" + bookingID
}

// OnlineBookingHoldWorkflow keeps a Pending online booking open for the hold period.
// A PNR confirmation or a cancellation ends it; otherwise the booking is expired.
func OnlineBookingHoldWorkflow(ctx workflow.Context, input models.OnlineBookingInput) (*models.OnlineBookingState, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OnlineBookingHoldWorkflow started", "bookingID", input.BookingID)

	hold := time.Duration(input.HoldSeconds) * time.Second
	if hold <= 0 {
		hold = DefaultHold
	}

	state := &models.OnlineBookingState{
		OwnerID:   input.OwnerID,
		BookingID: input.BookingID,
		Status:    models.OnlineBookingPending,
	}
	startedAt := workflow.Now(ctx)

	err := workflow.SetQueryHandler(ctx, QueryGetStatus, func() (*models.OnlineBookingState, error) {
		snapshot := *state
		if snapshot.Status == models.OnlineBookingPending {
			remaining := hold - workflow.Now(ctx).Sub(startedAt)
			if remaining < 0 {
				remaining = 0
			}
			snapshot.TimeRemaining = int64(remaining.Seconds())
		}
		return &snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	})

	pnrChan := workflow.GetSignalChannel(ctx, SignalPNRConfirmed)
	cancelChan := workflow.GetSignalChannel(ctx, SignalBookingCancelled)

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	defer cancelTimer()
	timerFuture := workflow.NewTimer(timerCtx, hold)

	var holdActivities *activities.HoldActivities
	var expireErr error

	selector := workflow.NewSelector(ctx)

	selector.AddReceive(pnrChan, func(c workflow.ReceiveChannel, more bool) {
		var pnr string
		c.Receive(ctx, &pnr)
		logger.Info("Received PNR confirmation", "bookingID", state.BookingID, "pnr", pnr)

		state.Status = models.OnlineBookingConfirmed
		state.PNR = pnr
	})

	selector.AddReceive(cancelChan, func(c workflow.ReceiveChannel, more bool) {
		var reason string
		c.Receive(ctx, &reason)
		logger.Info("Received cancellation", "bookingID", state.BookingID, "reason", reason)

		state.Status = models.OnlineBookingCancelled
	})

	selector.AddFuture(timerFuture, func(f workflow.Future) {
		if err := f.Get(ctx, nil); err != nil {
			return
		}
		logger.Info("Hold expired", "bookingID", state.BookingID)

		var expired bool
		expireErr = workflow.ExecuteActivity(activityCtx, holdActivities.ExpireOnlineBooking,
			state.OwnerID, state.BookingID).Get(ctx, &expired)
		if expireErr != nil {
			logger.Error("Failed to expire online booking", "error", expireErr)
			return
		}
		state.Expired = expired
		if expired {
			state.Status = models.OnlineBookingCancelled
		}
	})

	selector.Select(ctx)

	logger.Info("OnlineBookingHoldWorkflow completed", "bookingID", state.BookingID, "status", state.Status)
	return state, expireErr
}
