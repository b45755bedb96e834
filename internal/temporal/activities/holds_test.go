package activities

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"rufay/internal/ledger"
)

type fakeExpirer struct {
	expired bool
	err     error
	calls   []string
}

func (f *fakeExpirer) ExpireOnlineBooking(_ context.Context, ownerID, id string) (bool, error) {
	f.calls = append(f.calls, ownerID+"/"+id)
	return f.expired, f.err
}

func TestExpireOnlineBooking(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	fake := &fakeExpirer{expired: true}
	holds := NewHoldActivities(fake)
	env.RegisterActivity(holds)

	value, err := env.ExecuteActivity(holds.ExpireOnlineBooking, "owner-1", "ob-1")
	require.NoError(t, err)

	var expired bool
	require.NoError(t, value.Get(&expired))
	assert.True(t, expired)
	assert.Equal(t, []string{"owner-1/ob-1"}, fake.calls)
}

func TestExpireOnlineBookingMissingIsNotRetried(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	holds := NewHoldActivities(&fakeExpirer{err: fmt.Errorf("online booking ob-1: %w", ledger.ErrNotFound)})
	env.RegisterActivity(holds)

	_, err := env.ExecuteActivity(holds.ExpireOnlineBooking, "owner-1", "ob-1")
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "OnlineBookingNotFound", appErr.Type())
}

func TestExpireOnlineBookingStoreFailureIsRetryable(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	holds := NewHoldActivities(&fakeExpirer{err: errors.New("connection reset")})
	env.RegisterActivity(holds)

	_, err := env.ExecuteActivity(holds.ExpireOnlineBooking, "owner-1", "ob-1")
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		assert.False(t, appErr.NonRetryable())
	}
}
