// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTracker_StoreAckRoundTrip(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Store(7))

	require.False(t, tr.Ack(99))
	require.True(t, tr.Ack(7))

	seq, ok := tr.Outstanding()
	require.False(t, ok)
	require.Zero(t, seq)
}

func TestTracker_StoreFailsWhenOccupied(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Store(1))
	require.ErrorIs(t, tr.Store(2), ErrSlotOccupied)
}

func TestTracker_PollTimeout_NoMessage(t *testing.T) {
	tr := New()
	require.Equal(t, NoMessage, tr.PollTimeout(time.Now()))
}

func TestTracker_PollTimeout_EscalatesToPermanent(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Store(9))

	base := time.Now()
	expiry := base.Add(AckTimeout + time.Millisecond)

	for i := 0; i < MaxResendAttempts; i++ {
		result := tr.PollTimeout(expiry.Add(time.Duration(i) * AckTimeout))
		require.Equal(t, TimedOut, result, "attempt %d", i)
	}

	final := tr.PollTimeout(expiry.Add(time.Duration(MaxResendAttempts) * AckTimeout))
	require.Equal(t, TimedOutPermanently, final)

	require.Equal(t, NoMessage, tr.PollTimeout(expiry.Add(10*AckTimeout)))
}

func TestTracker_PollTimeout_WaitingBeforeDeadline(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Store(3))
	require.Equal(t, Waiting, tr.PollTimeout(time.Now()))
}
