package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReview(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("approve without note", func(t *testing.T) {
		r := SessionRealization{Status: StatusSubmitted}
		require.NoError(t, r.Review(ActionApprove, "admin", nil, now))
		assert.Equal(t, StatusApproved, r.Status)
		assert.Equal(t, "admin", *r.ApprovedBy)
	})

	t.Run("reject requires a note", func(t *testing.T) {
		r := SessionRealization{Status: StatusSubmitted}
		empty := ""
		assert.ErrorIs(t, r.Review(ActionReject, "admin", nil, now), ErrReviewNoteRequired)
		assert.ErrorIs(t, r.Review(ActionReject, "admin", &empty, now), ErrReviewNoteRequired)
		assert.Equal(t, StatusSubmitted, r.Status)

		note := "not on the roster"
		require.NoError(t, r.Review(ActionReject, "admin", &note, now))
		assert.Equal(t, StatusRejected, r.Status)
	})

	t.Run("terminal states reject further reviews", func(t *testing.T) {
		for _, s := range []RealizationStatus{StatusApproved, StatusRejected} {
			r := SessionRealization{Status: s}
			assert.ErrorIs(t, r.Review(ActionApprove, "admin", nil, now), ErrInvalidTransition)
		}
	})
}

func TestWorkSessionMatches(t *testing.T) {
	ws := WorkSession{DayOfWeek: time.Tuesday}
	assert.True(t, ws.Matches(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ws.Matches(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
}
