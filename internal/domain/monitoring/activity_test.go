package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction(t *testing.T) {
	t.Run("auth actions", func(t *testing.T) {
		success := AuthAction(true)
		assert.Equal(t, "AUTH_SUCCESS", success.Name)
		assert.Equal(t, ClassAuth, success.Class)
		assert.False(t, success.IsAuthFailure())

		failure := AuthAction(false)
		assert.Equal(t, "AUTH_FAILURE", failure.Name)
		assert.True(t, failure.IsAuthFailure())
		assert.False(t, failure.IsPHIAccess())
	})

	t.Run("phi actions normalize the operation", func(t *testing.T) {
		tests := []struct {
			operation string
			want      string
		}{
			{"READ", "PHI_ACCESS_READ"},
			{"export", "PHI_ACCESS_EXPORT"},
			{"  update ", "PHI_ACCESS_UPDATE"},
			{"", "PHI_ACCESS_UNSPECIFIED"},
		}
		for _, tt := range tests {
			action := PHIAction(tt.operation)
			assert.Equal(t, tt.want, action.Name)
			assert.True(t, action.IsPHIAccess())
			assert.False(t, action.IsAuthFailure())
		}
	})

	t.Run("general action with an auth-like name is not an auth failure", func(t *testing.T) {
		action := GeneralAction("AUTH_FAILURE")
		assert.Equal(t, ClassGeneral, action.Class)
		assert.False(t, action.IsAuthFailure())
	})

	t.Run("validation action", func(t *testing.T) {
		action := ValidationAction()
		assert.Equal(t, "VALIDATION_FAILURE", action.Name)
		assert.Equal(t, ClassValidation, action.Class)
	})
}

func TestUserActivitySession(t *testing.T) {
	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("append updates counters and last activity", func(t *testing.T) {
		session := NewSession("user-1")
		require.Empty(t, session.Activities)

		session.Append(ActivityEvent{Action: AuthAction(false), Timestamp: base})
		session.Append(ActivityEvent{Action: AuthAction(true), Timestamp: base.Add(time.Second)})
		session.Append(ActivityEvent{Action: PHIAction("READ"), Timestamp: base.Add(2 * time.Second)})

		assert.Len(t, session.Activities, 3)
		assert.Equal(t, 1, session.AuthFailureCount)
		assert.Equal(t, 1, session.PHIAccessCount)
		assert.Equal(t, base.Add(2*time.Second), session.LastActivity)
	})

	t.Run("prune drops only entries before the cutoff", func(t *testing.T) {
		session := NewSession("user-1")
		for i := 0; i < 5; i++ {
			session.Append(ActivityEvent{
				Action:    GeneralAction("VIEW"),
				Timestamp: base.Add(time.Duration(i) * time.Minute),
			})
		}

		removed := session.PruneBefore(base.Add(2 * time.Minute))

		assert.Equal(t, 2, removed)
		require.Len(t, session.Activities, 3)
		assert.Equal(t, base.Add(2*time.Minute), session.Activities[0].Timestamp)
	})

	t.Run("prune keeps entries exactly at the cutoff", func(t *testing.T) {
		session := NewSession("user-1")
		session.Append(ActivityEvent{Action: GeneralAction("VIEW"), Timestamp: base})

		assert.Equal(t, 0, session.PruneBefore(base))
		assert.Len(t, session.Activities, 1)
	})

	t.Run("prune does not decrement counters", func(t *testing.T) {
		session := NewSession("user-1")
		session.Append(ActivityEvent{Action: AuthAction(false), Timestamp: base})
		session.Append(ActivityEvent{Action: PHIAction("READ"), Timestamp: base.Add(time.Hour)})

		session.PruneBefore(base.Add(30 * time.Minute))

		assert.Len(t, session.Activities, 1)
		assert.Equal(t, 1, session.AuthFailureCount)
		assert.Equal(t, 1, session.PHIAccessCount)
	})

	t.Run("prune on empty session", func(t *testing.T) {
		session := NewSession("user-1")
		assert.Equal(t, 0, session.PruneBefore(base))
	})

	t.Run("count in window with predicate", func(t *testing.T) {
		session := NewSession("user-1")
		session.Append(ActivityEvent{Action: AuthAction(false), Timestamp: base})
		session.Append(ActivityEvent{Action: AuthAction(false), Timestamp: base.Add(time.Minute)})
		session.Append(ActivityEvent{Action: PHIAction("READ"), Timestamp: base.Add(time.Minute)})

		cutoff := base.Add(30 * time.Second)
		assert.Equal(t, 2, session.CountInWindow(cutoff, nil))
		assert.Equal(t, 1, session.CountInWindow(cutoff, Action.IsAuthFailure))
		assert.Equal(t, 2, session.CountInWindow(base, Action.IsAuthFailure))
		assert.Equal(t, 1, session.CountInWindow(base, Action.IsPHIAccess))
	})
}
