package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortobank/ortobank/internal/model"
)

func TestApplyStatusDeltaCountedStatuses(t *testing.T) {
	tests := []struct {
		status model.ItemStatus
		read   func(*model.Stock) int
	}{
		{model.StatusMaintenance, func(s *model.Stock) int { return s.Maintenance }},
		{model.StatusAvailable, func(s *model.Stock) int { return s.Available }},
		{model.StatusUnavailable, func(s *model.Stock) int { return s.Borrowed }},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			s := &model.Stock{ID: "s1"}

			require.NoError(t, applyStatusDelta(s, tc.status, +1))
			assert.Equal(t, 1, tc.read(s))
			assert.Equal(t, 1, s.Total)

			require.NoError(t, applyStatusDelta(s, tc.status, -1))
			assert.Equal(t, 0, tc.read(s))
			assert.Equal(t, 0, s.Total)
		})
	}
}

func TestApplyStatusDeltaAbsorbingStatuses(t *testing.T) {
	for _, status := range []model.ItemStatus{model.StatusLost, model.StatusDonated} {
		t.Run(string(status), func(t *testing.T) {
			s := &model.Stock{ID: "s1", Maintenance: 1, Available: 2, Borrowed: 3, Total: 6}

			require.NoError(t, applyStatusDelta(s, status, +1))
			assert.Equal(t, 1, s.Maintenance)
			assert.Equal(t, 2, s.Available)
			assert.Equal(t, 3, s.Borrowed)
			assert.Equal(t, 6, s.Total)
		})
	}
}

func TestApplyStatusDeltaRecomputesTotal(t *testing.T) {
	// A stale total is corrected on the first counter movement.
	s := &model.Stock{ID: "s1", Maintenance: 1, Available: 1, Borrowed: 1, Total: 99}

	require.NoError(t, applyStatusDelta(s, model.StatusAvailable, +1))
	assert.Equal(t, 4, s.Total)
}

func TestApplyStatusDeltaRejectsUnknownStatus(t *testing.T) {
	s := &model.Stock{ID: "s1"}

	err := applyStatusDelta(s, "BROKEN", +1)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestApplyStatusDeltaRejectsNegativeCounters(t *testing.T) {
	s := &model.Stock{ID: "s1", Available: 0}

	err := applyStatusDelta(s, model.StatusAvailable, -1)
	require.ErrorIs(t, err, ErrInvalidState)
}
