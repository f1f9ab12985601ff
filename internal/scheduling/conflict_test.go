package scheduling

import (
	"testing"

	"clinic-app-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func hm(h, m int) datatypes.Time { return datatypes.NewTime(h, m, 0, 0) }

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd datatypes.Time
		want                       bool
	}{
		{"back to back after", hm(9, 30), hm(10, 0), hm(9, 0), hm(9, 30), false},
		{"back to back before", hm(8, 30), hm(9, 0), hm(9, 0), hm(9, 30), false},
		{"partial overlap", hm(9, 15), hm(9, 45), hm(9, 0), hm(9, 30), true},
		{"contained", hm(9, 5), hm(9, 10), hm(9, 0), hm(9, 30), true},
		{"containing", hm(8, 0), hm(10, 0), hm(9, 0), hm(9, 30), true},
		{"identical", hm(9, 0), hm(9, 30), hm(9, 0), hm(9, 30), true},
		{"disjoint", hm(11, 0), hm(11, 30), hm(9, 0), hm(9, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestFindConflict(t *testing.T) {
	existing := []models.Appointment{
		{BaseModel: models.BaseModel{ID: "a1"}, StartTime: hm(9, 0), EndTime: hm(9, 30), Status: models.StatusScheduled},
		{BaseModel: models.BaseModel{ID: "a2"}, StartTime: hm(10, 0), EndTime: hm(10, 30), Status: models.StatusCancelled},
		{BaseModel: models.BaseModel{ID: "a3"}, StartTime: hm(11, 0), EndTime: hm(11, 30), Status: models.StatusInProgress},
	}

	assert.Nil(t, FindConflict(nil, hm(9, 0), hm(9, 30), ""))
	assert.Nil(t, FindConflict(existing, hm(9, 30), hm(10, 0), ""))

	got := FindConflict(existing, hm(9, 15), hm(9, 45), "")
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)

	// cancelled windows are free
	assert.Nil(t, FindConflict(existing, hm(10, 0), hm(10, 30), ""))

	// an appointment never conflicts with itself
	assert.Nil(t, FindConflict(existing, hm(9, 0), hm(9, 30), "a1"))
	require.NotNil(t, FindConflict(existing, hm(11, 15), hm(12, 0), "a1"))
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, CanTransition(models.StatusScheduled, models.StatusConfirmed))
	assert.True(t, CanTransition(models.StatusConfirmed, models.StatusInProgress))
	assert.True(t, CanTransition(models.StatusInProgress, models.StatusCompleted))
	assert.True(t, CanTransition(models.StatusConfirmed, models.StatusNoShow))
	assert.True(t, CanTransition(models.StatusRescheduled, models.StatusConfirmed))

	assert.False(t, CanTransition(models.StatusScheduled, models.StatusCompleted))
	assert.False(t, CanTransition(models.StatusScheduled, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusCompleted, models.StatusScheduled))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusScheduled))
	assert.False(t, CanTransition(models.StatusInProgress, models.StatusScheduled))

	assert.True(t, IsTerminal(models.StatusCompleted))
	assert.True(t, IsTerminal(models.StatusCancelled))
	assert.True(t, IsTerminal(models.StatusNoShow))
	assert.False(t, IsTerminal(models.StatusScheduled))
}

func TestErrorKinds(t *testing.T) {
	err := schedulingConflict(&models.Appointment{BaseModel: models.BaseModel{ID: "x"}, StartTime: hm(9, 0), EndTime: hm(9, 30)})
	assert.True(t, IsKind(err, KindSchedulingConflict))
	assert.Equal(t, "SCHEDULING_CONFLICT: doctor already has an appointment from 09:00:00 to 09:30:00", err.Error())
	assert.Equal(t, ErrorKind(""), KindOf(assert.AnError))
}
