package internal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/taskplanner-api/internal"
)

func TestDates_Validate(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   internal.Dates
		withErr bool
	}{
		{
			name:  "OK: end after start",
			input: internal.Dates{Start: start, End: start.Add(2 * time.Hour)},
		},
		{
			name:  "OK: end equals start",
			input: internal.Dates{Start: start, End: start},
		},
		{
			name:    "ERR: end before start",
			input:   internal.Dates{Start: start, End: start.Add(-time.Minute)},
			withErr: true,
		},
		{
			name:    "ERR: missing dates",
			input:   internal.Dates{},
			withErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			if tt.withErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	valid := internal.Task{
		UserID:   "2872f1a4-3f35-4a6c-8a3e-24fd3d3a4c55",
		Title:    "pay the electricity bill",
		Status:   internal.StatusPending,
		Priority: internal.PriorityMedium,
		Dates: internal.Dates{
			Start: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, valid.Validate())

	noTitle := valid
	noTitle.Title = ""
	require.Error(t, noTitle.Validate())

	badStatus := valid
	badStatus.Status = "paused"
	require.Error(t, badStatus.Validate())

	badPriority := valid
	badPriority.Priority = "urgent"
	require.Error(t, badPriority.Validate())

	noOwner := valid
	noOwner.UserID = ""
	require.Error(t, noOwner.Validate())
}

func TestTask_IsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status internal.Status
		end    time.Time
		want   bool
	}{
		{"pending past due", internal.StatusPending, now.Add(-time.Hour), true},
		{"in progress past due", internal.StatusInProgress, now.Add(-time.Hour), true},
		{"completed past due", internal.StatusCompleted, now.Add(-time.Hour), false},
		{"cancelled past due", internal.StatusCancelled, now.Add(-time.Hour), false},
		{"pending not yet due", internal.StatusPending, now.Add(time.Hour), false},
		{"pending due exactly now", internal.StatusPending, now, false},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task := internal.Task{
				Status: tt.status,
				Dates:  internal.Dates{End: tt.end},
			}

			require.Equal(t, tt.want, task.IsOverdue(now))
		})
	}
}

func TestTask_DaysUntilDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC)

	task := internal.Task{Dates: internal.Dates{End: time.Date(2024, 6, 13, 0, 15, 0, 0, time.UTC)}}
	require.Equal(t, 3, task.DaysUntilDue(now))

	sameDay := internal.Task{Dates: internal.Dates{End: time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)}}
	require.Equal(t, 0, sameDay.DaysUntilDue(now))

	past := internal.Task{Dates: internal.Dates{End: time.Date(2024, 6, 8, 18, 0, 0, 0, time.UTC)}}
	require.Equal(t, -2, past.DaysUntilDue(now))
}

func TestPriority_Rank(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, internal.PriorityHigh.Rank())
	require.Equal(t, 2, internal.PriorityMedium.Rank())
	require.Equal(t, 3, internal.PriorityLow.Rank())
	require.Equal(t, 4, internal.Priority("bogus").Rank())
}
