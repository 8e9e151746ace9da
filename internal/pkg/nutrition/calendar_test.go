package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekForAnchorsOnMonday(t *testing.T) {
	// 2025-06-11 is a Wednesday
	week := WeekFor(time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC))

	assert.Equal(t, "2025-06-09", week.Start)
	assert.Equal(t, "2025-06-15", week.End)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "2025-06-09", week.Days[0].Date)
	assert.Equal(t, "2025-06-15", week.Days[6].Date)
}

func TestWeekForSundayBelongsToPrecedingMonday(t *testing.T) {
	// 2025-06-15 is a Sunday; its week starts on the 9th, not the 16th
	week := WeekFor(time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-06-09", week.Start)
}

func TestWeekForDeterministic(t *testing.T) {
	date := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, WeekFor(date), WeekFor(date))
}

func TestDayForWeekdayVariation(t *testing.T) {
	monday := dayFor(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC))
	sunday := dayFor(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 2340, monday.Calories.Consumed)
	assert.Equal(t, 2940, sunday.Calories.Consumed)
	assert.Equal(t, 2500, monday.Calories.Target)

	// Sunday is the plan's rest day
	assert.Equal(t, "Rest Day", sunday.Workout.Title)
	assert.Zero(t, sunday.Workout.DurationMin)
	assert.Equal(t, "Endurance Ride", monday.Workout.Title)
}
