package nutrition

import "time"

// Macro tracks consumed vs target for one nutrient.
type Macro struct {
	Consumed int `json:"consumed"`
	Target   int `json:"target"`
}

// Workout is the planned session attached to a calendar day.
type Workout struct {
	Title       string `json:"title"`
	DurationMin int    `json:"duration_min"`
	Intensity   string `json:"intensity"`
}

// Day is one calendar day with nutrition totals and the planned workout.
type Day struct {
	Date     string  `json:"date"`
	Calories Macro   `json:"calories"`
	Carbs    Macro   `json:"carbs"`
	Protein  Macro   `json:"protein"`
	Fat      Macro   `json:"fat"`
	Workout  Workout `json:"workout"`
}

// Week is a Monday-anchored seven day calendar window.
type Week struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  []Day  `json:"days"`
}

var workoutPlan = []Workout{
	{Title: "Endurance Ride", DurationMin: 150, Intensity: "Z2"},
	{Title: "VO2 Intervals", DurationMin: 75, Intensity: "Z5"},
	{Title: "Recovery Spin", DurationMin: 45, Intensity: "Z1"},
	{Title: "Sweet Spot", DurationMin: 90, Intensity: "Z3-Z4"},
	{Title: "Threshold Repeats", DurationMin: 80, Intensity: "Z4"},
	{Title: "Long Ride", DurationMin: 240, Intensity: "Z2"},
	{Title: "Rest Day", DurationMin: 0, Intensity: "-"},
}

// WeekFor builds the calendar week containing the given date. Data is
// deterministic per weekday until real intake logging lands.
func WeekFor(date time.Time) Week {
	start := startOfWeek(date)
	week := Week{
		Start: start.Format("2006-01-02"),
		End:   start.AddDate(0, 0, 6).Format("2006-01-02"),
		Days:  make([]Day, 7),
	}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		week.Days[i] = dayFor(day)
	}
	return week
}

func dayFor(date time.Time) Day {
	// Weekday drives the demo variation, Sunday counting as day seven.
	wd := int(date.Weekday())
	if wd == 0 {
		wd = 7
	}
	return Day{
		Date:     date.Format("2006-01-02"),
		Calories: Macro{Consumed: 2240 + wd*100, Target: 2500},
		Carbs:    Macro{Consumed: 280 + wd*20, Target: 300},
		Protein:  Macro{Consumed: 140 + wd*10, Target: 150},
		Fat:      Macro{Consumed: 78 + wd*5, Target: 83},
		Workout:  workoutPlan[wd-1],
	}
}

// startOfWeek returns the Monday of the week containing date.
func startOfWeek(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	offset := int(d.Weekday())
	if offset == 0 {
		offset = 7
	}
	return d.AddDate(0, 0, 1-offset)
}
