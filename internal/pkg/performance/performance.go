package performance

import (
	"errors"
	"math"
	"sort"
)

// Risk levels shown on the team dashboard.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// ErrAthleteNotFound is returned when no athlete matches the requested ID.
var ErrAthleteNotFound = errors.New("performance: athlete not found")

// Athlete is one roster member with current readiness metrics.
type Athlete struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Sport        string  `json:"sport"`
	Team         string  `json:"team"`
	Age          int     `json:"age"`
	WeightKG     float64 `json:"weight_kg"`
	FTPWatts     int     `json:"ftp_watts"`
	RiskLevel    string  `json:"risk_level"`
	RiskScore    int     `json:"risk_score"`
	TrainingLoad int     `json:"training_load_tss"`
	WeeklyHours  float64 `json:"weekly_hours"`
	HRVms        int     `json:"hrv_ms"`
	SleepHours   float64 `json:"sleep_hours_avg"`
	Readiness    float64 `json:"readiness"`
}

// TeamSummary aggregates the roster for the dashboard header cards.
type TeamSummary struct {
	AvgReadiness     float64 `json:"avg_readiness"`
	AvgTrainingLoad  int     `json:"avg_training_load_tss"`
	HighRiskAthletes int     `json:"high_risk_athletes"`
	RosterSize       int     `json:"roster_size"`
}

// Demo roster backing the dashboards. Metric feeds from wearables and power
// meters are out of scope; the product ships with representative data.
var roster = []Athlete{
	{ID: 1, Name: "Sarah Johnson", Sport: "Road Cycling", Team: "Pro Team Alpha", Age: 26, WeightKG: 58, FTPWatts: 265, RiskLevel: RiskLow, RiskScore: 22, TrainingLoad: 420, WeeklyHours: 9.5, HRVms: 64, SleepHours: 7.8, Readiness: 9.1},
	{ID: 2, Name: "Mike Chen", Sport: "Mountain Biking", Team: "Trail Blazers", Age: 31, WeightKG: 72, FTPWatts: 310, RiskLevel: RiskModerate, RiskScore: 55, TrainingLoad: 680, WeeklyHours: 11.0, HRVms: 51, SleepHours: 7.0, Readiness: 8.2},
	{ID: 3, Name: "Emma Rodriguez", Sport: "Track Cycling", Team: "Velocity Squad", Age: 24, WeightKG: 61, FTPWatts: 290, RiskLevel: RiskHigh, RiskScore: 85, TrainingLoad: 920, WeeklyHours: 14.5, HRVms: 42, SleepHours: 6.4, Readiness: 6.8},
	{ID: 4, Name: "Alex Thompson", Sport: "Road Cycling", Team: "Endurance Elite", Age: 28, WeightKG: 68, FTPWatts: 285, RiskLevel: RiskLow, RiskScore: 30, TrainingLoad: 380, WeeklyHours: 8.0, HRVms: 60, SleepHours: 7.2, Readiness: 8.9},
}

// Roster returns all athletes ordered by ID.
func Roster() []Athlete {
	out := make([]Athlete, len(roster))
	copy(out, roster)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetAthlete returns one athlete by ID.
func GetAthlete(id uint) (*Athlete, error) {
	for i := range roster {
		if roster[i].ID == id {
			a := roster[i]
			return &a, nil
		}
	}
	return nil, ErrAthleteNotFound
}

// Summarize computes the dashboard aggregates over the given roster.
func Summarize(athletes []Athlete) TeamSummary {
	s := TeamSummary{RosterSize: len(athletes)}
	if len(athletes) == 0 {
		return s
	}
	var readiness float64
	var load int
	for _, a := range athletes {
		readiness += a.Readiness
		load += a.TrainingLoad
		if a.RiskLevel == RiskHigh {
			s.HighRiskAthletes++
		}
	}
	s.AvgReadiness = round1(readiness / float64(len(athletes)))
	s.AvgTrainingLoad = load / len(athletes)
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// WeeklyLoad describes one week in the training load trend chart.
type WeeklyLoad struct {
	Week int `json:"week"`
	TSS  int `json:"tss"`
}

// LoadTrend generates the last n weeks of training load for an athlete,
// anchored on the current load so the chart ends at the live value.
func LoadTrend(a *Athlete, weeks int) []WeeklyLoad {
	if weeks <= 0 {
		weeks = 12
	}
	trend := make([]WeeklyLoad, weeks)
	for i := 0; i < weeks; i++ {
		// Deterministic saw-tooth around the current load, oldest first.
		offset := (i%4 - 2) * 40
		trend[i] = WeeklyLoad{
			Week: weeks - i,
			TSS:  a.TrainingLoad + offset - (weeks-1-i)*10,
		}
	}
	trend[weeks-1].TSS = a.TrainingLoad
	return trend
}
