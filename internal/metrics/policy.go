package metrics

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("invalid policy")

// StatePolicy configures the failure-state classifier.
type StatePolicy struct {
	WindowDays      int     `yaml:"window_days" json:"window_days"`
	MinMeanDeepWork float64 `yaml:"min_mean_deep_work" json:"min_mean_deep_work"`
	MinColdCalls    float64 `yaml:"min_cold_calls" json:"min_cold_calls"`
	MinWorkouts     float64 `yaml:"min_workouts" json:"min_workouts"`
	// Revenue must be strictly above this amount.
	MinMoneyIn      float64 `yaml:"min_money_in" json:"min_money_in"`
	MinReadingPages float64 `yaml:"min_reading_pages" json:"min_reading_pages"`
}

// ScoreTerm is one capped-linear component of the dominance score.
type ScoreTerm struct {
	Field  Field   `yaml:"field" json:"field"`
	Cap    float64 `yaml:"cap" json:"cap"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// ScorePolicy configures the dominance score.
type ScorePolicy struct {
	WindowDays int         `yaml:"window_days" json:"window_days"`
	Terms      []ScoreTerm `yaml:"terms" json:"terms"`
}

// ProjectionPolicy configures the year-end revenue projection.
type ProjectionPolicy struct {
	WindowDays int `yaml:"window_days" json:"window_days"`
	// Horizon is the projection end date. Zero means Dec 31 of the current year.
	Horizon time.Time `yaml:"horizon" json:"horizon"`
}

// LockPolicy configures the two gating predicates.
type LockPolicy struct {
	DashboardMinDeepWork  float64 `yaml:"dashboard_min_deep_work" json:"dashboard_min_deep_work"`
	DashboardMinColdCalls int     `yaml:"dashboard_min_cold_calls" json:"dashboard_min_cold_calls"`
	ArsenalMaxGapDays     int     `yaml:"arsenal_max_gap_days" json:"arsenal_max_gap_days"`
}

// EscalationPolicy holds the revenue-gap thresholds for message tiers 2–4.
type EscalationPolicy struct {
	Tier2Days int `yaml:"tier2_days" json:"tier2_days"`
	Tier3Days int `yaml:"tier3_days" json:"tier3_days"`
	Tier4Days int `yaml:"tier4_days" json:"tier4_days"`
}

// GoalPolicy describes the money target of the mission.
type GoalPolicy struct {
	Amount    float64   `yaml:"amount" json:"amount"`
	Currency  string    `yaml:"currency" json:"currency"`
	StartDate time.Time `yaml:"start_date" json:"start_date"`
	// Days count as active for the win rate when any of these hold.
	ActiveMinDeepWork float64 `yaml:"active_min_deep_work" json:"active_min_deep_work"`
}

// Policy bundles every tunable threshold of the engine.
type Policy struct {
	State      StatePolicy      `yaml:"state" json:"state"`
	Score      ScorePolicy      `yaml:"score" json:"score"`
	Projection ProjectionPolicy `yaml:"projection" json:"projection"`
	Locks      LockPolicy       `yaml:"locks" json:"locks"`
	Escalation EscalationPolicy `yaml:"escalation" json:"escalation"`
	Goal       GoalPolicy       `yaml:"goal" json:"goal"`
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		State: StatePolicy{
			WindowDays:      7,
			MinMeanDeepWork: 4,
			MinColdCalls:    50,
			MinWorkouts:     4,
			MinMoneyIn:      0,
			MinReadingPages: 50,
		},
		Score: ScorePolicy{
			WindowDays: 30,
			Terms: []ScoreTerm{
				{Field: FieldMoneyIn, Cap: 10000, Weight: 40},
				{Field: FieldDeepWork, Cap: 120, Weight: 25},
				{Field: FieldColdCalls, Cap: 300, Weight: 15},
				{Field: FieldWorkout, Cap: 20, Weight: 10},
				{Field: FieldReadingPages, Cap: 600, Weight: 10},
			},
		},
		Projection: ProjectionPolicy{WindowDays: 14},
		Locks: LockPolicy{
			DashboardMinDeepWork:  4,
			DashboardMinColdCalls: 10,
			ArsenalMaxGapDays:     5,
		},
		Escalation: EscalationPolicy{Tier2Days: 3, Tier3Days: 7, Tier4Days: 14},
		Goal: GoalPolicy{
			Amount:            400000,
			Currency:          "QAR",
			StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			ActiveMinDeepWork: 2,
		},
	}
}

// HorizonFor resolves the projection horizon relative to today.
func (p Policy) HorizonFor(today time.Time) time.Time {
	if !p.Projection.Horizon.IsZero() {
		return Day(p.Projection.Horizon)
	}
	return time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// Validate reports the first setting that would make an engine function
// divide by zero or compare against a nonsensical threshold.
func (p Policy) Validate() error {
	if p.State.WindowDays <= 0 || p.Score.WindowDays <= 0 || p.Projection.WindowDays <= 0 {
		return fmt.Errorf("%w: window sizes must be positive", ErrInvalidPolicy)
	}
	if p.State.MinMeanDeepWork < 0 || p.State.MinColdCalls < 0 || p.State.MinWorkouts < 0 ||
		p.State.MinMoneyIn < 0 || p.State.MinReadingPages < 0 {
		return fmt.Errorf("%w: state thresholds must not be negative", ErrInvalidPolicy)
	}
	for _, term := range p.Score.Terms {
		if term.Cap <= 0 {
			return fmt.Errorf("%w: score cap for %s must be positive", ErrInvalidPolicy, term.Field)
		}
		if term.Weight < 0 {
			return fmt.Errorf("%w: score weight for %s must not be negative", ErrInvalidPolicy, term.Field)
		}
	}
	if p.Locks.ArsenalMaxGapDays <= 0 {
		return fmt.Errorf("%w: arsenal gap must be positive", ErrInvalidPolicy)
	}
	e := p.Escalation
	if e.Tier2Days <= 0 || e.Tier3Days < e.Tier2Days || e.Tier4Days < e.Tier3Days {
		return fmt.Errorf("%w: escalation thresholds must be positive and ascending", ErrInvalidPolicy)
	}
	if p.Goal.Amount < 0 {
		return fmt.Errorf("%w: goal amount must not be negative", ErrInvalidPolicy)
	}
	return nil
}
