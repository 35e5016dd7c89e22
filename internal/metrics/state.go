package metrics

import (
	"fmt"
	"strings"
	"time"
)

// State is the ordinal health of the trailing week.
type State int

const (
	StateCritical State = iota
	StateWeak
	StateStable
	StateAscending
)

var stateNames = map[State]string{
	StateCritical:  "CRITICAL",
	StateWeak:      "WEAK",
	StateStable:    "STABLE",
	StateAscending: "ASCENDING",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name, case-insensitively.
func (s *State) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for state, candidate := range stateNames {
		if candidate == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", string(text))
}

// Condition is one of the five weekly checks.
type Condition struct {
	Name   string  `json:"name"`
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
	Met    bool    `json:"met"`
}

// Assessment is the classifier result together with the checks behind it.
type Assessment struct {
	State      State       `json:"state"`
	Conditions []Condition `json:"conditions"`
	Satisfied  int         `json:"satisfied"`
}

// Assess evaluates the weekly conditions over the trailing state window.
// An empty window is CRITICAL and reports no conditions.
func Assess(records []Record, today time.Time, p Policy) Assessment {
	window := Window(records, today, p.State.WindowDays)
	if len(window) == 0 {
		return Assessment{State: StateCritical}
	}

	meanDeep, _ := Mean(window, FieldDeepWork)
	calls := Sum(window, FieldColdCalls)
	workouts := Sum(window, FieldWorkout)
	money := Sum(window, FieldMoneyIn)
	pages := Sum(window, FieldReadingPages)

	conditions := []Condition{
		{Name: "deep_work_mean", Actual: meanDeep, Target: p.State.MinMeanDeepWork, Met: meanDeep >= p.State.MinMeanDeepWork},
		{Name: "cold_calls", Actual: calls, Target: p.State.MinColdCalls, Met: calls >= p.State.MinColdCalls},
		{Name: "workouts", Actual: workouts, Target: p.State.MinWorkouts, Met: workouts >= p.State.MinWorkouts},
		{Name: "revenue", Actual: money, Target: p.State.MinMoneyIn, Met: money > p.State.MinMoneyIn},
		{Name: "reading_pages", Actual: pages, Target: p.State.MinReadingPages, Met: pages >= p.State.MinReadingPages},
	}

	satisfied := 0
	for _, c := range conditions {
		if c.Met {
			satisfied++
		}
	}

	return Assessment{State: classify(satisfied), Conditions: conditions, Satisfied: satisfied}
}

// FailureState classifies the trailing week.
func FailureState(records []Record, today time.Time, p Policy) State {
	return Assess(records, today, p).State
}

func classify(satisfied int) State {
	switch {
	case satisfied <= 1:
		return StateCritical
	case satisfied == 2:
		return StateWeak
	case satisfied == 3:
		return StateStable
	default:
		return StateAscending
	}
}
