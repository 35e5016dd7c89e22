package metrics

import "time"

// Tier is the severity of the message shown for a revenue drought.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
	Tier4
)

// SelectTier maps a revenue gap in days to a message tier. Thresholds are
// checked from the most severe down.
func SelectTier(gap int, e EscalationPolicy) Tier {
	switch {
	case gap >= e.Tier4Days:
		return Tier4
	case gap >= e.Tier3Days:
		return Tier3
	case gap >= e.Tier2Days:
		return Tier2
	default:
		return Tier1
	}
}

// Escalation selects the tier from the days since the last revenue.
func Escalation(records []Record, today time.Time, p Policy) Tier {
	return SelectTier(DaysSincePositive(records, today, FieldMoneyIn), p.Escalation)
}

// MessageBank holds the text for each tier. Tier 2 draws from a pool.
type MessageBank struct {
	Tier1 string
	Tier2 []string
	Tier3 string
	Tier4 string
}

// Message returns the text for tier t. pick chooses an index in [0, n) and is
// only consulted for tier 2; a nil pick takes the first entry.
func (b MessageBank) Message(t Tier, pick func(n int) int) string {
	switch t {
	case Tier4:
		return b.Tier4
	case Tier3:
		return b.Tier3
	case Tier2:
		if len(b.Tier2) == 0 {
			return b.Tier1
		}
		i := 0
		if pick != nil {
			i = pick(len(b.Tier2))
		}
		if i < 0 || i >= len(b.Tier2) {
			i = 0
		}
		return b.Tier2[i]
	default:
		return b.Tier1
	}
}
