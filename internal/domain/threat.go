package domain

import "encoding/json"

// ThreatLevel is an ordinal threat tier. Higher values are more severe.
type ThreatLevel int

const (
	ThreatLow ThreatLevel = iota
	ThreatModerate
	ThreatHigh
	ThreatCritical
)

func (l ThreatLevel) String() string {
	switch l {
	case ThreatCritical:
		return "critical"
	case ThreatHigh:
		return "high"
	case ThreatModerate:
		return "moderate"
	default:
		return "low"
	}
}

// MarshalJSON renders the level as its label rather than its ordinal.
func (l ThreatLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// ClassifyThreat maps a metrics summary to a threat level via weighted
// scoring. It is a total function: an all-null summary classifies as low.
func ClassifyThreat(m MetricsSummary) ThreatLevel {
	score := threatScore(m)
	switch {
	case score >= 4:
		return ThreatCritical
	case score >= 3:
		return ThreatHigh
	case score >= 2:
		return ThreatModerate
	default:
		return ThreatLow
	}
}

// threatScore computes the weighted score: a diameter base plus proximity and
// timing bonuses. Each bonus axis is tiered (near OR mid-near, soon OR
// mid-term, never both within an axis) and the axes are additive.
func threatScore(m MetricsSummary) float64 {
	var diameter float64
	if m.DiameterKm != nil {
		diameter = *m.DiameterKm
	}

	var score float64
	switch {
	case diameter >= 0.3:
		score = 3
	case diameter >= 0.05:
		score = 2
	default:
		score = 1
	}

	if m.MinMissKm != nil {
		switch {
		case *m.MinMissKm < 1_000_000:
			score += 1
		case *m.MinMissKm < 5_000_000:
			score += 0.5
		}
	}

	if m.DaysToSoonestApproach != nil {
		switch days := *m.DaysToSoonestApproach; {
		case days <= 30:
			score += 1
		case days <= 365:
			score += 0.5
		}
	}

	return score
}
