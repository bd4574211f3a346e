package domain

import (
	"math"
	"time"
)

// MetricsSummary is the normalized reduction of a NeoRecord. Fields are nil
// when the underlying data is absent or unparsable; extraction never fails.
type MetricsSummary struct {
	DiameterKm *float64 `json:"diameter_km"`
	Hazardous  bool     `json:"hazardous"`

	// MinMissKm is nil iff no approach entry had a parsable miss distance.
	MinMissKm *float64 `json:"min_miss_km"`

	SoonestApproach       *time.Time `json:"soonest_approach"`
	DaysToSoonestApproach *int       `json:"days_to_soonest_approach"` // negative when already past

	// MaxRelVelKms defaults to 0.0 (not nil) when no velocity parses.
	// Asymmetric with MinMissKm on purpose; see the package doc.
	MaxRelVelKms float64 `json:"max_rel_vel_kms"`

	AbsoluteMagnitude *float64 `json:"absolute_magnitude_h"`
}

// ExtractMetrics reduces a record to a MetricsSummary in a single pass over
// its close-approach events. Distance, velocity, and timestamp extraction are
// evaluated per entry with independent null-safety: an entry whose timestamp
// fails to parse still contributes its distance and velocity, and vice versa.
func ExtractMetrics(rec NeoRecord) MetricsSummary {
	m := MetricsSummary{
		Hazardous:         rec.PotentiallyHazardous,
		AbsoluteMagnitude: rec.AbsoluteMagnitudeH,
	}

	if max := rec.EstimatedDiameter.Kilometers.Max; max != nil {
		v := *max
		m.DiameterKm = &v
	}

	for _, approach := range rec.CloseApproachData {
		if dist, ok := CoerceFloat(approach.MissDistance.Kilometers); ok {
			if m.MinMissKm == nil || dist < *m.MinMissKm {
				m.MinMissKm = &dist
			}
		}
		if vel, ok := CoerceFloat(approach.RelativeVelocity.KilometersPerSecond); ok && vel > m.MaxRelVelKms {
			m.MaxRelVelKms = vel
		}
		if ts, ok := parseApproachTime(approach); ok {
			if m.SoonestApproach == nil || ts.Before(*m.SoonestApproach) {
				t := ts
				m.SoonestApproach = &t
			}
		}
	}

	if m.SoonestApproach != nil {
		days := daysUntil(*m.SoonestApproach)
		m.DaysToSoonestApproach = &days
	}

	return m
}

// parseApproachTime prefers the full timestamp field over the date-only field.
func parseApproachTime(approach CloseApproach) (time.Time, bool) {
	if ts, ok := ParseTimestamp(approach.CloseApproachDateFull); ok {
		return ts, true
	}
	return ParseTimestamp(approach.CloseApproachDate)
}

// daysUntil is the floored whole-day offset from now, signed.
func daysUntil(t time.Time) int {
	seconds := t.Sub(clock.Now()).Seconds()
	return int(math.Floor(seconds / 86400))
}
