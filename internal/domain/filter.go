package domain

import (
	"strings"
	"time"
)

// FilterBounds is a set of optional range predicates over a record's metrics.
// Semantics are stricter than skip-on-null: when a bound of some kind is
// supplied and the corresponding metric is null, the record fails that bound.
// A bound kind with nothing supplied is simply not evaluated.
type FilterBounds struct {
	Hazardous *bool

	MinDiameterKm *float64
	MaxDiameterKm *float64

	MinMissKm *float64
	MaxMissKm *float64

	MinVelocityKms *float64
	MaxVelocityKms *float64

	MinDays *int
	MaxDays *int

	MinMagnitude *float64
	MaxMagnitude *float64

	ApproachAfter  *time.Time
	ApproachBefore *time.Time

	OrbitingBody string
}

// Empty reports whether no bound of any kind was supplied.
func (f FilterBounds) Empty() bool {
	return f.Hazardous == nil &&
		f.MinDiameterKm == nil && f.MaxDiameterKm == nil &&
		f.MinMissKm == nil && f.MaxMissKm == nil &&
		f.MinVelocityKms == nil && f.MaxVelocityKms == nil &&
		f.MinDays == nil && f.MaxDays == nil &&
		f.MinMagnitude == nil && f.MaxMagnitude == nil &&
		f.ApproachAfter == nil && f.ApproachBefore == nil &&
		f.OrbitingBody == ""
}

// Matches reports whether the record passes every supplied bound, evaluated
// against its metrics summary.
func (f FilterBounds) Matches(rec NeoRecord, m MetricsSummary) bool {
	if f.Hazardous != nil && m.Hazardous != *f.Hazardous {
		return false
	}
	if !inFloatRange(m.DiameterKm, f.MinDiameterKm, f.MaxDiameterKm) {
		return false
	}
	if !inFloatRange(m.MinMissKm, f.MinMissKm, f.MaxMissKm) {
		return false
	}
	vel := m.MaxRelVelKms
	if !inFloatRange(&vel, f.MinVelocityKms, f.MaxVelocityKms) {
		return false
	}
	if !inIntRange(m.DaysToSoonestApproach, f.MinDays, f.MaxDays) {
		return false
	}
	if !inFloatRange(m.AbsoluteMagnitude, f.MinMagnitude, f.MaxMagnitude) {
		return false
	}
	if !inTimeWindow(m.SoonestApproach, f.ApproachAfter, f.ApproachBefore) {
		return false
	}
	if f.OrbitingBody != "" && !orbitsBody(rec, f.OrbitingBody) {
		return false
	}
	return true
}

// inFloatRange checks value against optional bounds; a supplied bound fails on nil value.
func inFloatRange(value, min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if value == nil {
		return false
	}
	if min != nil && *value < *min {
		return false
	}
	if max != nil && *value > *max {
		return false
	}
	return true
}

func inIntRange(value, min, max *int) bool {
	if min == nil && max == nil {
		return true
	}
	if value == nil {
		return false
	}
	if min != nil && *value < *min {
		return false
	}
	if max != nil && *value > *max {
		return false
	}
	return true
}

func inTimeWindow(value, after, before *time.Time) bool {
	if after == nil && before == nil {
		return true
	}
	if value == nil {
		return false
	}
	if after != nil && value.Before(*after) {
		return false
	}
	if before != nil && value.After(*before) {
		return false
	}
	return true
}

// orbitsBody reports whether any close-approach event orbits the named body.
func orbitsBody(rec NeoRecord, body string) bool {
	for _, approach := range rec.CloseApproachData {
		if strings.EqualFold(strings.TrimSpace(approach.OrbitingBody), body) {
			return true
		}
	}
	return false
}
