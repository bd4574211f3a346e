package domain

import "strings"

// NeoRecord is the NeoWs representation of a near-Earth object. It is
// read-only input: the service never mutates or persists these.
type NeoRecord struct {
	ID                     string            `json:"id"`
	NeoReferenceID         string            `json:"neo_reference_id,omitempty"`
	Name                   string            `json:"name"`
	Designation            string            `json:"designation,omitempty"`
	AbsoluteMagnitudeH     *float64          `json:"absolute_magnitude_h"`
	EstimatedDiameter      EstimatedDiameter `json:"estimated_diameter"`
	PotentiallyHazardous   bool              `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData      []CloseApproach   `json:"close_approach_data"`
	IsSentryObject         bool              `json:"is_sentry_object,omitempty"`
	NasaJplURL             string            `json:"nasa_jpl_url,omitempty"`
	OrbitalDataUnavailable bool              `json:"-"`
}

// EstimatedDiameter carries the NeoWs magnitude-derived diameter range.
// Only the kilometer block is used; NeoWs repeats the same range in other units.
type EstimatedDiameter struct {
	Kilometers DiameterRange `json:"kilometers"`
}

// DiameterRange is a min/max estimate in kilometers. Either bound may be absent.
type DiameterRange struct {
	Min *float64 `json:"estimated_diameter_min"`
	Max *float64 `json:"estimated_diameter_max"`
}

// CloseApproach is one close-approach event. Numeric fields are strings in
// the NeoWs payload and may be malformed; parsing skips bad entries.
type CloseApproach struct {
	CloseApproachDate     string           `json:"close_approach_date"`
	CloseApproachDateFull string           `json:"close_approach_date_full"`
	MissDistance          MissDistance     `json:"miss_distance"`
	RelativeVelocity      RelativeVelocity `json:"relative_velocity"`
	OrbitingBody          string           `json:"orbiting_body"`
}

// MissDistance is the approach miss distance. Kilometers is the only field consumed.
type MissDistance struct {
	Kilometers string `json:"kilometers"`
}

// RelativeVelocity is the approach relative velocity. km/s is the only field consumed.
type RelativeVelocity struct {
	KilometersPerSecond string `json:"kilometers_per_second"`
}

// DisplayLabel returns the best human-readable label for catalog lookups:
// the name when present, otherwise the designation, otherwise the id.
func (r NeoRecord) DisplayLabel() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	if des := strings.TrimSpace(r.Designation); des != "" {
		return des
	}
	return r.ID
}

// AverageDiameterKm averages the estimated diameter bounds, falling back to
// whichever bound is present. Returns nil when both are absent.
func (r NeoRecord) AverageDiameterKm() *float64 {
	min, max := r.EstimatedDiameter.Kilometers.Min, r.EstimatedDiameter.Kilometers.Max
	switch {
	case min != nil && max != nil:
		avg := (*min + *max) / 2
		return &avg
	case max != nil:
		v := *max
		return &v
	case min != nil:
		v := *min
		return &v
	default:
		return nil
	}
}
