package domain

// MitigationSuggestion is a static strategy recommendation. The content is
// data, not computation: rules only decide which suggestions apply.
type MitigationSuggestion struct {
	Title     string        `json:"title"`
	Window    string        `json:"window"`
	Rationale string        `json:"rationale"`
	Actions   []string      `json:"actions"`
	Levels    []ThreatLevel `json:"suitable_for"`
}

var (
	suggestMonitoring = MitigationSuggestion{
		Title:     "Orbital monitoring and refinement",
		Window:    "continuous",
		Rationale: "Every object benefits from a tighter orbit solution; most initial threat assessments dissolve under better data.",
		Actions: []string{
			"Schedule follow-up optical and radar observations",
			"Refine the orbit solution and shrink the uncertainty region",
			"Re-run the risk assessment as new astrometry arrives",
		},
		Levels: []ThreatLevel{ThreatLow, ThreatModerate, ThreatHigh, ThreatCritical},
	}

	suggestCoordination = MitigationSuggestion{
		Title:     "International coordination",
		Window:    "months to years",
		Rationale: "Objects above the background threat level warrant notification of the IAWN and SMPAG planetary-defense bodies.",
		Actions: []string{
			"Notify the International Asteroid Warning Network",
			"Brief the Space Mission Planning Advisory Group",
			"Coordinate observation campaigns across agencies",
		},
		Levels: []ThreatLevel{ThreatModerate, ThreatHigh, ThreatCritical},
	}

	suggestCivilProtection = MitigationSuggestion{
		Title:     "Civil protection and emergency preparation",
		Window:    "days to weeks",
		Rationale: "A near or imminent approach leaves no time for deflection; preparation on the ground is the remaining lever.",
		Actions: []string{
			"Identify the uncertainty corridor and exposed regions",
			"Prepare evacuation and shelter guidance for civil authorities",
			"Pre-position emergency response assets",
		},
		Levels: []ThreatLevel{ThreatLow, ThreatModerate, ThreatHigh, ThreatCritical},
	}

	suggestKineticImpactor = MitigationSuggestion{
		Title:     "Kinetic impactor deflection",
		Window:    "years",
		Rationale: "Demonstrated by DART: a small momentum change applied years out compounds into a large miss distance.",
		Actions: []string{
			"Run deflection feasibility and delta-v studies",
			"Design an impactor mission for the available lead time",
			"Plan a follow-up flyby to verify the momentum transfer",
		},
		Levels: []ThreatLevel{ThreatModerate, ThreatHigh, ThreatCritical},
	}

	suggestGravityTractor = MitigationSuggestion{
		Title:     "Gravity tractor station-keeping",
		Window:    "decades",
		Rationale: "For large bodies with long lead times, a slow controllable pull avoids the fragmentation risk of an impulsive push.",
		Actions: []string{
			"Assess rendezvous trajectory options",
			"Size the spacecraft against the required velocity change",
			"Evaluate combined tractor-plus-impactor campaigns",
		},
		Levels: []ThreatLevel{ThreatModerate, ThreatHigh, ThreatCritical},
	}

	suggestNuclearStandoff = MitigationSuggestion{
		Title:     "Standoff nuclear deflection (last resort)",
		Window:    "months to years",
		Rationale: "For large objects on short notice no other technique delivers enough energy; a standoff burst limits fragmentation.",
		Actions: []string{
			"Model standoff detonation geometry and yield",
			"Engage national authorities on legal and treaty constraints",
			"Prepare contingency launch windows",
		},
		Levels: []ThreatLevel{ThreatHigh, ThreatCritical},
	}
)

// SuggestMitigations returns the applicable strategies for a summary and its
// threat level, in fixed priority order. The baseline monitoring suggestion
// is always present, so the list is never empty.
func SuggestMitigations(m MetricsSummary, level ThreatLevel) []MitigationSuggestion {
	diameter := 0.0
	if m.DiameterKm != nil {
		diameter = *m.DiameterKm
	}

	shortWindow := m.DaysToSoonestApproach != nil && *m.DaysToSoonestApproach <= 30
	nearMiss := m.MinMissKm != nil && *m.MinMissKm < 1_000_000

	out := []MitigationSuggestion{suggestMonitoring}

	if level >= ThreatModerate {
		out = append(out, suggestCoordination)
	}
	if shortWindow || nearMiss {
		out = append(out, suggestCivilProtection)
	}
	if diameter >= 0.05 && !shortWindow {
		out = append(out, suggestKineticImpactor)
	}
	if diameter >= 0.1 && m.DaysToSoonestApproach != nil && *m.DaysToSoonestApproach > 365 {
		out = append(out, suggestGravityTractor)
	}
	if level >= ThreatHigh && m.DaysToSoonestApproach != nil && *m.DaysToSoonestApproach <= 365 && diameter >= 0.15 {
		out = append(out, suggestNuclearStandoff)
	}

	return out
}
