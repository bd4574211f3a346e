// Package domain models near-Earth-object (NEO) orbital data and implements
// the risk-assessment core: metrics extraction, threat classification,
// mitigation advice, physical-parameter resolution, and first-order impact
// physics.
//
// # Data Source
//
// NEO records originate from the NASA NeoWs (Near Earth Object Web Service)
// REST API at https://api.nasa.gov/neo/rest/v1. Records arrive as JSON with
// an estimated diameter range derived from absolute magnitude, a hazard flag,
// and a list of close-approach events. Field values are frequently strings
// even when numeric ("miss_distance": {"kilometers": "748120.98"}), so all
// numeric extraction goes through tolerant coercion that degrades to null
// instead of failing.
//
// # Secondary Catalogs
//
// Physical parameters (mass, bulk density, taxonomy) are not part of NeoWs
// data. They are resolved best-effort from secondary catalogs behind the
// [PhysicalCatalog] interface (SsODNet ssoCard and JPL SBDB adapters live
// under internal/adapter). Catalog failures are absorbed: a provider that is
// down contributes nothing and the resolver falls through to estimates.
//
// # Threat Classification
//
// Threat levels derive from a weighted score over diameter, minimum miss
// distance, and time to the soonest close approach:
//
//	Diameter:  ≥0.3 km → 3 | ≥0.05 km → 2 | else → 1
//	Distance:  <1,000,000 km → +1 | <5,000,000 km → +0.5
//	Timing:    ≤30 days → +1 | ≤365 days → +0.5
//	Score:     ≥4 critical | ≥3 high | ≥2 moderate | else low
//
// The distance and timing bonuses are each mutually exclusive within their
// axis and additive across axes.
//
// # Known Asymmetry
//
// When no close-approach event parses, MinMissKm is nil but MaxRelVelKms is
// 0.0. The asymmetry is a documented contract carried over from the original
// feed semantics; downstream consumers rely on the zero default for velocity
// and the null for distance. Do not "fix" one to match the other.
//
// # Impact Physics
//
// All impact-effect formulas (pi-scaling craters, tsunami shoaling, seismic
// coupling) are first-order approximations. Every [ImpactScenario] carries
// notes stating this; results are order-of-magnitude context, not predictions.
package domain
