package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
)

// gravitationalConstantKm is G in km³·kg⁻¹·s⁻², compatible with catalog GM
// values quoted in km³/s².
const gravitationalConstantKm = 6.6743e-20

// SourceEstimate tags profiles whose every field came from local estimation
// rather than an external catalog.
const SourceEstimate = "estimate"

// taxonomyDensities maps single-letter spectral classes to typical bulk
// densities in g/cm³ (Carry 2012 compilation, rounded). Multi-letter classes
// ("Sq", "Xc") are keyed by their leading letter.
var taxonomyDensities = map[byte]float64{
	'A': 3.73,
	'B': 2.38,
	'C': 1.33,
	'D': 1.65,
	'E': 2.67,
	'K': 3.54,
	'L': 3.22,
	'M': 5.32,
	'P': 1.46,
	'Q': 2.96,
	'S': 2.72,
	'T': 1.42,
	'V': 1.97,
	'X': 1.85,
}

// designationRe splits "433 Eros (A898 PA)" style labels into a name part and
// a parenthesized designation part.
var designationRe = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`)

// PhysicalData is the partial result one catalog can contribute. All fields
// are optional; a zero value means the catalog had nothing for this object.
type PhysicalData struct {
	MassKg      *float64
	GMKm3S2     *float64 // gravitational parameter, used when mass is absent
	DensityGcm3 *float64
	DiameterKm  *float64
	Taxonomy    string
	Bibref      string
}

// Empty reports whether the catalog contributed nothing.
func (d PhysicalData) Empty() bool {
	return d.MassKg == nil && d.GMKm3S2 == nil && d.DensityGcm3 == nil &&
		d.DiameterKm == nil && d.Taxonomy == "" && d.Bibref == ""
}

// PhysicalCatalog is an unreliable external provider of physical parameters.
// Lookup returns a zero PhysicalData (not an error) when the object is simply
// unknown; errors mean the provider itself failed and are absorbed by the
// resolver.
type PhysicalCatalog interface {
	Source() string
	Lookup(ctx context.Context, label string) (PhysicalData, error)
}

// PhysicalProfile is the best-effort resolved physical picture of an object,
// with provenance. Mutable during resolution, frozen afterwards.
type PhysicalProfile struct {
	MassKg      *float64 `json:"mass_kg"`
	DensityGcm3 *float64 `json:"density_gcm3"`
	DiameterKm  *float64 `json:"diameter_km"`
	Taxonomy    string   `json:"taxonomy,omitempty"`
	Bibref      string   `json:"bibref,omitempty"`

	// Source is the first external catalog that contributed data, or
	// SourceEstimate when everything came from local fallbacks.
	Source string `json:"source,omitempty"`
	Note   string `json:"note,omitempty"`
}

// ResolverConfig carries the estimation defaults used when catalogs come up empty.
type ResolverConfig struct {
	DefaultAlbedo      float64
	DefaultDensityGcm3 float64
}

// ResolvePhysicalProfile runs the fallback chain: catalogs in priority order,
// then record-derived diameter, then a magnitude-based diameter estimate, a
// taxonomy-based density, and finally a sphere-volume mass. First write wins
// per field; a catalog that answers later never overrides an earlier one.
// Catalog failures degrade to "no data from this provider" — the function
// itself never fails.
func ResolvePhysicalProfile(ctx context.Context, label string, rec NeoRecord, catalogs []PhysicalCatalog, cfg ResolverConfig, logger *slog.Logger) PhysicalProfile {
	var profile PhysicalProfile
	var notes []string

	for _, catalog := range catalogs {
		if profile.MassKg != nil && profile.DensityGcm3 != nil && profile.DiameterKm != nil {
			break
		}
		data, ok := lookupWithVariants(ctx, catalog, label, logger)
		if !ok {
			continue
		}
		if applyCatalogData(&profile, data) && profile.Source == "" {
			profile.Source = catalog.Source()
			notes = append(notes, fmt.Sprintf("physical parameters from %s", catalog.Source()))
		}
	}

	if profile.DiameterKm == nil {
		if d := rec.AverageDiameterKm(); d != nil {
			profile.DiameterKm = d
			notes = append(notes, "diameter averaged from the feed's estimated range")
		}
	}
	if profile.DiameterKm == nil && rec.AbsoluteMagnitudeH != nil {
		d := diameterFromMagnitude(*rec.AbsoluteMagnitudeH, cfg.DefaultAlbedo)
		profile.DiameterKm = &d
		notes = append(notes, fmt.Sprintf("diameter estimated from H=%.2f at albedo %.2f", *rec.AbsoluteMagnitudeH, cfg.DefaultAlbedo))
	}

	if profile.DensityGcm3 == nil {
		density, note := densityFromTaxonomy(profile.Taxonomy, cfg.DefaultDensityGcm3)
		profile.DensityGcm3 = &density
		notes = append(notes, note)
	}

	if profile.MassKg == nil && profile.DiameterKm != nil && profile.DensityGcm3 != nil {
		mass := sphereMassKg(*profile.DiameterKm, *profile.DensityGcm3)
		profile.MassKg = &mass
		notes = append(notes, "mass from sphere volume at resolved density")
	}

	if profile.Source == "" {
		profile.Source = SourceEstimate
	}
	profile.Note = strings.Join(notes, "; ")
	return profile
}

// lookupWithVariants tries the label and its stripped alternate forms against
// one catalog, returning the first non-empty answer. A best-effort retry: the
// variant order is not load-bearing.
func lookupWithVariants(ctx context.Context, catalog PhysicalCatalog, label string, logger *slog.Logger) (PhysicalData, bool) {
	for _, variant := range labelVariants(label) {
		data, err := catalog.Lookup(ctx, variant)
		if err != nil {
			logger.Warn("physical catalog lookup failed",
				"source", catalog.Source(),
				"label", variant,
				"error", err,
			)
			continue
		}
		if !data.Empty() {
			return data, true
		}
	}
	return PhysicalData{}, false
}

// labelVariants returns the label plus stripped alternate forms: the name
// without a parenthesized designation, and the bare designation itself.
func labelVariants(label string) []string {
	label = strings.TrimSpace(label)
	variants := []string{label}
	matches := designationRe.FindStringSubmatch(label)
	if matches == nil {
		return variants
	}
	if name := strings.TrimSpace(matches[1]); name != "" {
		variants = append(variants, name)
	}
	if des := strings.TrimSpace(matches[2]); des != "" {
		variants = append(variants, des)
	}
	return variants
}

// applyCatalogData fills only the profile's nil fields from catalog data and
// reports whether anything was written. Mass prefers a direct value and falls
// back to deriving from the gravitational parameter via mass = GM/G.
func applyCatalogData(profile *PhysicalProfile, data PhysicalData) bool {
	wrote := false

	if profile.MassKg == nil {
		switch {
		case data.MassKg != nil:
			v := *data.MassKg
			profile.MassKg = &v
			wrote = true
		case data.GMKm3S2 != nil:
			mass := *data.GMKm3S2 / gravitationalConstantKm
			profile.MassKg = &mass
			wrote = true
		}
	}
	if profile.DensityGcm3 == nil && data.DensityGcm3 != nil {
		v := *data.DensityGcm3
		profile.DensityGcm3 = &v
		wrote = true
	}
	if profile.DiameterKm == nil && data.DiameterKm != nil {
		v := *data.DiameterKm
		profile.DiameterKm = &v
		wrote = true
	}
	if profile.Taxonomy == "" && data.Taxonomy != "" {
		profile.Taxonomy = data.Taxonomy
		wrote = true
	}
	if profile.Bibref == "" && data.Bibref != "" {
		profile.Bibref = data.Bibref
		wrote = true
	}

	return wrote
}

// diameterFromMagnitude is the standard H-to-diameter relation:
// D(km) = 1329/sqrt(albedo) * 10^(-H/5).
func diameterFromMagnitude(h, albedo float64) float64 {
	if albedo <= 0 {
		albedo = 0.14
	}
	return 1329 / math.Sqrt(albedo) * math.Pow(10, -h/5)
}

// densityFromTaxonomy looks the class's leading letter up in the typical
// density table, falling back to the configured default.
func densityFromTaxonomy(taxonomy string, defaultDensity float64) (float64, string) {
	taxonomy = strings.TrimSpace(taxonomy)
	if taxonomy != "" {
		if density, ok := taxonomyDensities[strings.ToUpper(taxonomy)[0]]; ok {
			return density, fmt.Sprintf("density typical of class %s", taxonomy)
		}
	}
	return defaultDensity, fmt.Sprintf("density defaulted to %.2f g/cm³", defaultDensity)
}

// sphereMassKg computes mass from a sphere of the given diameter and density.
func sphereMassKg(diameterKm, densityGcm3 float64) float64 {
	radiusM := diameterKm * 1000 / 2
	densityKgM3 := densityGcm3 * 1000
	return densityKgM3 * (4.0 / 3.0) * math.Pi * math.Pow(radiusM, 3)
}
