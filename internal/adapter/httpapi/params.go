package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/neowatch/neo-risk-service/internal/domain"
)

// corsMiddleware applies the configured origin allowlist. A "*" entry allows
// every origin.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case origin == "":
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseFilterBounds reads the filter query parameters into FilterBounds.
func parseFilterBounds(q url.Values) (domain.FilterBounds, error) {
	var bounds domain.FilterBounds
	var err error

	if v := q.Get("hazardous"); v != "" {
		b, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			return bounds, fmt.Errorf("invalid hazardous: %q", v)
		}
		bounds.Hazardous = &b
	}

	if bounds.MinDiameterKm, err = floatQuery(q, "min_diameter_km"); err != nil {
		return bounds, err
	}
	if bounds.MaxDiameterKm, err = floatQuery(q, "max_diameter_km"); err != nil {
		return bounds, err
	}
	if bounds.MinMissKm, err = floatQuery(q, "min_miss_km"); err != nil {
		return bounds, err
	}
	if bounds.MaxMissKm, err = floatQuery(q, "max_miss_km"); err != nil {
		return bounds, err
	}
	if bounds.MinVelocityKms, err = floatQuery(q, "min_velocity_kms"); err != nil {
		return bounds, err
	}
	if bounds.MaxVelocityKms, err = floatQuery(q, "max_velocity_kms"); err != nil {
		return bounds, err
	}
	if bounds.MinMagnitude, err = floatQuery(q, "min_magnitude"); err != nil {
		return bounds, err
	}
	if bounds.MaxMagnitude, err = floatQuery(q, "max_magnitude"); err != nil {
		return bounds, err
	}
	if bounds.MinDays, err = intPtrQuery(q, "min_days"); err != nil {
		return bounds, err
	}
	if bounds.MaxDays, err = intPtrQuery(q, "max_days"); err != nil {
		return bounds, err
	}
	if bounds.ApproachAfter, err = timeQuery(q, "approach_after"); err != nil {
		return bounds, err
	}
	if bounds.ApproachBefore, err = timeQuery(q, "approach_before"); err != nil {
		return bounds, err
	}
	bounds.OrbitingBody = q.Get("orbiting_body")

	return bounds, nil
}

// parseImpactOverrides reads the impact query parameters into ImpactOverrides.
func parseImpactOverrides(q url.Values) (domain.ImpactOverrides, error) {
	var ov domain.ImpactOverrides
	var err error

	if ov.VelocityKms, err = floatQuery(q, "velocity_kms"); err != nil {
		return ov, err
	}
	if ov.AngleDeg, err = floatQuery(q, "angle_deg"); err != nil {
		return ov, err
	}
	ov.Target = q.Get("target")
	if ov.DiameterKm, err = floatQuery(q, "diameter_km"); err != nil {
		return ov, err
	}
	if ov.DensityGcm3, err = floatQuery(q, "density_gcm3"); err != nil {
		return ov, err
	}
	if ov.MassKg, err = floatQuery(q, "mass_kg"); err != nil {
		return ov, err
	}
	if ov.WaterDepthM, err = floatQuery(q, "water_depth_m"); err != nil {
		return ov, err
	}
	if ov.CoastDepthM, err = floatQuery(q, "coast_depth_m"); err != nil {
		return ov, err
	}
	if ov.DispersionLengthKm, err = floatQuery(q, "dispersion_km"); err != nil {
		return ov, err
	}
	if ov.RunupFactor, err = floatQuery(q, "runup_factor"); err != nil {
		return ov, err
	}
	if ov.SeismicCoupling, err = floatQuery(q, "seismic_coupling"); err != nil {
		return ov, err
	}
	if ov.DistancesKm, err = distancesQuery(q, "distances_km"); err != nil {
		return ov, err
	}

	return ov, nil
}

func floatQuery(q url.Values, name string) (*float64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &f, nil
}

func intPtrQuery(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &n, nil
}

func intQuery(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func timeQuery(q url.Values, name string) (*time.Time, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	if ts, ok := domain.ParseTimestamp(v); ok {
		return &ts, nil
	}
	return nil, fmt.Errorf("invalid %s: %q", name, v)
}

// distancesQuery parses a comma-separated list of far-field distances in km.
func distancesQuery(q url.Values, name string) ([]float64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid %s entry: %q", name, part)
		}
		out = append(out, f)
	}
	return out, nil
}
