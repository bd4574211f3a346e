package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	defaultVelocityKms    = 20.0
	defaultAngleDeg       = 45.0
	defaultTargetMaterial = "rock"
	defaultWaterDepthM    = 4000.0
	defaultCoastDepthM    = 10.0
	defaultDispersionKm   = 1000.0
	defaultRunupFactor    = 2.0
	defaultCouplingFactor = 1e-4

	surfaceGravity = 9.80665 // m/s²
	joulesPerKtTNT = 4.184e12
	joulesPerMtTNT = 4.184e15

	// Final crater diameters below this are simple bowls; above, complex
	// structures with terraces and central uplift.
	simpleCraterLimitKm = 3.2
)

// targetDensities maps target-material names to densities in kg/m³.
// Unknown materials fall back to rock.
var targetDensities = map[string]float64{
	"rock":        2700,
	"sedimentary": 2200,
	"crystalline": 2700,
	"water":       1000,
	"ice":         930,
}

// defaultWaveDistancesKm is the far-field distance list used when the caller
// supplies none.
var defaultWaveDistancesKm = []float64{50, 100, 200, 500}

// ImpactOverrides are per-call inputs that take precedence over resolved and
// recorded values. Nil means "resolve from lower-priority sources".
type ImpactOverrides struct {
	VelocityKms *float64
	AngleDeg    *float64
	Target      string
	DiameterKm  *float64
	DensityGcm3 *float64
	MassKg      *float64

	WaterDepthM        *float64
	CoastDepthM        *float64
	DistancesKm        []float64
	DispersionLengthKm *float64
	RunupFactor        *float64

	SeismicCoupling *float64
}

// ResolvedInputs records what the engine actually computed with, after the
// override > profile > record > default precedence was applied.
type ResolvedInputs struct {
	DiameterKm  *float64 `json:"diameter_km"`
	DensityGcm3 *float64 `json:"density_gcm3"`
	MassKg      *float64 `json:"mass_kg"`
	VelocityKms float64  `json:"velocity_kms"`
	AngleDeg    float64  `json:"angle_deg"`
	Target      string   `json:"target"`
}

// EnergyBlock holds kinetic energy and its conventional equivalents. Fields
// are nil when mass could not be resolved.
type EnergyBlock struct {
	KineticJ     *float64 `json:"kinetic_j"`
	TNTKilotons  *float64 `json:"tnt_kilotons"`
	TNTMegatons  *float64 `json:"tnt_megatons"`
	MomentumKgMS *float64 `json:"momentum_kg_m_s"`
}

// CraterBlock holds pi-scaling crater estimates. Fields are nil when the
// impactor diameter or density could not be resolved.
type CraterBlock struct {
	TransientKm *float64 `json:"transient_diameter_km"`
	FinalKm     *float64 `json:"final_diameter_km"`
	DepthKm     *float64 `json:"depth_km"`
	// Morphology is "simple" or "complex", empty when no crater was computed.
	Morphology           string   `json:"morphology,omitempty"`
	FinalToImpactorRatio *float64 `json:"final_to_impactor_ratio"`
}

// OceanWave is the wave estimate at one far-field distance.
type OceanWave struct {
	DistanceKm      float64 `json:"distance_km"`
	DeepAmplitudeM  float64 `json:"deep_amplitude_m"`
	CoastAmplitudeM float64 `json:"coast_amplitude_m"`
	RunupM          float64 `json:"runup_m"`
}

// OceanBlock holds the wave-propagation estimate. Present only for water/ice
// targets or when a water depth override was supplied.
type OceanBlock struct {
	InitialAmplitudeM  float64     `json:"initial_amplitude_m"`
	NearFieldRadiusM   float64     `json:"near_field_radius_m"`
	WaterDepthM        float64     `json:"water_depth_m"`
	CoastDepthM        float64     `json:"coast_depth_m"`
	DispersionLengthKm float64     `json:"dispersion_length_km"`
	RunupFactor        float64     `json:"runup_factor"`
	Waves              []OceanWave `json:"waves"`
}

// SeismicBlock holds the seismic-coupling estimate. MomentMagnitude is nil
// when kinetic energy is unavailable, zero, or negative.
type SeismicBlock struct {
	CouplingFactor  float64  `json:"coupling_factor"`
	SeismicEnergyJ  *float64 `json:"seismic_energy_j"`
	MomentMagnitude *float64 `json:"moment_magnitude"`
}

// ImpactScenario is the fully resolved impact picture. A pure function of its
// inputs; missing inputs surface as nil output fields, never as errors.
type ImpactScenario struct {
	Inputs  ResolvedInputs `json:"inputs"`
	Energy  EnergyBlock    `json:"energy"`
	Crater  CraterBlock    `json:"crater"`
	Ocean   *OceanBlock    `json:"ocean,omitempty"`
	Seismic SeismicBlock   `json:"seismic"`
	Notes   []string       `json:"notes"`
}

// ComputeImpact resolves the scenario inputs with the documented precedence
// and computes energy, crater, ocean, and seismic estimates. All scaling laws
// are first-order; the notes say so on every result.
func ComputeImpact(rec NeoRecord, profile *PhysicalProfile, ov ImpactOverrides, cfg ResolverConfig) ImpactScenario {
	inputs, notes := resolveImpactInputs(rec, profile, ov, cfg)

	scenario := ImpactScenario{Inputs: inputs}
	scenario.Energy = computeEnergy(inputs)
	scenario.Crater = computeCrater(inputs)

	if wantsOceanBlock(inputs.Target, ov) {
		scenario.Ocean = computeOcean(scenario.Crater, ov)
	}
	scenario.Seismic = computeSeismic(scenario.Energy, ov)

	notes = append(notes,
		"all values from first-order scaling relations; order-of-magnitude context, not predictions")
	scenario.Notes = notes
	return scenario
}

// resolveImpactInputs applies the precedence chain per input:
// override > physical profile > NEO record > configured default.
func resolveImpactInputs(rec NeoRecord, profile *PhysicalProfile, ov ImpactOverrides, cfg ResolverConfig) (ResolvedInputs, []string) {
	var notes []string

	inputs := ResolvedInputs{
		VelocityKms: defaultVelocityKms,
		AngleDeg:    defaultAngleDeg,
		Target:      defaultTargetMaterial,
	}

	switch {
	case ov.VelocityKms != nil:
		inputs.VelocityKms = *ov.VelocityKms
	default:
		if vel := ExtractMetrics(rec).MaxRelVelKms; vel > 0 {
			inputs.VelocityKms = vel
		} else {
			notes = append(notes, fmt.Sprintf("velocity defaulted to %g km/s", defaultVelocityKms))
		}
	}

	if ov.AngleDeg != nil {
		inputs.AngleDeg = *ov.AngleDeg
	}
	if target := strings.ToLower(strings.TrimSpace(ov.Target)); target != "" {
		inputs.Target = target
	}

	switch {
	case ov.DiameterKm != nil:
		inputs.DiameterKm = ov.DiameterKm
	case profile != nil && profile.DiameterKm != nil:
		inputs.DiameterKm = profile.DiameterKm
	default:
		if d := rec.AverageDiameterKm(); d != nil {
			inputs.DiameterKm = d
		} else if rec.AbsoluteMagnitudeH != nil {
			d := diameterFromMagnitude(*rec.AbsoluteMagnitudeH, cfg.DefaultAlbedo)
			inputs.DiameterKm = &d
			notes = append(notes, "diameter estimated from absolute magnitude")
		}
	}

	switch {
	case ov.DensityGcm3 != nil:
		inputs.DensityGcm3 = ov.DensityGcm3
	case profile != nil && profile.DensityGcm3 != nil:
		inputs.DensityGcm3 = profile.DensityGcm3
	default:
		density := cfg.DefaultDensityGcm3
		inputs.DensityGcm3 = &density
		notes = append(notes, fmt.Sprintf("density defaulted to %g g/cm³", density))
	}

	switch {
	case ov.MassKg != nil:
		inputs.MassKg = ov.MassKg
	case profile != nil && profile.MassKg != nil:
		inputs.MassKg = profile.MassKg
	default:
		if inputs.DiameterKm != nil && inputs.DensityGcm3 != nil {
			mass := sphereMassKg(*inputs.DiameterKm, *inputs.DensityGcm3)
			inputs.MassKg = &mass
			notes = append(notes, "mass from sphere volume at resolved density")
		}
	}

	return inputs, notes
}

func computeEnergy(inputs ResolvedInputs) EnergyBlock {
	if inputs.MassKg == nil {
		return EnergyBlock{}
	}

	velocityMS := inputs.VelocityKms * 1000
	kinetic := 0.5 * *inputs.MassKg * velocityMS * velocityMS
	kilotons := kinetic / joulesPerKtTNT
	megatons := kinetic / joulesPerMtTNT
	momentum := *inputs.MassKg * velocityMS

	return EnergyBlock{
		KineticJ:    &kinetic,
		TNTKilotons: &kilotons,
		TNTMegatons: &megatons,
		MomentumKgMS: &momentum,
	}
}

// computeCrater applies the pi-scaling law:
//
//	D_tc = 1.161 (ρi/ρt)^(1/3) L^0.78 v^0.44 g^-0.22 sin(θ)^(1/3)
//
// with L the impactor diameter in meters and v in m/s, yielding a transient
// diameter in meters.
func computeCrater(inputs ResolvedInputs) CraterBlock {
	if inputs.DiameterKm == nil || inputs.DensityGcm3 == nil {
		return CraterBlock{}
	}

	impactorM := *inputs.DiameterKm * 1000
	impactorDensity := *inputs.DensityGcm3 * 1000
	targetDensity := targetDensityKgM3(inputs.Target)
	velocityMS := inputs.VelocityKms * 1000
	angleRad := inputs.AngleDeg * math.Pi / 180

	transientM := 1.161 *
		math.Cbrt(impactorDensity/targetDensity) *
		math.Pow(impactorM, 0.78) *
		math.Pow(velocityMS, 0.44) *
		math.Pow(surfaceGravity, -0.22) *
		math.Cbrt(math.Sin(angleRad))

	transientKm := transientM / 1000
	finalKm := 1.25 * transientKm

	morphology := "simple"
	depthKm := 0.20 * finalKm
	if finalKm >= simpleCraterLimitKm {
		morphology = "complex"
		depthKm = 0.4 * math.Pow(finalKm, 0.3)
	}

	ratio := finalKm / *inputs.DiameterKm

	return CraterBlock{
		TransientKm:          &transientKm,
		FinalKm:              &finalKm,
		DepthKm:              &depthKm,
		Morphology:           morphology,
		FinalToImpactorRatio: &ratio,
	}
}

// wantsOceanBlock: the ocean estimate applies to water/ice targets, or to any
// target when the caller explicitly supplies a water depth.
func wantsOceanBlock(target string, ov ImpactOverrides) bool {
	return target == "water" || target == "ice" || ov.WaterDepthM != nil
}

// computeOcean estimates the initial cavity wave and its far-field decay with
// shoaling amplification at the coast. Returns nil when no crater was computed.
func computeOcean(crater CraterBlock, ov ImpactOverrides) *OceanBlock {
	if crater.TransientKm == nil {
		return nil
	}

	transientM := *crater.TransientKm * 1000
	block := &OceanBlock{
		InitialAmplitudeM:  0.10 * transientM,
		NearFieldRadiusM:   2.0 * (transientM / 2),
		WaterDepthM:        floatOrDefault(ov.WaterDepthM, defaultWaterDepthM),
		CoastDepthM:        floatOrDefault(ov.CoastDepthM, defaultCoastDepthM),
		DispersionLengthKm: floatOrDefault(ov.DispersionLengthKm, defaultDispersionKm),
		RunupFactor:        floatOrDefault(ov.RunupFactor, defaultRunupFactor),
	}

	distances := ov.DistancesKm
	if len(distances) == 0 {
		distances = defaultWaveDistancesKm
	}
	distances = append([]float64(nil), distances...)
	sort.Float64s(distances)

	shoaling := math.Pow(block.WaterDepthM/block.CoastDepthM, 0.25)
	for _, distanceKm := range distances {
		distanceM := distanceKm * 1000
		deep := block.InitialAmplitudeM *
			(block.NearFieldRadiusM / math.Max(distanceM, block.NearFieldRadiusM)) *
			math.Exp(-distanceKm/block.DispersionLengthKm)
		coast := deep * shoaling
		block.Waves = append(block.Waves, OceanWave{
			DistanceKm:      distanceKm,
			DeepAmplitudeM:  deep,
			CoastAmplitudeM: coast,
			RunupM:          block.RunupFactor * coast,
		})
	}

	return block
}

// computeSeismic couples a fraction of the kinetic energy into the ground and
// converts it to a moment magnitude: Mw = (log10(E_s) - 4.8) / 1.5.
func computeSeismic(energy EnergyBlock, ov ImpactOverrides) SeismicBlock {
	block := SeismicBlock{
		CouplingFactor: floatOrDefault(ov.SeismicCoupling, defaultCouplingFactor),
	}

	if energy.KineticJ == nil || *energy.KineticJ <= 0 {
		return block
	}

	seismicJ := block.CouplingFactor * *energy.KineticJ
	if seismicJ <= 0 {
		return block
	}
	magnitude := (math.Log10(seismicJ) - 4.8) / 1.5

	block.SeismicEnergyJ = &seismicJ
	block.MomentMagnitude = &magnitude
	return block
}

func targetDensityKgM3(target string) float64 {
	if density, ok := targetDensities[target]; ok {
		return density
	}
	return targetDensities[defaultTargetMaterial]
}

func floatOrDefault(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
