package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyThreat(t *testing.T) {
	tests := []struct {
		name     string
		summary  MetricsSummary
		expected ThreatLevel
	}{
		{
			"large near soon is critical",
			MetricsSummary{DiameterKm: fp(0.35), MinMissKm: fp(500_000), DaysToSoonestApproach: ip(10)},
			ThreatCritical, // 3 + 1 + 1 = 5
		},
		{
			"small far late is low",
			MetricsSummary{DiameterKm: fp(0.02), MinMissKm: fp(8_000_000), DaysToSoonestApproach: ip(400)},
			ThreatLow, // 1 + 0 + 0 = 1
		},
		{
			"all-null summary is low",
			MetricsSummary{},
			ThreatLow,
		},
		{
			"mid-size alone is moderate",
			MetricsSummary{DiameterKm: fp(0.05)},
			ThreatModerate, // base 2
		},
		{
			"half bonuses stack to high",
			MetricsSummary{DiameterKm: fp(0.1), MinMissKm: fp(3_000_000), DaysToSoonestApproach: ip(100)},
			ThreatHigh, // 2 + 0.5 + 0.5 = 3
		},
		{
			"near miss alone is moderate",
			MetricsSummary{MinMissKm: fp(900_000)},
			ThreatModerate, // 1 + 1 = 2
		},
		{
			"large alone is high",
			MetricsSummary{DiameterKm: fp(0.3)},
			ThreatHigh, // base 3
		},
		{
			"past approach counts as soon",
			MetricsSummary{DiameterKm: fp(0.3), DaysToSoonestApproach: ip(-5)},
			ThreatCritical, // 3 + 1 = 4
		},
		{
			"distance tiers are exclusive",
			MetricsSummary{DiameterKm: fp(0.3), MinMissKm: fp(999_999.9)},
			ThreatCritical, // 3 + 1, never 3 + 1 + 0.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyThreat(tt.summary))
		})
	}
}

// Classification must not decrease with diameter, and must not increase with
// miss distance or days to approach, holding other inputs fixed.
func TestClassifyThreat_Monotonic(t *testing.T) {
	base := MetricsSummary{MinMissKm: fp(2_000_000), DaysToSoonestApproach: ip(60)}

	t.Run("diameter", func(t *testing.T) {
		prev := ThreatLow
		for _, d := range []float64{0.0, 0.04, 0.05, 0.2, 0.3, 1.0} {
			m := base
			m.DiameterKm = fp(d)
			level := ClassifyThreat(m)
			assert.GreaterOrEqual(t, level, prev, "diameter %v", d)
			prev = level
		}
	})

	t.Run("miss distance", func(t *testing.T) {
		prev := ThreatCritical
		for _, miss := range []float64{100, 900_000, 1_000_000, 4_000_000, 5_000_000, 50_000_000} {
			m := base
			m.DiameterKm = fp(0.2)
			m.MinMissKm = fp(miss)
			level := ClassifyThreat(m)
			assert.LessOrEqual(t, level, prev, "miss %v", miss)
			prev = level
		}
	})

	t.Run("days to approach", func(t *testing.T) {
		prev := ThreatCritical
		for _, days := range []int{-10, 0, 30, 31, 365, 366, 10_000} {
			m := base
			m.DiameterKm = fp(0.2)
			m.DaysToSoonestApproach = ip(days)
			level := ClassifyThreat(m)
			assert.LessOrEqual(t, level, prev, "days %v", days)
			prev = level
		}
	})
}

func TestThreatLevelString(t *testing.T) {
	assert.Equal(t, "low", ThreatLow.String())
	assert.Equal(t, "moderate", ThreatModerate.String())
	assert.Equal(t, "high", ThreatHigh.String())
	assert.Equal(t, "critical", ThreatCritical.String())
}

func TestThreatLevelMarshalJSON(t *testing.T) {
	data, err := ThreatHigh.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"high"`, string(data))
}
