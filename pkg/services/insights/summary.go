package insights

import (
	"math"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
)

// SummaryStats are the dashboard KPI counters over one processing pass.
type SummaryStats struct {
	HighRisk       int
	MediumRisk     int
	LowRisk        int
	IrrelevantOrFP int
	ShadowCount    int
	TotalDetected  int
	LinkedSpend    float64
}

// Summary buckets the scored profiles. Irrelevant and false-positive
// profiles are excluded from the relevant total and risk buckets;
// Error and Info levels stay out of the risk buckets entirely.
func Summary(profiles []domain.AppProfile, settings scoring.ScoringSettings) SummaryStats {
	var stats SummaryStats
	spend := 0.0

	for _, profile := range profiles {
		if profile.Status == settings.IrrelevantStatus || profile.Resolution == domain.ResolutionFalsePositive {
			stats.IrrelevantOrFP++
			continue
		}

		stats.TotalDetected++
		if settings.IsShadow(profile.Status) && profile.Resolution != domain.ResolutionSanctioned {
			stats.ShadowCount++
		}

		switch profile.RiskLevel {
		case domain.RiskLevelHigh:
			stats.HighRisk++
		case domain.RiskLevelMedium:
			stats.MediumRisk++
		case domain.RiskLevelLow:
			stats.LowRisk++
		}

		spend += profile.LinkedExpenseTotal
	}

	stats.LinkedSpend = round2(spend)
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
