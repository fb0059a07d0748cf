package insights

import (
	"sort"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
)

type CategorySpend struct {
	Category string
	Total    float64
}

// SpendByCategory sums linked spend per application category, excluding
// irrelevant and false-positive profiles. Only categories with positive
// spend are emitted, sorted by spend descending.
func SpendByCategory(profiles []domain.AppProfile, settings scoring.ScoringSettings) []CategorySpend {
	totals := make(map[string]float64)
	for _, profile := range profiles {
		if profile.Status == settings.IrrelevantStatus || profile.Resolution == domain.ResolutionFalsePositive {
			continue
		}
		if profile.LinkedExpenseTotal > 0 {
			totals[profile.Category] += profile.LinkedExpenseTotal
		}
	}

	spend := make([]CategorySpend, 0, len(totals))
	for category, total := range totals {
		spend = append(spend, CategorySpend{Category: category, Total: round2(total)})
	}
	sort.Slice(spend, func(i, j int) bool {
		if spend[i].Total != spend[j].Total {
			return spend[i].Total > spend[j].Total
		}
		return spend[i].Category < spend[j].Category
	})
	return spend
}
