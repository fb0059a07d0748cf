package insights

import (
	"math/rand"
	"time"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
)

type TrendPoint struct {
	Day      string
	Accesses int
}

// UsageTrend generates a synthetic daily access series. There is no
// persisted history to derive a real trend from; the series is a
// placeholder seeded from the profile count so repeated calls over the
// same pass produce the same chart.
func UsageTrend(profiles []domain.AppProfile, settings scoring.ScoringSettings) []TrendPoint {
	days := settings.TrendDays
	if days <= 0 {
		days = 7
	}

	total := len(profiles)
	if total == 0 {
		total = 1
	}
	base := total * 5
	rng := rand.New(rand.NewSource(int64(total)))

	today := time.Now()
	points := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		accesses := base + rng.Intn(total+total/2+1) - total/2
		if accesses < 0 {
			accesses = 0
		}
		points = append(points, TrendPoint{Day: day, Accesses: accesses})
	}
	return points
}
