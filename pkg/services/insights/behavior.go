package insights

import (
	"context"
	"sort"
	"strings"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
	"github.com/rs/zerolog"
)

type UserCount struct {
	User  string
	Count int
}

type HighUploadApp struct {
	Domain     string
	AppName    string
	UploadedMB float64
}

type BehaviorInsights struct {
	TopUsersByAppCount    []UserCount
	TopUsersByAccessCount []UserCount
	HighUploadApps        []HighUploadApp
}

// Behavior derives user-level insights from the raw network events,
// restricted to effectively shadow applications that have not been
// sanctioned or dismissed as false positives.
func Behavior(
	ctx context.Context,
	profiles []domain.AppProfile,
	events []domain.NetworkEvent,
	settings scoring.ScoringSettings,
) BehaviorInsights {
	var insights BehaviorInsights

	shadowDomains := make(map[string]struct{})
	var shadowApps []domain.AppProfile
	for _, profile := range profiles {
		if !settings.IsShadow(profile.Status) {
			continue
		}
		if profile.Resolution == domain.ResolutionSanctioned || profile.Resolution == domain.ResolutionFalsePositive {
			continue
		}
		shadowDomains[profile.Domain] = struct{}{}
		shadowApps = append(shadowApps, profile)
	}
	if len(shadowApps) == 0 {
		return insights
	}

	limit := settings.InsightsLimit
	if limit <= 0 {
		limit = 5
	}

	userDomains := make(map[string]map[string]struct{})
	userAccesses := make(map[string]int)
	for _, event := range events {
		key := strings.TrimSpace(event.Domain)
		if _, shadow := shadowDomains[key]; !shadow {
			continue
		}
		if userDomains[event.UserID] == nil {
			userDomains[event.UserID] = make(map[string]struct{})
		}
		userDomains[event.UserID][key] = struct{}{}
		userAccesses[event.UserID]++
	}

	byAppCount := make([]UserCount, 0, len(userDomains))
	for user, domains := range userDomains {
		byAppCount = append(byAppCount, UserCount{User: user, Count: len(domains)})
	}
	insights.TopUsersByAppCount = topUsers(byAppCount, limit)

	byAccessCount := make([]UserCount, 0, len(userAccesses))
	for user, count := range userAccesses {
		byAccessCount = append(byAccessCount, UserCount{User: user, Count: count})
	}
	insights.TopUsersByAccessCount = topUsers(byAccessCount, limit)

	for _, app := range shadowApps {
		if app.TotalUploadedMB > settings.UploadMediumMB {
			insights.HighUploadApps = append(insights.HighUploadApps, HighUploadApp{
				Domain:     app.Domain,
				AppName:    app.AppName,
				UploadedMB: app.TotalUploadedMB,
			})
		}
	}
	sort.Slice(insights.HighUploadApps, func(i, j int) bool {
		a, b := insights.HighUploadApps[i], insights.HighUploadApps[j]
		if a.UploadedMB != b.UploadedMB {
			return a.UploadedMB > b.UploadedMB
		}
		return a.Domain < b.Domain
	})
	if len(insights.HighUploadApps) > limit {
		insights.HighUploadApps = insights.HighUploadApps[:limit]
	}

	zerolog.Ctx(ctx).Debug().
		Int("shadow_apps", len(shadowApps)).
		Int("shadow_users", len(userAccesses)).
		Msg("behavior insights computed")
	return insights
}

// topUsers sorts by count descending with user ascending as the tie
// break, so the view is deterministic across passes.
func topUsers(counts []UserCount, limit int) []UserCount {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].User < counts[j].User
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
