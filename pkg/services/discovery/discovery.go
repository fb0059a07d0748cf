package discovery

import (
	"context"
	"sort"
	"strings"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	defaultInherentRisk = 10
	unknownName         = "Unknown"
	unknownStatus       = "unknown"
)

type aggregate struct {
	accessCount  int
	users        map[string]struct{}
	uploadedMB   float64
	downloadedMB float64
	firstSeen    *domain.NetworkEvent
	lastSeen     *domain.NetworkEvent
}

// Discover groups network events by destination domain into draft
// profiles carrying the traffic aggregates. Enrichment and scoring
// fields are initialized to their pre-registry defaults. Events with a
// blank domain are excluded entirely.
func Discover(ctx context.Context, events []domain.NetworkEvent) []domain.AppProfile {
	logger := zerolog.Ctx(ctx)

	groups := make(map[string]*aggregate)
	for i := range events {
		event := &events[i]
		key := strings.TrimSpace(event.Domain)
		if key == "" {
			continue
		}

		agg, ok := groups[key]
		if !ok {
			agg = &aggregate{users: make(map[string]struct{})}
			groups[key] = agg
		}
		agg.accessCount++
		agg.users[event.UserID] = struct{}{}
		agg.uploadedMB += event.UploadedMB
		agg.downloadedMB += event.DownloadedMB
		if event.Timestamp != nil {
			if agg.firstSeen == nil || event.Timestamp.Before(*agg.firstSeen.Timestamp) {
				agg.firstSeen = event
			}
			if agg.lastSeen == nil || event.Timestamp.After(*agg.lastSeen.Timestamp) {
				agg.lastSeen = event
			}
		}
	}

	profiles := make([]domain.AppProfile, 0, len(groups))
	for key, agg := range groups {
		users := make([]string, 0, len(agg.users))
		for user := range agg.users {
			users = append(users, user)
		}
		sort.Strings(users)

		profile := domain.AppProfile{
			Domain:            key,
			AppName:           unknownName,
			Category:          unknownName,
			AccessCount:       agg.accessCount,
			UniqueUsers:       users,
			TotalUploadedMB:   agg.uploadedMB,
			TotalDownloadedMB: agg.downloadedMB,
			Status:            unknownStatus,
			InherentRiskScore: defaultInherentRisk,
			RiskLevel:         domain.RiskLevelHigh,
		}
		if agg.firstSeen != nil {
			profile.FirstSeen = agg.firstSeen.Timestamp
			profile.LastSeen = agg.lastSeen.Timestamp
		}
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Domain < profiles[j].Domain })

	logger.Debug().Int("domains", len(profiles)).Msg("applications discovered")
	return profiles
}
