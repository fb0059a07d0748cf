package apps

import (
	"time"

	"github.com/de-tools/shadow-scope/pkg/models/api"
	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/insights"
)

func toAPIProfile(p domain.AppProfile) api.AppProfile {
	profile := api.AppProfile{
		Domain:            p.Domain,
		AppName:           p.AppName,
		Category:          p.Category,
		Status:            p.Status,
		InherentRiskScore: p.InherentRiskScore,
		ComplianceGDPR:    p.GDPR.Bool(),
		ComplianceHIPAA:   p.HIPAA.Bool(),
		KnownBreach:       p.KnownBreach.Bool(),
		AccessCount:       p.AccessCount,
		UniqueUsers:       p.UniqueUsers,
		TotalUploadedMB:   p.TotalUploadedMB,
		TotalDownloadedMB: p.TotalDownloadedMB,
		FirstSeen:         formatInstant(p.FirstSeen),
		LastSeen:          formatInstant(p.LastSeen),
		LinkedCount:       p.LinkedExpenseCount,
		LinkedTotal:       p.LinkedExpenseTotal,
		RiskScore:         p.RiskScore,
		RiskLevel:         string(p.RiskLevel),
		RiskFactors:       p.RiskFactors,
	}
	if profile.UniqueUsers == nil {
		profile.UniqueUsers = []string{}
	}
	if profile.RiskFactors == nil {
		profile.RiskFactors = []string{}
	}
	if p.Resolution.IsSet() {
		v := string(p.Resolution)
		profile.ResolutionStatus = &v
	}
	return profile
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format("2006-01-02T15:04:05")
	return &v
}

func toAPISummary(stats insights.SummaryStats) api.SummaryStats {
	return api.SummaryStats{
		HighRisk:       stats.HighRisk,
		MediumRisk:     stats.MediumRisk,
		LowRisk:        stats.LowRisk,
		IrrelevantOrFP: stats.IrrelevantOrFP,
		ShadowCount:    stats.ShadowCount,
		TotalDetected:  stats.TotalDetected,
		LinkedSpend:    stats.LinkedSpend,
	}
}

func toAPIBehavior(b insights.BehaviorInsights) api.BehaviorInsights {
	response := api.BehaviorInsights{
		TopUsersByAppCount:    []api.UserCount{},
		TopUsersByAccessCount: []api.UserCount{},
		HighUploadApps:        []api.HighUploadApp{},
	}
	for _, entry := range b.TopUsersByAppCount {
		response.TopUsersByAppCount = append(response.TopUsersByAppCount, api.UserCount(entry))
	}
	for _, entry := range b.TopUsersByAccessCount {
		response.TopUsersByAccessCount = append(response.TopUsersByAccessCount, api.UserCount(entry))
	}
	for _, app := range b.HighUploadApps {
		response.HighUploadApps = append(response.HighUploadApps, api.HighUploadApp(app))
	}
	return response
}
