package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

const conditionallyApproved = "conditionally_approved"

// Score enriches the draft profiles against the known-apps registry and
// applies the ordered risk rules. A failure scoring one profile marks
// that profile with the error sentinel and never aborts the batch.
func Score(
	ctx context.Context,
	drafts []domain.AppProfile,
	knownApps map[string]domain.KnownAppRecord,
	expenses []domain.ExpenseRecord,
	settings ScoringSettings,
) []domain.AppProfile {
	profiles := make([]domain.AppProfile, 0, len(drafts))
	for _, draft := range drafts {
		profiles = append(profiles, scoreProfile(ctx, draft, knownApps, expenses, settings))
	}
	return profiles
}

func scoreProfile(
	ctx context.Context,
	draft domain.AppProfile,
	knownApps map[string]domain.KnownAppRecord,
	expenses []domain.ExpenseRecord,
	settings ScoringSettings,
) (profile domain.AppProfile) {
	profile = draft
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("domain", draft.Domain).
				Any("panic", r).
				Msg("risk calculation failed")
			profile.RiskScore = -1
			profile.RiskLevel = domain.RiskLevelError
			profile.RiskFactors = []string{fmt.Sprintf("Error during risk calculation: %v", r)}
		}
	}()

	score := 0
	var factors []string

	// Enrich from the registry.
	if rec, found := knownApps[profile.Domain]; found {
		if rec.AppName != "" {
			profile.AppName = rec.AppName
		}
		if rec.Category != "" {
			profile.Category = rec.Category
		}
		if rec.Status != "" {
			profile.Status = rec.Status
		}
		profile.InherentRiskScore = rec.InherentRiskScore
		profile.GDPR = rec.GDPR
		profile.HIPAA = rec.HIPAA
		profile.KnownBreach = rec.KnownBreach
		profile.ExpenseKeywords = rec.ExpenseKeywords
		profile.Resolution = rec.Resolution
	} else {
		profile.Status = "unknown"
		profile.InherentRiskScore = 10
		profile.Resolution = domain.ResolutionNone
		factors = append(factors, "Application domain not found in known database")
	}

	// Administrator resolutions short-circuit ordinary scoring.
	resolution := profile.Resolution
	if resolution == domain.ResolutionFalsePositive {
		profile.Status = settings.IrrelevantStatus
		profile.RiskScore = 0
		profile.RiskLevel = domain.RiskLevelInfo
		profile.RiskFactors = []string{"Marked as False Positive by Admin."}
		return profile
	}
	if resolution == domain.ResolutionSanctioned {
		profile.Status = "sanctioned"
		factors = append(factors, "Manually sanctioned by Admin.")
	}

	if profile.Status == settings.IrrelevantStatus {
		profile.RiskScore = 1
		profile.RiskLevel = domain.RiskLevelInfo
		profile.RiskFactors = []string{"Marked as irrelevant traffic (e.g., blog, news)."}
		return profile
	}

	// Inherent risk.
	base := profile.InherentRiskScore * settings.InherentRiskMultiplier
	score += base
	factors = append(factors, fmt.Sprintf("Inherent risk score: %d/10 (%d pts)", profile.InherentRiskScore, base))

	// User count tiers are mutually exclusive; the highest tier wins.
	userCount := len(profile.UniqueUsers)
	if userCount > settings.UserCountHigh {
		score += settings.UserCountHighPoints
		factors = append(factors, fmt.Sprintf("High user count (%d) (+%d pts)", userCount, settings.UserCountHighPoints))
	} else if userCount > settings.UserCountMedium {
		score += settings.UserCountMediumPoints
		factors = append(factors, fmt.Sprintf("Moderate user count (%d) (+%d pts)", userCount, settings.UserCountMediumPoints))
	}

	if profile.AccessCount > settings.AccessCountHigh {
		score += settings.AccessCountHighPoints
		factors = append(factors, fmt.Sprintf("High access count (%d) (+%d pts)", profile.AccessCount, settings.AccessCountHighPoints))
	}

	if profile.TotalUploadedMB > settings.UploadHighMB {
		score += settings.UploadHighPoints
		factors = append(factors, fmt.Sprintf("Very High data upload (%.1f MB) (+%d pts)", profile.TotalUploadedMB, settings.UploadHighPoints))
	} else if profile.TotalUploadedMB > settings.UploadMediumMB {
		score += settings.UploadMediumPoints
		factors = append(factors, fmt.Sprintf("High data upload (%.1f MB) (+%d pts)", profile.TotalUploadedMB, settings.UploadMediumPoints))
	}

	// Compliance and breach penalties apply only to effectively shadow
	// usage: shadow status, or conditional approval without a sanction.
	effectivelyShadow := settings.IsShadow(profile.Status) ||
		(profile.Status == conditionallyApproved && resolution != domain.ResolutionSanctioned)
	if effectivelyShadow {
		if profile.GDPR.IsFalse() {
			score += settings.MissingGDPRPenalty
			factors = append(factors, fmt.Sprintf("Lacks GDPR compliance (+%d pts)", settings.MissingGDPRPenalty))
		}
		if profile.KnownBreach.IsTrue() {
			score += settings.KnownBreachPenalty
			factors = append(factors, fmt.Sprintf("Vendor has known historical breaches (+%d pts)", settings.KnownBreachPenalty))
		}
	}

	linkedCount, linkedTotal := linkExpenses(ctx, profile.ExpenseKeywords, expenses)
	profile.LinkedExpenseCount = linkedCount
	profile.LinkedExpenseTotal = linkedTotal
	if linkedTotal > 0 && settings.IsShadow(profile.Status) && resolution != domain.ResolutionSanctioned {
		score += settings.UnapprovedSpendPenalty
		factors = append(factors, fmt.Sprintf("Detected Shadow IT spend: $%.2f (+%d pts)", linkedTotal, settings.UnapprovedSpendPenalty))
	}

	// Finalize score and level.
	if score < 0 {
		score = 0
	}
	profile.RiskScore = score

	level := domain.RiskLevelLow
	switch {
	case settings.IsSanctionedStatus(profile.Status) && resolution == domain.ResolutionSanctioned:
		level = domain.RiskLevelLow
	case score >= settings.RiskHighThreshold:
		level = domain.RiskLevelHigh
	case score >= settings.RiskMediumThreshold:
		level = domain.RiskLevelMedium
	}

	if profile.Status == "unknown" && level != domain.RiskLevelHigh && resolution != domain.ResolutionFalsePositive {
		level = domain.RiskLevelMedium
		if !containsBoostFactor(factors) {
			factors = append(factors, "Risk boosted: Application status is Unknown.")
		}
	}

	profile.RiskLevel = level
	profile.RiskFactors = factors
	return profile
}

func containsBoostFactor(factors []string) bool {
	for _, factor := range factors {
		if strings.Contains(factor, "Risk boosted") {
			return true
		}
	}
	return false
}
