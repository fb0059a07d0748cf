package scoring

import (
	"fmt"
	"slices"

	"github.com/spf13/viper"
)

// ScoringSettings contains every threshold and weight the risk rules
// use. Construct with DefaultScoringSettings and pass explicitly; there
// are no fallback lookups at the rule sites.
type ScoringSettings struct {
	// InherentRiskMultiplier scales the registry-supplied 0-10 baseline.
	InherentRiskMultiplier int `mapstructure:"inherent_risk_multiplier"`

	// Points awarded per rule.
	UserCountMediumPoints  int `mapstructure:"user_count_medium_points"`
	UserCountHighPoints    int `mapstructure:"user_count_high_points"`
	AccessCountHighPoints  int `mapstructure:"access_count_high_points"`
	UploadMediumPoints     int `mapstructure:"upload_medium_points"`
	UploadHighPoints       int `mapstructure:"upload_high_points"`
	MissingGDPRPenalty     int `mapstructure:"missing_gdpr_penalty"`
	KnownBreachPenalty     int `mapstructure:"known_breach_penalty"`
	UnapprovedSpendPenalty int `mapstructure:"unapproved_spend_penalty"`

	// Rule thresholds.
	UserCountMedium int     `mapstructure:"user_count_medium"`
	UserCountHigh   int     `mapstructure:"user_count_high"`
	AccessCountHigh int     `mapstructure:"access_count_high"`
	UploadMediumMB  float64 `mapstructure:"upload_medium_mb"`
	UploadHighMB    float64 `mapstructure:"upload_high_mb"`

	// Risk level cutoffs: score >= high -> High, >= medium -> Medium.
	RiskHighThreshold   int `mapstructure:"risk_high_threshold"`
	RiskMediumThreshold int `mapstructure:"risk_medium_threshold"`

	// Status classification.
	ShadowStatuses     []string `mapstructure:"shadow_statuses"`
	SanctionedStatuses []string `mapstructure:"sanctioned_statuses"`
	IrrelevantStatus   string   `mapstructure:"irrelevant_status"`

	// Read-side view knobs.
	InsightsLimit int `mapstructure:"insights_limit"`
	TrendDays     int `mapstructure:"trend_days"`
}

// DefaultScoringSettings returns the documented default weights.
func DefaultScoringSettings() ScoringSettings {
	return ScoringSettings{
		InherentRiskMultiplier: 5,
		UserCountMediumPoints:  10,
		UserCountHighPoints:    20,
		AccessCountHighPoints:  10,
		UploadMediumPoints:     15,
		UploadHighPoints:       30,
		MissingGDPRPenalty:     10,
		KnownBreachPenalty:     15,
		UnapprovedSpendPenalty: 25,
		UserCountMedium:        3,
		UserCountHigh:          10,
		AccessCountHigh:        50,
		UploadMediumMB:         100,
		UploadHighMB:           1000,
		RiskHighThreshold:      75,
		RiskMediumThreshold:    40,
		ShadowStatuses:         []string{"unknown", "unsanctioned"},
		SanctionedStatuses:     []string{"sanctioned", "conditionally_approved"},
		IrrelevantStatus:       "irrelevant",
		InsightsLimit:          5,
		TrendDays:              7,
	}
}

// LoadSettings reads overrides from the given settings file on top of
// the defaults.
func LoadSettings(path string) (ScoringSettings, error) {
	v := viper.New()
	v.SetConfigFile(path)

	settings := DefaultScoringSettings()
	if err := v.ReadInConfig(); err != nil {
		return settings, fmt.Errorf("failed to read scoring settings: %w", err)
	}
	if err := v.Unmarshal(&settings); err != nil {
		return settings, fmt.Errorf("failed to parse scoring settings: %w", err)
	}
	return settings, nil
}

// IsShadow reports whether status belongs to the shadow set.
func (s ScoringSettings) IsShadow(status string) bool {
	return slices.Contains(s.ShadowStatuses, status)
}

// IsSanctionedStatus reports whether status belongs to the sanctioned set.
func (s ScoringSettings) IsSanctionedStatus(status string) bool {
	return slices.Contains(s.SanctionedStatuses, status)
}
