package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/resolution"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
	"github.com/de-tools/shadow-scope/pkg/services/snapshot"
	"github.com/de-tools/shadow-scope/pkg/store/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	networkCSV = `destination_domain,user_id,timestamp,data_uploaded_mb,data_downloaded_mb
slack.com,alice,2024-03-01 10:00:00,600,30
slack.com,bob,2024-03-01 11:00:00,650,10
unknown.app,carol,2024-03-02 09:00:00,5,1
`
	expensesCSV = `vendor_name,amount,date
Slack Technologies,1200.50,2024-03-01
`
	knownAppsCSV = `domain,app_name,category,status,inherent_risk_score,compliance_gdpr,compliance_hipaa,known_breach,expense_keywords,resolution_status
slack.com,Slack,Collaboration,unsanctioned,8,false,,true,slack,
`
)

func newTestService(t *testing.T) (Service, *snapshot.Cache, sources.Settings) {
	t.Helper()
	dir := t.TempDir()

	settings := sources.Settings{
		NetworkLogPath: filepath.Join(dir, "network_log.csv"),
		ExpensesPath:   filepath.Join(dir, "expenses.csv"),
		KnownAppsPath:  filepath.Join(dir, "known_apps.csv"),
	}
	require.NoError(t, os.WriteFile(settings.NetworkLogPath, []byte(networkCSV), 0o644))
	require.NoError(t, os.WriteFile(settings.ExpensesPath, []byte(expensesCSV), 0o644))
	require.NoError(t, os.WriteFile(settings.KnownAppsPath, []byte(knownAppsCSV), 0o644))

	store := sources.NewStore(settings)
	cache := snapshot.NewCache(store, time.Minute)
	workflow := resolution.NewWorkflow(store, cache)
	return NewService(cache, workflow, scoring.DefaultScoringSettings()), cache, settings
}

func profileByDomain(t *testing.T, profiles []domain.AppProfile, appDomain string) domain.AppProfile {
	t.Helper()
	for _, profile := range profiles {
		if profile.Domain == appDomain {
			return profile
		}
	}
	t.Fatalf("no profile for %s", appDomain)
	return domain.AppProfile{}
}

func TestService_Processed(t *testing.T) {
	svc, _, _ := newTestService(t)
	profiles := svc.Processed(context.Background())
	require.Len(t, profiles, 2)

	slack := profileByDomain(t, profiles, "slack.com")
	assert.Equal(t, "Slack", slack.AppName)
	assert.Equal(t, []string{"alice", "bob"}, slack.UniqueUsers)
	// 8*5 inherent + 30 upload + 10 GDPR + 15 breach + 25 spend.
	assert.Equal(t, 120, slack.RiskScore)
	assert.Equal(t, domain.RiskLevelHigh, slack.RiskLevel)
	assert.Equal(t, 1, slack.LinkedExpenseCount)
	assert.Equal(t, 1200.50, slack.LinkedExpenseTotal)

	unknown := profileByDomain(t, profiles, "unknown.app")
	assert.Equal(t, "Unknown", unknown.AppName)
	assert.Equal(t, domain.RiskLevelMedium, unknown.RiskLevel)
	assert.Contains(t, unknown.RiskFactors, "Application domain not found in known database")
}

func TestService_ResolveIsVisibleOnTheNextPass(t *testing.T) {
	ctx := context.Background()
	svc, cache, _ := newTestService(t)

	before := svc.Processed(ctx)
	require.Equal(t, domain.ResolutionNone, profileByDomain(t, before, "slack.com").Resolution)
	require.Equal(t, 1, cache.Reloads())

	require.NoError(t, svc.Resolve(ctx, "slack.com", domain.ResolutionSanctioned))

	after := svc.Processed(ctx)
	slack := profileByDomain(t, after, "slack.com")
	assert.Equal(t, domain.ResolutionSanctioned, slack.Resolution)
	assert.Equal(t, "sanctioned", slack.Status)
	assert.Equal(t, domain.RiskLevelLow, slack.RiskLevel)
	assert.Contains(t, slack.RiskFactors, "Manually sanctioned by Admin.")
	// The resolve invalidated the snapshot, so this pass reloaded.
	assert.Equal(t, 2, cache.Reloads())
}

func TestService_Resolve_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	assert.ErrorIs(t, svc.Resolve(ctx, "slack.com", "nope"), resolution.ErrInvalidStatus)
	assert.ErrorIs(t, svc.Resolve(ctx, "missing.example", domain.ResolutionBlocked), sources.ErrNotFound)
}

func TestService_SourceFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _, settings := newTestService(t)
	require.NoError(t, os.Remove(settings.NetworkLogPath))

	assert.Nil(t, svc.Processed(ctx))
	assert.Nil(t, svc.Events(ctx))
}

func TestService_Events(t *testing.T) {
	svc, _, _ := newTestService(t)
	events := svc.Events(context.Background())
	require.Len(t, events, 3)
	assert.Equal(t, "slack.com", events[0].Domain)
	assert.Equal(t, "alice", events[0].UserID)
}
