package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	networkCSV = `destination_domain,user_id,timestamp,data_uploaded_mb,data_downloaded_mb
slack.com,alice,2024-03-01 10:00:00,120.5,30
slack.com,bob,2024-03-02T11:30:00,80,10.5
dropbox.com,alice,not-a-date,garbage,5
`
	expensesCSV = `vendor_name,amount,date
Slack Technologies,1200.50,2024-03-01
Dropbox Inc,300,
`
	knownAppsCSV = `domain,app_name,category,status,inherent_risk_score,compliance_gdpr,compliance_hipaa,known_breach,expense_keywords,resolution_status
slack.com,Slack,Collaboration,unsanctioned,8,TRUE,0,false,"slack, slack technologies",
slack.com,Slack Duplicate,Collaboration,sanctioned,1,,,,,
dropbox.com,Dropbox,Storage,unsanctioned,not-a-number,maybe,1,true,dropbox,Investigating
`
)

func writeSources(t *testing.T, network, expenses, knownApps string) Settings {
	t.Helper()
	dir := t.TempDir()

	settings := Settings{
		NetworkLogPath: filepath.Join(dir, "network_log.csv"),
		ExpensesPath:   filepath.Join(dir, "expenses.csv"),
		KnownAppsPath:  filepath.Join(dir, "known_apps.csv"),
	}
	require.NoError(t, os.WriteFile(settings.NetworkLogPath, []byte(network), 0o644))
	require.NoError(t, os.WriteFile(settings.ExpensesPath, []byte(expenses), 0o644))
	require.NoError(t, os.WriteFile(settings.KnownAppsPath, []byte(knownApps), 0o644))
	return settings
}

func TestStore_Load(t *testing.T) {
	settings := writeSources(t, networkCSV, expensesCSV, knownAppsCSV)
	store := NewStore(settings)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)

	t.Run("network events", func(t *testing.T) {
		require.Len(t, snap.Network, 3)

		first := snap.Network[0]
		assert.Equal(t, "slack.com", first.Domain)
		assert.Equal(t, "alice", first.UserID)
		require.NotNil(t, first.Timestamp)
		assert.Equal(t, 10, first.Timestamp.Hour())
		assert.Equal(t, 120.5, first.UploadedMB)

		// Unparseable cells degrade, they never fail the load.
		third := snap.Network[2]
		assert.Nil(t, third.Timestamp)
		assert.Equal(t, 0.0, third.UploadedMB)
		assert.Equal(t, 5.0, third.DownloadedMB)
	})

	t.Run("expenses", func(t *testing.T) {
		require.Len(t, snap.Expenses, 2)
		assert.Equal(t, "Slack Technologies", snap.Expenses[0].Vendor)
		assert.Equal(t, 1200.50, snap.Expenses[0].Amount)
		require.NotNil(t, snap.Expenses[0].Date)
		assert.Nil(t, snap.Expenses[1].Date)
	})

	t.Run("known apps normalization", func(t *testing.T) {
		require.Len(t, snap.KnownApps, 2)

		slack := snap.KnownApps["slack.com"]
		// Duplicate domain keeps the first occurrence.
		assert.Equal(t, "Slack", slack.AppName)
		assert.Equal(t, 8, slack.InherentRiskScore)
		assert.Equal(t, domain.TriTrue, slack.GDPR)
		assert.Equal(t, domain.TriFalse, slack.HIPAA)
		assert.Equal(t, domain.TriFalse, slack.KnownBreach)
		assert.Equal(t, []string{"slack", "slack technologies"}, slack.ExpenseKeywords)
		assert.Equal(t, domain.ResolutionNone, slack.Resolution)

		dropbox := snap.KnownApps["dropbox.com"]
		// Invalid score falls back to the default, unknown booleans to absent.
		assert.Equal(t, 10, dropbox.InherentRiskScore)
		assert.Equal(t, domain.TriAbsent, dropbox.GDPR)
		assert.Equal(t, domain.TriTrue, dropbox.HIPAA)
		assert.Equal(t, domain.ResolutionInvestigating, dropbox.Resolution)
	})
}

func TestStore_Load_SourceUnavailable(t *testing.T) {
	settings := writeSources(t, networkCSV, expensesCSV, knownAppsCSV)
	require.NoError(t, os.Remove(settings.NetworkLogPath))

	_, err := NewStore(settings).Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestStore_Load_SchemaMismatch(t *testing.T) {
	t.Run("network log missing columns", func(t *testing.T) {
		settings := writeSources(t, "destination_domain,user_id\nslack.com,alice\n", expensesCSV, knownAppsCSV)
		_, err := NewStore(settings).Load(context.Background())
		require.ErrorIs(t, err, ErrSchemaMismatch)
		assert.Contains(t, err.Error(), "timestamp")
	})

	t.Run("known apps missing domain column", func(t *testing.T) {
		settings := writeSources(t, networkCSV, expensesCSV, "app_name,status\nSlack,sanctioned\n")
		_, err := NewStore(settings).Load(context.Background())
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})
}

func TestParseInstant_DropsZoneKeepingWallClock(t *testing.T) {
	parsed := parseInstant("2024-03-01T10:00:00+05:00")
	require.NotNil(t, parsed)
	assert.Equal(t, 10, parsed.Hour())
	assert.Equal(t, time.Local, parsed.Location())
}

func TestStore_UpdateResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the new status and preserves other columns", func(t *testing.T) {
		settings := writeSources(t, networkCSV, expensesCSV, knownAppsCSV)
		store := NewStore(settings)

		require.NoError(t, store.UpdateResolution(ctx, "slack.com", domain.ResolutionBlocked))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		slack := snap.KnownApps["slack.com"]
		assert.Equal(t, domain.ResolutionBlocked, slack.Resolution)
		assert.Equal(t, "Slack", slack.AppName)
		assert.Equal(t, 8, slack.InherentRiskScore)
		assert.Equal(t, []string{"slack", "slack technologies"}, slack.ExpenseKeywords)

		// The untouched entry keeps its resolution.
		assert.Equal(t, domain.ResolutionInvestigating, snap.KnownApps["dropbox.com"].Resolution)
	})

	t.Run("clearing writes an empty cell, not a literal None", func(t *testing.T) {
		settings := writeSources(t, networkCSV, expensesCSV, knownAppsCSV)
		store := NewStore(settings)

		require.NoError(t, store.UpdateResolution(ctx, "dropbox.com", domain.ResolutionNone))

		raw, err := os.ReadFile(settings.KnownAppsPath)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "None")
		assert.NotContains(t, string(raw), "Investigating")

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ResolutionNone, snap.KnownApps["dropbox.com"].Resolution)
	})

	t.Run("adds the resolution column when the registry lacks it", func(t *testing.T) {
		settings := writeSources(t, networkCSV, expensesCSV,
			"domain,app_name,status\nslack.com,Slack,unsanctioned\n")
		store := NewStore(settings)

		require.NoError(t, store.UpdateResolution(ctx, "slack.com", domain.ResolutionSanctioned))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ResolutionSanctioned, snap.KnownApps["slack.com"].Resolution)
	})

	t.Run("unknown domain", func(t *testing.T) {
		settings := writeSources(t, networkCSV, expensesCSV, knownAppsCSV)
		err := NewStore(settings).UpdateResolution(ctx, "nope.example", domain.ResolutionBlocked)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unreadable registry leaves the file untouched", func(t *testing.T) {
		settings := writeSources(t, networkCSV, expensesCSV, knownAppsCSV)
		require.NoError(t, os.Remove(settings.KnownAppsPath))
		err := NewStore(settings).UpdateResolution(ctx, "slack.com", domain.ResolutionBlocked)
		assert.ErrorIs(t, err, ErrWriteFailure)
	})
}
