package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	require.NoError(t, err)
	return &parsed
}

func TestDiscover(t *testing.T) {
	ctx := context.Background()

	events := []domain.NetworkEvent{
		{Domain: "slack.com", UserID: "alice", Timestamp: ts(t, "2024-03-02 09:00:00"), UploadedMB: 100, DownloadedMB: 10},
		{Domain: "slack.com", UserID: "bob", Timestamp: ts(t, "2024-03-01 08:00:00"), UploadedMB: 50, DownloadedMB: 5},
		{Domain: "slack.com", UserID: "alice", Timestamp: ts(t, "2024-03-03 12:00:00"), UploadedMB: 25, DownloadedMB: 2.5},
		{Domain: "dropbox.com", UserID: "carol", UploadedMB: 10},
		{Domain: "   ", UserID: "mallory", UploadedMB: 999},
		{Domain: "", UserID: "mallory"},
	}

	profiles := Discover(ctx, events)
	require.Len(t, profiles, 2)

	t.Run("sorted by domain", func(t *testing.T) {
		assert.Equal(t, "dropbox.com", profiles[0].Domain)
		assert.Equal(t, "slack.com", profiles[1].Domain)
	})

	t.Run("aggregates per domain", func(t *testing.T) {
		slack := profiles[1]
		assert.Equal(t, 3, slack.AccessCount)
		assert.Equal(t, []string{"alice", "bob"}, slack.UniqueUsers)
		assert.Equal(t, 175.0, slack.TotalUploadedMB)
		assert.Equal(t, 17.5, slack.TotalDownloadedMB)
		require.NotNil(t, slack.FirstSeen)
		require.NotNil(t, slack.LastSeen)
		assert.Equal(t, *ts(t, "2024-03-01 08:00:00"), *slack.FirstSeen)
		assert.Equal(t, *ts(t, "2024-03-03 12:00:00"), *slack.LastSeen)
	})

	t.Run("defaults before enrichment", func(t *testing.T) {
		dropbox := profiles[0]
		assert.Equal(t, "Unknown", dropbox.AppName)
		assert.Equal(t, "Unknown", dropbox.Category)
		assert.Equal(t, "unknown", dropbox.Status)
		assert.Equal(t, 10, dropbox.InherentRiskScore)
		assert.Equal(t, domain.RiskLevelHigh, dropbox.RiskLevel)
		assert.Nil(t, dropbox.FirstSeen)
		assert.Nil(t, dropbox.LastSeen)
	})
}

func TestDiscover_Idempotent(t *testing.T) {
	ctx := context.Background()
	events := []domain.NetworkEvent{
		{Domain: "slack.com", UserID: "alice", UploadedMB: 10},
		{Domain: "notion.so", UserID: "bob", DownloadedMB: 3},
	}

	first := Discover(ctx, events)
	second := Discover(ctx, events)
	assert.Equal(t, first, second)
}

func TestDiscover_Empty(t *testing.T) {
	profiles := Discover(context.Background(), nil)
	assert.Empty(t, profiles)
}
