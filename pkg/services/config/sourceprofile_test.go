package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.cfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSourceProfile(t *testing.T) {
	path := writeProfile(t, `[sources]
network_log = data/network_log.csv
expenses    = data/expenses.csv
known_apps  = data/known_apps.csv
`)

	profile, err := LoadSourceProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "data/network_log.csv", profile.NetworkLog)
	assert.Equal(t, "data/expenses.csv", profile.Expenses)
	assert.Equal(t, "data/known_apps.csv", profile.KnownApps)
}

func TestLoadSourceProfile_MissingKey(t *testing.T) {
	path := writeProfile(t, `[sources]
network_log = data/network_log.csv
expenses    = data/expenses.csv
`)

	_, err := LoadSourceProfile(path)
	assert.ErrorContains(t, err, "known_apps")
}

func TestLoadSourceProfile_MissingFile(t *testing.T) {
	_, err := LoadSourceProfile(filepath.Join(t.TempDir(), "absent.cfg"))
	assert.Error(t, err)
}
