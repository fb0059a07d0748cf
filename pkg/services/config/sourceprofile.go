package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// SourceProfile holds the file locations of the three raw sources.
type SourceProfile struct {
	NetworkLog string
	Expenses   string
	KnownApps  string
}

// LoadSourceProfile reads a profile file of the form:
//
//	[sources]
//	network_log = data/network_log.csv
//	expenses    = data/expenses.csv
//	known_apps  = data/known_apps.csv
func LoadSourceProfile(path string) (*SourceProfile, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load source profile: %w", err)
	}

	section := cfg.Section("sources")
	profile := &SourceProfile{
		NetworkLog: section.Key("network_log").String(),
		Expenses:   section.Key("expenses").String(),
		KnownApps:  section.Key("known_apps").String(),
	}

	if profile.NetworkLog == "" || profile.Expenses == "" || profile.KnownApps == "" {
		return nil, fmt.Errorf("source profile %s must define network_log, expenses and known_apps", path)
	}

	return profile, nil
}
