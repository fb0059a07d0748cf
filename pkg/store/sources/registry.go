package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

const defaultInherentRisk = 10

func (s *csvStore) loadKnownApps(ctx context.Context) (map[string]domain.KnownAppRecord, error) {
	table, err := readTable(s.settings.KnownAppsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: known apps: %v", ErrSourceUnavailable, err)
	}
	if missing := table.missingColumns("domain"); len(missing) > 0 {
		zerolog.Ctx(ctx).Warn().Strs("missing", missing).Msg("known apps schema mismatch")
		return nil, fmt.Errorf("%w: known apps missing columns %v", ErrSchemaMismatch, missing)
	}

	apps := make(map[string]domain.KnownAppRecord, len(table.rows))
	for _, row := range table.rows {
		key := strings.TrimSpace(table.cell(row, "domain"))
		if key == "" {
			continue
		}
		// Duplicate domains keep the first occurrence.
		if _, exists := apps[key]; exists {
			continue
		}
		apps[key] = domain.KnownAppRecord{
			Domain:            key,
			AppName:           table.cell(row, "app_name"),
			Category:          table.cell(row, "category"),
			Status:            strings.TrimSpace(table.cell(row, "status")),
			InherentRiskScore: parseInt(table.cell(row, "inherent_risk_score"), defaultInherentRisk),
			GDPR:              domain.TriStateOf(table.cell(row, "compliance_gdpr")),
			HIPAA:             domain.TriStateOf(table.cell(row, "compliance_hipaa")),
			KnownBreach:       domain.TriStateOf(table.cell(row, "known_breach")),
			ExpenseKeywords:   splitKeywords(table.cell(row, "expense_keywords")),
			Resolution:        parseResolution(table.cell(row, "resolution_status")),
		}
	}
	return apps, nil
}

// parseResolution normalizes blank cells to the absent value rather
// than the literal empty string being treated as a status.
func parseResolution(raw string) domain.ResolutionStatus {
	return domain.ResolutionStatus(strings.TrimSpace(raw))
}

// UpdateResolution rewrites the known-apps registry with the new
// resolution status for appDomain, preserving every other column and
// the row order. A cleared resolution is written as an empty cell.
func (s *csvStore) UpdateResolution(ctx context.Context, appDomain string, status domain.ResolutionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	f, err := os.Open(s.settings.KnownAppsPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: known apps registry is empty", ErrWriteFailure)
	}

	header := records[0]
	domainIdx := -1
	resolutionIdx := -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "domain":
			domainIdx = i
		case "resolution_status":
			resolutionIdx = i
		}
	}
	if domainIdx < 0 {
		return fmt.Errorf("%w: known apps registry has no domain column", ErrWriteFailure)
	}
	if resolutionIdx < 0 {
		header = append(header, "resolution_status")
		records[0] = header
		resolutionIdx = len(header) - 1
	}

	updated := false
	for i, row := range records[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		if domainIdx < len(row) && strings.TrimSpace(row[domainIdx]) == appDomain {
			row[resolutionIdx] = string(status)
			updated = true
		}
		records[i+1] = row
	}
	if !updated {
		return ErrNotFound
	}

	if err := writeRecords(s.settings.KnownAppsPath, records); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	logger.Info().
		Str("domain", appDomain).
		Str("resolution", string(status)).
		Msg("registry resolution updated")
	return nil
}

// writeRecords replaces the registry file via a temp file and rename so
// a failed write leaves the previous content intact.
func writeRecords(path string, records [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".known_apps_*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.WriteAll(records); err != nil {
		tmp.Close()
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
