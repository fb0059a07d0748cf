package sources

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

var (
	// ErrSourceUnavailable indicates a required source file could not be read.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrSchemaMismatch indicates a source is missing required columns.
	ErrSchemaMismatch = errors.New("source schema mismatch")
	// ErrNotFound indicates the domain has no registry entry.
	ErrNotFound = errors.New("domain not found in registry")
	// ErrWriteFailure indicates the registry could not be persisted.
	ErrWriteFailure = errors.New("registry write failed")
)

// Store loads the three raw sources and persists resolution updates
// into the known-apps registry.
type Store interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	UpdateResolution(ctx context.Context, appDomain string, status domain.ResolutionStatus) error
}

// Settings holds the file locations backing the store.
type Settings struct {
	NetworkLogPath string
	ExpensesPath   string
	KnownAppsPath  string
}

type csvStore struct {
	settings Settings

	mu sync.RWMutex
}

func NewStore(settings Settings) Store {
	return &csvStore{settings: settings}
}

func (s *csvStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logger := zerolog.Ctx(ctx)

	network, err := s.loadNetworkLog(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	knownApps, err := s.loadKnownApps(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("network_events", len(network)).
		Int("expenses", len(expenses)).
		Int("known_apps", len(knownApps)).
		Msg("sources loaded")

	return &domain.Snapshot{
		Network:   network,
		Expenses:  expenses,
		KnownApps: knownApps,
		LoadedAt:  time.Now(),
	}, nil
}

func (s *csvStore) loadNetworkLog(ctx context.Context) ([]domain.NetworkEvent, error) {
	table, err := readTable(s.settings.NetworkLogPath)
	if err != nil {
		return nil, fmt.Errorf("%w: network log: %v", ErrSourceUnavailable, err)
	}
	if missing := table.missingColumns(
		"destination_domain", "user_id", "timestamp", "data_uploaded_mb", "data_downloaded_mb",
	); len(missing) > 0 {
		zerolog.Ctx(ctx).Warn().Strs("missing", missing).Msg("network log schema mismatch")
		return nil, fmt.Errorf("%w: network log missing columns %v", ErrSchemaMismatch, missing)
	}

	events := make([]domain.NetworkEvent, 0, len(table.rows))
	for _, row := range table.rows {
		events = append(events, domain.NetworkEvent{
			Domain:       table.cell(row, "destination_domain"),
			UserID:       table.cell(row, "user_id"),
			Timestamp:    parseInstant(table.cell(row, "timestamp")),
			UploadedMB:   parseFloat(table.cell(row, "data_uploaded_mb"), 0),
			DownloadedMB: parseFloat(table.cell(row, "data_downloaded_mb"), 0),
		})
	}
	return events, nil
}

func (s *csvStore) loadExpenses(ctx context.Context) ([]domain.ExpenseRecord, error) {
	table, err := readTable(s.settings.ExpensesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: expenses: %v", ErrSourceUnavailable, err)
	}
	if missing := table.missingColumns("vendor_name", "amount"); len(missing) > 0 {
		zerolog.Ctx(ctx).Warn().Strs("missing", missing).Msg("expenses schema mismatch")
		return nil, fmt.Errorf("%w: expenses missing columns %v", ErrSchemaMismatch, missing)
	}

	records := make([]domain.ExpenseRecord, 0, len(table.rows))
	for _, row := range table.rows {
		records = append(records, domain.ExpenseRecord{
			Vendor: table.cell(row, "vendor_name"),
			Amount: parseFloat(table.cell(row, "amount"), 0),
			Date:   parseInstant(table.cell(row, "date")),
		})
	}
	return records, nil
}
