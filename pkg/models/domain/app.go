package domain

import "time"

// ResolutionStatus is an administrator-set override on a discovered application.
// The zero value means no resolution has been recorded.
type ResolutionStatus string

const (
	ResolutionNone          ResolutionStatus = ""
	ResolutionSanctioned    ResolutionStatus = "Sanctioned"
	ResolutionBlocked       ResolutionStatus = "Blocked"
	ResolutionInvestigating ResolutionStatus = "Investigating"
	ResolutionFalsePositive ResolutionStatus = "FalsePositive"
)

// Valid reports whether s is one of the accepted resolution values,
// including the empty value used to clear a resolution.
func (s ResolutionStatus) Valid() bool {
	switch s {
	case ResolutionNone, ResolutionSanctioned, ResolutionBlocked,
		ResolutionInvestigating, ResolutionFalsePositive:
		return true
	}
	return false
}

func (s ResolutionStatus) IsSet() bool {
	return s != ResolutionNone
}

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
	RiskLevelInfo   RiskLevel = "Info"
	RiskLevelError  RiskLevel = "Error"
)

// NetworkEvent is a single row from the network access log.
type NetworkEvent struct {
	Domain       string
	UserID       string
	Timestamp    *time.Time
	UploadedMB   float64
	DownloadedMB float64
}

// ExpenseRecord is a single row from the expense export.
type ExpenseRecord struct {
	Vendor string
	Amount float64
	Date   *time.Time
}

// KnownAppRecord is one entry of the curated application registry,
// keyed by domain. It is the only entity the system mutates.
type KnownAppRecord struct {
	Domain            string
	AppName           string
	Category          string
	Status            string
	InherentRiskScore int
	GDPR              TriState
	HIPAA             TriState
	KnownBreach       TriState
	ExpenseKeywords   []string
	Resolution        ResolutionStatus
}

// AppProfile is the per-application output of a processing pass.
// At most one profile exists per domain; profiles are not mutated
// after scoring.
type AppProfile struct {
	Domain   string
	AppName  string
	Category string

	AccessCount       int
	UniqueUsers       []string
	TotalUploadedMB   float64
	TotalDownloadedMB float64
	FirstSeen         *time.Time
	LastSeen          *time.Time

	Status            string
	InherentRiskScore int
	GDPR              TriState
	HIPAA             TriState
	KnownBreach       TriState
	ExpenseKeywords   []string
	Resolution        ResolutionStatus

	LinkedExpenseCount int
	LinkedExpenseTotal float64

	// RiskScore is -1 when scoring the profile failed.
	RiskScore   int
	RiskLevel   RiskLevel
	RiskFactors []string
}

// Snapshot is one immutable load of all three sources. Readers share a
// snapshot; reloads replace the whole value, never mutate it.
type Snapshot struct {
	Network   []NetworkEvent
	Expenses  []ExpenseRecord
	KnownApps map[string]KnownAppRecord
	LoadedAt  time.Time
}
