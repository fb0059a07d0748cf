package api

// AppProfile is the wire representation of a processed application.
type AppProfile struct {
	Domain            string   `json:"domain"`
	AppName           string   `json:"app_name"`
	Category          string   `json:"category"`
	Status            string   `json:"status"`
	ResolutionStatus  *string  `json:"resolution_status"`
	InherentRiskScore int      `json:"inherent_risk_score"`
	ComplianceGDPR    *bool    `json:"compliance_gdpr"`
	ComplianceHIPAA   *bool    `json:"compliance_hipaa"`
	KnownBreach       *bool    `json:"known_breach"`
	AccessCount       int      `json:"network_access_count"`
	UniqueUsers       []string `json:"unique_users_network"`
	TotalUploadedMB   float64  `json:"total_data_uploaded_mb"`
	TotalDownloadedMB float64  `json:"total_data_downloaded_mb"`
	FirstSeen         *string  `json:"first_seen_network"`
	LastSeen          *string  `json:"last_seen_network"`
	LinkedCount       int      `json:"linked_expense_count"`
	LinkedTotal       float64  `json:"linked_expense_total"`
	RiskScore         int      `json:"calculated_risk_score"`
	RiskLevel         string   `json:"calculated_risk_level"`
	RiskFactors       []string `json:"risk_factors"`
}

type SummaryStats struct {
	HighRisk       int     `json:"high_risk"`
	MediumRisk     int     `json:"medium_risk"`
	LowRisk        int     `json:"low_risk"`
	IrrelevantOrFP int     `json:"irrelevant_or_fp"`
	ShadowCount    int     `json:"shadow_count"`
	TotalDetected  int     `json:"total_detected"`
	LinkedSpend    float64 `json:"linked_spend"`
}

type ResolveRequest struct {
	ResolutionStatus *string `json:"resolution_status"`
}

type ResolveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
