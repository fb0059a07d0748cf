package api

import "encoding/json"

// UserCount serializes as a [user, count] pair to keep the insight
// payload compact for chart consumers.
type UserCount struct {
	User  string
	Count int
}

func (u UserCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{u.User, u.Count})
}

func (u *UserCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) > 0 {
		if err := json.Unmarshal(pair[0], &u.User); err != nil {
			return err
		}
	}
	if len(pair) > 1 {
		if err := json.Unmarshal(pair[1], &u.Count); err != nil {
			return err
		}
	}
	return nil
}

type HighUploadApp struct {
	Domain     string  `json:"domain"`
	AppName    string  `json:"app_name"`
	UploadedMB float64 `json:"uploaded_mb"`
}

type BehaviorInsights struct {
	TopUsersByAppCount    []UserCount     `json:"top_shadow_users_by_app_count"`
	TopUsersByAccessCount []UserCount     `json:"top_shadow_users_by_access_count"`
	HighUploadApps        []HighUploadApp `json:"apps_with_high_data_upload"`
}

// ChartCounts is a labelled integer series (risk distribution, usage trend).
type ChartCounts struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// ChartSeries is a labelled float series (spend by category).
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}
