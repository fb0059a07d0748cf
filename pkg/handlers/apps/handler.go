package apps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/shadow-scope/pkg/models/api"
	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/insights"
	"github.com/de-tools/shadow-scope/pkg/services/pipeline"
	"github.com/de-tools/shadow-scope/pkg/services/resolution"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
	"github.com/de-tools/shadow-scope/pkg/store/sources"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	pipeline pipeline.Service
	settings scoring.ScoringSettings
}

func NewHandler(p pipeline.Service, settings scoring.ScoringSettings) *Handler {
	return &Handler{pipeline: p, settings: settings}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles := h.pipeline.Processed(ctx)
	stats := insights.Summary(profiles, h.settings)
	writeJSON(ctx, w, http.StatusOK, toAPISummary(stats))
}

func (h *Handler) ListApps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles := h.pipeline.Processed(ctx)

	response := make([]api.AppProfile, 0, len(profiles))
	for _, profile := range profiles {
		response = append(response, toAPIProfile(profile))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) GetBehaviorInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles := h.pipeline.Processed(ctx)
	events := h.pipeline.Events(ctx)
	behavior := insights.Behavior(ctx, profiles, events, h.settings)
	writeJSON(ctx, w, http.StatusOK, toAPIBehavior(behavior))
}

func (h *Handler) GetRiskDistribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles := h.pipeline.Processed(ctx)
	stats := insights.Summary(profiles, h.settings)
	writeJSON(ctx, w, http.StatusOK, api.ChartCounts{
		Labels: []string{"High", "Medium", "Low", "Info/FP"},
		Values: []int{stats.HighRisk, stats.MediumRisk, stats.LowRisk, stats.IrrelevantOrFP},
	})
}

func (h *Handler) GetSpendByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles := h.pipeline.Processed(ctx)
	spend := insights.SpendByCategory(profiles, h.settings)

	series := api.ChartSeries{Labels: []string{}, Values: []float64{}}
	for _, entry := range spend {
		series.Labels = append(series.Labels, entry.Category)
		series.Values = append(series.Values, entry.Total)
	}
	writeJSON(ctx, w, http.StatusOK, series)
}

func (h *Handler) GetUsageTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles := h.pipeline.Processed(ctx)
	trend := insights.UsageTrend(profiles, h.settings)

	series := api.ChartCounts{Labels: []string{}, Values: []int{}}
	for _, point := range trend {
		series.Labels = append(series.Labels, point.Day)
		series.Values = append(series.Values, point.Accesses)
	}
	writeJSON(ctx, w, http.StatusOK, series)
}

func (h *Handler) ResolveApp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appDomain := chi.URLParam(r, "domain")

	var req api.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, api.ResolveResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	status := domain.ResolutionNone
	if req.ResolutionStatus != nil {
		status = domain.ResolutionStatus(*req.ResolutionStatus)
	}

	if err := h.pipeline.Resolve(ctx, appDomain, status); err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, resolution.ErrInvalidStatus):
			code = http.StatusBadRequest
		case errors.Is(err, sources.ErrNotFound):
			code = http.StatusNotFound
		}
		writeJSON(ctx, w, code, api.ResolveResponse{Success: false, Message: err.Error()})
		return
	}

	label := string(status)
	if label == "" {
		label = "None"
	}
	writeJSON(ctx, w, http.StatusOK, api.ResolveResponse{
		Success: true,
		Message: fmt.Sprintf("App '%s' status updated to '%s'", appDomain, label),
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
