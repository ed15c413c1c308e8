// Package routes exposes the read-only decision API: for a circle the
// authenticated member may see, it returns the same derived view the wallet
// UI renders — finance figures, action eligibility, and the staleness
// verdict — computed server-side against the mirror.
package routes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moneycircle/client"
	"moneycircle/native/circle"
	"moneycircle/native/token"
	"moneycircle/observability"
)

// Backend is the slice of the mirror client the routes need.
type Backend interface {
	CircleStatus(ctx context.Context, token, circleID string) (*client.StatusResponse, error)
}

// Config wires the router.
type Config struct {
	Backend Backend
	Logger  *slog.Logger
	Metrics *observability.EngineMetrics
	NowFunc func() time.Time
}

type handler struct {
	backend Backend
	logger  *slog.Logger
	metrics *observability.EngineMetrics
	nowFn   func() time.Time
}

// New builds the HTTP handler.
func New(cfg Config) (http.Handler, error) {
	if cfg.Backend == nil {
		return nil, errors.New("routes: backend required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := cfg.NowFunc
	if nowFn == nil {
		nowFn = time.Now
	}
	h := &handler{backend: cfg.Backend, logger: logger, metrics: cfg.Metrics, nowFn: nowFn}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/v1/circles/{circleID}/view", h.circleView)
	return r, nil
}

type financePayload struct {
	Pot                 string `json:"pot"`
	CollateralRequired  string `json:"collateral_required"`
	MissingCollateral   string `json:"missing_collateral"`
	SuggestedCollateral string `json:"suggested_collateral"`
	SuggestedPrefund    string `json:"suggested_prefund"`
}

type viewPayload struct {
	CircleID      string                  `json:"circle_id"`
	Name          string                  `json:"name,omitempty"`
	Status        circle.Status           `json:"status"`
	StatusDisplay string                  `json:"status_display"`
	Finance       financePayload          `json:"finance"`
	Eligibility   circle.Eligibility      `json:"eligibility"`
	Staleness     circle.StalenessVerdict `json:"staleness"`
	EvaluatedAt   int64                   `json:"evaluated_at"`
}

func (h *handler) circleView(w http.ResponseWriter, r *http.Request) {
	circleID := strings.TrimSpace(chi.URLParam(r, "circleID"))
	if circleID == "" {
		writeError(w, http.StatusBadRequest, &client.APIError{Code: "BAD_REQUEST", Message: "circle id required"})
		return
	}
	authToken := bearerToken(r)

	start := h.nowFn()
	res, err := h.backend.CircleStatus(r.Context(), authToken, circleID)
	if err != nil {
		h.observeBackend(start, "circle_status", "error")
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr)
			return
		}
		h.logger.Error("mirror fetch failed", slog.String("circle", circleID), slog.Any("error", err))
		writeError(w, http.StatusBadGateway, &client.APIError{Code: "API_ERROR"})
		return
	}
	h.observeBackend(start, "circle_status", "ok")
	if res.Circle == nil {
		writeError(w, http.StatusNotFound, &client.APIError{Code: "NOT_FOUND", Message: "circle not found"})
		return
	}

	now := h.nowFn()
	snap := res.Circle
	sum := circle.Summarize(snap, res.Member)
	payload := viewPayload{
		CircleID:      snap.ID,
		Name:          snap.Name,
		Status:        snap.Status,
		StatusDisplay: snap.Status.Display(),
		Finance: financePayload{
			Pot:                 token.USDT.Format(sum.Pot),
			CollateralRequired:  token.USDT.Format(sum.CollateralRequired),
			MissingCollateral:   token.USDT.Format(sum.MissingCollateral),
			SuggestedCollateral: token.USDT.Format(sum.SuggestedCollateral),
			SuggestedPrefund:    token.USDT.Format(sum.SuggestedPrefund),
		},
		Eligibility: circle.Evaluate(snap, res.Member, now),
		Staleness:   circle.CheckFreshness(snap, now),
		EvaluatedAt: now.Unix(),
	}
	if h.metrics != nil {
		h.metrics.RecordEvaluation(string(snap.Status))
		h.metrics.RecordStaleness(snap.ID, stalenessGaugeValue(payload.Staleness.Level))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode view", slog.Any("error", err))
	}
}

func (h *handler) observeBackend(start time.Time, op, outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveBackend(op, outcome, h.nowFn().Sub(start).Seconds())
}

func stalenessGaugeValue(level circle.StalenessLevel) int {
	switch level {
	case circle.StaleWarning:
		return 1
	case circle.StaleCritical:
		return 2
	default:
		return 0
	}
}

func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) >= 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, apiErr *client.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
