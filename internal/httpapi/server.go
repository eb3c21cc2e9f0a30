// Package httpapi serves the aggregations as a read-only JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pable/go-archery-stats/internal/aggregator"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes API requests to an aggregator.Service.
type Server struct {
	svc     *aggregator.Service
	store   Pinger
	log     *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics
}

// New builds a Server. Metrics are registered on reg, which is also what
// /metrics exposes. A nil logger discards output.
func New(svc *aggregator.Service, store Pinger, log *slog.Logger, reg *prometheus.Registry) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		svc:     svc,
		store:   store,
		log:     log.With("component", "httpapi"),
		reg:     reg,
		metrics: newMetrics(reg),
	}
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)
	r.Use(s.requestLog)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	r.Route("/scores", func(r chi.Router) {
		r.Get("/ends", s.scoresPerEnd)
		r.Get("/ranges", s.scoresPerRange)
		r.Get("/rounds", s.scoresPerRound)
	})
	r.Route("/rankings", func(r chi.Router) {
		r.Get("/round", s.rankingInRound)
		r.Get("/yearly", s.rankingYearly)
	})
	r.Get("/rounds/{id}/capacity", s.roundCapacity)
	r.Get("/yearly/average", s.yearlyAverage)
	r.Get("/categories/{id}/percentile", s.categoryPercentile)
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.DebugContext(r.Context(), "request",
			"method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}

func filterFrom(r *http.Request) aggregator.Filter {
	q := r.URL.Query()
	return aggregator.Filter{
		ClubCompetitionID: q.Get("competition"),
		RoundID:           q.Get("round"),
		ParticipationID:   q.Get("participant"),
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.log.WarnContext(r.Context(), "health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) scoresPerEnd(w http.ResponseWriter, r *http.Request) {
	res := s.svc.ScoresPerEnd(r.Context(), filterFrom(r))
	writeJSON(w, statusFor(res.Advisories), res)
}

func (s *Server) scoresPerRange(w http.ResponseWriter, r *http.Request) {
	res := s.svc.ScoresPerRange(r.Context(), filterFrom(r))
	writeJSON(w, statusFor(res.Advisories), res)
}

func (s *Server) scoresPerRound(w http.ResponseWriter, r *http.Request) {
	res := s.svc.ScoresPerRound(r.Context(), filterFrom(r))
	writeJSON(w, statusFor(res.Advisories), res)
}

func (s *Server) rankingInRound(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := s.svc.RankingInRound(r.Context(), q.Get("competition"), q.Get("round"))
	writeJSON(w, statusFor(res.Advisories), res)
}

func (s *Server) rankingYearly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := s.svc.YearlyRanking(r.Context(), q.Get("championship"), q.Get("round"))
	writeJSON(w, statusFor(res.Advisories), res)
}

func (s *Server) yearlyAverage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := s.svc.YearlyNormalizedAverage(r.Context(), q.Get("championship"), q.Get("round"), q.Get("participant"))
	writeJSON(w, statusFor(res.Advisories), res)
}

type capacityResponse struct {
	aggregator.Capacity
	Advisories []aggregator.Advisory `json:"advisories,omitempty"`
}

func (s *Server) roundCapacity(w http.ResponseWriter, r *http.Request) {
	c, advs := s.svc.RoundCapacity(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, statusFor(advs), capacityResponse{Capacity: c, Advisories: advs})
}

func (s *Server) categoryPercentile(w http.ResponseWriter, r *http.Request) {
	res := s.svc.CategoryPercentile(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("archer"))
	writeJSON(w, statusFor(res.Advisories), res)
}

// statusFor maps advisories to an HTTP status. Degraded but computed results
// (indeterminate capacity, no data) are still 200.
func statusFor(advs []aggregator.Advisory) int {
	status := http.StatusOK
	for _, a := range advs {
		switch a.Kind {
		case aggregator.StoreFailure:
			return http.StatusServiceUnavailable
		case aggregator.MissingInput:
			status = http.StatusBadRequest
		}
	}
	return status
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
