// Package aggregator rolls raw participation records up into per-end,
// per-range and per-round subtotals, round rankings, yearly normalized
// averages and category percentiles.
//
// Every operation reads a fresh snapshot from the Store, computes in memory
// and returns a well-typed result. Store failures and missing inputs never
// surface as Go errors; they are reported as Advisories alongside an empty
// result.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pable/go-archery-stats/internal/model"
)

// Store is the read-only data access the aggregator needs.
type Store interface {
	Participations(ctx context.Context, q model.ParticipationQuery) ([]model.ParticipationRecord, error)
	EventContexts(ctx context.Context, q model.EventContextQuery) ([]model.EventContext, error)
	CategoryScores(ctx context.Context, categoryID string) ([]model.CategoryScore, error)
}

// AdvisoryKind classifies why a result may be empty or degraded.
type AdvisoryKind int

const (
	StoreFailure  AdvisoryKind = iota + 1 // the store call failed; result is empty
	MissingInput                          // a required identifier was not supplied
	Indeterminate                         // a derived value (round capacity) is unknown
	NoData                                // the store had nothing matching
)

func (k AdvisoryKind) String() string {
	switch k {
	case StoreFailure:
		return "store_failure"
	case MissingInput:
		return "missing_input"
	case Indeterminate:
		return "indeterminate"
	case NoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name.
func (k AdvisoryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Advisory is a structured note attached to a result.
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	Message string       `json:"message"`
}

// Result is an ordered table of rows plus the advisories raised producing it.
type Result[T any] struct {
	Rows       []T        `json:"rows"`
	Advisories []Advisory `json:"advisories,omitempty"`
}

// emptyResult returns a Result whose Rows encode as an empty JSON array.
func emptyResult[T any]() Result[T] {
	return Result[T]{Rows: []T{}}
}

// Failed reports whether the store failed while producing the result.
func (r Result[T]) Failed() bool {
	return hasKind(r.Advisories, StoreFailure)
}

func hasKind(advs []Advisory, kind AdvisoryKind) bool {
	for _, a := range advs {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Filter narrows the participations an aggregation reads. Empty fields are
// not applied; the rest are AND-ed.
type Filter struct {
	ClubCompetitionID string
	RoundID           string
	ParticipationID   string
}

func (f Filter) query() model.ParticipationQuery {
	q := model.ParticipationQuery{
		RoundID:         model.NormalizeID(f.RoundID),
		ParticipationID: model.NormalizeID(f.ParticipationID),
	}
	if id := model.NormalizeID(f.ClubCompetitionID); id != "" {
		q.ClubCompetitionIDs = []string{id}
	}
	return q
}

// Service runs the aggregations against a Store.
type Service struct {
	store Store
	log   *slog.Logger
}

// New returns a Service reading from store. A nil logger discards output.
func New(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, log: log.With("component", "aggregator")}
}

// advise appends an advisory and logs it: store failures at warn, the rest at info.
func (s *Service) advise(ctx context.Context, advs *[]Advisory, kind AdvisoryKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	*advs = append(*advs, Advisory{Kind: kind, Message: msg})
	level := slog.LevelInfo
	if kind == StoreFailure {
		level = slog.LevelWarn
	}
	s.log.Log(ctx, level, msg, "kind", kind.String())
}

// participations fetches records, turning a store failure into an advisory.
func (s *Service) participations(ctx context.Context, q model.ParticipationQuery, advs *[]Advisory, failMsg string) ([]model.ParticipationRecord, bool) {
	start := time.Now()
	recs, err := s.store.Participations(ctx, q)
	if err != nil {
		s.advise(ctx, advs, StoreFailure, "%s: %v", failMsg, err)
		return nil, false
	}
	s.log.DebugContext(ctx, "fetched participations",
		"rows", len(recs), "round_id", q.RoundID, "competitions", len(q.ClubCompetitionIDs),
		"elapsed", time.Since(start))
	return recs, true
}
