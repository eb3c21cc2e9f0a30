package aggregator

import (
	"cmp"
	"context"
	"slices"

	"github.com/pable/go-archery-stats/internal/model"
)

// CategoryStanding is a category's score distribution, sorted ascending, and
// the queried archer's percentile within it. Percentile is nil when the
// distribution is empty or the archer was not supplied or not found.
type CategoryStanding struct {
	Distribution []model.CategoryScore `json:"distribution"`
	Percentile   *float64              `json:"percentile"`
	Advisories   []Advisory            `json:"advisories,omitempty"`
}

// CategoryPercentile ranks archerID within the precomputed distribution of
// categoryID. The first matching row after the ascending sort decides the
// rank, so the lowest score wins when an archer appears more than once.
func (s *Service) CategoryPercentile(ctx context.Context, categoryID, archerID string) CategoryStanding {
	out := CategoryStanding{Distribution: []model.CategoryScore{}}
	categoryID = model.NormalizeID(categoryID)
	if categoryID == "" {
		s.advise(ctx, &out.Advisories, MissingInput, "Please select a category.")
		return out
	}

	dist, err := s.store.CategoryScores(ctx, categoryID)
	if err != nil {
		s.advise(ctx, &out.Advisories, StoreFailure, "Could not load category rating distribution: %v", err)
		return out
	}
	if len(dist) == 0 {
		return out
	}

	sorted := slices.Clone(dist)
	slices.SortStableFunc(sorted, func(a, b model.CategoryScore) int {
		return cmp.Compare(a.Score, b.Score)
	})
	out.Distribution = sorted

	archerID = model.NormalizeID(archerID)
	if archerID == "" {
		return out
	}
	idx := slices.IndexFunc(sorted, func(c model.CategoryScore) bool { return c.ArcherID == archerID })
	if idx < 0 {
		return out
	}
	p := float64(idx+1) / float64(len(sorted)) * 100.0
	out.Percentile = &p
	return out
}
