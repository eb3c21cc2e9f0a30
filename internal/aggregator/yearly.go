package aggregator

import (
	"context"
	"slices"

	"github.com/pable/go-archery-stats/internal/model"
)

// YearlyAverage is the cross-competition leaderboard of one round within a
// yearly championship. Basis says which column the rows carry; it is the
// same for every row.
type YearlyAverage struct {
	Result[model.AverageScore]
	Basis        model.AverageBasis `json:"basis"`
	Competitions []string           `json:"competitions,omitempty"`
	Capacity     Capacity           `json:"capacity"`
}

// YearlyNormalizedAverage averages each participant's score over the
// competitions of the championship that played roundID. Each score is divided
// by the round capacity when it is known; otherwise raw scores are averaged.
// A participant is averaged only over the records they have.
func (s *Service) YearlyNormalizedAverage(ctx context.Context, yearlyChampionshipID, roundID, participationID string) YearlyAverage {
	out := YearlyAverage{Result: emptyResult[model.AverageScore]()}
	advs := &out.Advisories
	yc, round := model.NormalizeID(yearlyChampionshipID), model.NormalizeID(roundID)
	if yc == "" || round == "" {
		s.advise(ctx, advs, MissingInput, "Please select both a Yearly Club Championship and a Round.")
		return out
	}

	comps, ok := s.competitions(ctx, yc, round, advs)
	if !ok {
		return out
	}
	if len(comps) == 0 {
		s.advise(ctx, advs, NoData, "No competitions found for this yearly championship (check event context links).")
		return out
	}
	out.Competitions = comps

	q := model.ParticipationQuery{
		ClubCompetitionIDs: comps,
		RoundID:            round,
		ParticipationID:    model.NormalizeID(participationID),
	}
	recs, ok := s.participations(ctx, q, advs, "Could not load participating rows")
	if !ok || len(recs) == 0 {
		return out
	}

	// A failed capacity lookup degrades the result to raw averages.
	capacity, capAdvs := s.RoundCapacity(ctx, round)
	for _, a := range capAdvs {
		if a.Kind == StoreFailure {
			a.Kind = Indeterminate
		}
		*advs = append(*advs, a)
	}
	out.Capacity = capacity
	if !capacity.Known {
		s.advise(ctx, advs, Indeterminate,
			"Could not determine max score for the selected round — normalized average will fallback to raw average.")
	}

	vals := make([]labeledValue, 0, len(recs))
	for _, r := range recs {
		v := float64(r.Score())
		if capacity.Known {
			v /= float64(capacity.MaxScore)
		}
		vals = append(vals, labeledValue{label: r.Label(), value: v})
	}
	out.Basis = model.BasisRaw
	if capacity.Known {
		out.Basis = model.BasisNormalized
	}
	out.Rows = meanByLabel(vals)
	rankDescending(out.Rows, func(a model.AverageScore) float64 { return a.Average })
	return out
}

// YearlyRanking is the championship leaderboard for a round across all
// participants.
func (s *Service) YearlyRanking(ctx context.Context, yearlyChampionshipID, roundID string) YearlyAverage {
	return s.YearlyNormalizedAverage(ctx, yearlyChampionshipID, roundID, "")
}

// competitions returns the sorted distinct club competitions that played the
// round under the championship.
func (s *Service) competitions(ctx context.Context, yc, round string, advs *[]Advisory) ([]string, bool) {
	ctxs, err := s.store.EventContexts(ctx, model.EventContextQuery{RoundID: round, YearlyChampionshipID: yc})
	if err != nil {
		s.advise(ctx, advs, StoreFailure, "Could not load competitions for yearly championship: %v", err)
		return nil, false
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, ec := range ctxs {
		if ec.ClubCompetitionID == "" {
			continue
		}
		if _, ok := seen[ec.ClubCompetitionID]; ok {
			continue
		}
		seen[ec.ClubCompetitionID] = struct{}{}
		ids = append(ids, ec.ClubCompetitionID)
	}
	slices.Sort(ids)
	return ids, true
}
