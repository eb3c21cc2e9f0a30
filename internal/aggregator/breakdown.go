package aggregator

import (
	"context"

	"github.com/pable/go-archery-stats/internal/model"
)

const fetchFailMsg = "Error fetching participating data"

// ScoresPerEnd sums each participant's score per end position.
func (s *Service) ScoresPerEnd(ctx context.Context, f Filter) Result[model.EndScore] {
	res := emptyResult[model.EndScore]()
	recs, ok := s.participations(ctx, f.query(), &res.Advisories, fetchFailMsg)
	if !ok || len(recs) == 0 {
		return res
	}
	for _, g := range sumByLabel(recs, endOrderKey) {
		res.Rows = append(res.Rows, model.EndScore{Participant: g.label, EndOrder: g.key, SumScore: g.sum})
	}
	return res
}

// ScoresPerRange sums each participant's score per range.
func (s *Service) ScoresPerRange(ctx context.Context, f Filter) Result[model.RangeScore] {
	res := emptyResult[model.RangeScore]()
	recs, ok := s.participations(ctx, f.query(), &res.Advisories, fetchFailMsg)
	if !ok || len(recs) == 0 {
		return res
	}
	for _, g := range sumByLabel(recs, rangeKey) {
		res.Rows = append(res.Rows, model.RangeScore{Participant: g.label, RangeID: g.key, SumScore: g.sum})
	}
	return res
}

// ScoresPerRound sums each participant's score per round, highest first.
func (s *Service) ScoresPerRound(ctx context.Context, f Filter) Result[model.RoundScore] {
	res := emptyResult[model.RoundScore]()
	recs, ok := s.participations(ctx, f.query(), &res.Advisories, fetchFailMsg)
	if !ok || len(recs) == 0 {
		return res
	}
	for _, g := range sumByLabel(recs, roundKey) {
		res.Rows = append(res.Rows, model.RoundScore{Participant: g.label, RoundID: g.key, SumScore: g.sum})
	}
	rankDescending(res.Rows, func(r model.RoundScore) int { return r.SumScore })
	return res
}

// RankingInRound is the leaderboard of one competition's round: scores are
// summed per participant across every range and end, highest first.
func (s *Service) RankingInRound(ctx context.Context, clubCompetitionID, roundID string) Result[model.Standing] {
	res := emptyResult[model.Standing]()
	f := Filter{ClubCompetitionID: clubCompetitionID, RoundID: roundID}
	recs, ok := s.participations(ctx, f.query(), &res.Advisories, fetchFailMsg)
	if !ok || len(recs) == 0 {
		return res
	}
	for _, g := range sumByLabel(recs, noKey) {
		res.Rows = append(res.Rows, model.Standing{Participant: g.label, SumScore: g.sum})
	}
	rankDescending(res.Rows, func(r model.Standing) int { return r.SumScore })
	return res
}
