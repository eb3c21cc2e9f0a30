package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-archery-stats/internal/model"
)

// twoRangeStore holds one archer shooting the same round on two ranges under
// two participation ids, plus a second archer and a practice record.
func twoRangeStore() *fakeStore {
	r30 := ec("C1", "Y1", "R1", "30m", 1)
	r50 := ec("C1", "Y1", "R1", "50m", 1)
	practice := rec("P9", "Alice", r30, arrows(10, 10, 10, 10, 10, 10))
	practice.Type = "practice"
	return &fakeStore{records: []model.ParticipationRecord{
		rec("P1", "Alice", r30, arrows(10, 10, 10, 10, 5, 5)),
		rec("P2", "Alice", r50, arrows(10, 10, 10, 10, 10, 10)),
		rec("P3", "Carol", r30, arrows(9, 9, 9, 9, 9, 9)),
		practice,
	}}
}

func TestScoresPerRange(t *testing.T) {
	res := newService(twoRangeStore()).ScoresPerRange(context.Background(), Filter{RoundID: "R1"})
	require.Empty(t, res.Advisories)
	assert.Equal(t, []model.RangeScore{
		{Participant: "Alice (P1)", RangeID: "30m", SumScore: 50},
		{Participant: "Alice (P2)", RangeID: "50m", SumScore: 60},
		{Participant: "Carol (P3)", RangeID: "30m", SumScore: 54},
	}, res.Rows)
}

func TestRangeAndRoundAggregationSameArcher(t *testing.T) {
	// Same archer, one participation id per range: range-level keeps the two
	// ranges apart, round-level collapses them when the labels coincide.
	r30 := ec("C1", "Y1", "R1", "30m", 1)
	r50 := ec("C1", "Y1", "R1", "50m", 1)
	a := rec("P1", "Alice", r30, arrows(10, 10, 10, 10, 5, 5))
	b := rec("P2", "Alice", r50, arrows(10, 10, 10, 10, 10, 10))
	svc := newService(&fakeStore{records: []model.ParticipationRecord{a, b}})

	perRange := svc.ScoresPerRange(context.Background(), Filter{RoundID: "R1"})
	require.Len(t, perRange.Rows, 2)
	assert.Equal(t, 50, perRange.Rows[0].SumScore)
	assert.Equal(t, 60, perRange.Rows[1].SumScore)

	// Without participation ids the label is the bare name.
	a.ParticipationID, b.ParticipationID = "", ""
	svc = newService(&fakeStore{records: []model.ParticipationRecord{a, b}})
	ranking := svc.RankingInRound(context.Background(), "C1", "R1")
	require.Len(t, ranking.Rows, 1)
	assert.Equal(t, model.Standing{Participant: "Alice", SumScore: 110}, ranking.Rows[0])

	perRange = svc.ScoresPerRange(context.Background(), Filter{RoundID: "R1"})
	assert.Len(t, perRange.Rows, 2, "range-level grouping keeps ranges apart")
}

func TestScoresPerEnd(t *testing.T) {
	store := &fakeStore{records: []model.ParticipationRecord{
		rec("P1", "Alice", ec("C1", "", "R1", "30m", 1), arrows(10, 9, 8, 7, 6, 5)),
		rec("P1", "Alice", ec("C1", "", "R1", "30m", 2), arrows(1, 1, 1, 1, 1, 1)),
		rec("P1", "Alice", ec("C1", "", "R1", "50m", 2), arrows(2, 2, 2, 2, 2, 2)),
	}}
	res := newService(store).ScoresPerEnd(context.Background(), Filter{ParticipationID: "P1"})
	assert.Equal(t, []model.EndScore{
		{Participant: "Alice (P1)", EndOrder: 1, SumScore: 45},
		{Participant: "Alice (P1)", EndOrder: 2, SumScore: 18},
	}, res.Rows)
	require.Len(t, store.queries, 1)
	assert.Equal(t, "P1", store.queries[0].ParticipationID)
}

func TestScoresPerRoundSortedDescending(t *testing.T) {
	store := &fakeStore{records: []model.ParticipationRecord{
		rec("P1", "Alice", ec("C1", "", "R1", "30m", 1), arrows(5, 5, 5, 5, 5, 5)),
		rec("P2", "Bob", ec("C1", "", "R1", "30m", 1), arrows(9, 9, 9, 9, 9, 9)),
		rec("P3", "Carol", ec("C1", "", "R2", "30m", 1), arrows(5, 5, 5, 5, 5, 5)),
	}}
	res := newService(store).ScoresPerRound(context.Background(), Filter{ClubCompetitionID: "C1"})
	assert.Equal(t, []model.RoundScore{
		{Participant: "Bob (P2)", RoundID: "R1", SumScore: 54},
		{Participant: "Alice (P1)", RoundID: "R1", SumScore: 30},
		{Participant: "Carol (P3)", RoundID: "R2", SumScore: 30},
	}, res.Rows)
	for i := 1; i < len(res.Rows); i++ {
		assert.GreaterOrEqual(t, res.Rows[i-1].SumScore, res.Rows[i].SumScore)
	}
}

func TestAggregationIdempotent(t *testing.T) {
	svc := newService(twoRangeStore())
	f := Filter{ClubCompetitionID: "C1", RoundID: "R1"}
	first := svc.ScoresPerRound(context.Background(), f)
	second := svc.ScoresPerRound(context.Background(), f)
	assert.Equal(t, first, second)
}

func TestBreakdownEmptyAndFailure(t *testing.T) {
	ctx := context.Background()
	empty := newService(&fakeStore{})
	assert.Empty(t, empty.ScoresPerEnd(ctx, Filter{}).Rows)
	assert.Empty(t, empty.ScoresPerRange(ctx, Filter{}).Rows)
	assert.Empty(t, empty.ScoresPerRound(ctx, Filter{}).Rows)
	assert.Empty(t, empty.RankingInRound(ctx, "", "").Advisories)

	failing := newService(&fakeStore{err: errors.New("boom")})
	res := failing.RankingInRound(ctx, "C1", "R1")
	assert.Empty(t, res.Rows)
	require.Len(t, res.Advisories, 1)
	assert.Equal(t, StoreFailure, res.Advisories[0].Kind)
	assert.Equal(t, "Error fetching participating data: boom", res.Advisories[0].Message)
}

func TestRankingMergesIdenticalLabels(t *testing.T) {
	// Two distinct archers with the same name and no participation id cannot
	// be told apart by label and are merged.
	a := rec("", "Sam", ec("C1", "", "R1", "30m", 1), arrows(1, 1, 1, 1, 1, 1))
	b := rec("", "Sam", ec("C1", "", "R1", "30m", 1), arrows(2, 2, 2, 2, 2, 2))
	b.ArcherID = "other"
	res := newService(&fakeStore{records: []model.ParticipationRecord{a, b}}).RankingInRound(context.Background(), "C1", "R1")
	assert.Equal(t, []model.Standing{{Participant: "Sam", SumScore: 18}}, res.Rows)
}

func TestEmptyResultsEncodeEmptyRows(t *testing.T) {
	ctx := context.Background()
	empty := newService(&fakeStore{})
	failing := newService(&fakeStore{err: errors.New("down"), ctxErr: errors.New("down")})

	for _, svc := range []*Service{empty, failing} {
		tables := map[string]any{
			"ends":    svc.ScoresPerEnd(ctx, Filter{}),
			"ranges":  svc.ScoresPerRange(ctx, Filter{}),
			"rounds":  svc.ScoresPerRound(ctx, Filter{}),
			"ranking": svc.RankingInRound(ctx, "C1", "R1"),
			"yearly":  svc.YearlyRanking(ctx, "Y1", "R1"),
		}
		for name, v := range tables {
			raw, err := json.Marshal(v)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"rows":[]`, name)
		}

		raw, err := json.Marshal(svc.CategoryPercentile(ctx, "RM", "A1"))
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"distribution":[]`)
	}
}
