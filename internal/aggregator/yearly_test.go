package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-archery-stats/internal/model"
)

func TestRoundCapacity(t *testing.T) {
	store := &fakeStore{contexts: []model.EventContext{
		*ec("C1", "Y1", "R1", "30m", 1),
		*ec("C1", "Y1", "R1", "30m", 2),
		*ec("C2", "Y1", "R1", "30m", 2), // duplicate slot in another competition
		*ec("C1", "Y1", "R1", "50m", 1),
		{ClubCompetitionID: "C1", RoundID: "R1", RangeID: "70m"}, // no end order
		*ec("C1", "Y1", "R2", "90m", 1),
	}}
	c, advs := newService(store).RoundCapacity(context.Background(), "R1")
	assert.Empty(t, advs)
	assert.Equal(t, Capacity{RoundID: "R1", Ends: 3, MaxScore: 180, Known: true}, c)
}

func TestRoundCapacityUnknown(t *testing.T) {
	ctx := context.Background()

	c, advs := newService(&fakeStore{}).RoundCapacity(ctx, "R1")
	assert.False(t, c.Known, "no event contexts means unknown, not zero")
	assert.Empty(t, advs)

	onlyUndefined := &fakeStore{contexts: []model.EventContext{{RoundID: "R1", RangeID: "30m"}}}
	c, _ = newService(onlyUndefined).RoundCapacity(ctx, "R1")
	assert.False(t, c.Known)

	c, advs = newService(&fakeStore{ctxErr: errors.New("timeout")}).RoundCapacity(ctx, "R1")
	assert.False(t, c.Known)
	require.Len(t, advs, 1)
	assert.Equal(t, StoreFailure, advs[0].Kind)

	_, advs = newService(&fakeStore{}).RoundCapacity(ctx, " ")
	require.Len(t, advs, 1)
	assert.Equal(t, MissingInput, advs[0].Kind)
}

// championshipStore has round R1 (two ends on one range, capacity 120) played
// in competitions C1 and C2 of championship Y1, and C3 of another championship.
func championshipStore() *fakeStore {
	c1 := ec("C1", "Y1", "R1", "30m", 1)
	c1b := ec("C1", "Y1", "R1", "30m", 2)
	c2 := ec("C2", "Y1", "R1", "30m", 1)
	c3 := ec("C3", "Y2", "R1", "30m", 1)
	return &fakeStore{
		contexts: []model.EventContext{*c1, *c1b, *c2, *c3},
		records: []model.ParticipationRecord{
			rec("P1", "Alice", c1, arrows(10, 10, 10, 10, 10, 10)), // 60
			rec("P1", "Alice", c2, arrows(5, 5, 5, 5, 5, 5)),       // 30
			rec("P2", "Bob", c1, arrows(8, 8, 8, 8, 8, 8)),         // 48
			rec("P3", "Carol", c3, arrows(10, 10, 10, 10, 10, 10)), // other championship
		},
	}
}

func TestYearlyNormalizedAverage(t *testing.T) {
	store := championshipStore()
	out := newService(store).YearlyNormalizedAverage(context.Background(), "Y1", "R1", "")

	assert.Equal(t, model.BasisNormalized, out.Basis)
	assert.Equal(t, []string{"C1", "C2"}, out.Competitions)
	assert.Equal(t, 120, out.Capacity.MaxScore)
	require.Len(t, out.Rows, 2)

	// Bob played one competition and is averaged over it alone.
	assert.Equal(t, "Alice (P1)", out.Rows[1].Participant)
	assert.InDelta(t, (60.0/120+30.0/120)/2, out.Rows[1].Average, 1e-9)
	assert.Equal(t, 2, out.Rows[1].Records)
	assert.Equal(t, "Bob (P2)", out.Rows[0].Participant)
	assert.InDelta(t, 48.0/120, out.Rows[0].Average, 1e-9)
	assert.Equal(t, 1, out.Rows[0].Records)

	require.NotEmpty(t, store.queries)
	q := store.queries[len(store.queries)-1]
	assert.Equal(t, []string{"C1", "C2"}, q.ClubCompetitionIDs)
	assert.Equal(t, "R1", q.RoundID)
}

func TestYearlyFallsBackToRawAverage(t *testing.T) {
	store := championshipStore()
	// Competition discovery still finds C1, but no context defines an end order.
	for i := range store.contexts {
		store.contexts[i].EndOrder = nil
	}
	out := newService(store).YearlyRanking(context.Background(), "Y1", "R1")

	assert.Equal(t, model.BasisRaw, out.Basis)
	assert.False(t, out.Capacity.Known)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, model.AverageScore{Participant: "Bob (P2)", Average: 48, Records: 1}, out.Rows[0])
	assert.Equal(t, model.AverageScore{Participant: "Alice (P1)", Average: 45, Records: 2}, out.Rows[1])
	assert.True(t, hasKind(out.Advisories, Indeterminate))
	assert.False(t, out.Failed())
}

func TestYearlyFiltersSingleParticipant(t *testing.T) {
	out := newService(championshipStore()).YearlyNormalizedAverage(context.Background(), "Y1", "R1", "P2")
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Bob (P2)", out.Rows[0].Participant)
}

func TestYearlyGuidance(t *testing.T) {
	ctx := context.Background()
	svc := newService(championshipStore())

	for _, tc := range []struct{ yc, round string }{{"", "R1"}, {"Y1", ""}, {"", ""}} {
		out := svc.YearlyNormalizedAverage(ctx, tc.yc, tc.round, "")
		assert.Empty(t, out.Rows)
		assert.Equal(t, model.BasisNone, out.Basis)
		require.Len(t, out.Advisories, 1)
		assert.Equal(t, MissingInput, out.Advisories[0].Kind)
	}

	out := svc.YearlyNormalizedAverage(ctx, "Y9", "R1", "")
	assert.Empty(t, out.Rows)
	require.Len(t, out.Advisories, 1)
	assert.Equal(t, NoData, out.Advisories[0].Kind)
	assert.Contains(t, out.Advisories[0].Message, "No competitions found")
}

func TestYearlyStoreFailures(t *testing.T) {
	ctx := context.Background()

	out := newService(&fakeStore{ctxErr: errors.New("down")}).YearlyRanking(ctx, "Y1", "R1")
	assert.True(t, out.Failed())
	assert.Empty(t, out.Rows)

	store := championshipStore()
	store.err = errors.New("down")
	out = newService(store).YearlyRanking(ctx, "Y1", "R1")
	assert.True(t, out.Failed())
	assert.Empty(t, out.Rows)
	assert.Contains(t, out.Advisories[0].Message, "Could not load participating rows")
}

func TestYearlyCapacityFailureDegradesToRaw(t *testing.T) {
	store := championshipStore()
	// The first call discovers competitions; the second derives capacity.
	store.ctxErr = errors.New("capacity query timeout")
	store.ctxErrAt = 2

	out := newService(store).YearlyRanking(context.Background(), "Y1", "R1")

	assert.Equal(t, model.BasisRaw, out.Basis)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, model.AverageScore{Participant: "Bob (P2)", Average: 48, Records: 1}, out.Rows[0])
	assert.Equal(t, model.AverageScore{Participant: "Alice (P1)", Average: 45, Records: 2}, out.Rows[1])

	assert.False(t, out.Failed(), "a populated raw leaderboard is not a store failure")
	require.Len(t, out.Advisories, 2)
	for _, a := range out.Advisories {
		assert.Equal(t, Indeterminate, a.Kind)
	}
	assert.Contains(t, out.Advisories[0].Message, "capacity query timeout")
	assert.Len(t, store.ctxQuery, 2)
}
