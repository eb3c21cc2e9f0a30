package aggregator

import (
	"context"

	"github.com/pable/go-archery-stats/internal/model"
)

// Capacity is the derived maximum attainable score of a round. Known is false
// when the round's structure could not be determined; MaxScore is then 0 and
// must not be used as a denominator.
type Capacity struct {
	RoundID  string `json:"round_id"`
	Ends     int    `json:"ends"`
	MaxScore int    `json:"max_score"`
	Known    bool   `json:"known"`
}

// RoundCapacity counts the distinct (range, end order) slots of the round and
// multiplies by six arrows of at most ten points each.
func (s *Service) RoundCapacity(ctx context.Context, roundID string) (Capacity, []Advisory) {
	var advs []Advisory
	roundID = model.NormalizeID(roundID)
	c := Capacity{RoundID: roundID}
	if roundID == "" {
		s.advise(ctx, &advs, MissingInput, "Please select a Round.")
		return c, advs
	}

	ctxs, err := s.store.EventContexts(ctx, model.EventContextQuery{RoundID: roundID})
	if err != nil {
		s.advise(ctx, &advs, StoreFailure, "Could not derive max score for round %s: %v", roundID, err)
		return c, advs
	}

	type slot struct {
		rangeID  string
		endOrder int
	}
	slots := make(map[slot]struct{})
	for _, ec := range ctxs {
		if ec.EndOrder == nil {
			continue
		}
		slots[slot{ec.RangeID, *ec.EndOrder}] = struct{}{}
	}
	if len(slots) == 0 {
		return c, advs
	}
	c.Ends = len(slots)
	c.MaxScore = c.Ends * model.ArrowsPerEnd * model.MaxArrowScore
	c.Known = true
	return c, advs
}
