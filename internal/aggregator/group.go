package aggregator

import (
	"cmp"
	"slices"

	"github.com/pable/go-archery-stats/internal/model"
)

// keyedSum is the running total of one (participant label, secondary key) group.
type keyedSum[K cmp.Ordered] struct {
	label string
	key   K
	sum   int
}

// sumByLabel groups records by (label, key) and sums their scores. Records
// whose key is absent are dropped. Output is ordered by label, then key.
func sumByLabel[K cmp.Ordered](recs []model.ParticipationRecord, key func(*model.EventContext) (K, bool)) []keyedSum[K] {
	type groupKey struct {
		label string
		key   K
	}
	idx := make(map[groupKey]int)
	var out []keyedSum[K]
	for _, r := range recs {
		k, ok := key(r.Context)
		if !ok {
			continue
		}
		gk := groupKey{r.Label(), k}
		i, seen := idx[gk]
		if !seen {
			i = len(out)
			idx[gk] = i
			out = append(out, keyedSum[K]{label: gk.label, key: k})
		}
		out[i].sum += r.Score()
	}
	slices.SortFunc(out, func(a, b keyedSum[K]) int {
		if c := cmp.Compare(a.label, b.label); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return out
}

// labeledValue is one record's contribution to a per-participant mean.
type labeledValue struct {
	label string
	value float64
}

// meanByLabel averages values per label over however many values each label
// has. Output is ordered by label.
func meanByLabel(vals []labeledValue) []model.AverageScore {
	type acc struct {
		sum float64
		n   int
	}
	accs := make(map[string]*acc)
	var labels []string
	for _, v := range vals {
		a, ok := accs[v.label]
		if !ok {
			a = &acc{}
			accs[v.label] = a
			labels = append(labels, v.label)
		}
		a.sum += v.value
		a.n++
	}
	slices.Sort(labels)
	out := make([]model.AverageScore, 0, len(labels))
	for _, l := range labels {
		a := accs[l]
		out = append(out, model.AverageScore{Participant: l, Average: a.sum / float64(a.n), Records: a.n})
	}
	return out
}

// rankDescending stable-sorts rows by score, highest first. Ties keep the
// order the grouping step produced.
func rankDescending[T any, S cmp.Ordered](rows []T, score func(T) S) {
	slices.SortStableFunc(rows, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
}

func endOrderKey(ec *model.EventContext) (int, bool) {
	if ec == nil || ec.EndOrder == nil {
		return 0, false
	}
	return *ec.EndOrder, true
}

func rangeKey(ec *model.EventContext) (string, bool) {
	if ec == nil || ec.RangeID == "" {
		return "", false
	}
	return ec.RangeID, true
}

func roundKey(ec *model.EventContext) (string, bool) {
	if ec == nil || ec.RoundID == "" {
		return "", false
	}
	return ec.RoundID, true
}

// noKey puts every record in a single group per label.
func noKey(*model.EventContext) (string, bool) {
	return "", true
}
