package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ip(v int) *int { return &v }

func TestScoreSumsArrows(t *testing.T) {
	r := ParticipationRecord{
		Arrows:   &ArrowScores{ip(10), ip(9), nil, ip(8), nil, ip(7)},
		SumScore: ip(99),
	}
	assert.Equal(t, 34, r.Score(), "arrow reconstruction wins over the stored total; null arrows count 0")
}

func TestScoreAllNullArrows(t *testing.T) {
	r := ParticipationRecord{Arrows: &ArrowScores{}, SumScore: ip(42)}
	assert.Equal(t, 0, r.Score())
}

func TestScoreFallsBackToTotal(t *testing.T) {
	assert.Equal(t, 42, ParticipationRecord{SumScore: ip(42)}.Score())
	assert.Equal(t, 0, ParticipationRecord{}.Score())
}

func TestLabel(t *testing.T) {
	withAccount := &Archer{ID: "A1", Account: &Account{ID: "U1", FullName: "Jane Doe"}}
	cases := []struct {
		name string
		rec  ParticipationRecord
		want string
	}{
		{"account name with id", ParticipationRecord{ParticipationID: "17", Archer: withAccount}, "Jane Doe (17)"},
		{"account name without id", ParticipationRecord{Archer: withAccount}, "Jane Doe"},
		{"missing account falls back to flat name", ParticipationRecord{ParticipationID: "3", FullName: "J. Doe", Archer: &Archer{ID: "A1"}}, "J. Doe (3)"},
		{"empty account name falls back", ParticipationRecord{FullName: "Flat", Archer: &Archer{Account: &Account{}}}, "Flat"},
		{"nothing resolves", ParticipationRecord{ParticipationID: "5"}, "Unknown (5)"},
		{"nothing at all", ParticipationRecord{}, "Unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.rec.Label()
			assert.Equal(t, tc.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestLabelStable(t *testing.T) {
	a := ParticipationRecord{ParticipationID: "9", FullName: "Sam", ArcherID: "A1"}
	b := ParticipationRecord{ParticipationID: "9", FullName: "Sam", ArcherID: "A2"}
	assert.Equal(t, a.Label(), b.Label(), "labels ignore archer identifiers")
}

func TestAverageBasis(t *testing.T) {
	assert.Equal(t, "normalized_avg", BasisNormalized.ColumnName())
	assert.Equal(t, "raw_avg", BasisRaw.ColumnName())
	text, err := BasisRaw.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "raw", string(text))
	assert.Equal(t, "none", BasisNone.String())
}
