package model

import (
	"fmt"
	"strings"
)

// ArrowsPerEnd is the number of scored arrows shot in one end.
const ArrowsPerEnd = 6

// MaxArrowScore is the highest value a single arrow can score.
const MaxArrowScore = 10

// TypeCompetition is the participation type tag of in-scope records.
const TypeCompetition = "competition"

// UnknownName is the display name used when no name can be resolved.
const UnknownName = "Unknown"

// ---- Entities read from the data store ----

// Account is the identity behind an archer. Only the display name is consumed.
type Account struct {
	ID       string
	FullName string // "" if not set
}

// Archer links a participation to an account.
type Archer struct {
	ID      string
	Account *Account // nil if the account link is missing
}

// EventContext is the competitive slot a participation belongs to.
type EventContext struct {
	ID                   string
	ClubCompetitionID    string
	YearlyChampionshipID string
	RoundID              string
	RangeID              string
	EndOrder             *int // nil if the end position is not defined
}

// ArrowScores holds the six per-arrow scores of one end. A nil entry is an
// arrow whose score is null; it counts as 0.
type ArrowScores [ArrowsPerEnd]*int

// ParticipationRecord is one archer's entry in one event context.
type ParticipationRecord struct {
	ParticipationID string // "" if absent
	ArcherID        string
	Type            string
	FullName        string       // flat fallback name stored on the record
	Arrows          *ArrowScores // nil when the per-arrow fields were not fetched
	SumScore        *int         // precomputed total, nil if absent
	Archer          *Archer
	Context         *EventContext
}

// Score reduces the record to a single number. When all six arrow fields are
// present their sum wins over the stored total; a missing total yields 0.
func (r ParticipationRecord) Score() int {
	if r.Arrows != nil {
		total := 0
		for _, a := range r.Arrows {
			if a != nil {
				total += *a
			}
		}
		return total
	}
	if r.SumScore != nil {
		return *r.SumScore
	}
	return 0
}

// DisplayName walks record → archer → account → name, then falls back to the
// flat name on the record, then to "Unknown".
func (r ParticipationRecord) DisplayName() string {
	if r.Archer != nil && r.Archer.Account != nil && r.Archer.Account.FullName != "" {
		return r.Archer.Account.FullName
	}
	if r.FullName != "" {
		return r.FullName
	}
	return UnknownName
}

// Label is the participant grouping key: "{name} ({participation_id})", or the
// bare name when the record carries no participation identifier. Archers with
// the same name and no identifier share a label and are merged downstream.
func (r ParticipationRecord) Label() string {
	name := r.DisplayName()
	if r.ParticipationID == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, r.ParticipationID)
}

// CategoryScore is one row of the precomputed per-archer category distribution.
type CategoryScore struct {
	ArcherID   string  `json:"archer_id"`
	CategoryID string  `json:"category_id"`
	Score      float64 `json:"c_score"`
}

// ---- Derived, per-request results ----

// EndScore is a participant's summed score in one end position.
type EndScore struct {
	Participant string `json:"participant"`
	EndOrder    int    `json:"end_order"`
	SumScore    int    `json:"sum_score"`
}

// RangeScore is a participant's summed score on one range.
type RangeScore struct {
	Participant string `json:"participant"`
	RangeID     string `json:"range_id"`
	SumScore    int    `json:"sum_score"`
}

// RoundScore is a participant's summed score in one round.
type RoundScore struct {
	Participant string `json:"participant"`
	RoundID     string `json:"round_id"`
	SumScore    int    `json:"sum_score"`
}

// Standing is a participant's summed score in a leaderboard.
type Standing struct {
	Participant string `json:"participant"`
	SumScore    int    `json:"sum_score"`
}

// AverageBasis tells whether a yearly average was normalized by round capacity.
type AverageBasis int

const (
	BasisNone AverageBasis = iota
	BasisNormalized
	BasisRaw
)

func (b AverageBasis) String() string {
	switch b {
	case BasisNormalized:
		return "normalized"
	case BasisRaw:
		return "raw"
	default:
		return "none"
	}
}

// ColumnName is the header used for an average under this basis.
func (b AverageBasis) ColumnName() string {
	if b == BasisNormalized {
		return "normalized_avg"
	}
	return "raw_avg"
}

// MarshalText renders the basis by name in JSON and YAML.
func (b AverageBasis) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// AverageScore is a participant's mean score across competitions.
type AverageScore struct {
	Participant string  `json:"participant"`
	Average     float64 `json:"average"`
	Records     int     `json:"records"` // records averaged; varies per participant
}

// NormalizeID trims an identifier; an all-space identifier counts as absent.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// ---- Store query shapes ----

// ParticipationQuery selects competition-type participations. Every field is
// an AND-ed equality filter; zero values mean "not filtered".
type ParticipationQuery struct {
	ClubCompetitionIDs []string // membership filter on the event context; nil means any
	RoundID            string
	ParticipationID    string
}

// EventContextQuery selects event contexts by round and yearly championship.
type EventContextQuery struct {
	RoundID              string
	YearlyChampionshipID string
}
