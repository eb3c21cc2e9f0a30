package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-archery-stats/internal/model"
)

// Snapshot is a bulk fixture of store rows, read from YAML by LoadSnapshot.
type Snapshot struct {
	Accounts            []SnapshotAccount       `yaml:"accounts"`
	Archers             []SnapshotArcher        `yaml:"archers"`
	ClubCompetitions    []SnapshotNamed         `yaml:"club_competitions"`
	YearlyChampionships []SnapshotNamed         `yaml:"yearly_championships"`
	Rounds              []SnapshotNamed         `yaml:"rounds"`
	Categories          []string                `yaml:"categories"`
	EventContexts       []SnapshotEventContext  `yaml:"event_contexts"`
	Participations      []SnapshotParticipation `yaml:"participations"`
	CategoryPercentiles []SnapshotPercentile    `yaml:"category_percentiles"`
}

type SnapshotAccount struct {
	ID       string `yaml:"id"`
	FullName string `yaml:"fullname"`
	Role     string `yaml:"role"`
}

type SnapshotArcher struct {
	ID        string `yaml:"id"`
	AccountID string `yaml:"account_id"`
}

type SnapshotNamed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type SnapshotEventContext struct {
	ID                   string `yaml:"id"`
	ClubCompetitionID    string `yaml:"club_competition_id"`
	YearlyChampionshipID string `yaml:"yearly_championship_id"`
	RoundID              string `yaml:"round_id"`
	RangeID              string `yaml:"range_id"`
	EndOrder             *int   `yaml:"end_order"`
}

type SnapshotParticipation struct {
	ID             string `yaml:"id"`
	ArcherID       string `yaml:"archer_id"`
	EventContextID string `yaml:"event_context_id"`
	Type           string `yaml:"type"`
	FullName       string `yaml:"fullname"`
	SumScore       *int   `yaml:"sum_score"`
	Arrows         []*int `yaml:"arrows"` // empty, or exactly six entries (null allowed)
}

type SnapshotPercentile struct {
	ArcherID   string   `yaml:"archer_id"`
	CategoryID string   `yaml:"category_id"`
	Percentile *float64 `yaml:"percentile"`
}

// LoadSnapshot reads a YAML snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	for _, p := range s.Participations {
		if n := len(p.Arrows); n != 0 && n != model.ArrowsPerEnd {
			return nil, fmt.Errorf("participation %s: want %d arrows, got %d", p.ID, model.ArrowsPerEnd, n)
		}
	}
	return &s, nil
}

// ImportSnapshot upserts every row of the snapshot in one transaction.
// Category percentile rows are appended.
func (db *DB) ImportSnapshot(ctx context.Context, s *Snapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	exec := func(what string, stmt string, args ...any) error {
		if _, err := tx.ExecContext(ctx, db.rebind(stmt), args...); err != nil {
			return fmt.Errorf("insert %s: %w", what, err)
		}
		return nil
	}

	for _, a := range s.Accounts {
		role := a.Role
		if role == "" {
			role = "archer"
		}
		if err := exec("account "+a.ID, `
			INSERT INTO account(account_id, fullname, role) VALUES (?, ?, ?)
			ON CONFLICT (account_id) DO UPDATE SET fullname = EXCLUDED.fullname, role = EXCLUDED.role`,
			a.ID, nullString(a.FullName), role); err != nil {
			return err
		}
	}
	for _, a := range s.Archers {
		if err := exec("archer "+a.ID, `
			INSERT INTO archer(archer_id, account_id) VALUES (?, ?)
			ON CONFLICT (archer_id) DO UPDATE SET account_id = EXCLUDED.account_id`,
			a.ID, nullString(a.AccountID)); err != nil {
			return err
		}
	}
	named := []struct {
		table, key string
		rows       []SnapshotNamed
	}{
		{"club_competition", "club_competition_id", s.ClubCompetitions},
		{"yearly_club_championship", "yearly_club_championship_id", s.YearlyChampionships},
		{"round", "round_id", s.Rounds},
	}
	for _, n := range named {
		for _, r := range n.rows {
			stmt := fmt.Sprintf(`INSERT INTO %s(%s, name) VALUES (?, ?)
				ON CONFLICT (%s) DO UPDATE SET name = EXCLUDED.name`, n.table, n.key, n.key)
			if err := exec(n.table+" "+r.ID, stmt, r.ID, r.Name); err != nil {
				return err
			}
		}
	}
	for _, c := range s.Categories {
		if err := exec("category "+c, `
			INSERT INTO category(category_id) VALUES (?) ON CONFLICT (category_id) DO NOTHING`, c); err != nil {
			return err
		}
	}
	for _, e := range s.EventContexts {
		if err := exec("event_context "+e.ID, `
			INSERT INTO event_context(event_context_id, club_competition_id, yearly_club_championship_id, round_id, range_id, end_order)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (event_context_id) DO UPDATE SET
				club_competition_id = EXCLUDED.club_competition_id,
				yearly_club_championship_id = EXCLUDED.yearly_club_championship_id,
				round_id = EXCLUDED.round_id,
				range_id = EXCLUDED.range_id,
				end_order = EXCLUDED.end_order`,
			e.ID, nullString(e.ClubCompetitionID), nullString(e.YearlyChampionshipID),
			nullString(e.RoundID), nullString(e.RangeID), e.EndOrder); err != nil {
			return err
		}
	}
	for _, p := range s.Participations {
		typ := p.Type
		if typ == "" {
			typ = model.TypeCompetition
		}
		arrows := make([]any, model.ArrowsPerEnd)
		for i := range arrows {
			if i < len(p.Arrows) && p.Arrows[i] != nil {
				arrows[i] = *p.Arrows[i]
			}
		}
		args := append([]any{
			p.ID, nullString(p.ArcherID), nullString(p.EventContextID), typ, nullString(p.FullName), p.SumScore,
		}, arrows...)
		if err := exec("participating "+p.ID, `
			INSERT INTO participating(participating_id, archer_id, event_context_id, type, fullname, sum_score,
				score_1st_arrow, score_2nd_arrow, score_3rd_arrow, score_4th_arrow, score_5th_arrow, score_6th_arrow)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (participating_id) DO UPDATE SET
				archer_id = EXCLUDED.archer_id,
				event_context_id = EXCLUDED.event_context_id,
				type = EXCLUDED.type,
				fullname = EXCLUDED.fullname,
				sum_score = EXCLUDED.sum_score,
				score_1st_arrow = EXCLUDED.score_1st_arrow,
				score_2nd_arrow = EXCLUDED.score_2nd_arrow,
				score_3rd_arrow = EXCLUDED.score_3rd_arrow,
				score_4th_arrow = EXCLUDED.score_4th_arrow,
				score_5th_arrow = EXCLUDED.score_5th_arrow,
				score_6th_arrow = EXCLUDED.score_6th_arrow`, args...); err != nil {
			return err
		}
	}
	for _, c := range s.CategoryPercentiles {
		if err := exec("category_rating_percentile", `
			INSERT INTO category_rating_percentile(archer_id, category_id, percentile) VALUES (?, ?, ?)`,
			nullString(c.ArcherID), c.CategoryID, c.Percentile); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// rebind rewrites "?" placeholders to "$n" for Postgres.
func (db *DB) rebind(stmt string) string {
	if db.driver != DriverPostgres {
		return stmt
	}
	b := db.newBuilder("")
	for _, r := range stmt {
		if r == '?' {
			b.write(b.arg(nil))
			continue
		}
		b.sb.WriteRune(r)
	}
	return b.String()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
