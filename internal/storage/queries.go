package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pable/go-archery-stats/internal/model"
)

// participationSelect inner-joins the event context and the archer → account
// chain, so a participation missing any of them is never returned.
const participationSelect = `
	SELECT p.participating_id, p.archer_id, p.type, p.fullname, p.sum_score,
	       p.score_1st_arrow, p.score_2nd_arrow, p.score_3rd_arrow,
	       p.score_4th_arrow, p.score_5th_arrow, p.score_6th_arrow,
	       ec.event_context_id, ec.club_competition_id, ec.yearly_club_championship_id,
	       ec.round_id, ec.range_id, ec.end_order,
	       a.archer_id, acc.account_id, acc.fullname
	FROM participating p
	JOIN event_context ec ON ec.event_context_id = p.event_context_id
	JOIN archer a ON a.archer_id = p.archer_id
	JOIN account acc ON acc.account_id = a.account_id
	WHERE p.type = `

// Participations returns the competition-type participations matching q,
// ordered by participation id.
func (db *DB) Participations(ctx context.Context, q model.ParticipationQuery) ([]model.ParticipationRecord, error) {
	b := db.newBuilder(participationSelect)
	b.write(b.arg(model.TypeCompetition))
	if q.ClubCompetitionIDs != nil {
		if len(q.ClubCompetitionIDs) == 0 {
			return nil, nil
		}
		b.write(" AND ec.club_competition_id IN ", b.in(q.ClubCompetitionIDs))
	}
	if q.RoundID != "" {
		b.write(" AND ec.round_id = ", b.arg(q.RoundID))
	}
	if q.ParticipationID != "" {
		b.write(" AND p.participating_id = ", b.arg(q.ParticipationID))
	}
	b.write(" ORDER BY p.participating_id")

	rows, err := db.conn.QueryContext(ctx, b.String(), b.args...)
	if err != nil {
		return nil, fmt.Errorf("query participations: %w", err)
	}
	defer rows.Close()

	var out []model.ParticipationRecord
	for rows.Next() {
		var (
			pid, archerID, typ, flatName       sql.NullString
			sumScore                           sql.NullInt64
			arrows                             [model.ArrowsPerEnd]sql.NullInt64
			ecID, compID, ycID, roundID, rngID sql.NullString
			endOrder                           sql.NullInt64
			joinedArcher, accountID, fullName  sql.NullString
		)
		if err := rows.Scan(
			&pid, &archerID, &typ, &flatName, &sumScore,
			&arrows[0], &arrows[1], &arrows[2], &arrows[3], &arrows[4], &arrows[5],
			&ecID, &compID, &ycID, &roundID, &rngID, &endOrder,
			&joinedArcher, &accountID, &fullName,
		); err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}

		var scores model.ArrowScores
		for i, a := range arrows {
			scores[i] = nullInt(a)
		}
		out = append(out, model.ParticipationRecord{
			ParticipationID: pid.String,
			ArcherID:        archerID.String,
			Type:            typ.String,
			FullName:        flatName.String,
			Arrows:          &scores,
			SumScore:        nullInt(sumScore),
			Archer: &model.Archer{
				ID:      joinedArcher.String,
				Account: &model.Account{ID: accountID.String, FullName: fullName.String},
			},
			Context: &model.EventContext{
				ID:                   ecID.String,
				ClubCompetitionID:    compID.String,
				YearlyChampionshipID: ycID.String,
				RoundID:              roundID.String,
				RangeID:              rngID.String,
				EndOrder:             nullInt(endOrder),
			},
		})
	}
	return out, rows.Err()
}

// EventContexts returns the event contexts matching q, ordered by id.
func (db *DB) EventContexts(ctx context.Context, q model.EventContextQuery) ([]model.EventContext, error) {
	b := db.newBuilder(`
		SELECT event_context_id, club_competition_id, yearly_club_championship_id,
		       round_id, range_id, end_order
		FROM event_context WHERE 1=1`)
	if q.RoundID != "" {
		b.write(" AND round_id = ", b.arg(q.RoundID))
	}
	if q.YearlyChampionshipID != "" {
		b.write(" AND yearly_club_championship_id = ", b.arg(q.YearlyChampionshipID))
	}
	b.write(" ORDER BY event_context_id")

	rows, err := db.conn.QueryContext(ctx, b.String(), b.args...)
	if err != nil {
		return nil, fmt.Errorf("query event contexts: %w", err)
	}
	defer rows.Close()

	var out []model.EventContext
	for rows.Next() {
		var id, compID, ycID, roundID, rngID sql.NullString
		var endOrder sql.NullInt64
		if err := rows.Scan(&id, &compID, &ycID, &roundID, &rngID, &endOrder); err != nil {
			return nil, fmt.Errorf("scan event context: %w", err)
		}
		out = append(out, model.EventContext{
			ID:                   id.String,
			ClubCompetitionID:    compID.String,
			YearlyChampionshipID: ycID.String,
			RoundID:              roundID.String,
			RangeID:              rngID.String,
			EndOrder:             nullInt(endOrder),
		})
	}
	return out, rows.Err()
}

// CategoryScores returns the precomputed distribution of a category in
// insertion order. Rows missing the archer or the score are skipped.
func (db *DB) CategoryScores(ctx context.Context, categoryID string) ([]model.CategoryScore, error) {
	b := db.newBuilder(`
		SELECT archer_id, category_id, percentile
		FROM category_rating_percentile
		WHERE archer_id IS NOT NULL AND percentile IS NOT NULL AND category_id = `)
	b.write(b.arg(categoryID), " ORDER BY id")

	rows, err := db.conn.QueryContext(ctx, b.String(), b.args...)
	if err != nil {
		return nil, fmt.Errorf("query category scores: %w", err)
	}
	defer rows.Close()

	var out []model.CategoryScore
	for rows.Next() {
		var c model.CategoryScore
		if err := rows.Scan(&c.ArcherID, &c.CategoryID, &c.Score); err != nil {
			return nil, fmt.Errorf("scan category score: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
