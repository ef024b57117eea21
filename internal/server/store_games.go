package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/gotale/api/internal/gotale"
)

func (s *SQLiteStore) ListGames(ctx context.Context, userID string, all bool) ([]GameSummary, error) {
	query := `
		SELECT g.id, g.user_id, g.scenario_id, sc.title, g.ended_at, g.created_at
		FROM games g
		JOIN scenarios sc ON sc.id = g.scenario_id
		WHERE g.user_id = ?
		ORDER BY g.created_at DESC
	`
	args := []any{userID}
	if all {
		query = `
			SELECT g.id, g.user_id, g.scenario_id, sc.title, g.ended_at, g.created_at
			FROM games g
			JOIN scenarios sc ON sc.id = g.scenario_id
			ORDER BY g.created_at DESC
		`
		args = nil
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []GameSummary{}
	for rows.Next() {
		var g GameSummary
		var endedAt sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.ScenarioID, &g.ScenarioTitle, &endedAt, &g.CreatedAt); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			g.EndedAt = &endedAt.String
		}
		g.Status = string(gotale.StatusOf(endedAt.Valid))
		games = append(games, g)
	}
	return games, rows.Err()
}

// CreateGame starts a traversal of the scenario with the cursor on its root
// step. A scenario whose root has no outgoing choices produces a game that
// is already over.
func (s *SQLiteStore) CreateGame(ctx context.Context, userID, scenarioID string) (GameResponse, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return GameResponse{}, err
	}
	defer tx.Rollback()

	var rootStepID sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT root_step_id FROM scenarios WHERE id = ?
	`, scenarioID).Scan(&rootStepID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !rootStepID.Valid) {
		return GameResponse{}, ErrNotFound
	}
	if err != nil {
		return GameResponse{}, err
	}

	var rootChoices int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM choices WHERE step_id = ?
	`, rootStepID.String).Scan(&rootChoices)
	if err != nil {
		return GameResponse{}, err
	}

	gameID := uuid.NewString()
	if rootChoices == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO games (id, user_id, scenario_id, current_step_id, ended_at)
			VALUES (?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		`, gameID, userID, scenarioID, rootStepID.String)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO games (id, user_id, scenario_id, current_step_id)
			VALUES (?, ?, ?, ?)
		`, gameID, userID, scenarioID, rootStepID.String)
	}
	if err != nil {
		return GameResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return GameResponse{}, err
	}
	return s.GetGame(ctx, gameID)
}

func (s *SQLiteStore) GetGame(ctx context.Context, id string) (GameResponse, error) {
	var g GameResponse
	var currentStepID, endedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, scenario_id, current_step_id, ended_at, created_at
		FROM games WHERE id = ?
	`, id).Scan(&g.ID, &g.UserID, &g.ScenarioID, &currentStepID, &endedAt, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GameResponse{}, ErrNotFound
	}
	if err != nil {
		return GameResponse{}, err
	}
	if endedAt.Valid {
		g.EndedAt = &endedAt.String
	}
	g.Status = string(gotale.StatusOf(endedAt.Valid))

	if currentStepID.Valid {
		step, err := s.stepDetail(ctx, currentStepID.String)
		if err != nil {
			return GameResponse{}, err
		}
		g.CurrentStep = &step
	}
	return g, nil
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CurrentStep returns the step the game's cursor points at, with its
// outgoing choices. Readable for ended games too; only decisions are gated.
func (s *SQLiteStore) CurrentStep(ctx context.Context, gameID string) (StepResponse, error) {
	var currentStepID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT current_step_id FROM games WHERE id = ?
	`, gameID).Scan(&currentStepID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !currentStepID.Valid) {
		return StepResponse{}, ErrNotFound
	}
	if err != nil {
		return StepResponse{}, err
	}
	return s.stepDetail(ctx, currentStepID.String)
}

// Advance applies one decision as a single transaction: the history record
// is appended for the step the player is leaving, the cursor moves to the
// choice's target, and the game ends if that target has no choices of its
// own. The cursor update is guarded against the value observed at the start
// of the transaction, so of two racing decisions exactly one commits; the
// other rolls back (history insert included) with ErrDecisionConflict.
// A racing loser can also fail earlier, on the lock the winner's write
// holds; that surfaces as the same conflict.
func (s *SQLiteStore) Advance(ctx context.Context, gameID, choiceID string) (StepResponse, error) {
	step, err := s.advance(ctx, gameID, choiceID)
	if isLockedError(err) {
		return StepResponse{}, ErrDecisionConflict
	}
	return step, err
}

func (s *SQLiteStore) advance(ctx context.Context, gameID, choiceID string) (StepResponse, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return StepResponse{}, err
	}
	defer tx.Rollback()

	var currentStepID, endedAt sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT current_step_id, ended_at FROM games WHERE id = ?
	`, gameID).Scan(&currentStepID, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StepResponse{}, ErrNotFound
	}
	if err != nil {
		return StepResponse{}, err
	}
	if endedAt.Valid || !currentStepID.Valid {
		return StepResponse{}, ErrGameEnded
	}

	var choiceStepID, nextStepID string
	err = tx.QueryRowContext(ctx, `
		SELECT step_id, next_id FROM choices WHERE id = ?
	`, choiceID).Scan(&choiceStepID, &nextStepID)
	if errors.Is(err, sql.ErrNoRows) {
		return StepResponse{}, ErrNotFound
	}
	if err != nil {
		return StepResponse{}, err
	}
	if choiceStepID != currentStepID.String {
		return StepResponse{}, ErrInvalidChoice
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, game_id, step_id, choice_id)
		VALUES (?, ?, ?, ?)
	`, uuid.NewString(), gameID, currentStepID.String, choiceID)
	if err != nil {
		return StepResponse{}, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE games SET current_step_id = ?
		WHERE id = ? AND current_step_id = ? AND ended_at IS NULL
	`, nextStepID, gameID, currentStepID.String)
	if err != nil {
		return StepResponse{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return StepResponse{}, ErrDecisionConflict
	}

	var nextChoices int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM choices WHERE step_id = ?
	`, nextStepID).Scan(&nextChoices)
	if err != nil {
		return StepResponse{}, err
	}
	if nextChoices == 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE games SET ended_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE id = ?
		`, gameID)
		if err != nil {
			return StepResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return StepResponse{}, err
	}
	return s.stepDetail(ctx, nextStepID)
}

// GameHistory lists the game's decision log, newest first. Step and choice
// references are snapshots: if the underlying graph content is later
// removed, the record survives with the reference nulled out.
func (s *SQLiteStore) GameHistory(ctx context.Context, gameID string) ([]HistoryEntry, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.step_id, COALESCE(st.title, ''), h.choice_id, COALESCE(c.text, ''), h.created_at
		FROM history h
		LEFT JOIN steps st ON st.id = h.step_id
		LEFT JOIN choices c ON c.id = h.choice_id
		WHERE h.game_id = ?
		ORDER BY h.created_at DESC, h.rowid DESC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var stepID, choiceID sql.NullString
		if err := rows.Scan(&e.ID, &stepID, &e.StepTitle, &choiceID, &e.ChoiceText, &e.CreatedAt); err != nil {
			return nil, err
		}
		if stepID.Valid {
			e.StepID = &stepID.String
		}
		if choiceID.Valid {
			e.ChoiceID = &choiceID.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
