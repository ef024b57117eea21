package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gotale/api/internal/gotale"
)

func (s *SQLiteStore) ListScenarios(ctx context.Context) ([]ScenarioSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sc.id, sc.title, sc.description, sc.author_id,
			(SELECT COUNT(*) FROM steps st WHERE st.scenario_id = sc.id),
			sc.created_at
		FROM scenarios sc
		ORDER BY sc.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenarios := []ScenarioSummary{}
	for rows.Next() {
		var sc ScenarioSummary
		var authorID sql.NullString
		if err := rows.Scan(&sc.ID, &sc.Title, &sc.Description, &authorID, &sc.StepCount, &sc.CreatedAt); err != nil {
			return nil, err
		}
		if authorID.Valid {
			sc.AuthorID = &authorID.String
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}

// CreateScenario validates the submitted step graph and persists it in one
// transaction: scenario stub first, then all steps (receiving durable ids,
// submission order preserved), then the root backfill, then all choices
// with their local "next" ids resolved through the new step ids. Either the
// whole graph lands or nothing does.
func (s *SQLiteStore) CreateScenario(ctx context.Context, authorID string, req ScenarioCreateRequest) (ScenarioDetail, error) {
	root, verrs := gotale.ValidateGraph(req.Steps)
	if verrs != nil {
		return ScenarioDetail{}, verrs
	}
	if verrs := s.checkStepLocations(ctx, req.Steps); verrs != nil {
		return ScenarioDetail{}, verrs
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return ScenarioDetail{}, err
	}
	defer tx.Rollback()

	scenarioID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO scenarios (id, title, description, author_id)
		VALUES (?, ?, ?, ?)
	`, scenarioID, req.Title, req.Description, authorID)
	if err != nil {
		return ScenarioDetail{}, err
	}

	// Local submission ids never reach storage; every step gets a fresh
	// durable id and edges are rewritten through this mapping.
	stepIDs := make(map[int]string, len(req.Steps))
	for i, spec := range req.Steps {
		stepIDs[spec.ID] = uuid.NewString()
		var location any
		if spec.Location != "" {
			location = spec.Location
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO steps (id, scenario_id, title, description, location_id, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, stepIDs[spec.ID], scenarioID, spec.Title, spec.Description, location, i)
		if err != nil {
			return ScenarioDetail{}, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE scenarios SET root_step_id = ? WHERE id = ?
	`, stepIDs[root], scenarioID)
	if err != nil {
		return ScenarioDetail{}, err
	}

	for _, spec := range req.Steps {
		for i, c := range spec.Choices {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO choices (id, step_id, text, next_id, position)
				VALUES (?, ?, ?, ?, ?)
			`, uuid.NewString(), stepIDs[spec.ID], c.Text, stepIDs[c.Next], i)
			if err != nil {
				return ScenarioDetail{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return ScenarioDetail{}, err
	}
	return s.GetScenario(ctx, scenarioID)
}

// checkStepLocations verifies that every location a step names exists.
// Reported alongside the structural checks rather than as a raw FK failure
// mid-transaction.
func (s *SQLiteStore) checkStepLocations(ctx context.Context, steps []gotale.StepSpec) gotale.ValidationErrors {
	var errs gotale.ValidationErrors
	seen := map[string]bool{}
	for _, spec := range steps {
		if spec.Location == "" || seen[spec.Location] {
			continue
		}
		seen[spec.Location] = true
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM locations WHERE id = ?`, spec.Location).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			errs = append(errs, fmt.Sprintf("Step %d references unknown location %s.", spec.ID, spec.Location))
		}
	}
	return errs
}

func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (ScenarioDetail, error) {
	var d ScenarioDetail
	var rootStepID sql.NullString
	var author UserResponse
	var authorID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT sc.id, sc.title, sc.description, sc.root_step_id, sc.created_at, sc.modified_at,
			u.id, COALESCE(u.email, ''), COALESCE(u.username, ''), COALESCE(u.is_admin, 0)
		FROM scenarios sc
		LEFT JOIN users u ON u.id = sc.author_id
		WHERE sc.id = ?
	`, id).Scan(&d.ID, &d.Title, &d.Description, &rootStepID, &d.CreatedAt, &d.ModifiedAt,
		&authorID, &author.Email, &author.Username, &author.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return ScenarioDetail{}, ErrNotFound
	}
	if err != nil {
		return ScenarioDetail{}, err
	}
	if authorID.Valid {
		author.ID = authorID.String
		d.Author = &author
	}

	if rootStepID.Valid {
		step, err := s.stepDetail(ctx, rootStepID.String)
		if err != nil {
			return ScenarioDetail{}, err
		}
		d.RootStep = &step
	}
	return d, nil
}

// DeleteScenario removes the scenario and, through FK cascades, its whole
// step/choice graph and any games played against it.
func (s *SQLiteStore) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// stepDetail loads a step with its location and outgoing choices. The
// choices never expose their target step.
func (s *SQLiteStore) stepDetail(ctx context.Context, stepID string) (StepResponse, error) {
	var step StepResponse
	var locationID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, location_id FROM steps WHERE id = ?
	`, stepID).Scan(&step.ID, &step.Title, &step.Description, &locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return StepResponse{}, ErrNotFound
	}
	if err != nil {
		return StepResponse{}, err
	}

	if locationID.Valid {
		location, err := s.GetLocation(ctx, locationID.String)
		if err != nil {
			return StepResponse{}, err
		}
		step.Location = &location
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text FROM choices WHERE step_id = ? ORDER BY position
	`, stepID)
	if err != nil {
		return StepResponse{}, err
	}
	defer rows.Close()

	step.Choices = []ChoiceResponse{}
	for rows.Next() {
		var c ChoiceResponse
		if err := rows.Scan(&c.ID, &c.Text); err != nil {
			return StepResponse{}, err
		}
		step.Choices = append(step.Choices, c)
	}
	return step, rows.Err()
}
