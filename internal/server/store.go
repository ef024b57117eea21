package server

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrGameEnded rejects decisions on a game whose cursor already sits
	// on a terminal step.
	ErrGameEnded = errors.New("game already ended")

	// ErrInvalidChoice rejects a choice that exists but does not hang off
	// the game's current step.
	ErrInvalidChoice = errors.New("choice does not belong to the current step")

	// ErrDecisionConflict is returned to the loser of two simultaneous
	// decisions racing on one game.
	ErrDecisionConflict = errors.New("another decision was made concurrently")

	ErrDuplicateCoordinates = errors.New("a location with these coordinates already exists")
	ErrDuplicateUser        = errors.New("email or username already registered")
)

// Store is the persistence boundary. SQLiteStore is the only production
// implementation; the interface exists so handlers stay testable and the
// storage engine stays swappable.
type Store interface {
	// Users and sessions.
	CreateUser(ctx context.Context, email, username, passwordHash string, isAdmin bool) (UserResponse, error)
	UserCredentials(ctx context.Context, email string) (id, passwordHash string, err error)
	CreateSession(ctx context.Context, userID string) (token string, err error)
	DeleteSession(ctx context.Context, token string) error
	PrincipalFromToken(ctx context.Context, token string) (principal, error)

	// Location registry.
	ListLocations(ctx context.Context) ([]LocationResponse, error)
	CreateLocation(ctx context.Context, createdBy string, req LocationRequest) (LocationResponse, error)
	GetLocation(ctx context.Context, id string) (LocationResponse, error)
	UpdateLocation(ctx context.Context, id, modifiedBy string, req LocationRequest) (LocationResponse, error)
	DeleteLocation(ctx context.Context, id string) error

	// Scenario graphs.
	ListScenarios(ctx context.Context) ([]ScenarioSummary, error)
	CreateScenario(ctx context.Context, authorID string, req ScenarioCreateRequest) (ScenarioDetail, error)
	GetScenario(ctx context.Context, id string) (ScenarioDetail, error)
	DeleteScenario(ctx context.Context, id string) error

	// Games and decisions.
	ListGames(ctx context.Context, userID string, all bool) ([]GameSummary, error)
	CreateGame(ctx context.Context, userID, scenarioID string) (GameResponse, error)
	GetGame(ctx context.Context, id string) (GameResponse, error)
	DeleteGame(ctx context.Context, id string) error
	CurrentStep(ctx context.Context, gameID string) (StepResponse, error)
	Advance(ctx context.Context, gameID, choiceID string) (StepResponse, error)
	GameHistory(ctx context.Context, gameID string) ([]HistoryEntry, error)
}
