package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse aggregates every independent validation finding.
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Gotale API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for Gotale, a choose-your-own-adventure game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates a user account.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with email and password. Returns a Bearer session token.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(LoginResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Invalidates the current session token.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postLogout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the currently authenticated user.")
	getMe.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/locations
	listLocations, _ := r.NewOperationContext(http.MethodGet, "/api/locations")
	listLocations.SetSummary("List locations")
	listLocations.AddRespStructure([]LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listLocations)

	// POST /api/locations
	createLocation, _ := r.NewOperationContext(http.MethodPost, "/api/locations")
	createLocation.SetSummary("Create location")
	createLocation.SetDescription("Registers a named geo point. Coordinates must be unique. Admin only.")
	createLocation.AddReqStructure(LocationRequest{})
	createLocation.AddRespStructure(LocationResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createLocation.AddRespStructure(ValidationErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	createLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(createLocation)

	// GET /api/locations/{id}
	getLocation, _ := r.NewOperationContext(http.MethodGet, "/api/locations/{id}")
	getLocation.SetSummary("Get location")
	getLocation.AddRespStructure(LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getLocation)

	// PUT /api/locations/{id}
	updateLocation, _ := r.NewOperationContext(http.MethodPut, "/api/locations/{id}")
	updateLocation.SetSummary("Update location")
	updateLocation.SetDescription("Admin only.")
	updateLocation.AddReqStructure(LocationRequest{})
	updateLocation.AddRespStructure(LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	updateLocation.AddRespStructure(ValidationErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateLocation)

	// DELETE /api/locations/{id}
	deleteLocation, _ := r.NewOperationContext(http.MethodDelete, "/api/locations/{id}")
	deleteLocation.SetSummary("Delete location")
	deleteLocation.SetDescription("Steps that reference the location keep existing with no location. Admin only.")
	deleteLocation.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteLocation)

	// GET /api/scenarios
	listScenarios, _ := r.NewOperationContext(http.MethodGet, "/api/scenarios")
	listScenarios.SetSummary("List scenarios")
	listScenarios.AddRespStructure([]ScenarioSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listScenarios)

	// POST /api/scenarios
	createScenario, _ := r.NewOperationContext(http.MethodPost, "/api/scenarios")
	createScenario.SetSummary("Create scenario")
	createScenario.SetDescription("Validates and persists a whole step graph atomically. " +
		"Step ids in the request are submission-scoped and remapped to durable ids.")
	createScenario.AddReqStructure(ScenarioCreateRequest{})
	createScenario.AddRespStructure(ScenarioDetail{}, openapi.WithHTTPStatus(http.StatusCreated))
	createScenario.AddRespStructure(ValidationErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createScenario)

	// GET /api/scenarios/{id}
	getScenario, _ := r.NewOperationContext(http.MethodGet, "/api/scenarios/{id}")
	getScenario.SetSummary("Get scenario")
	getScenario.AddRespStructure(ScenarioDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getScenario)

	// DELETE /api/scenarios/{id}
	deleteScenario, _ := r.NewOperationContext(http.MethodDelete, "/api/scenarios/{id}")
	deleteScenario.SetSummary("Delete scenario")
	deleteScenario.SetDescription("Deletes the scenario and its whole step graph. Author or admin only.")
	deleteScenario.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	deleteScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteScenario)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns the caller's games; admins see all games.")
	listGames.AddRespStructure([]GameSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listGames)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start game")
	createGame.SetDescription("Starts a traversal of a scenario with the cursor on its root step.")
	createGame.AddReqStructure(GameCreateRequest{})
	createGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(createGame)

	// GET /api/games/{id}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}")
	getGame.SetSummary("Get game")
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{id}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{id}")
	deleteGame.SetSummary("Delete game")
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// GET /api/games/{id}/step
	getStep, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}/step")
	getStep.SetSummary("Current step")
	getStep.SetDescription("Returns the step the game's cursor points at, with its choices. " +
		"Readable even after the game has ended.")
	getStep.AddRespStructure(StepResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getStep.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getStep)

	// POST /api/games/{id}/step
	postStep, _ := r.NewOperationContext(http.MethodPost, "/api/games/{id}/step")
	postStep.SetSummary("Make decision")
	postStep.SetDescription("Takes one of the current step's choices, records it in the game's " +
		"history and moves the cursor. Rejected once the game has ended.")
	postStep.AddReqStructure(DecisionRequest{})
	postStep.AddRespStructure(StepResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStep.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postStep.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postStep.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStep)

	// GET /api/games/{id}/history
	getHistory, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}/history")
	getHistory.SetSummary("Decision history")
	getHistory.SetDescription("Returns the game's decision log, newest first.")
	getHistory.AddRespStructure([]HistoryEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	getHistory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getHistory)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
