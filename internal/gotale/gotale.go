// Package gotale defines the core domain types and the scenario graph
// rules.
package gotale

// MaxChoicesPerStep bounds the fan-out of a single step.
const MaxChoicesPerStep = 4

type GameStatus string

const (
	GameStatusRunning GameStatus = "running"
	GameStatusEnded   GameStatus = "ended"
)

// StatusOf derives the game status from the end timestamp. A game is ended
// exactly when its cursor has landed on a step with no outgoing choices,
// which is also the moment the end timestamp is set.
func StatusOf(ended bool) GameStatus {
	if ended {
		return GameStatusEnded
	}
	return GameStatusRunning
}

// ValidCoordinates reports the problems with a latitude/longitude pair.
// An empty result means the pair is on the globe.
func ValidCoordinates(latitude, longitude float64) ValidationErrors {
	var errs ValidationErrors
	if latitude < -90 || latitude > 90 {
		errs = append(errs, "Latitude must be between -90 and 90.")
	}
	if longitude < -180 || longitude > 180 {
		errs = append(errs, "Longitude must be between -180 and 180.")
	}
	return errs
}
