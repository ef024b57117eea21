package server

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/gotale/api/internal/gotale"
)

// SeedDemo creates a demo admin, location, and scenario on first boot.
// Idempotent: does nothing if any scenarios already exist.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	existing, err := store.ListScenarios(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin, err := store.CreateUser(ctx, "demo@gotale.dev", "demo", string(hash), true)
	if err != nil {
		return err
	}

	loc, err := store.CreateLocation(ctx, admin.ID, LocationRequest{
		Title:       "Plaza Mayor",
		Description: "The old town square.",
		Latitude:    -12.0464,
		Longitude:   -77.0428,
	})
	if err != nil {
		return err
	}

	_, err = store.CreateScenario(ctx, admin.ID, ScenarioCreateRequest{
		Title:       "The Crossroads",
		Description: "A short demo adventure.",
		Steps: []gotale.StepSpec{
			{
				ID:       1,
				Title:    "Crossroads",
				Location: loc.ID,
				Description: "You stand at a fork in the road as the sun sets. " +
					"A narrow trail climbs left into the hills; a wide road bends right toward the river.",
				Choices: []gotale.ChoiceSpec{
					{Text: "Take the trail into the hills", Next: 2},
					{Text: "Follow the road to the river", Next: 3},
				},
			},
			{
				ID:          2,
				Title:       "The Summit",
				Description: "From the hilltop you watch the valley light up below. The journey ends here.",
			},
			{
				ID:          3,
				Title:       "The Riverbank",
				Description: "A ferryman waves you aboard and the current carries you home.",
			},
		},
	})
	if err != nil {
		return err
	}

	logger.Info("demo data seeded", "user", admin.Email)
	return nil
}
