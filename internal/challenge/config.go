package challenge

import (
	"fmt"

	"github.com/yourusername/challenge-blueprint/internal/config"
	"github.com/yourusername/challenge-blueprint/internal/models"
)

// FromConfig converts the engine section of the app config into the default
// simulation settings.
func FromConfig(cfg *config.EngineConfig) (SimulationConfig, error) {
	if cfg == nil {
		return SimulationConfig{}, fmt.Errorf("engine config is required")
	}
	sc := SimulationConfig{
		Trials:    cfg.DefaultTrials,
		Seed:      cfg.Seed,
		Workers:   cfg.Workers,
		ChunkSize: cfg.ChunkSize,
	}
	return sc, sc.Validate()
}

// Validate validates simulation parameters
func (c SimulationConfig) Validate() error {
	if !models.ValidTrials(c.Trials) {
		return models.ErrInvalidTrials
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size cannot be negative")
	}
	return nil
}
