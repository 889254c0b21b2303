package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	if c.Cleanup.HardDeleteRetentionDays < 0 {
		return fmt.Errorf("cleanup: hard_delete_retention_days must be >= 0 (got %d)", c.Cleanup.HardDeleteRetentionDays)
	}

	return nil
}

func (s *SRSConfig) validate() error {
	if s.DesiredRetention <= 0 || s.DesiredRetention >= 1 {
		return fmt.Errorf("desired_retention must be in (0, 1) (got %v)", s.DesiredRetention)
	}
	if s.MaxIntervalDays <= 0 {
		return fmt.Errorf("max_interval_days must be > 0 (got %d)", s.MaxIntervalDays)
	}
	if s.NewCardsPerSession < 0 {
		return fmt.Errorf("new_cards_per_session must be >= 0 (got %d)", s.NewCardsPerSession)
	}

	steps, err := ParseSteps(s.LearningStepsRaw)
	if err != nil {
		return fmt.Errorf("learning_steps: %w", err)
	}
	s.LearningSteps = steps

	steps, err = ParseSteps(s.RelearningStepsRaw)
	if err != nil {
		return fmt.Errorf("relearning_steps: %w", err)
	}
	s.RelearningSteps = steps

	weights, err := ParseWeights(s.WeightsRaw)
	if err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	s.Weights = weights

	return nil
}

// ParseSteps parses a comma-separated string of durations (e.g. "1m,10m")
// into a slice of time.Duration. An empty string returns a nil slice.
func ParseSteps(raw string) ([]time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	steps := make([]time.Duration, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := time.ParseDuration(p)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", p, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("step %q must be positive", p)
		}
		steps = append(steps, d)
	}

	return steps, nil
}

// ParseWeights parses a comma-separated string of 19 model weights.
// An empty string returns nil, meaning the built-in defaults apply.
func ParseWeights(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	weights := make([]float64, 0, len(parts))

	for _, p := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", p, err)
		}
		weights = append(weights, w)
	}

	if len(weights) != 19 {
		return nil, fmt.Errorf("expected 19 weights, got %d", len(weights))
	}

	return weights, nil
}
