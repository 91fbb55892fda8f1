package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"betashrink/domain/core"
)

// Config represents the complete engine configuration
type Config struct {
	Prior    PriorConfig
	Decision DecisionConfig
	Engine   EngineConfig
}

// PriorConfig holds the population-level Beta shape parameters. They come
// from an external fitting procedure or literal configuration; the engine
// never estimates them itself.
type PriorConfig struct {
	Alpha float64
	Beta  float64
}

// DecisionConfig holds the caller's decision policy
type DecisionConfig struct {
	Threshold float64 // decision threshold on the true rate, in (0,1)
	Direction string  // "below" or "above": which side is the error condition
	Budget    float64 // target FDR budget, in (0,1)
}

// EngineConfig holds execution settings
type EngineConfig struct {
	Workers int  // parallel workers for the per-entity phase
	Strict  bool // fail the whole batch on the first invalid record
}

// Load reads configuration from environment variables and validates it.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Prior: PriorConfig{
			Alpha: getEnvFloatOrDefault("PRIOR_ALPHA", 1.0),
			Beta:  getEnvFloatOrDefault("PRIOR_BETA", 1.0),
		},
		Decision: DecisionConfig{
			Threshold: getEnvFloatOrDefault("DECISION_THRESHOLD", 0.5),
			Direction: getEnvOrDefault("DECISION_DIRECTION", "below"),
			Budget:    getEnvFloatOrDefault("FDR_BUDGET", 0.05),
		},
		Engine: EngineConfig{
			Workers: getEnvIntOrDefault("ENGINE_WORKERS", runtime.NumCPU()),
			Strict:  getEnvBoolOrDefault("ENGINE_STRICT", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if !(config.Prior.Alpha > 0) || !(config.Prior.Beta > 0) {
		return core.NewInvalidPriorError(config.Prior.Alpha, config.Prior.Beta)
	}
	if !(config.Decision.Threshold > 0 && config.Decision.Threshold < 1) {
		return fmt.Errorf("%w: got %g", core.ErrInvalidThreshold, config.Decision.Threshold)
	}
	if config.Decision.Direction != "below" && config.Decision.Direction != "above" {
		return fmt.Errorf("%w: %q", core.ErrInvalidDirection, config.Decision.Direction)
	}
	if !(config.Decision.Budget > 0 && config.Decision.Budget < 1) {
		return fmt.Errorf("%w: got %g", core.ErrInvalidBudget, config.Decision.Budget)
	}
	if config.Engine.Workers < 1 {
		return fmt.Errorf("%w: worker count must be >= 1, got %d", core.ErrInvalidInput, config.Engine.Workers)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
