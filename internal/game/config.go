package game

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every gameplay tunable. Defaults are the shipped balance;
// SHAMBLE_* environment variables override individual values for headless
// experiments.
type Config struct {
	// Speech pipeline.
	IntentCooldown  time.Duration `validate:"gt=0"`  // min gap between accepted intents
	RecognizerDelay time.Duration `validate:"gte=0"` // teardown → reinit delay

	// Enemy movement and consequences.
	AdvanceDuration time.Duration `validate:"gt=0"` // spawn point → player walk time
	ArrivalTimeout  time.Duration `validate:"gt=0"` // advancing this long = reached player
	DeathWindow     time.Duration `validate:"gte=0"` // dying → removed delay
	ReachedPenalty  float64       `validate:"gt=0"`  // health lost when an enemy gets through
	SpawnDistance   float64       `validate:"gt=0"`  // forward spawn distance (|z|)
	SpawnSpread     float64       `validate:"gte=0"` // lateral spawn offset, x in [-spread, spread]

	// Wave pacing.
	SpawnInterval     time.Duration `validate:"gt=0"` // wave 1 time between spawns
	SpawnIntervalStep time.Duration `validate:"gte=0"` // interval reduction per wave
	MinSpawnInterval  time.Duration `validate:"gt=0"`
	MaxEnemies        int           `validate:"gte=1"` // wave 1 concurrent enemy cap
	MaxEnemiesCap     int           `validate:"gte=1"`
	WaveScoreStep     int           `validate:"gt=0"` // score between wave increments

	// Session.
	StartHealth  float64       `validate:"gt=0"`
	RestartDelay time.Duration `validate:"gte=0"` // teardown settle time before re-idle
}

// DefaultConfig returns the shipped balance values.
func DefaultConfig() Config {
	return Config{
		IntentCooldown:  1 * time.Second,
		RecognizerDelay: 500 * time.Millisecond,

		AdvanceDuration: 5 * time.Second,
		ArrivalTimeout:  6 * time.Second,
		DeathWindow:     2 * time.Second,
		ReachedPenalty:  20,
		SpawnDistance:   5,
		SpawnSpread:     1,

		SpawnInterval:     4 * time.Second,
		SpawnIntervalStep: 300 * time.Millisecond,
		MinSpawnInterval:  1500 * time.Millisecond,
		MaxEnemies:        3,
		MaxEnemiesCap:     6,
		WaveScoreStep:     500,

		StartHealth:  100,
		RestartDelay: 500 * time.Millisecond,
	}
}

// FromEnv loads the default config with SHAMBLE_* overrides applied. A .env
// file in the working directory is honoured if present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	overrideDuration(&cfg.IntentCooldown, "SHAMBLE_INTENT_COOLDOWN")
	overrideDuration(&cfg.RecognizerDelay, "SHAMBLE_RECOGNIZER_DELAY")
	overrideDuration(&cfg.AdvanceDuration, "SHAMBLE_ADVANCE_DURATION")
	overrideDuration(&cfg.ArrivalTimeout, "SHAMBLE_ARRIVAL_TIMEOUT")
	overrideDuration(&cfg.DeathWindow, "SHAMBLE_DEATH_WINDOW")
	overrideDuration(&cfg.SpawnInterval, "SHAMBLE_SPAWN_INTERVAL")
	overrideDuration(&cfg.SpawnIntervalStep, "SHAMBLE_SPAWN_INTERVAL_STEP")
	overrideDuration(&cfg.MinSpawnInterval, "SHAMBLE_MIN_SPAWN_INTERVAL")
	overrideDuration(&cfg.RestartDelay, "SHAMBLE_RESTART_DELAY")
	overrideFloat(&cfg.ReachedPenalty, "SHAMBLE_REACHED_PENALTY")
	overrideFloat(&cfg.SpawnDistance, "SHAMBLE_SPAWN_DISTANCE")
	overrideFloat(&cfg.SpawnSpread, "SHAMBLE_SPAWN_SPREAD")
	overrideFloat(&cfg.StartHealth, "SHAMBLE_START_HEALTH")
	overrideInt(&cfg.MaxEnemies, "SHAMBLE_MAX_ENEMIES")
	overrideInt(&cfg.MaxEnemiesCap, "SHAMBLE_MAX_ENEMIES_CAP")
	overrideInt(&cfg.WaveScoreStep, "SHAMBLE_WAVE_SCORE_STEP")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the range constraints and the cross-field relations the
// tag syntax cannot express.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MinSpawnInterval > c.SpawnInterval {
		return fmt.Errorf("config: MinSpawnInterval %v exceeds SpawnInterval %v", c.MinSpawnInterval, c.SpawnInterval)
	}
	if c.MaxEnemies > c.MaxEnemiesCap {
		return fmt.Errorf("config: MaxEnemies %d exceeds MaxEnemiesCap %d", c.MaxEnemies, c.MaxEnemiesCap)
	}
	return nil
}

func overrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func overrideFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
