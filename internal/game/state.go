package game

import "time"

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameState is the single mutable game record. It is owned by the Session and
// only ever touched from the serialized session context; everyone else sees
// read-only StateSnapshot copies.
type GameState struct {
	Score         int
	Health        float64
	Wave          int
	IsOver        bool
	SpawnInterval time.Duration
	MaxEnemies    int
	Listening     bool
}

// reset restores the wave-1 defaults.
func (gs *GameState) reset(cfg *Config) {
	listening := gs.Listening // survives restarts; owned by the recognizer
	*gs = GameState{
		Health:        cfg.StartHealth,
		Wave:          1,
		SpawnInterval: cfg.SpawnInterval,
		MaxEnemies:    cfg.MaxEnemies,
		Listening:     listening,
	}
}

// StateSnapshot is the read-only view handed to the presentation layer.
type StateSnapshot struct {
	Score         int
	Health        float64
	Wave          int
	IsOver        bool
	Listening     bool
	Phase         Phase
	ActiveEnemies int
	SpawnInterval time.Duration
	MaxEnemies    int
}
