package game

import "time"

// Bus topics. Payloads are JSON-encoded structs below.
const (
	TopicState  = "game.state"
	TopicCombat = "game.combat"
	TopicEnemy  = "game.enemy"
	TopicWave   = "game.wave"
)

// StateUpdate is published after every mutation that changes score, health,
// wave or the over flag.
type StateUpdate struct {
	SessionID string    `json:"session_id"`
	Score     int       `json:"score"`
	Health    float64   `json:"health"`
	Wave      int       `json:"wave"`
	IsOver    bool      `json:"is_over"`
	At        time.Time `json:"at"`
}

// CombatEvent is published for every resolved intent, including whiffs.
type CombatEvent struct {
	SessionID string    `json:"session_id"`
	Outcome   string    `json:"outcome"` // no_target | hit | kill
	Zone      string    `json:"zone,omitempty"`
	Points    int       `json:"points"`
	EnemyID   int       `json:"enemy_id,omitempty"`
	At        time.Time `json:"at"`
}

// EnemyEvent covers the enemy lifecycle: spawned, reached, removed.
type EnemyEvent struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"` // spawned | reached | removed
	EnemyID   int       `json:"enemy_id"`
	At        time.Time `json:"at"`
}

// WaveEvent is published when a score threshold bumps the wave.
type WaveEvent struct {
	SessionID     string        `json:"session_id"`
	Wave          int           `json:"wave"`
	SpawnInterval time.Duration `json:"spawn_interval"`
	MaxEnemies    int           `json:"max_enemies"`
	At            time.Time     `json:"at"`
}
