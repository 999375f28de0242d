package game

import "time"

const enemyMaxHealth = 100

// EnemyState tracks an enemy through its lifecycle. The two terminal paths are
// mutually exclusive: an enemy either dies to combat (Dying → Removed) or
// reaches the player (Removed with a health penalty), never both.
type EnemyState int

const (
	EnemySpawning EnemyState = iota // just created, visual not yet advancing
	EnemyAdvancing                  // walking toward the player, targetable
	EnemyDying                      // killed, playing out the death window
	EnemyRemoved                    // gone; handle retired
)

func (es EnemyState) String() string {
	switch es {
	case EnemySpawning:
		return "spawning"
	case EnemyAdvancing:
		return "advancing"
	case EnemyDying:
		return "dying"
	case EnemyRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Enemy is one approaching zombie. Enemies are owned by the WaveDirector; the
// combat path only mutates Health and signals the state transitions back.
type Enemy struct {
	ID        int
	Health    int
	SpawnPos  Vec3
	SpawnedAt time.Time
	State     EnemyState

	// HitZones are zone-local offsets from the anchor position, indexed by Zone.
	HitZones [ZoneCount]Vec3

	visual         int    // rendering collaborator handle
	arrivalTimeout Handle // pending reached-player continuation
	cleanup        Handle // pending death-window removal
}

func newEnemy(id int, spawnPos Vec3, spawnedAt time.Time) *Enemy {
	e := &Enemy{
		ID:        id,
		Health:    enemyMaxHealth,
		SpawnPos:  spawnPos,
		SpawnedAt: spawnedAt,
		State:     EnemySpawning,
	}
	for z := Zone(0); z < ZoneCount; z++ {
		e.HitZones[z] = z.Offset()
	}
	return e
}

// Active reports whether the enemy counts against the concurrent-enemy cap.
func (e *Enemy) Active() bool {
	return e.State == EnemySpawning || e.State == EnemyAdvancing
}

// PositionAt returns the authoritative game-logic position at the given
// instant: a linear walk from the spawn point to the player origin over
// advance. Past the advance window the enemy sits at the origin (the arrival
// timeout deals with it there).
func (e *Enemy) PositionAt(now time.Time, advance time.Duration) Vec3 {
	if advance <= 0 {
		return Origin
	}
	t := float64(now.Sub(e.SpawnedAt)) / float64(advance)
	return e.SpawnPos.Lerp(Origin, t)
}
