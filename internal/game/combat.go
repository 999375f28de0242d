package game

import "time"

// OutcomeKind classifies a combat resolution.
type OutcomeKind int

const (
	OutcomeNoTarget OutcomeKind = iota
	OutcomeHit
	OutcomeKill
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoTarget:
		return "no_target"
	case OutcomeHit:
		return "hit"
	case OutcomeKill:
		return "kill"
	default:
		return "unknown"
	}
}

// Outcome is the result of resolving one intent against the enemy pool.
type Outcome struct {
	Kind    OutcomeKind
	Zone    Zone
	Points  int
	EnemyID int
}

// CombatManager applies zone strikes to the enemy pool. It never touches
// score or health of the player; that is session business.
type CombatManager struct {
	waves *WaveDirector
	log   *GameLog
}

func NewCombatManager(waves *WaveDirector, log *GameLog) *CombatManager {
	return &CombatManager{waves: waves, log: log}
}

// Resolve picks the advancing enemy closest to the player and applies the
// zone's damage. Points equal the zone damage for both hits and kills; the
// damage table doubles as the scoring table. Runs in the session context.
func (c *CombatManager) Resolve(zone Zone, now time.Time) Outcome {
	target := c.nearestTarget(now)
	if target == nil {
		c.log.Add(now, LogCombat, "no_target", zone.String(), 0)
		return Outcome{Kind: OutcomeNoTarget, Zone: zone}
	}

	dmg := zone.Damage()
	target.Health -= dmg
	if target.Health < 0 {
		target.Health = 0
	}

	out := Outcome{Kind: OutcomeHit, Zone: zone, Points: dmg, EnemyID: target.ID}
	if target.Health == 0 {
		// The state flip to Dying below guarantees this enemy can never
		// yield a second kill, and cancels its arrival timeout.
		out.Kind = OutcomeKill
		c.waves.beginDeath(target, now)
	}
	c.log.Add(now, LogCombat, out.Kind.String(), zone.String(), float64(dmg))
	return out
}

// nearestTarget returns the advancing enemy with the smallest distance to the
// player at now. Ties go to the earliest-spawned enemy, which also makes the
// pick deterministic under map iteration.
func (c *CombatManager) nearestTarget(now time.Time) *Enemy {
	var best *Enemy
	var bestDist float64
	for _, e := range c.waves.enemies {
		if e.State != EnemyAdvancing {
			continue
		}
		d := e.PositionAt(now, c.waves.cfg.AdvanceDuration).Dist(Origin)
		if best == nil || d < bestDist || (d == bestDist && e.SpawnedAt.Before(best.SpawnedAt)) {
			best = e
			bestDist = d
		}
	}
	return best
}
