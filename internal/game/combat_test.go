package game

import (
	"math/rand"
	"testing"
	"time"
)

// newCombatRig wires a wave director and combat manager over a bare game
// state, without a session on top.
func newCombatRig(t *testing.T) (*WaveDirector, *CombatManager, *Config, time.Time) {
	t.Helper()
	cfg := DefaultConfig()
	state := &GameState{}
	state.reset(&cfg)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	waves := NewWaveDirector(&cfg, NewScheduler(), state, rand.New(rand.NewSource(7)), NopRenderer{}, NewGameLog(start))
	return waves, NewCombatManager(waves, waves.log), &cfg, start
}

func TestResolve_NoActiveEnemies(t *testing.T) {
	_, combat, _, start := newCombatRig(t)

	out := combat.Resolve(ZoneHead, start)
	if out.Kind != OutcomeNoTarget {
		t.Fatalf("outcome = %v, want no_target", out.Kind)
	}
	if out.Points != 0 {
		t.Fatalf("no_target awarded %d points", out.Points)
	}
}

func TestResolve_PicksNearestAdvancingEnemy(t *testing.T) {
	waves, combat, cfg, start := newCombatRig(t)

	far := waves.Spawn(start)
	near := waves.Spawn(start.Add(2 * time.Second))
	// "near" spawned later but we resolve at a time where "far" has walked
	// further: at +3s far is 60% of the way in, near only 20%.
	now := start.Add(3 * time.Second)
	if far.PositionAt(now, cfg.AdvanceDuration).Dist(Origin) >= near.PositionAt(now, cfg.AdvanceDuration).Dist(Origin) {
		t.Fatal("setup broken: first enemy should be closer")
	}

	out := combat.Resolve(ZoneLegs, now)
	if out.EnemyID != far.ID {
		t.Fatalf("hit enemy %d, want nearest %d", out.EnemyID, far.ID)
	}
	if far.Health != enemyMaxHealth-ZoneLegs.Damage() {
		t.Fatalf("target health = %d", far.Health)
	}
	if near.Health != enemyMaxHealth {
		t.Fatalf("bystander took damage: %d", near.Health)
	}
}

func TestResolve_DistanceTieGoesToEarliestSpawn(t *testing.T) {
	waves, combat, _, start := newCombatRig(t)

	// Hand-placed enemies at the same spot; only spawn times differ.
	older := newEnemy(1, Vec3{Z: -3}, start)
	older.State = EnemyAdvancing
	newer := newEnemy(2, Vec3{Z: -3}, start)
	newer.State = EnemyAdvancing
	newer.SpawnedAt = start.Add(time.Second)
	waves.enemies[older.ID] = older
	waves.enemies[newer.ID] = newer

	out := combat.Resolve(ZoneBody, start)
	if out.EnemyID != older.ID {
		t.Fatalf("tie resolved to enemy %d, want earliest-spawned %d", out.EnemyID, older.ID)
	}
}

func TestResolve_HealthFlooredAndSingleKill(t *testing.T) {
	waves, combat, _, start := newCombatRig(t)
	e := waves.Spawn(start)

	now := start.Add(time.Second)
	if out := combat.Resolve(ZoneBody, now); out.Kind != OutcomeHit || out.Points != 50 {
		t.Fatalf("first body shot = %+v", out)
	}
	if out := combat.Resolve(ZoneBody, now); out.Kind != OutcomeKill {
		t.Fatalf("second body shot = %+v, want the kill (100-50-50)", out)
	}
	if e.Health != 0 {
		t.Fatalf("health = %d, want 0", e.Health)
	}

	waves2, combat2, _, start2 := newCombatRig(t)
	e2 := waves2.Spawn(start2)
	shots := []struct {
		zone Zone
		want OutcomeKind
	}{
		{ZoneLegs, OutcomeHit},  // 75
		{ZoneBody, OutcomeHit},  // 25
		{ZoneHead, OutcomeKill}, // floored at 0
	}
	now2 := start2.Add(time.Second)
	for i, s := range shots {
		out := combat2.Resolve(s.zone, now2)
		if out.Kind != s.want {
			t.Fatalf("shot %d (%s) = %v, want %v", i, s.zone, out.Kind, s.want)
		}
	}
	if e2.Health != 0 {
		t.Fatalf("overkill health = %d, want floored 0", e2.Health)
	}
	if e2.State != EnemyDying {
		t.Fatalf("killed enemy state = %v, want dying", e2.State)
	}
	// A dying enemy is no longer a target, so no second kill is possible.
	if out := combat2.Resolve(ZoneHead, now2); out.Kind != OutcomeNoTarget {
		t.Fatalf("post-kill resolve = %v, want no_target", out.Kind)
	}
	if got := combat2.waves.log.CountOf(LogCombat, "kill"); got != 1 {
		t.Fatalf("kill log entries = %d, want exactly 1", got)
	}
}
