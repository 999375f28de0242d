package game

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"shamble/pkg/logger"
)

// WaveDirector owns the enemy pool, the periodic spawn timer and difficulty
// escalation. Every method runs in the session context; the scheduler it
// drives is the session's single scheduler.
type WaveDirector struct {
	cfg      *Config
	sched    *Scheduler
	state    *GameState
	rng      *rand.Rand
	renderer Renderer
	log      *GameLog

	enemies map[int]*Enemy
	nextID  int

	spawnTimer Handle
	nextWaveAt int

	// OnReached runs after an enemy walks into the player, before the enemy
	// is removed. OnWave runs once per wave increment. Both are installed by
	// the session before Start.
	OnReached func(e *Enemy, now time.Time)
	OnWave    func(now time.Time)
}

func NewWaveDirector(cfg *Config, sched *Scheduler, state *GameState, rng *rand.Rand, renderer Renderer, log *GameLog) *WaveDirector {
	return &WaveDirector{
		cfg:      cfg,
		sched:    sched,
		state:    state,
		rng:      rng,
		renderer: renderer,
		log:      log,
		enemies:  make(map[int]*Enemy),
	}
}

// Start arms the spawn loop. The first zombie shows up immediately so the
// player has something to shout at.
func (w *WaveDirector) Start(now time.Time) {
	w.nextWaveAt = w.cfg.WaveScoreStep
	w.Spawn(now)
	w.armSpawnTimer(now)
}

// Stop tears down the spawn timer and the whole pool.
func (w *WaveDirector) Stop(now time.Time) {
	w.sched.Cancel(w.spawnTimer)
	w.spawnTimer = 0
	for _, e := range w.enemies {
		w.sched.Cancel(e.arrivalTimeout)
		w.sched.Cancel(e.cleanup)
		w.renderer.RemoveEnemy(e.visual)
		e.State = EnemyRemoved
	}
	w.enemies = make(map[int]*Enemy)
}

func (w *WaveDirector) armSpawnTimer(now time.Time) {
	w.sched.Cancel(w.spawnTimer)
	w.spawnTimer = w.sched.Schedule(now.Add(w.state.SpawnInterval), "spawn_tick", w.spawnTick)
}

func (w *WaveDirector) spawnTick(now time.Time) {
	w.Spawn(now)
	w.armSpawnTimer(now)
}

// ActiveCount is the number of enemies that count against the concurrency cap.
func (w *WaveDirector) ActiveCount() int {
	n := 0
	for _, e := range w.enemies {
		if e.Active() {
			n++
		}
	}
	return n
}

// Spawn creates one enemy at the spawn line if the session is live and the
// pool has room. Returns nil when gated.
func (w *WaveDirector) Spawn(now time.Time) *Enemy {
	if w.state.IsOver {
		return nil
	}
	if w.ActiveCount() >= w.state.MaxEnemies {
		w.log.Add(now, LogEnemy, "spawn_gated", "", float64(w.state.MaxEnemies))
		return nil
	}

	w.nextID++
	pos := Vec3{
		X: (w.rng.Float64()*2 - 1) * w.cfg.SpawnSpread,
		Z: -w.cfg.SpawnDistance,
	}
	e := newEnemy(w.nextID, pos, now)
	w.enemies[e.ID] = e

	e.visual = w.renderer.SpawnEnemy(e)
	e.State = EnemyAdvancing
	w.renderer.AdvanceEnemy(e.visual, Origin, w.cfg.AdvanceDuration)
	e.arrivalTimeout = w.sched.Schedule(now.Add(w.cfg.ArrivalTimeout), "arrival_timeout", func(fire time.Time) {
		w.onArrivalTimeout(e, fire)
	})

	w.log.Add(now, LogEnemy, "spawned", "", float64(e.ID))
	logger.Log.WithField("enemy", e.ID).Debug("enemy spawned")
	return e
}

// onArrivalTimeout fires when an enemy has been walking for the full timeout.
// A kill in the same window cancels the handle, but the state check stays as
// the second line of defense so the penalty can never double up with a kill.
func (w *WaveDirector) onArrivalTimeout(e *Enemy, now time.Time) {
	if e.State != EnemyAdvancing {
		return
	}
	w.log.Add(now, LogEnemy, "reached", "", float64(e.ID))
	logger.Log.WithField("enemy", e.ID).Info("enemy reached the player")
	if w.OnReached != nil {
		w.OnReached(e, now)
	}
	// A fatal leak ends the game inside the callback, and Stop has then
	// already torn this enemy down with the rest of the pool.
	if e.State == EnemyRemoved {
		return
	}
	w.remove(e, now)
}

// beginDeath flips a killed enemy to Dying and schedules its removal after
// the death animation window. Cancelling the arrival timeout here is what
// makes a kill and a reach mutually exclusive.
func (w *WaveDirector) beginDeath(e *Enemy, now time.Time) {
	w.sched.Cancel(e.arrivalTimeout)
	e.State = EnemyDying
	e.cleanup = w.sched.Schedule(now.Add(w.cfg.DeathWindow), "death_cleanup", func(fire time.Time) {
		w.remove(e, fire)
	})
	w.log.Add(now, LogEnemy, "dying", "", float64(e.ID))
}

func (w *WaveDirector) remove(e *Enemy, now time.Time) {
	w.sched.Cancel(e.arrivalTimeout)
	w.sched.Cancel(e.cleanup)
	e.State = EnemyRemoved
	w.renderer.RemoveEnemy(e.visual)
	delete(w.enemies, e.ID)
	w.log.Add(now, LogEnemy, "removed", "", float64(e.ID))
}

// OnScoreChanged steps difficulty for every score threshold the new total
// crossed. One step raises the wave, tightens the spawn interval down to the
// floor, raises the enemy cap up to its ceiling, and re-arms the spawn timer
// at the new cadence instead of stacking a second one.
func (w *WaveDirector) OnScoreChanged(now time.Time) {
	for w.state.Score >= w.nextWaveAt {
		w.nextWaveAt += w.cfg.WaveScoreStep
		w.state.Wave++
		if iv := w.state.SpawnInterval - w.cfg.SpawnIntervalStep; iv >= w.cfg.MinSpawnInterval {
			w.state.SpawnInterval = iv
		} else {
			w.state.SpawnInterval = w.cfg.MinSpawnInterval
		}
		if w.state.MaxEnemies < w.cfg.MaxEnemiesCap {
			w.state.MaxEnemies++
		}
		w.armSpawnTimer(now)

		w.log.Add(now, LogWave, "wave_up", "", float64(w.state.Wave))
		logger.Log.WithFields(logrus.Fields{
			"wave":           w.state.Wave,
			"spawn_interval": w.state.SpawnInterval,
			"max_enemies":    w.state.MaxEnemies,
		}).Info("wave advanced")
		if w.OnWave != nil {
			w.OnWave(now)
		}
	}
}

// Enemy looks up a live enemy by id, for tests and the combat resolver.
func (w *WaveDirector) Enemy(id int) (*Enemy, bool) {
	e, ok := w.enemies[id]
	return e, ok
}
