package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shamble/pkg/logger"
)

type cmdKind int

const (
	cmdStart cmdKind = iota
	cmdRestart
	cmdListening
)

type command struct {
	kind      cmdKind
	listening bool
}

// Session is the orchestrator. One goroutine (Run) owns the game state, the
// scheduler, the wave director and the combat manager; intents and commands
// arrive over channels and are applied strictly one at a time. The only
// cross-goroutine surface is Snapshot.
type Session struct {
	ID  string
	cfg *Config

	clock    Clock
	sched    *Scheduler
	state    GameState
	waves    *WaveDirector
	combat   *CombatManager
	renderer Renderer
	bus      *Bus
	log      *GameLog

	phase   Phase
	intents chan Intent
	cmds    chan command

	mu   sync.Mutex
	snap StateSnapshot
}

func NewSession(cfg *Config, clock Clock, renderer Renderer, bus *Bus, seed int64) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		cfg:      cfg,
		clock:    clock,
		sched:    NewScheduler(),
		renderer: renderer,
		bus:      bus,
		log:      NewGameLog(clock.Now()),
		intents:  make(chan Intent, 8),
		cmds:     make(chan command, 8),
	}
	s.state.reset(cfg)
	rng := rand.New(rand.NewSource(seed))
	s.waves = NewWaveDirector(cfg, s.sched, &s.state, rng, renderer, s.log)
	s.waves.OnReached = s.onEnemyReached
	s.waves.OnWave = s.onWaveAdvanced
	s.combat = NewCombatManager(s.waves, s.log)
	s.syncSnapshot()
	return s
}

// Intents is the channel the speech recognizer feeds.
func (s *Session) Intents() chan<- Intent { return s.intents }

// Log exposes the structured session log for reports and tests.
func (s *Session) Log() *GameLog { return s.log }

// Start begins a fresh run. Restart tears the current run down and starts a
// new one after the restart delay. SetListening mirrors the recognizer's
// capture state into the observable game state. All three just enqueue.
func (s *Session) Start()              { s.cmds <- command{kind: cmdStart} }
func (s *Session) Restart()            { s.cmds <- command{kind: cmdRestart} }
func (s *Session) SetListening(v bool) { s.cmds <- command{kind: cmdListening, listening: v} }

// Run drives the session until ctx is cancelled. It re-arms a single timer
// against the scheduler's next deadline so scheduled continuations, intents
// and commands all land on the same goroutine.
func (s *Session) Run(ctx context.Context) error {
	for {
		var timer <-chan time.Time
		if at, ok := s.sched.NextAt(); ok {
			d := at.Sub(s.clock.Now())
			if d < 0 {
				d = 0
			}
			timer = s.clock.After(d)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.cmds:
			s.handleCommand(cmd, s.clock.Now())
		case in := <-s.intents:
			s.handleIntent(in, s.clock.Now())
		case <-timer:
			s.sched.RunDue(s.clock.Now())
		}
		s.syncSnapshot()
	}
}

func (s *Session) handleCommand(cmd command, now time.Time) {
	switch cmd.kind {
	case cmdStart:
		s.startGame(now)
	case cmdRestart:
		s.scheduleRestart(now)
	case cmdListening:
		s.state.Listening = cmd.listening
		s.log.Add(now, LogState, "listening", boolWord(cmd.listening), 0)
		s.publishState(now)
	}
}

func (s *Session) startGame(now time.Time) {
	s.waves.Stop(now)
	s.state.reset(s.cfg)
	s.phase = PhaseRunning
	s.log.Add(now, LogState, "started", "", 0)
	logger.Log.WithField("session", s.ID).Info("game started")
	s.waves.Start(now)
	s.publishState(now)
}

// scheduleRestart tears the run down immediately and brings the next one up
// after the restart delay, so the presentation layer gets a beat to clear.
func (s *Session) scheduleRestart(now time.Time) {
	s.waves.Stop(now)
	s.phase = PhaseIdle
	s.log.Add(now, LogState, "restarting", "", 0)
	s.sched.Schedule(now.Add(s.cfg.RestartDelay), "restart", func(fire time.Time) {
		s.startGame(fire)
	})
}

// handleIntent resolves one accepted voice intent. Order inside a step is
// fixed: combat resolution mutates enemy health first, then score and wave
// bookkeeping, then visual and audio feedback.
func (s *Session) handleIntent(in Intent, now time.Time) {
	s.log.Add(now, LogIntent, "received", in.Zone.String(), 0)
	if s.phase != PhaseRunning || s.state.IsOver {
		s.log.Add(now, LogIntent, "ignored", in.Zone.String(), 0)
		return
	}

	out := s.combat.Resolve(in.Zone, now)

	if out.Kind != OutcomeNoTarget {
		s.state.Score += out.Points
		s.waves.OnScoreChanged(now)
		s.publishState(now)
	}

	s.dispatchFeedback(out, now)

	s.bus.Publish(TopicCombat, CombatEvent{
		SessionID: s.ID,
		Outcome:   out.Kind.String(),
		Zone:      out.Zone.String(),
		Points:    out.Points,
		EnemyID:   out.EnemyID,
		At:        now,
	})
}

func (s *Session) dispatchFeedback(out Outcome, now time.Time) {
	if out.Kind == OutcomeNoTarget {
		return
	}
	e, ok := s.waves.Enemy(out.EnemyID)
	if !ok {
		return
	}
	s.renderer.FlashHit(e.visual, out.Zone)
	s.renderer.PlayHitSound(out.Zone)
	if out.Kind == OutcomeKill {
		s.renderer.ShowKillBanner(out.Zone, e.PositionAt(now, s.cfg.AdvanceDuration))
	}
}

// onEnemyReached applies the leak penalty. The wave director guarantees this
// runs at most once per enemy.
func (s *Session) onEnemyReached(e *Enemy, now time.Time) {
	s.state.Health -= s.cfg.ReachedPenalty
	if s.state.Health < 0 {
		s.state.Health = 0
	}
	s.bus.Publish(TopicEnemy, EnemyEvent{SessionID: s.ID, Kind: "reached", EnemyID: e.ID, At: now})
	s.publishState(now)
	if s.state.Health <= 0 {
		s.gameOver(now)
	}
}

func (s *Session) onWaveAdvanced(now time.Time) {
	s.bus.Publish(TopicWave, WaveEvent{
		SessionID:     s.ID,
		Wave:          s.state.Wave,
		SpawnInterval: s.state.SpawnInterval,
		MaxEnemies:    s.state.MaxEnemies,
		At:            now,
	})
}

func (s *Session) gameOver(now time.Time) {
	s.state.IsOver = true
	s.phase = PhaseOver
	s.waves.Stop(now)
	s.log.Add(now, LogState, "game_over", "", float64(s.state.Score))
	logger.Log.WithFields(logrus.Fields{
		"session": s.ID,
		"score":   s.state.Score,
		"wave":    s.state.Wave,
	}).Info("game over")
	s.publishState(now)
}

func (s *Session) publishState(now time.Time) {
	s.bus.Publish(TopicState, StateUpdate{
		SessionID: s.ID,
		Score:     s.state.Score,
		Health:    s.state.Health,
		Wave:      s.state.Wave,
		IsOver:    s.state.IsOver,
		At:        now,
	})
}

func (s *Session) syncSnapshot() {
	s.mu.Lock()
	s.snap = StateSnapshot{
		Score:         s.state.Score,
		Health:        s.state.Health,
		Wave:          s.state.Wave,
		IsOver:        s.state.IsOver,
		Listening:     s.state.Listening,
		Phase:         s.phase,
		ActiveEnemies: s.waves.ActiveCount(),
		SpawnInterval: s.state.SpawnInterval,
		MaxEnemies:    s.state.MaxEnemies,
	}
	s.mu.Unlock()
}

// Snapshot returns the last published read-only view. Safe from any
// goroutine.
func (s *Session) Snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func boolWord(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
