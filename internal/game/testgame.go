package game

import (
	"fmt"
	"time"
)

// TestGame is a deterministic headless harness. It drives the session's
// serialized handlers directly against a ManualClock, so scenarios step
// through scheduled continuations without goroutines or real timers.
type TestGame struct {
	Session *Session
	Clock   *ManualClock
	Rec     *RecordingRenderer
}

type testGameConfig struct {
	cfg  Config
	seed int64
	bus  *Bus
}

type TestGameOption func(*testGameConfig)

func WithTestConfig(cfg Config) TestGameOption {
	return func(c *testGameConfig) { c.cfg = cfg }
}

func WithTestSeed(seed int64) TestGameOption {
	return func(c *testGameConfig) { c.seed = seed }
}

func WithTestBus(bus *Bus) TestGameOption {
	return func(c *testGameConfig) { c.bus = bus }
}

func NewTestGame(opts ...TestGameOption) *TestGame {
	tc := testGameConfig{cfg: DefaultConfig(), seed: 1}
	for _, opt := range opts {
		opt(&tc)
	}
	rec := NewRecordingRenderer()
	clock := NewManualClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	return &TestGame{
		Session: NewSession(&tc.cfg, clock, rec, tc.bus, tc.seed),
		Clock:   clock,
		Rec:     rec,
	}
}

// Start begins a run at the current clock time.
func (g *TestGame) Start() {
	g.Session.startGame(g.Clock.Now())
	g.Session.syncSnapshot()
}

// Restart issues the restart teardown. Advance past the restart delay to see
// the next run come up.
func (g *TestGame) Restart() {
	g.Session.scheduleRestart(g.Clock.Now())
	g.Session.syncSnapshot()
}

// Say delivers one accepted voice intent as if the recognizer emitted it now.
func (g *TestGame) Say(zone Zone) {
	now := g.Clock.Now()
	g.Session.handleIntent(Intent{Zone: zone, At: now}, now)
	g.Session.syncSnapshot()
}

// Advance moves the clock forward by d, stopping at every scheduler deadline
// on the way so continuations fire at their exact times and in order.
func (g *TestGame) Advance(d time.Duration) {
	target := g.Clock.Now().Add(d)
	for {
		at, ok := g.Session.sched.NextAt()
		if !ok || at.After(target) {
			break
		}
		g.Clock.SetNow(at)
		g.Session.sched.RunDue(at)
		g.Session.syncSnapshot()
	}
	g.Clock.SetNow(target)
}

// State returns the current snapshot.
func (g *TestGame) State() StateSnapshot {
	return g.Session.Snapshot()
}

// Waves exposes the wave director for pool-level assertions.
func (g *TestGame) Waves() *WaveDirector { return g.Session.waves }

// RecordingRenderer captures every presentation call in order, for feedback
// and ordering assertions. Not goroutine-safe; harness use only.
type RecordingRenderer struct {
	Calls      []string
	Spawned    []int
	Removed    []int
	Flashes    []Zone
	Banners    []Zone
	Sounds     []Zone
	nextHandle int
}

func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{}
}

func (r *RecordingRenderer) SpawnEnemy(e *Enemy) int {
	r.nextHandle++
	r.Spawned = append(r.Spawned, r.nextHandle)
	r.Calls = append(r.Calls, fmt.Sprintf("spawn:%d", r.nextHandle))
	return r.nextHandle
}

func (r *RecordingRenderer) AdvanceEnemy(handle int, dst Vec3, d time.Duration) {
	r.Calls = append(r.Calls, fmt.Sprintf("advance:%d", handle))
}

func (r *RecordingRenderer) RemoveEnemy(handle int) {
	r.Removed = append(r.Removed, handle)
	r.Calls = append(r.Calls, fmt.Sprintf("remove:%d", handle))
}

func (r *RecordingRenderer) FlashHit(handle int, zone Zone) {
	r.Flashes = append(r.Flashes, zone)
	r.Calls = append(r.Calls, fmt.Sprintf("flash:%d:%s", handle, zone))
}

func (r *RecordingRenderer) ShowKillBanner(zone Zone, at Vec3) {
	r.Banners = append(r.Banners, zone)
	r.Calls = append(r.Calls, "banner:"+zone.String())
}

func (r *RecordingRenderer) PlayHitSound(zone Zone) {
	r.Sounds = append(r.Sounds, zone)
	r.Calls = append(r.Calls, "sound:"+zone.String())
}
