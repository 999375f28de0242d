package game

import (
	"testing"
	"time"
)

// dumpLog prints the session log so it appears in `go test -v` output.
func dumpLog(t *testing.T, tg *TestGame) {
	t.Helper()
	out := tg.Session.Log().Format()
	if out == "" {
		t.Log("(no log entries)")
		return
	}
	t.Log("\n" + out)
}

// dumpSummary prints the end-of-run report block.
func dumpSummary(t *testing.T, tg *TestGame) {
	t.Helper()
	t.Log("\n" + BuildReport(tg.Session).Format())
}

func TestScenario_HeadKill(t *testing.T) {
	t.Log("=== TestScenario_HeadKill ===")
	tg := NewTestGame()
	tg.Start()

	if snap := tg.State(); snap.ActiveEnemies != 1 {
		t.Fatalf("start should spawn immediately, active = %d", snap.ActiveEnemies)
	}

	tg.Say(ZoneHead)
	snap := tg.State()
	if snap.Score != 100 {
		t.Fatalf("score = %d, want 100", snap.Score)
	}
	if snap.Health != 100 {
		t.Fatalf("health = %v, want untouched 100", snap.Health)
	}

	// Death window runs out, the visual goes away.
	tg.Advance(2 * time.Second)
	dumpLog(t, tg)
	if len(tg.Rec.Removed) != 1 {
		t.Fatalf("removed visuals = %v, want the one victim", tg.Rec.Removed)
	}
}

func TestScenario_IntentFeedbackOrdering(t *testing.T) {
	t.Log("=== TestScenario_IntentFeedbackOrdering ===")
	tg := NewTestGame()
	tg.Start()
	tg.Say(ZoneHead)

	// Within one intent: resolution and score first, then flash, sound,
	// banner. The recorder sees spawn/advance from Start, then the feedback.
	want := []string{"spawn:1", "advance:1", "flash:1:head", "sound:head", "banner:head"}
	if len(tg.Rec.Calls) != len(want) {
		t.Fatalf("renderer calls = %v, want %v", tg.Rec.Calls, want)
	}
	for i, w := range want {
		if tg.Rec.Calls[i] != w {
			t.Fatalf("call %d = %q, want %q (all: %v)", i, tg.Rec.Calls[i], w, tg.Rec.Calls)
		}
	}
}

func TestScenario_NoTargetLeavesStateUnchanged(t *testing.T) {
	t.Log("=== TestScenario_NoTargetLeavesStateUnchanged ===")
	tg := NewTestGame()
	tg.Start()

	tg.Say(ZoneHead) // kill the only enemy
	before := tg.State()
	tg.Say(ZoneBody) // nothing left to hit
	after := tg.State()

	if before.Score != after.Score || before.Health != after.Health || before.Wave != after.Wave {
		t.Fatalf("no_target changed state: %+v -> %+v", before, after)
	}
	if got := tg.Session.Log().CountOf(LogCombat, "no_target"); got != 1 {
		t.Fatalf("no_target outcomes = %d, want 1", got)
	}
}

func TestScenario_ScoreEqualsSumOfAwardedDamage(t *testing.T) {
	t.Log("=== TestScenario_ScoreEqualsSumOfAwardedDamage ===")
	tg := NewTestGame()
	tg.Start()

	// legs + legs + body + body = 150 damage, second body is the kill.
	zones := []Zone{ZoneLegs, ZoneLegs, ZoneBody, ZoneBody}
	wantScore := 0
	for _, z := range zones {
		tg.Say(z)
		wantScore += z.Damage()
	}
	if snap := tg.State(); snap.Score != wantScore {
		t.Fatalf("score = %d, want %d", snap.Score, wantScore)
	}
	if got := tg.Session.Log().CountOf(LogCombat, "kill"); got != 1 {
		t.Fatalf("kills = %d, want 1", got)
	}
	dumpSummary(t, tg)
}

func TestScenario_HealthDepletionEndsGame(t *testing.T) {
	t.Log("=== TestScenario_HealthDepletionEndsGame ===")
	tg := NewTestGame()
	tg.Start()

	// Stay silent; 5 leaks at -20 each end the run.
	tg.Advance(60 * time.Second)
	dumpLog(t, tg)

	snap := tg.State()
	if !snap.IsOver {
		t.Fatal("game not over after sustained leaks")
	}
	if snap.Health != 0 {
		t.Fatalf("health = %v, want 0", snap.Health)
	}
	if snap.Phase != PhaseOver {
		t.Fatalf("phase = %v, want game_over", snap.Phase)
	}
	log := tg.Session.Log()
	if got := log.CountOf(LogEnemy, "reached"); got != 5 {
		t.Fatalf("leaks = %d, want exactly 5", got)
	}
	if got := log.CountOf(LogState, "game_over"); got != 1 {
		t.Fatalf("game_over transitions = %d, want 1", got)
	}

	// Spawning must have stopped with the game.
	spawned := log.CountOf(LogEnemy, "spawned")
	tg.Advance(30 * time.Second)
	if log.CountOf(LogEnemy, "spawned") != spawned {
		t.Fatal("enemies kept spawning after game over")
	}
	if snap := tg.State(); snap.ActiveEnemies != 0 {
		t.Fatalf("active enemies after game over = %d, want 0", snap.ActiveEnemies)
	}
}

func TestScenario_IntentsIgnoredAfterGameOver(t *testing.T) {
	tg := NewTestGame()
	tg.Start()
	tg.Advance(60 * time.Second) // leak out

	before := tg.State().Score
	tg.Say(ZoneHead)
	if tg.State().Score != before {
		t.Fatal("intent changed score after game over")
	}
	if got := tg.Session.Log().CountOf(LogIntent, "ignored"); got != 1 {
		t.Fatalf("ignored intents = %d, want 1", got)
	}
}

func TestScenario_RestartRestoresDefaults(t *testing.T) {
	t.Log("=== TestScenario_RestartRestoresDefaults ===")
	tg := NewTestGame()
	tg.Start()
	tg.Advance(60 * time.Second) // run to game over
	if !tg.State().IsOver {
		t.Fatal("setup: game should be over")
	}

	tg.Restart()
	if snap := tg.State(); snap.Phase != PhaseIdle {
		t.Fatalf("phase during teardown = %v, want idle", snap.Phase)
	}

	tg.Advance(500 * time.Millisecond)
	dumpLog(t, tg)
	snap := tg.State()
	if snap.Phase != PhaseRunning {
		t.Fatalf("phase after restart delay = %v, want running", snap.Phase)
	}
	if snap.Score != 0 || snap.Health != 100 || snap.Wave != 1 || snap.IsOver {
		t.Fatalf("restarted state = %+v, want defaults", snap)
	}
	if snap.SpawnInterval != 4*time.Second || snap.MaxEnemies != 3 {
		t.Fatalf("difficulty not reset: %+v", snap)
	}
	if snap.ActiveEnemies != 1 {
		t.Fatalf("active after restart = %d, want the immediate first spawn", snap.ActiveEnemies)
	}
}

func TestScenario_RestartCancelsStaleTimeouts(t *testing.T) {
	t.Log("=== TestScenario_RestartCancelsStaleTimeouts ===")
	tg := NewTestGame()
	tg.Start()
	tg.Advance(5 * time.Second) // enemy 1 is 5s into its 6s timeout

	tg.Restart()
	reachedBefore := tg.Session.Log().CountOf(LogEnemy, "reached")
	tg.Advance(3 * time.Second) // past the old timeout and into the new run
	dumpLog(t, tg)

	if got := tg.Session.Log().CountOf(LogEnemy, "reached"); got != reachedBefore {
		t.Fatal("stale arrival timeout from the previous run still fired")
	}
	if snap := tg.State(); snap.Health != 100 {
		t.Fatalf("health = %v, want untouched 100", snap.Health)
	}
}

func TestScenario_RestartWhileRunning(t *testing.T) {
	tg := NewTestGame()
	tg.Start()
	tg.Say(ZoneHead)
	if tg.State().Score != 100 {
		t.Fatal("setup: expected a scoring kill")
	}

	tg.Restart()
	tg.Advance(time.Second)
	if snap := tg.State(); snap.Score != 0 || snap.Phase != PhaseRunning {
		t.Fatalf("mid-run restart left %+v", snap)
	}
}

func TestListeningFlagMirrorsRecognizer(t *testing.T) {
	tg := NewTestGame()
	now := tg.Clock.Now()
	tg.Session.handleCommand(command{kind: cmdListening, listening: true}, now)
	tg.Session.syncSnapshot()
	if !tg.State().Listening {
		t.Fatal("listening flag not set")
	}

	// The flag belongs to the recognizer, so a game restart must not clear it.
	tg.Start()
	if !tg.State().Listening {
		t.Fatal("game start cleared the listening flag")
	}
}

func TestBuildReport_CountsOutcomes(t *testing.T) {
	tg := NewTestGame()
	tg.Start()
	tg.Say(ZoneLegs)
	tg.Say(ZoneBody)
	tg.Say(ZoneHead) // kill (25+50 already dealt)
	tg.Say(ZoneHead) // no target until next spawn

	r := BuildReport(tg.Session)
	if r.Intents != 4 || r.Hits != 2 || r.Kills != 1 || r.Misses != 1 {
		t.Fatalf("report = %+v", r)
	}
	if r.ByZone[ZoneHead] != 1 {
		t.Fatalf("kill zone tally = %v, want the head kill", r.ByZone)
	}
	if r.FinalSnapshot.Score != 175 {
		t.Fatalf("final score = %d, want 175", r.FinalSnapshot.Score)
	}
}
