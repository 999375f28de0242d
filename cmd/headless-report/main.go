package main

import (
	"flag"
	"fmt"
	"time"

	"shamble/internal/game"
	"shamble/pkg/logger"
)

type runStats struct {
	runIndex int
	seed     int64

	firstKill  time.Duration
	firstLeak  time.Duration
	firstWave  time.Duration
	gameOverAt time.Duration

	report game.SessionReport
}

func main() {
	var runs int
	var duration time.Duration
	var seedBase int64
	var seedStep int64
	var policy string
	var cadence time.Duration

	flag.IntVar(&runs, "runs", 5, "number of headless game runs")
	flag.DurationVar(&duration, "duration", 2*time.Minute, "simulated time per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&policy, "policy", "cycle", "voice policy: head, body, legs, cycle, silent")
	flag.DurationVar(&cadence, "cadence", 1500*time.Millisecond, "time between scripted voice commands")
	flag.Parse()

	logger.Init()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if duration <= 0 {
		fmt.Println("error: -duration must be > 0")
		return
	}
	pick, ok := policies[policy]
	if !ok {
		fmt.Printf("error: unsupported policy %q (supported: head, body, legs, cycle, silent)\n", policy)
		return
	}
	cfg := game.DefaultConfig()
	if cadence < cfg.IntentCooldown {
		fmt.Printf("error: -cadence must be >= the intent cooldown (%s)\n", cfg.IntentCooldown)
		return
	}

	fmt.Printf("=== Headless Session Report ===\n")
	fmt.Printf("policy=%s runs=%d duration=%s cadence=%s seed_base=%d seed_step=%d\n\n",
		policy, runs, duration, cadence, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runSession(i+1, seed, duration, cadence, pick)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// policies map a shot index to the zone the scripted player calls out.
var policies = map[string]func(shot int) (game.Zone, bool){
	"head":   func(int) (game.Zone, bool) { return game.ZoneHead, true },
	"body":   func(int) (game.Zone, bool) { return game.ZoneBody, true },
	"legs":   func(int) (game.Zone, bool) { return game.ZoneLegs, true },
	"cycle":  func(shot int) (game.Zone, bool) { return game.Zone(shot % int(game.ZoneCount)), true },
	"silent": func(int) (game.Zone, bool) { return game.ZoneHead, false },
}

func runSession(runIndex int, seed int64, duration, cadence time.Duration, pick func(int) (game.Zone, bool)) runStats {
	tg := game.NewTestGame(game.WithTestSeed(seed))
	tg.Start()

	shots := 0
	for elapsed := time.Duration(0); elapsed < duration; elapsed += cadence {
		tg.Advance(cadence)
		if tg.State().IsOver {
			break
		}
		if zone, speak := pick(shots); speak {
			tg.Say(zone)
			shots++
		}
	}

	log := tg.Session.Log()
	return runStats{
		runIndex:   runIndex,
		seed:       seed,
		firstKill:  firstElapsed(log, game.LogCombat, "kill"),
		firstLeak:  firstElapsed(log, game.LogEnemy, "reached"),
		firstWave:  firstElapsed(log, game.LogWave, "wave_up"),
		gameOverAt: firstElapsed(log, game.LogState, "game_over"),
		report:     game.BuildReport(tg.Session),
	}
}

func firstElapsed(log *game.GameLog, category, key string) time.Duration {
	entries := log.Filter(category, key)
	if len(entries) == 0 {
		return -1
	}
	return entries[0].Elapsed
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("markers: first_kill=%s first_leak=%s first_wave=%s game_over=%s\n",
		marker(rs.firstKill), marker(rs.firstLeak), marker(rs.firstWave), marker(rs.gameOverAt))
	fmt.Print(rs.report.Format())
	fmt.Println()
}

func marker(d time.Duration) string {
	if d < 0 {
		return "never"
	}
	return d.Round(time.Millisecond).String()
}

func printAggregate(all []runStats) {
	totalScore := 0
	totalKills := 0
	totalLeaks := 0
	totalSpawned := 0
	gameOvers := 0
	maxWave := 0
	for _, rs := range all {
		totalScore += rs.report.FinalSnapshot.Score
		totalKills += rs.report.Kills
		totalLeaks += rs.report.Leaked
		totalSpawned += rs.report.Spawned
		if rs.report.FinalSnapshot.IsOver {
			gameOvers++
		}
		if rs.report.FinalSnapshot.Wave > maxWave {
			maxWave = rs.report.FinalSnapshot.Wave
		}
	}
	n := len(all)
	fmt.Printf("=== Aggregate (%d runs) ===\n", n)
	fmt.Printf("avg_score=%.1f avg_kills=%.1f avg_leaks=%.1f avg_spawned=%.1f\n",
		float64(totalScore)/float64(n), float64(totalKills)/float64(n),
		float64(totalLeaks)/float64(n), float64(totalSpawned)/float64(n))
	fmt.Printf("game_overs=%d/%d max_wave=%d\n", gameOvers, n, maxWave)
}
