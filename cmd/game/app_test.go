package main

import (
	"sync"
	"testing"
	"time"

	"shamble/internal/game"
)

func snapshotViews(a *App, now time.Time) []spriteView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spriteViewsLocked(now)
}

func TestSpriteViewsAreValueSnapshots(t *testing.T) {
	a := NewApp(newKeyboardProvider())
	h := a.SpawnEnemy(&game.Enemy{ID: 1, Health: 100, SpawnPos: game.Vec3{Z: -5}})
	a.AdvanceEnemy(h, game.Origin, 5*time.Second)

	// Hammer the session-side mutators while the draw side snapshots; the
	// race detector flags any sprite field read outside the lock.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			a.FlashHit(h, game.ZoneLegs)
			a.AdvanceEnemy(h, game.Origin, 5*time.Second)
		}
	}()

	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		views := snapshotViews(a, time.Now())
		if len(views) != 1 {
			t.Fatalf("views = %d, want 1", len(views))
		}
	}
	close(stop)
	wg.Wait()
}

func TestDisplayHealthReachingZeroMarksDying(t *testing.T) {
	a := NewApp(newKeyboardProvider())
	h := a.SpawnEnemy(&game.Enemy{ID: 1, Health: 100, SpawnPos: game.Vec3{Z: -5}})

	a.FlashHit(h, game.ZoneBody)
	now := time.Now()
	if v := snapshotViews(a, now)[0]; v.dying || v.health != 50 {
		t.Fatalf("after one body hit view = %+v, want alive at 50", v)
	}

	a.FlashHit(h, game.ZoneBody)
	if v := snapshotViews(a, now)[0]; !v.dying || v.health != 0 {
		t.Fatalf("after the killing hit view = %+v, want dying at 0", v)
	}

	// Overkill damage keeps the display floored.
	a.FlashHit(h, game.ZoneHead)
	if v := snapshotViews(a, now)[0]; v.health != 0 {
		t.Fatalf("overkill view health = %d, want 0", v.health)
	}
}
