package game

import "time"

// Renderer is the presentation surface the session drives. All calls happen
// from the session goroutine; implementations that touch a UI thread must do
// their own hand-off.
type Renderer interface {
	// SpawnEnemy introduces a visual for the enemy and returns a handle the
	// session passes back on later calls.
	SpawnEnemy(e *Enemy) int
	// AdvanceEnemy starts the straight-line walk from the enemy's current
	// position to dst over d.
	AdvanceEnemy(handle int, dst Vec3, d time.Duration)
	RemoveEnemy(handle int)
	FlashHit(handle int, zone Zone)
	ShowKillBanner(zone Zone, at Vec3)
	PlayHitSound(zone Zone)
}

// NopRenderer satisfies Renderer for headless runs.
type NopRenderer struct{}

func (NopRenderer) SpawnEnemy(*Enemy) int                  { return 0 }
func (NopRenderer) AdvanceEnemy(int, Vec3, time.Duration)  {}
func (NopRenderer) RemoveEnemy(int)                        {}
func (NopRenderer) FlashHit(int, Zone)                     {}
func (NopRenderer) ShowKillBanner(Zone, Vec3)              {}
func (NopRenderer) PlayHitSound(Zone)                      {}
