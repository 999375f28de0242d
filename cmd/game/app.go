package main

import (
	"fmt"
	"image/color"
	"sort"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"shamble/internal/game"
	"shamble/internal/speech"
	"shamble/pkg/logger"
)

const (
	screenW = 960
	screenH = 540

	horizonY  = 150.0
	flashFor  = 200 * time.Millisecond
	bannerFor = time.Second
	noticeFor = 2 * time.Second
	maxHealth = 100
)

// sprite is the client-side view of one enemy. Health here is a display
// estimate maintained from hit flashes; the authoritative value lives in the
// game core.
type sprite struct {
	from, to   game.Vec3
	start      time.Time
	dur        time.Duration
	health     int
	dying      bool
	flashZone  game.Zone
	flashUntil time.Time
}

func (s *sprite) pos(now time.Time) game.Vec3 {
	if s.dur <= 0 {
		return s.from
	}
	t := float64(now.Sub(s.start)) / float64(s.dur)
	return s.from.Lerp(s.to, t)
}

type banner struct {
	zone  game.Zone
	at    game.Vec3
	until time.Time
}

// App is the ebiten presentation layer. The game core drives it through the
// Renderer interface from the session goroutine, so all visual state sits
// behind one mutex; Update and Draw run on the ebiten loop.
type App struct {
	session *game.Session
	rec     *speech.Recognizer
	keys    *keyboardProvider

	mu          sync.Mutex
	sprites     map[int]*sprite
	nextHandle  int
	banners     []banner
	hitPulse    time.Time
	noticeText  string
	noticeUntil time.Time
}

func NewApp(keys *keyboardProvider) *App {
	return &App{
		keys:    keys,
		sprites: make(map[int]*sprite),
	}
}

// Bind attaches the game core once it exists; the app and the session are
// constructed in a cycle (the session needs its renderer up front).
func (a *App) Bind(session *game.Session, rec *speech.Recognizer) {
	a.session = session
	a.rec = rec
}

// Renderer implementation. Called from the session goroutine.

func (a *App) SpawnEnemy(e *game.Enemy) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextHandle++
	a.sprites[a.nextHandle] = &sprite{
		from:   e.SpawnPos,
		to:     e.SpawnPos,
		health: maxHealth,
	}
	return a.nextHandle
}

func (a *App) AdvanceEnemy(handle int, dst game.Vec3, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sprites[handle]; ok {
		s.to = dst
		s.start = time.Now()
		s.dur = d
	}
}

func (a *App) RemoveEnemy(handle int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sprites, handle)
}

func (a *App) FlashHit(handle int, zone game.Zone) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sprites[handle]; ok {
		s.flashZone = zone
		s.flashUntil = time.Now().Add(flashFor)
		s.health -= zone.Damage()
		if s.health <= 0 {
			s.health = 0
			s.dying = true
		}
	}
}

func (a *App) ShowKillBanner(zone game.Zone, at game.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.banners = append(a.banners, banner{zone: zone, at: at, until: time.Now().Add(bannerFor)})
}

func (a *App) PlayHitSound(zone game.Zone) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hitPulse = time.Now()
}

// ebiten.Game implementation.

func (a *App) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		a.keys.Push("head")
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		a.keys.Push("body")
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		a.keys.Push("legs")
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		a.session.Start()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.session.Restart()
		a.rec.ForceReset()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		a.copyReport()
	}

	now := time.Now()
	a.mu.Lock()
	kept := a.banners[:0]
	for _, b := range a.banners {
		if b.until.After(now) {
			kept = append(kept, b)
		}
	}
	a.banners = kept
	a.mu.Unlock()
	return nil
}

func (a *App) copyReport() {
	report := game.BuildReport(a.session).Format()
	if err := clipboard.WriteAll(report); err != nil {
		logger.Log.WithError(err).Warn("clipboard copy failed")
		a.setNotice("clipboard unavailable")
		return
	}
	a.setNotice("session report copied")
}

func (a *App) setNotice(s string) {
	a.mu.Lock()
	a.noticeText = s
	a.noticeUntil = time.Now().Add(noticeFor)
	a.mu.Unlock()
}

// project maps a game-space point (x lateral, z depth in [-spawnDist, 0]) to
// screen coordinates plus a perspective scale factor.
func project(v game.Vec3) (float32, float32, float32) {
	p := 1.0 / (1.0 + (-v.Z)*0.35)
	sx := screenW/2 + v.X*280*p
	sy := horizonY + 330*p
	return float32(sx), float32(sy), float32(p)
}

func (a *App) Draw(screen *ebiten.Image) {
	now := time.Now()

	// Sky and ground.
	screen.Fill(color.RGBA{R: 18, G: 16, B: 28, A: 255})
	vector.FillRect(screen, 0, horizonY, screenW, screenH-horizonY, color.RGBA{R: 32, G: 38, B: 30, A: 255}, false)
	vector.StrokeLine(screen, 0, horizonY, screenW, horizonY, 1.0, color.RGBA{R: 70, G: 80, B: 60, A: 255}, false)

	a.mu.Lock()
	views := a.spriteViewsLocked(now)
	banners := append([]banner(nil), a.banners...)
	hitPulse := a.hitPulse
	notice := ""
	if a.noticeUntil.After(now) {
		notice = a.noticeText
	}
	a.mu.Unlock()

	// Far to near so close zombies overdraw distant ones.
	sort.Slice(views, func(i, j int) bool {
		return views[i].pos.Z < views[j].pos.Z
	})
	for _, v := range views {
		a.drawZombie(screen, v)
	}

	for _, b := range banners {
		bx, by, _ := project(b.at)
		label := fmt.Sprintf("%s KILL +%d", b.zone, b.zone.Damage())
		text.Draw(screen, label, basicfont.Face7x13, int(bx)-len(label)*3, int(by)-70, color.RGBA{R: 255, G: 220, B: 80, A: 255})
	}

	if now.Sub(hitPulse) < flashFor {
		vector.FillCircle(screen, screenW/2, screenH-14, 9, color.RGBA{R: 255, G: 200, B: 120, A: 220}, false)
	}

	a.drawHUD(screen, notice)
}

// spriteView is a value snapshot of one sprite at a draw instant. Draw works
// from these so no sprite field is ever read outside the mutex while the
// session goroutine mutates it.
type spriteView struct {
	pos       game.Vec3
	health    int
	dying     bool
	flashZone game.Zone
	flash     bool
}

// spriteViewsLocked resolves every sprite to its drawable values. Caller
// holds a.mu.
func (a *App) spriteViewsLocked(now time.Time) []spriteView {
	views := make([]spriteView, 0, len(a.sprites))
	for _, s := range a.sprites {
		views = append(views, spriteView{
			pos:       s.pos(now),
			health:    s.health,
			dying:     s.dying,
			flashZone: s.flashZone,
			flash:     s.flashUntil.After(now),
		})
	}
	return views
}

func (a *App) drawZombie(screen *ebiten.Image, v spriteView) {
	sx, sy, p := project(v.pos)

	bodyW := 34 * p
	bodyH := 60 * p
	headR := 13 * p
	legH := 26 * p

	skin := color.RGBA{R: 92, G: 140, B: 84, A: 255}
	if v.dying {
		skin = color.RGBA{R: 70, G: 78, B: 70, A: 200}
	}

	zoneCol := func(z game.Zone, base color.RGBA) color.RGBA {
		if v.flash && v.flashZone == z {
			return color.RGBA{R: 255, G: 90, B: 70, A: 255}
		}
		return base
	}

	// Legs, torso, head; sy is where the feet meet the ground.
	legTop := sy - legH
	vector.StrokeLine(screen, sx-bodyW/4, sy, sx-bodyW/4, legTop, 4*p, zoneCol(game.ZoneLegs, skin), false)
	vector.StrokeLine(screen, sx+bodyW/4, sy, sx+bodyW/4, legTop, 4*p, zoneCol(game.ZoneLegs, skin), false)
	vector.FillRect(screen, sx-bodyW/2, legTop-bodyH, bodyW, bodyH, zoneCol(game.ZoneBody, skin), false)
	vector.FillCircle(screen, sx, legTop-bodyH-headR, headR, zoneCol(game.ZoneHead, skin), false)

	// Health bar.
	if !v.dying {
		barW := 40 * p
		barY := legTop - bodyH - 2*headR - 8*p
		vector.FillRect(screen, sx-barW/2, barY, barW, 4*p, color.RGBA{R: 50, G: 50, B: 50, A: 255}, false)
		frac := float32(v.health) / maxHealth
		vector.FillRect(screen, sx-barW/2, barY, barW*frac, 4*p, color.RGBA{R: 200, G: 60, B: 50, A: 255}, false)
	}
}

func (a *App) drawHUD(screen *ebiten.Image, notice string) {
	snap := a.session.Snapshot()

	listening := "paused"
	if snap.Listening {
		listening = "listening"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("score %d   health %.0f   wave %d   [%s]", snap.Score, snap.Health, snap.Wave, listening), 8, 8)
	ebitenutil.DebugPrintAt(screen, "H/B/L call a zone   Enter start   R restart   C copy report", 8, 24)

	switch snap.Phase {
	case game.PhaseIdle:
		text.Draw(screen, "SHAMBLE", basicfont.Face7x13, screenW/2-28, screenH/2-20, color.White)
		text.Draw(screen, "press Enter", basicfont.Face7x13, screenW/2-38, screenH/2, color.RGBA{R: 180, G: 180, B: 180, A: 255})
	case game.PhaseOver:
		text.Draw(screen, "GAME OVER", basicfont.Face7x13, screenW/2-32, screenH/2-20, color.RGBA{R: 255, G: 90, B: 70, A: 255})
		text.Draw(screen, fmt.Sprintf("final score %d, wave %d", snap.Score, snap.Wave), basicfont.Face7x13, screenW/2-70, screenH/2, color.White)
		text.Draw(screen, "press R to restart", basicfont.Face7x13, screenW/2-56, screenH/2+20, color.RGBA{R: 180, G: 180, B: 180, A: 255})
	}

	if notice != "" {
		ebitenutil.DebugPrintAt(screen, notice, 8, screenH-20)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}
