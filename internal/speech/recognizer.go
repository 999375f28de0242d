package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"shamble/internal/game"
	"shamble/pkg/logger"
)

// State is the recognizer lifecycle state.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateTearingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateTearingDown:
		return "tearing_down"
	default:
		return "unknown"
	}
}

// Recognizer runs the restart loop around an unreliable capture session and
// emits debounced intents. One Run goroutine owns the whole state machine;
// Listening and ForceReset are the only concurrent entry points.
type Recognizer struct {
	provider Provider
	clock    game.Clock
	intents  chan<- game.Intent

	cooldown     time.Duration
	restartDelay time.Duration

	// OnListening, when set, is called on every listening flip. Set it
	// before Run.
	OnListening func(bool)

	resetCh chan struct{}

	mu           sync.Mutex
	state        State
	listening    bool
	lastAccepted time.Time
}

func NewRecognizer(provider Provider, clock game.Clock, cfg *game.Config, intents chan<- game.Intent) *Recognizer {
	return &Recognizer{
		provider:     provider,
		clock:        clock,
		intents:      intents,
		cooldown:     cfg.IntentCooldown,
		restartDelay: cfg.RecognizerDelay,
		resetCh:      make(chan struct{}, 1),
	}
}

// Listening reports whether a capture session is live.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// State returns the current lifecycle state.
func (r *Recognizer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ForceReset tears down the current capture session and brings up a fresh
// one after the restart delay. The game restart path uses this to discard
// queued partials.
func (r *Recognizer) ForceReset() {
	select {
	case r.resetCh <- struct{}{}:
	default:
	}
}

// Run drives capture until ctx is cancelled. Authorization denial is the one
// fatal error; session failures only trigger the restart cycle.
func (r *Recognizer) Run(ctx context.Context) error {
	if err := r.provider.RequestAuthorization(ctx); err != nil {
		if errors.Is(err, ErrAuthorizationDenied) {
			logger.Log.WithError(err).Error("speech authorization denied, listening disabled")
			return err
		}
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		sess, err := r.provider.StartSession(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("capture session failed to start")
			if err := r.pause(ctx); err != nil {
				return err
			}
			continue
		}

		// A reset posted while no session was live has nothing to discard;
		// drop it so it cannot tear down the fresh session on arrival.
		select {
		case <-r.resetCh:
		default:
		}

		r.setState(StateCapturing)
		r.setListening(true)
		r.consume(ctx, sess)

		r.setState(StateTearingDown)
		r.setListening(false)
		if err := sess.Close(); err != nil {
			logger.Log.WithError(err).Warn("capture session close failed")
		}

		// Fixed delay before reinit so a flapping session cannot thrash the
		// audio subsystem.
		if err := r.pause(ctx); err != nil {
			return err
		}
		r.setState(StateIdle)
	}
}

// consume reads one session until it ends, is reset, or an intent is
// accepted. Acceptance returns immediately so the caller tears the session
// down, discarding any queued partials that could double-fire.
func (r *Recognizer) consume(ctx context.Context, sess CaptureSession) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.resetCh:
			logger.Log.Debug("capture session reset requested")
			return
		case tr, ok := <-sess.Updates():
			if !ok {
				if err := sess.Err(); err != nil {
					logger.Log.WithError(err).Warn("capture session ended with error")
				}
				return
			}
			zone, found := ExtractZone(tr.Text)
			if !found {
				continue
			}
			now := r.clock.Now()
			if !r.accept(now) {
				logger.Log.WithField("zone", zone).Debug("intent dropped by cooldown")
				continue
			}
			logger.Log.WithField("zone", zone).Info("intent accepted")
			select {
			case r.intents <- game.Intent{Zone: zone, At: now}:
			case <-ctx.Done():
			}
			return
		}
	}
}

// accept applies the debounce rule: at least cooldown must have passed since
// the previous accepted intent, whatever transcript it came from.
func (r *Recognizer) accept(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.lastAccepted.IsZero() && now.Sub(r.lastAccepted) < r.cooldown {
		return false
	}
	r.lastAccepted = now
	return true
}

func (r *Recognizer) pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.clock.After(r.restartDelay):
		return nil
	}
}

func (r *Recognizer) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Recognizer) setListening(v bool) {
	r.mu.Lock()
	changed := r.listening != v
	r.listening = v
	cb := r.OnListening
	r.mu.Unlock()
	if changed && cb != nil {
		cb(v)
	}
}

// ExtractZone scans a transcript for a zone keyword. Matching is
// case-insensitive substring presence, checked head, body, legs; the first
// hit wins when a transcript contains several.
func ExtractZone(text string) (game.Zone, bool) {
	lower := strings.ToLower(text)
	for z := game.ZoneHead; z < game.ZoneCount; z++ {
		if strings.Contains(lower, z.String()) {
			return z, true
		}
	}
	return game.ZoneHead, false
}
