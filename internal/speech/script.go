package speech

import (
	"context"
	"sync"
	"time"
)

// ScriptStep is one timed event inside a scripted capture session. If Err is
// set the session ends with that error instead of delivering text.
type ScriptStep struct {
	Delay time.Duration
	Text  string
	Final bool
	Err   error
}

// ScriptedProvider replays canned sessions in order, for tests and headless
// runs. Each StartSession consumes the next script; once the scripts run out,
// further sessions stay open and silent until closed.
type ScriptedProvider struct {
	AuthErr error

	mu      sync.Mutex
	scripts [][]ScriptStep
	next    int
}

func NewScriptedProvider(scripts ...[]ScriptStep) *ScriptedProvider {
	return &ScriptedProvider{scripts: scripts}
}

func (p *ScriptedProvider) RequestAuthorization(ctx context.Context) error {
	return p.AuthErr
}

func (p *ScriptedProvider) StartSession(ctx context.Context) (CaptureSession, error) {
	p.mu.Lock()
	var steps []ScriptStep
	if p.next < len(p.scripts) {
		steps = p.scripts[p.next]
		p.next++
	}
	p.mu.Unlock()

	s := &scriptedSession{
		updates: make(chan Transcript),
		done:    make(chan struct{}),
	}
	go s.play(ctx, steps)
	return s, nil
}

// SessionsStarted reports how many scripted sessions have been opened.
func (p *ScriptedProvider) SessionsStarted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

type scriptedSession struct {
	updates chan Transcript
	done    chan struct{}

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

func (s *scriptedSession) play(ctx context.Context, steps []ScriptStep) {
	defer close(s.updates)
	for _, step := range steps {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-time.After(step.Delay):
		}
		if step.Err != nil {
			s.mu.Lock()
			s.err = step.Err
			s.mu.Unlock()
			return
		}
		select {
		case s.updates <- Transcript{Text: step.Text, Final: step.Final}:
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
	// Script exhausted; hold the session open until someone closes it.
	select {
	case <-ctx.Done():
	case <-s.done:
	}
}

func (s *scriptedSession) Updates() <-chan Transcript { return s.updates }

func (s *scriptedSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *scriptedSession) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}
