package main

import (
	"context"
	"sync"

	"shamble/internal/speech"
)

// keyboardProvider stands in for a real microphone backend: key presses in
// the ebiten loop become transcripts on the active capture session. It keeps
// the whole speech pipeline live, including the recognizer's reset and
// debounce behaviour, without any audio hardware.
type keyboardProvider struct {
	mu     sync.Mutex
	active *keyboardSession
}

func newKeyboardProvider() *keyboardProvider {
	return &keyboardProvider{}
}

func (p *keyboardProvider) RequestAuthorization(ctx context.Context) error {
	return nil
}

func (p *keyboardProvider) StartSession(ctx context.Context) (speech.CaptureSession, error) {
	s := &keyboardSession{
		updates: make(chan speech.Transcript, 4),
	}
	p.mu.Lock()
	p.active = s
	p.mu.Unlock()
	return s, nil
}

// Push delivers a fake transcript to the active session, if any. Dropped
// silently when no session is live or its buffer is full, which matches how
// speech heard during a recognizer restart is simply lost.
func (p *keyboardProvider) Push(text string) {
	p.mu.Lock()
	s := p.active
	p.mu.Unlock()
	if s == nil {
		return
	}
	s.push(text)
}

type keyboardSession struct {
	updates chan speech.Transcript

	mu     sync.Mutex
	closed bool
}

func (s *keyboardSession) push(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.updates <- speech.Transcript{Text: text, Final: true}:
	default:
	}
}

func (s *keyboardSession) Updates() <-chan speech.Transcript { return s.updates }

func (s *keyboardSession) Err() error { return nil }

func (s *keyboardSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
	return nil
}
