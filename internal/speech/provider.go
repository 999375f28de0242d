// Package speech turns a noisy, continuously-restarting transcription stream
// into debounced game intents.
package speech

import (
	"context"
	"errors"
)

// Transcript is one recognition update. Partial updates may be revised by
// later ones; a final update closes the utterance.
type Transcript struct {
	Text  string
	Final bool
}

// CaptureSession is one live recognition session over an audio tap. Updates
// is closed when the session ends, either cleanly or after Err turns
// non-nil. Close must fully release the audio tap; it is safe to call twice.
type CaptureSession interface {
	Updates() <-chan Transcript
	Err() error
	Close() error
}

// Provider abstracts the speech backend.
type Provider interface {
	// RequestAuthorization asks for microphone and recognition permission.
	// ErrAuthorizationDenied is permanent; the recognizer will not retry it.
	RequestAuthorization(ctx context.Context) error
	// StartSession opens a fresh capture session.
	StartSession(ctx context.Context) (CaptureSession, error)
}

var (
	// ErrAuthorizationDenied means the user refused recognition permission.
	// Fatal to listening; everything else in the game keeps working.
	ErrAuthorizationDenied = errors.New("speech: authorization denied")

	// ErrAudioEngine means the audio tap failed to start. Transient; the
	// recognizer logs it and schedules a restart.
	ErrAudioEngine = errors.New("speech: audio engine start failed")
)
