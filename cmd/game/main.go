package main

import (
	"context"
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"shamble/internal/game"
	"shamble/internal/speech"
	"shamble/pkg/logger"
)

func main() {
	logger.Init()

	cfg, err := game.FromEnv()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}

	bus := game.NewBus()
	defer bus.Close()

	clock := game.NewClock()
	keys := newKeyboardProvider()

	app := NewApp(keys)
	session := game.NewSession(&cfg, clock, app, bus, time.Now().UnixNano())
	rec := speech.NewRecognizer(keys, clock, &cfg, session.Intents())
	rec.OnListening = session.SetListening
	app.Bind(session, rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("session loop stopped")
		}
	}()
	go func() {
		if err := rec.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("recognizer stopped")
		}
	}()

	ebiten.SetWindowTitle("Shamble")
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(app); err != nil {
		logger.Log.Fatal(err)
	}
}
