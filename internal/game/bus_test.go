package game

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

func nextMessage(t *testing.T, msgs <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-msgs:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a bus message")
		return nil
	}
}

func TestBusDeliversCombatEvents(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	combat, err := bus.Subscribe(ctx, TopicCombat)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	states, err := bus.Subscribe(ctx, TopicState)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	tg := NewTestGame(WithTestBus(bus))
	tg.Start()
	tg.Say(ZoneHead)

	var ev CombatEvent
	if err := json.Unmarshal(nextMessage(t, combat).Payload, &ev); err != nil {
		t.Fatalf("unmarshal combat event: %v", err)
	}
	if ev.Outcome != "kill" || ev.Zone != "head" || ev.Points != 100 {
		t.Fatalf("combat event = %+v", ev)
	}
	if ev.SessionID != tg.Session.ID {
		t.Fatalf("event session = %q, want %q", ev.SessionID, tg.Session.ID)
	}

	// Start publishes the initial state, the kill publishes the scored one.
	var st StateUpdate
	if err := json.Unmarshal(nextMessage(t, states).Payload, &st); err != nil {
		t.Fatalf("unmarshal state update: %v", err)
	}
	if st.Score != 0 || st.Health != 100 {
		t.Fatalf("initial state update = %+v", st)
	}
	if err := json.Unmarshal(nextMessage(t, states).Payload, &st); err != nil {
		t.Fatalf("unmarshal state update: %v", err)
	}
	if st.Score != 100 {
		t.Fatalf("scored state update = %+v", st)
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	bus.Publish(TopicState, StateUpdate{})
	if err := bus.Close(); err != nil {
		t.Fatalf("nil bus close: %v", err)
	}
}
