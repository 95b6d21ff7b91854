package ecs

import (
	"image"
	"testing"

	"github.com/phanxgames/tetra"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []tetra.Event
	EngineEventType.Subscribe(world, func(w donburi.World, e tetra.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(tetra.Event{
		Type:     tetra.EventTurnStarted,
		EntityID: 2,
		X:        100,
		Y:        200,
		Facing:   tetra.FacingRight,
	})
	sink.EmitEvent(tetra.Event{
		Type:     tetra.EventBufferResized,
		EntityID: -1,
		Rect:     image.Rect(0, 0, 40, 30),
	})

	// Events are queued; process them.
	EngineEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != tetra.EventTurnStarted || e0.EntityID != 2 || e0.Facing != tetra.FacingRight {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}
	e1 := received[1]
	if e1.Type != tetra.EventBufferResized || e1.Rect.Dx() != 40 {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink tetra.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_SchoolEvents(t *testing.T) {
	world := donburi.NewWorld()

	cfg := tetra.DefaultConfig()
	cfg.ScreenWidth, cfg.ScreenHeight = 400, 300
	cfg.SpriteWidth, cfg.SpriteHeight = 40, 20
	cfg.Count = 1
	cfg.PerturbChance = 0
	school, err := tetra.NewSchool(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	school.SetTapSource(nil)
	school.SetEventSink(NewDonburiSink(world))

	var types []tetra.EventType
	EngineEventType.Subscribe(world, func(w donburi.World, e tetra.Event) {
		types = append(types, e.Type)
	})

	fp := school.Entities()[0].CurrFootprint
	if _, ok := school.HandleTap(fp.Min.X+1, fp.Min.Y+1); !ok {
		t.Fatal("tap inside footprint should reverse the fish")
	}
	events.ProcessAllEvents(world)

	if len(types) != 2 || types[0] != tetra.EventTurnStarted || types[1] != tetra.EventTapped {
		t.Errorf("events = %v, want [turn-started tapped]", types)
	}
}

func TestMirror_Sync(t *testing.T) {
	world := donburi.NewWorld()
	m := NewMirror(world)

	fish := []*tetra.Entity{
		{ID: 0, Pos: tetra.Vec2{X: 10, Y: 20}, Facing: tetra.FacingLeft},
		{ID: 1, Pos: tetra.Vec2{X: 30, Y: 40}, Facing: tetra.FacingRight, Turn: &tetra.TurnState{}},
	}
	m.Sync(fish)
	if world.Len() != 2 {
		t.Fatalf("world has %d entities, want 2", world.Len())
	}

	fish[0].Pos.X = 99
	m.Sync(fish)
	if world.Len() != 2 {
		t.Fatalf("resync created entities: %d", world.Len())
	}

	id, ok := m.Entity(0)
	if !ok {
		t.Fatal("no entity for fish 0")
	}
	d := Fish.Get(world.Entry(id))
	if d.X != 99 || d.Facing != tetra.FacingLeft || d.Turning {
		t.Errorf("fish 0 = %+v", d)
	}

	id1, _ := m.Entity(1)
	if d1 := Fish.Get(world.Entry(id1)); !d1.Turning || d1.Y != 40 {
		t.Errorf("fish 1 = %+v", d1)
	}
}
