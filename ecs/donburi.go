package ecs

import (
	"image"

	"github.com/phanxgames/tetra"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EngineEventType is the Donburi event type for tetra engine events.
var EngineEventType = events.NewEventType[tetra.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on EngineEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) tetra.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event tetra.Event) {
	EngineEventType.Publish(s.world, event)
}

// FishData is the per-fish state mirrored into the world.
type FishData struct {
	ID        int
	X, Y      float64
	VX, VY    float64
	Facing    tetra.Facing
	Turning   bool
	Depth     float64
	Pose      tetra.PoseKey
	Footprint image.Rectangle
}

// Fish is the component holding FishData.
var Fish = donburi.NewComponentType[FishData]()

// Mirror keeps one Donburi entity per fish.
type Mirror struct {
	world   donburi.World
	entries map[int]donburi.Entity
}

// NewMirror creates a mirror writing into world.
func NewMirror(world donburi.World) *Mirror {
	return &Mirror{world: world, entries: make(map[int]donburi.Entity)}
}

// Sync copies every fish into its entry, creating entries on first sight.
func (m *Mirror) Sync(fish []*tetra.Entity) {
	for _, f := range fish {
		id, ok := m.entries[f.ID]
		if !ok || !m.world.Valid(id) {
			id = m.world.Create(Fish)
			m.entries[f.ID] = id
		}
		entry := m.world.Entry(id)
		*Fish.Get(entry) = FishData{
			ID:        f.ID,
			X:         f.Pos.X,
			Y:         f.Pos.Y,
			VX:        f.Vel.X,
			VY:        f.Vel.Y,
			Facing:    f.Facing,
			Turning:   f.Turning(),
			Depth:     f.Depth,
			Pose:      f.Pose,
			Footprint: f.CurrFootprint,
		}
	}
}

// Entity returns the Donburi entity mirroring the fish with the given ID.
func (m *Mirror) Entity(fishID int) (donburi.Entity, bool) {
	id, ok := m.entries[fishID]
	return id, ok
}
