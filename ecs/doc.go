// Package ecs provides ECS adapters for tetra.
//
// [NewDonburiSink] bridges tetra engine events (turn started, turn finished,
// tap, buffer resize) into a [Donburi] world as typed events. Subscribe to
// [EngineEventType] in your ECS systems to receive them.
//
// [Mirror] copies the state of every fish into Donburi entries once per
// tick so systems can query fish with ordinary Donburi queries.
//
// Usage:
//
//	school.SetEventSink(ecs.NewDonburiSink(world))
//	mirror := ecs.NewMirror(world)
//	// each frame, after school.Tick:
//	mirror.Sync(school.Entities())
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
