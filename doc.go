// Package tetra is a small-display aquarium engine for [Ebitengine].
//
// Tetra animates a fixed school of sprite fish and redraws only the part of
// the display that changed. Every tick the engine integrates motion, picks a
// discrete pose for each fish (a looping swim cycle, or a short sequence of
// pre-rendered angles while the fish turns around), optionally drifts each
// fish through a depth range that drives scale and paint order, and finally
// composites every fish into one off-screen buffer covering the union of the
// previous and current footprints. That buffer is the only thing written to
// the display per tick.
//
// # Quick start
//
//	cfg := tetra.DefaultConfig()
//	cfg.ScreenWidth, cfg.ScreenHeight = 320, 240
//	school, err := tetra.NewSchool(cfg, tetra.NewFSStore(os.DirFS("assets"), "images"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	tetra.Run(school, tetra.RunConfig{Title: "Aquarium", Width: 320, Height: 240})
//
// For full control, drive [School.Tick] and [School.Compose] yourself with
// any [Surface]. [Panel] is the Ebitengine-backed surface used by [Run].
//
// # Poses
//
// A [PoseKey] names what to draw, never how: it is resolved to an image
// through the [AssetStore] at draw time. Missing assets degrade to a
// procedural placeholder fish; the engine never stops because of them.
//
// # Randomness
//
// All randomness flows through a [Rand] supplied in [Config]. Seed it with
// [NewRand] for reproducible runs.
//
// # Events
//
// An optional [EventSink] receives turn, tap and buffer events. The
// tetra/ecs module forwards them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package tetra
