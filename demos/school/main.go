// School spawns a large school of placeholder fish with perspective enabled
// and logs how much of the screen each frame actually repaints. A stress
// test for the dirty-rectangle compositor: with many fish the rectangle
// approaches the full screen, with few it stays small.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/tetra"
)

const (
	screenW = 1280
	screenH = 720
)

func main() {
	count := flag.Int("n", 200, "number of fish")
	frames := flag.Int("frames", 0, "exit after this many frames (0 runs forever)")
	debug := flag.Bool("debug", false, "log per-tick timings")
	flag.Parse()

	cfg := tetra.DefaultConfig()
	cfg.ScreenWidth, cfg.ScreenHeight = screenW, screenH
	cfg.SpriteWidth, cfg.SpriteHeight = 90, 50
	cfg.Count = *count
	cfg.SpawnMargin = 10
	cfg.Perspective = true
	cfg.ScaleMin, cfg.ScaleMax = 0.3, 1.2
	cfg.TurnSteps = 10
	cfg.AlternateRoute = true
	cfg.PerturbCooldown = tetra.Range{Min: 1, Max: 4}
	cfg.Seed = 7

	school, err := tetra.NewSchool(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}

	n := 0
	school.SetUpdateFunc(func() error {
		n++
		if n == 30 {
			school.ScreenshotDir = "docs/demos/school"
			school.Screenshot("thumbnail")
		}
		if *frames > 0 && n > *frames {
			st := school.Compositor().Stats()
			log.Printf("composed %d frames, %d reallocs, %.1f%% average coverage",
				st.Composed, st.Reallocs,
				100*float64(st.DirtyArea)/float64(max(st.Composed, 1)*screenW*screenH))
			return ebiten.Termination
		}
		return nil
	})

	if err := tetra.Run(school, tetra.RunConfig{
		Title:     "Tetra — School Demo",
		Width:     screenW,
		Height:    screenH,
		ShowStats: true,
		Debug:     *debug,
	}); err != nil {
		log.Fatal(err)
	}
}
