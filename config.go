package tetra

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("tetra: invalid config")

// Config holds the geometry and tuning constants of a school. Start from
// DefaultConfig and override fields; the zero value is not usable.
type Config struct {
	// Display and sprite geometry, in pixels.
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	SpriteWidth  int `json:"spriteWidth"`
	SpriteHeight int `json:"spriteHeight"`

	// Count is the fixed population size.
	Count int `json:"count"`
	// SpawnMargin keeps spawned fish away from the edges when it fits.
	SpawnMargin int `json:"spawnMargin"`

	// Seed seeds the default random source when Rand is nil.
	Seed uint64 `json:"seed"`
	// Rand overrides the random source. Not loaded from JSON.
	Rand Rand `json:"-"`

	// Motion.
	SpeedScale      float64 `json:"speedScale"`      // pixels per second per unit of velocity
	MaxSpeed        float64 `json:"maxSpeed"`        // velocity magnitude bound
	InitialSpeed    Range   `json:"initialSpeed"`    // per-axis magnitude at spawn
	PerturbChance   float64 `json:"perturbChance"`   // per-tick probability of a nudge
	PerturbDelta    float64 `json:"perturbDelta"`    // max nudge per axis
	PerturbCooldown Range   `json:"perturbCooldown"` // seconds between nudges; overrides PerturbChance when set
	MaxDelta        float64 `json:"maxDelta"`        // tick delta clamp, seconds

	// Swim cycle.
	FrameCount     int     `json:"frameCount"`
	CycleLength    float64 `json:"cycleLength"`
	CyclesPerSec   float64 `json:"cyclesPerSec"`
	SwimSpeed      Range   `json:"swimSpeed"`      // per-fish multiplier drawn at spawn
	SuppressFrame  int     `json:"suppressFrame"`  // frame replaced by its predecessor; -1 disables
	SuppressChance float64 `json:"suppressChance"` // probability of the replacement

	// Turning.
	TurnDuration   float64 `json:"turnDuration"` // seconds
	TurnSteps      int     `json:"turnSteps"`    // 3, 5 or 10 poses
	AlternateRoute bool    `json:"alternateRoute"`

	// Depth and perspective.
	Perspective      bool    `json:"perspective"`
	DepthChangeSpeed float64 `json:"depthChangeSpeed"` // depth units per second
	DepthEpsilon     float64 `json:"depthEpsilon"`
	MinDriftSpeed    float64 `json:"minDriftSpeed"` // |vx| below which depth holds still
	ScaleMin         float64 `json:"scaleMin"`
	ScaleMax         float64 `json:"scaleMax"`

	// Compositing.
	Background      Color `json:"background"`
	ColorKey        Color `json:"colorKey"`
	DirtyMargin     int   `json:"dirtyMargin"`
	MaxBufferPixels int   `json:"maxBufferPixels"` // 0 means the full screen area
}

// DefaultConfig returns the settings of the reference device: a 1280x720
// panel, three 358x200 fish, one-second turns through five poses.
func DefaultConfig() Config {
	return Config{
		ScreenWidth:  1280,
		ScreenHeight: 720,
		SpriteWidth:  358,
		SpriteHeight: 200,
		Count:        3,
		SpawnMargin:  100,

		SpeedScale:    50,
		MaxSpeed:      2.0,
		InitialSpeed:  Range{Min: 0.5, Max: 1.5},
		PerturbChance: 0.01,
		PerturbDelta:  1.0,
		MaxDelta:      1.0 / 30.0,

		FrameCount:     6,
		CycleLength:    6.0,
		CyclesPerSec:   1.0,
		SwimSpeed:      Range{Min: 0.8, Max: 1.2},
		SuppressFrame:  -1,
		SuppressChance: 0.9,

		TurnDuration: 1.0,
		TurnSteps:    5,

		DepthChangeSpeed: 0.1,
		DepthEpsilon:     0.01,
		MinDriftSpeed:    0.3,
		ScaleMin:         0.5,
		ScaleMax:         1.0,

		Background:  ColorDodgerBlue,
		ColorKey:    ColorKeyGreen,
		DirtyMargin: 2,
	}
}

// LoadConfig parses JSON over DefaultConfig and validates the result.
// Fields absent from the JSON keep their default values.
func LoadConfig(jsonData []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, fmt.Errorf("tetra: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistency in c.
func (c *Config) Validate() error {
	switch {
	case c.ScreenWidth <= 0 || c.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidConfig, c.ScreenWidth, c.ScreenHeight)
	case c.SpriteWidth <= 0 || c.SpriteHeight <= 0:
		return fmt.Errorf("%w: sprite %dx%d", ErrInvalidConfig, c.SpriteWidth, c.SpriteHeight)
	case c.SpriteWidth > c.ScreenWidth || c.SpriteHeight > c.ScreenHeight:
		return fmt.Errorf("%w: sprite %dx%d does not fit screen %dx%d",
			ErrInvalidConfig, c.SpriteWidth, c.SpriteHeight, c.ScreenWidth, c.ScreenHeight)
	case c.Count < 0:
		return fmt.Errorf("%w: count %d", ErrInvalidConfig, c.Count)
	case c.SpeedScale <= 0 || c.MaxSpeed <= 0:
		return fmt.Errorf("%w: speedScale %v, maxSpeed %v", ErrInvalidConfig, c.SpeedScale, c.MaxSpeed)
	case c.MaxDelta <= 0:
		return fmt.Errorf("%w: maxDelta %v", ErrInvalidConfig, c.MaxDelta)
	case c.FrameCount <= 0 || c.CycleLength <= 0:
		return fmt.Errorf("%w: frameCount %d, cycleLength %v", ErrInvalidConfig, c.FrameCount, c.CycleLength)
	case c.SuppressFrame >= c.FrameCount:
		return fmt.Errorf("%w: suppressFrame %d out of %d frames", ErrInvalidConfig, c.SuppressFrame, c.FrameCount)
	case c.TurnDuration <= 0:
		return fmt.Errorf("%w: turnDuration %v", ErrInvalidConfig, c.TurnDuration)
	case c.TurnSteps != 3 && c.TurnSteps != 5 && c.TurnSteps != 10:
		return fmt.Errorf("%w: turnSteps %d (want 3, 5 or 10)", ErrInvalidConfig, c.TurnSteps)
	case c.PerturbCooldown.Min < 0 || c.PerturbCooldown.Max < c.PerturbCooldown.Min:
		return fmt.Errorf("%w: perturbCooldown %+v", ErrInvalidConfig, c.PerturbCooldown)
	case c.DirtyMargin < 0 || c.MaxBufferPixels < 0:
		return fmt.Errorf("%w: dirtyMargin %d, maxBufferPixels %d", ErrInvalidConfig, c.DirtyMargin, c.MaxBufferPixels)
	}
	if c.Perspective {
		switch {
		case c.ScaleMin <= 0 || c.ScaleMax < c.ScaleMin:
			return fmt.Errorf("%w: scale range [%v, %v]", ErrInvalidConfig, c.ScaleMin, c.ScaleMax)
		case float64(c.SpriteWidth)*c.ScaleMax > float64(c.ScreenWidth) ||
			float64(c.SpriteHeight)*c.ScaleMax > float64(c.ScreenHeight):
			return fmt.Errorf("%w: sprite at scale %v does not fit screen", ErrInvalidConfig, c.ScaleMax)
		case c.DepthChangeSpeed <= 0 || c.DepthEpsilon <= 0:
			return fmt.Errorf("%w: depthChangeSpeed %v, depthEpsilon %v",
				ErrInvalidConfig, c.DepthChangeSpeed, c.DepthEpsilon)
		}
	}
	return nil
}

// phaseStep is the swim phase width of one frame.
func (c *Config) phaseStep() float64 {
	return c.CycleLength / float64(c.FrameCount)
}

// maxBufferPixels returns the effective buffer area limit.
func (c *Config) maxBufferPixels() int {
	if c.MaxBufferPixels > 0 {
		return c.MaxBufferPixels
	}
	return c.ScreenWidth * c.ScreenHeight
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height set the window size. Zero uses the school's screen size.
	Width, Height int
	// ShowStats draws the stats overlay on top of the panel.
	ShowStats bool
	// Debug enables per-tick timing logs on stderr.
	Debug bool
}
