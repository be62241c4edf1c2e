package core

// RuntimeConfig contains the display parameters a scene is rendered with.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Render ticks per second
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
// 16 ticks per second is close to the 60ms input window of the classic loop.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 16,
	}
}
