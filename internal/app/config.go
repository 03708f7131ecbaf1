package app

import "flag"

// Config represents the command-line parameters for the viewer.
type Config struct {
	Pattern string
	Scale   int
	TPS     int
	W, H    int
	StepLog uint
	Zoom    uint
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 4, TPS: 30, W: 240, H: 160}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "pattern file to load (RLE or macrocell); empty starts blank")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "universe steps per second while running")
	fs.IntVar(&c.W, "w", c.W, "viewport width in cells")
	fs.IntVar(&c.H, "h", c.H, "viewport height in cells")
	fs.UintVar(&c.StepLog, "step-log", c.StepLog, "step exponent: each tick advances 2^k generations")
	fs.UintVar(&c.Zoom, "zoom", c.Zoom, "initial zoom exponent: cells per viewport pixel")
}
