package gonesis

// Config holds the settings a Console is built with.
type Config struct {
	// Seed fills power-on work RAM. Consoles built with the same seed and
	// cartridge run identically.
	Seed int64
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{Seed: 0}
}
