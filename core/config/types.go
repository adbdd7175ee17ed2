package config

import "time"

// FileConfig is the on-disk configuration of the engine.
type FileConfig struct {
	Machine Machine `yaml:"machine"`
	Search  Search  `yaml:"search"`
	Logging Logging `yaml:"logging"`
}

// Machine holds the key used for encoding.
type Machine struct {
	Rotors    []string `yaml:"rotors"`    // left to right, e.g. ["I", "II", "III"]
	Positions string   `yaml:"positions"` // e.g. "AAA"
	Plugboard string   `yaml:"plugboard"` // e.g. "AB CD" or "A:B,C:D"
}

// Search configures crib attacks.
type Search struct {
	PlugboardPairs   int     `yaml:"plugboard_pairs"`
	Iterations       int     `yaml:"iterations"`
	StartTemperature float64 `yaml:"start_temperature"`
	CoolingRate      float64 `yaml:"cooling_rate"`
	LimitPositions   int     `yaml:"limit_positions,omitempty"`
	// FixedPlugboard turns the attack into a brute force over rotor settings.
	FixedPlugboard   string        `yaml:"fixed_plugboard,omitempty"`
	InitialPlugboard string        `yaml:"initial_plugboard,omitempty"`
	RotorOrders      [][]string    `yaml:"rotor_orders,omitempty"`
	Positions        []string      `yaml:"positions,omitempty"`
	Workers          int           `yaml:"workers,omitempty"`
	ChunkSize        int           `yaml:"chunk_size"`
	Seed             uint64        `yaml:"seed,omitempty"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
}

// Logging configures pkg/logging.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}
