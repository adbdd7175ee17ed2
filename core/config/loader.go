package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/enigmacrack/enigmacrack/core/cracker"
	"github.com/enigmacrack/enigmacrack/core/search"
)

// Default returns the configuration used when no file is given.
func Default() *FileConfig {
	return &FileConfig{
		Machine: Machine{
			Rotors:    []string{"I", "II", "III"},
			Positions: "AAA",
		},
		Search: Search{
			PlugboardPairs:   cracker.DefaultPlugboardPairs,
			Iterations:       search.DefaultIterations,
			StartTemperature: search.DefaultStartTemperature,
			CoolingRate:      search.DefaultCoolingRate,
			ChunkSize:        cracker.DefaultChunkSize,
			ProgressInterval: cracker.DefaultProgressInterval,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyDefaults fills the fields whose zero value cannot be used. Search
// tuning values are left alone, since zero is a valid setting for several
// of them.
func (fc *FileConfig) ApplyDefaults() {
	def := Default()
	if len(fc.Machine.Rotors) == 0 {
		fc.Machine.Rotors = def.Machine.Rotors
	}
	if fc.Machine.Positions == "" {
		fc.Machine.Positions = def.Machine.Positions
	}
	if fc.Search.ChunkSize == 0 {
		fc.Search.ChunkSize = def.Search.ChunkSize
	}
	if fc.Search.ProgressInterval == 0 {
		fc.Search.ProgressInterval = def.Search.ProgressInterval
	}
	if fc.Logging.Level == "" {
		fc.Logging.Level = def.Logging.Level
	}
	if fc.Logging.Format == "" {
		fc.Logging.Format = def.Logging.Format
	}
}

// LoadFileConfig loads configuration from a YAML file and applies defaults.
// Unknown keys are rejected.
func LoadFileConfig(filePath string) (*FileConfig, error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
	}
	return Parse(buf)
}

// Parse decodes a YAML document over Default(), so keys absent from the
// document keep their default and explicit zero values are kept as written.
// An empty document yields Default().
func Parse(buf []byte) (*FileConfig, error) {
	config := Default()
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	config.ApplyDefaults()
	return config, nil
}
