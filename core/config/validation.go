package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/enigmacrack/enigmacrack/core/cracker"
	"github.com/enigmacrack/enigmacrack/core/machine"
	"github.com/enigmacrack/enigmacrack/core/search"
)

var (
	supportedLevels  = []string{"debug", "info", "warn", "error"}
	supportedFormats = []string{"console", "json"}
)

// Validate reports the first unusable field.
func (fc *FileConfig) Validate() error {
	if _, err := fc.MachineSettings(); err != nil {
		return err
	}
	params, err := fc.SearchParams()
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if params.FixedPlugboard == nil {
		if err := params.Anneal.Validate(); err != nil {
			return fmt.Errorf("search: %w", err)
		}
	}
	if !slices.Contains(supportedLevels, strings.ToLower(fc.Logging.Level)) {
		return fmt.Errorf("logging.level '%s' is not supported. Supported levels are: %s", fc.Logging.Level, strings.Join(supportedLevels, ", "))
	}
	if !slices.Contains(supportedFormats, fc.Logging.Format) {
		return fmt.Errorf("logging.format '%s' is not supported. Supported formats are: %s", fc.Logging.Format, strings.Join(supportedFormats, ", "))
	}
	return nil
}

// MachineSettings converts the machine section, checking it can build a machine.
func (fc *FileConfig) MachineSettings() (machine.Settings, error) {
	var s machine.Settings
	order, err := rotorOrder(fc.Machine.Rotors)
	if err != nil {
		return s, fmt.Errorf("machine.rotors: %w", err)
	}
	s.Rotors = order
	if s.Positions, err = machine.ParsePositions(fc.Machine.Positions); err != nil {
		return s, fmt.Errorf("machine.positions: %w", err)
	}
	if s.Plugboard, err = machine.ParsePlugboard(fc.Machine.Plugboard); err != nil {
		return s, fmt.Errorf("machine.plugboard: %w", err)
	}
	if _, err := machine.New(s); err != nil {
		return s, fmt.Errorf("machine: %w", err)
	}
	return s, nil
}

// SearchParams converts the search section into cracker parameters.
func (fc *FileConfig) SearchParams() (cracker.Params, error) {
	s := fc.Search
	if s.PlugboardPairs < 0 || s.PlugboardPairs > machine.MaxPlugboardPairs {
		return cracker.Params{}, fmt.Errorf("search.plugboard_pairs: must be in [0, %d], got %d", machine.MaxPlugboardPairs, s.PlugboardPairs)
	}
	params := cracker.Params{
		PlugboardPairs: s.PlugboardPairs,
		Anneal: search.AnnealParams{
			Iterations:       s.Iterations,
			StartTemperature: s.StartTemperature,
			CoolingRate:      s.CoolingRate,
		},
		LimitPositions:   s.LimitPositions,
		Workers:          s.Workers,
		ChunkSize:        s.ChunkSize,
		Seed:             s.Seed,
		ProgressInterval: s.ProgressInterval,
	}
	if s.FixedPlugboard != "" {
		pb, err := machine.ParsePlugboard(s.FixedPlugboard)
		if err != nil {
			return params, fmt.Errorf("search.fixed_plugboard: %w", err)
		}
		params.FixedPlugboard = &pb
	}
	if s.InitialPlugboard != "" {
		pb, err := machine.ParsePlugboard(s.InitialPlugboard)
		if err != nil {
			return params, fmt.Errorf("search.initial_plugboard: %w", err)
		}
		params.InitialPlugboard = &pb
	}
	for i, p := range s.Positions {
		up, err := machine.ParsePositions(p)
		if err != nil {
			return params, fmt.Errorf("search.positions[%d]: %w", i, err)
		}
		params.Positions = append(params.Positions, up)
	}
	for i, ids := range s.RotorOrders {
		order, err := rotorOrder(ids)
		if err != nil {
			return params, fmt.Errorf("search.rotor_orders[%d]: %w", i, err)
		}
		params.RotorOrders = append(params.RotorOrders, order)
	}
	return params, nil
}

func rotorOrder(ids []string) ([3]string, error) {
	var order [3]string
	if len(ids) != len(order) {
		return order, fmt.Errorf("expected 3 rotors, got %d", len(ids))
	}
	for i, id := range ids {
		order[i] = strings.ToUpper(strings.TrimSpace(id))
		if _, err := machine.LookupRotor(order[i]); err != nil {
			return order, err
		}
		if slices.Contains(order[:i], order[i]) {
			return order, fmt.Errorf("%w: %q", machine.ErrDuplicateRotor, order[i])
		}
	}
	return order, nil
}
