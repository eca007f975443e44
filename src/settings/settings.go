// Package settings holds the visualization settings that switch the goal line and the
// control overlay on and off, and loads them from YAML files.
package settings

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every settings validation or parse failure.
var ErrInvalid = errors.New("invalid settings")

// Settings mirrors the chart's visualization settings keys.
type Settings struct {
	// ShowGoal toggles any goal or control overlay.
	ShowGoal bool `yaml:"graph.show_goal"`
	// GoalValue is the target of the plain goal line. Nil disables it.
	GoalValue *float64 `yaml:"graph.goal_value,omitempty"`
	// GoalLabel is the text drawn above the plain goal line.
	GoalLabel string `yaml:"graph.goal_label"`
	// ShowCustom selects the control overlay instead of the plain goal line.
	ShowCustom bool `yaml:"xcontrol.show_custom"`
	// ShowBandLabels draws band codes (CL, UCL, ...) above each control line.
	ShowBandLabels bool `yaml:"xcontrol.show_goal_label"`
}

// Default returns the settings a new xcontrol chart starts with.
func Default() Settings {
	return Settings{
		GoalLabel:      "Goal",
		ShowCustom:     true,
		ShowBandLabels: true,
	}
}

// WithGoal returns a copy with the goal value set.
func (s Settings) WithGoal(v float64) Settings {
	s.GoalValue = &v
	return s
}

// BandLabelToggleHidden reports whether the "show band labels" control is hidden:
// it is only offered while both the goal and the control overlay are on.
func (s Settings) BandLabelToggleHidden() bool {
	return !s.ShowGoal || !s.ShowCustom
}

// Validate rejects goal values the overlay could never place.
func (s Settings) Validate() error {
	if s.GoalValue != nil && (math.IsNaN(*s.GoalValue) || math.IsInf(*s.GoalValue, 0)) {
		return fmt.Errorf("%w: graph.goal_value must be finite", ErrInvalid)
	}
	return nil
}

// Load reads YAML settings from path on top of Default.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadOrDefault loads settings from path, or returns Default when path is empty or absent.
func LoadOrDefault(path string) (Settings, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the settings as YAML, creating the parent directory.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
