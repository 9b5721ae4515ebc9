// Package config loads HRCLS's static configuration from YAML: the same
// DefaultConfig/Load/Save/Validate shape, the same gopkg.in/yaml.v3
// dependency, and the same os.ExpandEnv pre-expansion of the file before
// unmarshalling used elsewhere in this codebase's config loading. The
// sections carried here are rescoped to HRCLS's lane/execution/safety
// concerns; unrelated discovery helpers have no HRCLS equivalent and are
// not carried (DESIGN.md explains why).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is HRCLS's top-level configuration.
type Config struct {
	Framework FrameworkConfig `yaml:"framework"`
	CPU       LaneConfig      `yaml:"cpu"`
	FPGA      LaneConfig      `yaml:"fpga"`
	DSP       LaneConfig      `yaml:"dsp"`
	Execution ExecutionConfig `yaml:"execution"`
	Safety    SafetyConfig    `yaml:"safety"`
}

// FrameworkConfig carries general settings shared across every lane.
type FrameworkConfig struct {
	Version   string `yaml:"version"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LaneConfig carries one lane's admission and monitoring settings.
type LaneConfig struct {
	SlotCapacity       int    `yaml:"slot_capacity"`
	DefaultWCETUs      uint32 `yaml:"default_wcet_us"`
	DefaultTimeoutUs   uint32 `yaml:"default_timeout_us"`
	RequireBitstream   bool   `yaml:"require_bitstream"` // not read by any lane; the FPGA lane always requires a bitstream
}

// ExecutionConfig carries submission-time defaults.
type ExecutionConfig struct {
	DefaultPriority    string `yaml:"default_priority"`
	MaxConcurrentJobs  int    `yaml:"max_concurrent_jobs"`
	BarrierTimeoutUs   uint32 `yaml:"barrier_timeout_us"`
	RedundantLaneCount int    `yaml:"redundant_lane_count"`
}

// SafetyConfig carries operating ceilings a deployer can tune without a
// rebuild.
type SafetyConfig struct {
	MaxWCETUs           uint32 `yaml:"max_wcet_us"`
	RequireConfirmation bool   `yaml:"require_confirmation"`
}

// DefaultConfig returns HRCLS's built-in configuration, carrying the lane
// slot capacities (CPU 32, FPGA 16, DSP 24) as defaults rather than
// requiring a config file for a first run. Job-id bases and WCET simulation
// fractions are not part of Config.
func DefaultConfig() *Config {
	return &Config{
		Framework: FrameworkConfig{
			Version:   "22.0.0",
			LogLevel:  "info",
			LogFormat: "text",
		},
		CPU: LaneConfig{
			SlotCapacity:     32,
			DefaultWCETUs:    10000,
			DefaultTimeoutUs: 50000,
		},
		FPGA: LaneConfig{
			SlotCapacity:     16,
			DefaultWCETUs:    5000,
			DefaultTimeoutUs: 50000,
			RequireBitstream: true,
		},
		DSP: LaneConfig{
			SlotCapacity:     24,
			DefaultWCETUs:    7500,
			DefaultTimeoutUs: 50000,
		},
		Execution: ExecutionConfig{
			DefaultPriority:    "Normal",
			MaxConcurrentJobs:  72,
			BarrierTimeoutUs:   1000000,
			RedundantLaneCount: 3,
		},
		Safety: SafetyConfig{
			MaxWCETUs:           1000000,
			RequireConfirmation: false,
		},
	}
}

// Load reads configuration from a YAML file at path, falling back to
// DefaultConfig if the file does not exist, and expanding ${VAR}-style
// environment references in the file content before parsing (matching the
// teacher's os.ExpandEnv pre-expansion).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "hrcls.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks cfg for internally inconsistent settings.
func (c *Config) Validate() error {
	if c.CPU.SlotCapacity < 1 {
		return fmt.Errorf("cpu.slot_capacity must be at least 1")
	}
	if c.FPGA.SlotCapacity < 1 {
		return fmt.Errorf("fpga.slot_capacity must be at least 1")
	}
	if c.DSP.SlotCapacity < 1 {
		return fmt.Errorf("dsp.slot_capacity must be at least 1")
	}
	if c.Execution.MaxConcurrentJobs < 1 {
		return fmt.Errorf("execution.max_concurrent_jobs must be at least 1")
	}
	if c.Execution.RedundantLaneCount < 2 {
		return fmt.Errorf("execution.redundant_lane_count must be at least 2 for a voting majority")
	}
	if c.Safety.MaxWCETUs == 0 {
		return fmt.Errorf("safety.max_wcet_us must be positive")
	}
	return nil
}
