package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
	"github.com/loanfillettaz/loadflow-visualization/internal/simulate"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load profile settings from a separate YAML (e.g.
	// examples/profiles/*.yaml). Explicit fields in Profile override it.
	ProfileFile string           `yaml:"profile_file"`
	Network     NetworkConfig    `yaml:"network"`
	Profile     ProfileConfig    `yaml:"profile"`
	Simulation  SimulationConfig `yaml:"simulation"`
}

// NetworkConfig holds the electrical base quantities.
type NetworkConfig struct {
	Name         string  `yaml:"name"`
	BasePowerVA  float64 `yaml:"base_power_va"`
	BaseVoltageV float64 `yaml:"base_voltage_v"`
	FrequencyHz  float64 `yaml:"frequency_hz"`
}

// ProfileConfig selects how load profiles are synthesized.
type ProfileConfig struct {
	Archetype           string  `yaml:"archetype"`
	GenerationArchetype string  `yaml:"generation_archetype"`
	Stochastic          bool    `yaml:"stochastic"`
	Seed                int64   `yaml:"seed"`
	AddNoise            bool    `yaml:"add_noise"`
	NoiseLevel          float64 `yaml:"noise_level"`
	ReactiveFraction    float64 `yaml:"reactive_fraction"`
	// QuantileFile points at the ;-separated quantile CSV used in
	// stochastic mode.
	QuantileFile string `yaml:"quantile_file"`
}

// SimulationConfig bounds the day run.
type SimulationConfig struct {
	HourStart     int  `yaml:"hour_start"`
	HourEnd       int  `yaml:"hour_end"`
	Workers       int  `yaml:"workers"`
	AllowHourGaps bool `yaml:"allow_hour_gaps"`
}

// Load reads, defaults and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not default or validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.ProfileFile != "" {
		profilePath := c.ProfileFile
		if !filepath.IsAbs(profilePath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, falling back to the cwd-relative path.
			cand := filepath.Join(filepath.Dir(path), profilePath)
			if _, err := os.Stat(cand); err == nil {
				profilePath = cand
			}
		}
		loaded, err := loadProfileFile(profilePath)
		if err != nil {
			return nil, err
		}
		c.Profile = MergeProfile(loaded, c.Profile)
	}
	return &c, nil
}

// ApplyDefaults fills the zero fields that have sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Profile.Archetype == "" {
		c.Profile.Archetype = "residential_weekday"
	}
	if c.Profile.GenerationArchetype == "" {
		c.Profile.GenerationArchetype = "summer"
	}
	if c.Profile.ReactiveFraction == 0 {
		c.Profile.ReactiveFraction = profile.DefaultReactiveFraction
	}
	if c.Simulation.HourEnd == 0 {
		c.Simulation.HourEnd = model.HoursPerDay
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = 1
	}
}

// Validate fails fast on anything that would otherwise only surface mid-run.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Network.BasePowerVA <= 0 {
		return fmt.Errorf("network.base_power_va must be > 0: %w", model.ErrConfiguration)
	}
	if c.Network.BaseVoltageV <= 0 {
		return fmt.Errorf("network.base_voltage_v must be > 0: %w", model.ErrConfiguration)
	}
	if !c.Profile.Stochastic {
		if _, err := profile.LoadShape(c.Profile.Archetype); err != nil {
			return err
		}
	} else if c.Profile.QuantileFile == "" {
		return fmt.Errorf("profile.quantile_file is required in stochastic mode: %w", model.ErrConfiguration)
	}
	if _, err := profile.GenerationShape(c.Profile.GenerationArchetype); err != nil {
		return err
	}
	if c.Profile.NoiseLevel < 0 {
		return fmt.Errorf("profile.noise_level must be >= 0: %w", model.ErrConfiguration)
	}
	if c.Profile.ReactiveFraction < 0 {
		return fmt.Errorf("profile.reactive_fraction must be >= 0: %w", model.ErrConfiguration)
	}
	return model.ValidateHourRange(c.Simulation.HourStart, c.Simulation.HourEnd)
}

// ToGridParams converts the network section for the assembler.
func (n NetworkConfig) ToGridParams() grid.Params {
	return grid.Params{
		BasePowerVA:  n.BasePowerVA,
		BaseVoltageV: n.BaseVoltageV,
		FrequencyHz:  n.FrequencyHz,
		Name:         n.Name,
	}
}

// ToSynthesizerOptions converts the profile section; the quantile table is
// loaded separately and injected by the caller.
func (p ProfileConfig) ToSynthesizerOptions(quantiles *profile.QuantileTable) profile.Options {
	return profile.Options{
		Archetype:           p.Archetype,
		GenerationArchetype: p.GenerationArchetype,
		Stochastic:          p.Stochastic,
		Quantiles:           quantiles,
		AddNoise:            p.AddNoise,
		NoiseLevel:          p.NoiseLevel,
		ReactiveFraction:    p.ReactiveFraction,
		Seed:                p.Seed,
	}
}

// ToRunOptions converts the simulation section for the orchestrator.
func (s SimulationConfig) ToRunOptions() simulate.Options {
	return simulate.Options{
		HourStart:     s.HourStart,
		HourEnd:       s.HourEnd,
		Workers:       s.Workers,
		AllowHourGaps: s.AllowHourGaps,
	}
}

type profileFileWrapper struct {
	Profile ProfileConfig `yaml:"profile"`
}

func loadProfileFile(path string) (ProfileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ProfileConfig{}, err
	}
	var w profileFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ProfileConfig{}, err
	}
	return w.Profile, nil
}

// MergeProfile overlays non-zero fields from override onto base. Used when a
// profile file is loaded and the main config carries explicit overrides.
func MergeProfile(base, override ProfileConfig) ProfileConfig {
	out := base
	if override.Archetype != "" {
		out.Archetype = override.Archetype
	}
	if override.GenerationArchetype != "" {
		out.GenerationArchetype = override.GenerationArchetype
	}
	if override.Stochastic {
		out.Stochastic = true
	}
	if override.Seed != 0 {
		out.Seed = override.Seed
	}
	if override.AddNoise {
		out.AddNoise = true
	}
	if override.NoiseLevel != 0 {
		out.NoiseLevel = override.NoiseLevel
	}
	if override.ReactiveFraction != 0 {
		out.ReactiveFraction = override.ReactiveFraction
	}
	if override.QuantileFile != "" {
		out.QuantileFile = override.QuantileFile
	}
	return out
}
