package models

import "github.com/loanfillettaz/loadflow-visualization/internal/data"

// CreateSessionRequest is the body for POST /api/v1/sessions. The topology
// travels inline; quantile rows are only needed in stochastic mode.
type CreateSessionRequest struct {
	Name         string            `json:"name"`
	BasePowerVA  float64           `json:"base_power_va" binding:"required"`
	BaseVoltageV float64           `json:"base_voltage_v" binding:"required"`
	FrequencyHz  float64           `json:"frequency_hz"`
	Topology     data.TopologyFile `json:"topology" binding:"required"`
	Profile      ProfileRequest    `json:"profile"`
}

// ProfileRequest selects profile synthesis for the session.
type ProfileRequest struct {
	Archetype           string  `json:"archetype,omitempty"`
	GenerationArchetype string  `json:"generation_archetype,omitempty"`
	Stochastic          bool    `json:"stochastic,omitempty"`
	Seed                int64   `json:"seed,omitempty"`
	AddNoise            bool    `json:"add_noise,omitempty"`
	NoiseLevel          float64 `json:"noise_level,omitempty"`
	ReactiveFraction    float64 `json:"reactive_fraction,omitempty"`
	// Quantiles maps hour labels "00:00".."23:00" to breakpoints; required
	// when Stochastic is set.
	Quantiles map[string]QuantileRow `json:"quantiles,omitempty"`
}

// QuantileRow mirrors one row of the quantile-table collaborator.
type QuantileRow struct {
	Q5  float64 `json:"q5"`
	Q10 float64 `json:"q10"`
	Q25 float64 `json:"q25"`
	Q50 float64 `json:"q50"`
	Q75 float64 `json:"q75"`
	Q90 float64 `json:"q90"`
	Q95 float64 `json:"q95"`
}

// RunRequest is the body for POST /api/v1/sessions/:id/run.
type RunRequest struct {
	HourStart int `json:"hour_start"`
	// HourEnd of 0 means a full day (24).
	HourEnd          int  `json:"hour_end,omitempty"`
	Workers          int  `json:"workers,omitempty"`
	AllowHourGaps    bool `json:"allow_hour_gaps,omitempty"`
	IncludeSnapshots bool `json:"include_snapshots,omitempty"`
}
