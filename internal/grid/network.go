package grid

import (
	"fmt"

	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
)

// Params are the electrical base quantities the network is assembled at.
type Params struct {
	BasePowerVA  float64
	BaseVoltageV float64
	FrequencyHz  float64
	Name         string
}

// NetBus is one assembled bus. Index is its position in the admittance
// ordering used by the solver; index 0 is always the reference bus.
type NetBus struct {
	ID          string   `json:"id"`
	Index       int      `json:"index"`
	IsReference bool     `json:"is_reference"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}

// NetLine is one assembled line with impedance in per-unit.
type NetLine struct {
	ID        string  `json:"id"`
	FromIndex int     `json:"from_index"`
	ToIndex   int     `json:"to_index"`
	RPU       float64 `json:"r_pu"`
	XPU       float64 `json:"x_pu"`
	AmpacityA float64 `json:"ampacity_a"`
}

// Exclusion records one input row that was left out of the assembled model,
// with the reason. Skips are a design decision, not errors, but they must be
// observable by the caller.
type Exclusion struct {
	RowID  string `json:"row_id"`
	Reason string `json:"reason"`
}

// Network is the static electrical model for one day run. It is built once
// and never mutated; per-hour loads travel separately as LoadSet values.
type Network struct {
	Name         string      `json:"name"`
	BasePowerVA  float64     `json:"base_power_va"`
	BaseVoltageV float64     `json:"base_voltage_v"`
	FrequencyHz  float64     `json:"frequency_hz"`
	Buses        []NetBus    `json:"buses"`
	Lines        []NetLine   `json:"lines"`
	Exclusions   []Exclusion `json:"exclusions,omitempty"`

	index map[string]int
}

// Load is one injection applied for a single hour. PKW is positive for
// consumption; generation enters as a negative PKW entry.
type Load struct {
	BusIndex int
	PKW      float64
	QKVAr    float64
}

// LoadSet is the complete injection set for one hour. It is a plain value
// handed to the solver alongside the static network, so hours never share
// mutable state.
type LoadSet struct {
	Hour  string
	Loads []Load
}

// Build assembles the network from a topology: one bus per topology bus at
// the configured nominal voltage, the first bus as reference, and one
// per-unit line per non-degenerate row. Degenerate lines and rows pointing at
// unknown buses are skipped and recorded as exclusions.
func Build(t *model.Topology, p Params) (*Network, error) {
	if t == nil || len(t.Buses) == 0 {
		return nil, fmt.Errorf("cannot assemble a network without buses: %w", model.ErrConfiguration)
	}
	if p.BasePowerVA <= 0 || p.BaseVoltageV <= 0 {
		return nil, fmt.Errorf("base power and voltage must be > 0: %w", model.ErrConfiguration)
	}

	net := &Network{
		Name:         p.Name,
		BasePowerVA:  p.BasePowerVA,
		BaseVoltageV: p.BaseVoltageV,
		FrequencyHz:  p.FrequencyHz,
		index:        make(map[string]int, len(t.Buses)),
	}

	for i, b := range t.Buses {
		net.Buses = append(net.Buses, NetBus{
			ID:          b.ID,
			Index:       i,
			IsReference: i == 0,
			Lat:         b.Lat,
			Lon:         b.Lon,
		})
		net.index[b.ID] = i
	}

	zBase := p.BaseVoltageV * p.BaseVoltageV / p.BasePowerVA
	for _, l := range t.Lines {
		if l.Degenerate() {
			net.Exclusions = append(net.Exclusions, Exclusion{
				RowID:  l.ID,
				Reason: "zero resistance, reactance or length",
			})
			continue
		}
		from, okFrom := net.index[l.From]
		to, okTo := net.index[l.To]
		if !okFrom || !okTo {
			net.Exclusions = append(net.Exclusions, Exclusion{
				RowID:  l.ID,
				Reason: fmt.Sprintf("endpoint references unknown bus: %v", model.ErrDataInconsistency),
			})
			continue
		}
		lengthKm := l.LengthM / 1000
		net.Lines = append(net.Lines, NetLine{
			ID:        l.ID,
			FromIndex: from,
			ToIndex:   to,
			RPU:       l.ROhmPerKm * lengthKm / zBase,
			XPU:       l.XOhmPerKm * lengthKm / zBase,
			AmpacityA: l.AmpacityA,
		})
	}

	for _, lp := range t.LoadPoints {
		if _, ok := net.index[lp.BusID]; !ok {
			net.Exclusions = append(net.Exclusions, Exclusion{
				RowID:  lp.BusID,
				Reason: fmt.Sprintf("load point on unknown bus: %v", model.ErrDataInconsistency),
			})
		}
	}

	return net, nil
}

// BusIndex resolves a topology bus id to the solver index.
func (n *Network) BusIndex(id string) (int, bool) {
	i, ok := n.index[id]
	return i, ok
}

// Reference returns the reference bus.
func (n *Network) Reference() NetBus {
	return n.Buses[0]
}

// LoadsForHour builds the immutable injection set for one hour label from a
// synthesized profile set: one entry per load point for the active
// contribution, one for the reactive contribution, and one negative-sign
// entry for generation. Load points on unknown buses are skipped (they were
// surfaced in Exclusions at build time).
func (n *Network) LoadsForHour(set *profile.Set, hour string) (LoadSet, error) {
	h, ok := set.HourIndex(hour)
	if !ok {
		return LoadSet{}, fmt.Errorf("unknown hour label %q: %w", hour, model.ErrConfiguration)
	}
	ls := LoadSet{Hour: hour, Loads: make([]Load, 0, 3*len(set.Points))}
	for _, p := range set.Points {
		idx, ok := n.index[p.BusID]
		if !ok {
			continue
		}
		ls.Loads = append(ls.Loads,
			Load{BusIndex: idx, PKW: p.ActiveKW[h]},
			Load{BusIndex: idx, QKVAr: p.ReactiveKVAr[h]},
			Load{BusIndex: idx, PKW: -p.GenerationKW[h]},
		)
	}
	return ls, nil
}

// NetInjections sums a LoadSet into per-bus net power, indexed like Buses.
// Used by the solver and echoed into snapshots.
func (n *Network) NetInjections(ls LoadSet) ([]float64, []float64) {
	pKW := make([]float64, len(n.Buses))
	qKVAr := make([]float64, len(n.Buses))
	for _, l := range ls.Loads {
		pKW[l.BusIndex] += l.PKW
		qKVAr[l.BusIndex] += l.QKVAr
	}
	return pKW, qKVAr
}
