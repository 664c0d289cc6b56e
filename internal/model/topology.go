package model

import (
	"errors"
	"fmt"
)

// Bus is one node of the distribution grid.
// Coordinates are optional; the mapping layer tolerates buses without them.
type Bus struct {
	ID  string
	Lat *float64
	Lon *float64
}

// HasCoordinates reports whether the bus carries a usable (lat, lon) pair.
func (b Bus) HasCoordinates() bool {
	return b.Lat != nil && b.Lon != nil
}

// Line is one conductor segment between two buses.
// Units:
// - ROhmPerKm, XOhmPerKm: ohm/km
// - LengthM: meters
// - AmpacityA: rated current in amperes
type Line struct {
	ID        string
	From      string
	To        string
	ROhmPerKm float64
	XOhmPerKm float64
	LengthM   float64
	AmpacityA float64
}

// Degenerate reports whether the line is a placeholder row that must not be
// assembled into the electrical model (zero resistance, reactance or length).
func (l Line) Degenerate() bool {
	return l.ROhmPerKm == 0 || l.XOhmPerKm == 0 || l.LengthM == 0
}

// LoadPoint is a bus-attached consumption/generation record. A LoadPoint only
// exists where at least one peak value is non-zero.
type LoadPoint struct {
	BusID            string
	PeakActiveKW     float64
	PeakReactiveKVAr float64
	PeakGenerationKW float64
}

// Topology is the normalized grid description consumed by assembly and
// synthesis. It is built once per run and never mutated afterwards.
type Topology struct {
	Buses      []Bus
	Lines      []Line
	LoadPoints []LoadPoint
}

// NewTopology filters raw rows into a Topology: load rows where every peak is
// zero are dropped, everything else is kept verbatim. Line filtering happens
// later, at assembly, so the placeholder rows stay visible for reporting.
func NewTopology(buses []Bus, lines []Line, loads []LoadPoint) (*Topology, error) {
	if len(buses) == 0 {
		return nil, fmt.Errorf("topology has no buses: %w", ErrConfiguration)
	}
	kept := make([]LoadPoint, 0, len(loads))
	for _, lp := range loads {
		if lp.PeakActiveKW == 0 && lp.PeakReactiveKVAr == 0 && lp.PeakGenerationKW == 0 {
			continue
		}
		kept = append(kept, lp)
	}
	t := &Topology{Buses: buses, Lines: lines, LoadPoints: kept}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks structural consistency of the topology.
func (t *Topology) Validate() error {
	if len(t.Buses) == 0 {
		return fmt.Errorf("topology has no buses: %w", ErrConfiguration)
	}
	seen := make(map[string]bool, len(t.Buses))
	for _, b := range t.Buses {
		if b.ID == "" {
			return errors.New("bus with empty id")
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate bus id %q", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// HasBus reports whether a bus id exists in the topology.
func (t *Topology) HasBus(id string) bool {
	for _, b := range t.Buses {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Reference returns the reference (slack) bus: the first bus in topology order.
func (t *Topology) Reference() Bus {
	return t.Buses[0]
}
