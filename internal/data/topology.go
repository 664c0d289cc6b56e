package data

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// TopologyFile matches the JSON shape the topology collaborator supplies.
type TopologyFile struct {
	Buses []BusRow  `json:"buses"`
	Lines []LineRow `json:"lines"`
	Loads []LoadRow `json:"loads"`
}

// BusRow is one bus entry; coordinates are optional.
type BusRow struct {
	ID  string   `json:"id"`
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`
}

// LineRow is one (possibly placeholder) line entry.
type LineRow struct {
	ID        string  `json:"id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	RPerKm    float64 `json:"r_per_km"`
	XPerKm    float64 `json:"x_per_km"`
	LengthM   float64 `json:"length_m"`
	AmpacityA float64 `json:"ampacity_a"`
}

// LoadRow is one load entry; rows where every peak is zero are dropped during
// topology construction.
type LoadRow struct {
	BusID            string  `json:"bus_id"`
	PeakActiveKW     float64 `json:"peak_active_kw"`
	PeakReactiveKVAr float64 `json:"peak_reactive_kvar"`
	PeakGenerationKW float64 `json:"peak_generation_kw"`
}

// LoadTopologyJSON reads a topology file from disk.
func LoadTopologyJSON(path string) (*model.Topology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}
	return ParseTopology(raw)
}

// ParseTopology decodes the collaborator JSON and builds the validated
// Topology the rest of the pipeline consumes.
func ParseTopology(raw []byte) (*model.Topology, error) {
	var f TopologyFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse topology: %w", err)
	}
	return f.ToTopology()
}

// ToTopology converts the file rows into the fixed internal schema. This is
// the one-time adapter step; downstream code never sees file shapes again.
func (f TopologyFile) ToTopology() (*model.Topology, error) {
	buses := make([]model.Bus, 0, len(f.Buses))
	for _, b := range f.Buses {
		buses = append(buses, model.Bus{ID: b.ID, Lat: b.Lat, Lon: b.Lon})
	}
	lines := make([]model.Line, 0, len(f.Lines))
	for _, l := range f.Lines {
		lines = append(lines, model.Line{
			ID:        l.ID,
			From:      l.From,
			To:        l.To,
			ROhmPerKm: l.RPerKm,
			XOhmPerKm: l.XPerKm,
			LengthM:   l.LengthM,
			AmpacityA: l.AmpacityA,
		})
	}
	loads := make([]model.LoadPoint, 0, len(f.Loads))
	for _, lp := range f.Loads {
		loads = append(loads, model.LoadPoint{
			BusID:            lp.BusID,
			PeakActiveKW:     lp.PeakActiveKW,
			PeakReactiveKVAr: lp.PeakReactiveKVAr,
			PeakGenerationKW: lp.PeakGenerationKW,
		})
	}
	return model.NewTopology(buses, lines, loads)
}
