package profile

import (
	"fmt"
	"math/rand"

	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// DefaultReactiveFraction is the constant-power-factor approximation used for
// reactive power in stochastic mode when the caller does not override it.
const DefaultReactiveFraction = 0.3

// Options selects how peak powers become hourly values.
type Options struct {
	// Archetype names the load shape used in deterministic mode for both the
	// active and reactive passes.
	Archetype string
	// GenerationArchetype names the PV shape; generation is always
	// archetype-based, even in stochastic mode.
	GenerationArchetype string

	// Stochastic switches active power to quantile sampling; Quantiles must
	// then be set.
	Stochastic bool
	Quantiles  *QuantileTable

	// AddNoise applies multiplicative noise ~ Normal(1, NoiseLevel) to each
	// deterministic factor, clipped to [0,1] before scaling the peak.
	AddNoise   bool
	NoiseLevel float64

	// ReactiveFraction scales the active profile into reactive power in
	// stochastic mode. Zero means DefaultReactiveFraction.
	ReactiveFraction float64

	// Seed pins the generator; identical inputs and seed reproduce the set
	// bit for bit.
	Seed int64
}

// PointProfile holds the 24 synthesized values of one load point, aligned to
// Set.Hours. Input order is preserved.
type PointProfile struct {
	BusID        string
	ActiveKW     [model.HoursPerDay]float64
	ReactiveKVAr [model.HoursPerDay]float64
	GenerationKW [model.HoursPerDay]float64
}

// Set is a fully synthesized day of profiles for every load point.
type Set struct {
	Hours  []string
	Points []PointProfile
}

// HourIndex resolves an hour label to its slot in the per-point arrays.
func (s *Set) HourIndex(label string) (int, bool) {
	for i, h := range s.Hours {
		if h == label {
			return i, true
		}
	}
	return 0, false
}

// Synthesize turns static peak powers into a LoadProfileSet. The random
// generator is local to this call: active, reactive and generation passes
// consume it in a fixed order, so one seed pins the whole set.
func Synthesize(points []model.LoadPoint, opts Options) (*Set, error) {
	if opts.NoiseLevel < 0 {
		return nil, fmt.Errorf("noise level must be >= 0: %w", model.ErrConfiguration)
	}
	if opts.ReactiveFraction < 0 {
		return nil, fmt.Errorf("reactive fraction must be >= 0: %w", model.ErrConfiguration)
	}
	if opts.Stochastic && opts.Quantiles == nil {
		return nil, fmt.Errorf("stochastic mode requires a quantile table: %w", model.ErrConfiguration)
	}

	genShape, err := GenerationShape(opts.GenerationArchetype)
	if err != nil {
		return nil, err
	}
	var loadShape Shape
	if !opts.Stochastic {
		loadShape, err = LoadShape(opts.Archetype)
		if err != nil {
			return nil, err
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	set := &Set{
		Hours:  model.HourLabels(0, model.HoursPerDay),
		Points: make([]PointProfile, len(points)),
	}
	for i, p := range points {
		set.Points[i].BusID = p.BusID
	}

	if opts.Stochastic {
		sampleQuantiles(set, opts.Quantiles, rng)
		fraction := opts.ReactiveFraction
		if fraction == 0 {
			fraction = DefaultReactiveFraction
		}
		for i := range set.Points {
			for h := 0; h < model.HoursPerDay; h++ {
				set.Points[i].ReactiveKVAr[h] = set.Points[i].ActiveKW[h] * fraction
			}
		}
	} else {
		scaleByShape(set, points, loadShape, opts, rng, passActive)
		scaleByShape(set, points, loadShape, opts, rng, passReactive)
	}

	scaleByShape(set, points, genShape, opts, rng, passGeneration)
	return set, nil
}

type pass int

const (
	passActive pass = iota
	passReactive
	passGeneration
)

// scaleByShape fills one quantity of the set: value = peak * clip(shape * noise).
// Noise is drawn independently per load point per hour, hour-major.
func scaleByShape(set *Set, points []model.LoadPoint, shape Shape, opts Options, rng *rand.Rand, p pass) {
	for h := 0; h < model.HoursPerDay; h++ {
		for i, lp := range points {
			factor := shape[h]
			if opts.AddNoise {
				noise := 1 + rng.NormFloat64()*opts.NoiseLevel
				factor = clamp01(factor * noise)
			}
			switch p {
			case passActive:
				set.Points[i].ActiveKW[h] = lp.PeakActiveKW * factor
			case passReactive:
				set.Points[i].ReactiveKVAr[h] = lp.PeakReactiveKVAr * factor
			case passGeneration:
				set.Points[i].GenerationKW[h] = lp.PeakGenerationKW * factor
			}
		}
	}
}

// sampleQuantiles fills active power from the empirical CDF, point-major so a
// load point's day is one contiguous run of draws.
func sampleQuantiles(set *Set, table *QuantileTable, rng *rand.Rand) {
	for i := range set.Points {
		for h, label := range set.Hours {
			u := rng.Float64()
			set.Points[i].ActiveKW[h] = table.Sample(label, u)
		}
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
