package solver

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// GaussSeidel solves the power-flow equations by Gauss-Seidel iteration on
// the bus admittance matrix. The reference bus is pinned at 1.0 pu, 0 deg;
// every other bus is treated as a PQ bus with the hour's net injection.
//
// Buses left without any connected line (isolated by degenerate-line
// exclusion) keep the flat-start voltage of 1.0 pu and serve no power.
type GaussSeidel struct {
	// Tolerance is the maximum voltage update magnitude, in pu, at which the
	// iteration is considered converged.
	Tolerance float64
	// MaxIterations bounds the iteration count before giving up.
	MaxIterations int
}

// NewGaussSeidel returns a solver with defaults suited to small and
// medium distribution feeders.
func NewGaussSeidel() *GaussSeidel {
	return &GaussSeidel{Tolerance: 1e-8, MaxIterations: 5000}
}

// Solve computes the hour's snapshot. Neither the network nor the load set is
// mutated.
func (s *GaussSeidel) Solve(net *grid.Network, loads grid.LoadSet) (*model.HourlySnapshot, error) {
	tol := s.Tolerance
	if tol <= 0 {
		tol = 1e-8
	}
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = 5000
	}

	n := len(net.Buses)
	ybus := buildAdmittance(net)

	pKW, qKVAr := net.NetInjections(loads)

	// Net complex injection in per-unit; consumption enters negative.
	sPU := make([]complex128, n)
	for i := 0; i < n; i++ {
		sPU[i] = complex(-pKW[i]*1000/net.BasePowerVA, -qKVAr[i]*1000/net.BasePowerVA)
	}

	// Flat start with the reference pinned.
	v := make([]complex128, n)
	for i := range v {
		v[i] = 1
	}

	converged := false
	for it := 0; it < maxIter; it++ {
		maxDelta := 0.0
		for i := 1; i < n; i++ {
			if ybus[i][i] == 0 {
				continue // isolated bus, stays at flat start
			}
			sum := complex(0, 0)
			for k := 0; k < n; k++ {
				if k != i {
					sum += ybus[i][k] * v[k]
				}
			}
			next := (cmplx.Conj(sPU[i])/cmplx.Conj(v[i]) - sum) / ybus[i][i]
			delta := cmplx.Abs(next - v[i])
			if delta > maxDelta {
				maxDelta = delta
			}
			v[i] = next
		}
		if maxDelta < tol {
			converged = true
			break
		}
		if math.IsNaN(maxDelta) || math.IsInf(maxDelta, 0) {
			break
		}
	}
	if !converged {
		return nil, fmt.Errorf("hour %s after %d iterations: %w", loads.Hour, maxIter, ErrNoConvergence)
	}

	return s.snapshot(net, loads.Hour, v, pKW, qKVAr), nil
}

func buildAdmittance(net *grid.Network) [][]complex128 {
	n := len(net.Buses)
	ybus := make([][]complex128, n)
	for i := range ybus {
		ybus[i] = make([]complex128, n)
	}
	for _, l := range net.Lines {
		y := 1 / complex(l.RPU, l.XPU)
		f, t := l.FromIndex, l.ToIndex
		ybus[f][f] += y
		ybus[t][t] += y
		ybus[f][t] -= y
		ybus[t][f] -= y
	}
	return ybus
}

func (s *GaussSeidel) snapshot(net *grid.Network, hour string, v []complex128, pKW, qKVAr []float64) *model.HourlySnapshot {
	snap := &model.HourlySnapshot{
		Hour:  hour,
		Buses: make(map[string]model.BusResult, len(net.Buses)),
		Lines: make(map[string]model.LineResult, len(net.Lines)),
	}

	for i, b := range net.Buses {
		snap.Buses[b.ID] = model.BusResult{
			VmPU:     cmplx.Abs(v[i]),
			AngleDeg: cmplx.Phase(v[i]) * 180 / math.Pi,
			PKW:      pKW[i],
			QKVAr:    qKVAr[i],
		}
	}

	// Base current for a three-phase system, matching how ampacity ratings
	// are specified upstream.
	iBaseA := net.BasePowerVA / (math.Sqrt(3) * net.BaseVoltageV)
	for _, l := range net.Lines {
		z := complex(l.RPU, l.XPU)
		iPU := (v[l.FromIndex] - v[l.ToIndex]) / z
		iA := cmplx.Abs(iPU) * iBaseA

		loading := math.NaN()
		if l.AmpacityA > 0 {
			loading = iA / l.AmpacityA * 100
		}
		sFrom := v[l.FromIndex] * cmplx.Conj(iPU)
		snap.Lines[l.ID] = model.LineResult{
			LoadingPercent: loading,
			CurrentA:       iA,
			PFromKW:        real(sFrom) * net.BasePowerVA / 1000,
		}
	}
	return snap
}
