package simulate

import (
	"fmt"
	"sync"

	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
	"github.com/loanfillettaz/loadflow-visualization/internal/solver"
)

// Consumer receives each solved snapshot. Snapshots arrive in ascending hour
// order regardless of worker count, and never concurrently.
type Consumer func(snap *model.HourlySnapshot)

// Gap records an hour that failed to solve when gap recording is enabled.
type Gap struct {
	Hour string
	Err  error
}

// Options control one day run.
type Options struct {
	// HourStart/HourEnd select the window [HourStart, HourEnd) within [0, 24).
	HourStart int
	HourEnd   int

	// Workers > 1 solves hours concurrently. Safe because the network and
	// every LoadSet are immutable and the solver is stateless; results are
	// merged by hour label, not arrival order.
	Workers int

	// AllowHourGaps turns a failed solve into a recorded Gap instead of
	// aborting the run.
	AllowHourGaps bool
}

// Orchestrator drives the hourly iteration: build the hour's load set, invoke
// the solver, deliver the snapshot.
type Orchestrator struct {
	net *grid.Network
	set *profile.Set
	slv solver.Solver
}

// New wires an orchestrator over a static network, a synthesized profile set
// and a solver.
func New(net *grid.Network, set *profile.Set, slv solver.Solver) *Orchestrator {
	return &Orchestrator{net: net, set: set, slv: slv}
}

// Run executes the hour range and feeds every snapshot to consume. Without
// AllowHourGaps the first solver failure aborts the whole run and nothing
// further is delivered; with it, failed hours come back as gaps.
func (o *Orchestrator) Run(opts Options, consume Consumer) ([]Gap, error) {
	if err := model.ValidateHourRange(opts.HourStart, opts.HourEnd); err != nil {
		return nil, err
	}

	labels := model.HourLabels(opts.HourStart, opts.HourEnd)
	sets := make([]grid.LoadSet, len(labels))
	for i, label := range labels {
		ls, err := o.net.LoadsForHour(o.set, label)
		if err != nil {
			return nil, err
		}
		sets[i] = ls
	}

	snaps := make([]*model.HourlySnapshot, len(labels))
	errs := make([]error, len(labels))

	if opts.Workers > 1 {
		o.solveParallel(sets, snaps, errs, opts.Workers)
	} else {
		for i, ls := range sets {
			snaps[i], errs[i] = o.slv.Solve(o.net, ls)
			if errs[i] != nil && !opts.AllowHourGaps {
				break
			}
		}
	}

	var gaps []Gap
	for i, label := range labels {
		if errs[i] != nil {
			if !opts.AllowHourGaps {
				return nil, fmt.Errorf("solve hour %s: %w", label, errs[i])
			}
			gaps = append(gaps, Gap{Hour: label, Err: errs[i]})
			continue
		}
		if snaps[i] != nil && consume != nil {
			consume(snaps[i])
		}
	}
	return gaps, nil
}

func (o *Orchestrator) solveParallel(sets []grid.LoadSet, snaps []*model.HourlySnapshot, errs []error, workers int) {
	if workers > len(sets) {
		workers = len(sets)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				snaps[i], errs[i] = o.slv.Solve(o.net, sets[i])
			}
		}()
	}
	for i := range sets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
