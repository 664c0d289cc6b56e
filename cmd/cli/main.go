package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/loanfillettaz/loadflow-visualization/internal/aggregate"
	"github.com/loanfillettaz/loadflow-visualization/internal/config"
	"github.com/loanfillettaz/loadflow-visualization/internal/data"
	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
	"github.com/loanfillettaz/loadflow-visualization/internal/simulate"
	"github.com/loanfillettaz/loadflow-visualization/internal/solver"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "archetypes":
		cmdArchetypes()
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --topology grid.json --config examples/config.yaml --out results/daily_extrema.csv")
	fmt.Println("  cli archetypes")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run solves each hour of the configured window and reports per-line max loading and per-bus min voltage")
	fmt.Println("  - archetypes lists the named load/generation shapes")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	topoPath := fs.String("topology", "grid.json", "Path to topology JSON")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/daily_extrema.csv", "Output CSV path")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}

	topo, err := data.LoadTopologyJSON(*topoPath)
	if err != nil {
		fatal(err)
	}

	net, err := grid.Build(topo, cfg.Network.ToGridParams())
	if err != nil {
		fatal(err)
	}
	for _, ex := range net.Exclusions {
		fmt.Printf("excluded %s: %s\n", ex.RowID, ex.Reason)
	}

	var quantiles *profile.QuantileTable
	if cfg.Profile.Stochastic {
		quantiles, err = data.LoadQuantileCSV(cfg.Profile.QuantileFile)
		if err != nil {
			fatal(err)
		}
	}

	set, err := profile.Synthesize(topo.LoadPoints, cfg.Profile.ToSynthesizerOptions(quantiles))
	if err != nil {
		fatal(err)
	}

	agg := aggregate.New()
	orch := simulate.New(net, set, solver.NewGaussSeidel())
	gaps, err := orch.Run(cfg.Simulation.ToRunOptions(), agg.Add)
	if err != nil {
		if errors.Is(err, solver.ErrNoConvergence) {
			fmt.Fprintf(os.Stderr, "run aborted: %v\n", err)
			os.Exit(1)
		}
		fatal(err)
	}
	for _, g := range gaps {
		agg.AddGap(g.Hour)
		fmt.Printf("gap at %s: %v\n", g.Hour, g.Err)
	}

	daily := agg.Finalize()

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := data.WriteAggregateCSV(*outPath, daily); err != nil {
		fatal(err)
	}

	fmt.Printf("Wrote %s (%d lines, %d buses, %d hours)\n",
		*outPath, len(daily.MaxLineLoading), len(daily.MinBusVoltage), len(daily.Hours))
	printExtrema(daily)
}

func cmdArchetypes() {
	fmt.Println("load archetypes:")
	for _, name := range profile.LoadShapeNames() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("generation archetypes:")
	for _, name := range profile.GenerationShapeNames() {
		fmt.Printf("  %s\n", name)
	}
}

func printExtrema(daily *model.DailyAggregate) {
	lines := make([]string, 0, len(daily.MaxLineLoading))
	for id := range daily.MaxLineLoading {
		lines = append(lines, id)
	}
	// Worst-loaded lines first.
	sort.Slice(lines, func(i, j int) bool {
		return daily.MaxLineLoading[lines[i]] > daily.MaxLineLoading[lines[j]]
	})
	fmt.Printf("%-14s %-12s\n", "line", "max load %")
	for _, id := range lines {
		fmt.Printf("%-14s %-12.2f\n", id, daily.MaxLineLoading[id])
	}

	buses := make([]string, 0, len(daily.MinBusVoltage))
	for id := range daily.MinBusVoltage {
		buses = append(buses, id)
	}
	sort.Slice(buses, func(i, j int) bool {
		return daily.MinBusVoltage[buses[i]] < daily.MinBusVoltage[buses[j]]
	})
	fmt.Printf("%-14s %-12s\n", "bus", "min V pu")
	for _, id := range buses {
		fmt.Printf("%-14s %-12.4f\n", id, daily.MinBusVoltage[id])
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
