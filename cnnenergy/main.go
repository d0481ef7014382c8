package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/syifan/cnnenergy"
	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
	"github.com/syifan/cnnenergy/optimizer"
	"github.com/syifan/cnnenergy/sweep"
	"github.com/syifan/cnnenergy/timemodel"
	"github.com/tebeka/atexit"
)

var netFile = flag.String("net", "vgg-11-conv.txt", "The network description file.")
var accelFile = flag.String("accel", "",
	"A YAML accelerator description. When set, only this accelerator is evaluated.")
var useRRAM = flag.Bool("rram", false, "Use RRAM macros for the weight buffer in the sweep.")
var outputDir = flag.String("output-dir", ".", "The directory where the CSV files are written.")
var prefix = flag.String("prefix", "energy", "The prefix of the CSV file names.")
var logLevel = flag.String("log-level", "info", "debug, info, warn, or error.")
var logJSON = flag.Bool("log-json", false, "Write logs as JSON.")

func main() {
	flag.Parse()
	setupLogging()

	start := time.Now()
	atexit.Register(func() {
		slog.Info("Done", "elapsed", time.Since(start).String())
	})

	network := loadNetwork()
	opt := optimizer.NewOptimizer(network, &timemodel.MACArrayTimeEstimator{})
	opt.AcceptHook(&optimizer.LogHook{})

	if *accelFile != "" {
		evaluateAccelerator(opt)
	} else {
		runSweep(opt)
	}

	atexit.Exit(0)
}

func setupLogging() {
	var level slog.Level

	err := level.UnmarshalText([]byte(*logLevel))
	if err != nil {
		panic(err)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if *logJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func loadNetwork() cnnenergy.Network {
	loader := cnnenergy.NetworkLoader{
		Path: *netFile,
	}

	network, err := loader.Load()
	if err != nil {
		panic(err)
	}

	slog.Info("Network loaded",
		"layers", len(network),
		"weights", network.TotalWeightSize(),
		"macs", network.TotalMACCount(),
	)

	return network
}

func evaluateAccelerator(opt *optimizer.Optimizer) {
	cfg, err := accelerator.LoadConfig(*accelFile)
	if err != nil {
		panic(err)
	}

	acc := cfg.Build()

	single := opt.OptimizeNetworkSingle(&acc)
	cross, groups := opt.PlanCrossLayer(&acc, make([]bool, len(opt.Network())))
	fixed, resident := opt.PlanFixedWeights(&acc)

	printResult(opt, "Single layer", single)
	printResult(opt, "Cross layer", cross)
	fmt.Printf("Fused groups: %d\n\n", len(groups))
	printResult(opt, "Fixed weights", fixed)
	fmt.Printf("Layers with resident weights: %d of %d\n",
		resident.NumResident(), len(resident))
}

func printResult(opt *optimizer.Optimizer, title string, e energy.Model) {
	e.WriteTable(os.Stdout, title)
	fmt.Printf("Energy per MAC: %.6f pJ\n", opt.EnergyEfficiency(e))
}

func runSweep(opt *optimizer.Optimizer) {
	err := os.MkdirAll(*outputDir, 0o755)
	if err != nil {
		panic(err)
	}

	runner := &sweep.Runner{
		Optimizer: opt,
		UseRRAM:   *useRRAM,
	}

	var all []sweep.Result
	for k := 0; k < accelerator.NumFIFOMacros; k++ {
		results := runner.RunFIFO(k)

		name := fmt.Sprintf("%s_f%d.csv", *prefix, accelerator.FIFODepth(k))
		writeResults(filepath.Join(*outputDir, name), results)

		all = append(all, results...)
	}

	sweep.WriteSummary(os.Stdout, all)
}

func writeResults(path string, results []sweep.Result) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	err = sweep.WriteCSV(f, results)
	if err != nil {
		panic(err)
	}

	slog.Info("Results written", "path", path, "rows", len(results))
}
