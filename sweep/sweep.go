// Package sweep evaluates a network over the accelerator design space of the
// device tables.
package sweep

import (
	"log/slog"

	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
	"github.com/syifan/cnnenergy/optimizer"
)

// A Point selects one accelerator of the device tables.
type Point struct {
	FIFOIdx   int
	IOBufIdx  int
	WeightIdx int
	UseRRAM   bool
}

// Accelerator builds the accelerator that the point stands for.
func (p Point) Accelerator() accelerator.Accelerator {
	return accelerator.FromTable(p.IOBufIdx, p.WeightIdx, p.FIFOIdx, p.UseRRAM)
}

// FIFODepth returns the depth of the accumulation FIFO of the point.
func (p Point) FIFODepth() int {
	return accelerator.FIFODepth(p.FIFOIdx)
}

// A Result holds the energy of the three schedules at one point.
type Result struct {
	Point

	Single       energy.Model
	CrossLayer   energy.Model
	FixedWeights energy.Model
}

// A Runner evaluates the network of an optimizer at every point of the design
// space.
type Runner struct {
	Optimizer *optimizer.Optimizer

	// UseRRAM selects RRAM macros for the weight buffer.
	UseRRAM bool
}

// Run evaluates all the points, grouped by FIFO depth, then activation buffer,
// then weight buffer.
func (r *Runner) Run() []Result {
	results := make([]Result, 0,
		accelerator.NumFIFOMacros*accelerator.NumSRAMMacros*r.numWeightMacros())

	for k := 0; k < accelerator.NumFIFOMacros; k++ {
		results = append(results, r.RunFIFO(k)...)
	}

	return results
}

// RunFIFO evaluates the points that use the k-th accumulation FIFO.
func (r *Runner) RunFIFO(k int) []Result {
	results := make([]Result, 0,
		accelerator.NumSRAMMacros*r.numWeightMacros())

	for i := 0; i < accelerator.NumSRAMMacros; i++ {
		for j := 0; j < r.numWeightMacros(); j++ {
			p := Point{
				FIFOIdx:   k,
				IOBufIdx:  i,
				WeightIdx: j,
				UseRRAM:   r.UseRRAM,
			}

			results = append(results, r.Evaluate(p))
		}
	}

	return results
}

// Evaluate runs the three optimizers at a single point.
func (r *Runner) Evaluate(p Point) Result {
	acc := p.Accelerator()
	o := r.Optimizer

	streamed := make([]bool, len(o.Network()))

	res := Result{
		Point:        p,
		Single:       o.OptimizeNetworkSingle(&acc),
		CrossLayer:   o.OptimizeNetworkCrossLayer(&acc, streamed),
		FixedWeights: o.OptimizeNetworkFixedWeights(&acc),
	}

	slog.Info("Configuration evaluated",
		"fifo_depth", p.FIFODepth(),
		"iobuf", p.IOBufIdx,
		"weight_buf", p.WeightIdx,
		"rram", p.UseRRAM,
		"single_pj", res.Single.Total(),
		"cross_layer_pj", res.CrossLayer.Total(),
		"fixed_weights_pj", res.FixedWeights.Total(),
	)

	return res
}

func (r *Runner) numWeightMacros() int {
	if r.UseRRAM {
		return accelerator.NumRRAMMacros
	}

	return accelerator.NumSRAMMacros
}

// Best returns the result whose energy, as selected by pick, is the lowest.
// The earliest result wins ties. It panics if results is empty.
func Best(results []Result, pick func(Result) energy.Model) Result {
	if len(results) == 0 {
		panic("sweep: no results")
	}

	idx, _ := optimizer.MinimizeInt(0, len(results)-1, func(i int) float64 {
		return pick(results[i]).Total()
	})

	return results[idx]
}

// Pickers for Best.
var (
	PickSingle       = func(r Result) energy.Model { return r.Single }
	PickCrossLayer   = func(r Result) energy.Model { return r.CrossLayer }
	PickFixedWeights = func(r Result) energy.Model { return r.FixedWeights }
)
