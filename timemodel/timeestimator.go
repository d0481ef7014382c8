// Package timemodel provides a performance model for the time that the MAC
// array spends on a layer.
package timemodel

import (
	"github.com/syifan/cnnenergy"
	"github.com/syifan/cnnenergy/accelerator"
	"gitlab.com/akita/akita/v3/sim"
)

// A TimeEstimatorInput represents the input of a time estimator.
type TimeEstimatorInput struct {
	Accelerator *accelerator.Accelerator
	Layer       cnnenergy.Layer
}

// A TimeEstimatorOutput represents the output of a time estimator.
type TimeEstimatorOutput struct {
	// The estimated compute time.
	Time sim.VTimeInSec
}

// TimeEstimator estimates the compute time of a layer.
type TimeEstimator interface {
	// Estimate estimates the compute time of a layer.
	Estimate(input TimeEstimatorInput) TimeEstimatorOutput
}

// A MACArrayTimeEstimator counts the cycles of a fully pipelined MAC array.
// It does not consider memory stalls, so its result is the compute-bound
// lower bound of the latency.
type MACArrayTimeEstimator struct{}

// Estimate returns the number of MAC array cycles divided by the clock
// frequency.
func (e *MACArrayTimeEstimator) Estimate(
	input TimeEstimatorInput,
) TimeEstimatorOutput {
	return TimeEstimatorOutput{
		Time: CalcTime(input.Accelerator, input.Layer),
	}
}

// CalcTime returns the time that the MAC array spends on a layer. Output rows
// are processed one at a time, output columns PixelParallelism at a time, and
// channels in tiles of the channel parallelism.
func CalcTime(acc *accelerator.Accelerator, l cnnenergy.Layer) sim.VTimeInSec {
	outX, outY := l.ConvOutputShape()

	cycles := outY * cnnenergy.CeilDiv(outX, acc.PixelParallelism)
	cycles *= cnnenergy.CeilDiv(l.InputChannels, acc.InputChannelParallelism) *
		cnnenergy.CeilDiv(l.OutputChannels, acc.OutputChannelParallelism)
	cycles *= l.KernelX * l.KernelY

	return sim.VTimeInSec(float64(cycles) / float64(acc.MACFreq))
}
