// Package optimizer searches for the data-reuse schedule that minimizes the
// energy of a network on an accelerator.
//
// Three searches are provided. OptimizeNetworkSingle schedules every layer on
// its own. OptimizeNetworkCrossLayer additionally fuses consecutive layers so
// that intermediate feature maps stay on chip. OptimizeNetworkFixedWeights
// also decides which layers keep their weights in the weight buffer for the
// whole run.
package optimizer

import (
	"github.com/syifan/cnnenergy"
	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
	"github.com/syifan/cnnenergy/timemodel"
	"gitlab.com/akita/akita/v3/sim"
)

// An Optimizer schedules a network. It does not modify the network or the
// accelerators it is given.
type Optimizer struct {
	sim.HookableBase

	network       cnnenergy.Network
	timeEstimator timemodel.TimeEstimator
}

// NewOptimizer creates a new Optimizer for the network. If timeEstimator is
// nil, the MAC array cycle count is used.
func NewOptimizer(
	network cnnenergy.Network,
	timeEstimator timemodel.TimeEstimator,
) *Optimizer {
	if len(network) == 0 {
		panic("optimizer: network has no layers")
	}

	if timeEstimator == nil {
		timeEstimator = &timemodel.MACArrayTimeEstimator{}
	}

	return &Optimizer{
		network:       network,
		timeEstimator: timeEstimator,
	}
}

// Network returns the network being optimized.
func (o *Optimizer) Network() cnnenergy.Network {
	return o.network
}

// EnergyEfficiency returns the energy per MAC of the network, in pJ.
func (o *Optimizer) EnergyEfficiency(e energy.Model) float64 {
	return e.Total() / o.network.TotalMACCount()
}

func (o *Optimizer) calcTime(
	acc *accelerator.Accelerator,
	l cnnenergy.Layer,
) sim.VTimeInSec {
	out := o.timeEstimator.Estimate(timemodel.TimeEstimatorInput{
		Accelerator: acc,
		Layer:       l,
	})

	return out.Time
}

func (o *Optimizer) invoke(pos *sim.HookPos, item interface{}) {
	if o.NumHooks() == 0 {
		return
	}

	o.InvokeHook(sim.HookCtx{
		Domain: o,
		Pos:    pos,
		Item:   item,
	})
}

func maxTime(a, b sim.VTimeInSec) sim.VTimeInSec {
	if a > b {
		return a
	}

	return b
}
