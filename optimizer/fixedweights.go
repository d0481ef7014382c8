package optimizer

import (
	"slices"

	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
)

// OptimizeNetworkFixedWeights returns the minimum energy of the network when
// some layers keep their weights in the weight buffer for the whole run and
// consecutive layers may be fused.
func (o *Optimizer) OptimizeNetworkFixedWeights(
	acc *accelerator.Accelerator,
) energy.Model {
	e, _ := o.PlanFixedWeights(acc)
	return e
}

// PlanFixedWeights is OptimizeNetworkFixedWeights that also returns which
// layers keep their weights on chip.
//
// When all the weights fit, they all stay. Otherwise every subset that leaves
// room in the buffer is tried, with the last layer always streamed. Weights
// pinned by earlier layers shrink the buffer left to the fusion search.
func (o *Optimizer) PlanFixedWeights(
	acc *accelerator.Accelerator,
) (energy.Model, ResidencyAssignment) {
	n := len(o.network)
	resident := make(ResidencyAssignment, n)

	var e energy.Model
	if o.network.TotalWeightSize() <= acc.WeightBuf.Size {
		for i := range resident {
			resident[i] = true
		}

		e, _ = o.crossLayer(acc, resident)
	} else {
		e, resident = o.searchResidency(*acc, 0, resident)
	}

	o.invoke(HookPosWeightsPinned, resident)

	return e, resident
}

// searchResidency decides the residency of layer l and the ones after it. acc
// is the accelerator with the capacity pinned by earlier layers removed. The
// search owns resident and may modify it.
func (o *Optimizer) searchResidency(
	acc accelerator.Accelerator,
	l int,
	resident ResidencyAssignment,
) (energy.Model, ResidencyAssignment) {
	last := len(o.network) - 1

	if l >= last {
		resident[last] = false
		e, _ := o.crossLayer(&acc, resident)
		return e, resident
	}

	// The last layer always streams its weights, so a pin must leave room.
	w := o.network[l].WeightSize()
	if w >= acc.WeightBuf.Size {
		resident[l] = false
		return o.searchResidency(acc, l+1, resident)
	}

	pinned := slices.Clone(resident)
	pinned[l] = true
	resident[l] = false

	streamedEnergy, streamed := o.searchResidency(acc, l+1, resident)
	pinnedEnergy, pinned := o.searchResidency(
		acc.WithWeightCapacity(acc.WeightBuf.Size-w), l+1, pinned)

	if streamedEnergy.Total() < pinnedEnergy.Total() {
		return streamedEnergy, streamed
	}

	return pinnedEnergy, pinned
}
