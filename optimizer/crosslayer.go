package optimizer

import (
	"fmt"

	"github.com/syifan/cnnenergy"
	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
	"gitlab.com/akita/akita/v3/sim"
)

// OptimizeNetworkCrossLayer returns the minimum energy of the network when
// consecutive layers may be fused. weightResident tells, for each layer, if
// its weights are already in the weight buffer.
func (o *Optimizer) OptimizeNetworkCrossLayer(
	acc *accelerator.Accelerator,
	weightResident []bool,
) energy.Model {
	e, _ := o.PlanCrossLayer(acc, weightResident)
	return e
}

// PlanCrossLayer is OptimizeNetworkCrossLayer that also returns the fused
// groups, in layer order.
func (o *Optimizer) PlanCrossLayer(
	acc *accelerator.Accelerator,
	weightResident []bool,
) (energy.Model, []FusedGroup) {
	e, cut := o.crossLayer(acc, weightResident)

	groups := fusedGroups(cut)
	for _, g := range groups {
		o.invoke(HookPosGroupFused, g)
	}

	return e, groups
}

// crossLayer runs the fusion search. best[i] is the minimum energy of layers
// 0 to i, and cut[i] is the first layer of the group that ends at layer i in
// that schedule.
//
// Extending a group backwards only adds weights, so the search stops at the
// first layer that overflows the weight buffer.
func (o *Optimizer) crossLayer(
	acc *accelerator.Accelerator,
	weightResident []bool,
) (energy.Model, []int) {
	net := o.network
	n := len(net)

	if len(weightResident) != n {
		panic(fmt.Sprintf("optimizer: %d residency flags for %d layers",
			len(weightResident), n))
	}

	best := make([]energy.Model, n)
	onChip := make([]energy.Model, n)
	calcTime := make([]sim.VTimeInSec, n)
	fitsInBuf := make([]bool, n)
	cut := make([]int, n)
	inputResident := make([]bool, n+1)

	for i, l := range net {
		onChip[i] = OnChipEnergy(acc, l)
		calcTime[i] = o.calcTime(acc, l)
		fitsInBuf[i] = l.InputMapSize() < acc.IOBuf.Size
	}

	best[0] = o.OptimizeLayer(acc, net[0], false, weightResident[0])
	inputResident[1] = net[0].OutputMapSize() < acc.IOBuf.Size

	for i := 1; i < n; i++ {
		best[i] = o.OptimizeLayer(acc, net[i], inputResident[i], weightResident[i]).
			Add(best[i-1])
		cut[i] = i
		inputResident[i+1] = net[i].OutputMapSize() < acc.IOBuf.Size

		groupWeight := loadedSize(weightResident[i], net[i].WeightSize())
		groupOnChip := onChip[i]
		groupCalcTime := calcTime[i]
		outputTime := acc.MapStoreLink().TransferTime(net[i].OutputMapSize())
		spills := i == n-1 || !fitsInBuf[i+1]

		for j := i - 1; j >= 0; j-- {
			groupWeight += loadedSize(weightResident[j], net[j].WeightSize())
			if groupWeight > acc.WeightBuf.Size {
				break
			}

			groupOnChip = groupOnChip.Add(onChip[j])
			groupCalcTime += calcTime[j]
			spills = spills || !fitsInBuf[j+1]

			e := fusedGroupEnergy(acc, net[j], inputResident[j],
				groupOnChip, groupWeight, groupCalcTime, outputTime)
			if j > 0 {
				e = e.Add(best[j-1])
			}

			if e.Total() < best[i].Total() {
				best[i] = e
				cut[i] = j
				inputResident[i+1] = !spills
			}
		}
	}

	res := best[n-1].Add(finalWriteBack(acc, net[n-1]))

	return res, cut
}

// fusedGroupEnergy returns the energy of a fused group whose first layer is
// first. The weights of the whole group are loaded together, and the input of
// the first layer is loaded unless it is resident.
func fusedGroupEnergy(
	acc *accelerator.Accelerator,
	first cnnenergy.Layer,
	inputResident bool,
	groupOnChip energy.Model,
	groupWeight int,
	groupCalcTime, outputTime sim.VTimeInSec,
) energy.Model {
	e := groupOnChip

	transTime := outputTime + acc.WeightLoadLink().TransferTime(groupWeight)
	e.ReadDRAM += float64(groupWeight) * acc.DRAM.ReadEnergy
	e.WriteWeight += float64(groupWeight) * acc.WeightBuf.WriteEnergy

	if !inputResident {
		in := first.InputMapSize()
		e.ReadDRAM += float64(in) * acc.DRAM.ReadEnergy
		e.WriteIOBuf += float64(in) * acc.IOBuf.WriteEnergy
		transTime += acc.MapLoadLink().TransferTime(in)
	}

	e.Background += acc.BackgroundEnergy(maxTime(groupCalcTime, transTime))

	return e
}

func fusedGroups(cut []int) []FusedGroup {
	groups := make([]FusedGroup, 0, len(cut))
	for last := len(cut) - 1; last >= 0; last = cut[last] - 1 {
		groups = append(groups, FusedGroup{First: cut[last], Last: last})
	}

	for l, r := 0, len(groups)-1; l < r; l, r = l+1, r-1 {
		groups[l], groups[r] = groups[r], groups[l]
	}

	return groups
}
