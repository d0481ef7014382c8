package optimizer

import (
	"github.com/syifan/cnnenergy"
	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
	"gitlab.com/akita/akita/v3/sim"
)

// A ReuseStrategy tells which operand stays in its buffer while the other is
// streamed in.
type ReuseStrategy int

// ReuseStrategy constants
const (
	// ReuseInput keeps a slice of the input map on chip and walks through all
	// the kernels. The weights are reloaded once per input slice.
	ReuseInput ReuseStrategy = iota

	// ReuseWeight keeps a slice of the kernels on chip and walks through the
	// whole input map. The input map is reloaded once per kernel slice.
	ReuseWeight
)

func (s ReuseStrategy) String() string {
	switch s {
	case ReuseInput:
		return "ReuseInput"
	case ReuseWeight:
		return "ReuseWeight"
	default:
		return "Unknown"
	}
}

// OptimizeLayer returns the minimum energy of a single layer. inputResident
// and weightResident tell if the input map and the weights are already on
// chip.
//
// A grouped layer is scheduled as its groups one after another, with no
// reuse across groups.
func (o *Optimizer) OptimizeLayer(
	acc *accelerator.Accelerator,
	l cnnenergy.Layer,
	inputResident, weightResident bool,
) energy.Model {
	e, _ := o.optimizeLayer(acc, l, inputResident, weightResident)
	return e
}

func (o *Optimizer) optimizeLayer(
	acc *accelerator.Accelerator,
	l cnnenergy.Layer,
	inputResident, weightResident bool,
) (energy.Model, ReuseStrategy) {
	e, s := o.optimizeKernel(acc, l.GroupKernel(), inputResident, weightResident)
	return e.Scale(l.NumGroups()), s
}

func (o *Optimizer) optimizeKernel(
	acc *accelerator.Accelerator,
	l cnnenergy.Layer,
	inputResident, weightResident bool,
) (energy.Model, ReuseStrategy) {
	inputSize := l.InputMapSize()
	outputSize := l.OutputMapSize()
	weightSize := l.WeightSize()

	cutOutput := outputSize > acc.IOBuf.Size

	e := OnChipEnergy(acc, l)
	calcTime := o.calcTime(acc, l)

	var outputTime sim.VTimeInSec
	if cutOutput {
		outputTime = acc.MapStoreLink().TransferTime(outputSize)
	}

	cutChannel := cnnenergy.CeilDiv(weightSize, acc.WeightBuf.Size)
	reuseWeight := streamingEnergy(acc, calcTime, outputTime,
		loadedSize(inputResident, inputSize*cutChannel),
		loadedSize(weightResident, weightSize))

	cutMap := cnnenergy.CeilDiv(inputSize, acc.IOBuf.Size)
	reuseInput := streamingEnergy(acc, calcTime, outputTime,
		loadedSize(inputResident, inputSize),
		loadedSize(weightResident, weightSize*cutMap))

	strategy := ReuseInput
	streaming := reuseInput
	if reuseWeight.Total() < reuseInput.Total() {
		strategy = ReuseWeight
		streaming = reuseWeight
	}

	e = e.Add(streaming)

	if cutOutput {
		e.ReadIOBuf += float64(outputSize) * acc.IOBuf.ReadEnergy
		e.WriteDRAM += float64(outputSize) * acc.DRAM.WriteEnergy
	}

	return e, strategy
}

// streamingEnergy returns the energy of loading the given numbers of input
// and weight elements from DRAM, plus the background energy over the longer
// of the transfer time and the compute time.
func streamingEnergy(
	acc *accelerator.Accelerator,
	calcTime, outputTime sim.VTimeInSec,
	inputLoaded, weightLoaded int,
) energy.Model {
	var e energy.Model

	e.ReadDRAM = acc.DRAM.ReadEnergy * float64(inputLoaded+weightLoaded)
	e.WriteIOBuf = float64(inputLoaded) * acc.IOBuf.WriteEnergy
	e.WriteWeight = float64(weightLoaded) * acc.WeightBuf.WriteEnergy

	transTime := outputTime +
		acc.MapLoadLink().TransferTime(inputLoaded) +
		acc.WeightLoadLink().TransferTime(weightLoaded)
	e.Background = acc.BackgroundEnergy(maxTime(transTime, calcTime))

	return e
}

func loadedSize(resident bool, size int) int {
	if resident {
		return 0
	}

	return size
}
