// Package accelerator describes the hardware template that the optimizer
// schedules onto: an activation buffer, a weight buffer, off-chip DRAM, and a
// MAC array with a small accumulation buffer.
package accelerator

import (
	"gitlab.com/akita/akita/v3/sim"
)

// A BufferModel describes one memory resource.
type BufferModel struct {
	// Capacity in data elements.
	Size int

	// Energy per element, in pJ.
	ReadEnergy  float64
	WriteEnergy float64

	// Idle power, in mW.
	BackgroundPower float64

	// Bandwidth, in mega elements per second.
	ReadBandwidth  float64
	WriteBandwidth float64
}

// An Accelerator is composed of four memory resources and a MAC array.
type Accelerator struct {
	IOBuf     BufferModel
	WeightBuf BufferModel
	DRAM      BufferModel
	AccBuf    BufferModel

	InputChannelParallelism  int
	OutputChannelParallelism int
	PixelParallelism         int

	// Energy per MAC, in pJ.
	MACEnergy float64
	MACFreq   sim.Freq
}

// BackgroundPower returns the idle power of the activation buffer, the weight
// buffer, and the DRAM, in mW.
func (a *Accelerator) BackgroundPower() float64 {
	return a.IOBuf.BackgroundPower +
		a.WeightBuf.BackgroundPower +
		a.DRAM.BackgroundPower
}

// BackgroundEnergy returns the energy, in pJ, that the idle power consumes
// over the given time.
func (a *Accelerator) BackgroundEnergy(t sim.VTimeInSec) float64 {
	return a.BackgroundPower() * float64(t) * 1e9
}

// WeightLoadLink returns the link that loads weights from DRAM.
func (a *Accelerator) WeightLoadLink() Link {
	return Link{Name: "DRAM->WeightBuf", Src: &a.DRAM, Dst: &a.WeightBuf}
}

// MapLoadLink returns the link that loads feature maps from DRAM.
func (a *Accelerator) MapLoadLink() Link {
	return Link{Name: "DRAM->IOBuf", Src: &a.DRAM, Dst: &a.IOBuf}
}

// MapStoreLink returns the link that writes feature maps back to DRAM.
func (a *Accelerator) MapStoreLink() Link {
	return Link{Name: "IOBuf->DRAM", Src: &a.IOBuf, Dst: &a.DRAM}
}

// WithWeightCapacity returns a copy of the accelerator whose weight buffer
// holds the given number of elements. The receiver is not modified.
func (a Accelerator) WithWeightCapacity(size int) Accelerator {
	a.WeightBuf.Size = size
	return a
}
