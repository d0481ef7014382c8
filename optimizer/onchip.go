package optimizer

import (
	"github.com/syifan/cnnenergy"
	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
)

// OnChipEnergy returns the energy of a layer assuming that its inputs and
// weights are already on chip. It covers reading the activation and weight
// buffers, writing the results to the activation buffer, the MACs, and the
// partial-sum traffic of the accumulation buffer.
func OnChipEnergy(acc *accelerator.Accelerator, l cnnenergy.Layer) energy.Model {
	var e energy.Model

	outX, outY := l.ConvOutputShape()
	p := acc.PixelParallelism

	// Without an accumulation buffer, a unit-stride window slides along the
	// row and the pixel lanes share the overlapping input columns.
	if l.KernelStride == 1 && acc.AccBuf.Size == 1 {
		groups := outY * cnnenergy.CeilDiv(outX, p)
		window := (l.KernelX + p - 1) * l.KernelY
		e.ReadIOBuf = float64(groups*window) * acc.IOBuf.ReadEnergy
	} else {
		e.ReadIOBuf = float64(outX*outY*l.KernelX*l.KernelY) *
			acc.IOBuf.ReadEnergy
	}

	e.WriteIOBuf = float64(l.OutputMapSize()) * acc.IOBuf.WriteEnergy

	// Weights are streamed once per pixel group, amortized over the depth of
	// the accumulation buffer.
	weightPasses := cnnenergy.CeilDiv(outX*cnnenergy.CeilDiv(outY, p), acc.AccBuf.Size)
	e.ReadWeight = float64(l.WeightSize()*weightPasses) *
		acc.WeightBuf.ReadEnergy

	accumulations := cnnenergy.CeilDiv(l.InputChannels, acc.InputChannelParallelism)*
		l.KernelX*l.KernelY - 1
	e.Compute = l.MACCount() * acc.MACEnergy
	e.Compute += float64(outX*outY*l.OutputChannels) *
		float64(accumulations) *
		(acc.AccBuf.ReadEnergy + acc.AccBuf.WriteEnergy)

	return e
}

// finalWriteBack returns the energy of moving the last output of the network
// to DRAM.
func finalWriteBack(acc *accelerator.Accelerator, l cnnenergy.Layer) energy.Model {
	size := float64(l.OutputMapSize())

	return energy.Model{
		ReadIOBuf: size * acc.IOBuf.ReadEnergy,
		WriteDRAM: size * acc.DRAM.WriteEnergy,
	}
}
