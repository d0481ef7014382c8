package accelerator

import "gitlab.com/akita/akita/v3/sim"

// Builder can build accelerators.
type Builder struct {
	ioBuf     BufferModel
	weightBuf BufferModel
	dram      BufferModel
	accBuf    BufferModel

	inputChannelP  int
	outputChannelP int
	pixelP         int
	macEnergy      float64
	macFreq        sim.Freq
}

// MakeBuilder creates a builder with the default MAC array and a DDR
// interface. A single-entry accumulation buffer is used, which means partial
// sums are not reused.
func MakeBuilder() Builder {
	return Builder{
		dram:           DDR(),
		accBuf:         FIFOMacro(0),
		inputChannelP:  ChannelParallelism,
		outputChannelP: ChannelParallelism,
		pixelP:         PixelParallelism,
		macEnergy:      MACEnergy,
		macFreq:        MACFreq,
	}
}

// WithIOBuffer sets the activation buffer.
func (b Builder) WithIOBuffer(buf BufferModel) Builder {
	b.ioBuf = buf
	return b
}

// WithWeightBuffer sets the weight buffer.
func (b Builder) WithWeightBuffer(buf BufferModel) Builder {
	b.weightBuf = buf
	return b
}

// WithDRAM sets the off-chip memory.
func (b Builder) WithDRAM(buf BufferModel) Builder {
	b.dram = buf
	return b
}

// WithAccumulatorBuffer sets the buffer that holds partial sums inside the MAC
// array.
func (b Builder) WithAccumulatorBuffer(buf BufferModel) Builder {
	b.accBuf = buf
	return b
}

// WithChannelParallelism sets the number of input and output channels that
// the MAC array processes in parallel.
func (b Builder) WithChannelParallelism(input, output int) Builder {
	b.inputChannelP = input
	b.outputChannelP = output
	return b
}

// WithPixelParallelism sets the number of output pixels that the MAC array
// processes in parallel.
func (b Builder) WithPixelParallelism(p int) Builder {
	b.pixelP = p
	return b
}

// WithMACEnergy sets the energy of a single MAC, in pJ.
func (b Builder) WithMACEnergy(e float64) Builder {
	b.macEnergy = e
	return b
}

// WithMACFreq sets the frequency that the MAC array works at.
func (b Builder) WithMACFreq(f sim.Freq) Builder {
	b.macFreq = f
	return b
}

// Build creates the accelerator.
func (b Builder) Build() Accelerator {
	return Accelerator{
		IOBuf:                    b.ioBuf,
		WeightBuf:                b.weightBuf,
		DRAM:                     b.dram,
		AccBuf:                   b.accBuf,
		InputChannelParallelism:  b.inputChannelP,
		OutputChannelParallelism: b.outputChannelP,
		PixelParallelism:         b.pixelP,
		MACEnergy:                b.macEnergy,
		MACFreq:                  b.macFreq,
	}
}
