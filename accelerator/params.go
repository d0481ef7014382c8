package accelerator

import "gitlab.com/akita/akita/v3/sim"

// MAC array parameters.
const (
	MACFreq            = 1 * sim.GHz
	ChannelParallelism = 8
	PixelParallelism   = 8

	// Estimated by scaling down 45nm 32-bit operations.
	MACEnergy = 0.07021
)

// DDR device parameters.
const (
	ddrFreqMHz     = 800.0 // both edges are used
	ddrChipNum     = 2
	ddrChipBitWide = 16

	ddrBgPowerPerChipMW = 52.8

	// Power in mW per 1% of bandwidth usage.
	ddrReadPowerRatio  = 1.8139 + 1.1524
	ddrWritePowerRatio = 1.7646 + 0.6487
	ddrActPowerRatio   = 0.2337

	ddrChipBandwidth = ddrFreqMHz * 2 * ddrChipBitWide / 8
)

// DDR returns the off-chip memory model. Energies are per byte.
func DDR() BufferModel {
	return BufferModel{
		ReadBandwidth:   ddrChipBandwidth * ddrChipNum,
		WriteBandwidth:  ddrChipBandwidth * ddrChipNum,
		ReadEnergy:      (ddrActPowerRatio + ddrReadPowerRatio) / (ddrChipBandwidth * 0.01) * 1000,
		WriteEnergy:     (ddrActPowerRatio + ddrWritePowerRatio) / (ddrChipBandwidth * 0.01) * 1000,
		BackgroundPower: ddrBgPowerPerChipMW * ddrChipNum,
	}
}

type macroTable struct {
	size        []int
	readBW      []float64
	writeBW     []float64
	readEnergy  []float64
	writeEnergy []float64
	bgPower     []float64
}

func (t macroTable) macro(i int) BufferModel {
	return BufferModel{
		Size:            t.size[i],
		ReadBandwidth:   t.readBW[i],
		WriteBandwidth:  t.writeBW[i],
		ReadEnergy:      t.readEnergy[i],
		WriteEnergy:     t.writeEnergy[i],
		BackgroundPower: t.bgPower[i],
	}
}

var sramTable = macroTable{
	size:    []int{16 * 1024, 32 * 1024, 64 * 1024, 128 * 1024, 256 * 1024},
	readBW:  []float64{9145, 8609, 16831, 10977, 10977},
	writeBW: []float64{5147, 4973, 11763, 10451, 10451},
	readEnergy: []float64{
		3.057 / 8, 6.432 / 8, 6.780 / 8, 7.931 / 8, 11.562 / 8,
	},
	writeEnergy: []float64{
		0.556 / 8, 1.315 / 8, 3.777 / 8, 2.792 / 8, 6.424 / 8,
	},
	bgPower: []float64{0.00134, 0.00270, 0.00600, 0.01153, 0.02306},
}

var rramTable = macroTable{
	size:    []int{128 * 1024, 256 * 1024, 512 * 1024, 1024 * 1024, 2048 * 1024},
	readBW:  []float64{15169, 11693, 8005, 11056, 10306},
	writeBW: []float64{1556, 1534, 1490, 1534, 1534},
	readEnergy: []float64{
		67.690 / 32, 75.071 / 32, 88.483 / 32, 133.189 / 32, 231.750 / 32,
	},
	writeEnergy: []float64{
		195.286 / 32, 217.468 / 32, 260.073 / 32, 268.319 / 32, 357.190 / 32,
	},
	bgPower: []float64{0.04000, 0.04104, 0.04314, 0.05282, 0.07806},
}

var fifoTable = macroTable{
	size:        []int{1, 16, 32, 64, 128},
	readBW:      []float64{0, 0, 0, 0, 0},
	writeBW:     []float64{0, 0, 0, 0, 0},
	readEnergy:  []float64{0, 0.045, 0.056, 0.107, 0.12},
	writeEnergy: []float64{0, 0.022, 0.031, 0.083, 0.094},
	bgPower:     []float64{0, 0, 0, 0, 0},
}

// Number of entries in each device table.
var (
	NumSRAMMacros = len(sramTable.size)
	NumRRAMMacros = len(rramTable.size)
	NumFIFOMacros = len(fifoTable.size)
)

// SRAMMacro returns the i-th SRAM macro of the device table.
func SRAMMacro(i int) BufferModel {
	return sramTable.macro(i)
}

// RRAMMacro returns the i-th RRAM macro of the device table.
func RRAMMacro(i int) BufferModel {
	return rramTable.macro(i)
}

// FIFOMacro returns the i-th accumulation FIFO of the device table.
func FIFOMacro(i int) BufferModel {
	return fifoTable.macro(i)
}

// FIFODepth returns the depth of the i-th accumulation FIFO.
func FIFODepth(i int) int {
	return fifoTable.size[i]
}

// banked scales a macro to n parallel banks.
func banked(m BufferModel, n int) BufferModel {
	m.Size *= n
	m.ReadBandwidth *= float64(n)
	m.WriteBandwidth *= float64(n)
	m.BackgroundPower *= float64(n)
	return m
}

// FromTable builds an accelerator from the device tables. ioIdx selects the
// SRAM macro of the activation buffer, weightIdx the macro of the weight
// buffer (RRAM when useRRAM is set), and fifoIdx the accumulation FIFO. Each
// buffer is built from one macro per pixel lane. The activation buffer is
// double-buffered, so its idle power counts twice.
func FromTable(ioIdx, weightIdx, fifoIdx int, useRRAM bool) Accelerator {
	ioBuf := banked(SRAMMacro(ioIdx), PixelParallelism)
	ioBuf.BackgroundPower *= 2

	var weightBuf BufferModel
	if useRRAM {
		weightBuf = banked(RRAMMacro(weightIdx), PixelParallelism)
	} else {
		weightBuf = banked(SRAMMacro(weightIdx), PixelParallelism)
	}

	return MakeBuilder().
		WithIOBuffer(ioBuf).
		WithWeightBuffer(weightBuf).
		WithAccumulatorBuffer(FIFOMacro(fifoIdx)).
		Build()
}
