package accelerator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gitlab.com/akita/akita/v3/sim"
)

var _ = Describe("Accelerator", func() {
	var acc Accelerator

	BeforeEach(func() {
		acc = MakeBuilder().
			WithIOBuffer(BufferModel{
				Size:            1024,
				ReadBandwidth:   400,
				WriteBandwidth:  200,
				BackgroundPower: 1,
			}).
			WithWeightBuffer(BufferModel{
				Size:            2048,
				ReadBandwidth:   800,
				WriteBandwidth:  100,
				BackgroundPower: 2,
			}).
			WithDRAM(BufferModel{
				ReadBandwidth:   500,
				WriteBandwidth:  250,
				BackgroundPower: 4,
			}).
			Build()
	})

	It("should keep the builder defaults", func() {
		Expect(acc.InputChannelParallelism).To(Equal(ChannelParallelism))
		Expect(acc.OutputChannelParallelism).To(Equal(ChannelParallelism))
		Expect(acc.PixelParallelism).To(Equal(PixelParallelism))
		Expect(acc.MACEnergy).To(Equal(MACEnergy))
		Expect(acc.MACFreq).To(Equal(1 * sim.GHz))
		Expect(acc.AccBuf.Size).To(Equal(1))
	})

	It("should apply builder options", func() {
		acc = MakeBuilder().
			WithChannelParallelism(4, 16).
			WithPixelParallelism(2).
			WithMACEnergy(0.5).
			WithMACFreq(500 * sim.MHz).
			WithAccumulatorBuffer(FIFOMacro(2)).
			Build()

		Expect(acc.InputChannelParallelism).To(Equal(4))
		Expect(acc.OutputChannelParallelism).To(Equal(16))
		Expect(acc.PixelParallelism).To(Equal(2))
		Expect(acc.MACEnergy).To(Equal(0.5))
		Expect(acc.MACFreq).To(Equal(500 * sim.MHz))
		Expect(acc.AccBuf.Size).To(Equal(32))
	})

	It("should add up the background power", func() {
		Expect(acc.BackgroundPower()).To(Equal(7.0))
		Expect(acc.BackgroundEnergy(2)).To(Equal(14e9))
	})

	It("should use the bottleneck bandwidth of each link", func() {
		Expect(acc.WeightLoadLink().Bandwidth()).To(Equal(100.0))
		Expect(acc.MapLoadLink().Bandwidth()).To(Equal(200.0))
		Expect(acc.MapStoreLink().Bandwidth()).To(Equal(250.0))
	})

	It("should compute transfer times", func() {
		link := acc.MapLoadLink()

		Expect(link.TransferTime(0)).To(Equal(sim.VTimeInSec(0)))
		Expect(link.TransferTime(400)).
			To(BeNumerically("~", 2e-6, 1e-18))
	})

	It("should copy the accelerator when changing the weight capacity", func() {
		smaller := acc.WithWeightCapacity(512)

		Expect(smaller.WeightBuf.Size).To(Equal(512))
		Expect(acc.WeightBuf.Size).To(Equal(2048))
		Expect(smaller.IOBuf).To(Equal(acc.IOBuf))
	})

	It("should point links at the copy they come from", func() {
		smaller := acc.WithWeightCapacity(512)
		smaller.WeightBuf.WriteBandwidth = 50

		Expect(smaller.WeightLoadLink().Bandwidth()).To(Equal(50.0))
		Expect(acc.WeightLoadLink().Bandwidth()).To(Equal(100.0))
	})
})

var _ = Describe("Device tables", func() {
	It("should build banked buffers", func() {
		acc := FromTable(1, 2, 3, false)

		Expect(acc.IOBuf.Size).To(Equal(32 * 1024 * PixelParallelism))
		Expect(acc.IOBuf.ReadBandwidth).To(Equal(8609.0 * PixelParallelism))
		Expect(acc.IOBuf.ReadEnergy).To(Equal(6.432 / 8))
		Expect(acc.IOBuf.BackgroundPower).
			To(BeNumerically("~", 0.00270*PixelParallelism*2, 1e-12))

		Expect(acc.WeightBuf.Size).To(Equal(64 * 1024 * PixelParallelism))
		Expect(acc.WeightBuf.BackgroundPower).
			To(BeNumerically("~", 0.00600*PixelParallelism, 1e-12))

		Expect(acc.AccBuf.Size).To(Equal(64))
		Expect(acc.DRAM).To(Equal(DDR()))
	})

	It("should build an RRAM weight buffer", func() {
		acc := FromTable(0, 4, 0, true)

		Expect(acc.WeightBuf.Size).To(Equal(2048 * 1024 * PixelParallelism))
		Expect(acc.WeightBuf.WriteEnergy).To(Equal(357.190 / 32))
		Expect(acc.WeightBuf.WriteBandwidth).To(Equal(1534.0 * PixelParallelism))
	})

	It("should describe a 6400 MB/s DDR interface", func() {
		ddr := DDR()

		Expect(ddr.ReadBandwidth).To(Equal(6400.0))
		Expect(ddr.WriteBandwidth).To(Equal(6400.0))
		Expect(ddr.BackgroundPower).To(BeNumerically("~", 105.6, 1e-9))
		Expect(ddr.ReadEnergy).To(BeNumerically("~", 100, 1e-9))
	})

	It("should list the FIFO depths", func() {
		depths := make([]int, 0, NumFIFOMacros)
		for i := 0; i < NumFIFOMacros; i++ {
			depths = append(depths, FIFODepth(i))
		}

		Expect(depths).To(Equal([]int{1, 16, 32, 64, 128}))
	})
})
