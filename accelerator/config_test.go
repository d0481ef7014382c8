package accelerator

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gitlab.com/akita/akita/v3/sim"
)

const sampleConfig = `
iobuf:
  size: 65536
  read_energy_pj: 0.5
  write_energy_pj: 0.25
  background_power_mw: 0.1
  read_bandwidth_meps: 10000
  write_bandwidth_meps: 8000
weight_buf:
  size: 131072
  read_energy_pj: 1
  write_energy_pj: 2
  read_bandwidth_meps: 12000
  write_bandwidth_meps: 1500
acc_buf:
  size: 16
  read_energy_pj: 0.045
  write_energy_pj: 0.022
pixel_parallelism: 4
mac_freq_mhz: 800
`

var _ = Describe("Config", func() {
	It("should build an accelerator from YAML", func() {
		cfg, err := ParseConfig([]byte(sampleConfig))
		Expect(err).NotTo(HaveOccurred())

		acc := cfg.Build()

		Expect(acc.IOBuf).To(Equal(BufferModel{
			Size:            65536,
			ReadEnergy:      0.5,
			WriteEnergy:     0.25,
			BackgroundPower: 0.1,
			ReadBandwidth:   10000,
			WriteBandwidth:  8000,
		}))
		Expect(acc.WeightBuf.Size).To(Equal(131072))
		Expect(acc.WeightBuf.WriteBandwidth).To(Equal(1500.0))
		Expect(acc.AccBuf.Size).To(Equal(16))
		Expect(acc.PixelParallelism).To(Equal(4))
		Expect(acc.MACFreq).To(Equal(800 * sim.MHz))
	})

	It("should keep defaults for fields left out", func() {
		cfg, err := ParseConfig([]byte(sampleConfig))
		Expect(err).NotTo(HaveOccurred())

		acc := cfg.Build()

		Expect(acc.DRAM).To(Equal(DDR()))
		Expect(acc.InputChannelParallelism).To(Equal(ChannelParallelism))
		Expect(acc.OutputChannelParallelism).To(Equal(ChannelParallelism))
		Expect(acc.MACEnergy).To(Equal(MACEnergy))
	})

	It("should reject a buffer without capacity", func() {
		_, err := ParseConfig([]byte(`
iobuf:
  read_bandwidth_meps: 1
  write_bandwidth_meps: 1
weight_buf:
  size: 1
  read_bandwidth_meps: 1
  write_bandwidth_meps: 1
`))

		Expect(err).To(MatchError(ContainSubstring("iobuf: size")))
	})

	It("should reject a buffer without bandwidth", func() {
		_, err := ParseConfig([]byte(`
iobuf:
  size: 1
  read_bandwidth_meps: 1
  write_bandwidth_meps: 1
weight_buf:
  size: 1
  read_bandwidth_meps: 1
`))

		Expect(err).To(MatchError(ContainSubstring("weight_buf: bandwidth")))
	})

	It("should reject malformed YAML", func() {
		_, err := ParseConfig([]byte("iobuf: [1, 2"))

		Expect(err).To(MatchError(ContainSubstring("parsing accelerator config")))
	})

	It("should load a config from a file", func() {
		dir, err := os.MkdirTemp("", "accelerator")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path := filepath.Join(dir, "acc.yaml")
		Expect(os.WriteFile(path, []byte(sampleConfig), 0o644)).To(Succeed())

		cfg, err := LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.IOBuf.Size).To(Equal(65536))
	})

	It("should fail on a missing file", func() {
		_, err := LoadConfig("does-not-exist.yaml")

		Expect(err).To(MatchError(ContainSubstring("reading accelerator config")))
	})
})
