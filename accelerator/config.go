package accelerator

import (
	"fmt"
	"os"

	"gitlab.com/akita/akita/v3/sim"
	"gopkg.in/yaml.v3"
)

// BufferConfig is the file representation of a BufferModel.
type BufferConfig struct {
	Size            int     `yaml:"size"`
	ReadEnergy      float64 `yaml:"read_energy_pj"`
	WriteEnergy     float64 `yaml:"write_energy_pj"`
	BackgroundPower float64 `yaml:"background_power_mw"`
	ReadBandwidth   float64 `yaml:"read_bandwidth_meps"`
	WriteBandwidth  float64 `yaml:"write_bandwidth_meps"`
}

// Config is the file representation of an accelerator. Fields left out keep
// the defaults of MakeBuilder.
type Config struct {
	IOBuf     BufferConfig  `yaml:"iobuf"`
	WeightBuf BufferConfig  `yaml:"weight_buf"`
	DRAM      *BufferConfig `yaml:"dram"`
	AccBuf    *BufferConfig `yaml:"acc_buf"`

	InputChannelParallelism  int     `yaml:"input_channel_parallelism"`
	OutputChannelParallelism int     `yaml:"output_channel_parallelism"`
	PixelParallelism         int     `yaml:"pixel_parallelism"`
	MACEnergy                float64 `yaml:"mac_energy_pj"`
	MACFreqMHz               float64 `yaml:"mac_freq_mhz"`
}

func (c BufferConfig) model() BufferModel {
	return BufferModel{
		Size:            c.Size,
		ReadEnergy:      c.ReadEnergy,
		WriteEnergy:     c.WriteEnergy,
		BackgroundPower: c.BackgroundPower,
		ReadBandwidth:   c.ReadBandwidth,
		WriteBandwidth:  c.WriteBandwidth,
	}
}

func (c BufferConfig) validate(name string) error {
	if c.Size <= 0 {
		return fmt.Errorf("%s: size must be positive", name)
	}

	if c.ReadBandwidth <= 0 || c.WriteBandwidth <= 0 {
		return fmt.Errorf("%s: bandwidth must be positive", name)
	}

	if c.ReadEnergy < 0 || c.WriteEnergy < 0 || c.BackgroundPower < 0 {
		return fmt.Errorf("%s: energy and power must not be negative", name)
	}

	return nil
}

// LoadConfig reads an accelerator description from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading accelerator config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes and validates an accelerator description.
func ParseConfig(data []byte) (Config, error) {
	var c Config

	err := yaml.Unmarshal(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("parsing accelerator config: %w", err)
	}

	err = c.Validate()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate rejects descriptions that would make the cost model divide by
// zero.
func (c Config) Validate() error {
	err := c.IOBuf.validate("iobuf")
	if err != nil {
		return err
	}

	err = c.WeightBuf.validate("weight_buf")
	if err != nil {
		return err
	}

	if c.DRAM != nil {
		err = c.DRAM.validate("dram")
		if err != nil {
			return err
		}
	}

	if c.AccBuf != nil && c.AccBuf.Size <= 0 {
		return fmt.Errorf("acc_buf: size must be positive")
	}

	for _, p := range []int{
		c.InputChannelParallelism,
		c.OutputChannelParallelism,
		c.PixelParallelism,
	} {
		if p < 0 {
			return fmt.Errorf("parallelism must not be negative")
		}
	}

	if c.MACFreqMHz < 0 || c.MACEnergy < 0 {
		return fmt.Errorf("mac_freq_mhz and mac_energy_pj must not be negative")
	}

	return nil
}

// Build creates the accelerator that the description stands for.
func (c Config) Build() Accelerator {
	b := MakeBuilder().
		WithIOBuffer(c.IOBuf.model()).
		WithWeightBuffer(c.WeightBuf.model())

	if c.DRAM != nil {
		b = b.WithDRAM(c.DRAM.model())
	}

	if c.AccBuf != nil {
		b = b.WithAccumulatorBuffer(c.AccBuf.model())
	}

	if c.InputChannelParallelism > 0 || c.OutputChannelParallelism > 0 {
		b = b.WithChannelParallelism(
			orDefault(c.InputChannelParallelism, ChannelParallelism),
			orDefault(c.OutputChannelParallelism, ChannelParallelism))
	}

	if c.PixelParallelism > 0 {
		b = b.WithPixelParallelism(c.PixelParallelism)
	}

	if c.MACEnergy > 0 {
		b = b.WithMACEnergy(c.MACEnergy)
	}

	if c.MACFreqMHz > 0 {
		b = b.WithMACFreq(sim.Freq(c.MACFreqMHz) * sim.MHz)
	}

	return b.Build()
}

func orDefault(v, d int) int {
	if v > 0 {
		return v
	}

	return d
}
