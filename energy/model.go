// Package energy provides an additive energy breakdown of the accelerator.
package energy

// A Model is an energy breakdown, in pJ. The zero value is a zero energy.
// Models are combined by value; no method modifies its receiver.
type Model struct {
	ReadIOBuf  float64
	WriteIOBuf float64

	ReadWeight  float64
	WriteWeight float64

	ReadDRAM  float64
	WriteDRAM float64

	Background float64
	Compute    float64
}

// Add returns the component-wise sum of m and b.
func (m Model) Add(b Model) Model {
	return Model{
		ReadIOBuf:   m.ReadIOBuf + b.ReadIOBuf,
		WriteIOBuf:  m.WriteIOBuf + b.WriteIOBuf,
		ReadWeight:  m.ReadWeight + b.ReadWeight,
		WriteWeight: m.WriteWeight + b.WriteWeight,
		ReadDRAM:    m.ReadDRAM + b.ReadDRAM,
		WriteDRAM:   m.WriteDRAM + b.WriteDRAM,
		Background:  m.Background + b.Background,
		Compute:     m.Compute + b.Compute,
	}
}

// Scale returns m with every component multiplied by p.
func (m Model) Scale(p int) Model {
	f := float64(p)

	return Model{
		ReadIOBuf:   m.ReadIOBuf * f,
		WriteIOBuf:  m.WriteIOBuf * f,
		ReadWeight:  m.ReadWeight * f,
		WriteWeight: m.WriteWeight * f,
		ReadDRAM:    m.ReadDRAM * f,
		WriteDRAM:   m.WriteDRAM * f,
		Background:  m.Background * f,
		Compute:     m.Compute * f,
	}
}

// Sum adds up a list of models.
func Sum(models ...Model) Model {
	var total Model
	for _, m := range models {
		total = total.Add(m)
	}

	return total
}

// IOBuf returns the activation buffer energy.
func (m Model) IOBuf() float64 {
	return m.ReadIOBuf + m.WriteIOBuf
}

// Weight returns the weight buffer energy.
func (m Model) Weight() float64 {
	return m.ReadWeight + m.WriteWeight
}

// DRAM returns the off-chip memory energy.
func (m Model) DRAM() float64 {
	return m.ReadDRAM + m.WriteDRAM
}

// Total returns the sum of all the components.
func (m Model) Total() float64 {
	return m.ReadIOBuf + m.WriteIOBuf +
		m.ReadWeight + m.WriteWeight +
		m.ReadDRAM + m.WriteDRAM +
		m.Background + m.Compute
}
