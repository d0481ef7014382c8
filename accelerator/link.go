package accelerator

import (
	"math"

	"gitlab.com/akita/akita/v3/sim"
)

// A Link connects the read port of one buffer to the write port of another.
// Data moves at the rate of the slower end.
type Link struct {
	Name     string
	Src, Dst *BufferModel
}

// Bandwidth returns the bottleneck bandwidth in mega elements per second.
func (l Link) Bandwidth() float64 {
	return math.Min(l.Src.ReadBandwidth, l.Dst.WriteBandwidth)
}

// TransferTime returns the time to move n elements over the link.
func (l Link) TransferTime(n int) sim.VTimeInSec {
	if n == 0 {
		return 0
	}

	return sim.VTimeInSec(float64(n) / (l.Bandwidth() * 1e6))
}
