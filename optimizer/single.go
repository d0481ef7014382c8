package optimizer

import (
	"github.com/syifan/cnnenergy/accelerator"
	"github.com/syifan/cnnenergy/energy"
)

// OptimizeNetworkSingle schedules every layer independently. A layer reads
// its input from the activation buffer when the input fits there; weights
// are always loaded from DRAM. The final output is written to DRAM.
func (o *Optimizer) OptimizeNetworkSingle(acc *accelerator.Accelerator) energy.Model {
	var total energy.Model

	for i, l := range o.network {
		inputResident := i > 0 && l.InputMapSize() < acc.IOBuf.Size

		e, s := o.optimizeLayer(acc, l, inputResident, false)
		o.invoke(HookPosLayerScheduled, LayerSchedule{
			Index:    i,
			Strategy: s,
			Energy:   e,
		})

		total = total.Add(e)
	}

	last := o.network[len(o.network)-1]

	return total.Add(finalWriteBack(acc, last))
}
