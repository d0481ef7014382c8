package optimizer

import (
	"log/slog"

	"github.com/syifan/cnnenergy/energy"
	"gitlab.com/akita/akita/v3/sim"
)

// HookPosLayerScheduled marks when the per-layer search picks the reuse
// strategy of a layer. The item is a LayerSchedule.
var HookPosLayerScheduled = &sim.HookPos{Name: "Layer Scheduled"}

// HookPosGroupFused marks when the cross-layer search settles a group of
// layers. The item is a FusedGroup. Groups that hold one layer are reported
// too.
var HookPosGroupFused = &sim.HookPos{Name: "Group Fused"}

// HookPosWeightsPinned marks when the fixed-weight search settles which
// layers keep their weights on chip. The item is a ResidencyAssignment.
var HookPosWeightsPinned = &sim.HookPos{Name: "Weights Pinned"}

// A LayerSchedule is the decision made for one layer.
type LayerSchedule struct {
	Index    int
	Strategy ReuseStrategy
	Energy   energy.Model
}

// A FusedGroup is a run of consecutive layers, from First to Last inclusive,
// whose intermediate feature maps do not leave the chip.
type FusedGroup struct {
	First, Last int
}

// Len returns the number of layers in the group.
func (g FusedGroup) Len() int {
	return g.Last - g.First + 1
}

// A ResidencyAssignment tells, for each layer, if its weights stay in the
// weight buffer for the whole run.
type ResidencyAssignment []bool

// NumResident returns the number of layers with resident weights.
func (a ResidencyAssignment) NumResident() int {
	n := 0
	for _, r := range a {
		if r {
			n++
		}
	}

	return n
}

// A LogHook writes optimizer decisions to a structured logger at the debug
// level.
type LogHook struct {
	Logger *slog.Logger
}

// Func logs the decision carried by the hook context.
func (h *LogHook) Func(ctx sim.HookCtx) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch item := ctx.Item.(type) {
	case LayerSchedule:
		logger.Debug("Layer scheduled",
			"layer", item.Index,
			"strategy", item.Strategy.String(),
			"energy_pj", item.Energy.Total(),
		)
	case FusedGroup:
		logger.Debug("Group fused",
			"first", item.First,
			"last", item.Last,
		)
	case ResidencyAssignment:
		logger.Debug("Weights pinned",
			"resident", []bool(item),
			"num_resident", item.NumResident(),
		)
	}
}
