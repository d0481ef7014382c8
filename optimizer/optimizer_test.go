package optimizer

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/syifan/cnnenergy"
	"github.com/syifan/cnnenergy/energy"
	"github.com/syifan/cnnenergy/timemodel"
)

var _ = Describe("Optimizer", func() {
	It("should panic on an empty network", func() {
		Expect(func() { NewOptimizer(cnnenergy.Network{}, nil) }).To(Panic())
	})

	It("should default to the MAC array time estimator", func() {
		o := NewOptimizer(cnnenergy.Network{conv(1, 2)}, nil)

		Expect(o.timeEstimator).
			To(BeAssignableToTypeOf(&timemodel.MACArrayTimeEstimator{}))
		Expect(o.Network()).To(HaveLen(1))
	})

	It("should compute the energy per MAC", func() {
		o := NewOptimizer(cnnenergy.Network{conv(1, 2)}, nil)

		Expect(o.EnergyEfficiency(energy.Model{Compute: 2304})).To(Equal(2.0))
	})

	It("should name the reuse strategies", func() {
		Expect(ReuseInput.String()).To(Equal("ReuseInput"))
		Expect(ReuseWeight.String()).To(Equal("ReuseWeight"))
		Expect(ReuseStrategy(5).String()).To(Equal("Unknown"))
	})
})

var _ = Describe("MinimizeInt", func() {
	It("should find the minimum", func() {
		arg, val := MinimizeInt(-5, 5, func(x int) float64 {
			return float64((x - 2) * (x - 2))
		})

		Expect(arg).To(Equal(2))
		Expect(val).To(Equal(0.0))
	})

	It("should prefer the smallest argument on a tie", func() {
		arg, _ := MinimizeInt(0, 4, func(x int) float64 {
			if x == 1 || x == 3 {
				return 1
			}
			return 2
		})

		Expect(arg).To(Equal(1))
	})

	It("should handle a single point", func() {
		arg, val := MinimizeInt(7, 7, func(x int) float64 { return 3 })

		Expect(arg).To(Equal(7))
		Expect(val).To(Equal(3.0))
	})
})

var _ = Describe("fusedGroups", func() {
	It("should rebuild the groups from the cut points", func() {
		Expect(fusedGroups([]int{0, 1, 1, 3})).To(Equal([]FusedGroup{
			{First: 0, Last: 0},
			{First: 1, Last: 2},
			{First: 3, Last: 3},
		}))
	})

	It("should handle a single group", func() {
		groups := fusedGroups([]int{0, 0, 0})

		Expect(groups).To(Equal([]FusedGroup{{First: 0, Last: 2}}))
		Expect(groups[0].Len()).To(Equal(3))
	})
})

var _ = Describe("LogHook", func() {
	It("should log the decisions", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf,
			&slog.HandlerOptions{Level: slog.LevelDebug}))

		net := cnnenergy.Network{conv(1, 2), conv(2, 2)}
		o := NewOptimizer(net, nil)
		o.AcceptHook(&LogHook{Logger: logger})

		acc := smallAccelerator()
		o.OptimizeNetworkSingle(&acc)
		o.OptimizeNetworkCrossLayer(&acc, []bool{false, false})
		o.OptimizeNetworkFixedWeights(&acc)

		out := buf.String()
		Expect(out).To(ContainSubstring("Layer scheduled"))
		Expect(out).To(ContainSubstring("strategy=ReuseInput"))
		Expect(out).To(ContainSubstring("Group fused"))
		Expect(out).To(ContainSubstring("Weights pinned"))
		Expect(out).To(ContainSubstring("num_resident=2"))
	})

	It("should stay quiet above the debug level", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		o := NewOptimizer(cnnenergy.Network{conv(1, 2)}, nil)
		o.AcceptHook(&LogHook{Logger: logger})

		acc := smallAccelerator()
		o.OptimizeNetworkSingle(&acc)

		Expect(buf.String()).To(BeEmpty())
	})
})

var _ = Describe("ResidencyAssignment", func() {
	It("should count the resident layers", func() {
		Expect(ResidencyAssignment{true, false, true}.NumResident()).To(Equal(2))
		Expect(ResidencyAssignment{}.NumResident()).To(Equal(0))
	})
})
