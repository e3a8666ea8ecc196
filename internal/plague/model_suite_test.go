package plague_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/plague/internal/plague"
)

var _ = Describe("Model", func() {
	var m *plague.Model

	BeforeEach(func() {
		m = plague.New()
	})

	It("starts from a single zero sample", func() {
		Expect(m.Len()).To(Equal(1))
		h := m.History()
		Expect(h.Percentages).To(Equal([]float64{0}))
		Expect(h.Rates).To(Equal([]float64{0}))
		Expect(h.Controls).To(Equal([]float64{0}))
	})

	DescribeTable("keeps the rate clamped",
		func(deltas []float64, expected float64) {
			for _, d := range deltas {
				m.Spread(d)
			}
			Expect(m.Last().Rate).To(BeNumerically("~", expected, 1e-12))
		},
		Entry("saturates high", []float64{0.5, 0.5}, plague.MaxRate),
		Entry("saturates low", []float64{0.6, -10}, 0.0),
		Entry("accumulates", []float64{0.1, 0.2}, 0.3),
		Entry("ignores deltas past the bound", []float64{5, -0.1}, 0.5),
	)

	Context("after spreading at full rate", func() {
		BeforeEach(func() {
			m.Spread(0.6)
		})

		It("reaches 6 percent", func() {
			Expect(m.Last().Percentage).To(BeNumerically("~", 0.06, 1e-12))
		})

		It("reports the effective rate net of decay", func() {
			p, r := m.Status()
			Expect(p).To(BeNumerically("~", 0.06, 1e-12))
			Expect(r).To(BeNumerically("~", 0.6-0.0018, 1e-12))
		})

		It("applies the decay of the previous percentage on the next step", func() {
			_, r := m.Status()
			m.Spread(0)
			Expect(m.Last().Percentage).To(BeNumerically("~", 0.06+r*plague.Dt, 1e-12))
			Expect(m.Last().Percentage).To(BeNumerically("~", 0.11982, 1e-12))
		})
	})

	It("grows all curves in lockstep", func() {
		for i := 0; i < 25; i++ {
			m.Spread(0.02)
			h := m.History()
			Expect(h.Rates).To(HaveLen(h.Len()))
			Expect(h.Controls).To(HaveLen(h.Len()))
			Expect(h.Len()).To(Equal(i + 2))
		}
	})

	It("never exceeds full infection", func() {
		for i := 0; i < 1000; i++ {
			m.Spread(0.6)
			Expect(m.Last().Percentage).To(BeNumerically("<=", plague.MaxPercentage))
		}
	})
})
