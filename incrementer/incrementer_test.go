package incrementer_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/incsim/incrementer"
)

var _ = Describe("Incrementer", func() {
	var inc incrementer.Incrementer

	BeforeEach(func() {
		inc = incrementer.New()
	})

	It("should use a step of 7", func() {
		Expect(inc.Step()).To(Equal(uint16(7)))
		Expect(incrementer.DefaultStep).To(Equal(uint16(7)))
	})

	DescribeTable("IncrementOnce",
		func(x, expected uint16) {
			Expect(inc.IncrementOnce(x)).To(Equal(expected))
			Expect(incrementer.IncrementOnce(x)).To(Equal(expected))
		},
		Entry("zero", uint16(0), uint16(7)),
		Entry("wrapping", uint16(65533), uint16(4)),
		Entry("largest", uint16(65535), uint16(6)),
		Entry("last without wrapping", uint16(65528), uint16(65535)),
	)

	DescribeTable("IncrementTwice",
		func(x, expected uint16) {
			Expect(inc.IncrementTwice(x)).To(Equal(expected))
			Expect(incrementer.IncrementTwice(x)).To(Equal(expected))
		},
		Entry("zero", uint16(0), uint16(14)),
		Entry("largest", uint16(65535), uint16(12)),
		Entry("sum wraps", uint16(40000), uint16(14478)),
	)

	It("should match (x+7) mod 65536 for every input", func() {
		for x := 0; x <= math.MaxUint16; x++ {
			Expect(inc.IncrementOnce(uint16(x))).
				To(Equal(uint16((x + 7) % 65536)))
		}
	})

	It("should match 2*(x+7) mod 65536 for every input", func() {
		for x := 0; x <= math.MaxUint16; x++ {
			once := inc.IncrementOnce(uint16(x))

			Expect(inc.IncrementTwice(uint16(x))).
				To(Equal(uint16((2 * (x + 7)) % 65536)))
			Expect(inc.IncrementTwice(uint16(x))).To(Equal(once + once))
		}
	})

	It("should honour a custom step", func() {
		custom := incrementer.NewWithStep(0xFFFF)

		Expect(custom.IncrementOnce(1)).To(Equal(uint16(0)))
		Expect(custom.IncrementTwice(3)).To(Equal(uint16(4)))
	})
})
