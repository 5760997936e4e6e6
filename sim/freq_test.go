package sim

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	DescribeTable("should reject frequencies that cannot clock a core",
		func(f Freq) {
			Expect(f.Valid()).To(BeFalse())
			Expect(func() { f.Period() }).To(Panic())
			Expect(func() { f.NextTick(1) }).To(Panic())
			Expect(func() { f.ThisTick(1) }).To(Panic())
		},
		Entry("zero", Freq(0)),
		Entry("negative", Freq(-1)),
		Entry("NaN", Freq(math.NaN())),
		Entry("+Inf", Freq(math.Inf(1))),
		Entry("-Inf", Freq(math.Inf(-1))),
	)

	It("should accept positive finite frequencies", func() {
		Expect((1 * Hz).Valid()).To(BeTrue())
		Expect((3 * GHz).Valid()).To(BeTrue())
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
		Expect(f.ThisTick(1.2)).To(BeNumerically("~", 2, 1e-12))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).
			To(BeNumerically("~", 102.000000002, 1e-12))
		Expect(f.NextTick(0.000000017)).
			To(BeNumerically("~", 0.000000018, 1e-12))
		Expect(f.NextTick(16)).To(BeNumerically("~", 16.000000001, 1e-12))
	})

	It("should get the next tick, if currTime is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.0000000011)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should panic on an invalid time", func() {
		var f = 1 * GHz
		Expect(func() { f.NextTick(VTimeInSec(math.NaN())) }).To(Panic())
		Expect(func() { f.ThisTick(VTimeInSec(math.Inf(1))) }).To(Panic())
	})
})
