package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBase", func() {
	It("should carry time and handler", func() {
		h := newIdleComp("H")
		e := NewEventBase(3, h)

		Expect(e.ID).NotTo(BeEmpty())
		Expect(e.Time()).To(Equal(VTimeInSec(3)))
		Expect(e.Handler()).To(BeIdenticalTo(h))
	})

	It("should generate distinct ids", func() {
		a := NewEventBase(0, nil)
		b := NewEventBase(0, nil)

		Expect(a.ID).NotTo(Equal(b.ID))
	})

	It("should give tick events an id", func() {
		h := newIdleComp("H")
		e := MakeTickEvent(h, 5)

		Expect(e.ID).NotTo(BeEmpty())
		Expect(e.Time()).To(Equal(VTimeInSec(5)))
		Expect(e.Handler()).To(BeIdenticalTo(h))
	})
})
