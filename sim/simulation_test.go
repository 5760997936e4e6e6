package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type idleComp struct {
	*ComponentBase
}

func (c *idleComp) Handle(_ Event) error {
	return nil
}

func newIdleComp(name string) *idleComp {
	return &idleComp{ComponentBase: NewComponentBase(name)}
}

var _ = Describe("Simulation", func() {
	var (
		simulation *Simulation
	)

	BeforeEach(func() {
		simulation = NewSimulation()
	})

	It("should register the engine", func() {
		engine := NewSerialEngine()
		simulation.RegisterEngine(engine)

		Expect(simulation.GetEngine()).To(BeIdenticalTo(engine))
	})

	It("should register components", func() {
		b := newIdleComp("B")
		a := newIdleComp("A")

		simulation.RegisterComponent(b)
		simulation.RegisterComponent(a)

		Expect(simulation.GetComponentByName("A")).To(BeIdenticalTo(a))
		Expect(simulation.GetComponentByName("B")).To(BeIdenticalTo(b))
		Expect(simulation.GetComponentByName("C")).To(BeNil())
		Expect(simulation.Components()).To(Equal([]Component{a, b}))
	})

	It("should refuse duplicated names", func() {
		simulation.RegisterComponent(newIdleComp("A"))

		Expect(func() {
			simulation.RegisterComponent(newIdleComp("A"))
		}).To(Panic())
	})
})
