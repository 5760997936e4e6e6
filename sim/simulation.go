package sim

import "sort"

// A Simulation keeps track of the engine and the components that make up a
// simulated system.
type Simulation struct {
	engine        Engine
	components    []Component
	compNameIndex map[string]int
}

// NewSimulation creates a new simulation.
func NewSimulation() *Simulation {
	return &Simulation{
		compNameIndex: make(map[string]int),
	}
}

// RegisterEngine sets the engine that drives the simulation.
func (s *Simulation) RegisterEngine(e Engine) {
	s.engine = e
}

// GetEngine returns the engine that drives the simulation.
func (s *Simulation) GetEngine() Engine {
	return s.engine
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1
}

// GetComponentByName returns the component with the given name, or nil if no
// component has that name.
func (s *Simulation) GetComponentByName(name string) Component {
	idx, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[idx]
}

// Components returns all the registered components, sorted by name.
func (s *Simulation) Components() []Component {
	comps := make([]Component, len(s.components))
	copy(comps, s.components)

	sort.Slice(comps, func(i, j int) bool {
		return comps[i].Name() < comps[j].Name()
	})

	return comps
}
