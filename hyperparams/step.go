package hyperparams

import (
	"sort"
)

type milestone struct {
	epoch int
	rate  float64
}

// Milestones is a piecewise-constant HyperParameter: the value set at an epoch holds until the
// next milestone.
type Milestones struct {
	ms []milestone
}

// Step returns a piecewise-constant HyperParameter that is 'base' from epoch 0 until the first
// milestone given by Add.
func Step(base float64) *Milestones {
	return &Milestones{ms: []milestone{{0, base}}}
}

// Add sets the value from 'epoch' onwards. Milestones may be added in any order; adding one at
// an epoch that already has a value replaces it.
func (m *Milestones) Add(epoch int, value float64) *Milestones {
	i := sort.Search(len(m.ms), func(i int) bool { return m.ms[i].epoch >= epoch })
	if i < len(m.ms) && m.ms[i].epoch == epoch {
		m.ms[i].rate = value
		return m
	}

	m.ms = append(m.ms, milestone{})
	copy(m.ms[i+1:], m.ms[i:])
	m.ms[i] = milestone{epoch, value}
	return m
}

func (m *Milestones) TypeString() string {
	return "step"
}

func (m *Milestones) Value(epoch int) float64 {
	// index of the first milestone after 'epoch'
	i := sort.Search(len(m.ms), func(i int) bool { return m.ms[i].epoch > epoch })
	if i == 0 {
		return m.ms[0].rate
	}
	return m.ms[i-1].rate
}
