package system

import "sort"

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner[C any] struct {
	systems []System[C]
	sorted  bool
}

func NewRunner[C any]() *Runner[C] {
	return &Runner[C]{
		systems: make([]System[C], 0, 8),
	}
}

func (r *Runner[C]) Register(s System[C]) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner[C]) Tick(tc C) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(tc)
	}
}

func (r *Runner[C]) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
