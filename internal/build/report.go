package build

// Execution state of a unit within one run.
type State string

const (
	StatePending   State = "pending"   // Not reached.
	StateSkipped   State = "skipped"   // Already completed or image present.
	StateCompleted State = "completed" // Ran to completion in this run.
	StateFailed    State = "failed"    // Aborted the run.
)

// Kind of unit.
type Kind string

const (
	KindImage Kind = "image"
	KindJob   Kind = "job"
)

// Outcome of a single unit.
type UnitReport struct {
	Name  string // Unit name.
	Kind  Kind   // Image build or job.
	State State  // Final state.
}

// Outcome of a run, one entry per selected unit in execution order.
type Report struct {
	Units []UnitReport
}

func (r *Report) add(name string, kind Kind) {
	r.Units = append(r.Units, UnitReport{Name: name, Kind: kind, State: StatePending})
}

func (r *Report) set(kind Kind, name string, state State) {
	for i := range r.Units {
		if r.Units[i].Kind == kind && r.Units[i].Name == name {
			r.Units[i].State = state
			return
		}
	}
}

// Returns the number of units in the given state.
func (r *Report) Count(state State) int {
	n := 0
	for _, u := range r.Units {
		if u.State == state {
			n++
		}
	}
	return n
}
