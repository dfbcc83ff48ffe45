package sim

import (
	"fmt"
	"sort"
	"strings"
)

// NoModelError is raised when execution reaches a process with no model
// assigned. It names the requested process, the computation that needed
// it, and the concrete model type bound to every process in the
// collection, to aid diagnosis.
type NoModelError struct {
	Process     string
	Computation string
	Bound       map[string]string
}

func (e *NoModelError) Error() string {
	bound := make([]string, 0, len(e.Bound))
	for process, modelType := range e.Bound {
		bound = append(bound, fmt.Sprintf("%s=%s", process, modelType))
	}
	sort.Strings(bound)
	return fmt.Sprintf("no model found for process %q while computing %q; bound models: %s",
		e.Process, e.Computation, strings.Join(bound, ", "))
}

// ShapeMismatchError is raised before any computation when a driver-record
// sequence cannot be paired with the object's time-step count: the lengths
// must match exactly, or the sequence must hold a single broadcast record.
type ShapeMismatchError struct {
	Records int
	Steps   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("driver sequence of length %d is incompatible with a store of %d time steps; lengths must match or the sequence must have length 1",
		e.Records, e.Steps)
}
