// Package weather provides the external driver-data contract: an ordered,
// length-queryable sequence of immutable atmospheric records. The engine
// relies on ordering and length only; the fields below are the ones the
// bundled models read.
package weather

// Record is the forcing input for one time step.
type Record struct {
	// TMin and TMax are the daily temperature extremes in degrees Celsius.
	TMin float64
	TMax float64
	// Radiation is the incident global radiation in MJ m-2 step-1.
	Radiation float64
	// PPFD is the photosynthetic photon flux density in mol m-2 step-1.
	PPFD float64
}

// TMean returns the mean temperature of the step.
func (r Record) TMean() float64 {
	return (r.TMin + r.TMax) / 2
}

// Sequence is an ordered list of driver records.
type Sequence []Record

// Len returns the number of records.
func (s Sequence) Len() int { return len(s) }

// At returns the record for one step. When the sequence holds a single
// record it is broadcast to every step.
func (s Sequence) At(step int) Record {
	if len(s) == 1 {
		return s[0]
	}
	return s[step]
}

// Constant builds an n-record sequence repeating one record, useful for
// runs without measured driver data.
func Constant(r Record, n int) Sequence {
	out := make(Sequence, n)
	for i := range out {
		out[i] = r
	}
	return out
}
