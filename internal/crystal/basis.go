package crystal

import "math/rand"

// Basis is one free scalar of the search space: a pointer into a Cell or
// Site field, bounds on the value, and the previous value for a one-step
// undo. The optimiser mutates the configuration exclusively through its
// Basis vector.
//
// A Basis aliases storage inside a single Cell or Site. It is
// regenerated whenever the owning state is cloned, so the pointers never
// outlive or cross state copies.
type Basis struct {
	value    *float64
	min, max float64
	old      float64
}

// MakeBasis constructs a Basis over the given value, bounded to
// [min, max].
func MakeBasis(value *float64, min, max float64) *Basis {
	return &Basis{value: value, min: min, max: max, old: *value}
}

// Get returns the current value.
func (b *Basis) Get() float64 {
	return *b.value
}

// Set clamps v to the bounds and stores it, stashing the previous value
// for Reset.
func (b *Basis) Set(v float64) {
	b.old = *b.value
	switch {
	case v < b.min:
		v = b.min
	case v > b.max:
		v = b.max
	}
	*b.value = v
}

// Reset restores the value stored by the last Set. Only a single step of
// undo is kept.
func (b *Basis) Reset() {
	*b.value = b.old
}

// Sample returns a proposed new value: the current value perturbed by a
// uniform step scaled to the value's range.
func (b *Basis) Sample(rng *rand.Rand, step float64) float64 {
	return b.Get() + step*(b.max-b.min)*(rng.Float64()-0.5)
}

// SetSampled draws a proposal and stores it.
func (b *Basis) SetSampled(rng *rand.Rand, step float64) {
	b.Set(b.Sample(rng, step))
}
