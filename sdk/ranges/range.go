// Package ranges implements hand ranges over the 169 canonical classes and
// the compact text notation used to read and write them ("QQ+,AKs-ATs,KQo").
package ranges

import (
	"math/bits"
	"sort"

	"github.com/lox/pushfold/sdk/hands"
)

// Range is a set of canonical hand classes. The zero value is the empty
// range; Range is a comparable value type.
type Range struct {
	bits [3]uint64
}

// New returns the range holding classes.
func New(classes ...hands.Class) Range {
	var r Range
	for _, c := range classes {
		r.Add(c)
	}
	return r
}

// Full returns the range of all 169 classes.
func Full() Range {
	return New(hands.All()...)
}

// Add inserts c. Invalid classes are ignored.
func (r *Range) Add(c hands.Class) {
	if !c.Valid() {
		return
	}
	i := c.Index()
	r.bits[i/64] |= 1 << (i % 64)
}

// Remove deletes c.
func (r *Range) Remove(c hands.Class) {
	if !c.Valid() {
		return
	}
	i := c.Index()
	r.bits[i/64] &^= 1 << (i % 64)
}

// Contains reports whether c is in the range.
func (r Range) Contains(c hands.Class) bool {
	if !c.Valid() {
		return false
	}
	i := c.Index()
	return r.bits[i/64]&(1<<(i%64)) != 0
}

// Len returns the number of classes.
func (r Range) Len() int {
	return bits.OnesCount64(r.bits[0]) + bits.OnesCount64(r.bits[1]) + bits.OnesCount64(r.bits[2])
}

// IsEmpty reports whether the range has no classes.
func (r Range) IsEmpty() bool { return r.bits == [3]uint64{} }

// Union returns the classes in either range.
func (r Range) Union(o Range) Range {
	for i := range r.bits {
		r.bits[i] |= o.bits[i]
	}
	return r
}

// Classes returns the members in grid order (AA, AKs, ..., 22).
func (r Range) Classes() []hands.Class {
	out := make([]hands.Class, 0, r.Len())
	for i := range hands.NumClasses {
		if r.bits[i/64]&(1<<(i%64)) != 0 {
			out = append(out, hands.FromIndex(i))
		}
	}
	return out
}

// ByStrength returns the members ordered by the canonical strength ranking.
func (r Range) ByStrength() []hands.Class {
	out := r.Classes()
	sort.Slice(out, func(i, j int) bool {
		return hands.StrengthPosition(out[i]) < hands.StrengthPosition(out[j])
	})
	return out
}

// Weight is the total number of concrete combos in the range.
func (r Range) Weight() int {
	w := 0
	for _, c := range r.Classes() {
		w += c.ComboCount()
	}
	return w
}

// Percentage is Weight as a share of all 1326 starting hands, 0..100.
func (r Range) Percentage() float64 {
	return float64(r.Weight()) / hands.TotalCombos * 100
}

// Combos expands every class into its concrete hands.
func (r Range) Combos() []hands.Combo {
	out := make([]hands.Combo, 0, r.Weight())
	for _, c := range r.Classes() {
		out = append(out, c.Combos()...)
	}
	return out
}

func (r Range) String() string { return Format(r) }
