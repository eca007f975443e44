// Package bands derives control-chart limits from a center value and a standard deviation.
//
// A Set holds seven levels: the center line (CL), three upper limits (UCLB, UCLA, UCL at
// +1, +2, +3 deviations) and three lower limits (LCLB, LCLA, LCL). Missing or invalid
// inputs never produce NaN or zero levels; they produce undefined levels which callers skip.
package bands

import "math"

// Value is an optional real number. The zero Value is undefined.
type Value struct {
	v  float64
	ok bool
}

// Some returns a defined Value. Non-finite numbers are treated as undefined.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// None is the undefined Value.
var None = Value{}

// Get returns the number and whether it is defined.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Defined reports whether v holds a finite number.
func (v Value) Defined() bool { return v.ok }

// Or returns the number or def when undefined.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.v
}

// Band identifies one control line.
type Band int

const (
	Center Band = iota
	UpperNear
	UpperMid
	UpperFar
	LowerNear
	LowerMid
	LowerFar

	numBands
)

// ColorClass selects the palette entry used for a band.
type ColorClass int

const (
	ClassAccent ColorClass = iota
	ClassNeutral
	ClassAlert
)

// Descriptor describes how a band is derived and presented.
// Multiplier is the signed number of deviations away from the center.
type Descriptor struct {
	Band       Band
	Multiplier int
	Class      ColorClass
	Code       string
}

// Descriptors lists every band in drawing order, center first.
var Descriptors = [numBands]Descriptor{
	{Center, 0, ClassAccent, "CL"},
	{UpperNear, 1, ClassNeutral, "UCLB"},
	{UpperMid, 2, ClassNeutral, "UCLA"},
	{UpperFar, 3, ClassAlert, "UCL"},
	{LowerNear, -1, ClassNeutral, "LCLB"},
	{LowerMid, -2, ClassNeutral, "LCLA"},
	{LowerFar, -3, ClassAlert, "LCL"},
}

// All returns the bands in drawing order.
func All() []Band {
	out := make([]Band, 0, numBands)
	for _, d := range Descriptors {
		out = append(out, d.Band)
	}
	return out
}

// Code returns the short label code of the band, e.g. "UCL".
func (b Band) Code() string {
	if b < 0 || b >= numBands {
		return ""
	}
	return Descriptors[b].Code
}

// Class returns the color class of the band.
func (b Band) Class() ColorClass {
	if b < 0 || b >= numBands {
		return ClassNeutral
	}
	return Descriptors[b].Class
}

// Multiplier returns the signed deviation multiple of the band.
func (b Band) Multiplier() int {
	if b < 0 || b >= numBands {
		return 0
	}
	return Descriptors[b].Multiplier
}

func (b Band) String() string { return b.Code() }

// Set holds one optional level per band, indexed by Band.
type Set [numBands]Value

// Get returns the level of b and whether it is defined.
func (s Set) Get(b Band) (float64, bool) {
	if b < 0 || b >= numBands {
		return 0, false
	}
	return s[b].Get()
}

// Defined returns the defined bands in drawing order.
func (s Set) Defined() []Band {
	var out []Band
	for _, d := range Descriptors {
		if s[d.Band].Defined() {
			out = append(out, d.Band)
		}
	}
	return out
}

// Len returns the number of defined bands.
func (s Set) Len() int {
	n := 0
	for _, v := range s {
		if v.Defined() {
			n++
		}
	}
	return n
}

// Active reports whether the center line is defined.
func (s Set) Active() bool { return s[Center].Defined() }

// Map returns a copy with every defined level passed through fn.
// Levels that map to a non-finite number become undefined.
func (s Set) Map(fn func(float64) float64) Set {
	var out Set
	for i, v := range s {
		if x, ok := v.Get(); ok {
			out[i] = Some(fn(x))
		}
	}
	return out
}

// LowerDeviation returns the deviation applied below the center. When three raw
// deviations would reach zero or below, center/3 is used instead so the lowest
// limit lands on zero rather than crossing it.
func LowerDeviation(center, deviation float64) float64 {
	if fallsBack(center, deviation) {
		return center / 3
	}
	return deviation
}

func fallsBack(center, deviation float64) bool { return center-deviation*3 <= 0 }

// Compute derives the band levels. An undefined center leaves every band undefined;
// an undefined or negative deviation leaves only the center defined.
func Compute(center, deviation Value) Set {
	var s Set
	c, ok := center.Get()
	if !ok {
		return s
	}
	s[Center] = Some(c)
	d, ok := deviation.Get()
	if !ok || d < 0 {
		return s
	}
	lower := LowerDeviation(c, d)
	for _, desc := range Descriptors {
		m := float64(desc.Multiplier)
		switch {
		case desc.Multiplier > 0:
			s[desc.Band] = Some(c + m*d)
		case desc.Multiplier < 0:
			s[desc.Band] = Some(snapZero(c+m*lower, c))
		}
	}
	return s
}

// snapZero clears the rounding residue left when three lower deviations land on zero.
func snapZero(v, center float64) float64 {
	if math.Abs(v) <= 1e-12*math.Abs(center) {
		return 0
	}
	return v
}
