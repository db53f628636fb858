package lprelax

// Numeric settings and tolerance predicates. Every comparison of LP data
// runs through one of the predicates below so that all components agree on
// what counts as zero, equal, or infinite.

import "math"

// Default numeric parameter values used by NewSettings.
const (
	DefaultInfinity   = 1e+20 // values beyond this threshold are treated as infinite
	DefaultEpsilon    = 1e-09 // absolute tolerance for single values
	DefaultSumEpsilon = 1e-06 // absolute tolerance for sums of values
	DefaultFeasTol    = 1e-06 // primal feasibility tolerance handed to the solver
	defaultGrowFac    = 1.2   // growth factor for reallocated arrays
	defaultGrowInit   = 4     // initial capacity for reallocated arrays
)

// Settings bundles the numeric parameters of the LP machinery. A single
// Settings value is shared by the LP and all of its columns and rows; the
// caller may tune the fields before creating the LP but must not change
// them afterwards.
type Settings struct {
	Infinity   float64 // threshold for infinite values
	Epsilon    float64 // tolerance for comparing single values
	SumEpsilon float64 // tolerance for comparing accumulated values
	FeasTol    float64 // feasibility tolerance passed to the solver
	GrowFac    float64 // array growth factor
	GrowInit   int     // minimum array capacity after growth
}

// NewSettings returns settings initialized with the package defaults.
func NewSettings() *Settings {
	return &Settings{
		Infinity:   DefaultInfinity,
		Epsilon:    DefaultEpsilon,
		SumEpsilon: DefaultSumEpsilon,
		FeasTol:    DefaultFeasTol,
		GrowFac:    defaultGrowFac,
		GrowInit:   defaultGrowInit,
	}
}

// IsInfinity checks if the value is at or beyond the infinity threshold.
// Negative infinity is checked with IsInfinity(-val).
func (s *Settings) IsInfinity(val float64) bool {
	return val >= s.Infinity
}

// IsZero checks if the value lies within the epsilon tolerance of zero.
func (s *Settings) IsZero(val float64) bool {
	return math.Abs(val) <= s.Epsilon
}

// IsPositive checks if the value is greater than epsilon.
func (s *Settings) IsPositive(val float64) bool {
	return val > s.Epsilon
}

// IsNegative checks if the value is smaller than minus epsilon.
func (s *Settings) IsNegative(val float64) bool {
	return val < -s.Epsilon
}

// IsEQ checks if the two values are equal within the epsilon tolerance.
func (s *Settings) IsEQ(val1, val2 float64) bool {
	return math.Abs(val1-val2) <= s.Epsilon
}

// IsLT checks if val1 is smaller than val2 beyond the epsilon tolerance.
func (s *Settings) IsLT(val1, val2 float64) bool {
	return val1 < val2-s.Epsilon
}

// IsLE checks if val1 is smaller than or equal to val2 within tolerance.
func (s *Settings) IsLE(val1, val2 float64) bool {
	return val1 <= val2+s.Epsilon
}

// IsGT checks if val1 is greater than val2 beyond the epsilon tolerance.
func (s *Settings) IsGT(val1, val2 float64) bool {
	return val1 > val2+s.Epsilon
}

// IsGE checks if val1 is greater than or equal to val2 within tolerance.
func (s *Settings) IsGE(val1, val2 float64) bool {
	return val1 >= val2-s.Epsilon
}

// IsSumZero checks if an accumulated value lies within the sum tolerance
// of zero.
func (s *Settings) IsSumZero(val float64) bool {
	return math.Abs(val) <= s.SumEpsilon
}

// IsSumEQ checks if two accumulated values are equal within the sum
// tolerance.
func (s *Settings) IsSumEQ(val1, val2 float64) bool {
	return math.Abs(val1-val2) <= s.SumEpsilon
}

// IsSumLT checks if val1 is smaller than val2 beyond the sum tolerance.
// The coarser tolerance is used wherever the compared values are
// accumulated from many terms, as in activity based bound tightening.
func (s *Settings) IsSumLT(val1, val2 float64) bool {
	return val1 < val2-s.SumEpsilon
}

// IsSumGT checks if val1 is greater than val2 beyond the sum tolerance.
func (s *Settings) IsSumGT(val1, val2 float64) bool {
	return val1 > val2+s.SumEpsilon
}

// CalcGrowSize returns the capacity to allocate for an array that must
// hold at least num entries, growing geometrically to keep the amortized
// cost of repeated single-element appends constant.
func (s *Settings) CalcGrowSize(num int) int {
	size := s.GrowInit
	for size < num {
		size = int(s.GrowFac*float64(size)) + 1
	}
	return size
}

// grow returns a slice with the same contents as arr and capacity for at
// least num entries, reallocating with the settings' growth policy when
// needed.
func grow[T any](set *Settings, arr []T, num int) []T {
	if num <= cap(arr) {
		return arr
	}
	newarr := make([]T, len(arr), set.CalcGrowSize(num))
	copy(newarr, arr)
	return newarr
}
