package lprelax

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// delta is the tolerance for comparing floating point results in tests.
const delta = 1e-9

// stubCall records one mutating call on the stub solver.
type stubCall struct {
	name string
	args []any
}

// stubSolver implements the Solver interface for tests. It records every
// mutating call together with its arguments and replays scripted results
// for the query methods.
type stubSolver struct {
	calls []stubCall

	ncols int
	nrows int

	termstat       TermStat
	objval         float64
	primsol        []float64
	dualsol        []float64
	activity       []float64
	redcost        []float64
	ray            []float64
	dualfarkas     []float64
	iters          int
	primalfeasible bool
	dualfeasible   bool

	solveErr error
	state    any
}

func newStubSolver() *stubSolver {
	return &stubSolver{termstat: TermOptimal, primalfeasible: true, dualfeasible: true}
}

func (s *stubSolver) record(name string, args ...any) {
	s.calls = append(s.calls, stubCall{name: name, args: args})
}

// callNames returns the names of the recorded calls in order.
func (s *stubSolver) callNames() []string {
	names := make([]string, len(s.calls))
	for i, c := range s.calls {
		names[i] = c.name
	}
	return names
}

func (s *stubSolver) reset() { s.calls = nil }

func (s *stubSolver) AddCols(obj, lb, ub []float64, names []string, beg, ind []int, val []float64) error {
	s.record("AddCols", obj, lb, ub, names, beg, ind, val)
	s.ncols += len(obj)
	return nil
}

func (s *stubSolver) AddRows(lhs, rhs []float64, names []string, beg, ind []int, val []float64) error {
	s.record("AddRows", lhs, rhs, names, beg, ind, val)
	s.nrows += len(lhs)
	return nil
}

func (s *stubSolver) DelCols(firstcol, lastcol int) error {
	s.record("DelCols", firstcol, lastcol)
	s.ncols = firstcol
	return nil
}

func (s *stubSolver) DelRows(firstrow, lastrow int) error {
	s.record("DelRows", firstrow, lastrow)
	s.nrows = firstrow
	return nil
}

func (s *stubSolver) ChgBounds(ind []int, lb, ub []float64) error {
	s.record("ChgBounds", ind, lb, ub)
	return nil
}

func (s *stubSolver) ChgSides(ind []int, lhs, rhs []float64) error {
	s.record("ChgSides", ind, lhs, rhs)
	return nil
}

func (s *stubSolver) SolvePrimal() error {
	s.record("SolvePrimal")
	return s.solveErr
}

func (s *stubSolver) SolveDual() error {
	s.record("SolveDual")
	return s.solveErr
}

func (s *stubSolver) TermStat() TermStat { return s.termstat }

func (s *stubSolver) BasisFeasibility() (bool, bool, error) {
	return s.primalfeasible, s.dualfeasible, nil
}

func (s *stubSolver) ObjVal() (float64, error) { return s.objval, nil }

func (s *stubSolver) Sol(primsol, dualsol, activity, redcost []float64) (float64, error) {
	copy(primsol, s.primsol)
	copy(dualsol, s.dualsol)
	copy(activity, s.activity)
	copy(redcost, s.redcost)
	return s.objval, nil
}

func (s *stubSolver) PrimalRay(ray []float64) error {
	if s.ray == nil {
		return errors.New("no primal ray available")
	}
	copy(ray, s.ray)
	return nil
}

func (s *stubSolver) DualFarkas(dualfarkas []float64) error {
	if s.dualfarkas == nil {
		return errors.New("no farkas proof available")
	}
	copy(dualfarkas, s.dualfarkas)
	return nil
}

func (s *stubSolver) Iterations() (int, error) { return s.iters, nil }

func (s *stubSolver) State() (any, error) { return s.state, nil }

func (s *stubSolver) SetState(state any) error {
	s.record("SetState", state)
	return nil
}

func (s *stubSolver) SetObjLimit(objlim float64) error {
	s.record("SetObjLimit", objlim)
	return nil
}

func (s *stubSolver) SetFeasTol(feastol float64) error {
	s.record("SetFeasTol", feastol)
	return nil
}

func (s *stubSolver) Infinity() float64 { return 1e30 }

//------------------------------------------------------------------------------

// newTestLP creates an LP on a fresh stub solver.
func newTestLP(t *testing.T) (*LP, *stubSolver) {
	t.Helper()

	set := NewSettings()
	lpi := newStubSolver()
	lp, err := NewLP(set, lpi)
	require.NoError(t, err)
	lpi.reset() // drop the SetFeasTol call from the constructor

	return lp, lpi
}

// addTestCol creates a variable with an attached column and adds it to
// the LP.
func addTestCol(t *testing.T, lp *LP, name string, obj, lb, ub float64) *Col {
	t.Helper()

	v := NewVar(name, obj, lb, ub)
	col, err := NewCol(lp.set, v, nil, nil)
	require.NoError(t, err)
	require.NoError(t, lp.AddCol(col))

	return col
}

// addTestRow creates a row over the given columns and adds it to the LP.
func addTestRow(t *testing.T, lp *LP, name string, cols []*Col, vals []float64, lhs, rhs float64) *Row {
	t.Helper()

	row, err := NewRow(lp.set, name, cols, vals, lhs, rhs, false, false)
	require.NoError(t, err)
	require.NoError(t, lp.AddRow(row))
	require.NoError(t, row.Release(lp))

	return row
}

func TestNewLPIsFlushedAndSolved(t *testing.T) {
	set := NewSettings()
	lpi := newStubSolver()
	lp, err := NewLP(set, lpi)
	require.NoError(t, err)

	assert.True(t, lp.IsFlushed())
	assert.True(t, lp.IsSolved())
	assert.Equal(t, SolStatOptimal, lp.SolStat())
	assert.Equal(t, 0.0, lp.ObjVal())
	assert.Equal(t, []string{"SetFeasTol"}, lpi.callNames())
	assert.Equal(t, set.FeasTol, lpi.calls[0].args[0])
}

func TestAddColInvalidatesSolution(t *testing.T) {
	lp, _ := newTestLP(t)

	col := addTestCol(t, lp, "x", 1.0, 0.0, 10.0)

	assert.False(t, lp.IsFlushed())
	assert.False(t, lp.IsSolved())
	assert.Equal(t, SolStatNotSolved, lp.SolStat())
	assert.Equal(t, 0, col.LPPos())
	assert.Equal(t, 1, lp.NCols())

	// the same column cannot enter twice
	err := lp.AddCol(col)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestAddRowCapturesRow(t *testing.T) {
	lp, _ := newTestLP(t)

	row, err := NewRow(lp.set, "r", nil, nil, 0.0, 1.0, false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, row.NUses())

	require.NoError(t, lp.AddRow(row))
	assert.Equal(t, 2, row.NUses())
	assert.Equal(t, 0, row.LPPos())

	// dropping the caller's reference leaves the LP's capture in place
	require.NoError(t, row.Release(lp))
	assert.Equal(t, 1, row.NUses())
}

func TestFlushAddsColsAndRows(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 3.0, 0.0, 10.0)
	y := addTestCol(t, lp, "y", -2.0, -1.0, lp.set.Infinity)
	addTestRow(t, lp, "r1", []*Col{x, y}, []float64{2.0, 1.0}, -lp.set.Infinity, 8.0)
	addTestRow(t, lp, "r2", []*Col{y}, []float64{4.0}, 1.0, 1.0)

	require.NoError(t, lp.Flush())

	assert.True(t, lp.IsFlushed())
	require.Equal(t, []string{"AddCols", "AddRows"}, lpi.callNames())

	// columns enter the solver before the rows exist, so they carry no
	// coefficients yet
	addcols := lpi.calls[0]
	assert.Equal(t, []float64{3.0, -2.0}, addcols.args[0])
	assert.Equal(t, []float64{0.0, -1.0}, addcols.args[1])
	assert.Equal(t, []float64{10.0, lpi.Infinity()}, addcols.args[2])
	assert.Equal(t, []string{"x", "y"}, addcols.args[3])
	assert.Equal(t, []int{0, 0}, addcols.args[4])
	assert.Empty(t, addcols.args[5])

	addrows := lpi.calls[1]
	assert.Equal(t, []float64{-lpi.Infinity(), 1.0}, addrows.args[0])
	assert.Equal(t, []float64{8.0, 1.0}, addrows.args[1])
	assert.Equal(t, []string{"r1", "r2"}, addrows.args[2])
	assert.Equal(t, []int{0, 2}, addrows.args[3])
	assert.Equal(t, []int{0, 1, 1}, addrows.args[4])
	assert.Equal(t, []float64{2.0, 1.0, 4.0}, addrows.args[5])

	assert.Equal(t, 0, x.lpipos)
	assert.Equal(t, 1, y.lpipos)

	// flushing an already flushed LP is a no-op
	lpi.reset()
	require.NoError(t, lp.Flush())
	assert.Empty(t, lpi.callNames())
}

func TestFlushBoundChanges(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 10.0)
	y := addTestCol(t, lp, "y", 1.0, 0.0, 10.0)
	require.NoError(t, lp.Flush())
	lpi.reset()

	require.NoError(t, x.Var().ChgUb(lp, 5.0))
	require.NoError(t, x.Var().ChgLb(lp, 1.0))
	require.NoError(t, y.Var().ChgLb(lp, 2.0))
	assert.False(t, lp.IsFlushed())

	require.NoError(t, lp.Flush())
	require.Equal(t, []string{"ChgBounds"}, lpi.callNames())
	assert.Equal(t, []int{0, 1}, lpi.calls[0].args[0])
	assert.Equal(t, []float64{1.0, 2.0}, lpi.calls[0].args[1])
	assert.Equal(t, []float64{5.0, 10.0}, lpi.calls[0].args[2])

	// a second flush transmits nothing
	lpi.reset()
	require.NoError(t, lp.Flush())
	assert.Empty(t, lpi.callNames())
}

func TestFlushSideChangesIncludeConstant(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 10.0)
	row := addTestRow(t, lp, "r", []*Col{x}, []float64{1.0}, 0.0, 8.0)
	require.NoError(t, lp.Flush())
	lpi.reset()

	require.NoError(t, row.ChgRhs(lp, 6.0))
	require.NoError(t, row.AddConst(lp, 1.5))

	require.NoError(t, lp.Flush())
	require.Equal(t, []string{"ChgSides"}, lpi.callNames())
	assert.Equal(t, []int{0}, lpi.calls[0].args[0])
	assert.InDelta(t, 1.5, lpi.calls[0].args[1].([]float64)[0], delta)
	assert.InDelta(t, 7.5, lpi.calls[0].args[2].([]float64)[0], delta)
}

func TestFlushShrinkDeletesSuffix(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	y := addTestCol(t, lp, "y", 1.0, 0.0, 1.0)
	z := addTestCol(t, lp, "z", 1.0, 0.0, 1.0)
	require.NoError(t, lp.Flush())
	lpi.reset()

	require.NoError(t, lp.ShrinkCols(1))
	assert.Equal(t, 1, lp.NCols())
	assert.Equal(t, -1, y.LPPos())
	assert.Equal(t, -1, z.LPPos())

	require.NoError(t, lp.Flush())
	require.Equal(t, []string{"DelCols"}, lpi.callNames())
	assert.Equal(t, 1, lpi.calls[0].args[0])
	assert.Equal(t, 2, lpi.calls[0].args[1])

	// the deleted columns lost their resident positions and solution values
	assert.Equal(t, -1, y.lpipos)
	assert.Equal(t, -1, z.lpipos)
	assert.Equal(t, 0.0, y.primsol)
	assert.Equal(t, 0, x.lpipos)
}

func TestFlushShrinkRowsReleasesRows(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	r1 := addTestRow(t, lp, "r1", []*Col{x}, []float64{1.0}, 0.0, 1.0)
	r2 := addTestRow(t, lp, "r2", []*Col{x}, []float64{2.0}, 0.0, 2.0)
	require.NoError(t, lp.Flush())
	lpi.reset()

	r2.Capture() // keep r2 alive across the shrink
	require.NoError(t, lp.ShrinkRows(1))
	assert.Equal(t, 1, lp.NRows())
	assert.Equal(t, -1, r2.LPPos())
	assert.Equal(t, 1, r2.NUses())

	require.NoError(t, lp.Flush())
	require.Equal(t, []string{"DelRows"}, lpi.callNames())
	assert.Equal(t, 1, lpi.calls[0].args[0])
	assert.Equal(t, 1, lpi.calls[0].args[1])
	assert.Equal(t, -1, r2.lpipos)
	assert.Equal(t, 0, r1.lpipos)

	require.NoError(t, r2.Release(lp))
}

func TestFlushCoefficientChangeDeletesAndReadds(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	y := addTestCol(t, lp, "y", 1.0, 0.0, 1.0)
	r1 := addTestRow(t, lp, "r1", []*Col{x}, []float64{1.0}, 0.0, 1.0)
	r2 := addTestRow(t, lp, "r2", []*Col{y}, []float64{1.0}, 0.0, 1.0)
	require.NoError(t, lp.Flush())
	lpi.reset()

	// changing a resident coefficient forces part of the LP to be
	// deleted and readded
	require.NoError(t, r2.ChgCoeff(lp, y, 3.0))
	assert.False(t, lp.IsFlushed())

	require.NoError(t, lp.Flush())
	assert.True(t, lp.IsFlushed())

	names := lpi.callNames()
	assert.Contains(t, names, "DelRows")
	assert.Contains(t, names, "AddRows")
	assert.NotContains(t, names, "DelCols")

	// the untouched leading row stayed resident
	assert.Equal(t, 0, r1.lpipos)
	assert.Equal(t, 1, r2.lpipos)

	// the readded row carries the new coefficient
	last := lpi.calls[len(lpi.calls)-1]
	require.Equal(t, "AddRows", last.name)
	assert.Equal(t, []float64{3.0}, last.args[5])
}

func TestClearEmptiesLP(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	addTestRow(t, lp, "r", []*Col{x}, []float64{1.0}, 0.0, 1.0)
	require.NoError(t, lp.Flush())
	lpi.reset()

	require.NoError(t, lp.Clear())
	assert.Equal(t, 0, lp.NCols())
	assert.Equal(t, 0, lp.NRows())

	require.NoError(t, lp.Flush())
	assert.Equal(t, []string{"DelCols", "DelRows"}, lpi.callNames())
}

func TestShrinkRejectsInvalidSize(t *testing.T) {
	lp, _ := newTestLP(t)
	addTestCol(t, lp, "x", 1.0, 0.0, 1.0)

	err := lp.ShrinkCols(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	err = lp.ShrinkRows(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestMarkSizeTracksNewColsAndRows(t *testing.T) {
	lp, _ := newTestLP(t)

	addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	lp.MarkSize()
	assert.Empty(t, lp.NewCols())
	assert.Empty(t, lp.NewRows())

	y := addTestCol(t, lp, "y", 1.0, 0.0, 1.0)
	row := addTestRow(t, lp, "r", []*Col{y}, []float64{1.0}, 0.0, 1.0)

	require.Len(t, lp.NewCols(), 1)
	assert.Same(t, y, lp.NewCols()[0])
	require.Len(t, lp.NewRows(), 1)
	assert.Same(t, row, lp.NewRows()[0])
}

func TestSolvePrimalStatusMapping(t *testing.T) {
	tests := []struct {
		termstat TermStat
		solstat  SolStat
		objval   float64
		wantErr  bool
	}{
		{TermOptimal, SolStatOptimal, -4.5, false},
		{TermInfeasible, SolStatInfeasible, DefaultInfinity, false},
		{TermUnbounded, SolStatUnbounded, -DefaultInfinity, false},
		{TermIterLimit, SolStatIterLimit, -DefaultInfinity, false},
		{TermTimeLimit, SolStatTimeLimit, -DefaultInfinity, false},
		{TermObjLimit, SolStatError, -DefaultInfinity, true},
		{TermUnknown, SolStatError, 0.0, true},
	}

	for _, tc := range tests {
		t.Run(tc.termstat.String(), func(t *testing.T) {
			lp, lpi := newTestLP(t)
			addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
			lpi.termstat = tc.termstat
			lpi.objval = -4.5

			err := lp.SolvePrimal()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSolver))
				// a failed solve leaves the LP unsolved and uncounted
				assert.False(t, lp.IsSolved())
				assert.Equal(t, 0, lp.NSolves())
			} else {
				require.NoError(t, err)
				assert.InDelta(t, tc.objval, lp.ObjVal(), delta)
				assert.True(t, lp.IsSolved())
				assert.Equal(t, 1, lp.NSolves())
			}
			assert.Equal(t, tc.solstat, lp.SolStat())
			assert.True(t, lp.IsFlushed())
		})
	}
}

func TestSolveDualStatusMapping(t *testing.T) {
	tests := []struct {
		termstat TermStat
		solstat  SolStat
		objval   float64
		wantErr  bool
	}{
		{TermOptimal, SolStatOptimal, 7.25, false},
		{TermObjLimit, SolStatObjLimit, DefaultInfinity, false},
		{TermInfeasible, SolStatInfeasible, DefaultInfinity, false},
		{TermUnbounded, SolStatUnbounded, -DefaultInfinity, false},
		{TermIterLimit, SolStatIterLimit, 7.25, false},
		{TermTimeLimit, SolStatTimeLimit, 7.25, false},
		{TermUnknown, SolStatError, -DefaultInfinity, true},
	}

	for _, tc := range tests {
		t.Run(tc.termstat.String(), func(t *testing.T) {
			lp, lpi := newTestLP(t)
			addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
			lpi.termstat = tc.termstat
			lpi.objval = 7.25

			err := lp.SolveDual()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSolver))
				assert.False(t, lp.IsSolved())
				assert.Equal(t, 0, lp.NSolves())
			} else {
				require.NoError(t, err)
				assert.InDelta(t, tc.objval, lp.ObjVal(), delta)
				assert.True(t, lp.IsSolved())
				assert.Equal(t, 1, lp.NSolves())
			}
			assert.Equal(t, tc.solstat, lp.SolStat())
		})
	}
}

func TestFailedSolveLeavesLPUnsolved(t *testing.T) {
	lp, lpi := newTestLP(t)
	addTestCol(t, lp, "x", 1.0, 0.0, 1.0)

	// an objective limit signal from the primal simplex is a solver error
	lpi.termstat = TermObjLimit
	err := lp.SolvePrimal()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolver))
	assert.False(t, lp.IsSolved())
	assert.Equal(t, 0, lp.NSolves())
	assert.Equal(t, 0, lp.NIterations())

	// the retrieval guards still reject the unsolved LP
	err = lp.GetSol()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	err = lp.GetUnboundedSol()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	_, err = lp.State()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	// a subsequent clean solve recovers
	lpi.termstat = TermOptimal
	lpi.objval = 1.0
	require.NoError(t, lp.SolvePrimal())
	assert.True(t, lp.IsSolved())
	assert.Equal(t, 1, lp.NSolves())
}

func TestSolveCountsStatistics(t *testing.T) {
	lp, lpi := newTestLP(t)
	addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	lpi.iters = 7

	require.NoError(t, lp.SolvePrimal())
	require.NoError(t, lp.SolveDual())

	assert.Equal(t, 2, lp.NSolves())
	assert.Equal(t, 14, lp.NIterations())
	iters, err := lp.Iterations()
	require.NoError(t, err)
	assert.Equal(t, 7, iters)
}

func TestGetSolStoresSolutionValues(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", -3.0, 0.0, 10.0)
	y := addTestCol(t, lp, "y", 1.0, 0.0, 10.0)
	row := addTestRow(t, lp, "r", []*Col{x, y}, []float64{1.0, 2.0}, -lp.set.Infinity, 4.0)
	require.NoError(t, row.AddConst(lp, 0.5))

	lpi.objval = -12.0
	lpi.primsol = []float64{4.0, 0.0}
	lpi.dualsol = []float64{-3.0}
	lpi.activity = []float64{4.0}
	lpi.redcost = []float64{0.0, 7.0}

	require.NoError(t, lp.SolveDual())
	require.NoError(t, lp.GetSol())

	assert.InDelta(t, -12.0, lp.ObjVal(), delta)
	assert.InDelta(t, 4.0, x.Primsol(), delta)
	assert.InDelta(t, 0.0, y.Primsol(), delta)
	assert.InDelta(t, -3.0, row.Dualsol(), delta)

	// the stored activity includes the row constant
	assert.InDelta(t, 4.5, row.Activity(lp), delta)
	assert.InDelta(t, -0.5, row.Feasibility(lp), delta)

	assert.InDelta(t, 0.0, x.Redcost(lp), delta)
	assert.InDelta(t, 7.0, y.Redcost(lp), delta)
}

func TestGetSolRequiresSolvedLP(t *testing.T) {
	lp, _ := newTestLP(t)
	addTestCol(t, lp, "x", 1.0, 0.0, 1.0)

	err := lp.GetSol()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestRedcostRecomputedFromRowDuals(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 5.0, 0.0, 10.0)
	row := addTestRow(t, lp, "r", []*Col{x}, []float64{2.0}, -lp.set.Infinity, 4.0)

	lpi.dualsol = []float64{1.5}
	lpi.primsol = []float64{2.0}
	lpi.activity = []float64{4.0}
	// leave redcost unset: the column recomputes it from the row duals
	require.NoError(t, lp.SolveDual())
	require.NoError(t, lp.GetSol())
	row.dualsol = 1.5

	// solve again without fetching: the stale stamp forces recomputation
	require.NoError(t, lp.SolveDual())
	assert.InDelta(t, 5.0-2.0*1.5, x.Redcost(lp), delta)
}

func TestGetUnboundedSolScalesRay(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", -2.0, 0.0, lp.set.Infinity)
	y := addTestCol(t, lp, "y", 0.0, 0.0, lp.set.Infinity)
	addTestRow(t, lp, "r", []*Col{x, y}, []float64{1.0, -1.0}, -lp.set.Infinity, 0.0)

	lpi.termstat = TermUnbounded
	lpi.objval = 0.0
	lpi.primsol = []float64{0.0, 0.0}
	lpi.activity = []float64{0.0}
	lpi.ray = []float64{2.0, 2.0}

	require.NoError(t, lp.SolvePrimal())
	require.Equal(t, SolStatUnbounded, lp.SolStat())
	require.NoError(t, lp.GetUnboundedSol())

	// rayobjval = -2*2 + 0*2 = -4, rayscale = -2*inf / -4
	rayscale := -2.0 * lp.set.Infinity / -4.0
	assert.InDelta(t, -lp.set.Infinity, lp.ObjVal(), delta)
	assert.InDelta(t, rayscale*2.0, x.Primsol(), 1e6)
	assert.InDelta(t, rayscale*2.0, y.Primsol(), 1e6)
}

func TestGetUnboundedSolRejectsUselessRay(t *testing.T) {
	lp, lpi := newTestLP(t)

	addTestCol(t, lp, "x", 1.0, 0.0, lp.set.Infinity)
	lpi.termstat = TermUnbounded
	lpi.primsol = []float64{0.0}
	lpi.ray = []float64{1.0} // rayobjval = +1, no objective decrease

	require.NoError(t, lp.SolvePrimal())
	err := lp.GetUnboundedSol()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolver))
}

func TestGetDualFarkasStoresMultipliers(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 0.0, 0.0, 1.0)
	r1 := addTestRow(t, lp, "r1", []*Col{x}, []float64{1.0}, 2.0, lp.set.Infinity)
	r2 := addTestRow(t, lp, "r2", []*Col{x}, []float64{1.0}, -lp.set.Infinity, 1.0)

	lpi.termstat = TermInfeasible
	lpi.dualfarkas = []float64{1.0, -1.0}

	require.NoError(t, lp.SolveDual())
	require.Equal(t, SolStatInfeasible, lp.SolStat())
	require.NoError(t, lp.GetDualFarkas())

	assert.InDelta(t, 1.0, r1.DualFarkas(), delta)
	assert.InDelta(t, -1.0, r2.DualFarkas(), delta)

	// the column farkas value aggregates the row multipliers:
	// 1*1 + 1*(-1) = 0, scaled by the lower bound
	assert.InDelta(t, 0.0, x.Farkas(lp), delta)
}

func TestGetDualFarkasRequiresInfeasibleLP(t *testing.T) {
	lp, _ := newTestLP(t)
	addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	require.NoError(t, lp.SolvePrimal())

	err := lp.GetDualFarkas()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestStateRoundTrip(t *testing.T) {
	lp, lpi := newTestLP(t)
	addTestCol(t, lp, "x", 1.0, 0.0, 1.0)

	type basis struct{ tag string }
	lpi.state = &basis{tag: "b1"}

	require.NoError(t, lp.SolveDual())
	state, err := lp.State()
	require.NoError(t, err)
	assert.Same(t, lpi.state, state)

	lp.primalfeasible = false
	lp.dualfeasible = false
	require.NoError(t, lp.SetState(state))
	assert.True(t, lp.IsPrimalFeasible())
	assert.True(t, lp.IsDualFeasible())
}

func TestSetFeasTolInvalidatesSolvedLP(t *testing.T) {
	lp, lpi := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	addTestRow(t, lp, "r", []*Col{x}, []float64{1.0}, 0.0, 1.0)
	require.NoError(t, lp.SolvePrimal())
	require.True(t, lp.IsSolved())
	lpi.reset()

	require.NoError(t, lp.SetFeasTol(1e-8))
	assert.Equal(t, []string{"SetFeasTol"}, lpi.callNames())
	assert.False(t, lp.IsSolved())
	assert.Equal(t, SolStatNotSolved, lp.SolStat())

	err := lp.SetFeasTol(-1.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestSetObjLimitForwardsToSolver(t *testing.T) {
	lp, lpi := newTestLP(t)

	require.NoError(t, lp.SetObjLimit(42.0))
	require.Equal(t, []string{"SetObjLimit"}, lpi.callNames())
	assert.Equal(t, 42.0, lpi.calls[0].args[0])
}
