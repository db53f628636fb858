package lprelax

// The LP state manager. It keeps two images of the LP: the actual image
// (cols, rows) that the caller edits freely, and the resident image
// (lpicols, lpirows) that the solver currently holds. Edits only record
// what diverged; Flush reconciles the two images in a fixed order that
// turns arbitrary edit sequences into a delete-change-add batch on the
// solver.

import (
	"math"

	"github.com/pkg/errors"
)

// LP is the linear programming relaxation: the actual LP data, the
// bookkeeping of its divergence from the resident solver copy, and the
// status of the last solve.
type LP struct {
	set *Settings // numeric settings shared with all columns and rows
	lpi Solver    // attached solver

	lpicols []*Col // columns resident in the solver
	lpirows []*Row // rows resident in the solver

	lpifirstchgcol int // first resident column position that may diverge
	lpifirstchgrow int // first resident row position that may diverge

	cols []*Col // columns of the actual LP
	rows []*Row // rows of the actual LP

	chgcols []*Col // columns with unflushed bound changes
	chgrows []*Row // rows with unflushed side changes

	firstnewcol int // first column position after the last MarkSize
	firstnewrow int // first row position after the last MarkSize

	objval  float64 // objective value of the last solve
	solstat SolStat // status of the last solve

	nlps          int // number of solve calls, stamps cached solution values
	nprimallps    int // number of primal simplex calls
	nduallps      int // number of dual simplex calls
	nlpiterations int // total simplex iterations over all solve calls

	flushed        bool // resident image matches the actual image
	solved         bool // the resident LP is solved
	primalfeasible bool // last basis was primal feasible
	dualfeasible   bool // last basis was dual feasible
}

// NewLP creates an empty LP attached to the given solver. The empty LP
// counts as flushed and solved with objective value zero.
// In case of failure, it returns an error.
func NewLP(set *Settings, lpi Solver) (*LP, error) {
	lp := &LP{
		set:            set,
		lpi:            lpi,
		solstat:        SolStatOptimal,
		objval:         0.0,
		flushed:        true,
		solved:         true,
		primalfeasible: true,
		dualfeasible:   true,
	}

	if err := lpi.SetFeasTol(set.FeasTol); err != nil {
		return nil, errors.Wrap(err, "failed to set feasibility tolerance")
	}

	return lp, nil
}

// Settings returns the numeric settings of the LP.
func (lp *LP) Settings() *Settings { return lp.set }

// NCols returns the number of columns in the actual LP.
func (lp *LP) NCols() int { return len(lp.cols) }

// NRows returns the number of rows in the actual LP.
func (lp *LP) NRows() int { return len(lp.rows) }

// Cols returns the columns of the actual LP. The slice is owned by the LP
// and must not be modified.
func (lp *LP) Cols() []*Col { return lp.cols }

// Rows returns the rows of the actual LP. The slice is owned by the LP
// and must not be modified.
func (lp *LP) Rows() []*Row { return lp.rows }

// IsFlushed checks if the resident solver copy matches the actual LP.
func (lp *LP) IsFlushed() bool { return lp.flushed }

// IsSolved checks if the resident LP is solved.
func (lp *LP) IsSolved() bool { return lp.solved }

// IsPrimalFeasible checks if the basis of the last solve was primal
// feasible.
func (lp *LP) IsPrimalFeasible() bool { return lp.primalfeasible }

// IsDualFeasible checks if the basis of the last solve was dual feasible.
func (lp *LP) IsDualFeasible() bool { return lp.dualfeasible }

// NSolves returns the number of solve calls on this LP.
func (lp *LP) NSolves() int { return lp.nlps }

// NIterations returns the total number of simplex iterations over all
// solve calls.
func (lp *LP) NIterations() int { return lp.nlpiterations }

// coefChanged announces that a matrix coefficient changed. If both the
// row and the column are resident, the change is remembered on exactly
// one of them: readding one vector readds the crossing coefficient
// automatically, so recording both would delete more of the resident LP
// than necessary.
func (lp *LP) coefChanged(row *Row, col *Col) {
	if row.lpipos < 0 || col.lpipos < 0 {
		return
	}

	switch {
	case row.lpipos >= lp.lpifirstchgrow:
		row.coefchanged = true
	case col.lpipos >= lp.lpifirstchgcol:
		col.coefchanged = true
	case lp.lpifirstchgrow-row.lpipos <= lp.lpifirstchgcol-col.lpipos:
		row.coefchanged = true
		lp.lpifirstchgrow = row.lpipos
	default:
		col.coefchanged = true
		lp.lpifirstchgcol = col.lpipos
	}

	lp.flushed = false
	lp.solved = false
	lp.dualfeasible = false
	lp.primalfeasible = false
	lp.objval = invalid
	lp.solstat = SolStatNotSolved
}

// AddCol adds a column at the end of the actual LP.
// In case of failure, it returns an error.
func (lp *LP) AddCol(col *Col) error {
	if col.lppos != -1 {
		return errors.Wrapf(ErrInvalidData, "column <%s> is already in the LP", col.v.name)
	}

	log.Debugf("adding column <%s> to LP", col.v.name)
	col.lppos = len(lp.cols)
	lp.cols = append(grow(lp.set, lp.cols, len(lp.cols)+1), col)
	lp.flushed = false
	lp.solved = false
	lp.dualfeasible = false
	lp.objval = invalid
	lp.solstat = SolStatNotSolved

	return nil
}

// AddRow adds a row at the end of the actual LP and captures it.
// In case of failure, it returns an error.
func (lp *LP) AddRow(row *Row) error {
	if row.lppos != -1 {
		return errors.Wrapf(ErrInvalidData, "row <%s> is already in the LP", row.name)
	}

	row.Capture()

	log.Debugf("adding row <%s> to LP", row.name)
	row.lppos = len(lp.rows)
	lp.rows = append(grow(lp.set, lp.rows, len(lp.rows)+1), row)
	lp.flushed = false
	lp.solved = false
	lp.primalfeasible = false
	lp.objval = invalid
	lp.solstat = SolStatNotSolved

	return nil
}

// ShrinkCols removes all columns after the given number of columns from
// the actual LP.
// In case of failure, it returns an error.
func (lp *LP) ShrinkCols(newncols int) error {
	if newncols < 0 || newncols > len(lp.cols) {
		return errors.Wrapf(ErrInvalidData, "cannot shrink LP with %d columns to %d columns", len(lp.cols), newncols)
	}

	log.Debugf("shrinking LP from %d to %d columns", len(lp.cols), newncols)
	if newncols == len(lp.cols) {
		return nil
	}

	for c := newncols; c < len(lp.cols); c++ {
		lp.cols[c].lppos = -1
	}
	lp.cols = lp.cols[:newncols]
	lp.lpifirstchgcol = min(lp.lpifirstchgcol, newncols)
	lp.flushed = false
	lp.solved = false
	lp.primalfeasible = false
	lp.objval = invalid
	lp.solstat = SolStatNotSolved

	return nil
}

// ShrinkRows removes all rows after the given number of rows from the
// actual LP and releases them.
// In case of failure, it returns an error.
func (lp *LP) ShrinkRows(newnrows int) error {
	if newnrows < 0 || newnrows > len(lp.rows) {
		return errors.Wrapf(ErrInvalidData, "cannot shrink LP with %d rows to %d rows", len(lp.rows), newnrows)
	}

	log.Debugf("shrinking LP from %d to %d rows", len(lp.rows), newnrows)
	if newnrows == len(lp.rows) {
		return nil
	}

	for r := newnrows; r < len(lp.rows); r++ {
		row := lp.rows[r]
		row.lppos = -1
		lp.rows[r] = nil
		if err := row.Release(lp); err != nil {
			return err
		}
	}
	lp.rows = lp.rows[:newnrows]
	lp.lpifirstchgrow = min(lp.lpifirstchgrow, newnrows)
	lp.flushed = false
	lp.solved = false
	lp.dualfeasible = false
	lp.objval = invalid
	lp.solstat = SolStatNotSolved

	return nil
}

// Clear removes all columns and rows from the actual LP, releasing the
// rows.
// In case of failure, it returns an error.
func (lp *LP) Clear() error {
	log.Debugf("clearing LP")
	if err := lp.ShrinkCols(0); err != nil {
		return err
	}
	return lp.ShrinkRows(0)
}

// MarkSize remembers the current LP size, so that columns and rows added
// afterwards can be queried with NewCols and NewRows. Separators and
// pricers use this to find their own additions after a round.
func (lp *LP) MarkSize() {
	lp.firstnewcol = len(lp.cols)
	lp.firstnewrow = len(lp.rows)
}

// NewCols returns the columns added since the last MarkSize.
func (lp *LP) NewCols() []*Col {
	return lp.cols[min(lp.firstnewcol, len(lp.cols)):]
}

// NewRows returns the rows added since the last MarkSize.
func (lp *LP) NewRows() []*Row {
	return lp.rows[min(lp.firstnewrow, len(lp.rows)):]
}

// lpiInfUpper converts an upper-type value (upper bound, right hand side)
// to the solver's infinity representation.
func (lp *LP) lpiInfUpper(val float64) float64 {
	if lp.set.IsInfinity(val) {
		return lp.lpi.Infinity()
	}
	return val
}

// lpiInfLower converts a lower-type value (lower bound, left hand side)
// to the solver's infinity representation.
func (lp *LP) lpiInfLower(val float64) float64 {
	if lp.set.IsInfinity(-val) {
		return -lp.lpi.Infinity()
	}
	return val
}

// flushDelCols applies all cached column removals to the solver. The
// resident prefix that provably did not change is kept; everything after
// it is deleted and readded later.
// In case of failure, it returns an error.
func (lp *LP) flushDelCols() error {
	// find the first column to change
	for lp.lpifirstchgcol < len(lp.lpicols) &&
		lp.lpifirstchgcol < len(lp.cols) &&
		lp.cols[lp.lpifirstchgcol].lpipos == lp.lpifirstchgcol &&
		!lp.cols[lp.lpifirstchgcol].coefchanged {
		lp.lpifirstchgcol++
	}

	// shrink the resident LP to the part which did not change
	if lp.lpifirstchgcol < len(lp.lpicols) {
		log.Debugf("flushing column deletions: shrink LP from %d to %d columns", len(lp.lpicols), lp.lpifirstchgcol)
		if err := lp.lpi.DelCols(lp.lpifirstchgcol, len(lp.lpicols)-1); err != nil {
			return errors.Wrap(err, "failed to delete columns")
		}
		for i := lp.lpifirstchgcol; i < len(lp.lpicols); i++ {
			col := lp.lpicols[i]
			col.lpipos = -1
			col.primsol = 0.0
			col.redcost = invalid
			col.farkas = invalid
			col.validredcostlp = -1
			col.validfarkaslp = -1
		}
		lp.lpicols = lp.lpicols[:lp.lpifirstchgcol]
	}

	return nil
}

// flushDelRows applies all cached row removals to the solver.
// In case of failure, it returns an error.
func (lp *LP) flushDelRows() error {
	// find the first row to change
	for lp.lpifirstchgrow < len(lp.lpirows) &&
		lp.lpifirstchgrow < len(lp.rows) &&
		lp.rows[lp.lpifirstchgrow].lpipos == lp.lpifirstchgrow &&
		!lp.rows[lp.lpifirstchgrow].coefchanged {
		lp.lpifirstchgrow++
	}

	// shrink the resident LP to the part which did not change
	if lp.lpifirstchgrow < len(lp.lpirows) {
		log.Debugf("flushing row deletions: shrink LP from %d to %d rows", len(lp.lpirows), lp.lpifirstchgrow)
		if err := lp.lpi.DelRows(lp.lpifirstchgrow, len(lp.lpirows)-1); err != nil {
			return errors.Wrap(err, "failed to delete rows")
		}
		for i := lp.lpifirstchgrow; i < len(lp.lpirows); i++ {
			row := lp.lpirows[i]
			row.lpipos = -1
			row.dualsol = 0.0
			row.activity = invalid
			row.dualfarkas = 0.0
			row.validactivitylp = -1
		}
		lp.lpirows = lp.lpirows[:lp.lpifirstchgrow]
	}

	return nil
}

// flushChgCols applies all cached bound changes to the solver.
// In case of failure, it returns an error.
func (lp *LP) flushChgCols() error {
	if len(lp.chgcols) == 0 {
		return nil
	}

	ind := make([]int, 0, len(lp.chgcols))
	lb := make([]float64, 0, len(lp.chgcols))
	ub := make([]float64, 0, len(lp.chgcols))

	for _, col := range lp.chgcols {
		if col.lpipos >= 0 && (col.lbchanged || col.ubchanged) {
			ind = append(ind, col.lpipos)
			lb = append(lb, lp.lpiInfLower(col.v.lb))
			ub = append(ub, lp.lpiInfUpper(col.v.ub))
			col.lbchanged = false
			col.ubchanged = false
		}
	}

	if len(ind) > 0 {
		log.Debugf("flushing bound changes: change %d bounds of %d columns", len(ind), len(lp.chgcols))
		if err := lp.lpi.ChgBounds(ind, lb, ub); err != nil {
			return errors.Wrap(err, "failed to change bounds")
		}
	}

	lp.chgcols = lp.chgcols[:0]

	return nil
}

// flushChgRows applies all cached side changes to the solver.
// In case of failure, it returns an error.
func (lp *LP) flushChgRows() error {
	if len(lp.chgrows) == 0 {
		return nil
	}

	ind := make([]int, 0, len(lp.chgrows))
	lhs := make([]float64, 0, len(lp.chgrows))
	rhs := make([]float64, 0, len(lp.chgrows))

	for _, row := range lp.chgrows {
		if row.lpipos >= 0 && (row.lhschanged || row.rhschanged) {
			ind = append(ind, row.lpipos)
			if lp.set.IsInfinity(-row.lhs) {
				lhs = append(lhs, -lp.lpi.Infinity())
			} else {
				lhs = append(lhs, row.lhs+row.constant)
			}
			if lp.set.IsInfinity(row.rhs) {
				rhs = append(rhs, lp.lpi.Infinity())
			} else {
				rhs = append(rhs, row.rhs+row.constant)
			}
			row.lhschanged = false
			row.rhschanged = false
		}
	}

	if len(ind) > 0 {
		log.Debugf("flushing side changes: change %d sides of %d rows", len(ind), len(lp.chgrows))
		if err := lp.lpi.ChgSides(ind, lhs, rhs); err != nil {
			return errors.Wrap(err, "failed to change sides")
		}
	}

	lp.chgrows = lp.chgrows[:0]

	return nil
}

// flushAddCols applies all cached column additions to the solver. Added
// columns are linked into their rows first: once a column is resident,
// its variable can take nonzero values, so the row representation must
// know about it.
// In case of failure, it returns an error.
func (lp *LP) flushAddCols() error {
	if len(lp.cols) == len(lp.lpicols) {
		return nil
	}

	naddcols := len(lp.cols) - len(lp.lpicols)
	naddcoefs := 0
	for c := len(lp.lpicols); c < len(lp.cols); c++ {
		naddcoefs += len(lp.cols[c].rows)
	}

	obj := make([]float64, 0, naddcols)
	lb := make([]float64, 0, naddcols)
	ub := make([]float64, 0, naddcols)
	names := make([]string, 0, naddcols)
	beg := make([]int, 0, naddcols)
	ind := make([]int, 0, naddcoefs)
	val := make([]float64, 0, naddcoefs)

	for c := len(lp.lpicols); c < len(lp.cols); c++ {
		col := lp.cols[c]

		log.Debugf("flushing added column <%s>", col.v.name)

		if err := col.link(lp); err != nil {
			return err
		}

		col.lpipos = c
		col.primsol = invalid
		col.redcost = invalid
		col.farkas = invalid
		col.validredcostlp = -1
		col.validfarkaslp = -1
		col.lbchanged = false
		col.ubchanged = false
		col.coefchanged = false

		obj = append(obj, col.v.obj)
		lb = append(lb, lp.lpiInfLower(col.v.lb))
		ub = append(ub, lp.lpiInfUpper(col.v.ub))
		names = append(names, col.v.name)
		beg = append(beg, len(ind))

		for i := 0; i < len(col.rows); i++ {
			if lpipos := col.rows[i].lpipos; lpipos >= 0 {
				ind = append(ind, lpipos)
				val = append(val, col.vals[i])
			}
		}

		lp.lpicols = append(grow(lp.set, lp.lpicols, len(lp.lpicols)+1), col)
	}

	log.Debugf("flushing column additions: enlarge LP from %d to %d columns", len(lp.lpicols)-naddcols, len(lp.cols))
	if err := lp.lpi.AddCols(obj, lb, ub, names, beg, ind, val); err != nil {
		return errors.Wrap(err, "failed to add columns")
	}
	lp.lpifirstchgcol = len(lp.lpicols)

	return nil
}

// flushAddRows applies all cached row additions to the solver, linking
// the added rows into their columns first.
// In case of failure, it returns an error.
func (lp *LP) flushAddRows() error {
	if len(lp.rows) == len(lp.lpirows) {
		return nil
	}

	naddrows := len(lp.rows) - len(lp.lpirows)
	naddcoefs := 0
	for r := len(lp.lpirows); r < len(lp.rows); r++ {
		naddcoefs += len(lp.rows[r].cols)
	}

	lhs := make([]float64, 0, naddrows)
	rhs := make([]float64, 0, naddrows)
	names := make([]string, 0, naddrows)
	beg := make([]int, 0, naddrows)
	ind := make([]int, 0, naddcoefs)
	val := make([]float64, 0, naddcoefs)

	for r := len(lp.lpirows); r < len(lp.rows); r++ {
		row := lp.rows[r]

		log.Debugf("flushing added row <%s>", row.name)

		if err := row.link(lp); err != nil {
			return err
		}

		row.lpipos = r
		row.dualsol = invalid
		row.activity = invalid
		row.dualfarkas = invalid
		row.validactivitylp = -1
		row.lhschanged = false
		row.rhschanged = false
		row.coefchanged = false

		if lp.set.IsInfinity(-row.lhs) {
			lhs = append(lhs, -lp.lpi.Infinity())
		} else {
			lhs = append(lhs, row.lhs+row.constant)
		}
		if lp.set.IsInfinity(row.rhs) {
			rhs = append(rhs, lp.lpi.Infinity())
		} else {
			rhs = append(rhs, row.rhs+row.constant)
		}
		names = append(names, row.name)
		beg = append(beg, len(ind))

		for i := 0; i < len(row.cols); i++ {
			if lpipos := row.cols[i].lpipos; lpipos >= 0 {
				ind = append(ind, lpipos)
				val = append(val, row.vals[i])
			}
		}

		lp.lpirows = append(grow(lp.set, lp.lpirows, len(lp.lpirows)+1), row)
	}

	log.Debugf("flushing row additions: enlarge LP from %d to %d rows", len(lp.lpirows)-naddrows, len(lp.rows))
	if err := lp.lpi.AddRows(lhs, rhs, names, beg, ind, val); err != nil {
		return errors.Wrap(err, "failed to add rows")
	}
	lp.lpifirstchgrow = len(lp.lpirows)

	return nil
}

// Flush applies all cached changes to the solver: deletions first, then
// bound and side changes on the surviving prefix, then additions. After
// a flush the resident image matches the actual image and the solver can
// warm start from its previous basis.
// In case of failure, it returns an error.
func (lp *LP) Flush() error {
	log.Debugf("flushing LP changes: resident (%d cols, %d rows), firstchgcol=%d, firstchgrow=%d, actual (%d cols, %d rows)",
		len(lp.lpicols), len(lp.lpirows), lp.lpifirstchgcol, lp.lpifirstchgrow, len(lp.cols), len(lp.rows))

	if lp.flushed {
		return nil
	}

	if err := lp.flushDelCols(); err != nil {
		return err
	}
	if err := lp.flushDelRows(); err != nil {
		return err
	}
	if err := lp.flushChgCols(); err != nil {
		return err
	}
	if err := lp.flushChgRows(); err != nil {
		return err
	}
	if err := lp.flushAddCols(); err != nil {
		return err
	}
	if err := lp.flushAddRows(); err != nil {
		return err
	}

	lp.flushed = true

	return nil
}

// SolvePrimal flushes the LP and solves it with the primal simplex
// algorithm. An objective limit signal from the primal simplex has no
// meaningful interpretation and is treated as a solver error.
// In case of failure, it returns an error.
func (lp *LP) SolvePrimal() error {
	log.Debugf("solving primal LP %d (%d cols, %d rows)", lp.nlps+1, len(lp.cols), len(lp.rows))

	if err := lp.Flush(); err != nil {
		return err
	}

	if err := lp.lpi.SolvePrimal(); err != nil {
		return errors.Wrap(err, "primal simplex failed")
	}

	primalfeasible, dualfeasible, err := lp.lpi.BasisFeasibility()
	if err != nil {
		return errors.Wrap(err, "failed to get basis feasibility")
	}
	lp.primalfeasible = primalfeasible
	lp.dualfeasible = dualfeasible

	// a failed solve must leave the solved flag unset and the solve
	// statistics untouched
	switch lp.lpi.TermStat() {
	case TermOptimal:
		lp.solstat = SolStatOptimal
		lp.objval, err = lp.lpi.ObjVal()
		if err != nil {
			return errors.Wrap(err, "failed to get objective value")
		}
	case TermInfeasible:
		lp.solstat = SolStatInfeasible
		lp.objval = lp.set.Infinity
	case TermUnbounded:
		lp.solstat = SolStatUnbounded
		lp.objval = -lp.set.Infinity
	case TermIterLimit:
		lp.solstat = SolStatIterLimit
		lp.objval = -lp.set.Infinity
	case TermTimeLimit:
		lp.solstat = SolStatTimeLimit
		lp.objval = -lp.set.Infinity
	case TermObjLimit:
		lp.solstat = SolStatError
		lp.objval = -lp.set.Infinity
		return errors.Wrap(ErrSolver, "objective limit exceeded in primal simplex")
	default:
		lp.solstat = SolStatError
		return errors.Wrap(ErrSolver, "unknown termination status of primal simplex")
	}

	lp.solved = true
	lp.countSolve(true)

	log.Debugf("solving primal LP returned solstat=%v", lp.solstat)

	return nil
}

// SolveDual flushes the LP and solves it with the dual simplex
// algorithm. The dual simplex proves dual bounds early: an objective
// limit or infeasibility result terminates without a primal solution.
// In case of failure, it returns an error.
func (lp *LP) SolveDual() error {
	log.Debugf("solving dual LP %d (%d cols, %d rows)", lp.nlps+1, len(lp.cols), len(lp.rows))

	if err := lp.Flush(); err != nil {
		return err
	}

	if err := lp.lpi.SolveDual(); err != nil {
		return errors.Wrap(err, "dual simplex failed")
	}

	primalfeasible, dualfeasible, err := lp.lpi.BasisFeasibility()
	if err != nil {
		return errors.Wrap(err, "failed to get basis feasibility")
	}
	lp.primalfeasible = primalfeasible
	lp.dualfeasible = dualfeasible

	// a failed solve must leave the solved flag unset and the solve
	// statistics untouched
	switch lp.lpi.TermStat() {
	case TermOptimal:
		lp.solstat = SolStatOptimal
		lp.objval, err = lp.lpi.ObjVal()
		if err != nil {
			return errors.Wrap(err, "failed to get objective value")
		}
	case TermObjLimit:
		lp.solstat = SolStatObjLimit
		lp.objval = lp.set.Infinity
	case TermInfeasible:
		lp.solstat = SolStatInfeasible
		lp.objval = lp.set.Infinity
	case TermUnbounded:
		lp.solstat = SolStatUnbounded
		lp.objval = -lp.set.Infinity
	case TermIterLimit:
		lp.solstat = SolStatIterLimit
		lp.objval, err = lp.lpi.ObjVal()
		if err != nil {
			return errors.Wrap(err, "failed to get objective value")
		}
	case TermTimeLimit:
		lp.solstat = SolStatTimeLimit
		lp.objval, err = lp.lpi.ObjVal()
		if err != nil {
			return errors.Wrap(err, "failed to get objective value")
		}
	default:
		lp.solstat = SolStatError
		lp.objval = -lp.set.Infinity
		return errors.Wrap(ErrSolver, "unknown termination status of dual simplex")
	}

	lp.solved = true
	lp.countSolve(false)

	log.Debugf("solving dual LP returned solstat=%v", lp.solstat)

	return nil
}

// countSolve updates the solve statistics after a solver call.
func (lp *LP) countSolve(primal bool) {
	lp.nlps++
	if primal {
		lp.nprimallps++
	} else {
		lp.nduallps++
	}
	if iterations, err := lp.lpi.Iterations(); err == nil {
		lp.nlpiterations += iterations
	}
}

// SolStat returns the solution status of the last solve call.
func (lp *LP) SolStat() SolStat { return lp.solstat }

// ObjVal returns the objective value of the last solve. It is only
// meaningful while the LP is solved.
func (lp *LP) ObjVal() float64 { return lp.objval }

// Iterations returns the number of simplex iterations of the last solve
// call.
// In case of failure, it returns an error.
func (lp *LP) Iterations() (int, error) {
	return lp.lpi.Iterations()
}

// GetSol retrieves the solution of the last solve from the solver and
// stores it in the resident columns and rows.
// In case of failure, it returns an error.
func (lp *LP) GetSol() error {
	if !lp.flushed || !lp.solved {
		return errors.Wrap(ErrInvalidData, "cannot retrieve solution of an unsolved LP")
	}

	primsol := make([]float64, len(lp.lpicols))
	dualsol := make([]float64, len(lp.lpirows))
	activity := make([]float64, len(lp.lpirows))
	redcost := make([]float64, len(lp.lpicols))

	objval, err := lp.lpi.Sol(primsol, dualsol, activity, redcost)
	if err != nil {
		return errors.Wrap(err, "failed to get LP solution")
	}
	lp.objval = objval

	log.Debugf("LP solution: obj=%f", lp.objval)

	for c := 0; c < len(lp.lpicols); c++ {
		col := lp.lpicols[c]
		col.primsol = primsol[c]
		col.redcost = redcost[c]
		col.validredcostlp = lp.nlps
	}

	for r := 0; r < len(lp.lpirows); r++ {
		row := lp.lpirows[r]
		row.dualsol = dualsol[r]
		row.activity = activity[r] + row.constant
		row.validactivitylp = lp.nlps
	}

	return nil
}

// GetUnboundedSol retrieves a primal feasible point and an unbounded ray
// from the solver and stores the combined solution with infinite
// objective value in the resident columns and rows. The ray is scaled so
// that the resulting point lies beyond every finite objective value.
// In case of failure, it returns an error.
func (lp *LP) GetUnboundedSol() error {
	if !lp.flushed || !lp.solved || lp.solstat != SolStatUnbounded {
		return errors.Wrap(ErrInvalidData, "cannot retrieve unbounded solution: LP is not proven unbounded")
	}

	primsol := make([]float64, len(lp.lpicols))
	activity := make([]float64, len(lp.lpirows))
	ray := make([]float64, len(lp.lpicols))

	// get a primal feasible point
	objval, err := lp.lpi.Sol(primsol, nil, activity, nil)
	if err != nil {
		return errors.Wrap(err, "failed to get LP solution")
	}
	lp.objval = objval

	// get the primal unbounded ray
	if err := lp.lpi.PrimalRay(ray); err != nil {
		return errors.Wrap(err, "failed to get primal ray")
	}

	// calculate the objective value decrease of the ray
	rayobjval := 0.0
	for c := 0; c < len(lp.lpicols); c++ {
		rayobjval += ray[c] * lp.lpicols[c].v.obj
	}
	if !lp.set.IsNegative(rayobjval) {
		return errors.Wrapf(ErrSolver, "primal ray does not improve the objective (rayobjval=%g)", rayobjval)
	}

	// scale the ray such that the resulting point has infinite objective value
	rayscale := -2 * lp.set.Infinity / rayobjval

	log.Debugf("unbounded LP solution: baseobjval=%f, rayobjval=%f, rayscale=%f", lp.objval, rayobjval, rayscale)
	lp.objval = -lp.set.Infinity

	// calculate the unbounded point: x' = x + rayscale * ray
	for c := 0; c < len(lp.lpicols); c++ {
		col := lp.lpicols[c]
		col.primsol = primsol[c] + rayscale*ray[c]
		col.redcost = invalid
		col.validredcostlp = -1
	}

	for r := 0; r < len(lp.lpirows); r++ {
		row := lp.lpirows[r]
		row.dualsol = invalid
		row.activity = activity[r] + row.constant
		row.validactivitylp = lp.nlps
	}

	return nil
}

// GetDualFarkas retrieves the dual farkas multipliers proving the
// infeasibility of the LP and stores them in the resident rows.
// In case of failure, it returns an error.
func (lp *LP) GetDualFarkas() error {
	if !lp.flushed || !lp.solved || lp.solstat != SolStatInfeasible {
		return errors.Wrap(ErrInvalidData, "cannot retrieve farkas proof: LP is not proven infeasible")
	}

	dualfarkas := make([]float64, len(lp.lpirows))

	if err := lp.lpi.DualFarkas(dualfarkas); err != nil {
		return errors.Wrap(err, "failed to get dual farkas multipliers")
	}

	log.Debugf("LP is infeasible")
	for r := 0; r < len(lp.lpirows); r++ {
		lp.lpirows[r].dualfarkas = dualfarkas[r]
	}

	return nil
}

// State captures the solver state of the solved LP, such as the simplex
// basis, in an opaque object for a later warm start.
// In case of failure, it returns an error.
func (lp *LP) State() (any, error) {
	if !lp.flushed || !lp.solved {
		return nil, errors.Wrap(ErrInvalidData, "cannot capture solver state of an unsolved LP")
	}

	return lp.lpi.State()
}

// SetState flushes the LP and loads a previously captured solver state,
// claiming the associated basis to be primal and dual feasible.
// In case of failure, it returns an error.
func (lp *LP) SetState(state any) error {
	if err := lp.Flush(); err != nil {
		return err
	}

	if err := lp.lpi.SetState(state); err != nil {
		return errors.Wrap(err, "failed to load solver state")
	}
	lp.primalfeasible = true
	lp.dualfeasible = true

	return nil
}

// SetFeasTol changes the feasibility tolerance of the solver. A tighter
// tolerance invalidates the current solution.
// In case of failure, it returns an error.
func (lp *LP) SetFeasTol(feastol float64) error {
	if feastol < 0.0 || math.IsNaN(feastol) {
		return errors.Wrapf(ErrInvalidData, "invalid feasibility tolerance %g", feastol)
	}

	if err := lp.lpi.SetFeasTol(feastol); err != nil {
		return errors.Wrap(err, "failed to set feasibility tolerance")
	}
	if len(lp.rows) > 0 {
		lp.solved = false
		lp.solstat = SolStatNotSolved
		lp.primalfeasible = false
	}

	return nil
}

// SetObjLimit changes the upper objective limit of the solver. The dual
// simplex stops early once it proves that no solution below the limit
// exists.
// In case of failure, it returns an error.
func (lp *LP) SetObjLimit(objlim float64) error {
	log.Debugf("setting LP upper objective limit to %g", objlim)
	if err := lp.lpi.SetObjLimit(objlim); err != nil {
		return errors.Wrap(err, "failed to set objective limit")
	}

	return nil
}
