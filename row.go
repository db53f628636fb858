package lprelax

// Rows of the LP. A row mirrors the column layout: parallel arrays of
// columns, values, and link positions, plus cached norms, cached
// activities, a reference counter, and a locking protocol that protects
// rows referenced elsewhere from modification.

import (
	"math"
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
)

// sideType distinguishes the two sides of a row.
type sideType int

const (
	sideLeft  sideType = iota // left hand side of a row
	sideRight                 // right hand side of a row
)

// Row is an LP row: a sparse linear constraint lhs <= a*x + constant <= rhs
// with position bookkeeping, lazily maintained norms and activities, and
// the dual solution values cached from the last solve.
type Row struct {
	name     string  // name of the row
	constant float64 // constant shift of the row activity
	lhs      float64 // left hand side of the row
	rhs      float64 // right hand side of the row

	index   int         // unique creation index, defines the row ordering
	cols    []*Col      // columns of the nonzero entries
	vals    []float64   // coefficient values of the nonzero entries
	linkpos []linkIndex // position of each entry in the column's vector

	nunlinked int // number of entries not yet mirrored in the columns

	sqrnorm        float64 // squared euclidean norm of the coefficients
	maxval         float64 // maximal absolute coefficient value
	nummaxval      int     // multiplicity of the maximal value, 0 if stale
	minidx         int     // minimal column index of the entries
	maxidx         int     // maximal column index of the entries
	validminmaxidx bool    // min/max index values are up to date

	lppos  int // position in the actual LP, or -1
	lpipos int // position in the resident LP, or -1

	dualsol         float64 // dual solution value from the last solve
	activity        float64 // activity from the last solve
	dualfarkas      float64 // farkas multiplier from the last infeasible solve
	validactivitylp int     // solve count stamp of the cached activity

	pseudoactivity  float64 // activity in the pseudo solution
	validpsactivity bool    // pseudo activity is incrementally maintained

	minactivity      float64 // minimal activity over the variable domains
	maxactivity      float64 // maximal activity over the variable domains
	minactivityinf   int     // number of infinite contributions to minactivity, -1 if stale
	maxactivityinf   int     // number of infinite contributions to maxactivity, -1 if stale
	validactivitybds bool    // activity bounds are incrementally maintained

	nuses  int // reference counter
	nlocks int // write locks

	sorted     bool // entries are ordered by column index
	lhschanged bool // left hand side change not yet flushed
	rhschanged bool // right hand side change not yet flushed

	coefchanged bool // coefficient change not yet flushed
	local       bool // row is only valid in the local subtree
	modifiable  bool // row may change during processing, e.g. by column generation
}

// NewRow creates a row with the given entries and sides and captures it
// for the caller. The cols and vals arrays are copied; every entry starts
// out unlinked.
// In case of failure, it returns an error.
func NewRow(set *Settings, name string, cols []*Col, vals []float64, lhs, rhs float64, local, modifiable bool) (*Row, error) {
	if lhs > rhs {
		return nil, errors.Wrapf(ErrInvalidData, "row <%s> has left hand side %g above right hand side %g", name, lhs, rhs)
	}
	if len(cols) != len(vals) {
		return nil, errors.Wrapf(ErrInvalidData, "row <%s> has %d columns but %d values", name, len(cols), len(vals))
	}

	row := &Row{
		name:            name,
		lhs:             lhs,
		rhs:             rhs,
		index:           int(atomic.AddInt64(&rowIdxCount, 1) - 1),
		nunlinked:       len(cols),
		minidx:          math.MaxInt,
		maxidx:          math.MinInt,
		lppos:           -1,
		lpipos:          -1,
		activity:        invalid,
		pseudoactivity:  invalid,
		minactivity:     invalid,
		maxactivity:     invalid,
		minactivityinf:  -1,
		maxactivityinf:  -1,
		validactivitylp: -1,
		local:           local,
		modifiable:      modifiable,
	}

	if len(cols) > 0 {
		row.cols = make([]*Col, len(cols))
		row.vals = make([]float64, len(vals))
		row.linkpos = make([]linkIndex, len(cols))
		copy(row.cols, cols)
		copy(row.vals, vals)
		for i := range row.linkpos {
			row.linkpos[i] = unlinked
		}
	}

	for i := 0; i < len(row.cols); i++ {
		if set.IsZero(row.vals[i]) {
			return nil, errors.Wrapf(ErrInvalidData, "zero coefficient for column <%s> in row <%s>", row.cols[i].v.name, name)
		}
	}

	row.calcNorms(set)

	row.Capture()

	return row, nil
}

// free removes the row entries from all columns. The row must not be a
// member of the LP and must not be referenced anymore.
func (row *Row) free(lp *LP) error {
	if row.lppos != -1 {
		return errors.Wrapf(ErrInvalidData, "cannot free row <%s> while it is in the LP", row.name)
	}

	if err := row.unlink(lp); err != nil {
		return err
	}

	row.cols = nil
	row.vals = nil
	row.linkpos = nil
	return nil
}

// Capture increases the usage counter of the row.
func (row *Row) Capture() {
	log.Debugf("capture row <%s> with nuses=%d and nlocks=%d", row.name, row.nuses, row.nlocks)
	row.nuses++
}

// Release decreases the usage counter of the row and frees it when the
// last reference disappears.
// In case of failure, it returns an error.
func (row *Row) Release(lp *LP) error {
	if row.nuses < 1 {
		return errors.Wrapf(ErrInvalidData, "cannot release the unreferenced row <%s>", row.name)
	}

	log.Debugf("release row <%s> with nuses=%d and nlocks=%d", row.name, row.nuses, row.nlocks)
	row.nuses--
	if row.nuses == 0 {
		return row.free(lp)
	}

	return nil
}

// Lock write-protects an unmodifiable row against coefficient changes.
// In case of failure, it returns an error.
func (row *Row) Lock() error {
	log.Debugf("lock row <%s> with nuses=%d and nlocks=%d", row.name, row.nuses, row.nlocks)

	if row.modifiable {
		return errors.Wrapf(ErrInvalidData, "cannot lock the modifiable row <%s>", row.name)
	}

	row.nlocks++
	return nil
}

// Unlock removes one write lock from the row.
// In case of failure, it returns an error.
func (row *Row) Unlock() error {
	log.Debugf("unlock row <%s> with nuses=%d and nlocks=%d", row.name, row.nuses, row.nlocks)

	if row.modifiable {
		return errors.Wrapf(ErrInvalidData, "cannot unlock the modifiable row <%s>", row.name)
	}
	if row.nlocks == 0 {
		return errors.Wrapf(ErrInvalidData, "row <%s> has no sealed lock", row.name)
	}

	row.nlocks--
	return nil
}

// Name returns the name of the row.
func (row *Row) Name() string { return row.name }

// Index returns the unique creation index of the row.
func (row *Row) Index() int { return row.index }

// Constant returns the constant shift of the row.
func (row *Row) Constant() float64 { return row.constant }

// Lhs returns the left hand side of the row.
func (row *Row) Lhs() float64 { return row.lhs }

// Rhs returns the right hand side of the row.
func (row *Row) Rhs() float64 { return row.rhs }

// IsLocal checks if the row is only valid in the local subtree.
func (row *Row) IsLocal() bool { return row.local }

// IsModifiable checks if the row may change during processing.
func (row *Row) IsModifiable() bool { return row.modifiable }

// LPPos returns the position of the row in the actual LP, or -1 if it is
// not a member.
func (row *Row) LPPos() int { return row.lppos }

// IsInLP checks if the row is a member of the actual LP.
func (row *Row) IsInLP() bool { return row.lppos >= 0 }

// NNonz returns the number of nonzero entries in the row vector.
func (row *Row) NNonz() int { return len(row.cols) }

// Cols returns the columns of the nonzero entries. The slice is owned by
// the row and must not be modified.
func (row *Row) Cols() []*Col { return row.cols }

// Vals returns the coefficients of the nonzero entries. The slice is
// owned by the row and must not be modified.
func (row *Row) Vals() []float64 { return row.vals }

// NUses returns the usage counter of the row.
func (row *Row) NUses() int { return row.nuses }

// NLocks returns the number of write locks on the row.
func (row *Row) NLocks() int { return row.nlocks }

// Dualsol returns the dual solution value of the row from the last solve.
func (row *Row) Dualsol() float64 { return row.dualsol }

// DualFarkas returns the farkas multiplier of the row from the last
// infeasible solve.
func (row *Row) DualFarkas() float64 { return row.dualfarkas }

// Norm returns the euclidean norm of the row coefficient vector.
func (row *Row) Norm() float64 { return math.Sqrt(row.sqrnorm) }

// MaxVal returns the maximal absolute value of the row coefficients,
// recalculating the norms if the cached multiplicity dropped to zero.
func (row *Row) MaxVal(set *Settings) float64 {
	if row.nummaxval == 0 {
		row.calcNorms(set)
	}
	return row.maxval
}

// MinIdx returns the minimal column index among the row entries.
func (row *Row) MinIdx(set *Settings) int {
	if !row.validminmaxidx {
		row.calcNorms(set)
	}
	return row.minidx
}

// MaxIdx returns the maximal column index among the row entries.
func (row *Row) MaxIdx(set *Settings) int {
	if !row.validminmaxidx {
		row.calcNorms(set)
	}
	return row.maxidx
}

// addNorms updates the cached norms after the addition of a coefficient.
// A colidx of -1 leaves the index range untouched, which is used when a
// coefficient merely changes its value.
func (row *Row) addNorms(set *Settings, colidx int, val float64) {
	absval := math.Abs(val)

	if colidx != -1 {
		row.minidx = min(row.minidx, colidx)
		row.maxidx = max(row.maxidx, colidx)
	}

	row.sqrnorm += absval * absval

	if row.nummaxval > 0 {
		if set.IsGT(absval, row.maxval) {
			row.maxval = absval
			row.nummaxval = 1
		} else if set.IsGE(absval, row.maxval) {
			row.nummaxval++
		}
	}
}

// delNorms updates the cached norms after the deletion of a coefficient.
// Removing the last copy of the maximal value leaves the maximum stale
// until the next recalculation.
func (row *Row) delNorms(set *Settings, colidx int, val float64) {
	absval := math.Abs(val)

	if colidx != -1 && (colidx == row.minidx || colidx == row.maxidx) {
		row.validminmaxidx = false
	}

	row.sqrnorm -= absval * absval
	row.sqrnorm = math.Max(row.sqrnorm, 0.0)

	if row.nummaxval > 0 && set.IsGE(absval, row.maxval) {
		row.nummaxval--
	}
}

// calcNorms recomputes the norms and the index range from scratch, and
// rechecks the sort order of the entries.
func (row *Row) calcNorms(set *Settings) {
	row.sqrnorm = 0.0
	row.maxval = 0.0
	row.nummaxval = 1
	row.minidx = math.MaxInt
	row.maxidx = math.MinInt
	row.validminmaxidx = true
	row.sorted = true

	for i := 0; i < len(row.cols); i++ {
		idx := row.cols[i].index
		row.addNorms(set, idx, row.vals[i])
		row.sorted = row.sorted && (i == 0 || row.cols[i-1].index < idx)
	}
}

// rowEntrySorter orders the parallel entry arrays of a row by column index.
type rowEntrySorter struct{ row *Row }

func (s rowEntrySorter) Len() int { return len(s.row.cols) }

func (s rowEntrySorter) Less(i, j int) bool {
	return s.row.cols[i].index < s.row.cols[j].index
}

func (s rowEntrySorter) Swap(i, j int) {
	r := s.row
	r.cols[i], r.cols[j] = r.cols[j], r.cols[i]
	r.vals[i], r.vals[j] = r.vals[j], r.vals[i]
	r.linkpos[i], r.linkpos[j] = r.linkpos[j], r.linkpos[i]
}

// Sort orders the row entries by column index and repairs the link
// positions stored on the column side.
func (row *Row) Sort() {
	if row.sorted {
		return
	}

	sort.Sort(rowEntrySorter{row})

	for i := range row.cols {
		if row.linkpos[i].isLinked() {
			row.cols[i].linkpos[int(row.linkpos[i])] = linkIndex(i)
		}
	}

	row.sorted = true
}

// searchCoeff returns the position of the column in the row vector, or -1
// if the column has no coefficient in this row.
func (row *Row) searchCoeff(col *Col) int {
	row.Sort()

	searchidx := col.index
	minpos := 0
	maxpos := len(row.cols) - 1
	for minpos <= maxpos {
		pos := (minpos + maxpos) / 2
		actidx := row.cols[pos].index
		switch {
		case searchidx == actidx:
			return pos
		case searchidx < actidx:
			maxpos = pos - 1
		default:
			minpos = pos + 1
		}
	}

	return -1
}

// addCoeff appends a previously nonexisting coefficient to the row vector
// and returns its position.
// In case of failure, it returns an error.
func (row *Row) addCoeff(lp *LP, col *Col, val float64, linkpos linkIndex) (int, error) {
	if row.nlocks > 0 {
		return -1, errors.Wrapf(ErrInvalidData, "cannot add a coefficient to the locked unmodifiable row <%s>", row.name)
	}
	if lp.set.IsZero(val) {
		return -1, errors.Wrapf(ErrInvalidData, "zero coefficient for column <%s> in row <%s>", col.v.name, row.name)
	}

	log.Debugf("adding coefficient %g * <%s> at position %d to row <%s>", val, col.v.name, len(row.cols), row.name)

	if len(row.cols) > 0 {
		row.sorted = row.sorted && (row.cols[len(row.cols)-1].index < col.index)
	}

	pos := len(row.cols)
	row.cols = append(grow(lp.set, row.cols, pos+1), col)
	row.vals = append(grow(lp.set, row.vals, pos+1), val)
	row.linkpos = append(grow(lp.set, row.linkpos, pos+1), linkpos)
	if linkpos == unlinked {
		row.nunlinked++
	}

	row.invalidPseudoActivity()
	row.InvalidActivityBounds()

	row.addNorms(lp.set, col.index, val)

	lp.coefChanged(row, col)

	return pos, nil
}

// delCoeffPos deletes the coefficient at the given position from the row
// vector, moving the last entry into the hole and repairing its link.
// In case of failure, it returns an error.
func (row *Row) delCoeffPos(lp *LP, pos int) error {
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot delete a coefficient from the locked unmodifiable row <%s>", row.name)
	}

	col := row.cols[pos]
	val := row.vals[pos]

	log.Debugf("deleting coefficient %g * <%s> at position %d from row <%s>", val, col.v.name, pos, row.name)

	if row.linkpos[pos] == unlinked {
		row.nunlinked--
	}

	last := len(row.cols) - 1
	if pos < last {
		row.cols[pos] = row.cols[last]
		row.vals[pos] = row.vals[last]
		row.linkpos[pos] = row.linkpos[last]

		if row.linkpos[pos].isLinked() {
			row.cols[pos].linkpos[int(row.linkpos[pos])] = linkIndex(pos)
		}

		row.sorted = false
	}
	row.cols = row.cols[:last]
	row.vals = row.vals[:last]
	row.linkpos = row.linkpos[:last]

	row.invalidPseudoActivity()
	row.InvalidActivityBounds()

	row.delNorms(lp.set, col.index, val)

	lp.coefChanged(row, col)

	return nil
}

// chgCoeffPos changes the coefficient at the given position of the row
// vector; a value of zero deletes the entry.
// In case of failure, it returns an error.
func (row *Row) chgCoeffPos(lp *LP, pos int, val float64) error {
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot change a coefficient of the locked unmodifiable row <%s>", row.name)
	}

	if lp.set.IsZero(val) {
		return row.delCoeffPos(lp, pos)
	}

	if !lp.set.IsEQ(row.vals[pos], val) {
		log.Debugf("changing coefficient %g * <%s> at position %d of row <%s> to %g", row.vals[pos], row.cols[pos].v.name, pos, row.name, val)
		row.delNorms(lp.set, -1, row.vals[pos])
		row.vals[pos] = val
		row.addNorms(lp.set, -1, row.vals[pos])
		lp.coefChanged(row, row.cols[pos])

		row.invalidPseudoActivity()
		row.InvalidActivityBounds()
	}

	return nil
}

// link mirrors all unlinked row entries into the corresponding columns.
// In case of failure, it returns an error.
func (row *Row) link(lp *LP) error {
	if row.nunlinked == 0 {
		return nil
	}

	log.Debugf("linking row <%s>", row.name)
	for i := 0; i < len(row.cols); i++ {
		if row.linkpos[i] == unlinked {
			pos, err := row.cols[i].addCoeff(lp, row, row.vals[i], linkIndex(i))
			if err != nil {
				return err
			}
			row.linkpos[i] = linkIndex(pos)
			row.nunlinked--
		}
	}

	return nil
}

// unlink removes all linked row entries from the corresponding columns.
// In case of failure, it returns an error.
func (row *Row) unlink(lp *LP) error {
	if row.nunlinked == len(row.cols) {
		return nil
	}

	log.Debugf("unlinking row <%s>", row.name)
	for i := 0; i < len(row.cols); i++ {
		if row.linkpos[i].isLinked() {
			row.cols[i].delCoeffPos(lp, int(row.linkpos[i]))
			row.linkpos[i] = unlinked
			row.nunlinked++
		}
	}

	return nil
}

// AddCoeff adds a previously nonexisting coefficient to the row.
// In case of failure, it returns an error.
func (row *Row) AddCoeff(lp *LP, col *Col, val float64) error {
	if row.searchCoeff(col) != -1 {
		return errors.Wrapf(ErrInvalidData, "coefficient for column <%s> already exists in row <%s>", col.v.name, row.name)
	}

	_, err := row.addCoeff(lp, col, val, unlinked)
	return err
}

// DelCoeff deletes the coefficient of the given column from the row, on
// both sides of the dual representation.
// In case of failure, it returns an error.
func (row *Row) DelCoeff(lp *LP, col *Col) error {
	pos := row.searchCoeff(col)
	if pos == -1 {
		return errors.Wrapf(ErrInvalidData, "coefficient for column <%s> does not exist in row <%s>", col.v.name, row.name)
	}
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot delete a coefficient from the locked unmodifiable row <%s>", row.name)
	}

	// if the column knows of the row, remove the row from the column
	if row.linkpos[pos].isLinked() {
		col.delCoeffPos(lp, int(row.linkpos[pos]))
	}

	return row.delCoeffPos(lp, pos)
}

// ChgCoeff changes or adds a coefficient of the given column in the row,
// keeping both sides of the dual representation consistent. A value of
// zero deletes the coefficient.
// In case of failure, it returns an error.
func (row *Row) ChgCoeff(lp *LP, col *Col, val float64) error {
	pos := row.searchCoeff(col)
	if pos == -1 {
		_, err := row.addCoeff(lp, col, val, unlinked)
		return err
	}
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot change a coefficient of the locked unmodifiable row <%s>", row.name)
	}

	// if the column knows of the row, change the coefficient in the column
	if row.linkpos[pos].isLinked() {
		col.chgCoeffPos(lp, int(row.linkpos[pos]), val)
	}

	return row.chgCoeffPos(lp, pos, val)
}

// IncCoeff increases an existing or nonexisting coefficient of the given
// column in the row by incval.
// In case of failure, it returns an error.
func (row *Row) IncCoeff(lp *LP, col *Col, incval float64) error {
	if lp.set.IsZero(incval) {
		return nil
	}

	pos := row.searchCoeff(col)
	if pos == -1 {
		_, err := row.addCoeff(lp, col, incval, unlinked)
		return err
	}
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot change a coefficient of the locked unmodifiable row <%s>", row.name)
	}

	newval := row.vals[pos] + incval

	if row.linkpos[pos].isLinked() {
		col.chgCoeffPos(lp, int(row.linkpos[pos]), newval)
	}

	return row.chgCoeffPos(lp, pos, newval)
}

// sideChanged records a side change of the row for the next flush.
// In case of failure, it returns an error.
func (row *Row) sideChanged(lp *LP, stype sideType) error {
	if row.lpipos >= 0 {
		// insert row in the chgrows list (if not already there)
		if !row.lhschanged && !row.rhschanged {
			lp.chgrows = append(grow(lp.set, lp.chgrows, len(lp.chgrows)+1), row)
		}

		switch stype {
		case sideLeft:
			row.lhschanged = true
		case sideRight:
			row.rhschanged = true
		default:
			return errors.Wrapf(ErrInvalidData, "unknown row side type %d", stype)
		}

		lp.flushed = false
		lp.solved = false
		lp.primalfeasible = false
		lp.objval = invalid
		lp.solstat = SolStatNotSolved
	}

	return nil
}

// ChgLhs changes the left hand side of the row.
// In case of failure, it returns an error.
func (row *Row) ChgLhs(lp *LP, lhs float64) error {
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot change a side of the locked unmodifiable row <%s>", row.name)
	}
	if lp.set.IsEQ(row.lhs, lhs) {
		return nil
	}

	row.lhs = lhs
	return row.sideChanged(lp, sideLeft)
}

// ChgRhs changes the right hand side of the row.
// In case of failure, it returns an error.
func (row *Row) ChgRhs(lp *LP, rhs float64) error {
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot change a side of the locked unmodifiable row <%s>", row.name)
	}
	if lp.set.IsEQ(row.rhs, rhs) {
		return nil
	}

	row.rhs = rhs
	return row.sideChanged(lp, sideRight)
}

// AddConst adds a constant to the row activity, which acts like
// subtracting it from both sides. Cached activities are shifted along.
// In case of failure, it returns an error.
func (row *Row) AddConst(lp *LP, constant float64) error {
	if row.nlocks > 0 {
		return errors.Wrapf(ErrInvalidData, "cannot change a side of the locked unmodifiable row <%s>", row.name)
	}
	if lp.set.IsInfinity(math.Abs(constant)) {
		return errors.Wrapf(ErrInvalidData, "cannot add infinite constant to row <%s>", row.name)
	}
	if lp.set.IsZero(constant) {
		return nil
	}

	oldconstant := row.constant
	row.constant += constant

	row.updatePseudoActivityConstant(oldconstant, row.constant)
	row.updateActivityBoundsConstant(oldconstant, row.constant)

	if !lp.set.IsInfinity(-row.lhs) {
		if err := row.sideChanged(lp, sideLeft); err != nil {
			return err
		}
	}
	if !lp.set.IsInfinity(row.rhs) {
		if err := row.sideChanged(lp, sideRight); err != nil {
			return err
		}
	}

	return nil
}
