package lprelax

// Columns of the LP and the variables they represent. A column stores its
// nonzero coefficients as parallel arrays of rows, values, and link
// positions; the link position mirrors where the same coefficient sits in
// the row's arrays so that either side can reach the other in constant
// time.

import (
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
)

// invalid marks a cached floating point value that must not be read before
// it is recomputed.
const invalid = 1e+99

// linkIndex is the position of a coefficient inside the opposite vector of
// the dual representation, or unlinked if the coefficient has not been
// mirrored to the other side yet.
type linkIndex int

// unlinked tags a coefficient that exists in only one of the two vectors.
const unlinked linkIndex = -1

func (l linkIndex) isLinked() bool {
	return l != unlinked
}

// boundType distinguishes the two bounds of a variable domain.
type boundType int

const (
	boundLower boundType = iota // lower bound of a variable
	boundUpper                  // upper bound of a variable
)

// counters handing out creation indices for columns and rows; the indices
// define the canonical ordering of sparse vectors
var (
	colIdxCount int64
	rowIdxCount int64
)

// Var is a problem variable: an objective coefficient and a domain. The
// domain bounds are only changed through ChgLb and ChgUb, which keep the
// attached column and all row activities synchronized.
type Var struct {
	name string  // name of the variable
	obj  float64 // objective function coefficient
	lb   float64 // lower bound of the domain
	ub   float64 // upper bound of the domain
	col  *Col    // column representing this variable in the LP, or nil
}

// NewVar creates a variable with the given objective coefficient and
// domain bounds.
func NewVar(name string, obj, lb, ub float64) *Var {
	return &Var{name: name, obj: obj, lb: lb, ub: ub}
}

// Name returns the name of the variable.
func (v *Var) Name() string { return v.name }

// Obj returns the objective function coefficient of the variable.
func (v *Var) Obj() float64 { return v.obj }

// Lb returns the current lower bound of the variable.
func (v *Var) Lb() float64 { return v.lb }

// Ub returns the current upper bound of the variable.
func (v *Var) Ub() float64 { return v.ub }

// Col returns the column attached to the variable, or nil if the variable
// has not entered the LP yet.
func (v *Var) Col() *Col { return v.col }

// pseudoSol returns the best bound of the variable with respect to the
// objective function, which is the value the variable takes in the pseudo
// solution.
func (v *Var) pseudoSol() float64 {
	if v.obj >= 0.0 {
		return v.lb
	}
	return v.ub
}

// ChgLb changes the lower bound of the variable and announces the change
// to the LP, updating cached row activities along the way.
// In case of failure, it returns an error.
func (v *Var) ChgLb(lp *LP, newlb float64) error {
	if lp.set.IsEQ(v.lb, newlb) {
		return nil
	}

	log.Debugf("changing lower bound of <%s> from %g to %g", v.name, v.lb, newlb)

	oldlb := v.lb
	v.lb = newlb
	if v.col != nil {
		return v.col.boundChanged(lp, boundLower, oldlb, newlb)
	}

	return nil
}

// ChgUb changes the upper bound of the variable and announces the change
// to the LP, updating cached row activities along the way.
// In case of failure, it returns an error.
func (v *Var) ChgUb(lp *LP, newub float64) error {
	if lp.set.IsEQ(v.ub, newub) {
		return nil
	}

	log.Debugf("changing upper bound of <%s> from %g to %g", v.name, v.ub, newub)

	oldub := v.ub
	v.ub = newub
	if v.col != nil {
		return v.col.boundChanged(lp, boundUpper, oldub, newub)
	}

	return nil
}

// Col is an LP column: the sparse constraint matrix column of one
// variable, together with its position bookkeeping and the solution values
// cached from the last solve.
type Col struct {
	v       *Var        // variable this column represents
	index   int         // unique creation index, defines the column ordering
	rows    []*Row      // rows of the nonzero entries
	vals    []float64   // coefficient values of the nonzero entries
	linkpos []linkIndex // position of each entry in the row's vector

	nunlinked int // number of entries not yet mirrored in the rows

	lppos  int // position in the actual LP, or -1
	lpipos int // position in the resident LP, or -1

	primsol        float64 // primal solution value from the last solve
	redcost        float64 // reduced cost from the last solve
	farkas         float64 // farkas value from the last infeasible solve
	validredcostlp int     // solve count stamp of the cached reduced cost
	validfarkaslp  int     // solve count stamp of the cached farkas value

	sorted      bool // entries are ordered by row index
	lbchanged   bool // lower bound change not yet flushed
	ubchanged   bool // upper bound change not yet flushed
	coefchanged bool // coefficient change not yet flushed
}

// NewCol creates an LP column for the given variable and attaches it. The
// rows and vals arrays describe the initial nonzero entries; they are
// copied, and every entry starts out unlinked.
// In case of failure, it returns an error.
func NewCol(set *Settings, v *Var, rows []*Row, vals []float64) (*Col, error) {
	if v == nil {
		return nil, errors.Wrap(ErrInvalidData, "cannot create a column without a variable")
	}
	if v.col != nil {
		return nil, errors.Wrapf(ErrInvalidData, "variable <%s> already has a column", v.name)
	}
	if len(rows) != len(vals) {
		return nil, errors.Wrapf(ErrInvalidData, "column <%s> has %d rows but %d values", v.name, len(rows), len(vals))
	}

	col := &Col{
		v:              v,
		index:          int(atomic.AddInt64(&colIdxCount, 1) - 1),
		nunlinked:      len(rows),
		lppos:          -1,
		lpipos:         -1,
		primsol:        0.0,
		redcost:        invalid,
		farkas:         invalid,
		validredcostlp: -1,
		validfarkaslp:  -1,
		sorted:         true,
	}

	if len(rows) > 0 {
		col.rows = make([]*Row, len(rows))
		col.vals = make([]float64, len(vals))
		col.linkpos = make([]linkIndex, len(rows))
		copy(col.rows, rows)
		copy(col.vals, vals)
		for i := range col.linkpos {
			col.linkpos[i] = unlinked
		}
	}

	for i := 0; i < len(col.rows); i++ {
		if set.IsZero(col.vals[i]) {
			return nil, errors.Wrapf(ErrInvalidData, "zero coefficient for row <%s> in column <%s>", col.rows[i].name, v.name)
		}
		col.sorted = col.sorted && (i == 0 || col.rows[i-1].index < col.rows[i].index)
	}

	v.col = col
	return col, nil
}

// Free detaches the column from its variable and removes its entries from
// all rows. The column must not be a member of the LP.
// In case of failure, it returns an error.
func (col *Col) Free(lp *LP) error {
	if col.lppos != -1 {
		return errors.Wrapf(ErrInvalidData, "cannot free column <%s> while it is in the LP", col.v.name)
	}

	if err := col.unlink(lp); err != nil {
		return err
	}

	col.v.col = nil
	col.rows = nil
	col.vals = nil
	col.linkpos = nil
	return nil
}

// Var returns the variable this column represents.
func (col *Col) Var() *Var { return col.v }

// Index returns the unique creation index of the column.
func (col *Col) Index() int { return col.index }

// LPPos returns the position of the column in the actual LP, or -1 if it
// is not a member.
func (col *Col) LPPos() int { return col.lppos }

// IsInLP checks if the column is a member of the actual LP.
func (col *Col) IsInLP() bool { return col.lppos >= 0 }

// NNonz returns the number of nonzero entries in the column vector.
func (col *Col) NNonz() int { return len(col.rows) }

// Rows returns the rows of the nonzero entries. The slice is owned by the
// column and must not be modified.
func (col *Col) Rows() []*Row { return col.rows }

// Vals returns the coefficients of the nonzero entries. The slice is owned
// by the column and must not be modified.
func (col *Col) Vals() []float64 { return col.vals }

// colEntrySorter orders the parallel entry arrays of a column by row index.
type colEntrySorter struct{ col *Col }

func (s colEntrySorter) Len() int { return len(s.col.rows) }

func (s colEntrySorter) Less(i, j int) bool {
	return s.col.rows[i].index < s.col.rows[j].index
}

func (s colEntrySorter) Swap(i, j int) {
	c := s.col
	c.rows[i], c.rows[j] = c.rows[j], c.rows[i]
	c.vals[i], c.vals[j] = c.vals[j], c.vals[i]
	c.linkpos[i], c.linkpos[j] = c.linkpos[j], c.linkpos[i]
}

// Sort orders the column entries by row index and repairs the link
// positions stored on the row side.
func (col *Col) Sort() {
	if col.sorted {
		return
	}

	sort.Sort(colEntrySorter{col})

	for i := range col.rows {
		if col.linkpos[i].isLinked() {
			col.rows[i].linkpos[int(col.linkpos[i])] = linkIndex(i)
		}
	}

	col.sorted = true
}

// searchCoeff returns the position of the row in the column vector, or -1
// if the row has no coefficient in this column.
func (col *Col) searchCoeff(row *Row) int {
	col.Sort()

	searchidx := row.index
	minpos := 0
	maxpos := len(col.rows) - 1
	for minpos <= maxpos {
		pos := (minpos + maxpos) / 2
		actidx := col.rows[pos].index
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

// addCoeff appends a previously nonexisting coefficient to the column
// vector and returns its position.
// In case of failure, it returns an error.
func (col *Col) addCoeff(lp *LP, row *Row, val float64, linkpos linkIndex) (int, error) {
	if lp.set.IsZero(val) {
		return -1, errors.Wrapf(ErrInvalidData, "zero coefficient for row <%s> in column <%s>", row.name, col.v.name)
	}

	log.Debugf("adding coefficient %g * <%s> at position %d to column <%s>", val, row.name, len(col.rows), col.v.name)

	if len(col.rows) > 0 {
		col.sorted = col.sorted && (col.rows[len(col.rows)-1].index < row.index)
	}

	pos := len(col.rows)
	col.rows = append(grow(lp.set, col.rows, pos+1), row)
	col.vals = append(grow(lp.set, col.vals, pos+1), val)
	col.linkpos = append(grow(lp.set, col.linkpos, pos+1), linkpos)
	if linkpos == unlinked {
		col.nunlinked++
	}

	lp.coefChanged(row, col)

	return pos, nil
}

// delCoeffPos deletes the coefficient at the given position from the
// column vector, moving the last entry into the hole and repairing its
// link.
func (col *Col) delCoeffPos(lp *LP, pos int) {
	row := col.rows[pos]

	log.Debugf("deleting coefficient %g * <%s> at position %d from column <%s>", col.vals[pos], row.name, pos, col.v.name)

	if col.linkpos[pos] == unlinked {
		col.nunlinked--
	}

	last := len(col.rows) - 1
	if pos < last {
		col.rows[pos] = col.rows[last]
		col.vals[pos] = col.vals[last]
		col.linkpos[pos] = col.linkpos[last]

		if col.linkpos[pos].isLinked() {
			col.rows[pos].linkpos[int(col.linkpos[pos])] = linkIndex(pos)
		}

		col.sorted = false
	}
	col.rows = col.rows[:last]
	col.vals = col.vals[:last]
	col.linkpos = col.linkpos[:last]

	lp.coefChanged(row, col)
}

// chgCoeffPos changes the coefficient at the given position of the column
// vector; a value of zero deletes the entry.
func (col *Col) chgCoeffPos(lp *LP, pos int, val float64) {
	if lp.set.IsZero(val) {
		col.delCoeffPos(lp, pos)
	} else if !lp.set.IsEQ(col.vals[pos], val) {
		log.Debugf("changing coefficient %g * <%s> at position %d of column <%s> to %g", col.vals[pos], col.rows[pos].name, pos, col.v.name, val)
		col.vals[pos] = val
		lp.coefChanged(col.rows[pos], col)
	}
}

// link mirrors all unlinked column entries into the corresponding rows.
// In case of failure, it returns an error.
func (col *Col) link(lp *LP) error {
	if col.nunlinked == 0 {
		return nil
	}

	log.Debugf("linking column <%s>", col.v.name)
	for i := 0; i < len(col.rows); i++ {
		if col.linkpos[i] == unlinked {
			pos, err := col.rows[i].addCoeff(lp, col, col.vals[i], linkIndex(i))
			if err != nil {
				return err
			}
			col.linkpos[i] = linkIndex(pos)
			col.nunlinked--
		}
	}

	return nil
}

// unlink removes all linked column entries from the corresponding rows.
// In case of failure, it returns an error.
func (col *Col) unlink(lp *LP) error {
	if col.nunlinked == len(col.rows) {
		return nil
	}

	log.Debugf("unlinking column <%s>", col.v.name)
	for i := 0; i < len(col.rows); i++ {
		if col.linkpos[i].isLinked() {
			if err := col.rows[i].delCoeffPos(lp, int(col.linkpos[i])); err != nil {
				return err
			}
			col.linkpos[i] = unlinked
			col.nunlinked++
		}
	}

	return nil
}

// AddCoeff adds a previously nonexisting coefficient to the column.
// In case of failure, it returns an error.
func (col *Col) AddCoeff(lp *LP, row *Row, val float64) error {
	if col.searchCoeff(row) != -1 {
		return errors.Wrapf(ErrInvalidData, "coefficient for row <%s> already exists in column <%s>", row.name, col.v.name)
	}

	_, err := col.addCoeff(lp, row, val, unlinked)
	return err
}

// DelCoeff deletes the coefficient of the given row from the column, on
// both sides of the dual representation.
// In case of failure, it returns an error.
func (col *Col) DelCoeff(lp *LP, row *Row) error {
	pos := col.searchCoeff(row)
	if pos == -1 {
		return errors.Wrapf(ErrInvalidData, "coefficient for row <%s> does not exist in column <%s>", row.name, col.v.name)
	}

	// if the row knows of the column, remove the column from the row
	if col.linkpos[pos].isLinked() {
		if err := row.delCoeffPos(lp, int(col.linkpos[pos])); err != nil {
			return err
		}
	}

	col.delCoeffPos(lp, pos)
	return nil
}

// ChgCoeff changes or adds a coefficient of the given row in the column,
// keeping both sides of the dual representation consistent. A value of
// zero deletes the coefficient.
// In case of failure, it returns an error.
func (col *Col) ChgCoeff(lp *LP, row *Row, val float64) error {
	pos := col.searchCoeff(row)
	if pos == -1 {
		_, err := col.addCoeff(lp, row, val, unlinked)
		return err
	}

	// if the row knows of the column, change the coefficient in the row
	if col.linkpos[pos].isLinked() {
		if err := row.chgCoeffPos(lp, int(col.linkpos[pos]), val); err != nil {
			return err
		}
	}

	col.chgCoeffPos(lp, pos, val)
	return nil
}

// IncCoeff increases an existing or nonexisting coefficient of the given
// row in the column by incval.
// In case of failure, it returns an error.
func (col *Col) IncCoeff(lp *LP, row *Row, incval float64) error {
	if lp.set.IsZero(incval) {
		return nil
	}

	pos := col.searchCoeff(row)
	if pos == -1 {
		_, err := col.addCoeff(lp, row, incval, unlinked)
		return err
	}

	newval := col.vals[pos] + incval

	if col.linkpos[pos].isLinked() {
		if err := row.chgCoeffPos(lp, int(col.linkpos[pos]), newval); err != nil {
			return err
		}
	}

	col.chgCoeffPos(lp, pos, newval)
	return nil
}

// boundChanged records a bound change of the column's variable for the
// next flush and updates the cached activities of all linked rows.
// In case of failure, it returns an error.
func (col *Col) boundChanged(lp *LP, btype boundType, oldbound, newbound float64) error {
	if col.lpipos >= 0 {
		// insert column in the chgcols list (if not already there)
		if !col.lbchanged && !col.ubchanged {
			lp.chgcols = append(grow(lp.set, lp.chgcols, len(lp.chgcols)+1), col)
		}

		switch btype {
		case boundLower:
			col.lbchanged = true
		case boundUpper:
			col.ubchanged = true
		default:
			return errors.Wrapf(ErrInvalidData, "unknown bound type %d", btype)
		}

		lp.flushed = false
		lp.solved = false
		lp.primalfeasible = false
		lp.objval = invalid
		lp.solstat = SolStatNotSolved
	}

	// the pseudo solution moves only when the best bound changes
	bestbound := (col.v.obj >= 0.0 && btype == boundLower) ||
		(col.v.obj < 0.0 && btype == boundUpper)
	if bestbound {
		for r := 0; r < len(col.rows); r++ {
			if col.linkpos[r].isLinked() {
				col.rows[r].updatePseudoActivity(int(col.linkpos[r]), oldbound, newbound)
			}
		}
	}

	for r := 0; r < len(col.rows); r++ {
		if col.linkpos[r].isLinked() {
			if btype == boundLower {
				col.rows[r].updateActivityBoundsLb(lp.set, int(col.linkpos[r]), oldbound, newbound)
			} else {
				col.rows[r].updateActivityBoundsUb(lp.set, int(col.linkpos[r]), oldbound, newbound)
			}
		}
	}

	return nil
}

// Primsol returns the primal solution value of the column from the last
// solve, or zero if the column is not in the LP.
func (col *Col) Primsol() float64 {
	if col.lppos >= 0 {
		return col.primsol
	}
	return 0.0
}

// calcRedcost recomputes the reduced cost of the column from the dual
// solution values of its rows.
func (col *Col) calcRedcost() {
	col.redcost = col.v.obj
	for r := 0; r < len(col.rows); r++ {
		col.redcost -= col.vals[r] * col.rows[r].dualsol
	}
}

// Redcost returns the reduced cost of the column in the last solve,
// recalculating it from the row duals if the cached value is stale.
func (col *Col) Redcost(lp *LP) float64 {
	if col.validredcostlp < lp.nlps {
		col.calcRedcost()
	}
	col.validredcostlp = lp.nlps

	return col.redcost
}

// Feasibility returns the dual feasibility of the column in the last
// solve: negative values indicate a violated dual constraint.
func (col *Col) Feasibility(lp *LP) float64 {
	redcost := col.Redcost(lp)

	if col.v.lb < 0 {
		if redcost > 0 {
			return -redcost
		}
		return redcost
	}
	return redcost
}

// calcFarkas recomputes the farkas value of the column from the dual
// farkas multipliers of its rows.
func (col *Col) calcFarkas() {
	col.farkas = 0.0
	for r := 0; r < len(col.rows); r++ {
		col.farkas += col.vals[r] * col.rows[r].dualfarkas
	}
	if col.farkas > 0.0 {
		col.farkas *= col.v.ub
	} else {
		col.farkas *= col.v.lb
	}
}

// Farkas returns the farkas value of the column in the last solve, which
// must have been proven infeasible.
func (col *Col) Farkas(lp *LP) float64 {
	if col.validfarkaslp < lp.nlps {
		col.calcFarkas()
	}
	col.validfarkaslp = lp.nlps

	return col.farkas
}
