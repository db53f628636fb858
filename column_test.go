package lprelax

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColValidation(t *testing.T) {
	set := NewSettings()

	_, err := NewCol(set, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	v := NewVar("x", 1.0, 0.0, 1.0)
	col, err := NewCol(set, v, nil, nil)
	require.NoError(t, err)
	assert.Same(t, col, v.Col())
	assert.Same(t, v, col.Var())
	assert.Equal(t, -1, col.LPPos())
	assert.False(t, col.IsInLP())

	// a variable can carry only one column
	_, err = NewCol(set, v, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	// mismatched entry arrays
	w := NewVar("w", 1.0, 0.0, 1.0)
	row, err := NewRow(set, "r", nil, nil, 0.0, 1.0, false, false)
	require.NoError(t, err)
	_, err = NewCol(set, w, []*Row{row}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	// zero coefficients are rejected
	_, err = NewCol(set, w, []*Row{row}, []float64{0.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestColCoeffRoundTrip(t *testing.T) {
	lp, _ := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	r1 := addTestRow(t, lp, "r1", nil, nil, 0.0, 1.0)
	r2 := addTestRow(t, lp, "r2", nil, nil, 0.0, 1.0)

	require.NoError(t, x.AddCoeff(lp, r1, 2.0))
	require.NoError(t, x.AddCoeff(lp, r2, -3.0))
	assert.Equal(t, 2, x.NNonz())

	// duplicates are rejected
	err := x.AddCoeff(lp, r1, 5.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	// changing a coefficient to zero deletes it
	require.NoError(t, x.ChgCoeff(lp, r2, 0.0))
	assert.Equal(t, 1, x.NNonz())
	assert.Equal(t, -1, x.searchCoeff(r2))

	// deleting a missing coefficient fails
	err = x.DelCoeff(lp, r2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	require.NoError(t, x.DelCoeff(lp, r1))
	assert.Equal(t, 0, x.NNonz())
}

func TestColIncCoeff(t *testing.T) {
	lp, _ := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	row := addTestRow(t, lp, "r", nil, nil, 0.0, 1.0)

	// incrementing a nonexisting coefficient creates it
	require.NoError(t, x.IncCoeff(lp, row, 1.5))
	pos := x.searchCoeff(row)
	require.NotEqual(t, -1, pos)
	assert.InDelta(t, 1.5, x.vals[pos], delta)

	require.NoError(t, x.IncCoeff(lp, row, 2.5))
	pos = x.searchCoeff(row)
	assert.InDelta(t, 4.0, x.vals[pos], delta)

	// incrementing down to zero removes the entry
	require.NoError(t, x.IncCoeff(lp, row, -4.0))
	assert.Equal(t, -1, x.searchCoeff(row))

	// a zero increment is ignored
	require.NoError(t, x.IncCoeff(lp, row, 0.0))
	assert.Equal(t, 0, x.NNonz())
}

func TestColLinkUnlinkMirrorsEntries(t *testing.T) {
	lp, _ := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	r1 := addTestRow(t, lp, "r1", nil, nil, 0.0, 1.0)
	r2 := addTestRow(t, lp, "r2", nil, nil, 0.0, 1.0)

	require.NoError(t, x.AddCoeff(lp, r1, 2.0))
	require.NoError(t, x.AddCoeff(lp, r2, 3.0))
	assert.Equal(t, 2, x.nunlinked)
	assert.Equal(t, 0, r1.NNonz())

	require.NoError(t, x.link(lp))
	assert.Equal(t, 0, x.nunlinked)
	require.Equal(t, 1, r1.NNonz())
	require.Equal(t, 1, r2.NNonz())
	assert.InDelta(t, 2.0, r1.vals[0], delta)
	assert.InDelta(t, 3.0, r2.vals[0], delta)

	// both sides point at each other
	for i := range x.rows {
		rowpos := int(x.linkpos[i])
		assert.Equal(t, linkIndex(i), x.rows[i].linkpos[rowpos])
	}

	// linking again changes nothing
	require.NoError(t, x.link(lp))
	assert.Equal(t, 1, r1.NNonz())

	require.NoError(t, x.unlink(lp))
	assert.Equal(t, 2, x.nunlinked)
	assert.Equal(t, 0, r1.NNonz())
	assert.Equal(t, 0, r2.NNonz())

	// unlinking again changes nothing
	require.NoError(t, x.unlink(lp))
	assert.Equal(t, 2, x.nunlinked)
}

func TestColDelCoeffRemovesBothSides(t *testing.T) {
	lp, _ := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	row := addTestRow(t, lp, "r", nil, nil, 0.0, 1.0)

	require.NoError(t, x.AddCoeff(lp, row, 2.0))
	require.NoError(t, x.link(lp))
	require.Equal(t, 1, row.NNonz())

	require.NoError(t, x.DelCoeff(lp, row))
	assert.Equal(t, 0, x.NNonz())
	assert.Equal(t, 0, row.NNonz())
}

func TestColChgCoeffUpdatesBothSides(t *testing.T) {
	lp, _ := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	row := addTestRow(t, lp, "r", nil, nil, 0.0, 1.0)

	require.NoError(t, x.AddCoeff(lp, row, 2.0))
	require.NoError(t, x.link(lp))

	require.NoError(t, x.ChgCoeff(lp, row, -5.0))
	assert.InDelta(t, -5.0, x.vals[0], delta)
	assert.InDelta(t, -5.0, row.vals[0], delta)
}

func TestColSortRepairsLinks(t *testing.T) {
	lp, _ := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 1.0)
	rows := make([]*Row, 4)
	for i := range rows {
		rows[i] = addTestRow(t, lp, "r", nil, nil, 0.0, 1.0)
	}

	// insert in reverse creation order to unsort the column
	for i := len(rows) - 1; i >= 0; i-- {
		require.NoError(t, x.AddCoeff(lp, rows[i], float64(i+1)))
	}
	require.NoError(t, x.link(lp))
	assert.False(t, x.sorted)

	x.Sort()
	assert.True(t, x.sorted)
	for i := 1; i < len(x.rows); i++ {
		assert.Less(t, x.rows[i-1].index, x.rows[i].index)
	}

	// the row side links survived the permutation
	for i := range x.rows {
		rowpos := int(x.linkpos[i])
		assert.Equal(t, linkIndex(i), x.rows[i].linkpos[rowpos])
		assert.InDelta(t, x.vals[i], x.rows[i].vals[rowpos], delta)
	}
}

func TestColFreeDetachesVariable(t *testing.T) {
	lp, _ := newTestLP(t)

	v := NewVar("x", 1.0, 0.0, 1.0)
	col, err := NewCol(lp.set, v, nil, nil)
	require.NoError(t, err)

	row := addTestRow(t, lp, "r", nil, nil, 0.0, 1.0)
	require.NoError(t, col.AddCoeff(lp, row, 1.0))
	require.NoError(t, col.link(lp))

	require.NoError(t, col.Free(lp))
	assert.Nil(t, v.Col())
	assert.Equal(t, 0, row.NNonz())

	// a member of the LP cannot be freed
	member := addTestCol(t, lp, "y", 1.0, 0.0, 1.0)
	err = member.Free(lp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestVarBoundChangeIsRecordedForFlush(t *testing.T) {
	lp, _ := newTestLP(t)

	x := addTestCol(t, lp, "x", 1.0, 0.0, 10.0)
	require.NoError(t, lp.Flush())

	require.NoError(t, x.Var().ChgLb(lp, 2.0))
	assert.True(t, x.lbchanged)
	assert.False(t, x.ubchanged)
	require.Len(t, lp.chgcols, 1)
	assert.False(t, lp.IsFlushed())

	// the second change does not enter the list twice
	require.NoError(t, x.Var().ChgUb(lp, 8.0))
	assert.True(t, x.ubchanged)
	assert.Len(t, lp.chgcols, 1)

	// a no-op change is ignored
	require.NoError(t, x.Var().ChgLb(lp, 2.0))
	assert.Len(t, lp.chgcols, 1)
}

func TestVarBoundChangeOffLPIsSilent(t *testing.T) {
	lp, _ := newTestLP(t)

	// a column that is not resident records nothing for the flush
	x := addTestCol(t, lp, "x", 1.0, 0.0, 10.0)
	require.NoError(t, x.Var().ChgLb(lp, 1.0))
	assert.False(t, x.lbchanged)
	assert.Empty(t, lp.chgcols)
	assert.InDelta(t, 1.0, x.Var().Lb(), delta)
}

func TestColFeasibilitySignConvention(t *testing.T) {
	lp, _ := newTestLP(t)

	// nonnegative variable: feasibility equals the reduced cost
	x := addTestCol(t, lp, "x", 3.0, 0.0, 1.0)
	x.redcost = 3.0
	x.validredcostlp = lp.nlps
	assert.InDelta(t, 3.0, x.Feasibility(lp), delta)

	// free variable: any nonzero reduced cost is an infeasibility
	y := addTestCol(t, lp, "y", 3.0, -lp.set.Infinity, lp.set.Infinity)
	y.redcost = 3.0
	y.validredcostlp = lp.nlps
	assert.InDelta(t, -3.0, y.Feasibility(lp), delta)
	y.redcost = -2.0
	assert.InDelta(t, -2.0, y.Feasibility(lp), delta)
}
