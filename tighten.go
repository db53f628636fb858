package lprelax

// Domain propagation on single rows. A row combined with the activity
// bounds of all but one variable yields an implied bound on that
// variable, which can tighten its domain or prove the row infeasible.

import (
	"github.com/pkg/errors"
)

// TightenResult reports the outcome of a bound tightening attempt.
type TightenResult int

// Outcomes of a bound tightening attempt.
const (
	TightenDidNotFind TightenResult = iota // no bound could be tightened
	TightenReduced                         // at least one bound was tightened
	TightenCutoff                          // the row was proven infeasible
)

// String satisfies the Stringer interface.
func (tr TightenResult) String() string {
	switch tr {
	case TightenDidNotFind:
		return "didnotfind"
	case TightenReduced:
		return "reduced"
	case TightenCutoff:
		return "cutoff"
	}
	return "invalid"
}

// TightenVarBounds tightens the bounds of a single variable with respect
// to a row, using the activity contributions of all other row entries.
// The coefficient val must be the variable's coefficient in the row.
// In case of failure, it returns an error.
func (lp *LP) TightenVarBounds(row *Row, v *Var, val float64) (TightenResult, error) {
	if v.col == nil {
		return TightenDidNotFind, errors.Wrapf(ErrInvalidData, "variable <%s> has no column", v.name)
	}
	if lp.set.IsZero(val) {
		return TightenDidNotFind, errors.Wrapf(ErrInvalidData, "zero coefficient of variable <%s> in row <%s>", v.name, row.name)
	}

	minresactivity, maxresactivity, err := row.ActivityResiduals(lp, v, val)
	if err != nil {
		return TightenDidNotFind, err
	}

	result := TightenDidNotFind
	lb := v.lb
	ub := v.ub

	if val > 0.0 {
		// check the right hand side against the minimal residual activity
		if !lp.set.IsInfinity(row.rhs) && !lp.set.IsInfinity(-minresactivity) {
			newub := (row.rhs - minresactivity) / val
			if lp.set.IsSumLT(newub, lb) {
				log.Debugf("cutoff in row <%s>: new bounds of <%s> [%g,%g] are empty", row.name, v.name, lb, newub)
				return TightenCutoff, nil
			}
			if lp.set.IsSumLT(newub, ub) {
				log.Debugf("tightened upper bound of <%s> in row <%s>: %g -> %g", v.name, row.name, ub, newub)
				if err := v.ChgUb(lp, newub); err != nil {
					return result, err
				}
				ub = newub
				result = TightenReduced
			}
		}

		// check the left hand side against the maximal residual activity
		if !lp.set.IsInfinity(-row.lhs) && !lp.set.IsInfinity(maxresactivity) {
			newlb := (row.lhs - maxresactivity) / val
			if lp.set.IsSumGT(newlb, ub) {
				log.Debugf("cutoff in row <%s>: new bounds of <%s> [%g,%g] are empty", row.name, v.name, newlb, ub)
				return TightenCutoff, nil
			}
			if lp.set.IsSumGT(newlb, lb) {
				log.Debugf("tightened lower bound of <%s> in row <%s>: %g -> %g", v.name, row.name, lb, newlb)
				if err := v.ChgLb(lp, newlb); err != nil {
					return result, err
				}
				result = TightenReduced
			}
		}
	} else {
		// negative coefficient: the roles of the bounds are swapped
		if !lp.set.IsInfinity(row.rhs) && !lp.set.IsInfinity(-minresactivity) {
			newlb := (row.rhs - minresactivity) / val
			if lp.set.IsSumGT(newlb, ub) {
				log.Debugf("cutoff in row <%s>: new bounds of <%s> [%g,%g] are empty", row.name, v.name, newlb, ub)
				return TightenCutoff, nil
			}
			if lp.set.IsSumGT(newlb, lb) {
				log.Debugf("tightened lower bound of <%s> in row <%s>: %g -> %g", v.name, row.name, lb, newlb)
				if err := v.ChgLb(lp, newlb); err != nil {
					return result, err
				}
				lb = newlb
				result = TightenReduced
			}
		}

		if !lp.set.IsInfinity(-row.lhs) && !lp.set.IsInfinity(maxresactivity) {
			newub := (row.lhs - maxresactivity) / val
			if lp.set.IsSumLT(newub, lb) {
				log.Debugf("cutoff in row <%s>: new bounds of <%s> [%g,%g] are empty", row.name, v.name, lb, newub)
				return TightenCutoff, nil
			}
			if lp.set.IsSumLT(newub, ub) {
				log.Debugf("tightened upper bound of <%s> in row <%s>: %g -> %g", v.name, row.name, ub, newub)
				if err := v.ChgUb(lp, newub); err != nil {
					return result, err
				}
				result = TightenReduced
			}
		}
	}

	return result, nil
}

// TightenRowBounds tightens the bounds of all variables in a row until a
// fixed point is reached. Each tightened bound shrinks the residual
// activities of its row, so the loop revisits the other entries until a
// full pass over the row finds nothing more.
// In case of failure, it returns an error.
func (lp *LP) TightenRowBounds(row *Row) (TightenResult, error) {
	if len(row.cols) == 0 {
		return TightenDidNotFind, nil
	}

	result := TightenDidNotFind

	// process the entries round robin until a full pass without success
	lastsuccess := 0
	i := 0
	for {
		res, err := lp.TightenVarBounds(row, row.cols[i].v, row.vals[i])
		if err != nil {
			return result, err
		}
		if res == TightenCutoff {
			return TightenCutoff, nil
		}
		if res == TightenReduced {
			lastsuccess = i
			result = TightenReduced
		}

		i = (i + 1) % len(row.cols)
		if i == lastsuccess && result != TightenDidNotFind {
			break
		}
		if i == 0 && result == TightenDidNotFind {
			break
		}
	}

	return result, nil
}
