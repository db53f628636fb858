package lprelax

// Activity engine. Rows cache three kinds of activities: the activity in
// the last LP solution, the activity in the pseudo solution (every
// variable at its best bound), and the activity range over the variable
// domains. The pseudo activity and the activity range are maintained
// incrementally under bound changes once they have been computed, with
// infinite bound contributions counted separately so that a single bound
// change never forces a full recomputation.

// updatePseudoActivity shifts the cached pseudo activity after the best
// bound of the column at the given position changed.
func (row *Row) updatePseudoActivity(pos int, oldbestbound, newbestbound float64) {
	if row.validpsactivity {
		row.pseudoactivity += (newbestbound - oldbestbound) * row.vals[pos]
	}
}

// updatePseudoActivityConstant shifts the cached pseudo activity after the
// row constant changed.
func (row *Row) updatePseudoActivityConstant(oldconstant, newconstant float64) {
	if row.validpsactivity {
		row.pseudoactivity += newconstant - oldconstant
	}
}

// invalidPseudoActivity drops the cached pseudo activity, forcing a
// recalculation on the next access.
func (row *Row) invalidPseudoActivity() {
	row.validpsactivity = false
	row.pseudoactivity = invalid
}

// updateActivityBoundsLb adjusts the cached activity bounds after the
// lower bound of the column at the given position changed. An infinite
// lower bound contributes to the infinity counter of the activity bound
// it supports instead of the numeric value.
func (row *Row) updateActivityBoundsLb(set *Settings, pos int, oldlb, newlb float64) {
	if !row.validactivitybds {
		return
	}

	val := row.vals[pos]
	if val > 0.0 {
		if set.IsInfinity(-oldlb) {
			row.minactivityinf--
		} else {
			row.minactivity -= val * oldlb
		}

		if set.IsInfinity(-newlb) {
			row.minactivityinf++
		} else {
			row.minactivity += val * newlb
		}
	} else {
		if set.IsInfinity(-oldlb) {
			row.maxactivityinf--
		} else {
			row.maxactivity -= val * oldlb
		}

		if set.IsInfinity(-newlb) {
			row.maxactivityinf++
		} else {
			row.maxactivity += val * newlb
		}
	}
}

// updateActivityBoundsUb adjusts the cached activity bounds after the
// upper bound of the column at the given position changed.
func (row *Row) updateActivityBoundsUb(set *Settings, pos int, oldub, newub float64) {
	if !row.validactivitybds {
		return
	}

	val := row.vals[pos]
	if val > 0.0 {
		if set.IsInfinity(oldub) {
			row.maxactivityinf--
		} else {
			row.maxactivity -= val * oldub
		}

		if set.IsInfinity(newub) {
			row.maxactivityinf++
		} else {
			row.maxactivity += val * newub
		}
	} else {
		if set.IsInfinity(oldub) {
			row.minactivityinf--
		} else {
			row.minactivity -= val * oldub
		}

		if set.IsInfinity(newub) {
			row.minactivityinf++
		} else {
			row.minactivity += val * newub
		}
	}
}

// updateActivityBoundsConstant shifts both cached activity bounds after
// the row constant changed.
func (row *Row) updateActivityBoundsConstant(oldconstant, newconstant float64) {
	if row.validactivitybds {
		row.minactivity += newconstant - oldconstant
		row.maxactivity += newconstant - oldconstant
	}
}

// InvalidActivityBounds drops the cached activity bounds, forcing a
// recalculation on the next access. The infinity counters move to their
// "not computed" marker, which is distinct from a computed count of zero.
func (row *Row) InvalidActivityBounds() {
	row.validactivitybds = false
	row.minactivity = invalid
	row.maxactivity = invalid
	row.minactivityinf = -1
	row.maxactivityinf = -1
}

// calcActivity recomputes the row activity from the primal solution
// values of its columns.
func (row *Row) calcActivity() {
	row.activity = row.constant
	for c := 0; c < len(row.cols); c++ {
		row.activity += row.vals[c] * row.cols[c].primsol
	}
}

// Activity returns the activity of the row in the last solve,
// recalculating it from the column solution values if the cached value is
// stale.
func (row *Row) Activity(lp *LP) float64 {
	if row.validactivitylp != lp.nlps {
		row.calcActivity()
	}
	row.validactivitylp = lp.nlps

	return row.activity
}

// Feasibility returns the feasibility of the row in the last solve:
// negative values indicate a violated side.
func (row *Row) Feasibility(lp *LP) float64 {
	activity := row.Activity(lp)

	return min(row.rhs-activity, activity-row.lhs)
}

// calcPseudoActivity recomputes the pseudo activity from scratch. The row
// is linked to its columns first, so that subsequent bound changes keep
// the now valid value up to date.
// In case of failure, it returns an error.
func (row *Row) calcPseudoActivity(lp *LP) error {
	if err := row.link(lp); err != nil {
		return err
	}

	row.validpsactivity = true
	row.pseudoactivity = row.constant
	for i := 0; i < len(row.cols); i++ {
		row.updatePseudoActivity(i, 0.0, row.cols[i].v.pseudoSol())
	}

	return nil
}

// PseudoActivity returns the activity of the row in the pseudo solution,
// where every variable takes its best bound.
// In case of failure, it returns an error.
func (row *Row) PseudoActivity(lp *LP) (float64, error) {
	if !row.validpsactivity {
		if err := row.calcPseudoActivity(lp); err != nil {
			return 0, err
		}
	}

	return row.pseudoactivity, nil
}

// PseudoFeasibility returns the feasibility of the row in the pseudo
// solution.
// In case of failure, it returns an error.
func (row *Row) PseudoFeasibility(lp *LP) (float64, error) {
	pseudoactivity, err := row.PseudoActivity(lp)
	if err != nil {
		return 0, err
	}

	return min(row.rhs-pseudoactivity, pseudoactivity-row.lhs), nil
}

// calcActivityBounds recomputes the activity bounds from scratch. The row
// is linked to its columns first, so that subsequent bound changes keep
// the now valid bounds up to date.
// In case of failure, it returns an error.
func (row *Row) calcActivityBounds(lp *LP) error {
	if err := row.link(lp); err != nil {
		return err
	}

	row.validactivitybds = true
	row.minactivity = row.constant
	row.maxactivity = row.constant
	row.minactivityinf = 0
	row.maxactivityinf = 0
	for i := 0; i < len(row.cols); i++ {
		row.updateActivityBoundsLb(lp.set, i, 0.0, row.cols[i].v.lb)
		row.updateActivityBoundsUb(lp.set, i, 0.0, row.cols[i].v.ub)
	}

	return nil
}

// ActivityBounds returns the minimal and maximal activity of the row over
// the variable domains. A bound with at least one infinite contribution
// is reported as infinite.
// In case of failure, it returns an error.
func (row *Row) ActivityBounds(lp *LP) (minactivity, maxactivity float64, err error) {
	if !row.validactivitybds {
		if err := row.calcActivityBounds(lp); err != nil {
			return 0, 0, err
		}
	}

	if row.minactivityinf > 0 {
		minactivity = -lp.set.Infinity
	} else {
		minactivity = row.minactivity
	}
	if row.maxactivityinf > 0 {
		maxactivity = lp.set.Infinity
	} else {
		maxactivity = row.maxactivity
	}

	return minactivity, maxactivity, nil
}

// ActivityResiduals returns the activity bounds of the row with the given
// variable conceptually set to zero, undoing its own contribution of
// val times its bound. If the variable carries the only infinite
// contribution, the residual becomes finite again; with two or more
// infinite contributions it stays infinite.
// In case of failure, it returns an error.
func (row *Row) ActivityResiduals(lp *LP, v *Var, val float64) (minresactivity, maxresactivity float64, err error) {
	if !row.validactivitybds {
		if err := row.calcActivityBounds(lp); err != nil {
			return 0, 0, err
		}
	}

	set := lp.set
	lb := v.lb
	ub := v.ub

	if val > 0.0 {
		if set.IsInfinity(-lb) {
			if row.minactivityinf >= 2 {
				minresactivity = -set.Infinity
			} else {
				minresactivity = row.minactivity
			}
		} else {
			if row.minactivityinf >= 1 {
				minresactivity = -set.Infinity
			} else {
				minresactivity = row.minactivity - val*lb
			}
		}
		if set.IsInfinity(ub) {
			if row.maxactivityinf >= 2 {
				maxresactivity = set.Infinity
			} else {
				maxresactivity = row.maxactivity
			}
		} else {
			if row.maxactivityinf >= 1 {
				maxresactivity = set.Infinity
			} else {
				maxresactivity = row.maxactivity - val*ub
			}
		}
	} else {
		if set.IsInfinity(ub) {
			if row.minactivityinf >= 2 {
				minresactivity = -set.Infinity
			} else {
				minresactivity = row.minactivity
			}
		} else {
			if row.minactivityinf >= 1 {
				minresactivity = -set.Infinity
			} else {
				minresactivity = row.minactivity - val*ub
			}
		}
		if set.IsInfinity(-lb) {
			if row.maxactivityinf >= 2 {
				maxresactivity = set.Infinity
			} else {
				maxresactivity = row.maxactivity
			}
		} else {
			if row.maxactivityinf >= 1 {
				maxresactivity = set.Infinity
			} else {
				maxresactivity = row.maxactivity - val*lb
			}
		}
	}

	return minresactivity, maxresactivity, nil
}
