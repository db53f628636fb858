package lprelax

// The solver boundary. All communication with the external simplex code
// runs through the Solver interface; the LP converts its own infinity
// representation to the solver's at this boundary and back.

// TermStat is the raw termination signal reported by a solver after a
// solve call. The solve driver maps it to a SolStat, with a mapping that
// depends on whether the primal or the dual simplex was running.
type TermStat int

const (
	TermUnknown    TermStat = iota // solver finished in an unrecognized state
	TermOptimal                    // an optimal solution was found
	TermInfeasible                 // the LP is primal infeasible
	TermUnbounded                  // the LP is primal unbounded
	TermObjLimit                   // the objective limit was exceeded
	TermIterLimit                  // the iteration limit was exceeded
	TermTimeLimit                  // the time limit was exceeded
)

// String returns a human readable form of the termination signal.
func (t TermStat) String() string {
	switch t {
	case TermUnknown:
		return "unknown"
	case TermOptimal:
		return "optimal"
	case TermInfeasible:
		return "infeasible"
	case TermUnbounded:
		return "unbounded"
	case TermObjLimit:
		return "objective limit exceeded"
	case TermIterLimit:
		return "iteration limit exceeded"
	case TermTimeLimit:
		return "time limit exceeded"
	}
	return "invalid termination status"
}

// SolStat is the classified solution status of the LP after the last
// solve call.
type SolStat int

const (
	SolStatNotSolved  SolStat = iota // LP was not solved, no solution exists
	SolStatOptimal                   // LP was solved to optimality
	SolStatInfeasible                // LP is primal infeasible
	SolStatUnbounded                 // LP is primal unbounded
	SolStatObjLimit                  // objective limit was reached
	SolStatIterLimit                 // iteration limit was reached
	SolStatTimeLimit                 // time limit was reached
	SolStatError                     // an error occurred during solving
)

// String returns a human readable form of the solution status.
func (s SolStat) String() string {
	switch s {
	case SolStatNotSolved:
		return "not solved"
	case SolStatOptimal:
		return "optimal"
	case SolStatInfeasible:
		return "infeasible"
	case SolStatUnbounded:
		return "unbounded"
	case SolStatObjLimit:
		return "objective limit reached"
	case SolStatIterLimit:
		return "iteration limit reached"
	case SolStatTimeLimit:
		return "time limit reached"
	case SolStatError:
		return "error"
	}
	return "invalid solution status"
}

// Solver is the interface to an external simplex solver. It mirrors the
// column- and row-wise editing surface of the common simplex codes; a
// binding adapts one concrete solver library to it.
//
// Columns and rows are addressed by their position in the solver's
// problem, which the LP keeps identical to the position in its resident
// arrays. All bound and side values crossing this interface use the
// solver's infinity representation.
type Solver interface {
	// AddCols appends columns to the problem. The coefficient matrix of
	// the new columns is given in column major sparse form: beg[i] is the
	// start of column i in ind and val, ind holds row positions.
	AddCols(obj, lb, ub []float64, names []string, beg, ind []int, val []float64) error

	// AddRows appends rows to the problem, with the coefficients of the
	// new rows in row major sparse form analogous to AddCols.
	AddRows(lhs, rhs []float64, names []string, beg, ind []int, val []float64) error

	// DelCols removes the columns at positions firstcol..lastcol.
	DelCols(firstcol, lastcol int) error

	// DelRows removes the rows at positions firstrow..lastrow.
	DelRows(firstrow, lastrow int) error

	// ChgBounds changes the bounds of the columns at the given positions.
	ChgBounds(ind []int, lb, ub []float64) error

	// ChgSides changes the sides of the rows at the given positions.
	ChgSides(ind []int, lhs, rhs []float64) error

	// SolvePrimal runs the primal simplex algorithm.
	SolvePrimal() error

	// SolveDual runs the dual simplex algorithm.
	SolveDual() error

	// TermStat reports the termination signal of the last solve call.
	TermStat() TermStat

	// BasisFeasibility reports whether the basis left behind by the last
	// solve call is primal and/or dual feasible.
	BasisFeasibility() (primalfeasible, dualfeasible bool, err error)

	// ObjVal returns the objective value of the last solve call.
	ObjVal() (float64, error)

	// Sol retrieves the solution of the last solve call into the non-nil
	// slices, which are sized by the caller: primal values and reduced
	// costs per column, dual values and activities per row.
	Sol(primsol, dualsol, activity, redcost []float64) (objval float64, err error)

	// PrimalRay retrieves the primal ray of an unbounded LP.
	PrimalRay(ray []float64) error

	// DualFarkas retrieves the dual farkas multipliers proving the
	// infeasibility of the LP.
	DualFarkas(dualfarkas []float64) error

	// Iterations reports the number of simplex iterations of the last
	// solve call.
	Iterations() (int, error)

	// State captures the solver state (such as the simplex basis) in an
	// opaque object that can later be handed back through SetState.
	State() (any, error)

	// SetState restores a previously captured solver state.
	SetState(state any) error

	// SetObjLimit sets the upper objective limit for subsequent solves.
	SetObjLimit(objlim float64) error

	// SetFeasTol sets the primal feasibility tolerance.
	SetFeasTol(feastol float64) error

	// Infinity returns the value the solver treats as infinite.
	Infinity() float64
}
