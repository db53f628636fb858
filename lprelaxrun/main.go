// lprelaxrun: Executable demonstrating how the lprelax package is used.

// The demonstrations build a small LP from scratch, solve it, display the
// solution, and run single-row bound tightening. A real simplex backend is
// not required: the demoSolver below implements the lprelax.Solver
// interface by replaying a precomputed solution of the demonstration
// model, which is enough to show the full package workflow.

package main

import (
	"fmt"

	"github.com/go-opt/lprelax"
	"github.com/pkg/errors"
)

// demoSolver is a stand-in LP solver. It records the problem it is given
// and replays the solution it was seeded with. Swap in an adapter to a
// real simplex code to solve arbitrary models.
type demoSolver struct {
	ncols, nrows int

	termstat lprelax.TermStat
	objval   float64
	primsol  []float64
	dualsol  []float64
	activity []float64
	redcost  []float64
	iters    int
}

func (s *demoSolver) AddCols(obj, lb, ub []float64, names []string, beg, ind []int, val []float64) error {
	s.ncols += len(obj)
	return nil
}

func (s *demoSolver) AddRows(lhs, rhs []float64, names []string, beg, ind []int, val []float64) error {
	s.nrows += len(lhs)
	return nil
}

func (s *demoSolver) DelCols(firstcol, lastcol int) error {
	s.ncols = firstcol
	return nil
}

func (s *demoSolver) DelRows(firstrow, lastrow int) error {
	s.nrows = firstrow
	return nil
}

func (s *demoSolver) ChgBounds(ind []int, lb, ub []float64) error  { return nil }
func (s *demoSolver) ChgSides(ind []int, lhs, rhs []float64) error { return nil }
func (s *demoSolver) SolvePrimal() error                           { return nil }
func (s *demoSolver) SolveDual() error                             { return nil }
func (s *demoSolver) TermStat() lprelax.TermStat                   { return s.termstat }

func (s *demoSolver) BasisFeasibility() (bool, bool, error) {
	return s.termstat == lprelax.TermOptimal, true, nil
}

func (s *demoSolver) ObjVal() (float64, error) { return s.objval, nil }

func (s *demoSolver) Sol(primsol, dualsol, activity, redcost []float64) (float64, error) {
	copy(primsol, s.primsol)
	copy(dualsol, s.dualsol)
	copy(activity, s.activity)
	copy(redcost, s.redcost)
	return s.objval, nil
}

func (s *demoSolver) PrimalRay(ray []float64) error {
	return errors.New("demo solver has no primal ray")
}

func (s *demoSolver) DualFarkas(dualfarkas []float64) error {
	return errors.New("demo solver has no farkas proof")
}

func (s *demoSolver) Iterations() (int, error)       { return s.iters, nil }
func (s *demoSolver) State() (any, error)            { return nil, nil }
func (s *demoSolver) SetState(state any) error       { return nil }
func (s *demoSolver) SetObjLimit(objlim float64) error { return nil }
func (s *demoSolver) SetFeasTol(feastol float64) error { return nil }
func (s *demoSolver) Infinity() float64              { return 1e30 }

//==============================================================================

// buildDemoModel constructs the demonstration LP
//
//	min  -3 x - 2 y
//	s.t.  x +   y <= 4      (capacity)
//	      x + 3 y <= 6      (budget)
//	      0 <= x <= 10, 0 <= y <= 10
//
// and returns the LP together with its rows.
// In case of failure, it returns an error.
func buildDemoModel(set *lprelax.Settings, lpi lprelax.Solver) (*lprelax.LP, []*lprelax.Row, error) {

	lp, err := lprelax.NewLP(set, lpi)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create LP")
	}

	x := lprelax.NewVar("x", -3.0, 0.0, 10.0)
	y := lprelax.NewVar("y", -2.0, 0.0, 10.0)

	for _, v := range []*lprelax.Var{x, y} {
		col, err := lprelax.NewCol(set, v, nil, nil)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create column <%s>", v.Name())
		}
		if err = lp.AddCol(col); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to add column <%s>", v.Name())
		}
	}

	capacity, err := lprelax.NewRow(set, "capacity",
		[]*lprelax.Col{x.Col(), y.Col()}, []float64{1.0, 1.0},
		-set.Infinity, 4.0, false, false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create row <capacity>")
	}

	budget, err := lprelax.NewRow(set, "budget",
		[]*lprelax.Col{x.Col(), y.Col()}, []float64{1.0, 3.0},
		-set.Infinity, 6.0, false, false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create row <budget>")
	}

	rows := []*lprelax.Row{capacity, budget}
	for _, row := range rows {
		if err = lp.AddRow(row); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to add row <%s>", row.Name())
		}
		// the LP holds its own capture now
		if err = row.Release(lp); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to release row <%s>", row.Name())
		}
	}

	return lp, rows, nil
}

//==============================================================================

// wpSolveDemo builds the demonstration model, solves it with the dual
// simplex of the stand-in solver, and prints the solution values.
// In case of failure, it returns an error.
func wpSolveDemo() error {

	fmt.Printf("\nThis example builds a small LP, solves it, and displays the\n")
	fmt.Printf("primal solution, the dual solution, and the reduced costs.\n\n")

	// The optimum of the demonstration model is x = 3, y = 1 with
	// objective value -11, which the stand-in solver replays.
	lpi := &demoSolver{
		termstat: lprelax.TermOptimal,
		objval:   -11.0,
		primsol:  []float64{3.0, 1.0},
		dualsol:  []float64{-3.5, 0.5},
		activity: []float64{4.0, 6.0},
		redcost:  []float64{0.0, 0.0},
		iters:    2,
	}

	set := lprelax.NewSettings()
	lp, rows, err := buildDemoModel(set, lpi)
	if err != nil {
		return err
	}

	if err = lp.SolveDual(); err != nil {
		return errors.Wrap(err, "failed to solve LP")
	}
	if err = lp.GetSol(); err != nil {
		return errors.Wrap(err, "failed to retrieve solution")
	}

	fmt.Printf("Solution status:    %v\n", lp.SolStat())
	fmt.Printf("Objective value:    %f\n", lp.ObjVal())
	fmt.Printf("Simplex iterations: %d\n\n", lp.NIterations())

	fmt.Printf("%-10s %12s %12s\n", "VARIABLE", "VALUE", "RED. COST")
	for _, col := range lp.Cols() {
		fmt.Printf("%-10s %12f %12f\n", col.Var().Name(), col.Primsol(), col.Redcost(lp))
	}

	fmt.Printf("\n%-10s %12s %12s %12s\n", "ROW", "ACTIVITY", "DUAL", "FEAS")
	for _, row := range rows {
		fmt.Printf("%-10s %12f %12f %12f\n", row.Name(),
			row.Activity(lp), row.Dualsol(), row.Feasibility(lp))
	}

	return nil
}

//==============================================================================

// wpTightenDemo builds the demonstration model and runs single-row bound
// tightening on its rows, printing the variable bounds before and after.
// In case of failure, it returns an error.
func wpTightenDemo() error {

	fmt.Printf("\nThis example runs domain propagation on the rows of a small LP\n")
	fmt.Printf("and displays the variable bounds before and after.\n\n")

	set := lprelax.NewSettings()
	lp, rows, err := buildDemoModel(set, &demoSolver{termstat: lprelax.TermOptimal})
	if err != nil {
		return err
	}

	printBounds := func(header string) {
		fmt.Printf("%s\n", header)
		for _, col := range lp.Cols() {
			v := col.Var()
			fmt.Printf("  %-10s [%g, %g]\n", v.Name(), v.Lb(), v.Ub())
		}
	}

	printBounds("Bounds before tightening:")

	for _, row := range rows {
		result, terr := lp.TightenRowBounds(row)
		if terr != nil {
			return errors.Wrapf(terr, "failed to tighten bounds of row <%s>", row.Name())
		}
		fmt.Printf("\nRow <%s>: %v\n", row.Name(), result)
	}

	fmt.Println()
	printBounds("Bounds after tightening:")

	return nil
}

//==============================================================================

// printOptions displays the options that are available for testing.
func printOptions() {

	fmt.Println("\nAvailable Options:")
	fmt.Println("")

	fmt.Println(" 0 - EXIT program")
	fmt.Println(" 1 - build and solve a small LP, display the solution")
	fmt.Println(" 2 - run bound tightening on a small LP")

}

//==============================================================================

// runMainWrapper displays the menu of options available, prompts the user
// to enter one of the options, and executes the command specified.
func runMainWrapper() {
	var cmdOption string // command option
	var err       error  // error returned by called functions

	fmt.Println("\nDEMONSTRATION OF LPRELAX FUNCTIONALITY.")

	for {

		printOptions()
		cmdOption = ""
		fmt.Printf("\nEnter a new option: ")
		fmt.Scanln(&cmdOption)

		switch cmdOption {

		case "0":
			fmt.Println("\n===> NORMAL PROGRAM TERMINATION <===")
			return

		case "1":
			if err = wpSolveDemo(); err != nil {
				fmt.Println(err)
			}

		case "2":
			if err = wpTightenDemo(); err != nil {
				fmt.Println(err)
			}

		default:
			fmt.Printf("Unsupported option: '%s'\n", cmdOption)

		} // end of switch on cmdOption
	} // end for looping over commands

}

//==============================================================================

func main() {

	runMainWrapper()
}

//============================ END OF FILE =====================================
