/*
Package lprelax ("LP relaxation") manages the linear programming relaxation
at the heart of a mixed-integer programming solver. It keeps a mutable LP
model (columns, rows, bounds, sides, coefficients) synchronized with an
external simplex solver, and offers the activity and bound reasoning needed
by branch-and-cut: row activities against the current solution, activity
bounds derived from variable domains, and bound tightening from residual
activities.

The package maintains two images of the LP at all times:

  - the actual LP, which the caller freely edits while exploring the
    branch-and-bound tree, and
  - the resident LP, the copy last handed to the solver process.

Edits are cheap: they only record what diverged. Before a solve, the two
images are reconciled in a single batched flush that removes trailing
columns and rows whose slots were reused, transmits pending bound and side
changes, and appends the new tail. Between flushes the solver keeps its
warm-start basis, so each reconciliation costs a handful of simplex
iterations rather than a cold solve.

Some of the main features include:
  - sparse columns and rows holding each others' positions, so that a
    coefficient can be changed or removed from either side in constant time
  - lazy bidirectional linking: a row created by a separator stays
    half-linked until its activity bounds are first needed or it enters
    the solver
  - reference-counted rows with a locking protocol that write-protects
    cutting planes already referenced by the tree
  - incrementally maintained pseudo activities and activity bounds,
    including explicit accounting of infinite bound contributions
  - domain propagation: residual-activity bound tightening with cutoff
    detection for provably infeasible rows
  - a solve driver that classifies solver outcomes, retrieves primal and
    dual solutions, unbounded rays, and dual Farkas infeasibility proofs

Interacting with Solvers

The package is solver-agnostic. All communication runs through the Solver
interface, which mirrors the column- and row-wise editing calls of the
common simplex codes (Cplex, SoPlex, HiGHS and friends expose essentially
this surface). A binding implements the interface and reports its own
notion of infinity; the package converts bounds and sides at the boundary
in both directions.

A minimal session looks like the following:

	set := lprelax.NewSettings()
	lp, err := lprelax.NewLP(set, solver)
	if err != nil { ... }

	x := lprelax.NewVar("x", 1.0, 0.0, 10.0)
	col, err := lprelax.NewCol(set, x, nil, nil)
	if err != nil { ... }
	lp.AddCol(col)

	row, err := lprelax.NewRow(set, "capacity", []*lprelax.Col{col},
		[]float64{2.0}, -set.Infinity, 8.0, false, false)
	if err != nil { ... }
	lp.AddRow(row)
	row.Release(lp)

	if err := lp.SolveDual(); err != nil { ... }
	if lp.SolStat() == lprelax.SolStatOptimal {
		if err := lp.GetSol(); err != nil { ... }
		fmt.Println(lp.ObjVal(), col.Primsol())
	}

Rows added to the LP are captured by it; the caller releases its own
reference once it no longer needs direct access, and the row is freed when
the last reference disappears.

The executable provided with the package runs through a small model end to
end and shows how the editing, flushing, and solution retrieval calls fit
together.
*/
package lprelax
