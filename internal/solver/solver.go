// Package solver provides the steady-state power-flow collaborator. The
// orchestrator depends only on the Solver interface and interprets nothing
// beyond success or failure; the shipped implementation is a Gauss-Seidel
// iteration over the complex admittance matrix.
package solver

import (
	"errors"

	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// ErrNoConvergence signals that the iteration did not reach the tolerance
// within the iteration budget. The orchestrator treats it as fatal to the run
// unless hour gaps are enabled.
var ErrNoConvergence = errors.New("power flow did not converge")

// Solver computes one steady-state solve. Implementations must not mutate the
// network or the load set; that contract is what makes parallel-hour
// execution safe.
type Solver interface {
	Solve(net *grid.Network, loads grid.LoadSet) (*model.HourlySnapshot, error)
}
