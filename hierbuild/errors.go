package hierbuild

import "fmt"

// ErrUnknownCell is returned when a cell index named by the layout
// collaborator (a child, a parent, a bottom-up order entry) does not
// satisfy 0 <= index < CellCount() (spec.md section 7, "input-invariant
// violation").
var ErrUnknownCell = fmt.Errorf("hierbuild: %w", errUnknownCell)
var errUnknownCell = fmt.Errorf("unknown cell index")

// ContractError reports an internal assertion failure: a bug in the
// builder itself, never a caller input error. It always carries enough
// context (cell name, cluster id) to diagnose without a debugger,
// matching flow.EdgeError's shape.
type ContractError struct {
	CellName  string
	ClusterID int
	Detail    string
}

func (e ContractError) Error() string {
	return fmt.Sprintf("hierbuild: contract violation in cell %q (cluster %d): %s", e.CellName, e.ClusterID, e.Detail)
}
