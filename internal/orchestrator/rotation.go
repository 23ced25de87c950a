package orchestrator

// rotation tracks each role's cursor into the backend roster. It is
// owned by one Run loop; sessions never share rotation state.
type rotation struct {
	cursors      map[string]int
	backendCount int
}

// newRotation spreads the initial cursors so roles start on different
// backends: role i points at backend i mod M.
func newRotation(roleNames []string, backendCount int) *rotation {
	cursors := make(map[string]int, len(roleNames))
	for i, name := range roleNames {
		cursors[name] = i % backendCount
	}
	return &rotation{cursors: cursors, backendCount: backendCount}
}

// cursor returns the backend index a role's next turn starts from.
func (r *rotation) cursor(role string) int {
	return r.cursors[role]
}

// advance moves a role's cursor to the backend after the one that just
// succeeded, regardless of how many fallback attempts preceded it.
// Repeated failures therefore never retry the same broken backend twice
// in a row for that role.
func (r *rotation) advance(role string, succeededIndex int) {
	r.cursors[role] = (succeededIndex + 1) % r.backendCount
}
