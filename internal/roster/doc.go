// Package roster defines the fixed rosters a debate draws from: the
// ordered list of behavioral roles and the ordered list of model
// backends. Both are immutable and defined once at process start.
//
// Roles and backends are deliberately decoupled. The orchestrator pairs
// them per turn through its rotation state, so any role can speak
// through any generic backend. The lone search-augmented backend sits
// in the same rotation as the rest.
package roster
