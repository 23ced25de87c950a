// Package prompt assembles backend-ready message sequences for debate
// turns and for the one-shot conclusion.
//
// Prompt size stays bounded under unbounded round counts: older history
// is compressed into a single summary block and only the trailing
// window is passed verbatim. Verbatim recency matters more than old
// detail for a live debate.
//
// Backends require strict user/assistant alternation, so the verbatim
// window is folded: the acting agent's own prior messages become
// assistant turns, everything else becomes labeled user turns, and
// adjacent same-role turns are merged rather than emitted separately.
package prompt
