// Package reconcile turns several sources' versions of one release into a
// single registry submission.
//
// Every disputed attribute is reduced on its own: candidates are grouped by
// a rendered comparison key, a single group wins outright and competing
// groups are put to the curator through a Selector, ordered by how many
// sources back them. Answers are remembered for the rest of the
// reconciliation, keyed by the set of alternatives, so an identical conflict
// is never asked twice. The reduced values are assembled into an
// insertion-ordered field-path map.
package reconcile
