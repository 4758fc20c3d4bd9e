// Package ordering imposes a deterministic, human-expected order on the
// children of a container.
//
// Names are split into alternating runs of digits and non-digits. Digit runs
// compare by numeric value, so "Episode 2" sorts before "Episode 10". Other
// runs compare lexicographically, ignoring case first and falling back to a
// case-sensitive comparison. Equal names keep their input order.
//
// # Usage
//
//	ordered := ordering.Order(children)
package ordering
