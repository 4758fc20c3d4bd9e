// Package render produces the published HTML artifacts: leaf pages, container
// pages and the master index.
//
// Output is deterministic for equal input. Container pages record the ordered
// child identifiers in data-child-id attributes; ParseChildren reads them back
// so that a later run can tell whether a container's children changed.
package render
