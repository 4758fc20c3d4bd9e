package ordering

import (
	"sort"
	"strings"
)

// Child is one entry of a container's child listing.
type Child struct {
	ID   string
	Name string
}

// Order returns a naturally ordered copy of children. The input is not modified.
func Order(children []Child) []Child {
	ordered := make([]Child, len(children))
	copy(ordered, children)

	sort.SliceStable(ordered, func(i, j int) bool {
		return Compare(ordered[i].Name, ordered[j].Name) < 0
	})

	return ordered
}

// Compare returns -1, 0 or 1 comparing a and b in natural order. Names that
// differ only in leading zeros compare equal.
func Compare(a, b string) int {
	ra, rb := splitRuns(a), splitRuns(b)

	for i := 0; i < len(ra) && i < len(rb); i++ {
		if c := compareRun(ra[i], rb[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	}

	// Secondary key: text runs by case.
	for i := range ra {
		if ra[i].digit {
			continue
		}
		if c := strings.Compare(ra[i].text, rb[i].text); c != 0 {
			return c
		}
	}
	return 0
}

type run struct {
	text  string
	digit bool
}

func splitRuns(s string) []run {
	var runs []run
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[start]) {
			runs = append(runs, run{text: s[start:i], digit: isDigit(s[start])})
			start = i
		}
	}
	return runs
}

func compareRun(a, b run) int {
	switch {
	case a.digit && b.digit:
		return compareNumeric(a.text, b.text)
	case a.digit != b.digit:
		// Digits sort before letters, as they do in ASCII.
		if a.digit {
			return -1
		}
		return 1
	}
	return strings.Compare(strings.ToLower(a.text), strings.ToLower(b.text))
}

// compareNumeric compares two digit strings by value without parsing, so runs
// longer than an int64 still order correctly.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
