package publish

// Operation is a planned write. An empty ExpectedRevision creates the
// artifact; otherwise it replaces the revision the planner observed.
type Operation struct {
	Path             string `json:"path"`
	Content          []byte `json:"-"`
	ExpectedRevision string `json:"expected_revision,omitempty"`
	Reason           string `json:"reason"`
}

// IsCreate reports whether the operation is create-only.
func (o Operation) IsCreate() bool {
	return o.ExpectedRevision == ""
}
