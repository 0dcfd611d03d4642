package changeset

// #region kind
// Kind is the announcement that opened a file block.
type Kind string

const (
	KindModified Kind = "MODIFIED"
	KindNew      Kind = "NEW"
	KindDeleted  Kind = "DELETED"
)

// #endregion kind

// #region record
// Record is one changed path with the content lines attributed to it.
// Records are built once per parse call and never mutated afterwards.
type Record struct {
	Path    string
	Kind    Kind
	Added   []string
	Removed []string
}

// LineChanges returns added plus removed line counts.
func (r Record) LineChanges() int {
	return len(r.Added) + len(r.Removed)
}

// #endregion record
