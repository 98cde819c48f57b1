package domain

// ChangeType identifies what happened to a corpus file.
type ChangeType int

const (
	// ChangeCreated means the file appeared.
	ChangeCreated ChangeType = iota

	// ChangeUpdated means the file's contents were rewritten.
	ChangeUpdated

	// ChangeDeleted means the file was removed or renamed away.
	ChangeDeleted
)

// String returns a human-readable name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileChange reports a change to one corpus file.
type FileChange struct {
	Path string
	Type ChangeType
}
