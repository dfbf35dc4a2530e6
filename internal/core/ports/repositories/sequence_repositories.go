package repositories

import "context"

// SequenceRepository issues human-readable document numbers (e.g. INV-00042).
// Numbers are unique and monotonically increasing per sequence name; the
// implementation must be safe under concurrent callers.
type SequenceRepository interface {
	// NextDocumentNumber atomically increments the named sequence and returns
	// the formatted document number.
	NextDocumentNumber(ctx context.Context, name string) (string, error)
}
