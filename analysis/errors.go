package analysis

import "github.com/cockroachdb/errors"

// Sentinel errors.
var (
	// ErrInvalidSuppression is returned for a suppression predicate that does not compile.
	ErrInvalidSuppression = errors.New("analysis: invalid suppression predicate")

	// ErrInvalidIdentifier is returned when a rename target is not a valid name.
	ErrInvalidIdentifier = errors.New("analysis: invalid identifier")

	// ErrBuiltinTarget is returned when renaming a builtin function.
	ErrBuiltinTarget = errors.New("analysis: cannot rename builtin")

	// ErrTypeTarget is returned when renaming a type name.
	ErrTypeTarget = errors.New("analysis: cannot rename type")

	// ErrNoSymbol is returned when there is no renameable symbol at the position.
	ErrNoSymbol = errors.New("analysis: no symbol at position")
)
