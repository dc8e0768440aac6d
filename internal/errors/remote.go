package errors

import "fmt"

type MutationKind string

const (
	KindCreate         MutationKind = "create"
	KindUpdate         MutationKind = "update"
	KindToggleComplete MutationKind = "toggle_complete"
	KindDelete         MutationKind = "delete"
	KindBulkComplete   MutationKind = "bulk_complete"
	KindBulkDelete     MutationKind = "bulk_delete"
)

// LoadError wraps a failed fetch of the owner's tasks. The previously loaded
// collection stays in place.
type LoadError struct {
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load tasks: %v", e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// MutationError wraps a remote failure of one mutation. Count is the number of
// tasks the call targeted.
type MutationError struct {
	Kind  MutationKind
	Count int
	Cause error
}

func (e *MutationError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s of %d tasks failed: %v", e.Kind, e.Count, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Cause)
}

func (e *MutationError) Unwrap() error {
	return e.Cause
}
