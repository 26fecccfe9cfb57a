package flame

import "errors"

var (
	// ErrNoRoot is returned when no record lacks a parent
	ErrNoRoot = errors.New("flame tree has no root")

	// ErrMultipleRoots is returned when more than one record lacks a parent
	ErrMultipleRoots = errors.New("flame tree has more than one root")

	// ErrDuplicateID is returned when two records share an id
	ErrDuplicateID = errors.New("duplicate flame node id")

	// ErrUnknownParent is returned when a record references a missing parent
	ErrUnknownParent = errors.New("unknown flame parent")

	// ErrUnreachable is returned when records form a cycle detached from the root
	ErrUnreachable = errors.New("flame node unreachable from root")
)
