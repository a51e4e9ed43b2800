package serializer

import "fmt"

// UnresolvedReferenceError reports an input index that does not name an
// earlier record.
type UnresolvedReferenceError struct {
	// Position is the index of the record holding the bad reference.
	Position int
	Field    string
	// Reference is the offending index value, or -1 when it is missing.
	Reference int
	Reason    string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("record %d: unresolved %s %d: %s", e.Position, e.Field, e.Reference, e.Reason)
}

// UnknownTypeError is returned by reconstruction callbacks for a record type
// they do not recognize.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown layer type '%s'", e.Type)
}

// TypeMismatchError reports a reconstructed layer whose type tag differs
// from the record it was built from.
type TypeMismatchError struct {
	Position int
	Want     string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("record %d: reconstruct returned layer of type '%s', want '%s'", e.Position, e.Got, e.Want)
}
