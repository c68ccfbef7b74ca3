// Package credref models a host's credential reference: a pointer to either
// a password record or a key record belonging to the same user.
//
// On the wire and in storage the reference is one signed integer whose sign
// selects the collection: values >= 0 index the password collection, values
// < 0 index the key collection (the id is the absolute value). The encoding
// is preserved bit-for-bit for compatibility with existing rows; inside the
// program the reference is a tagged union.
package credref

import "errors"

// Kind discriminates the referenced collection.
type Kind int

const (
	// KindPassword marks a reference into the user's password collection.
	KindPassword Kind = iota
	// KindKey marks a reference into the user's key collection.
	KindKey
)

// ErrInvalidRef is returned for references that cannot be represented in
// the signed-integer wire encoding.
var ErrInvalidRef = errors.New("credref: invalid reference")

// Ref is a tagged reference to a password or a key record.
type Ref struct {
	Kind Kind
	ID   int64
}

// PasswordRef builds a reference to a password record.
func PasswordRef(id int64) Ref { return Ref{Kind: KindPassword, ID: id} }

// KeyRef builds a reference to a key record.
func KeyRef(id int64) Ref { return Ref{Kind: KindKey, ID: id} }

// Encode converts a Ref to its signed wire integer. A negative id is never
// valid; a key reference with id 0 cannot be encoded because 0 already means
// "password 0" on the wire.
func Encode(r Ref) (int64, error) {
	if r.ID < 0 {
		return 0, ErrInvalidRef
	}
	switch r.Kind {
	case KindPassword:
		return r.ID, nil
	case KindKey:
		if r.ID == 0 {
			return 0, ErrInvalidRef
		}
		return -r.ID, nil
	default:
		return 0, ErrInvalidRef
	}
}

// Decode converts a signed wire integer back to a Ref. Zero and positive
// values are password references; negative values are key references.
func Decode(v int64) Ref {
	if v < 0 {
		return KeyRef(-v)
	}
	return PasswordRef(v)
}
