package object

import "strconv"

// String represents a string literal collapsed to its numeric hash.
//
// No string payload ever survives into the virtual machine: the
// builder hashes a literal once, at compile time, and the VM only
// ever sees Hash. Equality and set-membership stay sound as long as
// the hash function used by the builder does not collide for the
// strings a program actually compares.
type String struct {
	// Hash is the FNV-1a hash of the original string, carried as a
	// float64 so it fits the same Value representation as a Double.
	Hash float64
}

// Inspect returns a string-representation of the given value.
func (s *String) Inspect() string {
	return strconv.FormatFloat(s.Hash, 'f', -1, 64)
}

// Type returns the variant of this value.
func (s *String) Type() Type {
	return STRING
}
