package domain

import "encoding/hex"

// ContentID is the git object id of a blob. Identical content always has
// the same id, regardless of the path it appears at.
type ContentID [20]byte

// String returns the lowercase hex form of the id.
func (id ContentID) String() string {
	return hex.EncodeToString(id[:])
}
