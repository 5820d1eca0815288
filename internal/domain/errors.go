package domain

import "errors"

var (
	// ErrNotFound indicates a content id or path that the store does not hold.
	ErrNotFound = errors.New("not found")

	// ErrNotText indicates content that is binary or not valid UTF-8.
	ErrNotText = errors.New("content is not text")

	// ErrOutOfBounds indicates a range that does not fit the text it is applied to.
	ErrOutOfBounds = errors.New("range out of bounds")

	// ErrParse indicates that the parser produced no tree.
	ErrParse = errors.New("parse failed")

	// ErrQuery indicates a grammar query that failed to compile.
	ErrQuery = errors.New("invalid grammar query")

	// ErrRevision indicates a revision that cannot be resolved or traversed.
	ErrRevision = errors.New("revision unavailable")
)
