package grammar

import (
	"fmt"

	"github.com/sha1n/mcp-symctx-server/internal/domain"
)

// ParseError is returned when the parser produces no tree.
type ParseError struct {
	Language string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Language, domain.ErrParse)
	}
	return fmt.Sprintf("%s: %s: %v", e.Language, domain.ErrParse, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrParse}
	}
	return []error{domain.ErrParse, e.Err}
}

// QueryError is returned when a query source does not compile against its grammar.
type QueryError struct {
	Language string
	Query    string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %s query: %s: %v", e.Language, e.Query, domain.ErrQuery, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{domain.ErrQuery, e.Err}
}
