package query

import (
	"github.com/huandu/go-sqlbuilder"
)

// FilterStrategy adds WHERE conditions to a source query
type FilterStrategy interface {
	// ApplyFilter adds filter conditions to the query builder
	ApplyFilter(sb *sqlbuilder.SelectBuilder)
}

// SortTerm is a single ORDER BY term resolved against a source's
// column allowlist.
type SortTerm struct {
	Field string
	Desc  bool
}

// Descending is a convenience constructor for the common sort shape.
func Descending(field string) SortTerm {
	return SortTerm{Field: field, Desc: true}
}
