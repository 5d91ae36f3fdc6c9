package db

import (
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"civfeed/query"
)

// EligibleFilter restricts a source to rows whose visibility flag
// permits feed inclusion.
type EligibleFilter struct {
	Column string // e.g. posts.is_public, news.is_published
}

func (f *EligibleFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	sb.Where(sb.Equal(f.Column, 1))
}

// CategoryFilter matches a category value case-insensitively against
// the source's own category representation.
type CategoryFilter struct {
	Column string
	Value  string
}

func (f *CategoryFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if f.Value == "" {
		return
	}
	sb.Where(sb.Equal(fmt.Sprintf("LOWER(%s)", f.Column), strings.ToLower(f.Value)))
}

// SinceFilter restricts to rows created at or after a unix timestamp.
// The lower bound is inclusive.
type SinceFilter struct {
	Column string
	Since  int64
}

func (f *SinceFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if f.Since <= 0 {
		return
	}
	sb.Where(sb.GreaterEqualThan(f.Column, f.Since))
}

var _ query.FilterStrategy = (*EligibleFilter)(nil)
var _ query.FilterStrategy = (*CategoryFilter)(nil)
var _ query.FilterStrategy = (*SinceFilter)(nil)
