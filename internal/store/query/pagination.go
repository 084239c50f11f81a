package query

import (
	"errors"
	"fmt"
)

// Page size bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidPagination is returned for a negative limit or offset.
var ErrInvalidPagination = errors.New("limit and offset must be non-negative integers")

// Window resolves the limit/offset pair actually applied to a query.
// A zero limit selects DefaultLimit and limits above MaxLimit are clamped.
func Window(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, fmt.Errorf("%w (limit=%d, offset=%d)", ErrInvalidPagination, limit, offset)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, offset, nil
}

// Composed is a page statement and its matching count statement.
// Both share the same predicate text and argument list.
type Composed struct {
	Page   Statement
	Count  Statement
	Limit  int
	Offset int
}

func compose(b *Builder, selectSQL, countSQL, orderBy string, limit, offset int) *Composed {
	where := b.WhereSQL()
	return &Composed{
		Page: Statement{
			SQL:  fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d", selectSQL, where, orderBy, limit, offset),
			Args: b.Args(),
		},
		Count: Statement{
			SQL:  countSQL + where,
			Args: b.Args(),
		},
		Limit:  limit,
		Offset: offset,
	}
}
