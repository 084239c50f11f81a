package query

// CollectionListOptions selects and windows a collection listing.
// OwnerID zero with PublicOnly lists every public collection.
type CollectionListOptions struct {
	OwnerID    int64
	PublicOnly bool
	Limit      int
	Offset     int
}

// ComposeCollectionList builds the page and count statements for a collection listing.
// columns is the select list over the collections table aliased as c.
func ComposeCollectionList(d Dialect, columns string, opts CollectionListOptions) (*Composed, error) {
	limit, offset, err := Window(opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(d)
	if opts.OwnerID != 0 {
		b.WhereEq("c.owner_id", opts.OwnerID)
	}
	if opts.PublicOnly {
		b.WhereEq("c.is_public", 1)
	}

	return compose(b,
		"SELECT "+columns+" FROM collections c",
		"SELECT COUNT(*) FROM collections c",
		"c.created_at DESC, c.id ASC", limit, offset,
	), nil
}
