package query

import (
	"slices"
	"strings"
)

// Prompt list scopes.
const (
	ScopeOwn    = "own"
	ScopePublic = "public"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// promptSortColumns is the allow-list of sort keys. Anything else sorts by updated_at.
var promptSortColumns = map[string]string{
	"title":       "p.title",
	"created":     "p.created_at",
	"created_at":  "p.created_at",
	"updated":     "p.updated_at",
	"updated_at":  "p.updated_at",
	"usage":       "p.usage_count",
	"usage_count": "p.usage_count",
	"rating":      "p.rating",
}

// PromptListOptions selects, orders and windows a prompt listing.
type PromptListOptions struct {
	Category      *string
	Search        string
	Scope         string
	CollectionID  string
	SortBy        string
	SortDirection string
	Tags          []string
	ViewerID      int64
	Limit         int
	Offset        int
	FavoritesOnly bool
}

// PromptSortColumn maps a sort key to its physical column.
func PromptSortColumn(key string) string {
	if col, ok := promptSortColumns[strings.ToLower(strings.TrimSpace(key))]; ok {
		return col
	}
	return "p.updated_at"
}

// Direction maps a requested direction to ASC or DESC.
func Direction(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), SortAsc) {
		return "ASC"
	}
	return "DESC"
}

// ComposePromptList builds the page and count statements for a prompt listing.
// columns is the select list over the prompts table aliased as p.
func ComposePromptList(d Dialect, columns string, opts PromptListOptions) (*Composed, error) {
	limit, offset, err := Window(opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(d)

	if opts.Scope == ScopePublic {
		b.WhereEq("p.is_public", 1)
	} else {
		b.WhereEq("p.owner_id", opts.ViewerID)
	}

	if opts.Category != nil && *opts.Category != "" {
		b.WhereEq("p.category", *opts.Category)
	}

	if term := strings.TrimSpace(opts.Search); term != "" {
		pat := b.Bind(ContainsPattern(term))
		b.Where("(" + d.Lower("p.title") + " LIKE " + pat.Placeholder() + ` ESCAPE '\'` +
			" OR " + d.Lower("p.body") + " LIKE " + b.Reuse(pat) + ` ESCAPE '\')`)
	}

	if tags := distinct(opts.Tags); len(tags) > 0 {
		in := b.InList(tags)
		want := b.Bind(len(tags))
		b.Where("(SELECT COUNT(DISTINCT pt.tag) FROM prompt_tags pt WHERE pt.prompt_id = p.id AND pt.tag IN " +
			in + ") = " + want.Placeholder())
	}

	// Membership only counts when the viewer may see the collection itself.
	if opts.CollectionID != "" {
		coll := b.Bind(opts.CollectionID)
		kind := b.Bind("prompt")
		viewer := b.Bind(opts.ViewerID)
		public := b.Bind(1)
		b.Where("EXISTS (SELECT 1 FROM collection_items ci JOIN collections c ON c.id = ci.collection_id" +
			" WHERE ci.item_id = p.id AND ci.collection_id = " + coll.Placeholder() +
			" AND ci.item_type = " + kind.Placeholder() +
			" AND (c.owner_id = " + viewer.Placeholder() + " OR c.is_public = " + public.Placeholder() + "))")
	}

	if opts.FavoritesOnly {
		if opts.Scope == ScopePublic {
			b.WhereEq("p.owner_id", opts.ViewerID)
		}
		b.WhereEq("p.is_favorite", 1)
	}

	orderBy := PromptSortColumn(opts.SortBy) + " " + Direction(opts.SortDirection) + ", p.id ASC"

	return compose(b,
		"SELECT "+columns+" FROM prompts p",
		"SELECT COUNT(*) FROM prompts p",
		orderBy, limit, offset,
	), nil
}

// distinct drops empty strings and repeats, keeping first-seen order.
func distinct(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
