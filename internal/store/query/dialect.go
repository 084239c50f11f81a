package query

import "strconv"

// Dialect renders bind placeholders for a database flavor.
type Dialect interface {
	// Placeholder returns the marker for the n-th bound value (1-based).
	Placeholder(n int) string
	// Numbered reports whether a placeholder can be referenced more than once.
	Numbered() bool
	// Name identifies the dialect in logs.
	Name() string
	// Lower wraps expr in a Unicode-aware lower-case function.
	Lower(expr string) string
}

// UnicodeLowerFunc is the SQLite scalar function the store registers for
// Unicode case folding. SQLite's built-in LOWER only folds ASCII.
const UnicodeLowerFunc = "unicode_lower"

type sqliteDialect struct{}

func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) Numbered() bool         { return false }
func (sqliteDialect) Name() string           { return "sqlite" }

func (sqliteDialect) Lower(expr string) string {
	return UnicodeLowerFunc + "(" + expr + ")"
}

type postgresDialect struct{}

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
func (postgresDialect) Numbered() bool           { return true }
func (postgresDialect) Name() string             { return "postgres" }
func (postgresDialect) Lower(expr string) string { return "LOWER(" + expr + ")" }

// Supported dialects.
var (
	SQLite   Dialect = sqliteDialect{}
	Postgres Dialect = postgresDialect{}
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, bool) {
	switch driver {
	case "sqlite", "sqlite3":
		return SQLite, true
	case "pgx", "postgres", "postgresql":
		return Postgres, true
	default:
		return nil, false
	}
}
