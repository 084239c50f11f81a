package query

import (
	"strings"
	"testing"
)

func TestBuilder_BindAndWhere(t *testing.T) {
	tests := []struct {
		name        string
		dialect     Dialect
		expectedSQL string
	}{
		{"sqlite", SQLite, " WHERE a = ? AND b IN (?, ?)"},
		{"postgres", Postgres, " WHERE a = $1 AND b IN ($2, $3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(tt.dialect)
			b.WhereEq("a", 1)
			b.Where("b IN " + b.InList([]string{"x", "y"}))

			if got := b.WhereSQL(); got != tt.expectedSQL {
				t.Errorf("WhereSQL: got %q, want %q", got, tt.expectedSQL)
			}
			if b.Len() != 3 {
				t.Errorf("expected 3 args, got %d", b.Len())
			}
		})
	}
}

func TestBuilder_EmptyWhere(t *testing.T) {
	b := NewBuilder(SQLite)
	if got := b.WhereSQL(); got != "" {
		t.Errorf("expected empty WHERE, got %q", got)
	}
	if len(b.Args()) != 0 {
		t.Errorf("expected no args, got %v", b.Args())
	}
}

func TestBuilder_Reuse(t *testing.T) {
	t.Run("postgres repeats the placeholder", func(t *testing.T) {
		b := NewBuilder(Postgres)
		p := b.Bind("term")
		if got := b.Reuse(p); got != "$1" {
			t.Errorf("Reuse: got %q, want $1", got)
		}
		if b.Len() != 1 {
			t.Errorf("expected a single bound value, got %d", b.Len())
		}
	})

	t.Run("sqlite re-appends the value", func(t *testing.T) {
		b := NewBuilder(SQLite)
		p := b.Bind("term")
		if got := b.Reuse(p); got != "?" {
			t.Errorf("Reuse: got %q, want ?", got)
		}
		args := b.Args()
		if len(args) != 2 || args[0] != "term" || args[1] != "term" {
			t.Errorf("expected [term term], got %v", args)
		}
	})
}

func TestBuilder_ArgsIsACopy(t *testing.T) {
	b := NewBuilder(SQLite)
	b.WhereEq("a", 1)
	args := b.Args()
	args[0] = 99
	if b.Args()[0] != 1 {
		t.Error("mutating the returned slice changed the builder")
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dragon", "%dragon%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		if got := ContainsPattern(tt.in); got != tt.want {
			t.Errorf("ContainsPattern(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"sqlite", "sqlite3"} {
		d, ok := DialectFor(name)
		if !ok || d.Name() != "sqlite" {
			t.Errorf("DialectFor(%q): got %v, %v", name, d, ok)
		}
	}
	for _, name := range []string{"pgx", "postgres"} {
		d, ok := DialectFor(name)
		if !ok || d.Name() != "postgres" {
			t.Errorf("DialectFor(%q): got %v, %v", name, d, ok)
		}
	}
	if _, ok := DialectFor("mysql"); ok {
		t.Error("mysql should not be supported")
	}
}

func TestPlaceholder_Postgres(t *testing.T) {
	if got := Postgres.Placeholder(12); !strings.HasPrefix(got, "$") || got != "$12" {
		t.Errorf("got %q", got)
	}
}
