package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "code", "name", "archived"}, func() any { return nil })
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "Default", orderBy: "", want: "name ASC"},
		{name: "Ascending", orderBy: "code", want: "code ASC"},
		{name: "Descending", orderBy: "-code", want: "code DESC"},
		{name: "ExplicitPlus", orderBy: "+name", want: "name ASC"},
		{name: "UnknownColumn", orderBy: "password", wantErr: true},
		{name: "InjectionAttempt", orderBy: "name; DROP TABLE test_table", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.orderBy, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy(%q) failed: %v", tt.orderBy, err)
			}
			if got != tt.want {
				t.Errorf("parseOrderBy(%q)\nwant: %s\ngot:  %s", tt.orderBy, tt.want, got)
			}
		})
	}
}

func TestBaseSelectSQL(t *testing.T) {
	repo := newTestRepo()

	sql, args, err := repo.baseSelect().
		Where(squirrel.Eq{"archived": false}).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, code, name, archived FROM test_table WHERE archived = $1"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != false {
		t.Errorf("Args mismatch: %v", args)
	}
}

func TestSearchFilterSQL(t *testing.T) {
	repo := newTestRepo()

	pattern := "%bolt%"
	sql, args, err := repo.baseSelect().
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		}).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, code, name, archived FROM test_table WHERE (name ILIKE $1 OR code ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 2 {
		t.Fatalf("Args count mismatch: %v", args)
	}
}
