// Package schema discovers the physical shape of the department lookup
// table.  Deployments disagree on column naming (`dept_id`/`dept_name`
// versus plain `id`/`name`) and on whether the id column is auto-assigned
// by the store, so nothing in the rest of the codebase hardcodes those
// names: they are resolved here once and passed around as a Descriptor.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrSchemaMismatch is returned when the department table has no acceptable
// id or name column.  This is a deployment misconfiguration: every
// registration and login that needs department resolution fails with it
// until the table is fixed.
var ErrSchemaMismatch = errors.New("department schema mismatch")

// Descriptor records the resolved column names of the department table and
// how its id values are generated.  AutoAssigned selects between the two
// insert strategies: when true the store assigns ids (auto_increment), when
// false the resolver computes max(id)+1 itself.  A Descriptor is immutable
// once built and is passed as plain data, never re-derived per call.
type Descriptor struct {
	Table        string // physical table name
	IDColumn     string // resolved id column name
	NameColumn   string // resolved name column name
	AutoAssigned bool   // true when the id column is store-auto-assigned
}

// Column name preferences, checked in order.  A name meaning "department
// id" wins over a generic "id"; same for the name column.
var (
	idPreferred   = []string{"dept_id", "department_id", "deptid"}
	namePreferred = []string{"dept_name", "department_name", "deptname"}
)

// Inspector discovers and memoizes the Descriptor for one department table.
// It is owned by the service instance that needs it rather than living in a
// package-level cache.  Successful discovery is held for the lifetime of
// the process; a failed discovery is reported to the caller and retried on
// the next call, never cached.
type Inspector struct {
	db    *sql.DB
	table string

	mu   sync.Mutex
	desc *Descriptor
}

// NewInspector returns an Inspector for the given department table.
func NewInspector(db *sql.DB, table string) *Inspector {
	return &Inspector{db: db, table: table}
}

// Describe returns the memoized Descriptor, discovering it on first use.
// Concurrent first calls serialize on the inspector mutex; the duplicate
// discovery queries that would otherwise happen are idempotent anyway.
func (i *Inspector) Describe(ctx context.Context) (Descriptor, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.desc != nil {
		return *i.desc, nil
	}
	d, err := i.discover(ctx)
	if err != nil {
		return Descriptor{}, err
	}
	i.desc = &d
	return d, nil
}

// discover enumerates the table's columns from information_schema and picks
// the id and name columns by preference order.
func (i *Inspector) discover(ctx context.Context) (Descriptor, error) {
	rows, err := i.db.QueryContext(ctx,
		"SELECT column_name, extra FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position",
		i.table)
	if err != nil {
		return Descriptor{}, fmt.Errorf("describe %s: %w", i.table, err)
	}
	defer rows.Close()

	type column struct {
		name  string
		extra string
	}
	var cols []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.name, &c.extra); err != nil {
			return Descriptor{}, fmt.Errorf("describe %s: %w", i.table, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return Descriptor{}, fmt.Errorf("describe %s: %w", i.table, err)
	}
	if len(cols) == 0 {
		// Table absent or empty of columns; either way the schema is unusable.
		return Descriptor{}, fmt.Errorf("%w: table %q has no columns", ErrSchemaMismatch, i.table)
	}

	pick := func(preferred []string, fallback string) (string, string, bool) {
		for _, want := range preferred {
			for _, c := range cols {
				if strings.EqualFold(c.name, want) {
					return c.name, c.extra, true
				}
			}
		}
		for _, c := range cols {
			if strings.EqualFold(c.name, fallback) {
				return c.name, c.extra, true
			}
		}
		return "", "", false
	}

	idCol, idExtra, ok := pick(idPreferred, "id")
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: no id column in table %q", ErrSchemaMismatch, i.table)
	}
	nameCol, _, ok := pick(namePreferred, "name")
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: no name column in table %q", ErrSchemaMismatch, i.table)
	}

	return Descriptor{
		Table:        i.table,
		IDColumn:     idCol,
		NameColumn:   nameCol,
		AutoAssigned: strings.Contains(strings.ToLower(idExtra), "auto_increment"),
	}, nil
}
