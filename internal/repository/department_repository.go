package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campuskit/identity/internal/model"
	"github.com/campuskit/identity/internal/schema"
)

// DeptRepo is the query interface over the department lookup table.  The
// physical column names vary between deployments, so every method takes the
// Descriptor resolved by the schema inspector and interpolates its column
// names into the statement.  The descriptor values come from
// information_schema, never from request input, so the interpolation is
// safe; everything request-supplied stays a bind parameter.
type DeptRepo struct{ DB *sql.DB }

func NewDeptRepo(db *sql.DB) *DeptRepo { return &DeptRepo{DB: db} }

// FindByID fetches a department by its canonical id.  Returns
// sql.ErrNoRows when absent.
func (r *DeptRepo) FindByID(ctx context.Context, d schema.Descriptor, id int64) (model.Department, error) {
	q := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ? LIMIT 1",
		d.IDColumn, d.NameColumn, d.Table, d.IDColumn)
	var dept model.Department
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&dept.ID, &dept.Name)
	return dept, err
}

// FindByName fetches a department by exact name match.  The caller trims
// the name first; no LIKE, no case folding beyond what the column collation
// does.
func (r *DeptRepo) FindByName(ctx context.Context, d schema.Descriptor, name string) (model.Department, error) {
	q := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ? LIMIT 1",
		d.IDColumn, d.NameColumn, d.Table, d.NameColumn)
	var dept model.Department
	err := r.DB.QueryRowContext(ctx, q, name).Scan(&dept.ID, &dept.Name)
	return dept, err
}

// MaxID returns the highest id currently in the table, or zero when the
// table is empty.  Only used on the manual-id branch.
func (r *DeptRepo) MaxID(ctx context.Context, d schema.Descriptor) (int64, error) {
	q := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", d.IDColumn, d.Table)
	var max int64
	err := r.DB.QueryRowContext(ctx, q).Scan(&max)
	return max, err
}

// InsertAuto inserts a department by name only and returns the
// store-generated id.  Used when the id column is auto-assigned.
func (r *DeptRepo) InsertAuto(ctx context.Context, d schema.Descriptor, name string) (int64, error) {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", d.Table, d.NameColumn)
	res, err := r.DB.ExecContext(ctx, q, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertWithID inserts a department with an explicitly computed id.  Used
// when the id column is not auto-assigned.
func (r *DeptRepo) InsertWithID(ctx context.Context, d schema.Descriptor, id int64, name string) error {
	q := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)", d.Table, d.IDColumn, d.NameColumn)
	_, err := r.DB.ExecContext(ctx, q, id, name)
	return err
}
