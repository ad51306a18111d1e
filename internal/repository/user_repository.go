package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campuskit/identity/internal/model"
	"github.com/campuskit/identity/internal/schema"
)

// UserRepo is a thin query interface over the auth_users table.  Each
// method is a single parameterized statement; all business logic lives in
// the service layer.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// EnsureTable creates the auth_users table when it does not exist yet.
// Called once at startup.  The department table is deliberately not created
// here: its shape is discovered, not assumed.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS auth_users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(150) NOT NULL UNIQUE,
		phone_no VARCHAR(10) NOT NULL,
		role VARCHAR(20) NOT NULL,
		dept_id INT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("ensure auth_users table: %w", err)
	}
	return nil
}

// Create inserts a user row and returns its store-assigned id.  A unique
// violation on email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.NewUser) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_users (username, email, phone_no, role, dept_id, password) VALUES (?, ?, ?, ?, ?, ?)",
		u.Username, u.Email, u.Phone, u.Role, u.DeptID, u.PasswordHash)
	if err != nil {
		if IsDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// FindByEmailRoleDept fetches the single row matching the credential
// triple.  Email is unique on its own; role and department narrow further
// so a correct password presented with the wrong role or department still
// misses.  Returns sql.ErrNoRows when no row matches.
func (r *UserRepo) FindByEmailRoleDept(ctx context.Context, email, role string, deptID int64) (model.User, error) {
	var u model.User
	var dept sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, email, phone_no, role, dept_id, password, created_at FROM auth_users WHERE email = ? AND role = ? AND dept_id = ? LIMIT 1",
		email, role, deptID).
		Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.Role, &dept, &u.PasswordHash, &u.CreatedAt)
	u.DeptID = dept.Int64
	return u, err
}

// FindByIDWithDeptName fetches a user together with its department name via
// a join against the discovered department columns.  Used only for the
// first profile hydration after login; afterwards the session cache answers.
func (r *UserRepo) FindByIDWithDeptName(ctx context.Context, id int64, d schema.Descriptor) (model.User, string, error) {
	q := fmt.Sprintf(
		"SELECT u.id, u.username, u.email, u.phone_no, u.role, u.dept_id, d.%s FROM auth_users u LEFT JOIN %s d ON u.dept_id = d.%s WHERE u.id = ? LIMIT 1",
		d.NameColumn, d.Table, d.IDColumn)
	var u model.User
	var dept sql.NullInt64
	var deptName sql.NullString
	err := r.DB.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.Role, &dept, &deptName)
	u.DeptID = dept.Int64
	return u, deptName.String, err
}
