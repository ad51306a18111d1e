package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/campuskit/identity/internal/model"
	"github.com/campuskit/identity/internal/schema"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUserRepoCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO auth_users (username, email, phone_no, role, dept_id, password) VALUES (?, ?, ?, ?, ?, ?)")).
		WithArgs("ann", "a@x.com", "9876543210", model.RoleStudent, int64(3), "hashed").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.Create(context.Background(), model.NewUser{
		Username: "ann", Email: "a@x.com", Phone: "9876543210",
		Role: model.RoleStudent, DeptID: 3, PasswordHash: "hashed",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
}

func TestUserRepoCreate_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO auth_users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'auth_users.email'"))

	_, err := repo.Create(context.Background(), model.NewUser{
		Username: "ann", Email: "a@x.com", Phone: "9876543210",
		Role: model.RoleTeacher, DeptID: 1, PasswordHash: "hashed",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create() error = %v, want ErrEmailExists", err)
	}
}

func TestUserRepoFindByEmailRoleDept(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, username, email, phone_no, role, dept_id, password, created_at FROM auth_users WHERE email = ? AND role = ? AND dept_id = ? LIMIT 1")).
		WithArgs("a@x.com", model.RoleStudent, int64(3)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "username", "email", "phone_no", "role", "dept_id", "password", "created_at"}).
			AddRow(7, "ann", "a@x.com", "9876543210", model.RoleStudent, 3, "hashed", created))

	u, err := repo.FindByEmailRoleDept(context.Background(), "a@x.com", model.RoleStudent, 3)
	if err != nil {
		t.Fatalf("FindByEmailRoleDept() error = %v", err)
	}
	if u.ID != 7 || u.DeptID != 3 || u.PasswordHash != "hashed" {
		t.Errorf("unexpected row: %+v", u)
	}
}

func TestUserRepoFindByEmailRoleDept_NoMatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT id, username, email").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmailRoleDept(context.Background(), "a@x.com", model.RoleTeacher, 3)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestUserRepoFindByIDWithDeptName_UsesDiscoveredColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	desc := schema.Descriptor{Table: "dept", IDColumn: "dept_id", NameColumn: "dept_name"}
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT u.id, u.username, u.email, u.phone_no, u.role, u.dept_id, d.dept_name FROM auth_users u LEFT JOIN dept d ON u.dept_id = d.dept_id WHERE u.id = ? LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "username", "email", "phone_no", "role", "dept_id", "dept_name"}).
			AddRow(7, "ann", "a@x.com", "9876543210", model.RoleStudent, 3, "CS"))

	u, deptName, err := repo.FindByIDWithDeptName(context.Background(), 7, desc)
	if err != nil {
		t.Fatalf("FindByIDWithDeptName() error = %v", err)
	}
	if u.ID != 7 || deptName != "CS" {
		t.Errorf("got id=%d dept=%q, want 7/CS", u.ID, deptName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
