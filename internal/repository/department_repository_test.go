package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/campuskit/identity/internal/schema"
)

var deptDesc = schema.Descriptor{Table: "dept", IDColumn: "dept_id", NameColumn: "dept_name", AutoAssigned: true}

func TestDeptRepoFindByName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDeptRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT dept_id, dept_name FROM dept WHERE dept_name = ? LIMIT 1")).
		WithArgs("CS").
		WillReturnRows(sqlmock.NewRows([]string{"dept_id", "dept_name"}).AddRow(3, "CS"))

	d, err := repo.FindByName(context.Background(), deptDesc, "CS")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if d.ID != 3 || d.Name != "CS" {
		t.Errorf("got %+v, want {3 CS}", d)
	}
}

func TestDeptRepoMaxID_EmptyTable(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDeptRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(MAX(dept_id), 0) FROM dept")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))

	max, err := repo.MaxID(context.Background(), deptDesc)
	if err != nil {
		t.Fatalf("MaxID() error = %v", err)
	}
	if max != 0 {
		t.Errorf("max = %d, want 0 for empty table", max)
	}
}

func TestDeptRepoInsertWithID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDeptRepo(db)

	manual := deptDesc
	manual.AutoAssigned = false
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO dept (dept_id, dept_name) VALUES (?, ?)")).
		WithArgs(int64(4), "Physics").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.InsertWithID(context.Background(), manual, 4, "Physics"); err != nil {
		t.Fatalf("InsertWithID() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeptRepoInsertAuto(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDeptRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO dept (dept_name) VALUES (?)")).
		WithArgs("CS").
		WillReturnResult(sqlmock.NewResult(9, 1))

	id, err := repo.InsertAuto(context.Background(), deptDesc, "CS")
	if err != nil {
		t.Fatalf("InsertAuto() error = %v", err)
	}
	if id != 9 {
		t.Errorf("id = %d, want 9", id)
	}
}
