package service

// In-memory fakes for the store interfaces.  They emulate just enough of
// MySQL's behavior for the orchestration logic under test: sql.ErrNoRows on
// misses, a driver-style 1062 message on unique violations, and a hook to
// interleave a concurrent writer between lookup and insert.

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campuskit/identity/internal/model"
	"github.com/campuskit/identity/internal/repository"
	"github.com/campuskit/identity/internal/schema"
)

var errDuplicate = errors.New("Error 1062 (23000): Duplicate entry")

type fakeSchema struct {
	desc schema.Descriptor
	err  error
}

func (f *fakeSchema) Describe(ctx context.Context) (schema.Descriptor, error) {
	if f.err != nil {
		return schema.Descriptor{}, f.err
	}
	return f.desc, nil
}

func autoSchema() *fakeSchema {
	return &fakeSchema{desc: schema.Descriptor{
		Table: "dept", IDColumn: "dept_id", NameColumn: "dept_name", AutoAssigned: true,
	}}
}

func manualSchema() *fakeSchema {
	return &fakeSchema{desc: schema.Descriptor{
		Table: "dept", IDColumn: "dept_id", NameColumn: "dept_name", AutoAssigned: false,
	}}
}

type fakeDeptStore struct {
	depts   map[int64]model.Department
	inserts int
	// beforeInsert runs once immediately before the next insert, letting a
	// test emulate a concurrent signup that wins the creation race.
	beforeInsert func(f *fakeDeptStore)
}

func newFakeDeptStore(rows ...model.Department) *fakeDeptStore {
	f := &fakeDeptStore{depts: make(map[int64]model.Department)}
	for _, d := range rows {
		f.depts[d.ID] = d
	}
	return f
}

func (f *fakeDeptStore) FindByID(ctx context.Context, _ schema.Descriptor, id int64) (model.Department, error) {
	d, ok := f.depts[id]
	if !ok {
		return model.Department{}, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeDeptStore) FindByName(ctx context.Context, _ schema.Descriptor, name string) (model.Department, error) {
	for _, d := range f.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return model.Department{}, sql.ErrNoRows
}

func (f *fakeDeptStore) MaxID(ctx context.Context, _ schema.Descriptor) (int64, error) {
	var max int64
	for id := range f.depts {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (f *fakeDeptStore) insert(id int64, name string) (int64, error) {
	if f.beforeInsert != nil {
		hook := f.beforeInsert
		f.beforeInsert = nil
		hook(f)
	}
	f.inserts++
	for existing, d := range f.depts {
		if existing == id || d.Name == name {
			return 0, errDuplicate
		}
	}
	f.depts[id] = model.Department{ID: id, Name: name}
	return id, nil
}

func (f *fakeDeptStore) InsertAuto(ctx context.Context, _ schema.Descriptor, name string) (int64, error) {
	max, _ := f.MaxID(ctx, schema.Descriptor{})
	return f.insert(max+1, name)
}

func (f *fakeDeptStore) InsertWithID(ctx context.Context, _ schema.Descriptor, id int64, name string) error {
	_, err := f.insert(id, name)
	return err
}

func (f *fakeDeptStore) count() int { return len(f.depts) }

type fakeUserStore struct {
	users  map[int64]model.User
	depts  *fakeDeptStore
	nextID int64
}

func newFakeUserStore(depts *fakeDeptStore) *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]model.User), depts: depts}
}

func (f *fakeUserStore) Create(ctx context.Context, u model.NewUser) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			// Email uniqueness is global, regardless of role or department.
			return 0, repository.ErrEmailExists
		}
	}
	f.nextID++
	f.users[f.nextID] = model.User{
		ID: f.nextID, Username: u.Username, Email: u.Email, Phone: u.Phone,
		Role: u.Role, DeptID: u.DeptID, PasswordHash: u.PasswordHash,
	}
	return f.nextID, nil
}

func (f *fakeUserStore) FindByEmailRoleDept(ctx context.Context, email, role string, deptID int64) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Role == role && u.DeptID == deptID {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) FindByIDWithDeptName(ctx context.Context, id int64, d schema.Descriptor) (model.User, string, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, "", sql.ErrNoRows
	}
	name := ""
	if dept, ok := f.depts.depts[u.DeptID]; ok {
		name = dept.Name
	}
	return u, name, nil
}
