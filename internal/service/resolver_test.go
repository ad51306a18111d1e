package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campuskit/identity/internal/model"
	"github.com/campuskit/identity/internal/schema"
)

func TestResolve_ByID(t *testing.T) {
	depts := newFakeDeptStore(model.Department{ID: 3, Name: "CS"})
	r := NewResolver(autoSchema(), depts)

	d, err := r.Resolve(context.Background(), DeptRef{ID: 3})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.ID != 3 || d.Name != "CS" {
		t.Errorf("got %+v, want {3 CS}", d)
	}
}

func TestResolve_ByID_Unknown(t *testing.T) {
	r := NewResolver(autoSchema(), newFakeDeptStore())

	_, err := r.Resolve(context.Background(), DeptRef{ID: 99, CreateIfMissing: true})
	if !errors.Is(err, ErrInvalidDepartment) {
		t.Errorf("Resolve() error = %v, want ErrInvalidDepartment", err)
	}
}

func TestResolve_ByName(t *testing.T) {
	depts := newFakeDeptStore(model.Department{ID: 3, Name: "CS"})
	r := NewResolver(autoSchema(), depts)

	d, err := r.Resolve(context.Background(), DeptRef{Name: "  CS  "})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.ID != 3 {
		t.Errorf("id = %d, want 3", d.ID)
	}
	if depts.inserts != 0 {
		t.Error("lookup by existing name must not insert")
	}
}

func TestResolve_EmptyName(t *testing.T) {
	r := NewResolver(autoSchema(), newFakeDeptStore())

	for _, name := range []string{"", "   "} {
		if _, err := r.Resolve(context.Background(), DeptRef{Name: name, CreateIfMissing: true}); !errors.Is(err, ErrInvalidDepartment) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidDepartment", name, err)
		}
	}
}

func TestResolve_LoginNeverCreates(t *testing.T) {
	depts := newFakeDeptStore()
	r := NewResolver(autoSchema(), depts)

	_, err := r.Resolve(context.Background(), DeptRef{Name: "Nonexistent", CreateIfMissing: false})
	if !errors.Is(err, ErrInvalidDepartment) {
		t.Fatalf("Resolve() error = %v, want ErrInvalidDepartment", err)
	}
	if depts.count() != 0 {
		t.Error("login resolution must not create a department row")
	}
}

func TestResolve_CreateAutoAssigned(t *testing.T) {
	depts := newFakeDeptStore(model.Department{ID: 5, Name: "Math"})
	r := NewResolver(autoSchema(), depts)

	d, err := r.Resolve(context.Background(), DeptRef{Name: "CS", CreateIfMissing: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Name != "CS" || d.ID == 0 {
		t.Errorf("got %+v, want created CS with store-assigned id", d)
	}
}

func TestResolve_CreateManualNextValue(t *testing.T) {
	depts := newFakeDeptStore(
		model.Department{ID: 2, Name: "Math"},
		model.Department{ID: 7, Name: "History"},
	)
	r := NewResolver(manualSchema(), depts)

	d, err := r.Resolve(context.Background(), DeptRef{Name: "CS", CreateIfMissing: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.ID != 8 {
		t.Errorf("manual id = %d, want max(id)+1 = 8", d.ID)
	}
}

func TestResolve_CreateManual_EmptyTable(t *testing.T) {
	r := NewResolver(manualSchema(), newFakeDeptStore())

	d, err := r.Resolve(context.Background(), DeptRef{Name: "CS", CreateIfMissing: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.ID != 1 {
		t.Errorf("id = %d, want 1 for first manual row", d.ID)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	depts := newFakeDeptStore()
	r := NewResolver(autoSchema(), depts)

	first, err := r.Resolve(context.Background(), DeptRef{Name: "CS", CreateIfMissing: true})
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := r.Resolve(context.Background(), DeptRef{Name: "CS", CreateIfMissing: true})
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}
	if depts.count() != 1 {
		t.Errorf("department rows = %d, want 1", depts.count())
	}
}

func TestResolve_CreationRace_AdoptsWinner(t *testing.T) {
	for _, tt := range []struct {
		name   string
		schema *fakeSchema
	}{
		{"auto-assigned", autoSchema()},
		{"manual next value", manualSchema()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			depts := newFakeDeptStore()
			// A concurrent signup slips its insert in between our not-found
			// check and our insert; our insert then hits the unique
			// constraint and the resolver must adopt the winner's row.
			depts.beforeInsert = func(f *fakeDeptStore) {
				f.depts[1] = model.Department{ID: 1, Name: "CS"}
			}
			r := NewResolver(tt.schema, depts)

			d, err := r.Resolve(context.Background(), DeptRef{Name: "CS", CreateIfMissing: true})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if d.ID != 1 || d.Name != "CS" {
				t.Errorf("got %+v, want the winner's row {1 CS}", d)
			}
			if depts.count() != 1 {
				t.Errorf("department rows = %d, want 1 after losing the race", depts.count())
			}
		})
	}
}

func TestResolve_SchemaMismatchPropagates(t *testing.T) {
	r := NewResolver(&fakeSchema{err: schema.ErrSchemaMismatch}, newFakeDeptStore())

	_, err := r.Resolve(context.Background(), DeptRef{Name: "CS", CreateIfMissing: true})
	if !errors.Is(err, schema.ErrSchemaMismatch) {
		t.Errorf("Resolve() error = %v, want ErrSchemaMismatch", err)
	}
}
