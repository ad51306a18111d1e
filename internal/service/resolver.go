package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/campuskit/identity/internal/model"
	"github.com/campuskit/identity/internal/repository"
	"github.com/campuskit/identity/internal/schema"
)

// SchemaSource yields the discovered department-table descriptor.
// Implemented by schema.Inspector.
type SchemaSource interface {
	Describe(ctx context.Context) (schema.Descriptor, error)
}

// DeptStore is the slice of the department repository the resolver needs.
// Implemented by repository.DeptRepo.
type DeptStore interface {
	FindByID(ctx context.Context, d schema.Descriptor, id int64) (model.Department, error)
	FindByName(ctx context.Context, d schema.Descriptor, name string) (model.Department, error)
	MaxID(ctx context.Context, d schema.Descriptor) (int64, error)
	InsertAuto(ctx context.Context, d schema.Descriptor, name string) (int64, error)
	InsertWithID(ctx context.Context, d schema.Descriptor, id int64, name string) error
}

// DeptRef is a caller-supplied department reference: a positive id, or a
// free-text name, plus the policy flag distinguishing signup (may create)
// from login (must find).
type DeptRef struct {
	ID              int64
	Name            string
	CreateIfMissing bool
}

// Resolver turns a DeptRef into the canonical (id, name) pair, creating a
// row when permitted and absent.  The id-generation strategy comes from the
// descriptor: store-assigned ids insert by name only, manual ids compute
// max(id)+1.  Creation is not wrapped in a transaction; the store's unique
// constraints arbitrate concurrent creation and the loser re-resolves.
type Resolver struct {
	schema SchemaSource
	depts  DeptStore
}

func NewResolver(s SchemaSource, d DeptStore) *Resolver {
	return &Resolver{schema: s, depts: d}
}

// Resolve applies the resolution policy in order: direct id lookup, name
// lookup, then optional creation.  An unknown id or name without creation
// rights is ErrInvalidDepartment; schema discovery failure propagates as a
// hard failure of the whole request.
func (r *Resolver) Resolve(ctx context.Context, ref DeptRef) (model.Department, error) {
	desc, err := r.schema.Describe(ctx)
	if err != nil {
		return model.Department{}, err
	}

	if ref.ID > 0 {
		dept, err := r.depts.FindByID(ctx, desc, ref.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Department{}, ErrInvalidDepartment
		}
		if err != nil {
			return model.Department{}, fmt.Errorf("department lookup by id: %w", err)
		}
		return dept, nil
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return model.Department{}, ErrInvalidDepartment
	}

	dept, err := r.depts.FindByName(ctx, desc, name)
	if err == nil {
		return dept, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Department{}, fmt.Errorf("department lookup by name: %w", err)
	}
	if !ref.CreateIfMissing {
		// Login path: an unknown department is never auto-created.
		return model.Department{}, ErrInvalidDepartment
	}

	return r.create(ctx, desc, name)
}

// create inserts a new department row using the strategy the descriptor
// selected.  Two concurrent signups for the same new name can both reach
// this point; whichever insert loses to a unique constraint (name, or the
// manually computed id) falls back to a fresh lookup and adopts the
// winner's row.
func (r *Resolver) create(ctx context.Context, desc schema.Descriptor, name string) (model.Department, error) {
	if desc.AutoAssigned {
		id, err := r.depts.InsertAuto(ctx, desc, name)
		if err == nil {
			return model.Department{ID: id, Name: name}, nil
		}
		if !repository.IsDuplicate(err) {
			return model.Department{}, fmt.Errorf("department insert: %w", err)
		}
	} else {
		max, err := r.depts.MaxID(ctx, desc)
		if err != nil {
			return model.Department{}, fmt.Errorf("department max id: %w", err)
		}
		err = r.depts.InsertWithID(ctx, desc, max+1, name)
		if err == nil {
			return model.Department{ID: max + 1, Name: name}, nil
		}
		if !repository.IsDuplicate(err) {
			return model.Department{}, fmt.Errorf("department insert: %w", err)
		}
	}

	// Lost the creation race: the winner's row must exist now.
	dept, err := r.depts.FindByName(ctx, desc, name)
	if errors.Is(err, sql.ErrNoRows) {
		// Duplicate id collision with a differently named row; the caller
		// can only retry.
		return model.Department{}, ErrInvalidDepartment
	}
	if err != nil {
		return model.Department{}, fmt.Errorf("department re-resolve: %w", err)
	}
	return dept, nil
}
