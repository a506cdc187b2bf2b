package usersvc

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"shareit/model"
	"shareit/util/apperr"
)

type repoMock struct {
	createFn     func(ctx context.Context, u *model.User) error
	updateFn     func(ctx context.Context, u *model.User) error
	getByIDFn    func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	listFn       func(ctx context.Context) ([]model.User, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (m *repoMock) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		u.ID = 1
		return nil
	}
	return m.createFn(ctx, u)
}

func (m *repoMock) Update(ctx context.Context, u *model.User) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, u)
}

func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn == nil {
		return nil, nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *repoMock) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn == nil {
		return nil, nil
	}
	return m.getByEmailFn(ctx, email)
}

func (m *repoMock) List(ctx context.Context) ([]model.User, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func (m *repoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

func TestCreate(t *testing.T) {
	svc := New(&repoMock{})

	u, err := svc.Create(context.Background(), "  alice ", " alice@example.com ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Name != "alice" || u.Email != "alice@example.com" {
		t.Fatalf("fields not trimmed: %+v", u)
	}
	if u.ID == 0 {
		t.Fatal("expected assigned id")
	}
}

func TestCreate_EmailTaken(t *testing.T) {
	r := &repoMock{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 1, Email: email}, nil
		},
	}
	svc := New(r)

	_, err := svc.Create(context.Background(), "bob", "alice@example.com")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

// A concurrent insert can slip past the lookup; the unique index surfaces it
// as a pg error that still maps to a conflict.
func TestCreate_UniqueViolationBackstop(t *testing.T) {
	r := &repoMock{
		createFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	svc := New(r)

	_, err := svc.Create(context.Background(), "bob", "alice@example.com")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdate_PatchSemantics(t *testing.T) {
	r := &repoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Name: "alice", Email: "alice@example.com"}, nil
		},
	}
	svc := New(r)
	ctx := context.Background()

	name := "alicia"
	u, err := svc.Update(ctx, 1, UpdateUser{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != "alicia" || u.Email != "alice@example.com" {
		t.Fatalf("patch fallback broken: %+v", u)
	}

	email := "alicia@example.com"
	u, err = svc.Update(ctx, 1, UpdateUser{Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != "alicia" && u.Name != "alice" {
		t.Fatalf("unexpected name: %q", u.Name)
	}
	if u.Email != "alicia@example.com" {
		t.Fatalf("email not applied: %q", u.Email)
	}
}

func TestUpdate_EmailTaken(t *testing.T) {
	r := &repoMock{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 2, Email: email}, nil
		},
	}
	svc := New(r)

	email := "bob@example.com"
	_, err := svc.Update(context.Background(), 1, UpdateUser{Email: &email})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := New(&repoMock{})

	name := "x"
	_, err := svc.Update(context.Background(), 99, UpdateUser{Name: &name})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := New(&repoMock{})

	_, err := svc.GetByID(context.Background(), 99)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	deleted := false
	r := &repoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if id == 1 {
				return &model.User{ID: 1}, nil
			}
			return nil, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := New(r)
	ctx := context.Background()

	if err := svc.Delete(ctx, 99); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if deleted {
		t.Fatal("delete must not run for a missing user")
	}
	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to run")
	}
}
