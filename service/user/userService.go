package usersvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"shareit/model"
	"shareit/util/apperr"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
}

// UpdateUser carries PATCH fields; nil means keep the stored value.
type UpdateUser struct {
	Name  *string
	Email *string
}

type Service interface {
	Create(ctx context.Context, name, email string) (*model.User, error)
	Update(ctx context.Context, id int64, in UpdateUser) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, name, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	existing, err := s.r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email %q is already registered", email)
	}
	u := &model.User{Name: strings.TrimSpace(name), Email: email}
	if err := s.r.Create(ctx, u); err != nil {
		// The unique index closes the race the lookup above leaves open.
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email %q is already registered", email)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, id int64, in UpdateUser) (*model.User, error) {
	if in.Email != nil {
		taken, err := s.r.GetByEmail(ctx, strings.TrimSpace(*in.Email))
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, apperr.Conflict("email %q is already registered", *in.Email)
		}
	}
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if err := s.r.Update(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email %q is already registered", u.Email)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return u, nil
}

func (s *service) List(ctx context.Context) ([]model.User, error) {
	return s.r.List(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("user %d not found", id)
	}
	return s.r.Delete(ctx, id)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
