package requestsvc

import (
	"context"
	"strings"
	"time"

	"shareit/model"
	"shareit/util/apperr"
)

type Repo interface {
	Create(ctx context.Context, req *model.Request) error
	GetByID(ctx context.Context, id int64) (*model.Request, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error)
	ListAll(ctx context.Context) ([]model.Request, error)
	ListExcludingRequestor(ctx context.Context, requestorID int64) ([]model.Request, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type Items interface {
	ListByRequest(ctx context.Context, requestID int64) ([]model.Item, error)
}

type Service interface {
	Create(ctx context.Context, requestorID int64, description string) (*model.Request, error)
	ListOwn(ctx context.Context, requestorID int64) ([]model.Request, error)
	ListOthers(ctx context.Context, requestorID int64) ([]model.Request, error)
	GetByID(ctx context.Context, requestID int64) (*model.RequestView, error)
}

type service struct {
	r     Repo
	users Users
	items Items
}

func New(r Repo, users Users, items Items) Service {
	return &service{r: r, users: users, items: items}
}

func (s *service) Create(ctx context.Context, requestorID int64, description string) (*model.Request, error) {
	requestor, err := s.users.GetByID(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if requestor == nil {
		return nil, apperr.NotFound("user %d not found", requestorID)
	}
	req := &model.Request{
		Description: strings.TrimSpace(description),
		RequestorID: requestorID,
		Created:     time.Now(),
	}
	if err := s.r.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListOwn returns an empty list for an unknown requestor instead of an error.
func (s *service) ListOwn(ctx context.Context, requestorID int64) ([]model.Request, error) {
	requestor, err := s.users.GetByID(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if requestor == nil {
		return []model.Request{}, nil
	}
	return s.r.ListByRequestor(ctx, requestorID)
}

// ListOthers excludes the caller's own requests; for an unknown caller it
// returns every request unfiltered.
func (s *service) ListOthers(ctx context.Context, requestorID int64) ([]model.Request, error) {
	requestor, err := s.users.GetByID(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if requestor == nil {
		return s.r.ListAll(ctx)
	}
	return s.r.ListExcludingRequestor(ctx, requestorID)
}

func (s *service) GetByID(ctx context.Context, requestID int64) (*model.RequestView, error) {
	req, err := s.r.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("request %d not found", requestID)
	}
	items, err := s.items.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	v := &model.RequestView{
		ID:          req.ID,
		Description: req.Description,
		RequestorID: req.RequestorID,
		Created:     req.Created,
		Items:       []model.ItemShort{},
	}
	for i := range items {
		v.Items = append(v.Items, items[i].Short())
	}
	return v, nil
}
