package itemsvc

import (
	"context"
	"strings"
	"time"

	"shareit/model"
	"shareit/util/apperr"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	Update(ctx context.Context, it *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	Delete(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, c *model.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]model.CommentView, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type Requests interface {
	GetByID(ctx context.Context, id int64) (*model.Request, error)
}

type Bookings interface {
	ListByItem(ctx context.Context, itemID int64) ([]model.Booking, error)
}

// SearchCache is a read-through cache for search results; both methods are
// no-ops when no cache is wired.
type SearchCache interface {
	Get(ctx context.Context, text string) ([]model.Item, bool)
	Set(ctx context.Context, text string, items []model.Item)
}

type CreateItem struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// UpdateItem carries PATCH fields; nil means keep the stored value.
type UpdateItem struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID int64, in CreateItem) (*model.Item, error)
	Update(ctx context.Context, ownerID, itemID int64, in UpdateItem) (*model.Item, error)
	GetByID(ctx context.Context, viewerID, itemID int64) (*model.ItemView, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.ItemView, error)
	Remove(ctx context.Context, ownerID, itemID int64) error
	Search(ctx context.Context, text string) ([]model.Item, error)
	SaveComment(ctx context.Context, authorID, itemID int64, text string) (*model.Comment, error)
}

type service struct {
	r        Repo
	users    Users
	requests Requests
	bookings Bookings
	cache    SearchCache
}

func New(r Repo, users Users, requests Requests, bookings Bookings, cache SearchCache) Service {
	return &service{r: r, users: users, requests: requests, bookings: bookings, cache: cache}
}

func (s *service) Create(ctx context.Context, ownerID int64, in CreateItem) (*model.Item, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d not found", ownerID)
	}
	if in.RequestID != nil {
		req, err := s.requests.GetByID(ctx, *in.RequestID)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, apperr.NotFound("request %d not found", *in.RequestID)
		}
	}
	it := &model.Item{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Available:   in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	if err := s.r.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, ownerID, itemID int64, in UpdateItem) (*model.Item, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d not found", ownerID)
	}
	it, err := s.r.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	if it.OwnerID != ownerID {
		return nil, apperr.Forbidden("user %d does not own item %d", ownerID, itemID)
	}

	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		it.Description = strings.TrimSpace(*in.Description)
	}
	if in.Available != nil {
		it.Available = *in.Available
	}
	if err := s.r.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, viewerID, itemID int64) (*model.ItemView, error) {
	it, err := s.r.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	return s.buildView(ctx, it, viewerID, time.Now())
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]model.ItemView, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d not found", ownerID)
	}
	items, err := s.r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	views := make([]model.ItemView, 0, len(items))
	for i := range items {
		v, err := s.buildView(ctx, &items[i], ownerID, now)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (s *service) Remove(ctx context.Context, ownerID, itemID int64) error {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}
	if owner == nil {
		return apperr.NotFound("user %d not found", ownerID)
	}
	it, err := s.r.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return apperr.NotFound("item %d not found", itemID)
	}
	if it.OwnerID != ownerID {
		return apperr.Forbidden("user %d does not own item %d", ownerID, itemID)
	}
	return s.r.Delete(ctx, itemID)
}

func (s *service) Search(ctx context.Context, text string) ([]model.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, text); ok {
			return items, nil
		}
	}
	items, err := s.r.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	if s.cache != nil {
		s.cache.Set(ctx, text, items)
	}
	return items, nil
}

func (s *service) SaveComment(ctx context.Context, authorID, itemID int64, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment text cannot be blank")
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperr.NotFound("user %d not found", authorID)
	}
	it, err := s.r.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	// Only a renter whose booking has already ended may comment. Owning the
	// item grants no comment rights.
	now := time.Now()
	bookings, err := s.bookings.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	rented := false
	for _, b := range bookings {
		if b.BookerID == authorID && b.End.Before(now) {
			rented = true
			break
		}
	}
	if !rented {
		return nil, apperr.Validation("user %d did not rent item %d", authorID, itemID)
	}

	c := &model.Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: authorID,
		Created:  now,
	}
	if err := s.r.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// buildView assembles the item payload. Booking details are exposed only to
// the item's owner.
func (s *service) buildView(ctx context.Context, it *model.Item, viewerID int64, now time.Time) (*model.ItemView, error) {
	owner, err := s.users.GetByID(ctx, it.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d not found", it.OwnerID)
	}
	comments, err := s.r.ListCommentsByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.CommentView{}
	}

	v := &model.ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		Owner:       owner.Short(),
		RequestID:   it.RequestID,
		Comments:    comments,
	}
	if viewerID != it.OwnerID {
		return v, nil
	}

	bookings, err := s.bookings.ListByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		v.Bookings = append(v.Bookings, b.Short())
	}
	v.LastBooking = lastBooking(bookings, now)
	v.NextBooking = nextBooking(bookings, now)
	return v, nil
}

// lastBooking returns the latest non-rejected booking starting at or before now.
func lastBooking(bookings []model.Booking, now time.Time) *model.BookingShort {
	var last *model.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status == model.BookingRejected || b.Start.After(now) {
			continue
		}
		if last == nil || b.Start.After(last.Start) {
			last = b
		}
	}
	if last == nil {
		return nil
	}
	short := last.Short()
	return &short
}

// nextBooking returns the earliest non-rejected booking starting after now.
func nextBooking(bookings []model.Booking, now time.Time) *model.BookingShort {
	var next *model.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status == model.BookingRejected || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	if next == nil {
		return nil
	}
	short := next.Short()
	return &short
}
