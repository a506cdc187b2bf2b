package bookingsvc

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"shareit/model"
	"shareit/queue"
	"shareit/util/apperr"
)

type Repo interface {
	CreateChecked(ctx context.Context, b *model.Booking, check func(existing []model.Booking) error) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error)
}

type Items interface {
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Events receives booking decisions. Publishing is best-effort; delivery
// failures never fail the request.
type Events interface {
	BookingStatusChanged(ctx context.Context, ev queue.BookingStatusEvent) error
}

type Service interface {
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*model.BookingView, error)
	UpdateStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*model.BookingView, error)
	GetByID(ctx context.Context, viewerID, bookingID int64) (*model.BookingView, error)
	ListByBooker(ctx context.Context, userID int64, state string) ([]model.BookingView, error)
	ListByOwner(ctx context.Context, ownerID int64, state string) ([]model.BookingView, error)
}

type service struct {
	r     Repo
	items Items
	users Users
	ev    Events
}

func New(r Repo, items Items, users Users, ev Events) Service {
	return &service{r: r, items: items, users: users, ev: ev}
}

func (s *service) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*model.BookingView, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	booker, err := s.users.GetByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if booker == nil {
		return nil, apperr.NotFound("user %d not found", bookerID)
	}

	if !item.Available {
		return nil, apperr.Validation("item %d is not available for booking", itemID)
	}
	if item.OwnerID == bookerID {
		return nil, apperr.Validation("cannot book your own item")
	}
	if start.Equal(end) {
		return nil, apperr.Validation("booking start and end cannot be the same moment")
	}
	if end.Before(start) {
		return nil, apperr.Validation("booking end cannot precede its start")
	}
	if start.Before(time.Now()) {
		return nil, apperr.Validation("booking start cannot be in the past")
	}

	b := &model.Booking{
		Start:    start,
		End:      end,
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   model.BookingWaiting,
	}
	err = s.r.CreateChecked(ctx, b, func(existing []model.Booking) error {
		return checkOverlap(existing, start, item.Name)
	})
	if err != nil {
		// A serialization failure means a concurrent booking on the same
		// item won; the caller can simply retry.
		if isSerializationFailure(err) {
			return nil, apperr.Conflict("booking on item %q conflicts with a concurrent request", item.Name)
		}
		return nil, err
	}
	return view(b, item, booker), nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.SerializationFailure
}

// checkOverlap rejects the requested period when any existing booking on the
// item conflicts with it. An existing booking conflicts unless it ends before
// the requested start or begins after it; the test anchors on the requested
// start only. Every booking counts here regardless of status.
func checkOverlap(existing []model.Booking, start time.Time, itemName string) error {
	for _, e := range existing {
		if !(e.End.Before(start) || e.Start.After(start)) {
			return apperr.Validation("booking dates overlap an existing booking on item %q", itemName)
		}
	}
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*model.BookingView, error) {
	b, err := s.r.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}
	if b.Status == model.BookingApproved && approved {
		return nil, apperr.Validation("booking %d has already been processed and is %s", bookingID, b.Status)
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.Forbidden("user %d cannot manage this booking", ownerID)
	}

	// Ownership is verified against the owner's item collection.
	ownerItems, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var item *model.Item
	for i := range ownerItems {
		if ownerItems[i].ID == b.ItemID {
			item = &ownerItems[i]
			break
		}
	}
	if item == nil {
		return nil, apperr.NotFound("booked item not found among items of user %d", ownerID)
	}

	status := model.BookingRejected
	if approved {
		status = model.BookingApproved
	}
	if err := s.r.UpdateStatus(ctx, b.ID, status); err != nil {
		return nil, err
	}
	b.Status = status

	booker, err := s.users.GetByID(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}
	if booker == nil {
		return nil, apperr.NotFound("user %d not found", b.BookerID)
	}

	if s.ev != nil {
		_ = s.ev.BookingStatusChanged(ctx, queue.BookingStatusEvent{
			BookingID: b.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			BookerID:  b.BookerID,
			OwnerID:   ownerID,
			Status:    string(status),
			Start:     b.Start.Format(time.RFC3339),
			End:       b.End.Format(time.RFC3339),
			DecidedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return view(b, item, booker), nil
}

func (s *service) GetByID(ctx context.Context, viewerID, bookingID int64) (*model.BookingView, error) {
	b, err := s.r.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}
	item, err := s.items.GetByID(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", b.ItemID)
	}
	// Unauthorized viewers get the same answer as a missing booking.
	if viewerID != b.BookerID && viewerID != item.OwnerID {
		return nil, apperr.NotFound("booking %d not found for user %d", bookingID, viewerID)
	}
	booker, err := s.users.GetByID(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}
	if booker == nil {
		return nil, apperr.NotFound("user %d not found", b.BookerID)
	}
	return view(b, item, booker), nil
}

func (s *service) ListByBooker(ctx context.Context, userID int64, state string) ([]model.BookingView, error) {
	st, err := model.ParseBookingState(state)
	if err != nil {
		return nil, apperr.Validation("%s", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	return s.r.ListByBooker(ctx, userID, st, time.Now())
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, state string) ([]model.BookingView, error) {
	st, err := model.ParseBookingState(state)
	if err != nil {
		return nil, apperr.Validation("%s", err)
	}
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", ownerID)
	}
	return s.r.ListByOwner(ctx, ownerID, st, time.Now())
}

func view(b *model.Booking, item *model.Item, booker *model.User) *model.BookingView {
	return &model.BookingView{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Item:   item.Short(),
		Booker: booker.Short(),
		Status: b.Status,
	}
}
