package bookingsvc

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"shareit/model"
	"shareit/queue"
	"shareit/util/apperr"
)

type repoMock struct {
	createCheckedFn func(ctx context.Context, b *model.Booking, check func([]model.Booking) error) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Booking, error)
	updateStatusFn  func(ctx context.Context, id int64, status model.BookingStatus) error
	listByBookerFn  func(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error)
	listByOwnerFn   func(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error)
}

func (m *repoMock) CreateChecked(ctx context.Context, b *model.Booking, check func([]model.Booking) error) error {
	if m.createCheckedFn != nil {
		return m.createCheckedFn(ctx, b, check)
	}
	if err := check(nil); err != nil {
		return err
	}
	b.ID = 1
	return nil
}

func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if m.getByIDFn == nil {
		return nil, nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *repoMock) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	if m.updateStatusFn == nil {
		return nil
	}
	return m.updateStatusFn(ctx, id, status)
}

func (m *repoMock) ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error) {
	if m.listByBookerFn == nil {
		return nil, nil
	}
	return m.listByBookerFn(ctx, bookerID, state, now)
}

func (m *repoMock) ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error) {
	if m.listByOwnerFn == nil {
		return nil, nil
	}
	return m.listByOwnerFn(ctx, ownerID, state, now)
}

type itemsMock struct {
	items map[int64]model.Item
}

func (m *itemsMock) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	if it, ok := m.items[id]; ok {
		return &it, nil
	}
	return nil, nil
}

func (m *itemsMock) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	var out []model.Item
	for _, it := range m.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

type usersMock struct {
	users map[int64]model.User
}

func (m *usersMock) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

type eventsMock struct {
	published []queue.BookingStatusEvent
}

func (m *eventsMock) BookingStatusChanged(ctx context.Context, ev queue.BookingStatusEvent) error {
	m.published = append(m.published, ev)
	return nil
}

func fixture() (*repoMock, *itemsMock, *usersMock) {
	items := &itemsMock{items: map[int64]model.Item{
		10: {ID: 10, Name: "drill", Description: "cordless drill", Available: true, OwnerID: 1},
		11: {ID: 11, Name: "ladder", Description: "5m ladder", Available: false, OwnerID: 1},
	}}
	users := &usersMock{users: map[int64]model.User{
		1: {ID: 1, Name: "alice", Email: "alice@example.com"},
		2: {ID: 2, Name: "bob", Email: "bob@example.com"},
		3: {ID: 3, Name: "carol", Email: "carol@example.com"},
	}}
	return &repoMock{}, items, users
}

func TestCreate_Success(t *testing.T) {
	r, items, users := fixture()
	svc := New(r, items, users, nil)

	start := time.Now().Add(time.Hour)
	end := start.Add(time.Hour)
	out, err := svc.Create(context.Background(), 2, 10, start, end)
	require.NoError(t, err)
	require.Equal(t, int64(1), out.ID)
	require.Equal(t, model.BookingWaiting, out.Status)
	require.Equal(t, int64(10), out.Item.ID)
	require.Equal(t, int64(2), out.Booker.ID)
}

func TestCreate_MissingEntities(t *testing.T) {
	r, items, users := fixture()
	svc := New(r, items, users, nil)

	start := time.Now().Add(time.Hour)
	end := start.Add(time.Hour)

	_, err := svc.Create(context.Background(), 2, 99, start, end)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), 99, 10, start, end)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreate_Unavailable(t *testing.T) {
	r, items, users := fixture()
	svc := New(r, items, users, nil)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 2, 11, start, start.Add(time.Hour))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreate_OwnItem(t *testing.T) {
	r, items, users := fixture()
	svc := New(r, items, users, nil)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 1, 10, start, start.Add(time.Hour))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "own item")
}

func TestCreate_DateValidation(t *testing.T) {
	r, items, users := fixture()
	svc := New(r, items, users, nil)
	ctx := context.Background()

	start := time.Now().Add(time.Hour)

	// start == end
	_, err := svc.Create(ctx, 2, 10, start, start)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// end before start
	_, err = svc.Create(ctx, 2, 10, start, start.Add(-time.Minute))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// start in the past
	past := time.Now().Add(-time.Hour)
	_, err = svc.Create(ctx, 2, 10, past, past.Add(2*time.Hour))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// The overlap test anchors on the requested start: a new period beginning
// inside an existing one is rejected, while a new period that begins earlier
// and runs into an existing one is admitted.
func TestCreate_OverlapAnchorsOnStart(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	existing := []model.Booking{
		{ID: 5, Start: base, End: base.Add(time.Hour), ItemID: 10, BookerID: 2, Status: model.BookingApproved},
	}

	r, items, users := fixture()
	r.createCheckedFn = func(ctx context.Context, b *model.Booking, check func([]model.Booking) error) error {
		if err := check(existing); err != nil {
			return err
		}
		b.ID = 7
		return nil
	}
	svc := New(r, items, users, nil)
	ctx := context.Background()

	// starts inside the existing period: rejected
	_, err := svc.Create(ctx, 3, 10, base.Add(30*time.Minute), base.Add(45*time.Minute))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "overlap")

	// starts exactly when the existing one starts: rejected
	_, err = svc.Create(ctx, 3, 10, base, base.Add(2*time.Hour))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// begins before and runs into the existing period: admitted by the predicate
	out, err := svc.Create(ctx, 3, 10, base.Add(-time.Hour), base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, int64(7), out.ID)
}

// Rejected bookings still count toward the overlap check.
func TestCreate_OverlapCountsAllStatuses(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	existing := []model.Booking{
		{ID: 5, Start: base, End: base.Add(time.Hour), ItemID: 10, BookerID: 2, Status: model.BookingRejected},
	}

	r, items, users := fixture()
	r.createCheckedFn = func(ctx context.Context, b *model.Booking, check func([]model.Booking) error) error {
		return check(existing)
	}
	svc := New(r, items, users, nil)

	_, err := svc.Create(context.Background(), 3, 10, base.Add(15*time.Minute), base.Add(30*time.Minute))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// A serialization failure from the create transaction maps to a conflict the
// caller can retry, not an internal error.
func TestCreate_SerializationFailureIsConflict(t *testing.T) {
	r, items, users := fixture()
	r.createCheckedFn = func(ctx context.Context, b *model.Booking, check func([]model.Booking) error) error {
		return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	}
	svc := New(r, items, users, nil)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 2, 10, start, start.Add(time.Hour))
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func waitingBooking() *model.Booking {
	start := time.Now().Add(time.Hour)
	return &model.Booking{ID: 20, Start: start, End: start.Add(time.Hour), ItemID: 10, BookerID: 2, Status: model.BookingWaiting}
}

func TestUpdateStatus_Approve(t *testing.T) {
	r, items, users := fixture()
	b := waitingBooking()
	r.getByIDFn = func(ctx context.Context, id int64) (*model.Booking, error) { return b, nil }

	ev := &eventsMock{}
	svc := New(r, items, users, ev)

	out, err := svc.UpdateStatus(context.Background(), 1, 20, true)
	require.NoError(t, err)
	require.Equal(t, model.BookingApproved, out.Status)
	require.Len(t, ev.published, 1)
	require.Equal(t, "APPROVED", ev.published[0].Status)
	require.Equal(t, int64(20), ev.published[0].BookingID)
}

func TestUpdateStatus_ApproveTwice(t *testing.T) {
	r, items, users := fixture()
	b := waitingBooking()
	r.getByIDFn = func(ctx context.Context, id int64) (*model.Booking, error) { return b, nil }
	svc := New(r, items, users, nil)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 1, 20, true)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, 1, 20, true)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "already been processed")
}

// Only a second approval is blocked: rejecting an approved booking passes the
// guard, and approving a rejected one does too.
func TestUpdateStatus_ApproveThenReject(t *testing.T) {
	r, items, users := fixture()
	b := waitingBooking()
	r.getByIDFn = func(ctx context.Context, id int64) (*model.Booking, error) { return b, nil }
	svc := New(r, items, users, nil)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 1, 20, true)
	require.NoError(t, err)

	out, err := svc.UpdateStatus(ctx, 1, 20, false)
	require.NoError(t, err)
	require.Equal(t, model.BookingRejected, out.Status)

	out, err = svc.UpdateStatus(ctx, 1, 20, true)
	require.NoError(t, err)
	require.Equal(t, model.BookingApproved, out.Status)
}

func TestUpdateStatus_NotFoundAndOwnership(t *testing.T) {
	r, items, users := fixture()
	svc := New(r, items, users, nil)
	ctx := context.Background()

	// booking absent
	_, err := svc.UpdateStatus(ctx, 1, 999, true)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	b := waitingBooking()
	r.getByIDFn = func(ctx context.Context, id int64) (*model.Booking, error) { return b, nil }

	// caller exists but owns no matching item
	_, err = svc.UpdateStatus(ctx, 3, 20, true)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// caller does not resolve to a user at all
	_, err = svc.UpdateStatus(ctx, 99, 20, true)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestGetByID_Authorization(t *testing.T) {
	r, items, users := fixture()
	b := waitingBooking()
	r.getByIDFn = func(ctx context.Context, id int64) (*model.Booking, error) {
		if id == 20 {
			return b, nil
		}
		return nil, nil
	}
	svc := New(r, items, users, nil)
	ctx := context.Background()

	// booker sees it
	out, err := svc.GetByID(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, int64(20), out.ID)

	// owner sees it
	_, err = svc.GetByID(ctx, 1, 20)
	require.NoError(t, err)

	// anyone else gets not-found, not forbidden
	_, err = svc.GetByID(ctx, 3, 20)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.GetByID(ctx, 2, 999)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListByBooker_States(t *testing.T) {
	r, items, users := fixture()
	var gotState model.BookingState
	r.listByBookerFn = func(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error) {
		gotState = state
		return []model.BookingView{}, nil
	}
	svc := New(r, items, users, nil)
	ctx := context.Background()

	for _, s := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		_, err := svc.ListByBooker(ctx, 2, s)
		require.NoError(t, err)
		require.Equal(t, model.BookingState(s), gotState)
	}

	// blank defaults to ALL
	_, err := svc.ListByBooker(ctx, 2, "")
	require.NoError(t, err)
	require.Equal(t, model.StateAll, gotState)

	// state matching ignores case
	_, err = svc.ListByBooker(ctx, 2, "current")
	require.NoError(t, err)
	require.Equal(t, model.StateCurrent, gotState)

	_, err = svc.ListByBooker(ctx, 2, "SOMEDAY")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.ListByBooker(ctx, 99, "ALL")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListByOwner_States(t *testing.T) {
	r, items, users := fixture()
	var gotState model.BookingState
	r.listByOwnerFn = func(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error) {
		gotState = state
		return []model.BookingView{}, nil
	}
	svc := New(r, items, users, nil)
	ctx := context.Background()

	_, err := svc.ListByOwner(ctx, 1, "WAITING")
	require.NoError(t, err)
	require.Equal(t, model.StateWaiting, gotState)

	_, err = svc.ListByOwner(ctx, 1, "bogus")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.ListByOwner(ctx, 99, "ALL")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// Owner lists an item, a booker reserves it, the owner approves, a third user
// is rejected for an overlapping period, and a repeated approval fails.
func TestBookingLifecycleScenario(t *testing.T) {
	r, items, users := fixture()

	var stored []model.Booking
	r.createCheckedFn = func(ctx context.Context, b *model.Booking, check func([]model.Booking) error) error {
		if err := check(stored); err != nil {
			return err
		}
		b.ID = int64(len(stored) + 1)
		stored = append(stored, *b)
		return nil
	}
	r.getByIDFn = func(ctx context.Context, id int64) (*model.Booking, error) {
		for i := range stored {
			if stored[i].ID == id {
				return &stored[i], nil
			}
		}
		return nil, nil
	}
	r.updateStatusFn = func(ctx context.Context, id int64, status model.BookingStatus) error {
		for i := range stored {
			if stored[i].ID == id {
				stored[i].Status = status
			}
		}
		return nil
	}

	svc := New(r, items, users, nil)
	ctx := context.Background()
	now := time.Now()

	// user 2 books item 10 for [now+1h, now+2h)
	out, err := svc.Create(ctx, 2, 10, now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, model.BookingWaiting, out.Status)

	// owner approves
	out, err = svc.UpdateStatus(ctx, 1, out.ID, true)
	require.NoError(t, err)
	require.Equal(t, model.BookingApproved, out.Status)

	// user 3 collides inside the booked period
	_, err = svc.Create(ctx, 3, 10, now.Add(90*time.Minute), now.Add(105*time.Minute))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// approving again fails
	_, err = svc.UpdateStatus(ctx, 1, 1, true)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
