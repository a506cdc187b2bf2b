package bookingrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	// CreateChecked runs load-check-insert inside one serializable
	// transaction so two concurrent creations against the same item cannot
	// both pass the check. The check callback receives every existing
	// booking on the item.
	CreateChecked(ctx context.Context, b *model.Booking, check func(existing []model.Booking) error) error

	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	ListByItem(ctx context.Context, itemID int64) ([]model.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

// querier is satisfied by both pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *repo) CreateChecked(ctx context.Context, b *model.Booking, check func([]model.Booking) error) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	existing, err := listByItem(ctx, tx, b.ItemID)
	if err != nil {
		return err
	}
	if err = check(existing); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (start_at, end_at, item_id, booker_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		b.Start, b.End, b.ItemID, b.BookerID, b.Status,
	).Scan(&b.ID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	b := &model.Booking{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, start_at, end_at, item_id, booker_id, status
		FROM bookings
		WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE bookings
		SET status = $2
		WHERE id = $1`,
		id, status)
	return err
}

func (r *repo) ListByItem(ctx context.Context, itemID int64) ([]model.Booking, error) {
	return listByItem(ctx, r.db.Pool, itemID)
}

func listByItem(ctx context.Context, q querier, itemID int64) ([]model.Booking, error) {
	rows, err := q.Query(ctx, `
		SELECT id, start_at, end_at, item_id, booker_id, status
		FROM bookings
		WHERE item_id = $1
		ORDER BY start_at`,
		itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const viewColumns = `
	SELECT b.id, b.start_at, b.end_at, b.status,
	       i.id, i.name, i.description, i.available,
	       u.id, u.name
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func (r *repo) ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error) {
	return r.listViews(ctx, "b.booker_id", bookerID, state, now)
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.BookingView, error) {
	return r.listViews(ctx, "i.owner_id", ownerID, state, now)
}

// listQuery builds the filtered listing query scoped on scopeCol = userID.
// Every state filter orders by start descending.
func listQuery(scopeCol string, userID int64, state model.BookingState, now time.Time) (string, []any, error) {
	where := fmt.Sprintf("%s = $1", scopeCol)
	args := []any{userID}

	switch state {
	case model.StateAll:
	case model.StateCurrent:
		where += " AND b.start_at <= $2 AND b.end_at > $2"
		args = append(args, now)
	case model.StatePast:
		where += " AND b.end_at < $2"
		args = append(args, now)
	case model.StateFuture:
		where += " AND b.start_at > $2"
		args = append(args, now)
	case model.StateWaiting, model.StateRejected:
		where += " AND b.status = $2"
		args = append(args, string(state))
	default:
		return "", nil, fmt.Errorf("unknown booking state %q", state)
	}

	return viewColumns + "\n\tWHERE " + where + "\n\tORDER BY b.start_at DESC", args, nil
}

func (r *repo) listViews(ctx context.Context, scopeCol string, userID int64, state model.BookingState, now time.Time) ([]model.BookingView, error) {
	q, args, err := listQuery(scopeCol, userID, state, now)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingView
	for rows.Next() {
		var v model.BookingView
		if err := rows.Scan(
			&v.ID, &v.Start, &v.End, &v.Status,
			&v.Item.ID, &v.Item.Name, &v.Item.Description, &v.Item.Available,
			&v.Booker.ID, &v.Booker.Name,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
