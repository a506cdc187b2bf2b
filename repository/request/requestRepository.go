package requestrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	Create(ctx context.Context, req *model.Request) error
	GetByID(ctx context.Context, id int64) (*model.Request, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error)
	ListAll(ctx context.Context) ([]model.Request, error)
	ListExcludingRequestor(ctx context.Context, requestorID int64) ([]model.Request, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, req *model.Request) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO requests (description, requestor_id, created)
		VALUES ($1, $2, $3)
		RETURNING id`,
		req.Description, req.RequestorID, req.Created,
	).Scan(&req.ID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Request, error) {
	req := &model.Request{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE id = $1`,
		id,
	).Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repo) ListByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error) {
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id = $1
		ORDER BY created DESC`
	return r.list(ctx, q, requestorID)
}

func (r *repo) ListAll(ctx context.Context) ([]model.Request, error) {
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		ORDER BY created DESC`
	return r.list(ctx, q)
}

func (r *repo) ListExcludingRequestor(ctx context.Context, requestorID int64) ([]model.Request, error) {
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id <> $1
		ORDER BY created DESC`
	return r.list(ctx, q, requestorID)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Request, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Request
	for rows.Next() {
		var req model.Request
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
