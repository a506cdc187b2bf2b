package database

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id    BIGSERIAL PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email));

CREATE TABLE IF NOT EXISTS requests (
	id           BIGSERIAL PRIMARY KEY,
	description  TEXT NOT NULL,
	requestor_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
	created      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS requests_requestor_idx ON requests (requestor_id);

CREATE TABLE IF NOT EXISTS items (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	available   BOOLEAN NOT NULL DEFAULT true,
	owner_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
	request_id  BIGINT REFERENCES requests(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS items_owner_idx ON items (owner_id);
CREATE INDEX IF NOT EXISTS items_request_idx ON items (request_id);

CREATE TABLE IF NOT EXISTS bookings (
	id        BIGSERIAL PRIMARY KEY,
	start_at  TIMESTAMPTZ NOT NULL,
	end_at    TIMESTAMPTZ NOT NULL,
	item_id   BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	booker_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
	status    TEXT NOT NULL DEFAULT 'WAITING'
);
CREATE INDEX IF NOT EXISTS bookings_item_idx ON bookings (item_id);
CREATE INDEX IF NOT EXISTS bookings_booker_idx ON bookings (booker_id);

CREATE TABLE IF NOT EXISTS comments (
	id        BIGSERIAL PRIMARY KEY,
	text      TEXT NOT NULL,
	item_id   BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
	created   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_item_idx ON comments (item_id);
`

// Migrate applies the embedded schema. Every statement is idempotent, so
// running it on every startup is safe.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
