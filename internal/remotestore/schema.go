package remotestore

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates the remote tables. Applied by the ops migration flow and by
// the integration tests against a throwaway container.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	account_id UUID PRIMARY KEY,
	current_day INT NOT NULL DEFAULT 1,
	completed_days INT[] NOT NULL DEFAULT '{}',
	current_verse_ref TEXT NOT NULL DEFAULT '',
	history_refs TEXT[] NOT NULL DEFAULT '{}',
	unlocked_achievements TEXT[] NOT NULL DEFAULT '{}',
	reminder_hour INT,
	reminder_minute INT,
	timezone TEXT NOT NULL DEFAULT 'America/Sao_Paulo',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS verses (
	reference TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	book_context TEXT NOT NULL DEFAULT '',
	keywords TEXT[] NOT NULL DEFAULT '{}',
	emoji_text TEXT NOT NULL DEFAULT '',
	scrambled TEXT[] NOT NULL DEFAULT '{}',
	fake_references TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reminder_targets (
	id SERIAL PRIMARY KEY,
	account_id UUID NOT NULL,
	target TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (account_id, target)
);

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply remote schema: %w", err)
	}
	return nil
}
