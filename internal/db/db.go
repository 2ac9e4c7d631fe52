package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Connect opens the database connection and runs migrations.
// Callers must not run Migrate again.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return prepare(ctx, db)
}

func prepare(ctx context.Context, db *sqlx.DB) (*sqlx.DB, error) {
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL DEFAULT '',
        age INT,
        bio TEXT NOT NULL DEFAULT '',
        avatar_url TEXT NOT NULL DEFAULT '',
        occupation TEXT NOT NULL DEFAULT '',
        budget_min INT,
        budget_max INT,
        location TEXT NOT NULL DEFAULT '',
        move_in_date DATE,
        has_place BOOLEAN NOT NULL DEFAULT FALSE,
        place_description TEXT NOT NULL DEFAULT '',
        lifestyle TEXT[] NOT NULL DEFAULT '{}',
        is_premium BOOLEAN NOT NULL DEFAULT FALSE,
        premium_expires_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS swipes (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        target_user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        action TEXT NOT NULL CHECK (action IN ('like', 'pass', 'superLike')),
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE(user_id, target_user_id),
        CHECK (user_id <> target_user_id)
    );`,
	`CREATE INDEX IF NOT EXISTS swipes_target_idx ON swipes (target_user_id, action);`,
	`CREATE TABLE IF NOT EXISTS matches (
        id TEXT PRIMARY KEY,
        user1_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        user2_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        user1_action TEXT,
        user2_action TEXT,
        status TEXT NOT NULL DEFAULT 'pending',
        conversation_id TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE(user1_id, user2_id),
        CHECK (user1_id < user2_id)
    );`,
	`CREATE TABLE IF NOT EXISTS conversations (
        id TEXT PRIMARY KEY,
        match_id TEXT NOT NULL UNIQUE REFERENCES matches(id) ON DELETE CASCADE,
        participants TEXT[] NOT NULL,
        participant_profiles JSONB NOT NULL DEFAULT '[]',
        last_message TEXT,
        last_message_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS conversations_participants_idx ON conversations USING GIN (participants);`,
	`CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY,
        conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
        sender_id TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS messages_conversation_idx ON messages (conversation_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS saved_places (
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        place_id TEXT NOT NULL,
        note TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        PRIMARY KEY(user_id, place_id)
    );`,
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	logrus.WithField("count", len(migrations)).Info("database migrations applied")
	return nil
}
