package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS profiles (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            display_name TEXT,
            bio TEXT,
            avatar_url TEXT,
            role TEXT NOT NULL DEFAULT 'subscriber',
            chat_rate NUMERIC(10,2),
            subscription_price NUMERIC(10,2),
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            subscriber_id UUID NOT NULL REFERENCES profiles(id),
            creator_id UUID NOT NULL REFERENCES profiles(id),
            hourly_rate NUMERIC(10,2) NOT NULL,
            session_start TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            session_end TIMESTAMPTZ,
            payment_status TEXT NOT NULL DEFAULT 'pending',
            stripe_payment_intent_id TEXT,
            total_amount NUMERIC(10,2),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_sessions_open_pair
            ON chat_sessions (subscriber_id, creator_id) WHERE session_end IS NULL;`,
		`CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            sender_id UUID NOT NULL REFERENCES profiles(id),
            recipient_id UUID NOT NULL REFERENCES profiles(id),
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair
            ON messages (sender_id, recipient_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS live_streams (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            creator_id UUID NOT NULL REFERENCES profiles(id),
            title TEXT NOT NULL,
            description TEXT,
            status TEXT NOT NULL DEFAULT 'offline',
            stream_key UUID NOT NULL DEFAULT gen_random_uuid(),
            started_at TIMESTAMPTZ,
            ended_at TIMESTAMPTZ,
            viewer_count INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS stream_viewers (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            stream_id UUID NOT NULL REFERENCES live_streams(id) ON DELETE CASCADE,
            viewer_id UUID NOT NULL REFERENCES profiles(id),
            joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            left_at TIMESTAMPTZ
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_stream_viewers_open
            ON stream_viewers (stream_id, viewer_id) WHERE left_at IS NULL;`,
		`CREATE TABLE IF NOT EXISTS content (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            creator_id UUID NOT NULL REFERENCES profiles(id),
            title TEXT NOT NULL,
            description TEXT,
            content_type TEXT NOT NULL,
            media_url TEXT,
            price NUMERIC(10,2),
            is_premium BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            subscriber_id UUID NOT NULL REFERENCES profiles(id),
            creator_id UUID NOT NULL REFERENCES profiles(id),
            status TEXT NOT NULL,
            stripe_subscription_id TEXT,
            current_period_start TIMESTAMPTZ,
            current_period_end TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS tips (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            tipper_id UUID NOT NULL REFERENCES profiles(id),
            creator_id UUID NOT NULL REFERENCES profiles(id),
            content_id UUID REFERENCES content(id),
            amount NUMERIC(10,2) NOT NULL,
            message TEXT,
            stripe_payment_intent_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
