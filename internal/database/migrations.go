package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS listings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title VARCHAR(255) NOT NULL,
		price NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
		location VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		image VARCHAR(1000),
		bedrooms INTEGER CHECK (bedrooms >= 0),
		bathrooms INTEGER CHECK (bathrooms >= 0),
		area DOUBLE PRECISION CHECK (area > 0),
		type VARCHAR(100),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
