package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/paulmach/orb/encoding/wkb"
)

// Store wraps the spatial-capable output database: one row per
// boundary, upserted by id, geometry encoded as WKB.
type Store struct {
	conn *sql.DB
}

// NewStore creates a new database connection and ensures the schema exists.
func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{conn: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	slog.Info("boundary store connected successfully")
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// ensureSchema creates the boundary table if absent. Idempotent.
func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
		CREATE EXTENSION IF NOT EXISTS postgis;

		CREATE TABLE IF NOT EXISTS boundary (
			id               BIGINT PRIMARY KEY,
			name             TEXT,
			name_en          TEXT,
			name_zh          TEXT,
			name_preferred   TEXT,
			admin_level      INTEGER,
			super_area_ids    BIGINT[],
			sub_area_ids      BIGINT[],
			root_id          BIGINT,
			outer_segment_ids BIGINT[],
			inner_segment_ids BIGINT[],
			geom             GEOMETRY(MultiPolygon, 4326),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS boundary_geom_idx ON boundary USING GIST (geom);
		CREATE INDEX IF NOT EXISTS boundary_admin_level_idx ON boundary (admin_level);
	`)
	return err
}

// UpsertBoundary writes one boundary row, keyed by id.
func (s *Store) UpsertBoundary(ctx context.Context, b *Boundary) error {
	geom, err := wkb.Marshal(b.Geometry)
	if err != nil {
		return fmt.Errorf("failed to encode geometry for boundary %d: %w", b.ID, err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO boundary (
			id, name, name_en, name_zh, name_preferred, admin_level,
			super_area_ids, sub_area_ids, root_id,
			outer_segment_ids, inner_segment_ids, geom, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, ST_GeomFromWKB($12, 4326), now()
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			name_en = EXCLUDED.name_en,
			name_zh = EXCLUDED.name_zh,
			name_preferred = EXCLUDED.name_preferred,
			admin_level = EXCLUDED.admin_level,
			super_area_ids = EXCLUDED.super_area_ids,
			sub_area_ids = EXCLUDED.sub_area_ids,
			root_id = EXCLUDED.root_id,
			outer_segment_ids = EXCLUDED.outer_segment_ids,
			inner_segment_ids = EXCLUDED.inner_segment_ids,
			geom = EXCLUDED.geom,
			updated_at = now()
	`,
		b.ID, b.Name, b.NameEn, b.NameZh, b.NamePreferred, adminLevelOrNull(b.AdminLevel),
		pq.Array(b.SuperAreaIDs), pq.Array(b.SubAreaIDs), b.RootID,
		pq.Array(b.OuterSegmentIDs), pq.Array(b.InnerSegmentIDs), geom,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert boundary %d: %w", b.ID, err)
	}
	return nil
}

// UpsertTree writes every boundary in t, continuing past individual
// row failures: store errors are surfaced, never rolled back.
func (s *Store) UpsertTree(ctx context.Context, t *Tree) (int, error) {
	count := 0
	for _, b := range t.Boundaries {
		if err := s.UpsertBoundary(ctx, b); err != nil {
			t.Diagnostics.Warn("store upsert failed for boundary %d: %v", b.ID, err)
			continue
		}
		count++
	}
	return count, nil
}

func adminLevelOrNull(level *int) interface{} {
	if level == nil {
		return nil
	}
	return *level
}
