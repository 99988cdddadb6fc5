// Package store persists the optional face-crop index in PostgreSQL.
package store

import (
	"context"
	"fmt"
	"image"

	"github.com/Grumbel/gesichtool/internal/types"
	"github.com/jackc/pgx/v5"
)

// Store manages the PostgreSQL connection for the face-crop index.
type Store struct {
	conn *pgx.Conn
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Initialize schema (Auto-Migration)
	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// initSchema creates the index tables if they don't exist (Auto-Migration).
func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS source_images (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			processed_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS face_crops (
			id BIGSERIAL PRIMARY KEY,
			image_id TEXT REFERENCES source_images(id),
			face_index INT NOT NULL,
			x INT NOT NULL,
			y INT NOT NULL,
			width INT NOT NULL,
			height INT NOT NULL,
			thumb_path TEXT NOT NULL,
			detector TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS face_crops_image_id_idx ON face_crops (image_id);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// EnsureSourceImage registers a source image. Prior crops for the same
// image are removed first so re-running extract stays idempotent.
func (s *Store) EnsureSourceImage(ctx context.Context, imageID, path string) error {
	if _, err := s.conn.Exec(ctx, "DELETE FROM face_crops WHERE image_id = $1", imageID); err != nil {
		return err
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO source_images (id, path, processed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET processed_at = NOW(), path = EXCLUDED.path
	`, imageID, path)
	return err
}

// InsertFaces saves the crops extracted from one source image.
func (s *Store) InsertFaces(ctx context.Context, imageID, detector string, faces []types.FaceRecord) error {
	for _, f := range faces {
		_, err := s.conn.Exec(ctx, `
			INSERT INTO face_crops (image_id, face_index, x, y, width, height, thumb_path, detector)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, imageID, f.FaceIndex, f.Box.Min.X, f.Box.Min.Y, f.Box.Dx(), f.Box.Dy(), f.ThumbPath, detector)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListFaces returns every indexed crop, ordered by image path and face index.
func (s *Store) ListFaces(ctx context.Context) ([]types.FaceRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT f.id, i.path, f.face_index, f.x, f.y, f.width, f.height, f.thumb_path, f.detector, f.created_at
		FROM face_crops f
		JOIN source_images i ON i.id = f.image_id
		ORDER BY i.path ASC, f.face_index ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.FaceRow
	for rows.Next() {
		var r types.FaceRow
		var x, y, w, h int
		if err := rows.Scan(&r.ID, &r.ImagePath, &r.FaceIndex, &x, &y, &w, &h, &r.ThumbPath, &r.Detector, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Box = image.Rect(x, y, x+w, y+h)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Reset drops the index tables.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, "DROP TABLE IF EXISTS face_crops; DROP TABLE IF EXISTS source_images;")
	return err
}
