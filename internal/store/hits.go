package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handstrike/internal/vec"
)

// Hit is one persisted impact log row.
type Hit struct {
	ID        string    `json:"id"`
	TargetID  string    `json:"target_id"`
	Direction vec.Vec3  `json:"direction"`
	Magnitude float64   `json:"magnitude"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordHit appends one impact to the hit log and returns its ID.
func (s *Store) RecordHit(targetID string, direction vec.Vec3, magnitude float64) (string, error) {
	id := uuid.New().String()

	_, err := s.db.Exec(
		`INSERT INTO hits (id, target_id, dir_x, dir_y, dir_z, magnitude) VALUES (?, ?, ?, ?, ?, ?)`,
		id, targetID, direction.X, direction.Y, direction.Z, magnitude,
	)
	if err != nil {
		return "", fmt.Errorf("record hit: %w", err)
	}
	return id, nil
}

// ListHits returns the most recent hits for a target, newest first.
func (s *Store) ListHits(targetID string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, target_id, dir_x, dir_y, dir_z, magnitude, created_at
		 FROM hits WHERE target_id = ? ORDER BY created_at DESC LIMIT ?`,
		targetID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list hits: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ID, &h.TargetID, &h.Direction.X, &h.Direction.Y, &h.Direction.Z, &h.Magnitude, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// CountHits returns the total number of logged hits for a target.
func (s *Store) CountHits(targetID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM hits WHERE target_id = ?`, targetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count hits: %w", err)
	}
	return count, nil
}

// ResetHits deletes the hit log for a target.
func (s *Store) ResetHits(targetID string) error {
	if _, err := s.db.Exec(`DELETE FROM hits WHERE target_id = ?`, targetID); err != nil {
		return fmt.Errorf("reset hits: %w", err)
	}
	return nil
}
