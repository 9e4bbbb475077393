package store

import (
	"fmt"
	"time"

	"github.com/ayusman/handstrike/internal/vec"
)

// Target is one persisted hit target with its home position.
type Target struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  vec.Vec3  `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveTarget inserts or updates a target definition.
func (s *Store) SaveTarget(id, name string, position vec.Vec3) error {
	_, err := s.db.Exec(
		`INSERT INTO targets (id, name, pos_x, pos_y, pos_z) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			pos_x = excluded.pos_x, pos_y = excluded.pos_y, pos_z = excluded.pos_z`,
		id, name, position.X, position.Y, position.Z,
	)
	if err != nil {
		return fmt.Errorf("save target: %w", err)
	}
	return nil
}

// ListTargets returns all persisted targets.
func (s *Store) ListTargets() ([]Target, error) {
	rows, err := s.db.Query(`SELECT id, name, pos_x, pos_y, pos_z, created_at FROM targets ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.Name, &t.Position.X, &t.Position.Y, &t.Position.Z, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// DeleteTarget removes a target definition and its hit log.
func (s *Store) DeleteTarget(id string) error {
	if _, err := s.db.Exec(`DELETE FROM targets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete target: %w", err)
	}
	return s.ResetHits(id)
}
