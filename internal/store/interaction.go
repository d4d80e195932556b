package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Interaction is one logged interaction outcome: a placed grab, a feed
// advance, a tap, a posted comment.
type Interaction struct {
	ID        string
	Kind      string
	Side      string
	ObjectKey string
	Detail    string
	CreatedAt time.Time
}

// InteractionRepository provides the interaction session log.
type InteractionRepository struct {
	db *sql.DB
}

// Interactions returns the interaction repository for this store.
func (s *Store) Interactions() *InteractionRepository {
	return &InteractionRepository{db: s.db}
}

// Record inserts one interaction log entry. A missing ID is filled in.
func (r *InteractionRepository) Record(in *Interaction) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO interactions (id, kind, side, object_key, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Kind, in.Side, in.ObjectKey, in.Detail, in.CreatedAt,
	)
	return err
}

// ListRecent retrieves the most recent interaction log entries.
func (r *InteractionRepository) ListRecent(limit int) ([]*Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, kind, side, object_key, detail, created_at
		 FROM interactions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Interaction
	for rows.Next() {
		in := &Interaction{}
		if err := rows.Scan(&in.ID, &in.Kind, &in.Side, &in.ObjectKey, &in.Detail, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
