package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Reaction represents one fired reaction stored in the database.
type Reaction struct {
	ID        string
	ObjectKey string
	Kind      string
	Side      string
	CreatedAt time.Time
}

// ReactionRepository provides persistence for fired reactions.
type ReactionRepository struct {
	db *sql.DB
}

// Reactions returns the reaction repository for this store.
func (s *Store) Reactions() *ReactionRepository {
	return &ReactionRepository{db: s.db}
}

// Record inserts one fired reaction. A missing ID is filled in.
func (r *ReactionRepository) Record(re *Reaction) error {
	if re.ID == "" {
		re.ID = uuid.NewString()
	}
	re.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO reactions (id, object_key, kind, side, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		re.ID, re.ObjectKey, re.Kind, re.Side, re.CreatedAt,
	)
	return err
}

// GetByID retrieves a reaction by its ID.
func (r *ReactionRepository) GetByID(id string) (*Reaction, error) {
	re := &Reaction{}
	err := r.db.QueryRow(
		`SELECT id, object_key, kind, side, created_at
		 FROM reactions WHERE id = ?`,
		id,
	).Scan(&re.ID, &re.ObjectKey, &re.Kind, &re.Side, &re.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return re, nil
}

// CountsFor returns the reaction counts per kind for one object.
func (r *ReactionRepository) CountsFor(objectKey string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM reactions WHERE object_key = ? GROUP BY kind`,
		objectKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// List retrieves all reactions for an object, newest first.
func (r *ReactionRepository) List(objectKey string) ([]*Reaction, error) {
	rows, err := r.db.Query(
		`SELECT id, object_key, kind, side, created_at
		 FROM reactions WHERE object_key = ? ORDER BY created_at DESC`,
		objectKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []*Reaction
	for rows.Next() {
		re := &Reaction{}
		if err := rows.Scan(&re.ID, &re.ObjectKey, &re.Kind, &re.Side, &re.CreatedAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, re)
	}
	return reactions, rows.Err()
}
