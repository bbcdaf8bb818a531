package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save stores or replaces a session.
func (s *sessionStore) Save(ctx context.Context, session domain.Session) error {
	zonesJSON, err := json.Marshal(session.Zones)
	if err != nil {
		return fmt.Errorf("marshalling zones: %w", err)
	}
	pairsJSON, err := json.Marshal(session.Pairs)
	if err != nil {
		return fmt.Errorf("marshalling pairs: %w", err)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, left_path, right_path, zones, pairs, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			left_path = excluded.left_path,
			right_path = excluded.right_path,
			zones = excluded.zones,
			pairs = excluded.pairs,
			created_at = excluded.created_at
	`, session.ID, session.LeftPath, session.RightPath,
		string(zonesJSON), string(pairsJSON), session.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, left_path, right_path, zones, pairs, created_at
		FROM sessions WHERE id = ?
	`, id)

	var session domain.Session
	var zonesJSON, pairsJSON string
	err := row.Scan(&session.ID, &session.LeftPath, &session.RightPath,
		&zonesJSON, &pairsJSON, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	if err := json.Unmarshal([]byte(zonesJSON), &session.Zones); err != nil {
		return nil, fmt.Errorf("unmarshalling zones: %w", err)
	}
	if err := json.Unmarshal([]byte(pairsJSON), &session.Pairs); err != nil {
		return nil, fmt.Errorf("unmarshalling pairs: %w", err)
	}
	return &session, nil
}

// List returns all sessions, newest first, without pair payloads.
func (s *sessionStore) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, left_path, right_path, zones, created_at
		FROM sessions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		var zonesJSON string
		err := rows.Scan(&session.ID, &session.LeftPath, &session.RightPath,
			&zonesJSON, &session.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal([]byte(zonesJSON), &session.Zones); err != nil {
			return nil, fmt.Errorf("unmarshalling zones: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Delete removes a session by ID.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return nil
}
