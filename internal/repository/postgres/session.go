package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/entities"
)

const (
	upsertSessionQuery = `
INSERT INTO checkout_sessions (id, raffle_id, step, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET step = EXCLUDED.step,
    data = EXCLUDED.data,
    updated_at = EXCLUDED.updated_at
`
	getSessionQuery    = `SELECT data FROM checkout_sessions WHERE id = $1`
	purgeSessionsQuery = `DELETE FROM checkout_sessions WHERE updated_at < $1`
)

// SaveSession upserts the session as a jsonb document.
func (p *Postgres) SaveSession(ctx context.Context, s *checkout.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	qctx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()

	if _, err := p.db.Exec(qctx, upsertSessionQuery,
		s.ID, s.RaffleID, string(s.Step), data, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		p.log.Errorw("failed to save session", "error", err, "session_id", s.ID)
		return fmt.Errorf("save session: %w", err)
	}

	p.log.Debugw("session saved", "session_id", s.ID, "step", s.Step)
	return nil
}

// GetSession loads a session by id.
func (p *Postgres) GetSession(ctx context.Context, id string) (*checkout.Session, error) {
	qctx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()

	var data []byte
	if err := p.db.QueryRow(qctx, getSessionQuery, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", entities.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s checkout.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// PurgeSessions deletes sessions last updated before cutoff.
func (p *Postgres) PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	qctx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()

	tag, err := p.db.Exec(qctx, purgeSessionsQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
