package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type postgresStore struct {
	db  *sqlx.DB
	ttl time.Duration
}

// NewPostgresStore constructs a Store backed by the cafe_sessions table,
// so in-flight orders survive process restarts.
func NewPostgresStore(db *sqlx.DB, ttl time.Duration) Store {
	return &postgresStore{db: db, ttl: ttl}
}

type sessionRow struct {
	UserID    int64     `db:"user_id"`
	Step      string    `db:"step"`
	Draft     []byte    `db:"draft"`
	Booking   []byte    `db:"booking"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Get returns the stored session for a user, or an idle session if absent or expired.
func (p *postgresStore) Get(ctx context.Context, userID int64) (Session, error) {
	var row sessionRow
	err := p.db.GetContext(ctx, &row,
		`SELECT user_id, step, draft, booking, updated_at FROM cafe_sessions WHERE user_id = $1`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return NewIdle(), nil
	}
	if err != nil {
		return NewIdle(), fmt.Errorf("session select: %w", err)
	}

	s := Session{Step: Step(row.Step), UpdatedAt: row.UpdatedAt}
	if len(row.Draft) > 0 {
		var d Draft
		if err := json.Unmarshal(row.Draft, &d); err != nil {
			return NewIdle(), fmt.Errorf("session draft decode: %w", err)
		}
		s.Draft = &d
	}
	if len(row.Booking) > 0 {
		var b BookingDraft
		if err := json.Unmarshal(row.Booking, &b); err != nil {
			return NewIdle(), fmt.Errorf("session booking decode: %w", err)
		}
		s.Booking = &b
	}
	if expired(s, p.ttl) {
		return NewIdle(), nil
	}
	return s, nil
}

// Set upserts the session row for a user, stamping UpdatedAt.
func (p *postgresStore) Set(ctx context.Context, userID int64, s Session) error {
	var (
		draft   []byte
		booking []byte
		err     error
	)
	if s.Draft != nil {
		draft, err = json.Marshal(s.Draft)
		if err != nil {
			return fmt.Errorf("session draft encode: %w", err)
		}
	}
	if s.Booking != nil {
		booking, err = json.Marshal(s.Booking)
		if err != nil {
			return fmt.Errorf("session booking encode: %w", err)
		}
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO cafe_sessions (user_id, step, draft, booking, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET step = EXCLUDED.step, draft = EXCLUDED.draft,
		     booking = EXCLUDED.booking, updated_at = EXCLUDED.updated_at`,
		userID, string(s.Step), draft, booking,
	)
	if err != nil {
		return fmt.Errorf("session upsert: %w", err)
	}
	return nil
}

// Clear deletes the session row for a user.
func (p *postgresStore) Clear(ctx context.Context, userID int64) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM cafe_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
