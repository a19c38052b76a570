// internal/seen/repository.go
// PostgreSQL tracking of profiles a user has already been shown. This is
// the source of truth for repeat suppression; the document store's event
// log is analytics-only.

package seen

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lumeapp/lume-algo/internal/matching"
)

// SeenProfile is one row of a user's seen history.
type SeenProfile struct {
	UserID       string    `json:"user_id" db:"user_id"`
	TargetUserID string    `json:"target_user_id" db:"target_user_id"`
	EventType    string    `json:"event_type" db:"event_type"`
	SeenAt       time.Time `json:"seen_at" db:"seen_at"`
}

// Stats summarizes a user's seen history by event type.
type Stats struct {
	UserID     string     `json:"user_id" db:"-"`
	TotalSeen  int64      `json:"total_seen" db:"total_seen"`
	Viewed     int64      `json:"viewed" db:"viewed"`
	Liked      int64      `json:"liked" db:"liked"`
	Passed     int64      `json:"passed" db:"passed"`
	Matched    int64      `json:"matched" db:"matched"`
	LastSeenAt *time.Time `json:"last_seen_at" db:"last_seen_at"`
}

type Repository interface {
	RecordSeen(ctx context.Context, userID, targetUserID string, eventType matching.EventType) error
	GetSeenProfileIDs(ctx context.Context, userID string) ([]string, error)
	GetSeenProfiles(ctx context.Context, userID string, limit, offset int) ([]*SeenProfile, error)
	RemoveSeen(ctx context.Context, userID, targetUserID string) (bool, error)
	ClearSeen(ctx context.Context, userID string) (int64, error)
	GetStats(ctx context.Context, userID string) (*Stats, error)
	HealthCheck(ctx context.Context) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// RecordSeen upserts a seen record. A repeat event for the same pair
// replaces the event type and timestamp.
func (r *postgresRepository) RecordSeen(ctx context.Context, userID, targetUserID string, eventType matching.EventType) error {
	query := `
        INSERT INTO seen_profiles (user_id, target_user_id, event_type, seen_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (user_id, target_user_id)
        DO UPDATE SET
            event_type = EXCLUDED.event_type,
            seen_at = EXCLUDED.seen_at
    `

	_, err := r.db.ExecContext(ctx, query, userID, targetUserID, string(eventType))
	return err
}

// GetSeenProfileIDs returns every target the user has seen, for exclusion
// from future matching runs.
func (r *postgresRepository) GetSeenProfileIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `SELECT target_user_id FROM seen_profiles WHERE user_id = $1`

	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresRepository) GetSeenProfiles(ctx context.Context, userID string, limit, offset int) ([]*SeenProfile, error) {
	var profiles []*SeenProfile
	query := `
        SELECT user_id, target_user_id, event_type, seen_at
        FROM seen_profiles
        WHERE user_id = $1
        ORDER BY seen_at DESC
        LIMIT $2 OFFSET $3
    `

	if err := r.db.SelectContext(ctx, &profiles, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return profiles, nil
}

// RemoveSeen deletes one seen record, reporting whether it existed.
func (r *postgresRepository) RemoveSeen(ctx context.Context, userID, targetUserID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM seen_profiles WHERE user_id = $1 AND target_user_id = $2`,
		userID, targetUserID,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// ClearSeen wipes a user's entire seen history and returns the row count.
func (r *postgresRepository) ClearSeen(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM seen_profiles WHERE user_id = $1`, userID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresRepository) GetStats(ctx context.Context, userID string) (*Stats, error) {
	stats := &Stats{UserID: userID}
	query := `
        SELECT
            COUNT(*) as total_seen,
            COUNT(*) FILTER (WHERE event_type = 'viewed') as viewed,
            COUNT(*) FILTER (WHERE event_type = 'liked') as liked,
            COUNT(*) FILTER (WHERE event_type = 'passed') as passed,
            COUNT(*) FILTER (WHERE event_type = 'matched') as matched,
            MAX(seen_at) as last_seen_at
        FROM seen_profiles
        WHERE user_id = $1
    `

	row := r.db.QueryRowxContext(ctx, query, userID)
	err := row.Scan(&stats.TotalSeen, &stats.Viewed, &stats.Liked, &stats.Passed, &stats.Matched, &stats.LastSeenAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return stats, nil
}

func (r *postgresRepository) HealthCheck(ctx context.Context) error {
	var one int
	return r.db.QueryRowxContext(ctx, `SELECT 1`).Scan(&one)
}
