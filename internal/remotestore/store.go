// Package remotestore implements the remote profile collaborator on Postgres:
// the per-account profile record, the curated verse corpus, and the reminder
// notification targets.
package remotestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/memorizabiblia/memoriza-api/internal/database"
	remotesync "github.com/memorizabiblia/memoriza-api/internal/remote_sync"
	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

var ErrInternalServer = errors.New("internal server error")

type Store struct {
	db *sql.DB
}

func New(dbService database.Service) *Store {
	return &Store{db: dbService.DB()}
}

// GetProfile returns the account's profile record, or
// remotesync.ErrProfileNotFound for first-time users.
func (s *Store) GetProfile(ctx context.Context, accountID string) (*remotesync.ProfileRecord, error) {
	query := `
		SELECT current_day, completed_days, current_verse_ref, history_refs,
		       unlocked_achievements, reminder_hour, reminder_minute, timezone, updated_at
		FROM profiles
		WHERE account_id = $1
	`

	var rec remotesync.ProfileRecord
	var completed []int64
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&rec.CurrentDay,
		pq.Array(&completed),
		&rec.CurrentVerseRef,
		pq.Array(&rec.HistoryRefs),
		pq.Array(&rec.UnlockedAchievements),
		&rec.ReminderHour,
		&rec.ReminderMinute,
		&rec.Timezone,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, remotesync.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	rec.CompletedDays = make([]int, 0, len(completed))
	for _, d := range completed {
		rec.CompletedDays = append(rec.CompletedDays, int(d))
	}
	return &rec, nil
}

// UpsertProfile writes the account's record, last write wins.
func (s *Store) UpsertProfile(ctx context.Context, accountID string, rec remotesync.ProfileRecord) error {
	completed := make([]int64, 0, len(rec.CompletedDays))
	for _, d := range rec.CompletedDays {
		completed = append(completed, int64(d))
	}

	query := `
		INSERT INTO profiles (account_id, current_day, completed_days, current_verse_ref,
		                      history_refs, unlocked_achievements, reminder_hour,
		                      reminder_minute, timezone, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account_id)
		DO UPDATE SET
			current_day = EXCLUDED.current_day,
			completed_days = EXCLUDED.completed_days,
			current_verse_ref = EXCLUDED.current_verse_ref,
			history_refs = EXCLUDED.history_refs,
			unlocked_achievements = EXCLUDED.unlocked_achievements,
			reminder_hour = EXCLUDED.reminder_hour,
			reminder_minute = EXCLUDED.reminder_minute,
			timezone = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		accountID,
		rec.CurrentDay,
		pq.Array(completed),
		rec.CurrentVerseRef,
		pq.Array(rec.HistoryRefs),
		pq.Array(rec.UnlockedAchievements),
		rec.ReminderHour,
		rec.ReminderMinute,
		rec.Timezone,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// ResolveVerses returns the corpus verses matching refs. Partial results are
// expected: unknown references are simply absent from the result.
func (s *Store) ResolveVerses(ctx context.Context, refs []string) ([]verse.Verse, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query := `
		SELECT reference, text, explanation, book_context, keywords,
		       emoji_text, scrambled, fake_references
		FROM verses
		WHERE reference = ANY($1)
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(refs))
	if err != nil {
		return nil, fmt.Errorf("resolve verses: %w", err)
	}
	defer rows.Close()

	return scanVerses(rows)
}

// SearchVerses filters the corpus by reference or text, case-insensitive.
func (s *Store) SearchVerses(ctx context.Context, term string, limit int) ([]verse.Verse, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT reference, text, explanation, book_context, keywords,
		       emoji_text, scrambled, fake_references
		FROM verses
		WHERE reference ILIKE '%' || $1 || '%' OR text ILIKE '%' || $1 || '%'
		ORDER BY reference
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search verses: %w", err)
	}
	defer rows.Close()

	return scanVerses(rows)
}

// SaveVerse upserts one verse into the corpus. Used when the content endpoint
// hands out fresh material worth keeping resolvable for other devices.
func (s *Store) SaveVerse(ctx context.Context, v verse.Verse) error {
	query := `
		INSERT INTO verses (reference, text, explanation, book_context, keywords,
		                    emoji_text, scrambled, fake_references)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reference) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		v.Reference, v.Text, v.Explanation, v.BookContext,
		pq.Array(v.Keywords), v.EmojiText, pq.Array(v.Scrambled), pq.Array(v.FakeReferences))
	if err != nil {
		return fmt.Errorf("save verse: %w", err)
	}
	return nil
}

func scanVerses(rows *sql.Rows) ([]verse.Verse, error) {
	var verses []verse.Verse
	for rows.Next() {
		var v verse.Verse
		if err := rows.Scan(
			&v.Reference, &v.Text, &v.Explanation, &v.BookContext,
			pq.Array(&v.Keywords), &v.EmojiText, pq.Array(&v.Scrambled), pq.Array(&v.FakeReferences),
		); err != nil {
			return nil, fmt.Errorf("scan verse: %w", err)
		}
		verses = append(verses, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return verses, nil
}
