package remotesync

import (
	"context"
	"errors"
	"time"

	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRecord is the persisted remote shape of a user's progress. Verses
// travel as references only; content is re-resolved on pull.
type ProfileRecord struct {
	CurrentDay           int       `json:"current_day"`
	CompletedDays        []int     `json:"completed_days"`
	CurrentVerseRef      string    `json:"current_verse_ref"`
	HistoryRefs          []string  `json:"history_refs"`
	UnlockedAchievements []string  `json:"unlocked_achievements"`
	ReminderHour         *int      `json:"reminder_hour"`
	ReminderMinute       *int      `json:"reminder_minute"`
	Timezone             string    `json:"timezone"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProfileStore is the remote profile collaborator. Implementations must
// return ErrProfileNotFound for absent records; ResolveVerses may return
// partial results.
type ProfileStore interface {
	GetProfile(ctx context.Context, accountID string) (*ProfileRecord, error)
	UpsertProfile(ctx context.Context, accountID string, rec ProfileRecord) error
	ResolveVerses(ctx context.Context, refs []string) ([]verse.Verse, error)
}
