package remotestore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/memorizabiblia/memoriza-api/internal/database"
	remotesync "github.com/memorizabiblia/memoriza-api/internal/remote_sync"
	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

// startStore spins up a throwaway Postgres container with the schema applied.
func startStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("memoriza_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(ctx, db))
	return New(database.NewFromDB(db))
}

func TestProfileLifecycle(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()
	accountID := uuid.NewString()

	_, err := store.GetProfile(ctx, accountID)
	assert.ErrorIs(t, err, remotesync.ErrProfileNotFound)

	hour, minute := 19, 30
	rec := remotesync.ProfileRecord{
		CurrentDay:           4,
		CompletedDays:        []int{1, 2, 3},
		CurrentVerseRef:      "João 3:16",
		HistoryRefs:          []string{"Salmos 23:1", "Gênesis 1:1"},
		UnlockedAchievements: []string{"1_verse"},
		ReminderHour:         &hour,
		ReminderMinute:       &minute,
		Timezone:             "America/Sao_Paulo",
		UpdatedAt:            time.Now().UTC(),
	}
	require.NoError(t, store.UpsertProfile(ctx, accountID, rec))

	got, err := store.GetProfile(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentDay)
	assert.Equal(t, []int{1, 2, 3}, got.CompletedDays)
	assert.Equal(t, "João 3:16", got.CurrentVerseRef)
	assert.Equal(t, []string{"Salmos 23:1", "Gênesis 1:1"}, got.HistoryRefs)
	assert.Equal(t, []string{"1_verse"}, got.UnlockedAchievements)
	require.NotNil(t, got.ReminderHour)
	assert.Equal(t, 19, *got.ReminderHour)
	assert.Equal(t, "America/Sao_Paulo", got.Timezone)

	// Last write wins.
	rec.CurrentDay = 7
	rec.HistoryRefs = append(rec.HistoryRefs, "João 3:16")
	require.NoError(t, store.UpsertProfile(ctx, accountID, rec))

	got, err = store.GetProfile(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.CurrentDay)
	assert.Len(t, got.HistoryRefs, 3)
}

func TestVerseCorpus(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	v := verse.Verse{
		Reference:      "Romanos 8:28",
		Text:           "Sabemos que todas as coisas cooperam para o bem",
		Explanation:    "Deus faz tudo cooperar para o bem de quem o ama.",
		BookContext:    "Romanos é uma carta de Paulo.",
		Keywords:       []string{"coisas", "bem"},
		EmojiText:      "Sabemos que todas as coisas cooperam para o 👍",
		Scrambled:      []string{"que", "Sabemos", "todas"},
		FakeReferences: []string{"Romanos 8:1", "Romanos 12:2"},
	}
	require.NoError(t, store.SaveVerse(ctx, v))
	// Duplicate save is a no-op.
	require.NoError(t, store.SaveVerse(ctx, v))

	resolved, err := store.ResolveVerses(ctx, []string{"Romanos 8:28", "Inexistente 1:1"})
	require.NoError(t, err)
	require.Len(t, resolved, 1, "unknown references are absent, not errors")
	assert.Equal(t, v, resolved[0])

	none, err := store.ResolveVerses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	results, err := store.SearchVerses(ctx, "romanos", 30)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Romanos 8:28", results[0].Reference)

	results, err = store.SearchVerses(ctx, "COOPERAM", 30)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = store.SearchVerses(ctx, "nada disso", 30)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReminderTargets(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()
	accountID := uuid.NewString()

	hour, minute := 7, 0
	require.NoError(t, store.UpsertProfile(ctx, accountID, remotesync.ProfileRecord{
		CurrentDay:     1,
		ReminderHour:   &hour,
		ReminderMinute: &minute,
		Timezone:       "UTC",
		UpdatedAt:      time.Now().UTC(),
	}))

	require.NoError(t, store.AddReminderTarget(ctx, accountID, "kid@example.com"))
	require.NoError(t, store.AddReminderTarget(ctx, accountID, "push:endpoint-1"))
	// Duplicate registration is a no-op.
	require.NoError(t, store.AddReminderTarget(ctx, accountID, "kid@example.com"))

	profiles, err := store.ListReminderProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, accountID, profiles[0].AccountID)
	assert.Equal(t, 7, profiles[0].Hour)
	assert.Equal(t, "UTC", profiles[0].Timezone)
	assert.ElementsMatch(t, []string{"kid@example.com", "push:endpoint-1"}, profiles[0].Targets)

	require.NoError(t, store.DeleteReminderTarget(ctx, accountID, "push:endpoint-1"))

	profiles, err = store.ListReminderProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, []string{"kid@example.com"}, profiles[0].Targets)
}

func TestProfilesWithoutReminderAreNotListed(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertProfile(ctx, uuid.NewString(), remotesync.ProfileRecord{
		CurrentDay: 1,
		Timezone:   "UTC",
		UpdatedAt:  time.Now().UTC(),
	}))

	profiles, err := store.ListReminderProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
