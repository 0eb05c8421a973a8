package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorizabiblia/memoriza-api/internal/progress"
	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "device.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadMissingRecordReturnsNil(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.Load("acc-1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := openTestStore(t)

	hour, minute := 7, 30
	want := progress.Snapshot{
		CurrentDay:    3,
		CompletedDays: []int{1, 2},
		CurrentVerse:  &verse.Verse{Reference: "João 3:16", Text: "Porque Deus amou o mundo"},
		History: []verse.Verse{
			{Reference: "Salmos 23:1", Text: "O Senhor é o meu pastor", Notes: "desenhei uma ovelha"},
		},
		UnlockedAchievements: []progress.AchievementID{progress.AchievementFirstVerse},
		ReminderHour:         &hour,
		ReminderMinute:       &minute,
		AccountID:            "acc-1",
	}

	require.NoError(t, s.Save("acc-1", want))

	got, err := s.Load("acc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("acc-1", progress.Snapshot{CurrentDay: 1}))
	require.NoError(t, s.Save("acc-1", progress.Snapshot{CurrentDay: 6}))

	got, err := s.Load("acc-1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.CurrentDay)
}

func TestRecordsAreKeyedPerAccount(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("acc-1", progress.Snapshot{CurrentDay: 2}))
	require.NoError(t, s.Save("device:abc", progress.Snapshot{CurrentDay: 5}))

	got1, err := s.Load("acc-1")
	require.NoError(t, err)
	got2, err := s.Load("device:abc")
	require.NoError(t, err)

	assert.Equal(t, 2, got1.CurrentDay)
	assert.Equal(t, 5, got2.CurrentDay)
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("acc-1", progress.Snapshot{CurrentDay: 4}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load("acc-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentDay)
}
