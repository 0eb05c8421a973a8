package progress

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

func testVerse(ref string) verse.Verse {
	return verse.Verse{Reference: ref, Text: "texto de " + ref}
}

func TestCompleteDayIsIdempotent(t *testing.T) {
	s := NewStore()
	notifications := 0
	s.Subscribe(func() { notifications++ })

	s.CompleteDay(3)
	s.CompleteDay(3)
	s.CompleteDay(3)

	assert.Equal(t, []int{3}, s.Snapshot().CompletedDays)
	assert.Equal(t, 1, notifications, "repeat completions must not notify")
}

func TestCompleteDayIgnoresOutOfRange(t *testing.T) {
	s := NewStore()
	s.CompleteDay(0)
	s.CompleteDay(8)
	s.CompleteDay(-1)

	assert.Empty(t, s.Snapshot().CompletedDays)
}

func TestAddToHistoryDeduplicatesByReference(t *testing.T) {
	s := NewStore()
	s.AddToHistory(testVerse("João 3:16"))
	s.AddToHistory(verse.Verse{Reference: "João 3:16", Text: "outro texto"})

	snap := s.Snapshot()
	require.Len(t, snap.History, 1)
	assert.Equal(t, "texto de João 3:16", snap.History[0].Text)
}

func TestAddToHistoryPrepends(t *testing.T) {
	s := NewStore()
	s.AddToHistory(testVerse("João 3:16"))
	s.AddToHistory(testVerse("Salmos 23:1"))

	snap := s.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Equal(t, "Salmos 23:1", snap.History[0].Reference)
	assert.Equal(t, "João 3:16", snap.History[1].Reference)
}

func TestAddToHistoryUnlocksAchievements(t *testing.T) {
	s := NewStore()
	s.AddToHistory(testVerse("João 3:16"))

	snap := s.Snapshot()
	assert.Equal(t, []AchievementID{AchievementFirstVerse}, snap.UnlockedAchievements)
	assert.Equal(t, AchievementFirstVerse, snap.LastUnlockedAchievement)

	for i := 2; i <= 5; i++ {
		s.AddToHistory(testVerse(fmt.Sprintf("Salmos %d:1", i)))
	}

	snap = s.Snapshot()
	assert.Equal(t, []AchievementID{AchievementFirstVerse, AchievementFiveVerses}, snap.UnlockedAchievements)
	assert.Equal(t, AchievementFiveVerses, snap.LastUnlockedAchievement)
}

func TestClearLastUnlockedAchievementKeepsUnlockedList(t *testing.T) {
	s := NewStore()
	s.AddToHistory(testVerse("João 3:16"))
	s.ClearLastUnlockedAchievement()

	snap := s.Snapshot()
	assert.Empty(t, snap.LastUnlockedAchievement)
	assert.Equal(t, []AchievementID{AchievementFirstVerse}, snap.UnlockedAchievements)
}

func TestResetProgressKeepsHistoryAndAchievements(t *testing.T) {
	s := NewStore()
	s.AddToHistory(testVerse("João 3:16"))
	s.SetCurrentDay(5)
	s.CompleteDay(1)
	s.CompleteDay(2)

	s.ResetProgress()

	snap := s.Snapshot()
	assert.Equal(t, FirstDay, snap.CurrentDay)
	assert.Empty(t, snap.CompletedDays)
	assert.Len(t, snap.History, 1)
	assert.Equal(t, []AchievementID{AchievementFirstVerse}, snap.UnlockedAchievements)
}

func TestUpdateNotes(t *testing.T) {
	s := NewStore()
	s.AddToHistory(testVerse("João 3:16"))

	notifications := 0
	s.Subscribe(func() { notifications++ })

	s.UpdateNotes("João 3:16", "meu desenho favorito")
	s.UpdateNotes("Apocalipse 22:21", "referência desconhecida")

	snap := s.Snapshot()
	assert.Equal(t, "meu desenho favorito", snap.History[0].Notes)
	assert.Equal(t, 1, notifications, "unknown reference must be a silent no-op")
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	v := testVerse("João 3:16")
	s.SetVerse(&v)
	s.AddToHistory(testVerse("Salmos 23:1"))

	snap := s.Snapshot()
	snap.History[0].Notes = "mutated"
	snap.CurrentVerse.Text = "mutated"

	fresh := s.Snapshot()
	assert.Empty(t, fresh.History[0].Notes)
	assert.Equal(t, "texto de João 3:16", fresh.CurrentVerse.Text)
}

func TestRestoreDoesNotNotify(t *testing.T) {
	s := NewStore()
	notifications := 0
	s.Subscribe(func() { notifications++ })

	s.Restore(Snapshot{CurrentDay: 4, CompletedDays: []int{1, 2, 3}})

	assert.Equal(t, 0, notifications)
	snap := s.Snapshot()
	assert.Equal(t, 4, snap.CurrentDay)
	assert.Equal(t, []int{1, 2, 3}, snap.CompletedDays)
}

func TestRestoreClampsCorruptSnapshot(t *testing.T) {
	s := NewStore()
	s.Restore(Snapshot{CurrentDay: 42, CompletedDays: []int{0, 3, 99}})

	snap := s.Snapshot()
	assert.Equal(t, FirstDay, snap.CurrentDay)
	assert.Equal(t, []int{3}, snap.CompletedDays)
}

func TestOverwriteKeepsIdentityAndNotifies(t *testing.T) {
	s := NewStore()
	s.SetIdentity("account-1")

	notifications := 0
	s.Subscribe(func() { notifications++ })

	s.Overwrite(Snapshot{CurrentDay: 6, AccountID: "should-be-ignored"})

	snap := s.Snapshot()
	assert.Equal(t, "account-1", snap.AccountID)
	assert.Equal(t, 6, snap.CurrentDay)
	assert.Equal(t, 1, notifications)
}

func TestFirstFullCycle(t *testing.T) {
	s := NewStore()
	v := testVerse("João 3:16")
	s.SetVerse(&v)

	for day := FirstDay; day <= LastDay; day++ {
		s.SetCurrentDay(day)
		s.CompleteDay(day)
	}

	snap := s.Snapshot()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, snap.CompletedDays)

	s.AddToHistory(v)
	s.ResetProgress()

	snap = s.Snapshot()
	assert.Equal(t, FirstDay, snap.CurrentDay)
	assert.Empty(t, snap.CompletedDays)
	require.Len(t, snap.History, 1)
	assert.Equal(t, []AchievementID{AchievementFirstVerse}, snap.UnlockedAchievements)
}
