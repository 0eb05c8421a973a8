package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewlyUnlockedThresholds(t *testing.T) {
	tests := []struct {
		name       string
		historyLen int
		unlocked   []AchievementID
		want       []AchievementID
	}{
		{name: "empty history unlocks nothing", historyLen: 0, want: nil},
		{name: "first verse", historyLen: 1, want: []AchievementID{AchievementFirstVerse}},
		{name: "below next threshold", historyLen: 4, unlocked: []AchievementID{AchievementFirstVerse}, want: nil},
		{name: "fifth verse", historyLen: 5, unlocked: []AchievementID{AchievementFirstVerse}, want: []AchievementID{AchievementFiveVerses}},
		{
			name:       "restored profile crosses several at once in ascending order",
			historyLen: 12,
			want:       []AchievementID{AchievementFirstVerse, AchievementFiveVerses, AchievementTenVerses},
		},
		{
			name:       "already unlocked is never repeated",
			historyLen: 10,
			unlocked:   []AchievementID{AchievementFirstVerse, AchievementFiveVerses, AchievementTenVerses},
			want:       nil,
		},
		{name: "top of the ladder", historyLen: 25, unlocked: []AchievementID{AchievementFirstVerse, AchievementFiveVerses, AchievementTenVerses}, want: []AchievementID{AchievementAllVerses}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewlyUnlocked(tt.historyLen, tt.unlocked))
		})
	}
}

func TestNewlyUnlockedIsIdempotent(t *testing.T) {
	unlocked := []AchievementID{}
	first := NewlyUnlocked(5, unlocked)
	unlocked = append(unlocked, first...)

	assert.Empty(t, NewlyUnlocked(5, unlocked))
}

func TestAchievementsLadderAscending(t *testing.T) {
	for i := 1; i < len(Achievements); i++ {
		assert.Greater(t, Achievements[i].Threshold, Achievements[i-1].Threshold)
	}
}
