package progress

// AchievementID identifies one badge on the fixed unlock ladder.
type AchievementID string

const (
	AchievementFirstVerse AchievementID = "1_verse"
	AchievementFiveVerses AchievementID = "5_verses"
	AchievementTenVerses  AchievementID = "10_verses"
	AchievementAllVerses  AchievementID = "25_verses"
)

type Achievement struct {
	ID          AchievementID `json:"id"`
	Threshold   int           `json:"threshold"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
}

// Achievements is the fixed ladder, ascending by threshold.
var Achievements = []Achievement{
	{ID: AchievementFirstVerse, Threshold: 1, Name: "Iniciante na Palavra", Description: "Memorize seu primeiro versículo.", Icon: "🥉"},
	{ID: AchievementFiveVerses, Threshold: 5, Name: "Explorador Bíblico", Description: "Memorize 5 versículos.", Icon: "🥈"},
	{ID: AchievementTenVerses, Threshold: 10, Name: "Sábio Estudante", Description: "Memorize 10 versículos.", Icon: "🥇"},
	{ID: AchievementAllVerses, Threshold: 25, Name: "Mestre das Escrituras", Description: "Memorize 25 versículos.", Icon: "🏆"},
}

// NewlyUnlocked returns the achievements whose threshold is now met and that
// are not yet in unlocked, in ascending threshold order. Pure and idempotent:
// calling it twice with the same inputs never double-unlocks.
func NewlyUnlocked(historyLen int, unlocked []AchievementID) []AchievementID {
	have := make(map[AchievementID]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	var newly []AchievementID
	for _, a := range Achievements {
		if historyLen >= a.Threshold && !have[a.ID] {
			newly = append(newly, a.ID)
		}
	}
	return newly
}
