package progress

import (
	"sync"

	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

const (
	FirstDay = 1
	LastDay  = 7
)

// Snapshot is the persistable view of the store: everything except transient
// loading flags. The device store serializes it as the app's single durable
// record; the reconciler reads it to build the remote profile record.
type Snapshot struct {
	CurrentDay              int             `json:"current_day"`
	CompletedDays           []int           `json:"completed_days"`
	CurrentVerse            *verse.Verse    `json:"current_verse,omitempty"`
	History                 []verse.Verse   `json:"history"`
	UnlockedAchievements    []AchievementID `json:"unlocked_achievements"`
	LastUnlockedAchievement AchievementID   `json:"last_unlocked_achievement,omitempty"`
	ReminderHour            *int            `json:"reminder_hour,omitempty"`
	ReminderMinute          *int            `json:"reminder_minute,omitempty"`
	AccountID               string          `json:"account_id,omitempty"`
}

// Store holds one user's progress through the 7-day verse cycle. All
// operations are total: they cannot fail over well-typed inputs, and
// persistence below them is best-effort. Observers are notified after every
// mutation; both the device store and the sync reconciler subscribe.
//
// SetCurrentDay is deliberately permissive: day gating (day d requires d-1
// completed) is enforced by callers, not here.
type Store struct {
	mu sync.Mutex

	currentDay              int
	completedDays           map[int]bool
	currentVerse            *verse.Verse
	history                 []verse.Verse
	unlockedAchievements    []AchievementID
	lastUnlockedAchievement AchievementID
	reminderHour            *int
	reminderMinute          *int
	accountID               string

	observers []func()
}

func NewStore() *Store {
	return &Store{
		currentDay:    FirstDay,
		completedDays: make(map[int]bool),
	}
}

// Subscribe registers fn to run after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Store) notifyLocked() []func() {
	obs := make([]func(), len(s.observers))
	copy(obs, s.observers)
	return obs
}

func notify(obs []func()) {
	for _, fn := range obs {
		fn()
	}
}

// SetCurrentDay switches the active day. No gating here: the day navigator
// disables locked days before calling in.
func (s *Store) SetCurrentDay(day int) {
	s.mu.Lock()
	s.currentDay = day
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// CompleteDay marks day done. Idempotent; does not advance currentDay.
func (s *Store) CompleteDay(day int) {
	s.mu.Lock()
	if day < FirstDay || day > LastDay || s.completedDays[day] {
		s.mu.Unlock()
		return
	}
	s.completedDays[day] = true
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// SetVerse replaces the active verse. It does not touch day state; pair it
// with ResetProgress when starting a fresh cycle.
func (s *Store) SetVerse(v *verse.Verse) {
	s.mu.Lock()
	s.currentVerse = v
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// AddToHistory prepends v to history unless a verse with the same reference is
// already there, then re-derives the unlocked achievements. When several
// thresholds are crossed at once the last one in ascending order becomes the
// toast pointer.
func (s *Store) AddToHistory(v verse.Verse) {
	s.mu.Lock()
	for _, h := range s.history {
		if h.Reference == v.Reference {
			s.mu.Unlock()
			return
		}
	}

	s.history = append([]verse.Verse{v}, s.history...)

	for _, id := range NewlyUnlocked(len(s.history), s.unlockedAchievements) {
		s.unlockedAchievements = append(s.unlockedAchievements, id)
		s.lastUnlockedAchievement = id
	}

	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// ResetProgress starts a fresh day cycle. History and achievements are never
// touched here.
func (s *Store) ResetProgress() {
	s.mu.Lock()
	s.currentDay = FirstDay
	s.completedDays = make(map[int]bool)
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// UpdateNotes attaches the user's notes to the matching history entry. No-op
// when the reference is not in history.
func (s *Store) UpdateNotes(reference, notes string) {
	s.mu.Lock()
	updated := false
	for i := range s.history {
		if s.history[i].Reference == reference {
			s.history[i].Notes = notes
			updated = true
			break
		}
	}
	if !updated {
		s.mu.Unlock()
		return
	}
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// ClearLastUnlockedAchievement acknowledges the unlock toast, guaranteeing
// at-most-once display per unlock.
func (s *Store) ClearLastUnlockedAchievement() {
	s.mu.Lock()
	s.lastUnlockedAchievement = ""
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// SetReminderConfig records the preferred daily notification time.
func (s *Store) SetReminderConfig(hour, minute int) {
	s.mu.Lock()
	s.reminderHour = &hour
	s.reminderMinute = &minute
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// SetIdentity binds (or with "" unbinds) the authenticated account.
func (s *Store) SetIdentity(accountID string) {
	s.mu.Lock()
	s.accountID = accountID
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

// AccountID returns the bound account, or "" when anonymous.
func (s *Store) AccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountID
}

// CurrentVerse returns a copy of the active verse, or nil before first load.
func (s *Store) CurrentVerse() *verse.Verse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentVerse == nil {
		return nil
	}
	v := *s.currentVerse
	return &v
}

// Snapshot returns a consistent copy of the persistable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		CurrentDay:              s.currentDay,
		CompletedDays:           make([]int, 0, len(s.completedDays)),
		History:                 make([]verse.Verse, len(s.history)),
		UnlockedAchievements:    make([]AchievementID, len(s.unlockedAchievements)),
		LastUnlockedAchievement: s.lastUnlockedAchievement,
		ReminderHour:            s.reminderHour,
		ReminderMinute:          s.reminderMinute,
		AccountID:               s.accountID,
	}
	for day := FirstDay; day <= LastDay; day++ {
		if s.completedDays[day] {
			snap.CompletedDays = append(snap.CompletedDays, day)
		}
	}
	copy(snap.History, s.history)
	copy(snap.UnlockedAchievements, s.unlockedAchievements)
	if s.currentVerse != nil {
		v := *s.currentVerse
		snap.CurrentVerse = &v
	}
	return snap
}

// Restore hydrates the store from a persisted snapshot. Used on startup with
// the device store record; observers are not notified (nothing changed from
// the caller's point of view).
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(snap)
}

// Overwrite replaces the synced fields with the pulled remote state and
// notifies observers, so the device store captures the merged result. Identity
// is kept: the remote record never carries it.
func (s *Store) Overwrite(snap Snapshot) {
	s.mu.Lock()
	snap.AccountID = s.accountID
	s.applyLocked(snap)
	obs := s.notifyLocked()
	s.mu.Unlock()
	notify(obs)
}

func (s *Store) applyLocked(snap Snapshot) {
	s.currentDay = snap.CurrentDay
	if s.currentDay < FirstDay || s.currentDay > LastDay {
		s.currentDay = FirstDay
	}
	s.completedDays = make(map[int]bool, len(snap.CompletedDays))
	for _, day := range snap.CompletedDays {
		if day >= FirstDay && day <= LastDay {
			s.completedDays[day] = true
		}
	}
	s.currentVerse = nil
	if snap.CurrentVerse != nil {
		v := *snap.CurrentVerse
		s.currentVerse = &v
	}
	s.history = make([]verse.Verse, len(snap.History))
	copy(s.history, snap.History)
	s.unlockedAchievements = make([]AchievementID, len(snap.UnlockedAchievements))
	copy(s.unlockedAchievements, snap.UnlockedAchievements)
	s.lastUnlockedAchievement = snap.LastUnlockedAchievement
	s.reminderHour = snap.ReminderHour
	s.reminderMinute = snap.ReminderMinute
	s.accountID = snap.AccountID
}
