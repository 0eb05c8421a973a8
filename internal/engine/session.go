// Package engine composes the progress store, the day activities, the verse
// provider and the sync reconciler into one per-account session: the same
// wiring the PWA shell keeps in memory, hosted behind the gateway.
package engine

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/memorizabiblia/memoriza-api/internal/days"
	"github.com/memorizabiblia/memoriza-api/internal/localstore"
	"github.com/memorizabiblia/memoriza-api/internal/progress"
	remotesync "github.com/memorizabiblia/memoriza-api/internal/remote_sync"
	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

var (
	ErrInvalidTime  = errors.New("reminder time out of range")
	ErrEmptyHistory = errors.New("history is empty")
	ErrNoActivity   = errors.New("no activity for the current day")
)

// VerseSource supplies fresh memorization content.
type VerseSource interface {
	Fetch(ctx context.Context, exclude []string) (*verse.Verse, error)
}

// Searcher queries the remote verse corpus.
type Searcher interface {
	SearchVerses(ctx context.Context, term string, limit int) ([]verse.Verse, error)
}

// CorpusWriter keeps generated verses resolvable for other devices.
type CorpusWriter interface {
	SaveVerse(ctx context.Context, v verse.Verse) error
}

// Deps are the session collaborators. Remote, Searcher and Corpus may be nil
// for offline/anonymous sessions; Local may be nil in tests.
type Deps struct {
	Provider VerseSource
	Local    *localstore.Store
	Remote   remotesync.ProfileStore
	Searcher Searcher
	Corpus   CorpusWriter
	Debounce time.Duration
	Timezone string
}

// Session is one account's (or anonymous device's) live engine instance.
// Handler calls are serialized by its mutex, matching the app's
// single-logical-thread event model.
type Session struct {
	mu sync.Mutex

	key      string
	store    *progress.Store
	activity *days.Activity
	deps     Deps
	rec      *remotesync.Reconciler
}

// NewSession hydrates the session from the device store, binds the identity,
// and — for authenticated sessions with a remote — awaits the initial pull
// before arming the debounced push. A failed pull leaves pushes disarmed for
// this session so stale local state cannot clobber the remote profile.
func NewSession(ctx context.Context, key, accountID string, deps Deps) *Session {
	s := &Session{key: key, store: progress.NewStore(), deps: deps}

	if deps.Local != nil {
		if snap, err := deps.Local.Load(key); err != nil {
			log.Printf("device state load failed for %s: %v", key, err)
		} else if snap != nil {
			s.store.Restore(*snap)
		}
	}
	s.store.SetIdentity(accountID)

	if deps.Local != nil {
		s.store.Subscribe(func() {
			if err := deps.Local.Save(key, s.store.Snapshot()); err != nil {
				log.Printf("device state save failed for %s: %v", key, err)
			}
		})
	}

	if accountID != "" && deps.Remote != nil {
		s.rec = remotesync.New(s.store, deps.Remote, deps.Debounce, deps.Timezone)
		if err := s.rec.Pull(ctx); err != nil {
			log.Printf("initial pull failed for %s: %v", accountID, err)
		}
	}

	s.rebuildActivity()
	return s
}

func (s *Session) Close() {
	if s.rec != nil {
		s.rec.Close()
	}
}

// onDayComplete bubbles an activity's completion into the store.
func (s *Session) onDayComplete(day int) {
	s.store.CompleteDay(day)
}

// rebuildActivity instantiates the current day's state machine. Requires mu
// held or exclusive access.
func (s *Session) rebuildActivity() {
	s.activity = nil
	v := s.store.CurrentVerse()
	if v == nil {
		return
	}
	day := s.store.Snapshot().CurrentDay
	a, err := days.New(day, *v, s.onDayComplete)
	if err != nil {
		log.Printf("activity rebuild failed for day %d: %v", day, err)
		return
	}
	s.activity = a
}

// StateView is what the UI renders.
type StateView struct {
	progress.Snapshot
	Stage            days.Stage        `json:"stage,omitempty"`
	ReferenceOptions []string          `json:"reference_options,omitempty"`
	Pool             []string          `json:"pool,omitempty"`
	Selected         []string          `json:"selected,omitempty"`
	BlankedText      []days.BlankToken `json:"blanked_text,omitempty"`
	FirstLetterText  string            `json:"first_letter_text,omitempty"`
	FirstLetterRef   string            `json:"first_letter_ref,omitempty"`
}

func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := StateView{Snapshot: s.store.Snapshot()}
	if s.activity == nil {
		return view
	}

	view.Stage = s.activity.Stage()
	switch s.activity.Day() {
	case 3:
		view.ReferenceOptions = s.activity.ReferenceOptions()
		if s.activity.Stage() == days.StageReciting && view.CurrentVerse != nil {
			view.BlankedText = days.BlankedText(*view.CurrentVerse)
		}
	case 5:
		view.Pool = s.activity.Pool()
		view.Selected = s.activity.Selected()
	case 6:
		if view.CurrentVerse != nil {
			view.FirstLetterText = days.FirstLetters(view.CurrentVerse.Text)
			view.FirstLetterRef = days.FirstLetters(view.CurrentVerse.Reference)
		}
	}
	return view
}

// SelectDay switches the active day and rebuilds its activity. Gating stays a
// UI concern, as in the store.
func (s *Session) SelectDay(day int) error {
	if day < progress.FirstDay || day > progress.LastDay {
		return days.ErrUnknownDay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetCurrentDay(day)
	s.rebuildActivity()
	return nil
}

// GuessReference answers the day-3 quiz.
func (s *Session) GuessReference(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activity == nil {
		return ErrNoActivity
	}
	return s.activity.GuessReference(ref)
}

func (s *Session) ArrangeSelect(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activity == nil {
		return ErrNoActivity
	}
	return s.activity.Select(i)
}

func (s *Session) ArrangeUnselect(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activity == nil {
		return ErrNoActivity
	}
	return s.activity.Unselect(i)
}

func (s *Session) ArrangeReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activity == nil {
		return ErrNoActivity
	}
	return s.activity.Reset()
}

// ArrangeVerify checks the day-5 ordering; a correct order completes the day.
func (s *Session) ArrangeVerify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activity == nil {
		return ErrNoActivity
	}
	return s.activity.Verify()
}

// CompleteActivity records the user's self-report for the current day. Day 7
// closes the whole cycle: the verse joins history (unlocking achievements)
// and a fresh verse cycle starts.
func (s *Session) CompleteActivity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activity == nil {
		return ErrNoActivity
	}

	day := s.activity.Day()
	if err := s.activity.Complete(); err != nil {
		return err
	}

	if day == progress.LastDay {
		if v := s.store.CurrentVerse(); v != nil {
			s.store.AddToHistory(*v)
		}
		return s.loadNewVerseLocked(ctx)
	}
	return nil
}

// NewVerse abandons the current cycle and starts a fresh one.
func (s *Session) NewVerse(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadNewVerseLocked(ctx)
}

// StartMemorization begins a cycle with a user-picked verse (search result).
func (s *Session) StartMemorization(v verse.Verse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetVerse(&v)
	s.store.ResetProgress()
	s.rebuildActivity()
}

func (s *Session) loadNewVerseLocked(ctx context.Context) error {
	exclude := make([]string, 0)
	for _, h := range s.store.Snapshot().History {
		exclude = append(exclude, h.Reference)
	}

	v, err := s.deps.Provider.Fetch(ctx, exclude)
	if err != nil {
		log.Printf("verse fetch degraded for %s: %v", s.key, err)
	}

	if s.deps.Corpus != nil && !v.IsFallback {
		if err := s.deps.Corpus.SaveVerse(ctx, *v); err != nil {
			log.Printf("corpus save failed for %s: %v", v.Reference, err)
		}
	}

	s.store.SetVerse(v)
	s.store.ResetProgress()
	s.rebuildActivity()
	return nil
}

// SearchResult carries the offline flag so the UI can show the fallback
// notice next to results.
type SearchResult struct {
	Verses  []verse.Verse `json:"verses"`
	Offline bool          `json:"offline"`
}

// Search queries the remote corpus, falling back to the bundled list.
func (s *Session) Search(ctx context.Context, term string, limit int) SearchResult {
	if s.deps.Searcher != nil {
		verses, err := s.deps.Searcher.SearchVerses(ctx, term, limit)
		if err == nil {
			return SearchResult{Verses: verses}
		}
		log.Printf("remote search failed, using offline corpus: %v", err)
	}
	return SearchResult{Verses: verse.SearchOffline(term, limit), Offline: true}
}

// Recall picks a random memorized verse for review.
func (s *Session) Recall() (*verse.Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.store.Snapshot().History
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	v := history[rand.Intn(len(history))]
	return &v, nil
}

func (s *Session) UpdateNotes(reference, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.UpdateNotes(reference, notes)
}

// SetReminder stores the preferred daily notification time.
func (s *Session) SetReminder(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidTime
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetReminderConfig(hour, minute)
	return nil
}

// ClearAchievementToast acknowledges the unlock toast.
func (s *Session) ClearAchievementToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearLastUnlockedAchievement()
}
