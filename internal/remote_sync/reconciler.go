// Package remotesync reconciles the local progress store with the remote
// profile record: a full-overwrite pull right after login, and a debounced
// push on every local change while authenticated. Local state stays the
// durable source of truth between syncs; multi-device conflicts resolve as
// "last push wins".
package remotesync

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/memorizabiblia/memoriza-api/internal/progress"
	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

const pushTimeout = 10 * time.Second

type Reconciler struct {
	store    *progress.Store
	remote   ProfileStore
	debounce time.Duration
	timezone string

	mu     sync.Mutex
	timer  *time.Timer
	armed  bool
	closed bool
}

// New wires a reconciler to the store. timezone is the IANA zone identifier
// carried on every push so the reminder dispatcher can match the user's local
// time. The reconciler is created disarmed: Pull must complete (or be
// skipped via Arm for sessions with nothing to pull) before pushes fire, so a
// fresh device cannot clobber a populated remote profile with empty state.
func New(store *progress.Store, remote ProfileStore, debounce time.Duration, timezone string) *Reconciler {
	if debounce <= 0 {
		debounce = time.Second
	}
	if timezone == "" {
		timezone = "America/Sao_Paulo"
	}
	r := &Reconciler{
		store:    store,
		remote:   remote,
		debounce: debounce,
		timezone: timezone,
	}
	store.Subscribe(r.onStoreChange)
	return r
}

// onStoreChange restarts the debounce window. A change landing while a push
// is pending resets the timer rather than queuing a second push, so rapid
// mutations coalesce into one upsert carrying the final state.
func (r *Reconciler) onStoreChange() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.armed || r.closed || r.store.AccountID() == "" {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := r.Push(ctx); err != nil {
			log.Printf("debounced push failed: %v", err)
		}
	})
}

// Arm enables debounced pushes. Called by Pull on success, or directly for
// sessions that skip the pull.
func (r *Reconciler) Arm() {
	r.mu.Lock()
	r.armed = true
	r.mu.Unlock()
}

// Close stops any pending push.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
}

// Pull fetches the remote profile and overwrites the local synced fields.
// Remote is authoritative once pulled: this is a full overwrite, not a
// field-level merge. An absent record (first-time user) leaves local state
// untouched. On success (or absence) pushes are armed; on failure they stay
// disarmed so a stale local state is not pushed over a populated profile.
func (r *Reconciler) Pull(ctx context.Context) error {
	accountID := r.store.AccountID()
	if accountID == "" {
		return nil
	}

	rec, err := r.remote.GetProfile(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			r.Arm()
			return nil
		}
		return err
	}

	snap := r.merge(ctx, rec)
	r.store.Overwrite(snap)
	r.Arm()
	return nil
}

// merge resolves the record's verse references into full verses and builds
// the snapshot to overwrite the store with. Resolution order: remote corpus,
// then the bundled offline list, then the carve-out — a reference matching
// the currently loaded local verse keeps the local object, so a transient
// resolution failure never destroys the active session's verse. Anything else
// unresolvable is dropped silently. History order comes strictly from
// history_refs, not resolution order.
func (r *Reconciler) merge(ctx context.Context, rec *ProfileRecord) progress.Snapshot {
	wanted := make([]string, 0, len(rec.HistoryRefs)+1)
	wanted = append(wanted, rec.HistoryRefs...)
	if rec.CurrentVerseRef != "" {
		wanted = append(wanted, rec.CurrentVerseRef)
	}

	resolved := make(map[string]verse.Verse)
	if len(wanted) > 0 {
		verses, err := r.remote.ResolveVerses(ctx, wanted)
		if err != nil {
			log.Printf("remote verse resolution failed, using offline list only: %v", err)
		}
		for _, v := range verses {
			resolved[v.Reference] = v
		}
	}

	local := r.store.CurrentVerse()

	lookup := func(ref string) (verse.Verse, bool) {
		if v, ok := resolved[ref]; ok {
			return v, true
		}
		if v, ok := verse.OfflineByReference(ref); ok {
			return v, true
		}
		if local != nil && local.Reference == ref {
			return *local, true
		}
		return verse.Verse{}, false
	}

	history := make([]verse.Verse, 0, len(rec.HistoryRefs))
	for _, ref := range rec.HistoryRefs {
		v, ok := lookup(ref)
		if !ok {
			log.Printf("dropping unresolvable history reference %q", ref)
			continue
		}
		history = append(history, v)
	}

	var current *verse.Verse
	if rec.CurrentVerseRef != "" {
		if v, ok := lookup(rec.CurrentVerseRef); ok {
			current = &v
		}
	}
	if current == nil && local != nil {
		// The remote record points at nothing usable; keep the session's
		// verse instead of leaving the user without one.
		current = local
	}

	achievements := make([]progress.AchievementID, 0, len(rec.UnlockedAchievements))
	for _, id := range rec.UnlockedAchievements {
		achievements = append(achievements, progress.AchievementID(id))
	}

	return progress.Snapshot{
		CurrentDay:           rec.CurrentDay,
		CompletedDays:        rec.CompletedDays,
		CurrentVerse:         current,
		History:              history,
		UnlockedAchievements: achievements,
		ReminderHour:         rec.ReminderHour,
		ReminderMinute:       rec.ReminderMinute,
	}
}

// Push serializes the local state and upserts the remote profile. No-op while
// unauthenticated. Failures are the caller's to log; local state is never
// rolled back.
func (r *Reconciler) Push(ctx context.Context) error {
	snap := r.store.Snapshot()
	if snap.AccountID == "" {
		return nil
	}

	rec := ProfileRecord{
		CurrentDay:     snap.CurrentDay,
		CompletedDays:  snap.CompletedDays,
		HistoryRefs:    make([]string, 0, len(snap.History)),
		ReminderHour:   snap.ReminderHour,
		ReminderMinute: snap.ReminderMinute,
		Timezone:       r.timezone,
		UpdatedAt:      time.Now().UTC(),
	}
	if snap.CurrentVerse != nil {
		rec.CurrentVerseRef = snap.CurrentVerse.Reference
	}
	for _, v := range snap.History {
		rec.HistoryRefs = append(rec.HistoryRefs, v.Reference)
	}
	for _, id := range snap.UnlockedAchievements {
		rec.UnlockedAchievements = append(rec.UnlockedAchievements, string(id))
	}

	return r.remote.UpsertProfile(ctx, snap.AccountID, rec)
}
