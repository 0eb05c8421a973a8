// Package days holds the per-day challenge state machines of the 7-day verse
// cycle. Every day's "done" signal is a self-report except day 3's reference
// quiz and day 5's reordering puzzle, the two days with a checkable ground
// truth.
package days

import (
	"errors"
	"math/rand"
	"regexp"
	"strings"

	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

// Stage is the sub-state of an activity.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageChoosing  Stage = "choosing_reference" // day 3, before the quiz is solved
	StageReciting  Stage = "reciting"           // day 3, fill-in-the-blank unlocked
	StageArranging Stage = "arranging"          // day 5
	StageDone      Stage = "done"
)

var (
	ErrWrongReference = errors.New("essa não é a referência correta")
	ErrWrongOrder     = errors.New("a ordem não está correta")
	ErrWrongStage     = errors.New("action not available in this stage")
	ErrUnknownDay     = errors.New("day must be between 1 and 7")
)

// Activity drives one day's challenge for the active verse. It is externally
// driven (no timers) and terminates by invoking onComplete exactly once.
type Activity struct {
	day        int
	verse      verse.Verse
	stage      Stage
	onComplete func(day int)

	// Day 3: correct reference mixed with the decoys, shuffled once per
	// activity so the order is stable across wrong guesses.
	referenceOptions []string

	// Day 5.
	pool     []string
	selected []string
}

// New builds the activity for the given day. Days 1, 2, 4, 6 and 7 start idle;
// day 3 starts at the reference quiz and day 5 at the reordering puzzle.
func New(day int, v verse.Verse, onComplete func(day int)) (*Activity, error) {
	if day < 1 || day > 7 {
		return nil, ErrUnknownDay
	}

	a := &Activity{
		day:        day,
		verse:      v,
		stage:      StageIdle,
		onComplete: onComplete,
	}

	switch day {
	case 3:
		a.stage = StageChoosing
		a.referenceOptions = shuffled(append([]string{v.Reference}, v.FakeReferences...))
	case 5:
		a.stage = StageArranging
		a.pool = scrambleTokens(v)
	}

	return a, nil
}

func (a *Activity) Day() int     { return a.day }
func (a *Activity) Stage() Stage { return a.stage }

// ReferenceOptions returns the day-3 multiple choice options.
func (a *Activity) ReferenceOptions() []string {
	return append([]string(nil), a.referenceOptions...)
}

// Pool returns the not-yet-selected day-5 tokens.
func (a *Activity) Pool() []string {
	return append([]string(nil), a.pool...)
}

// Selected returns the day-5 tokens picked so far, in pick order.
func (a *Activity) Selected() []string {
	return append([]string(nil), a.selected...)
}

// GuessReference answers the day-3 quiz. A wrong pick returns
// ErrWrongReference and leaves the activity unchanged; the right pick unlocks
// the fill-in-the-blank stage.
func (a *Activity) GuessReference(ref string) error {
	if a.day != 3 || a.stage != StageChoosing {
		return ErrWrongStage
	}
	if ref != a.verse.Reference {
		return ErrWrongReference
	}
	a.stage = StageReciting
	return nil
}

// Select moves pool token i into the selection.
func (a *Activity) Select(i int) error {
	if a.day != 5 || a.stage != StageArranging {
		return ErrWrongStage
	}
	if i < 0 || i >= len(a.pool) {
		return ErrWrongStage
	}
	a.selected = append(a.selected, a.pool[i])
	a.pool = append(a.pool[:i], a.pool[i+1:]...)
	return nil
}

// Unselect returns selection token i to the pool.
func (a *Activity) Unselect(i int) error {
	if a.day != 5 || a.stage != StageArranging {
		return ErrWrongStage
	}
	if i < 0 || i >= len(a.selected) {
		return ErrWrongStage
	}
	a.pool = append(a.pool, a.selected[i])
	a.selected = append(a.selected[:i], a.selected[i+1:]...)
	return nil
}

// Reset re-scrambles the day-5 puzzle and clears the selection. No penalty.
func (a *Activity) Reset() error {
	if a.day != 5 || a.stage != StageArranging {
		return ErrWrongStage
	}
	a.pool = scrambleTokens(a.verse)
	a.selected = nil
	return nil
}

// Verify checks the day-5 selection against the verse. A correct order
// completes the day; a wrong one returns ErrWrongOrder and keeps the selection
// so the user can rearrange it.
func (a *Activity) Verify() error {
	if a.day != 5 || a.stage != StageArranging {
		return ErrWrongStage
	}
	if !OrderCorrect(a.verse, a.selected) {
		return ErrWrongOrder
	}
	a.finish()
	return nil
}

// Complete records the user's self-report for the current day. Day 3 requires
// the reference quiz solved first; day 5 completes through Verify only.
func (a *Activity) Complete() error {
	switch a.stage {
	case StageIdle, StageReciting:
		a.finish()
		return nil
	case StageDone:
		return nil
	default:
		return ErrWrongStage
	}
}

func (a *Activity) finish() {
	a.stage = StageDone
	if a.onComplete != nil {
		a.onComplete(a.day)
	}
}

var colonSpacing = regexp.MustCompile(`\s+:\s+`)
var punctuation = strings.NewReplacer(".", "", ",", "", ";", "", "!", "", "?", "")

// OrderCorrect is the day-5 predicate: the joined selection, with spaces
// around ":" collapsed, punctuation stripped and lowercased, must equal
// text + " " + reference treated the same way. Exact match, not fuzzy.
func OrderCorrect(v verse.Verse, selected []string) bool {
	current := colonSpacing.ReplaceAllString(strings.Join(selected, " "), ":")
	want := v.Text + " " + v.Reference
	return cleanForCompare(current) == cleanForCompare(want)
}

func cleanForCompare(s string) string {
	return strings.ToLower(punctuation.Replace(s))
}

// scrambleTokens builds the day-5 pool: the verse words plus the reference
// decomposed into book / chapter / ":" / verse tokens, shuffled.
func scrambleTokens(v verse.Verse) []string {
	tokens := append(strings.Fields(v.Text), verse.ReferenceParts(v.Reference)...)
	return shuffled(tokens)
}

func shuffled(in []string) []string {
	out := append([]string(nil), in...)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
