package engine

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/memorizabiblia/memoriza-api/internal/auth"
	"github.com/memorizabiblia/memoriza-api/internal/days"
	"github.com/memorizabiblia/memoriza-api/internal/progress"
	"github.com/memorizabiblia/memoriza-api/internal/reminder"
	"github.com/memorizabiblia/memoriza-api/internal/verse"
	"github.com/memorizabiblia/memoriza-api/pkg/response"
)

// DeviceIDHeader identifies an anonymous device. Authenticated requests are
// keyed by the account from the JWT instead.
const DeviceIDHeader = "X-Device-ID"

type Handler struct {
	manager  *Manager
	location *time.Location
}

// NewHandler builds the engine handler. timezone is used to report next
// reminder fire times; unparseable values fall back to UTC.
func NewHandler(manager *Manager, timezone string) Handler {
	loc, err := reminder.ParseTimezoneLocation(timezone)
	if err != nil {
		log.Printf("invalid gateway timezone %q, using UTC: %v", timezone, err)
		loc = time.UTC
	}
	return Handler{manager: manager, location: loc}
}

// session resolves the caller's engine session: the JWT account when present,
// the device header otherwise.
func (h *Handler) session(r *http.Request) (*Session, bool) {
	if accountID, ok := auth.GetAccountIDFromContext(r); ok && accountID != "" {
		return h.manager.ForAccount(r.Context(), accountID), true
	}
	if deviceID := r.Header.Get(DeviceIDHeader); deviceID != "" {
		return h.manager.ForDevice(r.Context(), deviceID), true
	}
	return nil, false
}

func (h *Handler) mustSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, ok := h.session(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "Missing identity", "send a bearer token or an "+DeviceIDHeader+" header")
	}
	return s, ok
}

func (h *Handler) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}
	response.Success(w, s.State(), "successfully")
}

type selectDayRequest struct {
	Day int `json:"day"`
}

func (h *Handler) SelectDayHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	var req selectDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if err := s.SelectDay(req.Day); err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to select day", err.Error())
		return
	}
	response.Success(w, s.State(), "successfully")
}

func (h *Handler) CompleteActivityHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	if err := s.CompleteActivity(r.Context()); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNoActivity) {
			status = http.StatusConflict
		}
		response.Error(w, status, "Failed to complete activity", err.Error())
		return
	}
	response.Success(w, s.State(), "successfully")
}

type guessReferenceRequest struct {
	Reference string `json:"reference"`
}

func (h *Handler) GuessReferenceHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	var req guessReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if err := s.GuessReference(req.Reference); err != nil {
		if errors.Is(err, days.ErrWrongReference) {
			// A wrong pick is a quiz answer, not a failure.
			response.JSON(w, http.StatusOK, response.APIResponse{
				Status:  http.StatusOK,
				Success: false,
				Message: err.Error(),
				Data:    s.State(),
			})
			return
		}
		response.Error(w, http.StatusConflict, "Failed to answer quiz", err.Error())
		return
	}
	response.Success(w, s.State(), "successfully")
}

type arrangeIndexRequest struct {
	Index int `json:"index"`
}

func (h *Handler) ArrangeSelectHandler(w http.ResponseWriter, r *http.Request) {
	h.arrangeIndex(w, r, func(s *Session, i int) error { return s.ArrangeSelect(i) })
}

func (h *Handler) ArrangeUnselectHandler(w http.ResponseWriter, r *http.Request) {
	h.arrangeIndex(w, r, func(s *Session, i int) error { return s.ArrangeUnselect(i) })
}

func (h *Handler) arrangeIndex(w http.ResponseWriter, r *http.Request, apply func(*Session, int) error) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	var req arrangeIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if err := apply(s, req.Index); err != nil {
		response.Error(w, http.StatusConflict, "Failed to move token", err.Error())
		return
	}
	response.Success(w, s.State(), "successfully")
}

func (h *Handler) ArrangeResetHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	if err := s.ArrangeReset(); err != nil {
		response.Error(w, http.StatusConflict, "Failed to reset puzzle", err.Error())
		return
	}
	response.Success(w, s.State(), "successfully")
}

func (h *Handler) ArrangeVerifyHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	if err := s.ArrangeVerify(); err != nil {
		if errors.Is(err, days.ErrWrongOrder) {
			response.JSON(w, http.StatusOK, response.APIResponse{
				Status:  http.StatusOK,
				Success: false,
				Message: err.Error(),
				Data:    s.State(),
			})
			return
		}
		response.Error(w, http.StatusConflict, "Failed to verify order", err.Error())
		return
	}
	response.Success(w, s.State(), "successfully")
}

func (h *Handler) NewVerseHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	if err := s.NewVerse(r.Context()); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to load a new verse", err.Error())
		return
	}
	response.Success(w, s.State(), "successfully")
}

func (h *Handler) StartMemorizationHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	var v verse.Verse
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if v.Reference == "" || v.Text == "" {
		response.Error(w, http.StatusBadRequest, "Invalid verse", "reference and text are required")
		return
	}

	s.StartMemorization(v)
	response.Success(w, s.State(), "successfully")
}

func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	term := r.URL.Query().Get("q")
	if term == "" {
		response.Error(w, http.StatusBadRequest, "Missing search term", "q query parameter is required")
		return
	}

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	response.Success(w, s.Search(r.Context(), term, limit), "successfully")
}

func (h *Handler) RecallHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	v, err := s.Recall()
	if err != nil {
		response.Error(w, http.StatusNotFound, "No memorized verses yet", err.Error())
		return
	}
	response.Success(w, v, "successfully")
}

type notesRequest struct {
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

func (h *Handler) UpdateNotesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if req.Reference == "" {
		response.Error(w, http.StatusBadRequest, "Missing reference", "reference is required")
		return
	}

	s.UpdateNotes(req.Reference, req.Notes)
	response.Success(w, "Ok", "successfully")
}

type reminderRequest struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (h *Handler) SetReminderHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if err := s.SetReminder(req.Hour, req.Minute); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid reminder time", err.Error())
		return
	}

	next := reminder.NextAt(time.Now(), req.Hour, req.Minute, h.location)
	response.Success(w, map[string]interface{}{"next_at": next}, "successfully")
}

type achievementStatus struct {
	progress.Achievement
	Unlocked bool `json:"unlocked"`
}

// GetAchievementsHandler returns the full ladder annotated with the session's
// unlock state, so the trophy screen renders locked and unlocked badges alike.
func (h *Handler) GetAchievementsHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	unlocked := make(map[progress.AchievementID]bool)
	for _, id := range s.State().UnlockedAchievements {
		unlocked[id] = true
	}

	ladder := make([]achievementStatus, 0, len(progress.Achievements))
	for _, a := range progress.Achievements {
		ladder = append(ladder, achievementStatus{Achievement: a, Unlocked: unlocked[a.ID]})
	}
	response.Success(w, ladder, "successfully")
}

func (h *Handler) AckAchievementHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mustSession(w, r)
	if !ok {
		return
	}

	s.ClearAchievementToast()
	response.Success(w, "Ok", "successfully")
}
