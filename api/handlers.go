/*
handlers.go - HTTP API handlers for the Chronos HR engine

PURPOSE:
  Exposes the vacation workflow, the time-correction proxy, and work
  sessions via REST. Handles HTTP request/response and JSON; all
  decisions belong to the domain packages.

ENDPOINTS:
  Vacations:
    GET    /api/vacations                   List (query filters, sticky)
    POST   /api/vacations                   Create request
    DELETE /api/vacations/filter            Clear the active filter
    GET    /api/vacations/pending           Pending view
    GET    /api/vacations/approved          Approved view
    GET    /api/vacations/balance           Vacation-day balance
    GET    /api/vacations/summaries         Per-employee summaries
    GET    /api/vacations/calendar          Calendar grid (start, end)
    GET    /api/vacations/availability      Team availability (start, end)
    GET    /api/vacations/{id}              Get one request
    POST   /api/vacations/{id}/cancel       Cancel (pending only)
    POST   /api/vacations/{id}/approve      Approve (pending only)
    POST   /api/vacations/{id}/reject       Reject (pending only)
    GET    /api/vacations/{id}/conflicts    Overlapping approved requests
    GET    /api/vacations/{id}/validate     Availability validation

  Corrections (proxied to the upstream API through the cache):
    GET/POST /api/corrections, GET/PUT/DELETE /api/corrections/{id},
    POST /api/corrections/{id}/approve, POST /api/corrections/{id}/reject

  Sessions:
    POST /api/sessions/clock-in|clock-out|breaks/start|breaks/end
    GET  /api/sessions?employee_id=...

ERROR HANDLING:
  The domain's vacation operations are silent no-ops on bad transitions;
  the HTTP edge is stricter and answers 404/409 so clients get feedback.
  Correction errors map back from the taxonomy to status codes.

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chronos/hr-engine/calendar"
	"github.com/chronos/hr-engine/correction"
	"github.com/chronos/hr-engine/vacation"
	"github.com/chronos/hr-engine/worksession"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Vacations   *vacation.Store
	Manager     *vacation.Manager
	Corrections *correction.Service
	Tracker     *worksession.Tracker
	Sessions    worksession.Store
	Log         *zap.Logger
}

func NewHandler(
	vacations *vacation.Store,
	manager *vacation.Manager,
	corrections *correction.Service,
	tracker *worksession.Tracker,
	sessions worksession.Store,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Vacations:   vacations,
		Manager:     manager,
		Corrections: corrections,
		Tracker:     tracker,
		Sessions:    sessions,
		Log:         log,
	}
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

// ListVacations returns the filtered request list. Query parameters
// replace the active filter; like the UI it mirrors, the filter is
// sticky until cleared.
func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if len(q) > 0 {
		f := vacation.Filter{
			EmployeeID: q.Get("employee_id"),
			Status:     vacation.Status(q.Get("status")),
		}
		if s := q.Get("start"); s != "" {
			d, err := calendar.ParseDate(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid start date (use YYYY-MM-DD)")
				return
			}
			f.StartDate = d
		}
		if s := q.Get("end"); s != "" {
			d, err := calendar.ParseDate(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid end date (use YYYY-MM-DD)")
				return
			}
			f.EndDate = d
		}
		h.Manager.SetFilter(f)
	}
	writeJSON(w, http.StatusOK, h.Manager.Requests())
}

// ClearVacationFilter resets the active filter.
func (h *Handler) ClearVacationFilter(w http.ResponseWriter, r *http.Request) {
	h.Manager.ClearFilter()
	w.WriteHeader(http.StatusNoContent)
}

// ListPendingVacations returns the filtered pending view.
func (h *Handler) ListPendingVacations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Manager.Pending())
}

// ListApprovedVacations returns the filtered approved view.
func (h *Handler) ListApprovedVacations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Manager.Approved())
}

// CreateVacation submits a new request.
func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	var req CreateVacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date (use YYYY-MM-DD)")
		return
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date (use YYYY-MM-DD)")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}

	form := vacation.CreateForm{
		Type:         vacation.Type(req.Type),
		StartDate:    start,
		EndDate:      end,
		EmployeeName: req.EmployeeName,
	}
	created, err := h.Vacations.Create(r.Context(), form, req.EmployeeID)
	if err != nil {
		h.Log.Error("failed to create vacation request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create request")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetVacation returns a single request.
func (h *Handler) GetVacation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.Vacations.GetByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// CancelVacation cancels a pending request. The domain treats bad
// transitions as no-ops; the HTTP edge reports them.
func (h *Handler) CancelVacation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := h.Vacations.GetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if req.Status != vacation.StatusPending {
		writeError(w, http.StatusConflict, "request is not pending")
		return
	}
	if err := h.Vacations.Cancel(r.Context(), id); err != nil {
		h.Log.Error("failed to cancel vacation request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to cancel request")
		return
	}
	updated, _ := h.Vacations.GetByID(id)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) reviewVacation(w http.ResponseWriter, r *http.Request, approve bool) {
	id := chi.URLParam(r, "id")

	var body ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Reviewer == "" {
		writeError(w, http.StatusBadRequest, "reviewer is required")
		return
	}

	req, ok := h.Vacations.GetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if req.Status != vacation.StatusPending {
		writeError(w, http.StatusConflict, "request is not pending")
		return
	}

	var (
		updated *vacation.Request
		err     error
	)
	if approve {
		updated, err = h.Manager.Approve(r.Context(), id, body.Reviewer, body.Comments)
	} else {
		updated, err = h.Manager.Reject(r.Context(), id, body.Reviewer, body.Comments)
	}
	if err != nil {
		h.Log.Error("failed to review vacation request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update request")
		return
	}
	if updated == nil {
		// Raced with another reviewer between the check and the call.
		writeError(w, http.StatusConflict, "request is not pending")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ApproveVacation approves a pending request.
func (h *Handler) ApproveVacation(w http.ResponseWriter, r *http.Request) {
	h.reviewVacation(w, r, true)
}

// RejectVacation rejects a pending request.
func (h *Handler) RejectVacation(w http.ResponseWriter, r *http.Request) {
	h.reviewVacation(w, r, false)
}

// GetVacationConflicts lists approved requests overlapping the target.
func (h *Handler) GetVacationConflicts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Vacations.GetByID(id); !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	writeJSON(w, http.StatusOK, toConflictDTOs(h.Manager.Conflicts(id)))
}

// ValidateVacation runs the team-availability check for a request.
func (h *Handler) ValidateVacation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Manager.ValidateTeamAvailability(chi.URLParam(r, "id")))
}

// GetVacationBalance returns the vacation-day balance.
func (h *Handler) GetVacationBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Vacations.Balance())
}

// GetEmployeeSummaries returns per-employee usage summaries.
func (h *Handler) GetEmployeeSummaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Manager.EmployeeSummaries())
}

// parseRange reads the start/end query parameters shared by the
// calendar and availability endpoints.
func parseRange(r *http.Request) (start, end calendar.Date, err error) {
	start, err = calendar.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return
	}
	end, err = calendar.ParseDate(r.URL.Query().Get("end"))
	return
}

// GetTeamAvailability returns per-weekday coverage over a range.
func (h *Handler) GetTeamAvailability(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start and end are required (YYYY-MM-DD)")
		return
	}
	writeJSON(w, http.StatusOK, toAvailabilityDTOs(h.Manager.TeamAvailability(start, end)))
}

// GetVacationCalendar returns the calendar grid for a range.
func (h *Handler) GetVacationCalendar(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start and end are required (YYYY-MM-DD)")
		return
	}
	writeJSON(w, http.StatusOK, toCalendarDTOs(h.Manager.GenerateCalendar(start, end)))
}

// =============================================================================
// CORRECTION HANDLERS
// =============================================================================

// correctionStatus maps taxonomy errors back to HTTP status codes.
func correctionStatus(err error) int {
	switch {
	case errors.Is(err, correction.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, correction.ErrReauthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, correction.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, correction.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, correction.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, correction.ErrServerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) writeCorrectionError(w http.ResponseWriter, err error) {
	h.Log.Warn("correction operation failed", zap.Error(err))
	writeError(w, correctionStatus(err), err.Error())
}

// ListCorrections lists correction requests via the cache-aside service.
func (h *Handler) ListCorrections(w http.ResponseWriter, r *http.Request) {
	q := correction.ListQuery{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Status:     correction.Status(r.URL.Query().Get("status")),
	}
	requests, err := h.Corrections.List(r.Context(), q)
	if err != nil {
		h.writeCorrectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// CreateCorrection submits a new correction request.
func (h *Handler) CreateCorrection(w http.ResponseWriter, r *http.Request) {
	var form correction.CreateForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.Corrections.Create(r.Context(), form)
	if err != nil {
		h.writeCorrectionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetCorrection returns one correction request, cache-first.
func (h *Handler) GetCorrection(w http.ResponseWriter, r *http.Request) {
	req, err := h.Corrections.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeCorrectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// UpdateCorrection amends a pending correction request.
func (h *Handler) UpdateCorrection(w http.ResponseWriter, r *http.Request) {
	var form correction.UpdateForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Corrections.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		h.writeCorrectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CancelCorrection deletes a correction request.
func (h *Handler) CancelCorrection(w http.ResponseWriter, r *http.Request) {
	if err := h.Corrections.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeCorrectionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApproveCorrection approves a correction. Notes optional.
func (h *Handler) ApproveCorrection(w http.ResponseWriter, r *http.Request) {
	var body ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Corrections.Approve(r.Context(), chi.URLParam(r, "id"), body.Reviewer, body.Comments)
	if err != nil {
		h.writeCorrectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RejectCorrection denies a correction. Notes required.
func (h *Handler) RejectCorrection(w http.ResponseWriter, r *http.Request) {
	var body ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Corrections.Reject(r.Context(), chi.URLParam(r, "id"), body.Reviewer, body.Comments)
	if err != nil {
		h.writeCorrectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

func (h *Handler) clockBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required")
		return "", false
	}
	return body.EmployeeID, true
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, worksession.ErrAlreadyClockedIn),
		errors.Is(err, worksession.ErrNotClockedIn),
		errors.Is(err, worksession.ErrBreakOpen),
		errors.Is(err, worksession.ErrNoOpenBreak):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, worksession.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.Log.Error("session operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session operation failed")
	}
}

// ClockIn opens a work session.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.clockBody(w, r)
	if !ok {
		return
	}
	session, err := h.Tracker.ClockIn(r.Context(), employeeID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// ClockOut closes the employee's open session.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.clockBody(w, r)
	if !ok {
		return
	}
	session, err := h.Tracker.ClockOut(r.Context(), employeeID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// StartBreak begins a break.
func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.clockBody(w, r)
	if !ok {
		return
	}
	session, err := h.Tracker.StartBreak(r.Context(), employeeID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// EndBreak ends the open break.
func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.clockBody(w, r)
	if !ok {
		return
	}
	session, err := h.Tracker.EndBreak(r.Context(), employeeID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// ListSessions returns an employee's sessions, newest first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required")
		return
	}
	sessions, err := h.Sessions.ListSessions(r.Context(), employeeID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	if sessions == nil {
		sessions = []*worksession.WorkSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
