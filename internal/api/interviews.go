package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruit-api/internal/common"
)

type scheduleRequest struct {
	ScheduledTime string `json:"scheduled_time" example:"2026-10-20T14:30:00Z"`
}

type schedulingLinkResponse struct {
	ApplicationID int64  `json:"application_id"`
	JobTitle      string `json:"job_title"`
}

// GetSchedulingLinkHandler reports whether a scheduling link can still be used
// @Summary Inspect a scheduling link
// @Tags interviews
// @Produce json
// @Param token path string true "Scheduling token"
// @Success 200 {object} schedulingLinkResponse
// @Failure 404 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /interview/schedule/{token} [get]
func (a *API) GetSchedulingLinkHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := pathToken(r)
	if !ok {
		writeError(w, errInvalidLink())
		return
	}
	interview, err := a.scheduler.LookupUnscheduled(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := schedulingLinkResponse{ApplicationID: interview.ApplicationID}
	if job, err := a.store.GetJob(r.Context(), interview.JobID); err == nil {
		resp.JobTitle = job.Title
	}
	writeJSON(w, http.StatusOK, resp)
}

// ScheduleInterviewHandler books the interview time picked by the applicant
// @Summary Schedule an interview
// @Description Slots start on the hour or half-hour, lie in the future and keep 30 minutes from other interviews for the same job
// @Tags interviews
// @Accept json
// @Produce json
// @Param token path string true "Scheduling token"
// @Param request body scheduleRequest true "Proposed start time (RFC 3339)"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /interview/schedule/{token} [post]
func (a *API) ScheduleInterviewHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := pathToken(r)
	if !ok {
		writeError(w, errInvalidLink())
		return
	}
	if _, err := a.scheduler.LookupUnscheduled(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.NewError(common.CodeInvalidArgument, "invalid request body", err))
		return
	}
	raw := strings.TrimSpace(req.ScheduledTime)
	if raw == "" {
		writeError(w, common.NewError(common.CodeInvalidArgument, "scheduled_time is required", nil))
		return
	}
	proposed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, common.NewError(common.CodeInvalidArgument, "scheduled_time must be an RFC 3339 timestamp", err))
		return
	}
	if err := a.scheduler.Schedule(r.Context(), token, proposed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Interview scheduled successfully!"})
}

func pathToken(r *http.Request) (uuid.UUID, bool) {
	token, err := uuid.Parse(r.PathValue("token"))
	if err != nil {
		return uuid.Nil, false
	}
	return token, true
}

func errInvalidLink() error {
	return common.NewError(common.CodeNotFound, "invalid or expired scheduling link", nil)
}
