package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"recruit-api/internal/access"
	"recruit-api/internal/common"
	"recruit-api/internal/lifecycle"
)

type advanceRequest struct {
	Action string `json:"action" example:"invite"`
}

type submitRequest struct {
	JobID int64 `json:"job_id" example:"42"`
}

// AdvanceApplicationHandler lets the owning recruiter invite or reject an applicant
// @Summary Advance an application
// @Description Invite the applicant to schedule an interview or reject the application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body advanceRequest true "Recruiter decision"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /applications/{id}/advance [post]
func (a *API) AdvanceApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, common.NewError(common.CodeNotFound, "application not found", nil))
		return
	}
	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.NewError(common.CodeInvalidArgument, "invalid request body", err))
		return
	}
	action, err := lifecycle.ParseAction(req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.lifecycle.Advance(r.Context(), id, callerFrom(r.Context()), action); err != nil {
		writeError(w, err)
		return
	}

	message := "Interview invitation process started."
	if action == lifecycle.ActionReject {
		message = "Application has been rejected."
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// SubmitApplicationHandler applies the calling applicant to a job
// @Summary Apply to a job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body submitRequest true "Job to apply to"
// @Success 201 {object} domain.Application
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /applications [post]
func (a *API) SubmitApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.NewError(common.CodeInvalidArgument, "invalid request body", err))
		return
	}
	if req.JobID <= 0 {
		writeError(w, common.NewError(common.CodeInvalidArgument, "job_id is required", nil))
		return
	}
	app, err := a.lifecycle.Submit(r.Context(), callerFrom(r.Context()), req.JobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// GetApplicationHandler returns an application to its applicant or to the recruiter owning the job
// @Summary Get an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} domain.Application
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /applications/{id} [get]
func (a *API) GetApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, common.NewError(common.CodeNotFound, "application not found", nil))
		return
	}
	app, err := a.store.GetApplication(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !access.OwnsApplication(callerFrom(r.Context()), app) {
		writeError(w, common.NewError(common.CodeNotFound, "application not found", nil))
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
