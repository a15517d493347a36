package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/middleware"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/response"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/repository"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/service"
)

type JobHandler struct {
	jobSvc service.JobServiceInterface
	logger *slog.Logger
}

func NewJobHandler(jobSvc service.JobServiceInterface, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobSvc: jobSvc, logger: logger}
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := authUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	filter := repository.JobListFilter{
		Status:   domain.JobStatus(r.URL.Query().Get("status")),
		Priority: domain.JobPriority(r.URL.Query().Get("priority")),
	}
	jobs, err := h.jobSvc.List(ownerID, filter)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", verr.Message, nil)
			return
		}
		observability.RecordJobEvent("list", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list jobs", nil)
		return
	}
	observability.RecordJobEvent("list", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"jobs": jobs})
}

type jobCreateRequest struct {
	CompanyName string `json:"company_name"`
	Role        string `json:"role"`
	Priority    string `json:"priority"`
	DateApplied string `json:"date_applied,omitempty"`
	Status      string `json:"status,omitempty"`
	SalaryRange string `json:"salary_range,omitempty"`
	Location    string `json:"location,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Link        string `json:"link,omitempty"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := authUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	var body jobCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	draft := service.JobDraft{
		CompanyName: body.CompanyName,
		Role:        body.Role,
		Priority:    domain.JobPriority(body.Priority),
		Status:      domain.JobStatus(body.Status),
		SalaryRange: body.SalaryRange,
		Location:    body.Location,
		Notes:       body.Notes,
		Link:        body.Link,
	}
	if body.DateApplied != "" {
		t, err := parseDate(body.DateApplied)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid date_applied", nil)
			return
		}
		draft.DateApplied = t
	}

	job, err := h.jobSvc.Create(ownerID, draft)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			observability.RecordJobEvent("create", "validation")
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", verr.Message, nil)
			return
		}
		observability.RecordJobEvent("create", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create job", nil)
		return
	}
	observability.RecordJobEvent("create", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"job": job})
}

type jobPatchRequest struct {
	CompanyName *string `json:"company_name"`
	Role        *string `json:"role"`
	Priority    *string `json:"priority"`
	DateApplied *string `json:"date_applied"`
	Status      *string `json:"status"`
	SalaryRange *string `json:"salary_range"`
	Location    *string `json:"location"`
	Notes       *string `json:"notes"`
	Link        *string `json:"link"`
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := authUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	jobID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid job id", nil)
		return
	}

	var body jobPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	patch := service.JobPatch{
		CompanyName: body.CompanyName,
		Role:        body.Role,
		SalaryRange: body.SalaryRange,
		Location:    body.Location,
		Notes:       body.Notes,
		Link:        body.Link,
	}
	if body.Priority != nil {
		p := domain.JobPriority(*body.Priority)
		patch.Priority = &p
	}
	if body.Status != nil {
		s := domain.JobStatus(*body.Status)
		patch.Status = &s
	}
	if body.DateApplied != nil {
		t, err := parseDate(*body.DateApplied)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid date_applied", nil)
			return
		}
		patch.DateApplied = &t
	}

	job, err := h.jobSvc.Update(jobID, ownerID, patch)
	if err != nil {
		h.writeMutationError(w, r, "update", err)
		return
	}
	observability.RecordJobEvent("update", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"job": job})
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := authUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	jobID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid job id", nil)
		return
	}

	if err := h.jobSvc.Delete(jobID, ownerID); err != nil {
		h.writeMutationError(w, r, "delete", err)
		return
	}
	observability.EmitAudit(h.logger, r, observability.AuditInput{
		EventName:   "job.delete",
		ActorUserID: ownerID,
		TargetType:  "job",
		TargetID:    strconv.FormatUint(uint64(jobID), 10),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "owner_delete",
	})
	observability.RecordJobEvent("delete", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "Job deleted successfully"})
}

func (h *JobHandler) writeMutationError(w http.ResponseWriter, r *http.Request, action string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		observability.RecordJobEvent(action, "validation")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", verr.Message, nil)
	case errors.Is(err, repository.ErrJobNotFound):
		observability.RecordJobEvent(action, "not_found")
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "job not found", nil)
	case errors.Is(err, service.ErrForbidden):
		observability.RecordJobEvent(action, "forbidden")
		response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "access denied", nil)
	default:
		observability.RecordJobEvent(action, "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to "+action+" job", nil)
	}
}

func authUserID(r *http.Request) (uint, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return 0, errors.New("missing auth context")
	}
	return claims.UserID()
}

func parsePathID(raw string) (uint, error) {
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id64), nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
