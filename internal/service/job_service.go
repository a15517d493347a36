package service

import (
	"errors"
	"net/url"
	"time"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/repository"
)

// ErrForbidden means the record exists but belongs to someone else. Handlers
// must not reveal anything about the actual owner.
var ErrForbidden = errors.New("access denied")

// ValidationError carries a message that is surfaced verbatim to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(msg string) error { return &ValidationError{Message: msg} }

// JobDraft is the create payload. Zero DateApplied defaults to now; empty
// Status defaults to the lane the job was added into (Applied when absent).
type JobDraft struct {
	CompanyName string
	Role        string
	Priority    domain.JobPriority
	DateApplied time.Time
	Status      domain.JobStatus
	SalaryRange string
	Location    string
	Notes       string
	Link        string
}

// JobPatch is the partial update payload; nil fields are untouched. Owner id,
// record id and timestamps are not patchable by design.
type JobPatch struct {
	CompanyName *string
	Role        *string
	Priority    *domain.JobPriority
	DateApplied *time.Time
	Status      *domain.JobStatus
	SalaryRange *string
	Location    *string
	Notes       *string
	Link        *string
}

type JobServiceInterface interface {
	List(ownerID uint, filter repository.JobListFilter) ([]domain.Job, error)
	Create(ownerID uint, draft JobDraft) (*domain.Job, error)
	Update(id, ownerID uint, patch JobPatch) (*domain.Job, error)
	Delete(id, ownerID uint) error
}

type JobService struct {
	jobs repository.JobRepository
}

func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) List(ownerID uint, filter repository.JobListFilter) ([]domain.Job, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationErr("invalid status filter")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, validationErr("invalid priority filter")
	}
	return s.jobs.ListByOwner(ownerID, filter)
}

func (s *JobService) Create(ownerID uint, draft JobDraft) (*domain.Job, error) {
	if draft.CompanyName == "" || draft.Role == "" || draft.Priority == "" {
		return nil, validationErr("company name, role and priority are required")
	}
	if !draft.Priority.Valid() {
		return nil, validationErr("invalid priority")
	}
	status := draft.Status
	if status == "" {
		status = domain.StatusApplied
	}
	if !status.Valid() {
		return nil, validationErr("invalid status")
	}
	dateApplied := draft.DateApplied
	if dateApplied.IsZero() {
		dateApplied = time.Now().UTC()
	}
	if err := checkDateApplied(dateApplied); err != nil {
		return nil, err
	}
	if err := checkLink(draft.Link); err != nil {
		return nil, err
	}

	job := &domain.Job{
		UserID:      ownerID,
		CompanyName: draft.CompanyName,
		Role:        draft.Role,
		Priority:    draft.Priority,
		DateApplied: dateApplied,
		Status:      status,
		SalaryRange: draft.SalaryRange,
		Location:    draft.Location,
		Notes:       draft.Notes,
		Link:        draft.Link,
	}
	if err := s.jobs.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Update(id, ownerID uint, patch JobPatch) (*domain.Job, error) {
	job, err := s.requireOwned(id, ownerID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.CompanyName != nil {
		if *patch.CompanyName == "" {
			return nil, validationErr("company name cannot be empty")
		}
		fields["company_name"] = *patch.CompanyName
	}
	if patch.Role != nil {
		if *patch.Role == "" {
			return nil, validationErr("role cannot be empty")
		}
		fields["role"] = *patch.Role
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, validationErr("invalid priority")
		}
		fields["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, validationErr("invalid status")
		}
		fields["status"] = *patch.Status
	}
	if patch.DateApplied != nil {
		if err := checkDateApplied(*patch.DateApplied); err != nil {
			return nil, err
		}
		fields["date_applied"] = *patch.DateApplied
	}
	if patch.SalaryRange != nil {
		fields["salary_range"] = *patch.SalaryRange
	}
	if patch.Location != nil {
		fields["location"] = *patch.Location
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}
	if patch.Link != nil {
		if err := checkLink(*patch.Link); err != nil {
			return nil, err
		}
		fields["link"] = *patch.Link
	}
	if len(fields) == 0 {
		return job, nil
	}
	return s.jobs.UpdateFields(id, fields)
}

func (s *JobService) Delete(id, ownerID uint) error {
	if _, err := s.requireOwned(id, ownerID); err != nil {
		return err
	}
	return s.jobs.Delete(id)
}

func (s *JobService) requireOwned(id, ownerID uint) (*domain.Job, error) {
	job, err := s.jobs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if job.UserID != ownerID {
		return nil, ErrForbidden
	}
	return job, nil
}

func checkDateApplied(t time.Time) error {
	if t.After(time.Now().Add(time.Minute)) {
		return validationErr("application date cannot be in the future")
	}
	return nil
}

func checkLink(link string) error {
	if link == "" {
		return nil
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return validationErr("link must be a valid URL")
	}
	return nil
}
