package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
)

func TestJobRepositoryOwnerIsolation(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewJobRepository(db)

	// Two users apply to the same company; each must only ever see their own
	// record.
	mine := &domain.Job{UserID: 1, CompanyName: "Acme Corp", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied, DateApplied: time.Now()}
	theirs := &domain.Job{UserID: 2, CompanyName: "Acme Corp", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied, DateApplied: time.Now()}
	for _, j := range []*domain.Job{mine, theirs} {
		if err := repo.Create(j); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}

	jobs, err := repo.ListByOwner(1, JobListFilter{})
	if err != nil {
		t.Fatalf("list owner 1: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != mine.ID {
		t.Fatalf("expected only owner 1's job, got %+v", jobs)
	}

	jobs, err = repo.ListByOwner(2, JobListFilter{})
	if err != nil {
		t.Fatalf("list owner 2: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != theirs.ID {
		t.Fatalf("expected only owner 2's job, got %+v", jobs)
	}
}

func TestJobRepositoryListFiltersAndOrdering(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewJobRepository(db)

	base := time.Now().UTC().Add(-time.Hour)
	specs := []struct {
		company  string
		status   domain.JobStatus
		priority domain.JobPriority
	}{
		{"Initech", domain.StatusApplied, domain.PriorityLow},
		{"Globex", domain.StatusInterview, domain.PriorityHigh},
		{"Hooli", domain.StatusApplied, domain.PriorityHigh},
	}
	for _, s := range specs {
		job := &domain.Job{UserID: 1, CompanyName: s.company, Role: "Engineer", Priority: s.priority, Status: s.status, DateApplied: base}
		if err := repo.Create(job); err != nil {
			t.Fatalf("create %s: %v", s.company, err)
		}
	}

	all, err := repo.ListByOwner(1, JobListFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(all))
	}
	// Same created_at second in sqlite; the id tiebreak keeps newest-first.
	if all[0].CompanyName != "Hooli" || all[2].CompanyName != "Initech" {
		t.Fatalf("unexpected ordering: %s .. %s", all[0].CompanyName, all[2].CompanyName)
	}

	applied, err := repo.ListByOwner(1, JobListFilter{Status: domain.StatusApplied})
	if err != nil {
		t.Fatalf("list applied: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("expected 2 applied jobs, got %d", len(applied))
	}

	appliedHigh, err := repo.ListByOwner(1, JobListFilter{Status: domain.StatusApplied, Priority: domain.PriorityHigh})
	if err != nil {
		t.Fatalf("list applied+high: %v", err)
	}
	if len(appliedHigh) != 1 || appliedHigh[0].CompanyName != "Hooli" {
		t.Fatalf("expected only Hooli, got %+v", appliedHigh)
	}
}

func TestJobRepositoryFullFieldRoundTrip(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewJobRepository(db)

	applied := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	job := &domain.Job{
		UserID:      7,
		CompanyName: "Vandelay Industries",
		Role:        "Staff Engineer",
		Priority:    domain.PriorityMedium,
		DateApplied: applied,
		Status:      domain.StatusOffer,
		SalaryRange: "$180k-$210k",
		Location:    "Remote (EU)",
		Notes:       "Referred by Dana; follow up after the take-home.",
		Link:        "https://vandelay.example.com/careers/42",
	}
	if err := repo.Create(job); err != nil {
		t.Fatalf("create job: %v", err)
	}

	stored, err := repo.FindByID(job.ID)
	if err != nil {
		t.Fatalf("find job: %v", err)
	}
	if stored.UserID != 7 || stored.CompanyName != job.CompanyName || stored.Role != job.Role {
		t.Fatalf("identity fields lost: %+v", stored)
	}
	if stored.Priority != domain.PriorityMedium || stored.Status != domain.StatusOffer {
		t.Fatalf("enum fields lost: %+v", stored)
	}
	if !stored.DateApplied.Equal(applied) {
		t.Fatalf("date applied changed: %v", stored.DateApplied)
	}
	if stored.SalaryRange != job.SalaryRange || stored.Location != job.Location || stored.Notes != job.Notes || stored.Link != job.Link {
		t.Fatalf("optional fields lost: %+v", stored)
	}
}

func TestJobRepositoryUpdateFields(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewJobRepository(db)

	job := &domain.Job{UserID: 1, CompanyName: "Globex", Role: "Engineer", Priority: domain.PriorityLow, Status: domain.StatusApplied, DateApplied: time.Now()}
	if err := repo.Create(job); err != nil {
		t.Fatalf("create job: %v", err)
	}

	updated, err := repo.UpdateFields(job.ID, map[string]any{
		"status":   domain.StatusInterview,
		"priority": domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("update fields: %v", err)
	}
	if updated.Status != domain.StatusInterview || updated.Priority != domain.PriorityHigh {
		t.Fatalf("expected updated enum fields, got %+v", updated)
	}
	if updated.CompanyName != "Globex" {
		t.Fatalf("untouched field changed: %q", updated.CompanyName)
	}

	if _, err := repo.UpdateFields(9999, map[string]any{"status": domain.StatusHired}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestJobRepositoryDelete(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewJobRepository(db)

	job := &domain.Job{UserID: 1, CompanyName: "Initech", Role: "Engineer", Priority: domain.PriorityLow, Status: domain.StatusApplied, DateApplied: time.Now()}
	if err := repo.Create(job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := repo.Delete(job.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if _, err := repo.FindByID(job.ID); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound after delete, got %v", err)
	}
	if err := repo.Delete(job.ID); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound on double delete, got %v", err)
	}
}
