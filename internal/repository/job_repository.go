package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
)

var ErrJobNotFound = errors.New("job not found")

type JobListFilter struct {
	Status   domain.JobStatus
	Priority domain.JobPriority
}

type JobRepository interface {
	ListByOwner(ownerID uint, filter JobListFilter) ([]domain.Job, error)
	FindByID(id uint) (*domain.Job, error)
	Create(job *domain.Job) error
	UpdateFields(id uint, fields map[string]any) (*domain.Job, error)
	Delete(id uint) error
}

type GormJobRepository struct{ db *gorm.DB }

func NewJobRepository(db *gorm.DB) JobRepository {
	return &GormJobRepository{db: db}
}

// ListByOwner returns the owner's jobs newest-first by creation time,
// optionally narrowed by status and priority. Other users' records are never
// visible through this query.
func (r *GormJobRepository) ListByOwner(ownerID uint, filter JobListFilter) ([]domain.Job, error) {
	q := r.db.Where("user_id = ?", ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	var jobs []domain.Job
	if err := q.Order("created_at desc").Order("id desc").Find(&jobs).Error; err != nil {
		observability.RecordRepositoryOperation("job", "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation("job", "list", "success")
	return jobs, nil
}

func (r *GormJobRepository) FindByID(id uint) (*domain.Job, error) {
	var job domain.Job
	if err := r.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation("job", "find_by_id", "not_found")
			return nil, ErrJobNotFound
		}
		observability.RecordRepositoryOperation("job", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation("job", "find_by_id", "success")
	return &job, nil
}

func (r *GormJobRepository) Create(job *domain.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		observability.RecordRepositoryOperation("job", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation("job", "create", "success")
	return nil
}

// UpdateFields applies a shallow merge of the supplied columns and returns the
// reloaded record. Callers are responsible for restricting fields to the
// mutable allow-list; ownership must already have been checked.
func (r *GormJobRepository) UpdateFields(id uint, fields map[string]any) (*domain.Job, error) {
	res := r.db.Model(&domain.Job{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		observability.RecordRepositoryOperation("job", "update", "error")
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation("job", "update", "not_found")
		return nil, ErrJobNotFound
	}
	var job domain.Job
	if err := r.db.First(&job, id).Error; err != nil {
		observability.RecordRepositoryOperation("job", "update", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation("job", "update", "success")
	return &job, nil
}

func (r *GormJobRepository) Delete(id uint) error {
	res := r.db.Delete(&domain.Job{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation("job", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation("job", "delete", "not_found")
		return ErrJobNotFound
	}
	observability.RecordRepositoryOperation("job", "delete", "success")
	return nil
}
