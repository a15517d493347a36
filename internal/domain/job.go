package domain

import "time"

// JobStatus matches the five board columns. The board is the source of truth
// for the label set, so "Hired" is a first-class status.
type JobStatus string

const (
	StatusApplied   JobStatus = "Applied"
	StatusInterview JobStatus = "Interview"
	StatusOffer     JobStatus = "Offer"
	StatusRejected  JobStatus = "Rejected"
	StatusHired     JobStatus = "Hired"
)

// BoardLanes is the column order rendered on the board.
var BoardLanes = []JobStatus{StatusRejected, StatusApplied, StatusInterview, StatusOffer, StatusHired}

func (s JobStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusHired:
		return true
	}
	return false
}

type JobPriority string

const (
	PriorityHigh   JobPriority = "High"
	PriorityMedium JobPriority = "Medium"
	PriorityLow    JobPriority = "Low"
)

func (p JobPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Job is a tracked application. Every job has exactly one owner and exactly
// one status; CompanyName, Role and Priority are mandatory at creation.
type Job struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index;index:idx_jobs_owner_lane;not null" json:"user_id"`
	CompanyName string      `gorm:"size:255;not null" json:"company_name"`
	Role        string      `gorm:"size:255;not null" json:"role"`
	DateApplied time.Time   `gorm:"not null" json:"date_applied"`
	Status      JobStatus   `gorm:"size:32;index;index:idx_jobs_owner_lane;not null" json:"status"`
	Priority    JobPriority `gorm:"size:16;index;not null" json:"priority"`
	SalaryRange string      `gorm:"size:128" json:"salary_range,omitempty"`
	Location    string      `gorm:"size:255" json:"location,omitempty"`
	Notes       string      `gorm:"size:4096" json:"notes,omitempty"`
	Link        string      `gorm:"size:1024" json:"link,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
