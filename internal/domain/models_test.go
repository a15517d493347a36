package domain

import (
	"reflect"
	"strings"
	"testing"
)

func TestUserModelTagsAndDefaults(t *testing.T) {
	typ := reflect.TypeOf(User{})

	email, ok := typ.FieldByName("Email")
	if !ok {
		t.Fatal("missing User.Email field")
	}
	if got := email.Tag.Get("json"); got != "email" {
		t.Fatalf("User.Email json tag mismatch: %q", got)
	}
	if !strings.Contains(email.Tag.Get("gorm"), "uniqueIndex") {
		t.Fatalf("User.Email gorm tag missing uniqueIndex: %q", email.Tag.Get("gorm"))
	}

	verified, ok := typ.FieldByName("IsVerified")
	if !ok {
		t.Fatal("missing User.IsVerified field")
	}
	if !strings.Contains(verified.Tag.Get("gorm"), "default:false") {
		t.Fatalf("User.IsVerified gorm tag missing default:false: %q", verified.Tag.Get("gorm"))
	}
}

func TestSensitiveFieldsAreHiddenFromJSON(t *testing.T) {
	typ := reflect.TypeOf(User{})
	for _, field := range []string{"PasswordHash", "OTPHash", "OTPExpiresAt"} {
		f, ok := typ.FieldByName(field)
		if !ok {
			t.Fatalf("User.%s missing", field)
		}
		if got := f.Tag.Get("json"); got != "-" {
			t.Fatalf("expected User.%s json tag '-' for sensitive field, got %q", field, got)
		}
	}
}

func TestJobModelIndexContracts(t *testing.T) {
	typ := reflect.TypeOf(Job{})

	owner, ok := typ.FieldByName("UserID")
	if !ok {
		t.Fatal("missing Job.UserID field")
	}
	if !strings.Contains(owner.Tag.Get("gorm"), "idx_jobs_owner_lane") {
		t.Fatalf("Job.UserID gorm tag missing composite index: %q", owner.Tag.Get("gorm"))
	}

	status, ok := typ.FieldByName("Status")
	if !ok {
		t.Fatal("missing Job.Status field")
	}
	if !strings.Contains(status.Tag.Get("gorm"), "idx_jobs_owner_lane") {
		t.Fatalf("Job.Status gorm tag missing composite index: %q", status.Tag.Get("gorm"))
	}

	for _, field := range []string{"SalaryRange", "Location", "Notes", "Link"} {
		f, ok := typ.FieldByName(field)
		if !ok {
			t.Fatalf("missing Job.%s field", field)
		}
		if !strings.HasSuffix(f.Tag.Get("json"), ",omitempty") {
			t.Fatalf("Job.%s should omit when empty: %q", field, f.Tag.Get("json"))
		}
	}
}

func TestJobStatusEnum(t *testing.T) {
	for _, s := range []JobStatus{StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusHired} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range []JobStatus{"", "applied", "Ghosted", "Saved"} {
		if s.Valid() {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestJobPriorityEnum(t *testing.T) {
	for _, p := range []JobPriority{PriorityHigh, PriorityMedium, PriorityLow} {
		if !p.Valid() {
			t.Fatalf("%q should be valid", p)
		}
	}
	for _, p := range []JobPriority{"", "high", "Urgent"} {
		if p.Valid() {
			t.Fatalf("%q should be invalid", p)
		}
	}
}

func TestBoardLanesCoverEveryStatusExactlyOnce(t *testing.T) {
	if len(BoardLanes) != 5 {
		t.Fatalf("expected 5 lanes, got %d", len(BoardLanes))
	}
	seen := map[JobStatus]bool{}
	for _, lane := range BoardLanes {
		if !lane.Valid() {
			t.Fatalf("lane %q is not a valid status", lane)
		}
		if seen[lane] {
			t.Fatalf("lane %q appears twice", lane)
		}
		seen[lane] = true
	}
}
