package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
)

func TestUserRepositoryCreateNormalizesAndDefaults(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	u := &domain.User{Name: "Alice", Email: "  Alice@Example.COM ", PasswordHash: "hash"}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Avatar != domain.DefaultAvatarURL {
		t.Fatalf("expected default avatar, got %q", u.Avatar)
	}

	found, err := repo.FindByEmail("ALICE@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, found.ID)
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	if err := repo.Create(&domain.User{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("create first user: %v", err)
	}
	err := repo.Create(&domain.User{Name: "Other Alice", Email: "ALICE@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	if _, err := repo.FindByID(42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound by id, got %v", err)
	}
	if _, err := repo.FindByEmail("nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound by email, got %v", err)
	}
	if err := repo.SetOTP(42, "hash", time.Now()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound from SetOTP, got %v", err)
	}
	if err := repo.MarkVerified(42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound from MarkVerified, got %v", err)
	}
	if err := repo.UpdateAvatar(42, "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound from UpdateAvatar, got %v", err)
	}
}

func TestUserRepositorySetOTPAndMarkVerified(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	u := &domain.User{Name: "Bob", Email: "bob@example.com"}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	expiry := time.Now().UTC().Add(10 * time.Minute).Truncate(time.Second)
	if err := repo.SetOTP(u.ID, "otp-hash", expiry); err != nil {
		t.Fatalf("set otp: %v", err)
	}
	stored, err := repo.FindByID(u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.OTPHash != "otp-hash" || stored.OTPExpiresAt == nil {
		t.Fatalf("expected stored otp hash and expiry, got %+v", stored)
	}

	if err := repo.MarkVerified(u.ID); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	stored, err = repo.FindByID(u.ID)
	if err != nil {
		t.Fatalf("reload after verify: %v", err)
	}
	if !stored.IsVerified {
		t.Fatal("expected user to be verified")
	}
	if stored.OTPHash != "" || stored.OTPExpiresAt != nil {
		t.Fatalf("expected code and expiry cleared, got hash=%q expiry=%v", stored.OTPHash, stored.OTPExpiresAt)
	}
}

func TestUserRepositoryUpdateAvatar(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	u := &domain.User{Name: "Carol", Email: "carol@example.com"}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := repo.UpdateAvatar(u.ID, "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	stored, err := repo.FindByID(u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Avatar != "https://cdn.example.com/a.png" {
		t.Fatalf("unexpected avatar: %q", stored.Avatar)
	}
}
