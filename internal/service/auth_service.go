package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/config"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/repository"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please verify your email before signing in")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP has expired, please request a new one")
)

type AuthServiceInterface interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.User, error)
	SignInWithGoogle(ctx context.Context, email, name, avatar string) (*domain.User, error)
	IssueOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
}

type AuthService struct {
	users  repository.UserRepository
	mailer Mailer

	signupOTPTTL time.Duration
	resendOTPTTL time.Duration
}

func NewAuthService(users repository.UserRepository, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		users:        users,
		mailer:       mailer,
		signupOTPTTL: cfg.OTPSignupTTL,
		resendOTPTTL: cfg.OTPResendTTL,
	}
}

// SignUp creates an unverified account and issues its first verification
// code. The code is persisted before the mail goes out, so a delivery failure
// leaves a resendable account behind rather than rolling anything back.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = repository.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, validationErr("name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, validationErr("invalid email address")
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	code, err := security.GenerateOTP()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().UTC().Add(s.signupOTPTTL)

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   false,
		OTPHash:      security.HashOTP(code, email),
		OTPExpiresAt: &expiry,
	}
	if err := s.users.Create(user); err != nil {
		observability.RecordAuthEvent("signup", "error")
		return nil, err
	}
	observability.RecordAuthEvent("signup", "success")

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Name, code, s.signupOTPTTL); err != nil {
		return user, err
	}
	return user, nil
}

func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent("login", "unknown_user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		// OAuth-only account; there is no password to check.
		observability.RecordAuthEvent("login", "no_password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		observability.RecordAuthEvent("login", "unverified")
		return nil, ErrEmailNotVerified
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		observability.RecordAuthEvent("login", "bad_password")
		return nil, ErrInvalidCredentials
	}
	observability.RecordAuthEvent("login", "success")
	return user, nil
}

// SignInWithGoogle provisions a verified account on first OAuth sign-in and
// auto-verifies an existing unverified account on a matching email.
func (s *AuthService) SignInWithGoogle(ctx context.Context, email, name, avatar string) (*domain.User, error) {
	user, err := s.users.FindByEmail(email)
	if err == nil {
		if !user.IsVerified {
			if err := s.users.MarkVerified(user.ID); err != nil {
				return nil, err
			}
			user.IsVerified = true
		}
		observability.RecordAuthEvent("oauth_login", "success")
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user = &domain.User{
		Name:       name,
		Email:      repository.NormalizeEmail(email),
		Avatar:     avatar,
		IsVerified: true,
	}
	if err := s.users.Create(user); err != nil {
		observability.RecordAuthEvent("oauth_signup", "error")
		return nil, err
	}
	observability.RecordAuthEvent("oauth_signup", "success")
	return user, nil
}

// IssueOTP re-issues a code with the shorter resend lifetime.
func (s *AuthService) IssueOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}
	code, err := security.GenerateOTP()
	if err != nil {
		return err
	}
	expiry := time.Now().UTC().Add(s.resendOTPTTL)
	if err := s.users.SetOTP(user.ID, security.HashOTP(code, user.Email), expiry); err != nil {
		return err
	}
	observability.RecordAuthEvent("otp_issue", "success")
	return s.mailer.SendVerificationCode(ctx, user.Email, user.Name, code, s.resendOTPTTL)
}

// VerifyOTP flips the account to verified, clears the code and expiry, and
// sends the welcome mail exactly once. An already-verified account fails with
// a distinct error and never re-triggers the welcome mail.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return validationErr("please provide email and OTP")
	}
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		observability.RecordAuthEvent("otp_verify", "already_verified")
		return ErrAlreadyVerified
	}
	if user.OTPHash == "" || user.OTPHash != security.HashOTP(code, user.Email) {
		observability.RecordAuthEvent("otp_verify", "invalid")
		return ErrInvalidOTP
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		observability.RecordAuthEvent("otp_verify", "expired")
		return ErrOTPExpired
	}
	if err := s.users.MarkVerified(user.ID); err != nil {
		return err
	}
	observability.RecordAuthEvent("otp_verify", "success")
	return s.mailer.SendWelcome(ctx, user.Email, user.Name)
}
