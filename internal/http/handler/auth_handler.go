package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/config"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/response"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/repository"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/security"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/service"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthHandler struct {
	authSvc    service.AuthServiceInterface
	jwtMgr     *security.JWTManager
	cookies    *security.CookieManager
	oauthCfg   *oauth2.Config
	stateKey   string
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewAuthHandler(authSvc service.AuthServiceInterface, jwtMgr *security.JWTManager, cookies *security.CookieManager, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		jwtMgr:  jwtMgr,
		cookies: cookies,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		stateKey:   cfg.SessionSecret,
		sessionTTL: cfg.SessionTTL,
		logger:     logger,
	}
}

// safeUser is the signup response shape; it never includes hashes or codes.
type safeUser struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

func toSafeUser(u *domain.User) safeUser {
	return safeUser{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, IsVerified: u.IsVerified}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	user, err := h.authSvc.SignUp(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", verr.Message, nil)
		case errors.Is(err, repository.ErrDuplicateEmail):
			response.Error(w, r, http.StatusBadRequest, "CONFLICT", "user with this email already exists", nil)
		case errors.Is(err, service.ErrMailDelivery):
			// The account and its code are already stored; the user can
			// request a resend.
			response.Error(w, r, http.StatusInternalServerError, "EXTERNAL_SERVICE", "failed to send verification email", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create user", nil)
		}
		return
	}

	observability.EmitAudit(h.logger, r, observability.AuditInput{
		EventName:   "auth.signup",
		ActorUserID: user.ID,
		TargetType:  "user",
		TargetID:    user.Email,
		Action:      "create",
		Outcome:     "success",
		Reason:      "signup_completed",
	})
	response.JSON(w, r, http.StatusCreated, map[string]any{"user": toSafeUser(user)})
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email is required", nil)
		return
	}

	if err := h.authSvc.IssueOTP(r.Context(), body.Email); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		case errors.Is(err, service.ErrMailDelivery):
			response.Error(w, r, http.StatusInternalServerError, "EXTERNAL_SERVICE", "failed to send OTP", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to send OTP", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "OTP sent successfully"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	if err := h.authSvc.VerifyOTP(r.Context(), body.Email, body.OTP); err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", verr.Message, nil)
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		case errors.Is(err, service.ErrAlreadyVerified):
			response.Error(w, r, http.StatusBadRequest, "ALREADY_VERIFIED", "email is already verified", nil)
		case errors.Is(err, service.ErrInvalidOTP):
			response.Error(w, r, http.StatusBadRequest, "INVALID_OTP", "invalid OTP", nil)
		case errors.Is(err, service.ErrOTPExpired):
			response.Error(w, r, http.StatusBadRequest, "OTP_EXPIRED", "OTP has expired, please request a new one", nil)
		case errors.Is(err, service.ErrMailDelivery):
			// Verification already persisted; only the welcome mail failed.
			response.Error(w, r, http.StatusInternalServerError, "EXTERNAL_SERVICE", "verified, but the welcome email could not be sent", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "verification failed", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "Email verified successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	user, err := h.authSvc.SignInWithPassword(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotVerified):
			response.Error(w, r, http.StatusForbidden, "EMAIL_UNVERIFIED", "please verify your email before signing in", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "sign-in failed", nil)
		}
		return
	}

	if err := h.issueSession(w, user); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to issue session", nil)
		return
	}
	observability.EmitAudit(h.logger, r, observability.AuditInput{
		EventName:   "auth.login",
		ActorUserID: user.ID,
		TargetType:  "session",
		TargetID:    "self",
		Action:      "create",
		Outcome:     "success",
		Reason:      "password_login",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"user": toSafeUser(user)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSessionCookie(w)
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "signed out"})
}

func (h *AuthHandler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	state, err := security.NewRandomString(24)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to start OAuth flow", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    security.SignState(state, h.stateKey),
		Path:     "/api/auth/google",
		HttpOnly: true,
		MaxAge:   300,
	})
	http.Redirect(w, r, h.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusFound)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie := security.GetCookie(r, "oauth_state")
	state, ok := security.VerifySignedState(stateCookie, h.stateKey)
	if !ok || state == "" || state != r.URL.Query().Get("state") {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid OAuth state", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing authorization code", nil)
		return
	}
	token, err := h.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		response.Error(w, r, http.StatusBadGateway, "EXTERNAL_SERVICE", "OAuth code exchange failed", nil)
		return
	}

	info, err := fetchGoogleUserInfo(r.Context(), h.oauthCfg, token)
	if err != nil {
		response.Error(w, r, http.StatusBadGateway, "EXTERNAL_SERVICE", "failed to load Google profile", nil)
		return
	}

	user, err := h.authSvc.SignInWithGoogle(r.Context(), info.Email, info.Name, info.Picture)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "OAuth sign-in failed", nil)
		return
	}
	if err := h.issueSession(w, user); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to issue session", nil)
		return
	}
	observability.EmitAudit(h.logger, r, observability.AuditInput{
		EventName:   "auth.login",
		ActorUserID: user.ID,
		TargetType:  "session",
		TargetID:    "self",
		Action:      "create",
		Outcome:     "success",
		Reason:      "google_oauth",
	})
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, user *domain.User) error {
	verifiedAt := time.Time{}
	if user.IsVerified {
		verifiedAt = time.Now().UTC()
	}
	token, err := h.jwtMgr.SignSessionToken(user.ID, user.Email, user.Name, user.Avatar, verifiedAt, h.sessionTTL)
	if err != nil {
		return err
	}
	h.cookies.SetSessionCookie(w, token, h.sessionTTL)
	return nil
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	resp, err := cfg.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("userinfo request failed: " + resp.Status)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, errors.New("userinfo response missing email")
	}
	return &info, nil
}
