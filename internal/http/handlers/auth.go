package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/driveline/rental-be/internal/auth"
	"github.com/driveline/rental-be/internal/config"
	"github.com/driveline/rental-be/internal/http/respond"
	"github.com/driveline/rental-be/internal/logging"
	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/models/dto"
	"github.com/driveline/rental-be/internal/storage"
)

// invalidCredentials is the uniform login failure message. Unknown email and
// wrong password must be indistinguishable to the client.
const invalidCredentials = "invalid email or password"

const sessionHistoryLimit = 20

// AuthStore is the slice of storage the auth endpoints need.
type AuthStore interface {
	storage.UserStore
	storage.SessionAuditStore
}

// AuthHandler owns signup/login/logout/me endpoints and the session cookie
// contract.
type AuthHandler struct {
	store  AuthStore
	tokens *auth.TokenManager
	cfg    config.Config
	log    logging.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store AuthStore, tokens *auth.TokenManager, cfg config.Config, log logging.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, cfg: cfg, log: log}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signup", h.handleSignup)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("GET /api/auth/me", h.handleMe)
	mux.HandleFunc("GET /api/account/sessions", h.handleSessions)
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateCredentials(email, req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error(r.Context(), "hash password failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := models.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        normalizePhone(req),
		Address:      strings.TrimSpace(req.Address),
		Role:         models.RoleCustomer,
		PasswordHash: passwordHash,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusBadRequest, "user already exists")
		default:
			h.log.Error(r.Context(), "create user failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	if !h.issueSessionCookie(w, r, created) {
		return
	}
	respond.JSON(w, http.StatusCreated, "user created", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
		h.log.Error(r.Context(), "fetch user failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	h.recordLoginAudit(r, user.ID)

	if !h.issueSessionCookie(w, r, user) {
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", user)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "logged out", nil)
}

// handleMe reports whether the request carries a valid token. It is public:
// an invalid or absent token yields authenticated=false, never a 401.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		respond.JSON(w, http.StatusOK, "ok", dto.MeResponse{Authenticated: false})
		return
	}
	identity, err := h.tokens.Verify(cookie.Value)
	if err != nil {
		respond.JSON(w, http.StatusOK, "ok", dto.MeResponse{Authenticated: false})
		return
	}
	user, err := h.store.FindUserByID(r.Context(), identity.UserID)
	if err != nil {
		// Token outlived the account.
		respond.JSON(w, http.StatusOK, "ok", dto.MeResponse{Authenticated: false})
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.MeResponse{Authenticated: true, User: &user})
}

// handleSessions lists the caller's recent login audit entries. The route is
// behind the access gate.
func (h *AuthHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	sessions, err := h.store.ListLoginsByUser(r.Context(), identity.UserID, sessionHistoryLimit)
	if err != nil {
		h.log.Error(r.Context(), "list login sessions failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", sessions)
}

// issueSessionCookie signs a token for the user and sets it as an HTTP-only
// cookie. Returns false after writing an error response when signing fails.
func (h *AuthHandler) issueSessionCookie(w http.ResponseWriter, r *http.Request, user models.User) bool {
	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.log.Error(r.Context(), "issue token failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to establish session")
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

// recordLoginAudit writes a login_sessions row. Best effort: failure is
// logged, never surfaced to the client.
func (h *AuthHandler) recordLoginAudit(r *http.Request, userID int64) {
	session := models.LoginSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := h.store.RecordLogin(r.Context(), session); err != nil {
		h.log.Warn(r.Context(), "record login audit failed", "error", err)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func normalizePhone(req dto.SignupRequest) string {
	if trimmed := strings.TrimSpace(req.Phone); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(req.PhoneNumber)
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email is malformed")
	}
	if len(password) < 8 || !utf8.ValidString(password) {
		return errors.New("password must be at least 8 characters")
	}
	// bcrypt only hashes the first 72 bytes; longer input is rejected
	// rather than silently truncated.
	if len(password) > 72 {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}
