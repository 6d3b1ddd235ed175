package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-web/console-core/internal/activity"
	"github.com/meridian-web/console-core/internal/authz"
	"github.com/meridian-web/console-core/internal/platform/httpx"
	"github.com/meridian-web/console-core/internal/session"
)

// Revoker invalidates a session id ahead of its natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
}

// Handler wires HTTP endpoints for login, logout and session checks.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	codec      *session.Codec
	gate       *authz.Gate
	revoker    Revoker
	recorder   *activity.Recorder
	validator  *validator.Validate
	sessionTTL time.Duration
	secure     bool
	now        func() time.Time
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, codec *session.Codec, gate *authz.Gate, revoker Revoker, recorder *activity.Recorder, sessionTTL time.Duration, secure bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		service:    service,
		codec:      codec,
		gate:       gate,
		revoker:    revoker,
		recorder:   recorder,
		validator:  validator.New(),
		sessionTTL: sessionTTL,
		secure:     secure,
		now:        time.Now,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSessionCheck)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "username and password are required")
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	sess := session.New(
		uuid.NewString(),
		strconv.FormatInt(account.ID, 10),
		account.Username,
		account.Email,
		account.Role,
		account.Name,
		h.now(),
		h.sessionTTL,
	)
	token, err := h.codec.Encode(sess)
	if err != nil {
		h.logger.Error("encode session", slog.Any("error", err))
		httpx.Failure(w, http.StatusInternalServerError, "internal error")
		return
	}
	session.WriteCookie(w, token, sess.ExpiresAt, h.secure)

	if _, err := h.recorder.Record(r.Context(), sess, "auth.login", "Logged in", nil); err != nil {
		h.logger.Warn("record login activity", slog.Any("error", err))
	}

	httpx.Success(w, http.StatusOK, map[string]any{"user": toSessionUser(sess)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if sess, err := h.gate.Authenticate(r.Context(), cookie.Value); err == nil {
			if err := h.revoker.Revoke(r.Context(), sess.ID, sess.Remaining(h.now())); err != nil {
				h.logger.Warn("revoke session", slog.Any("error", err))
			}
			if _, err := h.recorder.Record(r.Context(), sess, "auth.logout", "Logged out", nil); err != nil {
				h.logger.Warn("record logout activity", slog.Any("error", err))
			}
		}
	}
	session.ClearCookie(w, h.secure)
	httpx.Success(w, http.StatusOK, nil)
}

// handleSessionCheck reports the session state with exactly two shapes:
// {authenticated:false} or {authenticated:true, user:{...}}.
func (h *Handler) handleSessionCheck(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	sess, err := h.gate.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		// Expired or invalid: instruct the client to drop the cookie.
		session.ClearCookie(w, h.secure)
		httpx.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          toSessionUser(sess),
	})
}

func toSessionUser(sess session.Session) sessionUser {
	return sessionUser{
		ID:       sess.SubjectID,
		Username: sess.Username,
		Email:    sess.Email,
		Role:     sess.Role,
		Name:     sess.DisplayName,
	}
}
