package handlers

import (
	"net/http"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/api/dto"
	"github.com/pratik-mahalle/arcgate/internal/api/middleware"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/utils"
	"github.com/pratik-mahalle/arcgate/internal/pkg/validator"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles login, logout and the current user
type AuthHandler struct {
	sessions  session.Service
	users     user.Service
	cookie    CookieConfig
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	sessions session.Service,
	users user.Service,
	cookie CookieConfig,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		users:     users,
		cookie:    cookie,
		logger:    log,
		validator: val,
	}
}

// Login handles email login
// @Summary Log in
// @Description Look up the user by email, creating it on first login, and open a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email"
// @Success 200 {object} dto.LoginResponse "Logged in, session cookie set"
// @Failure 400 {string} string "Email is required"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError(validationErrs[0].Message, validationErrs))
		return
	}

	token, u, err := h.sessions.Login(r.Context(), req.Email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	middleware.AddLogField(w, "user_id", u.ID)

	utils.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Message: "Logged in",
		User:    u,
	})
}

// Logout handles logout
// @Summary Log out
// @Description Destroy the current session and clear the cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.MessageResponse "Logged out"
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, h.cookie.Name)
	if err := h.sessions.Logout(r.Context(), token); err != nil {
		utils.WriteError(w, err)
		return
	}

	h.clearSessionCookie(w)
	utils.WriteMessage(w, http.StatusOK, "Logged out")
}

// Me returns the current user, read fresh from the store
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} user.User
// @Failure 403 {string} string "Unauthorized"
// @Router /me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Unauthorized"))
		return
	}

	u, err := h.users.GetByID(r.Context(), sess.UserID())
	if err != nil {
		if errors.IsNotFound(err) {
			utils.WriteError(w, errors.Unauthorized("Unauthorized"))
			return
		}
		h.logger.ErrorWithErr(err, "Failed to load current user")
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookie.Secure,
		Expires:  time.Now().Add(h.cookie.TTL),
		MaxAge:   int(h.cookie.TTL.Seconds()),
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookie.Secure,
		MaxAge:   -1,
	})
}
