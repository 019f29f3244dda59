package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/auth"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/service"
)

// AuthHandler manages local accounts and the session cookie.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, issue a JWT
//   - HandleLogin    → check username/password, issue a JWT
//   - HandleLogout   → clear the JWT cookie
//   - HandleMe       → return the currently logged-in user's profile
//
// The JWT is both returned in the body (for API clients) and stored in an
// HttpOnly cookie (for browsers). auth.RequireAuth accepts either.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *auth.TokenService
	logger *slog.Logger
	secure bool
}

// NewAuthHandler creates an AuthHandler. secureCookie sets the Secure flag on
// the session cookie; turn it off only for plain-HTTP development.
func NewAuthHandler(authService *service.AuthService, tokens *auth.TokenService, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		tokens: tokens,
		logger: logger,
		secure: secureCookie,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// HandleRegister creates an account.
//
// HTTP: POST /auth/register
// REQUEST BODY: {"username": "...", "password": "...", "name": "...", "email": "...", "role": "student"}
//
// Self-registration only creates students. Instructor and admin accounts
// can edit any answer, so they are created out of band (AuthService.Register).
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Role != "" && req.Role != model.RoleStudent {
		writeError(w, r, h.logger, apperror.ValidationFailed("role", "only student accounts can be self-registered"))
		return
	}

	res, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.setTokenCookie(w, res.Token)
	writeResult(w, r, h.logger, http.StatusCreated, model.OK("registered", authResponse{User: res.User, Token: res.Token}))
}

// HandleLogin checks credentials and issues a token.
//
// HTTP: POST /auth/login
// REQUEST BODY: {"username": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.setTokenCookie(w, res.Token)
	writeResult(w, r, h.logger, http.StatusOK, model.OK("logged in", authResponse{User: res.User, Token: res.Token}))
}

// HandleLogout clears the session cookie. Tokens are stateless, so a bearer
// token held elsewhere stays valid until it expires.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeResult(w, r, h.logger, http.StatusOK, model.OK[any]("logged out", nil))
}

// HandleMe returns the logged-in user.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.auth)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeResult(w, r, h.logger, http.StatusOK, model.OK("", user))
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
