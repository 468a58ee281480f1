package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/middleware"
	"smsportal/internal/models"
	"smsportal/internal/repositories"
	"smsportal/internal/services"
)

type AuthHandler struct {
	accounts   services.AccountService
	auth       services.AuthService
	sessions   repositories.SessionRepository
	sessionTTL int
}

// NewAuthHandler takes the session lifetime in seconds; it becomes the cookie Max-Age.
func NewAuthHandler(accounts services.AccountService, auth services.AuthService, sessions repositories.SessionRepository, sessionTTL int) *AuthHandler {
	return &AuthHandler{accounts: accounts, auth: auth, sessions: sessions, sessionTTL: sessionTTL}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"title": "Sign up"})
}

// @Summary      Sign up
// @Description  Creates an inactive account and e-mails a confirmation link
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        email     formData  string  true  "E-mail"
// @Param        password  formData  string  true  "Password"
// @Success      302
// @Failure      400
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Debug().Err(err).Msg("[auth][signup] bad form")
		middleware.AddFlash(c, middleware.FlashDanger, "Please enter a valid email and a password.")
		render(c, http.StatusBadRequest, "signup.html", gin.H{"title": "Sign up", "email": req.Email})
		return
	}

	acc, err := h.accounts.Signup(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		redirectWithFlash(c, middleware.FlashSuccess,
			"A confirmation email has been sent to your email address. Please confirm to activate your account.", "/login")
	case errors.Is(err, services.ErrDuplicateEmail):
		redirectWithFlash(c, middleware.FlashDanger, "Email already exists.", "/signup")
	case errors.Is(err, services.ErrEmptyPassword):
		redirectWithFlash(c, middleware.FlashDanger, "Please enter a password.", "/signup")
	case acc != nil && errors.Is(err, services.ErrDispatchFailed):
		log.Error().Err(err).Int("account_id", acc.ID).Msg("[auth][signup] account created but mail failed")
		redirectWithFlash(c, middleware.FlashWarning,
			"Your account was created, but the confirmation email could not be sent. An administrator can still approve your account.", "/login")
	default:
		log.Error().Err(err).Str("email", req.Email).Msg("[auth][signup] failed")
		redirectWithFlash(c, middleware.FlashDanger, genericError, "/signup")
	}
}

// @Summary      Confirm e-mail
// @Tags         Auth
// @Param        token  path  string  true  "Confirmation token"
// @Success      302
// @Router       /confirm/{token} [get]
func (h *AuthHandler) Confirm(c *gin.Context) {
	_, err := h.accounts.Confirm(c.Request.Context(), c.Param("token"))
	switch {
	case err == nil:
		redirectWithFlash(c, middleware.FlashSuccess, "Your account has been confirmed. You can now log in.", "/login")
	case errors.Is(err, services.ErrInvalidOrExpiredToken):
		log.Warn().Msg("[auth][confirm] invalid or expired token")
		redirectWithFlash(c, middleware.FlashDanger, "The confirmation link is invalid or has expired.", "/login")
	case errors.Is(err, services.ErrNotFound):
		redirectWithFlash(c, middleware.FlashDanger, "This account no longer exists.", "/signup")
	default:
		log.Error().Err(err).Msg("[auth][confirm] failed")
		redirectWithFlash(c, middleware.FlashDanger, genericError, "/login")
	}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.CurrentAccount(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"title": "Log in"})
}

// @Summary      Log in
// @Description  Verifies the password of an active account and starts a session
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        email     formData  string  true  "E-mail"
// @Param        password  formData  string  true  "Password"
// @Success      302
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		redirectWithFlash(c, middleware.FlashDanger, "Invalid email or password.", "/login")
		return
	}
	ctx := c.Request.Context()

	acc, err := h.auth.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		redirectWithFlash(c, middleware.FlashDanger, "Invalid email or password.", "/login")
		return
	case errors.Is(err, services.ErrAccountNotActive):
		redirectWithFlash(c, middleware.FlashWarning,
			"Your account is not active yet. Please confirm your email or wait for admin approval.", "/login")
		return
	case err != nil:
		log.Error().Err(err).Msg("[auth][login] failed")
		redirectWithFlash(c, middleware.FlashDanger, genericError, "/login")
		return
	}

	sess, err := h.sessions.Create(ctx, acc.ID)
	if err != nil {
		log.Error().Err(err).Int("account_id", acc.ID).Msg("[auth][login] session create failed")
		redirectWithFlash(c, middleware.FlashDanger, genericError, "/login")
		return
	}
	middleware.SetSessionCookie(c, sess.ID, h.sessionTTL)
	log.Info().Int("account_id", acc.ID).Str("email", acc.Email).Msg("[auth][login] success")
	redirectWithFlash(c, middleware.FlashSuccess, "Logged in successfully.", "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id := middleware.CurrentSessionID(c); id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			log.Error().Err(err).Msg("[auth][logout] session delete failed")
		}
	}
	middleware.ClearSessionCookie(c)
	redirectWithFlash(c, middleware.FlashInfo, "You have been logged out.", "/login")
}
