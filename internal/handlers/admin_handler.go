package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/middleware"
	"smsportal/internal/services"
)

type AdminHandler struct {
	accounts services.AccountService
}

func NewAdminHandler(accounts services.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// @Summary      List accounts
// @Tags         Admin
// @Produce      html
// @Success      200
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	list, err := h.accounts.ListAccounts(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	render(c, http.StatusOK, "manage_users.html", gin.H{"title": "Manage users", "accounts": list})
}

// @Summary      Approve account
// @Tags         Admin
// @Param        id  path  int  true  "Account ID"
// @Success      302
// @Router       /admin/approve/{id} [get]
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		redirectWithFlash(c, middleware.FlashDanger, "Invalid account id.", "/admin/users")
		return
	}
	acc, err := h.accounts.Approve(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		h.fail(c, "approve", err)
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "User "+acc.Email+" has been approved.", "/admin/users")
}

// @Summary      Reject account
// @Description  Deletes the account; history rows keep a null owner
// @Tags         Admin
// @Param        id  path  int  true  "Account ID"
// @Success      302
// @Router       /admin/reject/{id} [get]
func (h *AdminHandler) Reject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		redirectWithFlash(c, middleware.FlashDanger, "Invalid account id.", "/admin/users")
		return
	}
	acc, err := h.accounts.Reject(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		h.fail(c, "reject", err)
		return
	}
	redirectWithFlash(c, middleware.FlashInfo, "User "+acc.Email+" has been rejected and deleted.", "/admin/users")
}

func (h *AdminHandler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		log.Warn().Str("action", action).Msg("[admin] unauthorized")
		redirectWithFlash(c, middleware.FlashDanger, "You do not have permission to access this page.", "/dashboard")
	case errors.Is(err, services.ErrNotFound):
		redirectWithFlash(c, middleware.FlashWarning, "User not found.", "/admin/users")
	case errors.Is(err, services.ErrCannotRejectSelf):
		redirectWithFlash(c, middleware.FlashWarning, "You cannot reject your own account.", "/admin/users")
	default:
		log.Error().Err(err).Str("action", action).Msg("[admin] failed")
		redirectWithFlash(c, middleware.FlashDanger, genericError, "/admin/users")
	}
}
