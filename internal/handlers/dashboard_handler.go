package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/middleware"
	"smsportal/internal/services"
)

type DashboardHandler struct {
	accounts services.AccountService
}

func NewDashboardHandler(accounts services.AccountService) *DashboardHandler {
	return &DashboardHandler{accounts: accounts}
}

func (h *DashboardHandler) Index(c *gin.Context) {
	if middleware.CurrentAccount(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	render(c, http.StatusOK, "dashboard.html", gin.H{"title": "Dashboard"})
}

// @Summary      Set sender phone
// @Description  Stores the caller's phone number in E.164; an empty value clears it
// @Tags         Profile
// @Accept       x-www-form-urlencoded
// @Param        phone  formData  string  false  "Phone number"
// @Success      302
// @Router       /profile/phone [post]
func (h *DashboardHandler) SetPhone(c *gin.Context) {
	acc := middleware.CurrentAccount(c)
	phone, err := h.accounts.SetPhone(c.Request.Context(), acc, c.PostForm("phone"))
	switch {
	case err == nil && phone == nil:
		redirectWithFlash(c, middleware.FlashInfo, "Phone number removed.", "/dashboard")
	case err == nil:
		redirectWithFlash(c, middleware.FlashSuccess, "Phone number saved as "+*phone+".", "/dashboard")
	case errors.Is(err, services.ErrInvalidPhoneNumber):
		redirectWithFlash(c, middleware.FlashDanger, "That does not look like a valid phone number.", "/dashboard")
	default:
		log.Error().Err(err).Int("account_id", acc.ID).Msg("[profile][phone] update failed")
		redirectWithFlash(c, middleware.FlashDanger, genericError, "/dashboard")
	}
}
