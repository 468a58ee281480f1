package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/authz"
)

// RequireLogin sends anonymous visitors to the login form.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentAccount(c) == nil {
			AddFlash(c, FlashWarning, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin never fails hard: non-admins are logged and bounced to the dashboard.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		acc := CurrentAccount(c)
		if !authz.CanManageAccounts(acc) {
			ev := log.Warn().Str("path", c.Request.URL.Path)
			if acc != nil {
				ev = ev.Int("account_id", acc.ID).Str("email", acc.Email)
			}
			ev.Msg("[authz] non-admin tried to reach admin page")

			AddFlash(c, FlashDanger, "You do not have permission to access this page.")
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
