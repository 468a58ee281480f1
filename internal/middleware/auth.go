package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/models"
)

const (
	SessionCookie = "session_id"

	ctxAccount   = "account"
	ctxSessionID = "session_id"
)

// SecureCookies marks the session cookie Secure. Set once at startup.
var SecureCookies bool

type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type AccountLookup interface {
	GetByID(ctx context.Context, id int) (*models.Account, error)
}

// SessionMiddleware resolves the session cookie to an account. The account is
// re-read on every request so a rejected or deactivated user loses access
// immediately; such stale sessions are deleted.
func SessionMiddleware(sessions SessionStore, accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		sess, err := sessions.Get(ctx, id)
		if err != nil {
			log.Error().Err(err).Msg("[session] load failed")
			c.Next()
			return
		}
		if sess == nil {
			ClearSessionCookie(c)
			c.Next()
			return
		}

		acc, err := accounts.GetByID(ctx, sess.AccountID)
		if err != nil {
			log.Error().Err(err).Int("account_id", sess.AccountID).Msg("[session] account load failed")
			c.Next()
			return
		}
		if acc == nil || !acc.IsActive {
			log.Info().Int("account_id", sess.AccountID).Msg("[session] dropping session of missing or inactive account")
			if err := sessions.Delete(ctx, id); err != nil {
				log.Error().Err(err).Msg("[session] delete failed")
			}
			ClearSessionCookie(c)
			c.Next()
			return
		}

		c.Set(ctxAccount, acc)
		c.Set(ctxSessionID, id)
		c.Next()
	}
}

// CurrentAccount returns the logged-in account or nil for anonymous requests.
func CurrentAccount(c *gin.Context) *models.Account {
	v, ok := c.Get(ctxAccount)
	if !ok {
		return nil
	}
	acc, _ := v.(*models.Account)
	return acc
}

func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func SetSessionCookie(c *gin.Context, id string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, maxAge, "/", "", SecureCookies, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", SecureCookies, true)
}
