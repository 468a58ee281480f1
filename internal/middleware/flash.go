package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"

	flashCookie = "flash"
)

// Pages show flashes grouped in this order.
var flashCategories = []string{FlashSuccess, FlashInfo, FlashWarning, FlashDanger}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// NewFlashStore returns a cookie store whose values are signed with secret,
// so a client cannot forge or edit queued messages.
func NewFlashStore(secret []byte, secure bool) sessions.Store {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// Flashes installs the flash session. It must run before any handler that
// calls AddFlash or PopFlashes.
func Flashes(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(flashCookie, store)
}

// AddFlash queues a message. It survives a redirect through the flash cookie
// and is also visible to a re-render within the same request.
func AddFlash(c *gin.Context, category, message string) {
	s := sessions.Default(c)
	s.AddFlash(message, category)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("category", category).Msg("[flash][add] save failed")
	}
}

// PopFlashes returns every queued message and empties the flash cookie.
// Call it before the response body is written.
func PopFlashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	list := []Flash{}
	for _, category := range flashCategories {
		for _, v := range s.Flashes(category) {
			if msg, ok := v.(string); ok {
				list = append(list, Flash{Category: category, Message: msg})
			}
		}
	}
	if err := s.Save(); err != nil {
		log.Error().Err(err).Msg("[flash][pop] save failed")
	}
	return list
}
