package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/middleware"
)

const genericError = "An error occurred. Please try again."

// render adds the values every page needs (current account, pending flashes).
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["account"] = middleware.CurrentAccount(c)
	data["flashes"] = middleware.PopFlashes(c)
	c.HTML(status, name, data)
}

func redirectWithFlash(c *gin.Context, category, message, location string) {
	middleware.AddFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// pageParam reads ?page=N; anything unparsable or below 1 is page 1.
func pageParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"title":   http.StatusText(status),
		"status":  status,
		"message": message,
	})
}

// NotFound is the NoRoute handler.
func NotFound(c *gin.Context) {
	log.Warn().Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("[http] 404 not found")
	renderError(c, http.StatusNotFound, "The page you are looking for does not exist.")
}
