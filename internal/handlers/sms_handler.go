package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/middleware"
	"smsportal/internal/models"
	"smsportal/internal/services"
	"smsportal/internal/utils"
)

type SMSHandler struct {
	messaging services.MessagingService
	history   services.HistoryService
}

func NewSMSHandler(messaging services.MessagingService, history services.HistoryService) *SMSHandler {
	return &SMSHandler{messaging: messaging, history: history}
}

func (h *SMSHandler) ShowCampaign(c *gin.Context) {
	render(c, http.StatusOK, "sms_campaign.html", gin.H{"title": "SMS campaign"})
}

// @Summary      Send SMS campaign
// @Description  Sends one message to each recipient; every successful send is written to history
// @Tags         SMS
// @Accept       x-www-form-urlencoded
// @Param        to       formData  string  true  "Recipients separated by comma, semicolon or newline"
// @Param        message  formData  string  true  "Message text"
// @Success      302
// @Router       /sms_campaign [post]
func (h *SMSHandler) SendCampaign(c *gin.Context) {
	var req models.CampaignRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.AddFlash(c, middleware.FlashDanger, "Please enter recipients and a message of at most 1600 characters.")
		render(c, http.StatusBadRequest, "sms_campaign.html", gin.H{"title": "SMS campaign", "to": req.To, "message": req.Message})
		return
	}

	acc := middleware.CurrentAccount(c)
	results, err := h.messaging.SendCampaign(c.Request.Context(), acc, utils.SplitRecipients(req.To), req.Message)
	switch {
	case errors.Is(err, services.ErrMissingPhoneNumber):
		redirectWithFlash(c, middleware.FlashDanger, "Please set your phone number before sending SMS.", "/dashboard")
		return
	case errors.Is(err, services.ErrUnauthorized):
		redirectWithFlash(c, middleware.FlashDanger, "Your account is not allowed to send SMS.", "/dashboard")
		return
	case errors.Is(err, services.ErrNoRecipients):
		redirectWithFlash(c, middleware.FlashDanger, "Please enter at least one recipient.", "/sms_campaign")
		return
	case err != nil:
		log.Error().Err(err).Int("account_id", acc.ID).Msg("[sms][campaign] failed")
		redirectWithFlash(c, middleware.FlashDanger, genericError, "/sms_campaign")
		return
	}

	failed := services.CountFailures(results)
	if failed > 0 {
		middleware.AddFlash(c, middleware.FlashDanger, campaignFailures(results, failed))
	}
	if sent := len(results) - failed; sent > 0 {
		middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("SMS sent successfully to %d recipient(s).", sent))
	}
	log.Info().Int("account_id", acc.ID).Int("recipients", len(results)).Int("failed", failed).Msg("[sms][campaign] done")
	c.Redirect(http.StatusFound, "/sms_campaign")
}

// @Summary      Place a call
// @Tags         Calls
// @Accept       x-www-form-urlencoded
// @Param        to   formData  string  true  "Number to call"
// @Param        url  formData  string  true  "TwiML URL"
// @Success      302
// @Router       /call [post]
func (h *SMSHandler) MakeCall(c *gin.Context) {
	var req models.CallRequest
	if err := c.ShouldBind(&req); err != nil {
		redirectWithFlash(c, middleware.FlashDanger, "Please enter a number and a valid TwiML URL.", "/dashboard")
		return
	}
	rec, err := h.messaging.MakeCall(c.Request.Context(), middleware.CurrentAccount(c), req.To, req.TwimlURL)
	if err != nil {
		redirectWithFlash(c, middleware.FlashDanger, "Call failed: "+dispatchReason(err), "/dashboard")
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Calling "+rec.Destination+".", "/dashboard")
}

func (h *SMSHandler) ShowLookup(c *gin.Context) {
	render(c, http.StatusOK, "lookup.html", gin.H{"title": "Number lookup"})
}

// @Summary      Carrier lookup
// @Tags         Lookup
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        number  formData  string  true  "Phone number"
// @Success      200
// @Failure      400
// @Failure      502
// @Router       /lookup [post]
func (h *SMSHandler) Lookup(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.AddFlash(c, middleware.FlashDanger, "Please enter a phone number.")
		render(c, http.StatusBadRequest, "lookup.html", gin.H{"title": "Number lookup"})
		return
	}
	info, err := h.messaging.LookupNumber(c.Request.Context(), middleware.CurrentAccount(c), req.Number)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			status = http.StatusForbidden
		case services.IsUserInputError(err):
			status = http.StatusBadRequest
		}
		middleware.AddFlash(c, middleware.FlashDanger, "Lookup failed: "+dispatchReason(err))
		render(c, status, "lookup.html", gin.H{"title": "Number lookup", "number": req.Number})
		return
	}
	render(c, http.StatusOK, "lookup.html", gin.H{"title": "Number lookup", "number": req.Number, "result": info})
}

// @Summary      SMS history
// @Tags         SMS
// @Produce      html
// @Param        page  query  int  false  "Page number (1-based)"
// @Success      200
// @Router       /sms_history [get]
func (h *SMSHandler) SMSHistory(c *gin.Context) {
	h.renderHistory(c, models.KindSMS, "/sms_history")
}

// @Summary      Call or lookup history
// @Tags         History
// @Produce      html
// @Param        kind  path   string  true   "call, lookup or sms"
// @Param        page  query  int     false  "Page number (1-based)"
// @Success      200
// @Failure      404
// @Router       /history/{kind} [get]
func (h *SMSHandler) History(c *gin.Context) {
	kind := models.MessageKind(c.Param("kind"))
	if !kind.Valid() {
		renderError(c, http.StatusNotFound, "Unknown history type.")
		return
	}
	h.renderHistory(c, kind, "/history/"+string(kind))
}

func (h *SMSHandler) renderHistory(c *gin.Context, kind models.MessageKind, base string) {
	page, err := h.history.ListPage(c.Request.Context(), kind, pageParam(c), 0)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("[history][list] failed")
		renderError(c, http.StatusInternalServerError, genericError)
		return
	}
	render(c, http.StatusOK, "sms_history.html", gin.H{
		"title": historyTitle(kind),
		"page":  page,
		"base":  base,
	})
}

func historyTitle(kind models.MessageKind) string {
	switch kind {
	case models.KindCall:
		return "Call history"
	case models.KindLookup:
		return "Lookup history"
	}
	return "SMS history"
}

const (
	maxListedFailures = 5
	maxRecipientLen   = 32
)

// campaignFailures folds every failed recipient into one message so the flash
// cookie stays small however many recipients fail.
func campaignFailures(results []services.CampaignResult, failed int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed to send SMS to %d recipient(s): ", failed)
	listed := 0
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if listed == maxListedFailures {
			fmt.Fprintf(&b, " and %d more", failed-listed)
			break
		}
		if listed > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s (%s)", shorten(r.To, maxRecipientLen), dispatchReason(r.Err))
		listed++
	}
	b.WriteString(".")
	return b.String()
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// dispatchReason is the user-facing part of a dispatch error.
func dispatchReason(err error) string {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return "your account is not allowed to do this"
	case errors.Is(err, services.ErrMissingPhoneNumber):
		return "please set your phone number first"
	case errors.Is(err, services.ErrInvalidPhoneNumber):
		return "invalid phone number"
	case errors.Is(err, services.ErrDispatchFailed):
		return "the provider rejected the request"
	}
	return "unexpected error"
}
