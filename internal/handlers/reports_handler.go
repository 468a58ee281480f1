package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"smsportal/internal/models"
	"smsportal/internal/pdf"
	"smsportal/internal/services"
)

type ReportHandler struct {
	history services.HistoryService
	pdf     pdf.Generator
}

func NewReportHandler(history services.HistoryService, gen pdf.Generator) *ReportHandler {
	return &ReportHandler{history: history, pdf: gen}
}

// @Summary      Export SMS history page as PDF
// @Tags         SMS
// @Produce      application/pdf
// @Param        page  query  int  false  "Page number (1-based)"
// @Success      200  {file}  binary
// @Router       /sms_history/export.pdf [get]
func (h *ReportHandler) ExportSMSHistory(c *gin.Context) {
	h.export(c, models.KindSMS)
}

// @Summary      Export call or lookup history page as PDF
// @Tags         History
// @Produce      application/pdf
// @Param        kind  path   string  true   "call, lookup or sms"
// @Param        page  query  int     false  "Page number (1-based)"
// @Success      200  {file}  binary
// @Router       /history/{kind}/export.pdf [get]
func (h *ReportHandler) ExportHistory(c *gin.Context) {
	kind := models.MessageKind(c.Param("kind"))
	if !kind.Valid() {
		renderError(c, http.StatusNotFound, "Unknown history type.")
		return
	}
	h.export(c, kind)
}

func (h *ReportHandler) export(c *gin.Context, kind models.MessageKind) {
	page, err := h.history.ListPage(c.Request.Context(), kind, pageParam(c), 0)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("[report][pdf] list failed")
		renderError(c, http.StatusInternalServerError, genericError)
		return
	}

	// rendered in full first so a failure can still produce an error page
	var buf bytes.Buffer
	err = h.pdf.WriteHistory(&buf, pdf.HistoryData{
		Title:       historyTitle(kind),
		Kind:        kind,
		Page:        page,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("[report][pdf] render failed")
		renderError(c, http.StatusInternalServerError, genericError)
		return
	}

	filename := fmt.Sprintf("%s_history_page_%d.pdf", kind, page.Number)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
