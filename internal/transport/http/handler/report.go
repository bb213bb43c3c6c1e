package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"docutrack/internal/app"
	"docutrack/internal/transport/http/response"
)

type ReportHandler struct {
	reports *app.ReportService
}

func NewReportHandler(reports *app.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get serves both report types. format=pdf downloads the rendered text-PDF
// layout; the default is the JSON aggregation.
func (h *ReportHandler) Get(c *gin.Context) {
	reportType := c.DefaultQuery("type", "analytics")
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "pdf" {
		response.Error(c, 400, response.CodeBadRequest, "format must be json or pdf")
		return
	}

	switch reportType {
	case "analytics":
		report, err := h.reports.Analytics(c.Request.Context())
		if err != nil {
			response.Error(c, 500, response.CodeInternalServer, "build analytics report failed")
			return
		}
		if format == "pdf" {
			h.download(c, "analytics-report.pdf", app.RenderAnalytics(report))
			return
		}
		response.OK(c, report)
	case "processing":
		report, err := h.reports.Processing(c.Request.Context(), actorEmail(c))
		if err != nil {
			response.Error(c, 500, response.CodeInternalServer, "build processing report failed")
			return
		}
		if format == "pdf" {
			h.download(c, "processing-report.pdf", app.RenderProcessing(report))
			return
		}
		response.OK(c, report)
	default:
		response.Error(c, 400, response.CodeBadRequest, "type must be analytics or processing")
	}
}

func (h *ReportHandler) download(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/plain; charset=utf-8", data)
}
