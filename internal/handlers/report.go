package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/report"
	"psicocitas-web/internal/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "reporte.xlsx"
)

// ReportHandler serves the filtered history report and its export.
type ReportHandler struct {
	Service *report.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{Service: svc}
}

func (h *ReportHandler) build(c *gin.Context) (*report.Result, bool) {
	rec, ok := sessionRecord(c)
	if !ok {
		return nil, false
	}
	filters, err := report.ParseQuery(c.Request.URL.Query())
	if err != nil {
		utils.BadRequest(c, err.Error())
		return nil, false
	}
	result, err := h.Service.Build(c.Request.Context(), rec.User.ID, filters)
	if err != nil {
		if errors.Is(err, report.ErrDateFilterConflict) {
			utils.BadRequest(c, err.Error())
			return nil, false
		}
		slog.Error("failed to build report", "psicologo", rec.User.ID, "error", err)
		utils.BadGateway(c, psiapi.Message(err, "Error al cargar el reporte"))
		return nil, false
	}
	return result, true
}

// GetReport returns the filtered rows, the filter options and the totals.
func (h *ReportHandler) GetReport(c *gin.Context) {
	result, ok := h.build(c)
	if !ok {
		return
	}
	utils.Success(c, "Reporte", result)
}

// ExportReport downloads the filtered rows as a spreadsheet.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	result, ok := h.build(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Export(&buf, result.Rows); err != nil {
		slog.Error("failed to export report", "error", err)
		utils.InternalServerError(c, "Error al exportar el reporte")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// DateFilterRequest is a change to the date filter controls.
type DateFilterRequest struct {
	DateFilter report.DateFilter `json:"dateFilter"`
	Action     report.Action     `json:"action" binding:"required"`
}

// UpdateDateFilter applies one control change and returns the resulting
// filter, so the client never holds a days window and a year/month selection
// at once.
func (h *ReportHandler) UpdateDateFilter(c *gin.Context) {
	var req DateFilterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	state := report.DateFilterState{DateFilter: req.DateFilter}
	if err := state.Apply(req.Action); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	utils.Success(c, "Filtro de fecha", gin.H{
		"dateFilter": state.DateFilter,
		"dateKind":   state.Kind(),
	})
}
