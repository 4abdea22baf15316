package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grantledger/internal/balance"
	apperrors "grantledger/internal/errors"
	"grantledger/internal/export"
	"grantledger/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles admin-wide reporting requests.
type ReportHandler struct {
	reportService services.ReportServicer
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// GetOverview handles the global realization totals.
// @Summary     Overview
// @Description Pagu, realization and remaining totals across all projects
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} balance.Overview "Overview"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /overview [get]
func (h *ReportHandler) GetOverview(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.reportService.GetOverview(actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// ExportRealizationXLSX handles the realization workbook download.
// @Summary     Export realization (XLSX)
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Success     200 {file} file "Workbook"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/realization.xlsx [get]
func (h *ReportHandler) ExportRealizationXLSX(c *gin.Context) {
	h.export(c, "xlsx", xlsxContentType, export.WriteXLSX)
}

// ExportRealizationCSV handles the realization CSV download.
// @Summary     Export realization (CSV)
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {file} file "CSV"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/realization.csv [get]
func (h *ReportHandler) ExportRealizationCSV(c *gin.Context) {
	h.export(c, "csv", "text/csv; charset=utf-8", export.WriteCSV)
}

// export renders into a buffer first so a failure still yields a JSON error.
func (h *ReportHandler) export(c *gin.Context, ext, contentType string, write func(w io.Writer, ov *balance.Overview) error) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.reportService.RealizationReport(actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, overview); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.Filename(h.now(), ext)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
