package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imrics/DermAI/internal/report"
)

// exportPDF renders the user's full assessment history as a PDF. The file
// is also kept on disk under the report directory for later retrieval.
func (a *App) exportPDF(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}

	entries, err := a.entries.ListByUser(c.Request.Context(), user.ID, nil, "")
	if err != nil {
		a.logger.WithError(err).Error("load entries for report failed")
		writeError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	if err := os.MkdirAll(a.cfg.ReportDir, 0o755); err != nil {
		a.logger.WithError(err).Error("create report directory failed")
		writeError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	filename := fmt.Sprintf("dermatology_report_%s_%s.pdf", user.ID, time.Now().Format("20060102_150405"))
	path := filepath.Join(a.cfg.ReportDir, filename)

	out, err := os.Create(path)
	if err != nil {
		a.logger.WithError(err).Error("create report file failed")
		writeError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	if err := report.WriteUserReport(out, user, entries); err != nil {
		out.Close()
		a.logger.WithError(err).Error("render report failed")
		writeError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	if err := out.Close(); err != nil {
		a.logger.WithError(err).Error("close report file failed")
		writeError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	c.FileAttachment(path, filename)
}
