package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ricky-kyaw/optitrack-backend/internal/service"
	"github.com/ricky-kyaw/optitrack-backend/pkg/response"
)

// ExportHandler 报表导出相关接口
type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportOvertime 导出指定周期的加班报表（Excel）
// GET /api/v1/export/overtime/?period_start=YYYY-MM-DD&period_end=YYYY-MM-DD
func (h *ExportHandler) ExportOvertime(c *gin.Context) {
	periodStart, err := time.Parse("2006-01-02", c.Query("period_start"))
	if err != nil {
		response.BadRequest(c, "period_start is required (YYYY-MM-DD)")
		return
	}
	periodEnd, err := time.Parse("2006-01-02", c.Query("period_end"))
	if err != nil {
		response.BadRequest(c, "period_end is required (YYYY-MM-DD)")
		return
	}
	if periodEnd.Before(periodStart) {
		response.UnprocessableEntity(c, "period_end is before period_start")
		return
	}

	buf, filename, err := h.exportService.ExportOvertime(c.Request.Context(), periodStart, periodEnd)
	if err != nil {
		if errors.Is(err, service.ErrExportNoEntries) {
			response.NotFound(c, "no overtime entries in the given period")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
