package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/viptalca/viptalca-backend/internal/app/service"
	apperrors "github.com/viptalca/viptalca-backend/internal/errors"
	"github.com/viptalca/viptalca-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	exportService service.ExportService
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{exportService: exportService}
}

// ExportClientes streams an XLSX workbook of clientes
// GET /api/v1/admin/export/clientes
func (ctrl *ExportController) ExportClientes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buf, filename, err := ctrl.exportService.ExportClientes()
	if err != nil {
		log.Error("Failed to export clientes", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "No se pudo generar el archivo de exportación")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
