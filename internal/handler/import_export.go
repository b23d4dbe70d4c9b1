package handler

import (
	"fmt"
	"net/http"
	"time"

	"bizzops/internal/apperror"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize caps uploaded spreadsheets at 8 MiB.
const maxImportSize = 8 << 20

type ImportExportHandler struct{ svc service.ImportExportService }

func NewImportExportHandler(svc service.ImportExportService) *ImportExportHandler {
	return &ImportExportHandler{svc: svc}
}

func (h *ImportExportHandler) ImportInventory(c *gin.Context) {
	h.runImport(c, h.svc.ImportInventory)
}

func (h *ImportExportHandler) ImportCustomers(c *gin.Context) {
	h.runImport(c, h.svc.ImportCustomers)
}

func (h *ImportExportHandler) ImportExpenses(c *gin.Context) {
	h.runImport(c, h.svc.ImportExpenses)
}

func (h *ImportExportHandler) runImport(c *gin.Context, importFn service.ImportFunc) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperror.Validation("multipart field 'file' is required"))
		return
	}
	if fileHeader.Size > maxImportSize {
		respondError(c, apperror.Validation("file exceeds the 8 MiB import limit"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperror.Internal(err))
		return
	}
	defer f.Close()

	resp, err := importFn(c.Request.Context(), middleware.GetOwnerID(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportExportHandler) ExportInventory(c *gin.Context) {
	h.runExport(c, "inventory", h.svc.ExportInventory)
}

func (h *ImportExportHandler) ExportSales(c *gin.Context) {
	h.runExport(c, "sales", h.svc.ExportSales)
}

func (h *ImportExportHandler) ExportCustomers(c *gin.Context) {
	h.runExport(c, "customers", h.svc.ExportCustomers)
}

func (h *ImportExportHandler) runExport(c *gin.Context, name string, exportFn service.ExportFunc) {
	data, err := exportFn(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
