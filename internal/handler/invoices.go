package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

func (h *InvoicesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetInvoice(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListInvoices(c.Request.Context(), middleware.GetOwnerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.MarkPaid(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadPDF streams the invoice PDF produced by the background worker.
func (h *InvoicesHandler) DownloadPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
