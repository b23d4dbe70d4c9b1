package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// CreateSale runs the whole pipeline: stock decrement, invoice, ledger.
func (h *SalesHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSale(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalesHandler) GetSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), middleware.GetOwnerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSale compensates the whole pipeline: restores stock, removes the
// invoice, reverses the customer ledger.
func (h *SalesHandler) DeleteSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSale(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
