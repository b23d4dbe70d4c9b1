package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type VendorsHandler struct{ svc service.VendorService }

func NewVendorsHandler(svc service.VendorService) *VendorsHandler {
	return &VendorsHandler{svc: svc}
}

func (h *VendorsHandler) Create(c *gin.Context) {
	var req dto.CreateVendorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateVendor(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VendorsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetVendor(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendorsHandler) List(c *gin.Context) {
	var filter dto.PartyFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListVendors(c.Request.Context(), middleware.GetOwnerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendorsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateVendorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateVendor(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendorsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteVendor(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VendorsHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPayment(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Adjust applies a manual credit or debit to the vendor balance.
func (h *VendorsHandler) Adjust(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.VendorAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VendorsHandler) ListTransactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var filter dto.TransactionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListTransactions(c.Request.Context(), middleware.GetOwnerID(c), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
