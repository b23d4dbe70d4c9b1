package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCustomer(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCustomer(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) List(c *gin.Context) {
	var filter dto.PartyFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListCustomers(c.Request.Context(), middleware.GetOwnerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCustomer(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordPayment settles part or all of the customer's outstanding balance.
func (h *CustomersHandler) RecordPayment(c *gin.Context) {
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

func (h *CustomersHandler) ListTransactions(c *gin.Context) {
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
