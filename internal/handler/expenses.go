package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpensesHandler struct{ svc service.ExpenseService }

func NewExpensesHandler(svc service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc}
}

func (h *ExpensesHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateExpense(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ExpensesHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	items, total, err := h.svc.ListExpenses(c.Request.Context(), middleware.GetOwnerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Data: items, Total: total, Page: page, Limit: limit})
}

func (h *ExpensesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateExpense(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExpensesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteExpense(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
