package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

// CRMHandler serves tasks, appointments and deals.
type CRMHandler struct{ svc service.CRMService }

func NewCRMHandler(svc service.CRMService) *CRMHandler {
	return &CRMHandler{svc: svc}
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

func (h *CRMHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTask(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CRMHandler) ListTasks(c *gin.Context) {
	page, limit := pagination(c)
	items, total, err := h.svc.ListTasks(c.Request.Context(), middleware.GetOwnerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Data: items, Total: total, Page: page, Limit: limit})
}

func (h *CRMHandler) SetTaskDone(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Done *bool `json:"done" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetTaskDone(c.Request.Context(), middleware.GetOwnerID(c), id, *req.Done)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CRMHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Appointments ────────────────────────────────────────────────────────────

func (h *CRMHandler) CreateAppointment(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAppointment(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CRMHandler) ListAppointments(c *gin.Context) {
	page, limit := pagination(c)
	items, total, err := h.svc.ListAppointments(c.Request.Context(), middleware.GetOwnerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Data: items, Total: total, Page: page, Limit: limit})
}

func (h *CRMHandler) DeleteAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAppointment(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Deals ───────────────────────────────────────────────────────────────────

func (h *CRMHandler) CreateDeal(c *gin.Context) {
	var req dto.CreateDealRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateDeal(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CRMHandler) ListDeals(c *gin.Context) {
	page, limit := pagination(c)
	items, total, err := h.svc.ListDeals(c.Request.Context(), middleware.GetOwnerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Data: items, Total: total, Page: page, Limit: limit})
}

func (h *CRMHandler) UpdateDealStage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateDealStageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDealStage(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CRMHandler) DeleteDeal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDeal(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
