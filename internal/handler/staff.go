package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct{ svc service.StaffService }

func NewStaffHandler(svc service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateStaff(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StaffHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	items, total, err := h.svc.ListStaff(c.Request.Context(), middleware.GetOwnerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Data: items, Total: total, Page: page, Limit: limit})
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CreateStaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStaff(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetActive marks a staff member active or inactive without losing history.
func (h *StaffHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetActive(c.Request.Context(), middleware.GetOwnerID(c), id, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteStaff(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
