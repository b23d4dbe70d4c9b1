package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// AddInventory creates a new item or restocks a matching one.
func (h *InventoryHandler) AddInventory(c *gin.Context) {
	var req dto.AddInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddInventory(c.Request.Context(), middleware.GetOwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetItem(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	var filter dto.InventoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListItems(c.Request.Context(), middleware.GetOwnerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), middleware.GetOwnerID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(c.Request.Context(), middleware.GetOwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
