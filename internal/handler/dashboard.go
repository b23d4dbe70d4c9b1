package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	var filter dto.DashboardFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.GetDashboard(c.Request.Context(), middleware.GetOwnerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
