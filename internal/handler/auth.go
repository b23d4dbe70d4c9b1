package handler

import (
	"net/http"

	"bizzops/internal/dto"
	"bizzops/internal/middleware"
	"bizzops/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Profile returns the authenticated owner's account details.
func (h *AuthHandler) Profile(c *gin.Context) {
	resp, err := h.svc.Profile(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
