package handler

import (
	"errors"

	"pacificpro/internal/service"
	"pacificpro/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "username dan password wajib diisi")
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountLocked):
			response.Error(c, 423, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		default:
			response.ServerError(c, "login gagal")
		}
		return
	}

	response.Success(c, "login berhasil", gin.H{
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user := CurrentUser(c)
	if user != nil {
		h.authService.Logout(c.Request.Context(), user)
	}
	response.Success(c, "logout berhasil", nil)
}
