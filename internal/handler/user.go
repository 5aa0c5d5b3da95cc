package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/helpdesk-service/internal/model"
	"github.com/psds-microservice/helpdesk-service/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Name  string `json:"nombre" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"rol" binding:"required"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"mensaje":    "registration successful",
		"id_usuario": u.ID,
		"nombre":     u.Name,
		"rol":        u.Role,
	})
}

type loginRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	u, err := h.svc.Login(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mensaje": "login successful",
		"id":      u.ID,
		"nombre":  u.Name,
		"rol":     u.Role,
	})
}

// Me возвращает первого зарегистрированного пользователя: реальных
// сессий в сервисе нет.
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.svc.Current(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     u.ID,
		"nombre": u.Name,
		"rol":    u.Role,
	})
}
