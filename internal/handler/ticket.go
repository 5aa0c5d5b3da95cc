package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/helpdesk-service/internal/model"
	"github.com/psds-microservice/helpdesk-service/internal/service"
)

type TicketHandler struct {
	svc *service.TicketService
}

func NewTicketHandler(svc *service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func ticketID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func operatorID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Query("operator_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operator_id"})
		return 0, false
	}
	return id, true
}

// actingUser читает user_id и user_role из query. Неизвестная роль
// отклоняется, а не трактуется как клиент или оператор.
func actingUser(c *gin.Context) (uint64, model.Role, bool) {
	id, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return 0, "", false
	}
	role, err := model.ParseRole(c.Query("user_role"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid role"})
		return 0, "", false
	}
	return id, role, true
}

type createTicketRequest struct {
	ClientEmail string `json:"client_email" binding:"required,email"`
	Subject     string `json:"asunto" binding:"required"`
	Description string `json:"descripcion"`
	Priority    string `json:"prioridad" binding:"required"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	priority, err := model.ParseTicketPriority(req.Priority)
	if err != nil {
		writeError(c, err)
		return
	}
	ticket, err := h.svc.Create(c.Request.Context(), opID, service.CreateTicketInput{
		ClientEmail: req.ClientEmail,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    priority,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

type changeStateRequest struct {
	State string `json:"estado" binding:"required"`
}

func (h *TicketHandler) ChangeState(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	var req changeStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	state, err := model.ParseTicketState(req.State)
	if err != nil {
		writeError(c, err)
		return
	}
	ticket, err := h.svc.ChangeState(c.Request.Context(), opID, id, state)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type changePriorityRequest struct {
	Priority string `json:"prioridad" binding:"required"`
}

func (h *TicketHandler) ChangePriority(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	var req changePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	priority, err := model.ParseTicketPriority(req.Priority)
	if err != nil {
		writeError(c, err)
		return
	}
	ticket, err := h.svc.ChangePriority(c.Request.Context(), opID, id, priority)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) List(c *gin.Context) {
	userID, role, ok := actingUser(c)
	if !ok {
		return
	}
	items, err := h.svc.List(c.Request.Context(), userID, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	userID, role, ok := actingUser(c)
	if !ok {
		return
	}
	ticket, err := h.svc.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) History(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	items, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
