package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	accountService "github.com/jwalitptl/marketplace-admin/internal/service/account"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
)

type Handler struct {
	service accountService.AccountService
}

func NewHandler(service accountService.AccountService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/account")
	{
		accounts.GET("", h.GetAccount)
		accounts.PUT("/password", h.UpdatePassword)
	}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	accounts := r.Group("/account")
	{
		accounts.GET("", h.GetAccount)
		accounts.PUT("/password", eventTracker.TrackEvent("ACCOUNT", "PASSWORD_CHANGE"), h.UpdatePassword)
	}
}

func (h *Handler) GetAccount(c *gin.Context) {
	acc, err := h.service.GetCurrentAccount(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(acc))
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req model.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	if err := h.service.UpdatePassword(c.Request.Context(), req); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.Record(c, nil, gin.H{"changed": true})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "Password updated"}))
}
