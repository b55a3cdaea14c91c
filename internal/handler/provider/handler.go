package provider

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/service/provider"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
)

type Handler struct {
	service provider.ProviderService
}

func NewHandler(service provider.ProviderService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.GET("", h.ListProviders)
		providers.GET("/:id", h.GetProvider)
		providers.PUT("/:id/status", h.UpdateStatus)
		providers.POST("/:id/approve", h.Approve)
		providers.POST("/:id/reject", h.Reject)
		providers.POST("/:id/reopen", h.Reopen)
	}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	providers := r.Group("/providers")
	{
		providers.GET("", h.ListProviders)
		providers.GET("/:id", h.GetProvider)
		providers.PUT("/:id/status", eventTracker.TrackEvent("PROVIDER", "STATUS"), h.UpdateStatus)
		providers.POST("/:id/approve", eventTracker.TrackEvent("PROVIDER", "APPROVE"), h.Approve)
		providers.POST("/:id/reject", eventTracker.TrackEvent("PROVIDER", "REJECT"), h.Reject)
		providers.POST("/:id/reopen", eventTracker.TrackEvent("PROVIDER", "REOPEN"), h.Reopen)
	}
}

func (h *Handler) ListProviders(c *gin.Context) {
	var filter model.ProviderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.RespondBindError(c, err)
		return
	}
	if filter.Status != "" {
		status, ok := model.ParseProviderStatus(string(filter.Status))
		if !ok {
			handler.RespondError(c, errors.BadRequest("unknown provider status "+string(filter.Status), nil))
			return
		}
		filter.Status = status
	}

	var err error
	if handler.WantsRefresh(c) {
		err = h.service.Refresh(c.Request.Context())
	}
	handler.RespondList(c, h.service.List(filter), err)
}

func (h *Handler) GetProvider(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateProviderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}
	status, _ := model.ParseProviderStatus(string(req.Status))
	h.transition(c, func(ctx context.Context, id string) (*provider.StatusChange, error) {
		return h.service.UpdateStatus(ctx, id, status)
	})
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

func (h *Handler) Reopen(c *gin.Context) {
	h.transition(c, h.service.Reopen)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id string) (*provider.StatusChange, error)) {
	change, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	before := change.Provider
	before.Status = change.From
	event.Record(c, before, change.Provider)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(change))
}
