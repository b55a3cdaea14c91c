package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/service/catalog"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
)

type Handler struct {
	service catalog.CatalogService
}

func NewHandler(service catalog.CatalogService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/icons", h.ListIcons)
		services.GET("/:id/form", h.GetForm)
		services.POST("", h.CreateService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
	}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/icons", h.ListIcons)
		services.GET("/:id/form", h.GetForm)
		services.POST("", eventTracker.TrackEvent("SERVICE", "CREATE"), h.CreateService)
		services.PUT("/:id", eventTracker.TrackEvent("SERVICE", "UPDATE"), h.UpdateService)
		services.DELETE("/:id", eventTracker.TrackEvent("SERVICE", "DELETE"), h.DeleteService)
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	var filter model.ServiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	var err error
	if handler.WantsRefresh(c) {
		err = h.service.Refresh(c.Request.Context())
	}
	handler.RespondList(c, h.service.List(filter), err)
}

func (h *Handler) ListIcons(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Icons()))
}

func (h *Handler) GetForm(c *gin.Context) {
	form, err := h.service.Form(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(form))
}

func (h *Handler) CreateService(c *gin.Context) {
	var form model.ServiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	created, err := h.service.Add(c.Request.Context(), form)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if ec := event.Current(c); ec != nil {
		ec.EntityID = created.ID
	}
	event.Record(c, nil, created)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) UpdateService(c *gin.Context) {
	var form model.ServiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	id := c.Param("id")
	before, _ := h.service.Form(c.Request.Context(), id)
	updated, err := h.service.Update(c.Request.Context(), id, form)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	event.Record(c, before, updated)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteService(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.Record(c, nil, gin.H{"id": id, "deleted": true})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"id": id}))
}
