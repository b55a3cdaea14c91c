package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/service/appointment"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
)

type Handler struct {
	service appointment.AppointmentService
}

func NewHandler(service appointment.AppointmentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/summary", h.GetSummary)
		appointments.PUT("/:id/status", h.UpdateStatus)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.POST("/:id/dispute", h.Dispute)
		appointments.POST("/:id/resolve", h.Resolve)
	}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/summary", h.GetSummary)
		appointments.PUT("/:id/status", eventTracker.TrackEvent("APPOINTMENT", "STATUS"), h.UpdateStatus)
		appointments.POST("/:id/cancel", eventTracker.TrackEvent("APPOINTMENT", "CANCEL"), h.Cancel)
		appointments.POST("/:id/dispute", eventTracker.TrackEvent("APPOINTMENT", "DISPUTE"), h.Dispute)
		appointments.POST("/:id/resolve", eventTracker.TrackEvent("APPOINTMENT", "RESOLVE"), h.Resolve)
	}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filter model.AppointmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.RespondBindError(c, err)
		return
	}
	if filter.Status != "" {
		filter.Status = model.NormalizeAppointmentStatus(string(filter.Status))
	}

	var err error
	if handler.WantsRefresh(c) {
		err = h.service.Refresh(c.Request.Context())
	}
	handler.RespondList(c, h.service.List(filter), err)
}

func (h *Handler) GetSummary(c *gin.Context) {
	if handler.WantsRefresh(c) {
		if err := h.service.Refresh(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, handler.NewErrorResponseWithData(h.service.List(model.AppointmentFilter{}).Error, h.service.Summary()))
			return
		}
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Summary()))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}
	h.transition(c, func(ctx context.Context, id string) (*appointment.StatusChange, error) {
		return h.service.UpdateStatus(ctx, id, req.Status)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *Handler) Dispute(c *gin.Context) {
	h.transition(c, h.service.Dispute)
}

func (h *Handler) Resolve(c *gin.Context) {
	h.transition(c, h.service.Resolve)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id string) (*appointment.StatusChange, error)) {
	change, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	before := change.Appointment
	before.Status = change.From
	event.Record(c, before, change.Appointment)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(change))
}
