package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/service/stats"
)

type Handler struct {
	service stats.StatsService
}

func NewHandler(service stats.StatsService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/stats", h.GetStats)
}

// GetStats recomputes the dashboard. On failure the last good stats are
// returned next to the error message. A rejected remote session answers 401
// with the login redirect, like the session guard.
func (h *Handler) GetStats(c *gin.Context) {
	result, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		state := h.service.State()
		switch status := handler.StatusOf(err); status {
		case http.StatusUnauthorized:
			c.JSON(status, handler.NewErrorResponseWithData(state.Error, model.SessionStatus{
				State:    model.SessionUnauthenticated,
				Redirect: model.LoginRoute,
			}))
		case http.StatusForbidden:
			c.JSON(status, handler.NewErrorResponseWithData(state.Error, state))
		default:
			c.JSON(http.StatusBadGateway, handler.NewErrorResponseWithData(state.Error, state))
		}
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
