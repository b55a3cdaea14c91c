package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/middleware"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	authService "github.com/jwalitptl/marketplace-admin/internal/service/auth"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
)

type Handler struct {
	svc          authService.AuthService
	loginLimiter gin.HandlerFunc
}

// NewHandler builds the auth handler. loginLimiter may be nil.
func NewHandler(svc authService.AuthService, loginLimiter gin.HandlerFunc) *Handler {
	if loginLimiter == nil {
		loginLimiter = func(c *gin.Context) { c.Next() }
	}
	return &Handler{svc: svc, loginLimiter: loginLimiter}
}

// RegisterRoutes mounts the public routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.loginLimiter, h.Login)
		auth.GET("/session", h.Session)
	}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.loginLimiter, eventTracker.TrackEvent("AUTH", "LOGIN"), h.Login)
		auth.GET("/session", h.Session)
	}
}

// RegisterProtectedRoutes mounts the routes that need a session.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	r.POST("/auth/logout", eventTracker.TrackEvent("AUTH", "LOGOUT"), h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Set(middleware.ContextAdminEmail, req.Email)
	event.Record(c, nil, gin.H{"email": req.Email, "expires_at": tokens.ExpiresAt})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

// Session reports the guard state for the presented token.
func (h *Handler) Session(c *gin.Context) {
	_, status := h.svc.Resolve(c.Request.Context(), middleware.BearerToken(c))
	if status.State != model.SessionAuthenticated {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponseWithData("unauthenticated", status))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(status))
}

func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.svc.Logout(c.Request.Context(), sess); err != nil {
		handler.RespondError(c, err)
		return
	}
	if sess != nil {
		event.Record(c, nil, gin.H{"email": sess.Email})
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"redirect": model.LoginRoute}))
}
