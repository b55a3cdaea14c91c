package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/marketplace-admin/internal/collection"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// NewErrorResponseWithData carries data next to the error, e.g. the stale
// items of a failed list or a login redirect.
func NewErrorResponseWithData(message string, data interface{}) *Response {
	return &Response{
		Status:  "error",
		Message: message,
		Data:    data,
	}
}

// StatusOf maps err onto an HTTP status; unknown errors are 500.
func StatusOf(err error) int {
	if appErr, ok := errors.As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// RespondError writes the error envelope and attaches err to the context
// for the error middleware to log.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(StatusOf(err), NewErrorResponse(errors.Message(err, "internal server error")))
}

// RespondBindError answers a failed request binding with 400.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fieldMessage(e))
		}
		c.JSON(http.StatusBadRequest, NewErrorResponse(strings.Join(msgs, "; ")))
		return
	}
	c.JSON(http.StatusBadRequest, NewErrorResponse("invalid request body"))
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "webcolor":
		return fmt.Sprintf("%s must be a #RRGGBB color", e.Field())
	case "providerstatus":
		return fmt.Sprintf("%s must be one of pending, approved, rejected", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// RespondList answers with the snapshot. A failed refresh is reported as
// 502 with the stored message and the stale items.
func RespondList[T any](c *gin.Context, snap collection.Snapshot[T], err error) {
	if err != nil {
		_ = c.Error(err)
		msg := snap.Error
		if msg == "" {
			msg = errors.Message(err, "failed to fetch")
		}
		c.JSON(http.StatusBadGateway, NewErrorResponseWithData(msg, snap))
		return
	}
	c.JSON(http.StatusOK, NewSuccessResponse(snap))
}

// WantsRefresh reports whether a list request should re-fetch the remote
// collection; ?cached=true serves the last snapshot.
func WantsRefresh(c *gin.Context) bool {
	return c.Query("cached") != "true"
}
