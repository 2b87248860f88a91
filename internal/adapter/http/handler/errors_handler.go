package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "todoweb/internal/adapter/http/helper"
	"todoweb/internal/adapter/http/view"
	"todoweb/internal/shared"
)

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	if WantsJSON(c) {
		SendNotFoundError(c, view.PageNotFound)
		return
	}

	renderBanner(c, http.StatusNotFound, view.PageNotFound)
}

// RateLimited renders the rate limiter rejection for browser callers.
func RateLimited(c *gin.Context) {
	renderBanner(c, http.StatusTooManyRequests, view.TooManyRequests)
}

func Recovery(logger *shared.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		shared.LogError(c.Request.Context(), logger, fmt.Errorf("panic: %v", recovered), "Recovered from panic",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path))

		if WantsJSON(c) {
			SendInternalError(c, view.Unexpected)
		} else {
			renderBanner(c, http.StatusInternalServerError, view.Unexpected)
		}
		c.Abort()
	})
}

// renderBanner renders the page frame with message and no list, without
// calling the backend.
func renderBanner(c *gin.Context, status int, message string) {
	c.Header("Cache-Control", "no-store")
	c.HTML(status, view.PageTemplate, view.Page{
		ListSkipped: true,
		ActionError: message,
	})
}
