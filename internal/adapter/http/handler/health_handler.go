package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoweb/internal/core/model/response"
)

// StatsProvider is a component whose counters show up on /health.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

type HealthHandler struct {
	serviceName string
	components  map[string]StatsProvider
}

func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		components:  map[string]StatsProvider{},
	}
}

// Register adds a component before the router starts serving.
func (h *HealthHandler) Register(name string, provider StatsProvider) {
	h.components[name] = provider
}

func (h *HealthHandler) Health(c *gin.Context) {
	health := response.HealthResponse{
		Status:  "ok",
		Service: h.serviceName,
	}

	if len(h.components) > 0 {
		health.Components = make(map[string]map[string]interface{}, len(h.components))
		for name, provider := range h.components {
			health.Components[name] = provider.GetStats()
		}
	}

	c.JSON(http.StatusOK, health)
}
