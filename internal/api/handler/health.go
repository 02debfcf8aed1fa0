package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ragdash/dashboard-api/internal/version"
)

// HealthStatus is the /health response.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Health reports liveness without touching the database.
func Health(*gin.Context) (any, error) {
	return HealthStatus{
		Status:  "healthy",
		Service: version.ServiceName,
		Version: version.ServiceVersion,
	}, nil
}
