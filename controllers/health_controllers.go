package controllers

import (
	"net/http"
	"os"

	"github.com/altynbek07/dineqr/middlewares"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const Version = "1.0.0"

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// HealthCheck reports service and database health for load balancers.
func (hc *HealthController) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if err := hc.DB.Exec("SELECT 1").Error; err != nil {
		dbStatus = "unhealthy"
	}

	status := "healthy"
	if dbStatus != "healthy" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": dbStatus,
		"version":  Version,
	})
}

// RateLimited is the fixed page shown when a limiter blocks a request.
func RateLimited(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"status":      false,
		"message":     "Too many requests. Please wait a moment before trying again.",
		"retry_after": 60,
	})
}

// ServiceWorker serves the PWA service worker with the headers it needs
// to control the whole origin.
func ServiceWorker(c *gin.Context) {
	content, err := os.ReadFile("static/service-worker.js")
	if err != nil {
		c.String(http.StatusNotFound, "Service worker not found")
		return
	}

	c.Header("Service-Worker-Allowed", "/")
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "application/javascript", content)
}

// LoginPage handles GET /accounts/login/: the anonymous landing payload
// with any pending flash messages (timeout notices, QR failures).
func LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Login",
		"data": gin.H{
			"flashes": middlewares.TakeFlashes(c),
		},
	})
}
