package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trading-dashboard/internal/dashboard"
)

const (
	DefaultTimeout      = 30 * time.Second
	ServiceName         = "trading-dashboard"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// Handler serves the dashboard over HTTP.
type Handler struct {
	dash *dashboard.Dashboard
}

func NewHandler(d *dashboard.Dashboard) *Handler {
	return &Handler{dash: d}
}

func (h *Handler) StartServer(port int) error {
	return h.SetupRoutes().Run(":" + strconv.Itoa(port))
}

func (h *Handler) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/market", h.GetMarket)
		api.POST("/market/select", h.SelectAsset)

		api.GET("/portfolio", h.GetPortfolio)
		api.GET("/performance", h.GetPerformance)
		api.GET("/performance/chart.png", h.GetPerformanceChart)

		api.GET("/alerts", h.ListAlerts)
		api.POST("/alerts", h.CreateAlert)
		api.POST("/alerts/:id/toggle", h.ToggleAlert)
		api.DELETE("/alerts/:id", h.DeleteAlert)

		api.POST("/orders", h.PlaceOrder)

		api.GET("/chart", h.GetChart)
		api.PUT("/chart/view", h.SetChartView)
		api.POST("/chart/resize", h.ResizeChart)
		api.POST("/chart/orbit", h.OrbitChart)
		api.GET("/chart/frame.png", h.GetChartFrame)

		api.GET("/notifications", h.ListNotifications)
		api.DELETE("/notifications", h.DismissNotifications)
		api.DELETE("/notifications/:id", h.DismissNotification)

		api.GET("/theme", h.GetTheme)
		api.PUT("/theme", h.SetTheme)
	}
	router.GET("/health", h.HealthCheck)

	return router
}
