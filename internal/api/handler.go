package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"trading-dashboard/internal/chart"
	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/types"
)

// GetMarket handles GET /api/market?search=
func (h *Handler) GetMarket(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loaded": h.dash.Market.Loaded(),
		"rows":   h.dash.Market.Search(c.Query("search")),
	})
}

type selectRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// SelectAsset handles POST /api/market/select
func (h *Handler) SelectAsset(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err)
		return
	}

	h.dash.Market.Select(req.Symbol)
	h.selection(c)
}

func (h *Handler) selection(c *gin.Context) {
	asset, view := h.dash.Selection()
	c.JSON(http.StatusOK, gin.H{"asset": asset, "view": view})
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.Portfolio.View())
}

func (h *Handler) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.Performance.Data())
}

// GetPerformanceChart handles GET /api/performance/chart.png?width=&height=
func (h *Handler) GetPerformanceChart(c *gin.Context) {
	width, height, err := sizeQuery(c)
	if err != nil {
		handleBadRequest(c, err)
		return
	}

	img, err := h.dash.Performance.PNG(h.dash.Theme(), width, height)
	if err != nil {
		handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alerts": h.dash.Alerts.List(),
		"assets": dashboard.AlertAssets,
	})
}

type alertRequest struct {
	Asset     string               `json:"asset" binding:"required"`
	Condition types.AlertCondition `json:"condition"`
	Price     *decimal.Decimal     `json:"price"`
}

// CreateAlert handles POST /api/alerts
func (h *Handler) CreateAlert(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err)
		return
	}
	if req.Condition == "" {
		req.Condition = types.ConditionAbove
	}

	alert, err := h.dash.Alerts.Add(req.Asset, req.Condition, req.Price)
	if err != nil {
		handleBadRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

func (h *Handler) ToggleAlert(c *gin.Context) {
	alert, err := h.dash.Alerts.Toggle(c.Param("id"))
	if errors.Is(err, dashboard.ErrAlertNotFound) {
		handleError(c, err, http.StatusNotFound, "Alert not found")
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	if err := h.dash.Alerts.Delete(c.Param("id")); err != nil {
		handleError(c, err, http.StatusNotFound, "Alert not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// PlaceOrder handles POST /api/orders. The asset defaults to the selected
// one.
func (h *Handler) PlaceOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	var in dashboard.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		handleBadRequest(c, err)
		return
	}
	if in.Asset == "" {
		in.Asset, _ = h.dash.Selection()
	}

	order, err := h.dash.Orders.Submit(ctx, in)
	if err != nil {
		handleBadRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetChart(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.Chart().Status())
}

type viewRequest struct {
	View types.ViewMode `json:"view" binding:"required"`
}

func (h *Handler) SetChartView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err)
		return
	}
	if err := h.dash.SetView(req.View); err != nil {
		handleBadRequest(c, err)
		return
	}
	h.selection(c)
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResizeChart handles POST /api/chart/resize. Zero sizes fall back to the
// default chart size.
func (h *Handler) ResizeChart(c *gin.Context) {
	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err)
		return
	}
	if err := h.dash.ResizeChart(req.Width, req.Height); err != nil {
		handleError(c, err, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.dash.Chart().Status())
}

type orbitRequest struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	Zoom  float64 `json:"zoom"`
}

func (h *Handler) OrbitChart(c *gin.Context) {
	var req orbitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err)
		return
	}
	if err := h.dash.Chart().Orbit(req.Theta, req.Phi, req.Zoom); err != nil {
		handleError(c, err, http.StatusConflict, err.Error())
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *Handler) GetChartFrame(c *gin.Context) {
	img, err := h.dash.Chart().Snapshot()
	if errors.Is(err, chart.ErrNotMounted) {
		handleError(c, err, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.dash.Notifier.Active()})
}

func (h *Handler) DismissNotifications(c *gin.Context) {
	h.dash.Notifier.DismissAll()
	c.Status(http.StatusNoContent)
}

func (h *Handler) DismissNotification(c *gin.Context) {
	if !h.dash.Notifier.Dismiss(c.Param("id")) {
		handleError(c, errors.Errorf("no notification %s", c.Param("id")), http.StatusNotFound, "Notification not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.dash.Theme()})
}

type themeRequest struct {
	Theme types.Theme `json:"theme" binding:"required"`
}

func (h *Handler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err)
		return
	}
	if err := h.dash.SetTheme(req.Theme); err != nil {
		if errors.Is(err, dashboard.ErrUnknownTheme) {
			handleBadRequest(c, err)
			return
		}
		handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

func sizeQuery(c *gin.Context) (int, int, error) {
	parse := func(key string) (int, error) {
		v := c.Query(key)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 4096 {
			return 0, errors.Errorf("invalid %s %q", key, v)
		}
		return n, nil
	}

	width, err := parse("width")
	if err != nil {
		return 0, 0, err
	}
	height, err := parse("height")
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}
