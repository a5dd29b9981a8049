package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/shop-backoffice/internal/service"
)

type StatsHandler struct {
	svc *service.StatsSvc
}

func NewStatsHandler(svc *service.StatsSvc) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) respondCount(c *gin.Context, fn func(context.Context) (int64, error)) {
	n, err := fn(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// GET /count/products
func (h *StatsHandler) ProductCount(c *gin.Context) { h.respondCount(c, h.svc.ProductCount) }

// GET /count/products/low-stock
func (h *StatsHandler) LowStockCount(c *gin.Context) { h.respondCount(c, h.svc.LowStockCount) }

// GET /count/orders
func (h *StatsHandler) OrderCount(c *gin.Context) { h.respondCount(c, h.svc.OrderCount) }

// GET /count/orders/recent
func (h *StatsHandler) RecentOrderCount(c *gin.Context) { h.respondCount(c, h.svc.RecentOrderCount) }

// GET /count/users
func (h *StatsHandler) CustomerCount(c *gin.Context) { h.respondCount(c, h.svc.CustomerCount) }
