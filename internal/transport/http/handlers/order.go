package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/shop-backoffice/internal/domain"
	"github.com/you/shop-backoffice/internal/service"
)

type OrderHandler struct {
	svc *service.OrderSvc
}

func NewOrderHandler(svc *service.OrderSvc) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func callerID(c *gin.Context) string {
	sub, _ := c.Get("sub") // set by JWTAuth middleware
	id, _ := sub.(string)
	return id
}

// POST /order/placeorder
func (h *OrderHandler) Place(c *gin.Context) {
	var in struct {
		Name        string         `json:"name"`
		Price       float64        `json:"price"`
		Quantity    int64          `json:"orderQuantity"`
		TotalPrice  float64        `json:"totalPrice"`
		Address     domain.Address `json:"address"`
		PhoneNumber string         `json:"phoneNumber"`
		ProductID   string         `json:"productId"`
		ImageURLs   []string       `json:"imageUrls"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o := domain.Order{
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		TotalPrice:  in.TotalPrice,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		SKU:         in.ProductID,
		ImageURLs:   in.ImageURLs,
	}
	placed, err := h.svc.Place(c.Request.Context(), callerID(c), o)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": placed})
}

// GET /order/getorders
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.svc.ListForUser(c.Request.Context(), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /order/:id
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// GET /order/admin/orders
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// PATCH /order/order/:id
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": o})
}

// POST /order/orders/:id/request-cancel
func (h *OrderHandler) RequestCancel(c *gin.Context) {
	o, err := h.svc.RequestCancel(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cancellation request submitted", "order": o})
}

// POST /order/orders/:id/handle-cancel
func (h *OrderHandler) HandleCancel(c *gin.Context) {
	var in struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}
	o, err := h.svc.ResolveCancel(c.Request.Context(), c.Param("id"), in.Action)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancellation " + in.Action + "d", "order": o})
}

// DELETE /order/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
