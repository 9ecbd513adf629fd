package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/server/http/dto"
)

// AdminOrderHandler serves the back-office order endpoints.
type AdminOrderHandler struct {
	facade OrderFacade
}

// NewAdminOrderHandler constructs AdminOrderHandler.
func NewAdminOrderHandler(facade OrderFacade) *AdminOrderHandler {
	return &AdminOrderHandler{facade: facade}
}

// Get handles GET /api/admin/orders/:id.
func (h *AdminOrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List handles GET /api/admin/orders.
func (h *AdminOrderHandler) List(c *gin.Context) {
	filter, err := parseOrderFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	filter = filter.Normalize()
	response := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	for _, o := range orders {
		response.Orders = append(response.Orders, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// SetStatus handles PATCH /api/admin/orders/:id/status.
func (h *AdminOrderHandler) SetStatus(c *gin.Context) {
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	order, err := h.facade.SetOrderStatus(c.Request.Context(), c.Param("id"), req.Status, CurrentAdminID(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Delete handles DELETE /api/admin/orders/:id.
func (h *AdminOrderHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseOrderFilter(c *gin.Context) (model.OrderFilter, error) {
	filter := model.OrderFilter{
		Status:        model.OrderStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		OrderType:     model.OrderType(strings.ToLower(strings.TrimSpace(c.Query("order_type")))),
		CustomerPhone: strings.TrimSpace(c.Query("phone")),
	}

	var err error
	if filter.From, err = queryDate(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		return filter, err
	}
	if filter.Page, err = queryInt(c, "page"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return filter, err
	}
	return filter, nil
}
