package handlers

import (
	"github.com/gin-gonic/gin"

	"doceria/internal/core/id"
	"doceria/internal/domain/production"
	"doceria/internal/infrastructure/http/v1/dto"
)

// ProductionHandler handles HTTP requests for production orders.
type ProductionHandler struct {
	*BaseHandler
	service *production.Service
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(base *BaseHandler, service *production.Service) *ProductionHandler {
	return &ProductionHandler{BaseHandler: base, service: service}
}

// Create handles POST /production/orders.
func (h *ProductionHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o := production.NewOrder(id.MustParse(req.ProductID), req.Quantity)
	o.Notes = req.Notes

	if err := h.service.Create(c.Request.Context(), o); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(o))
}

// GetByID handles GET /production/orders/:id.
func (h *ProductionHandler) GetByID(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(o))
}

// Update handles PUT /production/orders/:id.
func (h *ProductionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	o.Quantity = req.Quantity
	o.Notes = req.Notes
	o.Version = req.Version

	if err := h.service.Update(ctx, o); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(o))
}

// Delete handles DELETE /production/orders/:id.
func (h *ProductionHandler) Delete(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /production/orders.
func (h *ProductionHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := production.OrderFilter{ListFilter: query.ToFilter()}
	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err == nil {
			filter.ProductID = &parsed
		}
	}
	if status := c.Query("status"); status != "" {
		s := production.Status(status)
		filter.Status = &s
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.OrderResponse, 0, len(items))
	for _, o := range items {
		resp = append(resp, dto.FromOrder(o))
	}
	h.OK(c, resp)
}

// ValidateStock handles POST /production/validate-stock. It reports
// whether current stock covers the planned run without changing anything.
func (h *ProductionHandler) ValidateStock(c *gin.Context) {
	var req dto.ValidateStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.ValidateStock(c.Request.Context(), id.MustParse(req.ProductID), req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromValidationResult(result))
}

// Start handles POST /production/orders/:id/start. Stock is deducted
// FIFO in the same transaction that moves the order to in_progress; an
// insufficiency is reported in the body, not as an HTTP error.
func (h *ProductionHandler) Start(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Start(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.DeductionResultResponse{Success: result.Success, Message: result.Message})
}

// Complete handles POST /production/orders/:id/complete.
func (h *ProductionHandler) Complete(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.service.Complete(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(o))
}
