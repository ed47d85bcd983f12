package handlers

import (
	"github.com/gin-gonic/gin"

	"doceria/internal/core/id"
	"doceria/internal/domain/shopping"
	"doceria/internal/infrastructure/http/v1/dto"
)

// ShoppingHandler handles HTTP requests for shopping lists.
type ShoppingHandler struct {
	*BaseHandler
	service *shopping.Service
}

// NewShoppingHandler creates a new shopping list handler.
func NewShoppingHandler(base *BaseHandler, service *shopping.Service) *ShoppingHandler {
	return &ShoppingHandler{BaseHandler: base, service: service}
}

// Create handles POST /shopping/lists.
func (h *ShoppingHandler) Create(c *gin.Context) {
	var req dto.CreateShoppingListRequest
	if !h.BindJSON(c, &req) {
		return
	}

	l := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), l); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, l.ID)
}

// GetByID handles GET /shopping/lists/:id. The response includes item
// lines with material info.
func (h *ShoppingHandler) GetByID(c *gin.Context) {
	listID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), listID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromShoppingList(l))
}

// Update handles PUT /shopping/lists/:id.
func (h *ShoppingHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	listID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateShoppingListRequest
	if !h.BindJSON(c, &req) {
		return
	}

	l, err := h.service.GetByID(ctx, listID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(l)
	if err := h.service.Update(ctx, l); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromShoppingList(l))
}

// Delete handles DELETE /shopping/lists/:id.
func (h *ShoppingHandler) Delete(c *gin.Context) {
	listID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), listID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /shopping/lists. With ?withTotals=true each list
// carries its item count and estimated cost.
func (h *ShoppingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	if c.Query("withTotals") == "true" {
		items, err := h.service.ListWithTotals(ctx, query.ToFilter())
		if err != nil {
			h.Error(c, err)
			return
		}
		resp := make([]*dto.ShoppingListWithTotalResponse, 0, len(items))
		for _, lt := range items {
			resp = append(resp, dto.FromShoppingListWithTotal(lt))
		}
		h.OK(c, resp)
		return
	}

	items, err := h.service.List(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.ShoppingListResponse, 0, len(items))
	for _, l := range items {
		resp = append(resp, dto.FromShoppingList(l))
	}
	h.OK(c, resp)
}

// AddItem handles POST /shopping/lists/:id/items.
func (h *ShoppingHandler) AddItem(c *gin.Context) {
	listID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddShoppingItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := shopping.NewItem(listID, id.MustParse(req.MaterialID), req.Quantity)
	if err := h.service.AddItem(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item.ID)
}

// UpdateItem handles PUT /shopping/lists/:id/items/:itemId.
func (h *ShoppingHandler) UpdateItem(c *gin.Context) {
	listID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.UpdateShoppingItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := &shopping.Item{
		ID:         itemID,
		ListID:     listID,
		MaterialID: id.MustParse(req.MaterialID),
		Quantity:   req.Quantity,
		Purchased:  req.Purchased,
	}
	if err := h.service.UpdateItem(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "item updated")
}

// RemoveItem handles DELETE /shopping/lists/:id/items/:itemId.
func (h *ShoppingHandler) RemoveItem(c *gin.Context) {
	if _, ok := h.ParseID(c, "id"); !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// TogglePurchased handles POST /shopping/lists/:id/items/:itemId/toggle.
func (h *ShoppingHandler) TogglePurchased(c *gin.Context) {
	if _, ok := h.ParseID(c, "id"); !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	item, err := h.service.TogglePurchased(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"id": item.ID.String(), "purchased": item.Purchased})
}
