package handlers

import (
	"github.com/gin-gonic/gin"

	"doceria/internal/core/id"
	"doceria/internal/domain/catalogs/product"
	"doceria/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for finished products.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p.ID)
}

// GetByID handles GET /catalog/products/:id.
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Update handles PUT /catalog/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)
	if err := h.service.Update(ctx, p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Delete handles DELETE /catalog/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /catalog/products.
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.ProductResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, dto.FromProduct(p))
	}
	h.OK(c, resp)
}

// LinkRecipe handles POST /catalog/products/:id/recipes.
func (h *ProductHandler) LinkRecipe(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.LinkRecipeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	recipeID := id.MustParse(req.RecipeID)
	if err := h.service.LinkRecipe(c.Request.Context(), productID, recipeID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "recipe linked")
}

// UnlinkRecipe handles DELETE /catalog/products/:id/recipes/:recipeId.
func (h *ProductHandler) UnlinkRecipe(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	recipeID, ok := h.ParseID(c, "recipeId")
	if !ok {
		return
	}

	if err := h.service.UnlinkRecipe(c.Request.Context(), productID, recipeID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
