package handlers

import (
	"github.com/gin-gonic/gin"

	"doceria/internal/core/id"
	"doceria/internal/domain/recipe"
	"doceria/internal/infrastructure/http/v1/dto"
)

// RecipeHandler handles HTTP requests for recipes and their ingredients.
type RecipeHandler struct {
	*BaseHandler
	service *recipe.Service
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(base *BaseHandler, service *recipe.Service) *RecipeHandler {
	return &RecipeHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/recipes.
func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.CreateRecipeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), r); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, r.ID)
}

// GetByID handles GET /catalog/recipes/:id. The response includes
// ingredient lines with material info.
func (h *RecipeHandler) GetByID(c *gin.Context) {
	recipeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), recipeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRecipe(r))
}

// Update handles PUT /catalog/recipes/:id.
func (h *RecipeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	recipeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRecipeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.GetByID(ctx, recipeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(r)
	if err := h.service.Update(ctx, r); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRecipe(r))
}

// Delete handles DELETE /catalog/recipes/:id.
func (h *RecipeHandler) Delete(c *gin.Context) {
	recipeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), recipeID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /catalog/recipes. With ?withCost=true each recipe
// carries its computed total and per-unit cost.
func (h *RecipeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	if c.Query("withCost") == "true" {
		items, err := h.service.ListWithCost(ctx, query.ToFilter())
		if err != nil {
			h.Error(c, err)
			return
		}
		resp := make([]*dto.RecipeWithCostResponse, 0, len(items))
		for _, rc := range items {
			resp = append(resp, dto.FromRecipeWithCost(rc))
		}
		h.OK(c, resp)
		return
	}

	items, err := h.service.List(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.RecipeResponse, 0, len(items))
	for _, r := range items {
		resp = append(resp, dto.FromRecipe(r))
	}
	h.OK(c, resp)
}

// Cost handles GET /catalog/recipes/:id/cost.
func (h *RecipeHandler) Cost(c *gin.Context) {
	recipeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.service.Cost(c.Request.Context(), recipeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCostSummary(summary))
}

// AddIngredient handles POST /catalog/recipes/:id/ingredients.
func (h *RecipeHandler) AddIngredient(c *gin.Context) {
	recipeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddIngredientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ing := recipe.NewIngredient(recipeID, id.MustParse(req.MaterialID), req.Quantity)
	if err := h.service.AddIngredient(c.Request.Context(), ing); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, ing.ID)
}

// UpdateIngredient handles PUT /catalog/recipes/:id/ingredients/:ingredientId.
func (h *RecipeHandler) UpdateIngredient(c *gin.Context) {
	recipeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ingredientID, ok := h.ParseID(c, "ingredientId")
	if !ok {
		return
	}

	var req dto.UpdateIngredientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ing := &recipe.Ingredient{
		ID:         ingredientID,
		RecipeID:   recipeID,
		MaterialID: id.MustParse(req.MaterialID),
		Quantity:   req.Quantity,
	}
	if err := h.service.UpdateIngredient(c.Request.Context(), ing); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "ingredient updated")
}

// RemoveIngredient handles DELETE /catalog/recipes/:id/ingredients/:ingredientId.
func (h *RecipeHandler) RemoveIngredient(c *gin.Context) {
	if _, ok := h.ParseID(c, "id"); !ok {
		return
	}
	ingredientID, ok := h.ParseID(c, "ingredientId")
	if !ok {
		return
	}

	if err := h.service.RemoveIngredient(c.Request.Context(), ingredientID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
