package dto

import (
	"time"

	"doceria/internal/core/types"
	"doceria/internal/domain/catalogs/product"
)

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	SalePrice   types.Money `json:"salePrice"`
	PhotoURL    string      `json:"photoUrl"`
	Active      *bool       `json:"active"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Name)
	p.Description = r.Description
	p.Category = r.Category
	p.SalePrice = r.SalePrice
	p.PhotoURL = r.PhotoURL
	if r.Active != nil {
		p.Active = *r.Active
	}
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	SalePrice   types.Money `json:"salePrice"`
	PhotoURL    string      `json:"photoUrl"`
	Active      bool        `json:"active"`
	Version     int         `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Name = r.Name
	p.Description = r.Description
	p.Category = r.Category
	p.SalePrice = r.SalePrice
	p.PhotoURL = r.PhotoURL
	p.Active = r.Active
	p.Version = r.Version
}

// LinkRecipeRequest links a recipe to a product.
type LinkRecipeRequest struct {
	RecipeID string `json:"recipeId" binding:"required,uuid"`
}

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	SalePrice   types.Money `json:"salePrice"`
	PhotoURL    string      `json:"photoUrl,omitempty"`
	Active      bool        `json:"active"`
	RecipeIDs   []string    `json:"recipeIds,omitempty"`
	Version     int         `json:"version"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		SalePrice:   p.SalePrice,
		PhotoURL:    p.PhotoURL,
		Active:      p.Active,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, rid := range p.RecipeIDs {
		resp.RecipeIDs = append(resp.RecipeIDs, rid.String())
	}
	return resp
}
