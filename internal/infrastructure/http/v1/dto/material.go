package dto

import (
	"time"

	"doceria/internal/core/types"
	"doceria/internal/domain/catalogs/material"
)

// --- Request DTOs ---

// CreateMaterialRequest is the request body for creating a material.
type CreateMaterialRequest struct {
	Name     string         `json:"name" binding:"required"`
	BaseUnit material.Unit  `json:"baseUnit" binding:"required"`
	Category string         `json:"category"`
	MinLevel types.Quantity `json:"minLevel"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateMaterialRequest) ToEntity() *material.Material {
	m := material.NewMaterial(r.Name, r.BaseUnit)
	m.Category = r.Category
	m.MinLevel = r.MinLevel
	return m
}

// UpdateMaterialRequest is the request body for updating a material.
type UpdateMaterialRequest struct {
	Name     string         `json:"name" binding:"required"`
	BaseUnit material.Unit  `json:"baseUnit" binding:"required"`
	Category string         `json:"category"`
	MinLevel types.Quantity `json:"minLevel"`
	Version  int            `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateMaterialRequest) ApplyTo(m *material.Material) {
	m.Name = r.Name
	m.BaseUnit = r.BaseUnit
	m.Category = r.Category
	m.MinLevel = r.MinLevel
	m.Version = r.Version
}

// --- Response DTOs ---

// MaterialResponse is the response body for a material.
type MaterialResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	BaseUnit     material.Unit  `json:"baseUnit"`
	Category     string         `json:"category,omitempty"`
	MinLevel     types.Quantity `json:"minLevel"`
	AvgUnitPrice *types.Money   `json:"avgUnitPrice,omitempty"`
	Version      int            `json:"version"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// FromMaterial creates response DTO from domain entity.
func FromMaterial(m *material.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:           m.ID.String(),
		Name:         m.Name,
		BaseUnit:     m.BaseUnit,
		Category:     m.Category,
		MinLevel:     m.MinLevel,
		AvgUnitPrice: m.AvgUnitPrice,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// CriticalMaterialResponse pairs a material with its current stock.
type CriticalMaterialResponse struct {
	MaterialResponse
	CurrentStock types.Quantity `json:"currentStock"`
}

// FromCriticalMaterial creates response DTO from the domain report.
func FromCriticalMaterial(cm material.CriticalMaterial) *CriticalMaterialResponse {
	return &CriticalMaterialResponse{
		MaterialResponse: *FromMaterial(&cm.Material),
		CurrentStock:     cm.CurrentStock,
	}
}
