// Package material implements the raw-material catalog.
package material

import (
	"context"

	"doceria/internal/core/apperror"
	"doceria/internal/core/entity"
	"doceria/internal/core/types"
)

// Unit is the base measurement unit of a material. Batch quantities
// and recipe ingredient quantities are expressed in this unit.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
	UnitLiter    Unit = "l"
	UnitMillil   Unit = "ml"
	UnitPiece    Unit = "un"
	UnitCan      Unit = "lata"
	UnitBox      Unit = "caixa"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMillil, UnitPiece, UnitCan, UnitBox:
		return true
	}
	return false
}

// Material is a raw material (ingredient stock item).
type Material struct {
	entity.Base

	Name     string         `db:"name" json:"name"`
	BaseUnit Unit           `db:"base_unit" json:"baseUnit"`
	Category string         `db:"category" json:"category,omitempty"`
	MinLevel types.Quantity `db:"min_level" json:"minLevel"`

	// AvgUnitPrice is maintained by the stock service as batches with
	// prices come and go. Nil until the first priced batch exists.
	AvgUnitPrice *types.Money `db:"avg_unit_price" json:"avgUnitPrice,omitempty"`
}

func NewMaterial(name string, unit Unit) *Material {
	return &Material{Base: entity.NewBase(), Name: name, BaseUnit: unit}
}

func (m *Material) Validate(_ context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required", map[string]any{"field": "name"})
	}
	if !m.BaseUnit.Valid() {
		return apperror.NewValidation("invalid base unit", map[string]any{"field": "baseUnit", "value": string(m.BaseUnit)})
	}
	if m.MinLevel.IsNegative() {
		return apperror.NewValidation("minimum level cannot be negative", map[string]any{"field": "minLevel"})
	}
	return nil
}

// CriticalMaterial is a material whose current stock sits at or below
// its minimum level.
type CriticalMaterial struct {
	Material
	CurrentStock types.Quantity `json:"currentStock"`
}

// UsageReport lists the recipes referencing a material.
type UsageReport struct {
	IsUsed  bool        `json:"isUsed"`
	Recipes []UsageLine `json:"recipes,omitempty"`
}

// UsageLine is one recipe reference in a usage report.
type UsageLine struct {
	RecipeName string         `json:"recipeName"`
	Quantity   types.Quantity `json:"quantity"`
}
