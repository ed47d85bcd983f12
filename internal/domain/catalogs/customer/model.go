// Package customer implements the customer catalog.
package customer

import (
	"context"
	"time"

	"doceria/internal/core/apperror"
	"doceria/internal/core/entity"
)

// Customer is a buyer record kept for orders and contact.
type Customer struct {
	entity.Base

	Name     string     `db:"name" json:"name"`
	Phone    string     `db:"phone" json:"phone,omitempty"`
	Email    string     `db:"email" json:"email,omitempty"`
	Address  string     `db:"address" json:"address,omitempty"`
	Birthday *time.Time `db:"birthday" json:"birthday,omitempty"`
	Notes    string     `db:"notes" json:"notes,omitempty"`
}

func NewCustomer(name string) *Customer {
	return &Customer{Base: entity.NewBase(), Name: name}
}

func (c *Customer) Validate(_ context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required", map[string]any{"field": "name"})
	}
	return nil
}
