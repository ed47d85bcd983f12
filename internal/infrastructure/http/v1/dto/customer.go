package dto

import (
	"time"

	"doceria/internal/domain/catalogs/customer"
)

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Name     string     `json:"name" binding:"required"`
	Phone    string     `json:"phone"`
	Email    string     `json:"email" binding:"omitempty,email"`
	Address  string     `json:"address"`
	Birthday *time.Time `json:"birthday"`
	Notes    string     `json:"notes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Name)
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.Birthday = r.Birthday
	c.Notes = r.Notes
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Name     string     `json:"name" binding:"required"`
	Phone    string     `json:"phone"`
	Email    string     `json:"email" binding:"omitempty,email"`
	Address  string     `json:"address"`
	Birthday *time.Time `json:"birthday"`
	Notes    string     `json:"notes"`
	Version  int        `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Name = r.Name
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.Birthday = r.Birthday
	c.Notes = r.Notes
	c.Version = r.Version
}

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	Address   string     `json:"address,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Birthday:  c.Birthday,
		Notes:     c.Notes,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
