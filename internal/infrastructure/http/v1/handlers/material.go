package handlers

import (
	"github.com/gin-gonic/gin"

	"doceria/internal/domain/catalogs/material"
	"doceria/internal/infrastructure/http/v1/dto"
)

// MaterialHandler handles HTTP requests for raw materials.
type MaterialHandler struct {
	*BaseHandler
	service *material.Service
}

// NewMaterialHandler creates a new material handler.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHandler {
	return &MaterialHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/materials.
func (h *MaterialHandler) Create(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, m.ID)
}

// GetByID handles GET /catalog/materials/:id.
func (h *MaterialHandler) GetByID(c *gin.Context) {
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMaterial(m))
}

// Update handles PUT /catalog/materials/:id.
func (h *MaterialHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.GetByID(ctx, materialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(m)
	if err := h.service.Update(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMaterial(m))
}

// Delete handles DELETE /catalog/materials/:id.
func (h *MaterialHandler) Delete(c *gin.Context) {
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), materialID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /catalog/materials.
func (h *MaterialHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.MaterialResponse, 0, len(items))
	for _, m := range items {
		resp = append(resp, dto.FromMaterial(m))
	}
	h.OK(c, resp)
}

// CheckUsage handles GET /catalog/materials/:id/usage.
func (h *MaterialHandler) CheckUsage(c *gin.Context) {
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	report, err := h.service.CheckUsage(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Critical handles GET /catalog/materials/critical.
func (h *MaterialHandler) Critical(c *gin.Context) {
	items, err := h.service.Critical(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.CriticalMaterialResponse, 0, len(items))
	for _, cm := range items {
		resp = append(resp, dto.FromCriticalMaterial(cm))
	}
	h.OK(c, resp)
}
