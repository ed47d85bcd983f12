package handlers

import (
	"github.com/gin-gonic/gin"

	"doceria/internal/core/id"
	"doceria/internal/domain/stock"
	"doceria/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for purchase batches, the
// write-off log and computed stock levels.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// --- Batches ---

// CreateBatch handles POST /stock/batches.
func (h *StockHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := stock.NewBatch(id.MustParse(req.MaterialID), req.InitialQty)
	b.ExpiresAt = req.ExpiresAt
	b.TotalCost = req.TotalCost
	b.UnitPrice = req.UnitPrice

	if err := h.service.CreateBatch(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, b.ID)
}

// GetBatch handles GET /stock/batches/:id.
func (h *StockHandler) GetBatch(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatch(b))
}

// UpdateBatch handles PUT /stock/batches/:id.
func (h *StockHandler) UpdateBatch(c *gin.Context) {
	ctx := c.Request.Context()
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetBatch(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b.MaterialID = id.MustParse(req.MaterialID)
	b.InitialQty = req.InitialQty
	b.ExpiresAt = req.ExpiresAt
	b.TotalCost = req.TotalCost
	b.UnitPrice = req.UnitPrice
	b.Version = req.Version

	if err := h.service.UpdateBatch(ctx, b); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatch(b))
}

// DeleteBatch handles DELETE /stock/batches/:id.
func (h *StockHandler) DeleteBatch(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBatch(c.Request.Context(), batchID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListBatches handles GET /stock/batches.
func (h *StockHandler) ListBatches(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := stock.BatchFilter{ListFilter: query.ToFilter()}
	if materialID := c.Query("materialId"); materialID != "" {
		parsed, err := id.Parse(materialID)
		if err == nil {
			filter.MaterialID = &parsed
		}
	}

	items, err := h.service.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.BatchResponse, 0, len(items))
	for _, b := range items {
		resp = append(resp, dto.FromBatch(b))
	}
	h.OK(c, resp)
}

// --- Write-offs ---

// CreateWriteoff handles POST /stock/writeoffs.
func (h *StockHandler) CreateWriteoff(c *gin.Context) {
	var req dto.CreateWriteoffRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w := stock.NewWriteoff(id.MustParse(req.BatchID), req.Quantity, req.Reason)
	w.Note = req.Note
	if req.WrittenOffAt != nil {
		w.WrittenOffAt = *req.WrittenOffAt
	}

	if err := h.service.RegisterWriteoff(c.Request.Context(), w); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, w.ID)
}

// DeleteWriteoff handles DELETE /stock/writeoffs/:id.
func (h *StockHandler) DeleteWriteoff(c *gin.Context) {
	writeoffID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteWriteoff(c.Request.Context(), writeoffID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListWriteoffs handles GET /stock/writeoffs.
func (h *StockHandler) ListWriteoffs(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := stock.WriteoffFilter{ListFilter: query.ToFilter()}
	if batchID := c.Query("batchId"); batchID != "" {
		parsed, err := id.Parse(batchID)
		if err == nil {
			filter.BatchID = &parsed
		}
	}
	if materialID := c.Query("materialId"); materialID != "" {
		parsed, err := id.Parse(materialID)
		if err == nil {
			filter.MaterialID = &parsed
		}
	}
	if orderID := c.Query("productionOrderId"); orderID != "" {
		parsed, err := id.Parse(orderID)
		if err == nil {
			filter.ProductionOrderID = &parsed
		}
	}

	items, err := h.service.ListWriteoffs(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]*dto.WriteoffResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.FromWriteoff(&items[i]))
	}
	h.OK(c, resp)
}

// --- Levels ---

// Level handles GET /stock/levels/:materialId.
func (h *StockHandler) Level(c *gin.Context) {
	materialID, ok := h.ParseID(c, "materialId")
	if !ok {
		return
	}

	level, err := h.service.CurrentStock(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLevel(level))
}

// Levels handles GET /stock/levels.
func (h *StockHandler) Levels(c *gin.Context) {
	levels, err := h.service.CurrentStockAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		resp = append(resp, dto.FromLevel(l))
	}
	h.OK(c, resp)
}
