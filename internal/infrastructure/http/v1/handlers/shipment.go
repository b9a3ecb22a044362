package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/domain"
	"github.com/Skalersaas/warehouse/internal/domain/documents/shipment"
	"github.com/Skalersaas/warehouse/internal/infrastructure/http/v1/dto"
)

// ShipmentHandler handles HTTP requests for shipment documents.
type ShipmentHandler struct {
	*BaseHandler
	service *shipment.Service
}

// NewShipmentHandler creates a new shipment handler.
func NewShipmentHandler(base *BaseHandler, service *shipment.Service) *ShipmentHandler {
	return &ShipmentHandler{BaseHandler: base, service: service}
}

// Create handles POST /documents/shipments.
func (h *ShipmentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Get handles GET /documents/shipments/:id.
func (h *ShipmentHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Update handles PUT /documents/shipments/:id.
func (h *ShipmentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /documents/shipments/:id.
func (h *ShipmentHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Sign handles POST /documents/shipments/:id/sign.
func (h *ShipmentHandler) Sign(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Sign(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "shipment signed")
}

// Revoke handles POST /documents/shipments/:id/revoke.
func (h *ShipmentHandler) Revoke(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Revoke(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "shipment revoked")
}

// List handles GET /documents/shipments.
func (h *ShipmentHandler) List(c *gin.Context) {
	filter := shipment.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")

	if clientID := c.Query("clientId"); clientID != "" {
		if parsed, err := id.Parse(clientID); err == nil {
			filter.ClientID = &parsed
		}
	}
	if status := c.Query("status"); status != "" {
		val := shipment.Status(status)
		filter.Status = &val
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
