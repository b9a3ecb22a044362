package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Skalersaas/warehouse/internal/domain"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/client"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/resource"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/unit"
	"github.com/Skalersaas/warehouse/internal/infrastructure/http/v1/dto"
)

func (h *BaseHandler) parseCatalogFilter(c *gin.Context) domain.ListFilter {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.IncludeArchived = c.Query("includeArchived") == "true"
	filter.OrderBy = c.Query("orderBy")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	return filter
}

// ResourceHandler handles resource catalog endpoints.
type ResourceHandler struct {
	*BaseHandler
	service *resource.Service
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(base *BaseHandler, service *resource.Service) *ResourceHandler {
	return &ResourceHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalogs/resources.
func (h *ResourceHandler) Create(c *gin.Context) {
	var req dto.CreateResourceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), res); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, res)
}

// Get handles GET /catalogs/resources/:id.
func (h *ResourceHandler) Get(c *gin.Context) {
	resID, ok := h.ParseID(c)
	if !ok {
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), resID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Update handles PUT /catalogs/resources/:id.
func (h *ResourceHandler) Update(c *gin.Context) {
	resID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateResourceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), resID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(res)

	if err := h.service.Update(c.Request.Context(), res); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Archive handles POST /catalogs/resources/:id/archive.
func (h *ResourceHandler) Archive(c *gin.Context) {
	resID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Archive(c.Request.Context(), resID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "resource archived")
}

// Unarchive handles POST /catalogs/resources/:id/unarchive.
func (h *ResourceHandler) Unarchive(c *gin.Context) {
	resID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Unarchive(c.Request.Context(), resID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "resource restored")
}

// List handles GET /catalogs/resources.
func (h *ResourceHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.parseCatalogFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// UnitHandler handles unit catalog endpoints.
type UnitHandler struct {
	*BaseHandler
	service *unit.Service
}

// NewUnitHandler creates a new unit handler.
func NewUnitHandler(base *BaseHandler, service *unit.Service) *UnitHandler {
	return &UnitHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalogs/units.
func (h *UnitHandler) Create(c *gin.Context) {
	var req dto.CreateUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Create(c.Request.Context(), u); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, u)
}

// Get handles GET /catalogs/units/:id.
func (h *UnitHandler) Get(c *gin.Context) {
	unitID, ok := h.ParseID(c)
	if !ok {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), unitID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// Update handles PUT /catalogs/units/:id.
func (h *UnitHandler) Update(c *gin.Context) {
	unitID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), unitID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(u); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), u); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// Archive handles POST /catalogs/units/:id/archive.
func (h *UnitHandler) Archive(c *gin.Context) {
	unitID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Archive(c.Request.Context(), unitID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "unit archived")
}

// Unarchive handles POST /catalogs/units/:id/unarchive.
func (h *UnitHandler) Unarchive(c *gin.Context) {
	unitID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Unarchive(c.Request.Context(), unitID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "unit restored")
}

// List handles GET /catalogs/units.
func (h *UnitHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.parseCatalogFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ClientHandler handles client catalog endpoints.
type ClientHandler struct {
	*BaseHandler
	service *client.Service
}

// NewClientHandler creates a new client handler.
func NewClientHandler(base *BaseHandler, service *client.Service) *ClientHandler {
	return &ClientHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalogs/clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cl := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cl); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cl)
}

// Get handles GET /catalogs/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	clientID, ok := h.ParseID(c)
	if !ok {
		return
	}

	cl, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cl)
}

// Update handles PUT /catalogs/clients/:id.
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cl, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(cl)

	if err := h.service.Update(c.Request.Context(), cl); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cl)
}

// Archive handles POST /catalogs/clients/:id/archive.
func (h *ClientHandler) Archive(c *gin.Context) {
	clientID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Archive(c.Request.Context(), clientID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "client archived")
}

// Unarchive handles POST /catalogs/clients/:id/unarchive.
func (h *ClientHandler) Unarchive(c *gin.Context) {
	clientID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Unarchive(c.Request.Context(), clientID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "client restored")
}

// List handles GET /catalogs/clients.
func (h *ClientHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.parseCatalogFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
