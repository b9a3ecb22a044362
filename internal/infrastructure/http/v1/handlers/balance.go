package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
)

// BalanceHandler exposes read access to the balance table.
type BalanceHandler struct {
	*BaseHandler
	service *balance.Service
}

// NewBalanceHandler creates a new balance handler.
func NewBalanceHandler(base *BaseHandler, service *balance.Service) *BalanceHandler {
	return &BalanceHandler{BaseHandler: base, service: service}
}

// List handles GET /balances.
func (h *BalanceHandler) List(c *gin.Context) {
	filter := balance.ListFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if resourceID := c.Query("resourceId"); resourceID != "" {
		parsed, err := id.Parse(resourceID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid resourceId").WithDetail("value", resourceID))
			return
		}
		filter.ResourceIDs = []id.ID{parsed}
	}
	if unitID := c.Query("unitId"); unitID != "" {
		parsed, err := id.Parse(unitID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid unitId").WithDetail("value", unitID))
			return
		}
		filter.UnitIDs = []id.ID{parsed}
	}

	balances, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": balances})
}

// GetPair handles GET /balances/:resourceId/:unitId.
// Absence of a row is zero stock, so this never 404s on a valid pair.
func (h *BalanceHandler) GetPair(c *gin.Context) {
	resourceID, err := id.Parse(c.Param("resourceId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid resourceId").WithDetail("value", c.Param("resourceId")))
		return
	}
	unitID, err := id.Parse(c.Param("unitId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unitId").WithDetail("value", c.Param("unitId")))
		return
	}

	qty, err := h.service.GetCurrentBalance(c.Request.Context(), resourceID, unitID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"resourceId": resourceID,
		"unitId":     unitID,
		"quantity":   qty,
	})
}
