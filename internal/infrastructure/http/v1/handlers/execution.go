package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/domain/execution"
	"github.com/Skalersaas/warehouse/internal/domain/reconcile"
)

// ExecutionHandler exposes the execution ledger and the manual
// reconciliation trigger.
type ExecutionHandler struct {
	*BaseHandler
	ledger *execution.Service
	worker *reconcile.Worker
}

// NewExecutionHandler creates a new execution handler.
func NewExecutionHandler(base *BaseHandler, ledger *execution.Service, worker *reconcile.Worker) *ExecutionHandler {
	return &ExecutionHandler{BaseHandler: base, ledger: ledger, worker: worker}
}

func (h *ExecutionHandler) parseDate(c *gin.Context) (time.Time, bool) {
	raw := c.Param("date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").WithDetail("date", raw))
		return time.Time{}, false
	}
	return date, true
}

// Get handles GET /executions/:date.
func (h *ExecutionHandler) Get(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}

	exec, err := h.ledger.Get(c.Request.Context(), reconcile.WorkerName, date)
	if err != nil {
		h.Error(c, err)
		return
	}
	if exec == nil {
		h.Error(c, apperror.NewNotFound("execution", c.Param("date")))
		return
	}
	h.OK(c, exec)
}

// List handles GET /executions.
func (h *ExecutionHandler) List(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 30)

	execs, err := h.ledger.ListRecent(c.Request.Context(), reconcile.WorkerName, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": execs})
}

// Reset handles DELETE /executions/:date. Administrative override: the
// next scheduled or manual run will reprocess the day.
func (h *ExecutionHandler) Reset(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}

	if err := h.ledger.Reset(c.Request.Context(), reconcile.WorkerName, date); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Run handles POST /executions/:date/run, triggering reconciliation for
// the given date immediately. With ?force=true the existing record is
// reset first.
func (h *ExecutionHandler) Run(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	if err := h.worker.RunOnce(c.Request.Context(), date, force); err != nil {
		h.Error(c, err)
		return
	}

	exec, err := h.ledger.Get(c.Request.Context(), reconcile.WorkerName, date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, exec)
}
