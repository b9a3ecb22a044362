package dto

import (
	"time"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
	"github.com/Skalersaas/warehouse/internal/domain/documents/receipt"
)

// DocumentLineRequest is a line in a document create/update request.
// Quantity is a decimal string to keep exact values on the wire.
type DocumentLineRequest struct {
	ResourceID string `json:"resourceId" binding:"required"`
	UnitID     string `json:"unitId" binding:"required"`
	Quantity   string `json:"quantity" binding:"required"`
}

func (r *DocumentLineRequest) parse() (id.ID, id.ID, types.Quantity, error) {
	resourceID, err := id.Parse(r.ResourceID)
	if err != nil {
		return id.Nil(), id.Nil(), 0, apperror.NewValidation("invalid resourceId").
			WithDetail("value", r.ResourceID)
	}
	unitID, err := id.Parse(r.UnitID)
	if err != nil {
		return id.Nil(), id.Nil(), 0, apperror.NewValidation("invalid unitId").
			WithDetail("value", r.UnitID)
	}
	qty, err := types.NewQuantityFromString(r.Quantity)
	if err != nil {
		return id.Nil(), id.Nil(), 0, apperror.NewValidation("invalid quantity").
			WithDetail("value", r.Quantity)
	}
	return resourceID, unitID, qty, nil
}

// CreateReceiptRequest creates a receipt document.
type CreateReceiptRequest struct {
	Number       string                `json:"number,omitempty"`
	Date         time.Time             `json:"date" binding:"required"`
	SupplierName string                `json:"supplierName,omitempty"`
	Comment      string                `json:"comment,omitempty"`
	Lines        []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateReceiptRequest) ToEntity() (*receipt.Receipt, error) {
	doc := receipt.NewReceipt()
	doc.Number = r.Number
	doc.Date = r.Date
	doc.SupplierName = r.SupplierName
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		resourceID, unitID, qty, err := line.parse()
		if err != nil {
			return nil, err
		}
		doc.AddLine(resourceID, unitID, qty)
	}
	return doc, nil
}

// UpdateReceiptRequest replaces a receipt's mutable fields and lines.
type UpdateReceiptRequest struct {
	Date         time.Time             `json:"date" binding:"required"`
	SupplierName string                `json:"supplierName,omitempty"`
	Comment      string                `json:"comment,omitempty"`
	Lines        []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ApplyTo applies the request onto an existing document.
func (r *UpdateReceiptRequest) ApplyTo(doc *receipt.Receipt) error {
	doc.Date = r.Date
	doc.SupplierName = r.SupplierName
	doc.Comment = r.Comment

	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		resourceID, unitID, qty, err := line.parse()
		if err != nil {
			return err
		}
		doc.AddLine(resourceID, unitID, qty)
	}
	return nil
}
