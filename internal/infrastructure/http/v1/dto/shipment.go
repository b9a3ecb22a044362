package dto

import (
	"time"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/domain/documents/shipment"
)

// CreateShipmentRequest creates a shipment document in Draft.
type CreateShipmentRequest struct {
	Number   string                `json:"number,omitempty"`
	Date     time.Time             `json:"date" binding:"required"`
	ClientID string                `json:"clientId" binding:"required"`
	Comment  string                `json:"comment,omitempty"`
	Lines    []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateShipmentRequest) ToEntity() (*shipment.Shipment, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return nil, apperror.NewValidation("invalid clientId").
			WithDetail("value", r.ClientID)
	}

	doc := shipment.NewShipment(clientID)
	doc.Number = r.Number
	doc.Date = r.Date
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

// UpdateShipmentRequest replaces a shipment's mutable fields and lines.
// Status is not settable here; sign/revoke have their own endpoints.
type UpdateShipmentRequest struct {
	Date     time.Time             `json:"date" binding:"required"`
	ClientID string                `json:"clientId" binding:"required"`
	Comment  string                `json:"comment,omitempty"`
	Lines    []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ApplyTo applies the request onto an existing document.
func (r *UpdateShipmentRequest) ApplyTo(doc *shipment.Shipment) error {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return apperror.NewValidation("invalid clientId").
			WithDetail("value", r.ClientID)
	}

	doc.Date = r.Date
	doc.ClientID = clientID
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
